package service

import (
	"context"
	"testing"
	"time"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	svc       *CheckoutService
	products  *fakeProducts
	carts     *fakeCarts
	areas     *fakeAreas
	orders    *fakeOrders
	store     *fakeCheckouts
	publisher *fakePublisher
	cart      *CartService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		products:  catalogFixture(),
		areas:     deliveryFixture(),
		orders:    newFakeOrders(),
		store:     newFakeCheckouts(),
		publisher: &fakePublisher{},
	}
	f.carts = newFakeCarts(f.products)
	f.cart = NewCartService(f.carts, f.products)
	f.svc = NewCheckoutService(f.store, f.carts, f.orders, NewDeliveryService(f.areas), f.publisher, time.Hour)
	return f
}

func shippingTo(pincode string) entity.ShippingAddress {
	return entity.ShippingAddress{
		FullName:     "Asha Patil",
		Phone:        "9876543210",
		AddressLine1: "12 MG Road",
		City:         "Mumbai",
		State:        "Maharashtra",
		Pincode:      pincode,
	}
}

// toReview walks the wizard to the review step.
func (f *checkoutFixture) toReview(t *testing.T, sess *entity.Session, pincode string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.UpdateAddress(ctx, sess, shippingTo(pincode), "")
	require.NoError(t, err)
	_, err = f.svc.Continue(ctx, sess)
	require.NoError(t, err)
	view, err := f.svc.Continue(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, entity.StepReview, view.Step)
}

func TestCheckout_UnserviceablePincodeBlocksContinue(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	sess := userSession("u1")

	view, err := f.svc.UpdateAddress(ctx, sess, shippingTo("999999"), "")
	require.NoError(t, err)
	assert.False(t, view.CanContinue)
	assert.Equal(t, entity.EligibilityUnavailable, view.Eligibility.State)

	_, err = f.svc.Continue(ctx, sess)
	assert.ErrorIs(t, err, entity.ErrNotServiceable)

	view, err = f.svc.Get(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, entity.StepAddress, view.Step)
}

func TestCheckout_ServiceablePincodeEnablesContinue(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	sess := userSession("u1")

	view, err := f.svc.UpdateAddress(ctx, sess, shippingTo("400001"), "")
	require.NoError(t, err)
	assert.True(t, view.CanContinue)
	assert.Equal(t, "FREE", view.Eligibility.ChargeLabel)
	assert.Equal(t, "Same Day", view.Eligibility.ETALabel)

	view, err = f.svc.Continue(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, entity.StepPayment, view.Step)
}

func TestCheckout_AddressEditRechecksOnlyOnPincodeChange(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	sess := userSession("u1")

	_, err := f.svc.UpdateAddress(ctx, sess, shippingTo("400001"), "")
	require.NoError(t, err)
	addr := shippingTo("400001")
	addr.AddressLine2 = "Flat 4"
	_, err = f.svc.UpdateAddress(ctx, sess, addr, "")
	require.NoError(t, err)
	assert.Equal(t, 1, f.areas.lookups)

	_, err = f.svc.UpdateAddress(ctx, sess, shippingTo("4000"), "")
	require.NoError(t, err)
	assert.Equal(t, 1, f.areas.lookups)
}

func TestCheckout_PlaceCreatesOrderAndClearsCart(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	sess := userSession("u1")

	_, err := f.cart.Add(ctx, sess, "brake", 1)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, sess, "plug", 2)
	require.NoError(t, err)
	_, err = f.svc.ApplyCoupon(ctx, sess, "save10")
	require.NoError(t, err)

	f.toReview(t, sess, "400050")

	order, err := f.svc.Place(ctx, sess)
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Len(t, order.Items, 2)
	assert.True(t, order.Consistent())
	assert.Equal(t, "2490", order.Subtotal.String())
	assert.Equal(t, "249", order.Discount.String())
	assert.Equal(t, "49", order.DeliveryCharge.String())
	assert.Equal(t, "2290", order.Total.String())

	stored, err := f.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)

	items, _ := f.carts.ListByUser(ctx, "u1")
	assert.Empty(t, items)

	closed, err := f.store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.StepPlaced, closed.Step)
	assert.Equal(t, order.OrderNumber, closed.OrderNumber)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, messaging.TopicOrderPlaced, f.publisher.events[0].Topic)
	placed, ok := f.publisher.events[0].Event.(entity.OrderPlaced)
	require.True(t, ok)
	assert.Equal(t, order.OrderNumber, placed.OrderNumber)
	assert.Equal(t, 2, placed.ItemCount)
}

func TestCheckout_PlacedWizardRejectsSecondPlace(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	sess := userSession("u1")

	_, err := f.cart.Add(ctx, sess, "plug", 1)
	require.NoError(t, err)
	f.toReview(t, sess, "400001")
	order, err := f.svc.Place(ctx, sess)
	require.NoError(t, err)

	view, err := f.svc.Get(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, entity.StepPlaced, view.Step)
	assert.Equal(t, order.OrderNumber, view.OrderNumber)

	_, err = f.cart.Add(ctx, sess, "plug", 1)
	require.NoError(t, err)
	_, err = f.svc.Place(ctx, sess)
	assert.ErrorIs(t, err, entity.ErrCheckoutStep)
	assert.Len(t, f.orders.orders, 1)

	// Editing the address starts a new checkout.
	view, err = f.svc.UpdateAddress(ctx, sess, shippingTo("400050"), "")
	require.NoError(t, err)
	assert.Equal(t, entity.StepAddress, view.Step)
	assert.Empty(t, view.OrderNumber)
}

func TestCheckout_PlaceFailureKeepsCart(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	sess := userSession("u1")

	_, err := f.cart.Add(ctx, sess, "brake", 1)
	require.NoError(t, err)
	f.toReview(t, sess, "400001")

	f.orders.createErr = errBoom
	_, err = f.svc.Place(ctx, sess)
	assert.ErrorIs(t, err, errBoom)

	items, _ := f.carts.ListByUser(ctx, "u1")
	assert.Len(t, items, 1)
	view, err := f.svc.Get(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, entity.StepReview, view.Step)
	assert.Empty(t, f.publisher.events)
}

func TestCheckout_PlaceSurvivesCleanupFailures(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	sess := userSession("u1")

	_, err := f.cart.Add(ctx, sess, "plug", 1)
	require.NoError(t, err)
	f.toReview(t, sess, "400001")

	f.carts.clearErr = errBoom
	f.publisher.err = errBoom
	order, err := f.svc.Place(ctx, sess)
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderNumber)
}

func TestCheckout_PlaceRevalidatesDelivery(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	sess := userSession("u1")

	_, err := f.cart.Add(ctx, sess, "plug", 1)
	require.NoError(t, err)
	f.toReview(t, sess, "400050")

	require.NoError(t, f.areas.SetActive(ctx, "area-400050", false))
	_, err = f.svc.Place(ctx, sess)
	assert.ErrorIs(t, err, entity.ErrNotServiceable)
	assert.Empty(t, f.orders.orders)
}

func TestCheckout_PlaceRequiresReviewAndItems(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	sess := userSession("u1")

	_, err := f.svc.Place(ctx, sess)
	assert.ErrorIs(t, err, entity.ErrCheckoutStep)

	f.toReview(t, sess, "400001")
	_, err = f.svc.Place(ctx, sess)
	assert.ErrorIs(t, err, entity.ErrEmptyCart)
}

func TestCheckout_FailedTransitionNotSaved(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	sess := userSession("u1")

	_, err := f.svc.SelectPayment(ctx, sess, entity.PaymentCOD)
	assert.ErrorIs(t, err, entity.ErrCheckoutStep)
	_, err = f.store.Load(ctx, "u1")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
