package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
)

type addToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) handleGetCart(c *gin.Context) {
	cart, err := h.cart.Get(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	unknown := entity.UnknownEligibility()
	c.JSON(http.StatusOK, gin.H{
		"items":   cart.Items,
		"summary": cart.Summary(entity.Coupon{}, &unknown),
	})
}

func (h *Handler) handleAddToCart(c *gin.Context) {
	var req addToCartRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	item, err := h.cart.Add(c.Request.Context(), currentSession(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) handleUpdateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.cart.UpdateQuantity(c.Request.Context(), currentSession(c), c.Param("id"), req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleRemoveCartItem(c *gin.Context) {
	if err := h.cart.Remove(c.Request.Context(), currentSession(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleClearCart(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), currentSession(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addressRequest struct {
	Address entity.ShippingAddress `json:"address"`
	Notes   string                 `json:"notes"`
}

type paymentRequest struct {
	Method entity.PaymentMethod `json:"payment_method" binding:"required"`
}

type couponRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *Handler) handleGetCheckout(c *gin.Context) {
	view, err := h.checkout.Get(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) handlePaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"payment_methods": entity.PaymentOptions()})
}

// handleUpdateAddress accepts partial forms; field validation is deferred
// to the continue step.
func (h *Handler) handleUpdateAddress(c *gin.Context) {
	var req addressRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.checkout.UpdateAddress(c.Request.Context(), currentSession(c), req.Address, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) handleSelectPayment(c *gin.Context) {
	var req paymentRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.checkout.SelectPayment(c.Request.Context(), currentSession(c), req.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) handleApplyCoupon(c *gin.Context) {
	var req couponRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.checkout.ApplyCoupon(c.Request.Context(), currentSession(c), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) handleRemoveCoupon(c *gin.Context) {
	view, err := h.checkout.RemoveCoupon(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) handleContinueCheckout(c *gin.Context) {
	view, err := h.checkout.Continue(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) handleBackCheckout(c *gin.Context) {
	view, err := h.checkout.Back(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) handlePlaceOrder(c *gin.Context) {
	order, err := h.checkout.Place(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"order_number": order.OrderNumber,
		"order":        order,
	})
}

type trackedOrder struct {
	*entity.Order
	Progress entity.Progress `json:"progress"`
}

func withProgress(o *entity.Order) trackedOrder {
	return trackedOrder{Order: o, Progress: o.Progress()}
}

func (h *Handler) handleListMyOrders(c *gin.Context) {
	orders, err := h.orders.ListMine(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) handleTrackOrder(c *gin.Context) {
	order, err := h.orders.Track(c.Request.Context(), currentSession(c), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withProgress(order))
}
