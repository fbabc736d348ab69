package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/notify"
	"github.com/shopspring/decimal"
)

var errBoom = errors.New("boom")

func userSession(id string) *entity.Session {
	return &entity.Session{ID: "sess-" + id, UserID: id, Email: id + "@example.com"}
}

func adminSession() *entity.Session {
	return &entity.Session{ID: "sess-admin", UserID: "admin-1", Email: "admin@example.com", IsAdmin: true}
}

// products

type fakeProducts struct {
	mu    sync.Mutex
	items map[string]*entity.Product
}

func newFakeProducts(ps ...entity.Product) *fakeProducts {
	f := &fakeProducts{items: map[string]*entity.Product{}}
	for i := range ps {
		p := ps[i]
		f.items[p.ID] = &p
	}
	return f
}

func (f *fakeProducts) List(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, int, error) {
	all, _ := f.ListAll(ctx)
	return all, len(all), nil
}

func (f *fakeProducts) ListAll(ctx context.Context) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.Product{}
	for _, p := range f.items {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProducts) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) Suggest(ctx context.Context, query string, limit int) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.Product{}
	for _, p := range f.items {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Create(ctx context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = fmt.Sprintf("prod-%d", len(f.items)+1)
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProducts) Update(ctx context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[p.ID]; !ok {
		return entity.ErrNotFound
	}
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProducts) SetActive(ctx context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return entity.ErrNotFound
	}
	p.IsActive = active
	return nil
}

func (f *fakeProducts) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return entity.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) Seed(ctx context.Context, products []entity.Product) error { return nil }

// cart

type fakeCarts struct {
	mu       sync.Mutex
	products *fakeProducts
	rows     []entity.CartItem
	seq      int
	clearErr error
}

func newFakeCarts(products *fakeProducts) *fakeCarts {
	return &fakeCarts{products: products}
}

func (f *fakeCarts) AddOrIncrement(ctx context.Context, userID, productID string, qty int) (*entity.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].UserID == userID && f.rows[i].ProductID == productID {
			f.rows[i].Quantity += qty
			cp := f.rows[i]
			return &cp, nil
		}
	}
	f.seq++
	row := entity.CartItem{ID: fmt.Sprintf("item-%d", f.seq), UserID: userID, ProductID: productID, Quantity: qty}
	f.rows = append(f.rows, row)
	return &row, nil
}

func (f *fakeCarts) SetQuantity(ctx context.Context, userID, itemID string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == itemID && f.rows[i].UserID == userID {
			f.rows[i].Quantity = qty
			return nil
		}
	}
	return entity.ErrNotFound
}

func (f *fakeCarts) Delete(ctx context.Context, userID, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == itemID && f.rows[i].UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return entity.ErrNotFound
}

func (f *fakeCarts) Clear(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeCarts) ListByUser(ctx context.Context, userID string) ([]entity.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.CartItem{}
	for _, r := range f.rows {
		if r.UserID != userID {
			continue
		}
		if p, err := f.products.FindByID(ctx, r.ProductID); err == nil {
			r.Product = *p
		}
		out = append(out, r)
	}
	return out, nil
}

// delivery areas

type fakeAreas struct {
	mu      sync.Mutex
	areas   map[string]*entity.DeliveryArea
	lookups int
	err     error
}

func newFakeAreas(as ...entity.DeliveryArea) *fakeAreas {
	f := &fakeAreas{areas: map[string]*entity.DeliveryArea{}}
	for i := range as {
		a := as[i]
		if a.ID == "" {
			a.ID = "area-" + a.Pincode
		}
		f.areas[a.ID] = &a
	}
	return f
}

func (f *fakeAreas) FindActiveByPincode(ctx context.Context, pincode string) (*entity.DeliveryArea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.areas {
		if a.Pincode == pincode && a.IsActive {
			cp := *a
			return &cp, nil
		}
	}
	return nil, entity.ErrNotServiceable
}

func (f *fakeAreas) List(ctx context.Context) ([]entity.DeliveryArea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.DeliveryArea{}
	for _, a := range f.areas {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAreas) FindByID(ctx context.Context, id string) (*entity.DeliveryArea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.areas[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAreas) Create(ctx context.Context, a *entity.DeliveryArea) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.areas {
		if existing.Pincode == a.Pincode && existing.IsActive && a.IsActive {
			return entity.ErrDuplicatePincode
		}
	}
	a.ID = "area-" + a.Pincode
	cp := *a
	f.areas[a.ID] = &cp
	return nil
}

func (f *fakeAreas) Update(ctx context.Context, a *entity.DeliveryArea) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.areas[a.ID]; !ok {
		return entity.ErrNotFound
	}
	cp := *a
	f.areas[a.ID] = &cp
	return nil
}

func (f *fakeAreas) SetActive(ctx context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.areas[id]
	if !ok {
		return entity.ErrNotFound
	}
	a.IsActive = active
	return nil
}

func (f *fakeAreas) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.areas[id]; !ok {
		return entity.ErrNotFound
	}
	delete(f.areas, id)
	return nil
}

// orders

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[string]*entity.Order
	seq       int
	createErr error
	findCalls int
}

func newFakeOrders(seed ...entity.Order) *fakeOrders {
	f := &fakeOrders{orders: map[string]*entity.Order{}}
	for i := range seed {
		o := seed[i]
		f.orders[o.ID] = &o
	}
	return f
}

func (f *fakeOrders) Create(ctx context.Context, order *entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	order.ID = fmt.Sprintf("order-%d", f.seq)
	order.OrderNumber = fmt.Sprintf("MA261018%06d", f.seq)
	order.CreatedAt = time.Now()
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrders) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	o, ok := f.orders[id]
	if !ok {
		return nil, entity.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) FindByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.OrderNumber == orderNumber {
			cp := *o
			return &cp, nil
		}
	}
	return nil, entity.ErrOrderNotFound
}

func (f *fakeOrders) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) List(ctx context.Context, query string, limit int) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.Order{}
	for _, o := range f.orders {
		if strings.Contains(o.OrderNumber, query) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, entity.ErrOrderNotFound
	}
	prev := *o
	o.Status = status
	return &prev, nil
}

func (f *fakeOrders) Stats(ctx context.Context) (*entity.OverviewStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &entity.OverviewStats{Orders: len(f.orders), Revenue: decimal.Zero}, nil
}

func (f *fakeOrders) setStatus(id string, status entity.OrderStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[id].Status = status
}

// users

type fakeUsers struct {
	mu       sync.Mutex
	users    map[string]*entity.User
	profiles map[string]*entity.Profile
	creates  int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*entity.User{}, profiles: map[string]*entity.Profile{}}
}

func (f *fakeUsers) Create(ctx context.Context, user *entity.User, profile *entity.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	email := strings.ToLower(user.Email)
	if _, ok := f.users[email]; ok {
		return entity.ErrEmailTaken
	}
	user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	user.Email = email
	profile.UserID = user.ID
	profile.Email = email
	u, p := *user, *profile
	f.users[email] = &u
	f.profiles[user.ID] = &p
	return nil
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[strings.ToLower(email)]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, p *entity.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.profiles[p.UserID] = &cp
	return nil
}

func (f *fakeUsers) ListProfiles(ctx context.Context) ([]entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.Profile{}
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeUsers) addProfile(p entity.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.UserID] = &p
}

// audit

type fakeAudit struct {
	mu      sync.Mutex
	entries []entity.AuditLogEntry
	err     error
}

func (f *fakeAudit) Append(ctx context.Context, entry *entity.AuditLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAudit) List(ctx context.Context, filter entity.AuditFilter) ([]entity.AuditLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.AuditLogEntry(nil), f.entries...), nil
}

// sessions and checkout state

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[string]entity.Session{}}
}

func (f *fakeSessions) Save(ctx context.Context, s *entity.Session, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeSessions) Get(ctx context.Context, id string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, entity.ErrUnauthorized
	}
	return &s, nil
}

func (f *fakeSessions) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

type fakeCheckouts struct {
	mu    sync.Mutex
	state map[string]entity.Checkout
}

func newFakeCheckouts() *fakeCheckouts {
	return &fakeCheckouts{state: map[string]entity.Checkout{}}
}

func (f *fakeCheckouts) Load(ctx context.Context, userID string) (*entity.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.state[userID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCheckouts) Save(ctx context.Context, c *entity.Checkout, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state[c.UserID] = *c
	return nil
}

func (f *fakeCheckouts) Delete(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.state, userID)
	return nil
}

// messaging and notification

type publishedEvent struct {
	Topic string
	Key   string
	Event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (f *fakePublisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []notify.StatusEmail
	err  error
}

func (f *fakeMailer) SendOrderStatusEmail(ctx context.Context, e notify.StatusEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, e)
	return nil
}

type fakeFeed struct {
	ch         chan entity.OrderUpdated
	subscribed chan string
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{ch: make(chan entity.OrderUpdated, 4), subscribed: make(chan string, 1)}
}

func (f *fakeFeed) Subscribe(ctx context.Context, orderID string) (<-chan entity.OrderUpdated, error) {
	f.subscribed <- orderID
	return f.ch, nil
}
