package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mahalaxmi-auto/storefront/internal/entity"
	"github.com/mahalaxmi-auto/storefront/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memSessions struct {
	mu sync.Mutex
	m  map[string]entity.Session
}

func (s *memSessions) Save(ctx context.Context, sess *entity.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sess.ID] = *sess
	return nil
}

func (s *memSessions) Get(ctx context.Context, id string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[id]
	if !ok {
		return nil, entity.ErrUnauthorized
	}
	return &sess, nil
}

func (s *memSessions) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

type memUsers struct {
	mu       sync.Mutex
	users    map[string]entity.User
	profiles map[string]entity.Profile
}

func (u *memUsers) Create(ctx context.Context, user *entity.User, profile *entity.Profile) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	if _, ok := u.users[user.Email]; ok {
		return entity.ErrEmailTaken
	}
	user.ID = fmt.Sprintf("user-%d", len(u.users)+1)
	profile.UserID, profile.Email = user.ID, user.Email
	u.users[user.Email] = *user
	u.profiles[user.ID] = *profile
	return nil
}

func (u *memUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[strings.ToLower(email)]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &user, nil
}

func (u *memUsers) FindProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	p, ok := u.profiles[userID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &p, nil
}

func (u *memUsers) UpdateProfile(ctx context.Context, p *entity.Profile) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.profiles[p.UserID] = *p
	return nil
}

func (u *memUsers) ListProfiles(ctx context.Context) ([]entity.Profile, error) {
	return nil, nil
}

func (u *memUsers) promote(email string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user := u.users[email]
	p := u.profiles[user.ID]
	p.IsAdmin = true
	u.profiles[user.ID] = p
}

type memAreas struct {
	mu    sync.Mutex
	areas []entity.DeliveryArea
}

func (m *memAreas) FindActiveByPincode(ctx context.Context, pincode string) (*entity.DeliveryArea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.areas {
		if a.Pincode == pincode && a.IsActive {
			return &a, nil
		}
	}
	return nil, entity.ErrNotServiceable
}

func (m *memAreas) List(ctx context.Context) ([]entity.DeliveryArea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.DeliveryArea{}, m.areas...), nil
}

func (m *memAreas) FindByID(ctx context.Context, id string) (*entity.DeliveryArea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.areas {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (m *memAreas) Create(ctx context.Context, a *entity.DeliveryArea) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = "area-" + a.Pincode
	m.areas = append(m.areas, *a)
	return nil
}

func (m *memAreas) Update(ctx context.Context, a *entity.DeliveryArea) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.areas {
		if m.areas[i].ID == a.ID {
			m.areas[i] = *a
			return nil
		}
	}
	return entity.ErrNotFound
}

func (m *memAreas) SetActive(ctx context.Context, id string, active bool) error { return nil }
func (m *memAreas) Delete(ctx context.Context, id string) error                 { return nil }

type memAudit struct{}

func (memAudit) Append(ctx context.Context, entry *entity.AuditLogEntry) error { return nil }
func (memAudit) List(ctx context.Context, filter entity.AuditFilter) ([]entity.AuditLogEntry, error) {
	return nil, nil
}

type testServer struct {
	router *gin.Engine
	users  *memUsers
}

func newTestServer() *testServer {
	users := &memUsers{users: map[string]entity.User{}, profiles: map[string]entity.Profile{}}
	sessions := &memSessions{m: map[string]entity.Session{}}
	auth := service.NewAuthService(users, sessions, "test-secret", time.Hour)
	areas := &memAreas{areas: []entity.DeliveryArea{
		{ID: "area-400001", Pincode: "400001", AreaName: "Fort", City: "Mumbai", DeliveryCharge: decimal.Zero, EstimatedDays: 1, IsActive: true},
	}}

	h := NewHandler(Services{
		Auth:     auth,
		Delivery: service.NewDeliveryService(areas),
		Admin:    service.NewAdminService(nil, nil, areas, users, memAudit{}, nil, nil),
	})
	return &testServer{router: NewRouter(h, nil), users: users}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) signUp(t *testing.T, email string) string {
	t.Helper()
	w := s.do(http.MethodPost, "/api/auth/signup", "",
		fmt.Sprintf(`{"email":%q,"password":"secret123","confirm_password":"secret123","full_name":"Asha"}`, email))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCheckPincodeEndpoint(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/api/delivery/check?pincode=400001", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["available"])
	assert.Equal(t, "FREE", body["charge_label"])
	assert.Equal(t, "Same Day", body["eta_label"])

	w = s.do(http.MethodGet, "/api/delivery/check?pincode=999999", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["available"])

	w = s.do(http.MethodGet, "/api/delivery/check?pincode=12", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "unknown", decode(t, w)["state"])
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodPost, "/api/auth/signup", "",
		`{"email":"asha@example.com","password":"secret123","confirm_password":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "passwords do not match")

	token := s.signUp(t, "asha@example.com")

	w = s.do(http.MethodGet, "/api/auth/me", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)["profile"].(map[string]any)
	assert.Equal(t, "Asha", profile["full_name"])

	w = s.do(http.MethodPost, "/api/auth/signin", "", `{"email":"asha@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/signout", token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/auth/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutes(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/api/orders/track/MA1", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "please login to continue", decode(t, w)["error"])

	w = s.do(http.MethodGet, "/api/cart", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.signUp(t, "asha@example.com")
	w = s.do(http.MethodGet, "/api/admin/delivery-areas", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/functions/send-order-status-email", token, `{}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	s.signUp(t, "admin@example.com")
	s.users.promote("admin@example.com")

	// Admin rights are read at sign-in.
	w := s.do(http.MethodPost, "/api/auth/signin", "", `{"email":"admin@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	return decode(t, w)["token"].(string)
}

func TestAdminRouteWithAdminSession(t *testing.T) {
	s := newTestServer()
	token := s.adminToken(t)
	w := s.do(http.MethodGet, "/api/admin/delivery-areas", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	areas := decode(t, w)["delivery_areas"].([]any)
	assert.Len(t, areas, 1)
}

func TestAdminDeliveryAreaForms_DefaultActive(t *testing.T) {
	s := newTestServer()
	token := s.adminToken(t)

	w := s.do(http.MethodPost, "/api/admin/delivery-areas", token,
		`{"pincode":"560001","area_name":"MG Road","city":"Bengaluru","delivery_charge":"149","estimated_days":4}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["is_active"])

	w = s.do(http.MethodGet, "/api/delivery/check?pincode=560001", "", "")
	assert.Equal(t, true, decode(t, w)["available"])

	w = s.do(http.MethodPut, "/api/admin/delivery-areas/area-400001", token,
		`{"pincode":"400001","area_name":"Fort","city":"Mumbai","delivery_charge":"0","estimated_days":1}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/delivery/check?pincode=400001", "", "")
	assert.Equal(t, true, decode(t, w)["available"])

	w = s.do(http.MethodPost, "/api/admin/delivery-areas", token,
		`{"pincode":"411001","area_name":"Camp","city":"Pune","delivery_charge":"99","estimated_days":3,"is_active":false}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, false, decode(t, w)["is_active"])
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{entity.ErrInvalidPincode, http.StatusBadRequest},
		{entity.ValidationError{Field: "city", Message: "is required"}, http.StatusBadRequest},
		{entity.ErrOrderNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", entity.ErrNotFound), http.StatusNotFound},
		{entity.ErrNotServiceable, http.StatusNotFound},
		{entity.ErrUnauthorized, http.StatusUnauthorized},
		{entity.ErrInvalidCredentials, http.StatusUnauthorized},
		{entity.ErrForbidden, http.StatusForbidden},
		{entity.ErrAlreadyInWishlist, http.StatusConflict},
		{entity.OutOfStockError{ProductID: "p1", ProductName: "Clutch Kit"}, http.StatusConflict},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		respondError(c, tt.err)
		assert.Equal(t, tt.code, w.Code, "error %v", tt.err)
	}
}

func TestRespondError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, errors.New("pq: connection refused"))
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		query  string
		want   string
	}{
		{"Bearer abc", "", "abc"},
		{"bearer  abc ", "", "abc"},
		{"Basic abc", "", ""},
		{"", "xyz", "xyz"},
		{"Bearer abc", "xyz", "abc"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?token="+tt.query, nil)
		if tt.header != "" {
			c.Request.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, bearerToken(c), "header %q", tt.header)
	}
}
