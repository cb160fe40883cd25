package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/rabbitmq"
	"storefront/internal/repository/memory"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	router *gin.Engine
	store  *memory.Store
	seller domain.Seller
	teapot domain.Product
}

func setupHandlerTest(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	log := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	store := memory.NewStore()

	sellerHash, err := bcrypt.GenerateFromPassword([]byte("seller-pw"), bcrypt.MinCost)
	require.NoError(t, err)
	seller := domain.Seller{Name: "Acme", Username: "acme", Email: "acme@example.com", PasswordHash: string(sellerHash), IsApproved: true}
	require.NoError(t, store.Accounts().CreateSeller(ctx, &seller))
	teapot := domain.Product{SellerID: seller.ID, Name: "Teapot", UnitPrice: decimal.NewFromInt(100), UnitCost: decimal.NewFromInt(60), Stock: 2, Category: "Kitchen"}
	require.NoError(t, store.Products().Create(ctx, &teapot))

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin-pw"), bcrypt.MinCost)
	require.NoError(t, err)

	pc := cache.NopProductCache{}
	pub := rabbitmq.NopPublisher{}
	handler := NewHandler(Services{
		Accounts: services.NewAccountService(store, auth.NewTokenManager("test-secret", time.Hour), auth.NewMemoryRevoker(), pc,
			services.AdminCredentials{Username: "admin", PasswordHash: string(adminHash)}, log),
		Catalog:  services.NewCatalogService(store, pc, log),
		Cart:     services.NewCartService(store, log),
		Checkout: services.NewCheckoutService(store, pub, pc, log),
		Orders:   services.NewOrderService(store, pub, log),
		Sales:    services.NewSalesService(store, time.UTC, log),
		Feedback: services.NewFeedbackService(store, log),
	}, log, false)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(log))
	handler.RegisterRoutes(router)

	return &testServer{router: router, store: store, seller: seller, teapot: teapot}
}

type envelope struct {
	Level   Level           `json:"level"`
	Message string          `json:"message"`
	Next    string          `json:"next"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/login", "", LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, code, env.Message)
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	return resp.Token
}

func (s *testServer) registerCustomer(t *testing.T, username string) string {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/register/customer", "", RegisterCustomerRequest{
		Name: "Ann", Username: username, Password: "password123", Email: username + "@example.com",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	return s.login(t, username, "password123")
}

var checkoutBody = CheckoutRequest{
	FirstName: "Ann", LastName: "Lee", Address: "1 Main St", City: "Pune", State: "MH",
	ZipCode: "411001", Email: "ann@example.com", Phone: "5550100", PaymentRef: "pay_1",
}

func TestHandler_CartAndCheckoutFlow(t *testing.T) {
	s := setupHandlerTest(t)
	token := s.registerCustomer(t, "ann")
	teapotPath := "/cart/add/" + uintStr(s.teapot.ID)

	code, env := s.do(t, http.MethodPost, teapotPath, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, LevelSuccess, env.Level)
	var added CartLineResponse
	require.NoError(t, json.Unmarshal(env.Data, &added))
	require.NotNil(t, added.Line)

	code, env = s.do(t, http.MethodPost, teapotPath, token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, LevelInfo, env.Level)

	code, env = s.do(t, http.MethodPost, "/cart/update/"+uintStr(added.Line.ID)+"/increase", token, nil)
	require.Equal(t, http.StatusOK, code)
	var updated CartLineResponse
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, int64(2), updated.Line.Quantity)
	assert.True(t, decimal.NewFromInt(250).Equal(updated.Totals.GrandTotal))

	code, _ = s.do(t, http.MethodGet, "/checkout", token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodPost, "/checkout", token, checkoutBody)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var order domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, domain.StatusPlaced, order.Status)
	assert.True(t, decimal.NewFromInt(250).Equal(order.TotalPrice))

	code, env = s.do(t, http.MethodPost, "/checkout", token, checkoutBody)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, LevelInfo, env.Level)
	assert.Equal(t, "/products", env.Next)

	code, env = s.do(t, http.MethodPost, "/orders/"+uintStr(order.ID)+"/feedback/"+uintStr(s.teapot.ID), token, FeedbackRequest{Text: "great"})
	assert.Equal(t, http.StatusCreated, code, env.Message)

	sellerToken := s.login(t, "acme", "seller-pw")
	code, _ = s.do(t, http.MethodPost, "/seller/orders/"+uintStr(order.ID)+"/confirm", sellerToken, nil)
	assert.Equal(t, http.StatusOK, code)
	code, env = s.do(t, http.MethodPost, "/seller/orders/"+uintStr(order.ID)+"/cancel", sellerToken, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, LevelWarning, env.Level)

	adminToken := s.login(t, "admin", "admin-pw")
	now := time.Now().UTC()
	code, env = s.do(t, http.MethodGet, "/admin/dashboard?year="+itoa(now.Year())+"&month="+itoa(int(now.Month())), adminToken, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var dash AdminDashboard
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.True(t, decimal.NewFromInt(200).Equal(dash.Sales.Totals.Revenue), dash.Sales.Totals.Revenue.String())
	assert.Len(t, dash.Customers, 1)
}

func TestHandler_InsufficientStock(t *testing.T) {
	s := setupHandlerTest(t)
	token := s.registerCustomer(t, "ann")

	_, env := s.do(t, http.MethodPost, "/cart/add/"+uintStr(s.teapot.ID), token, nil)
	var added CartLineResponse
	require.NoError(t, json.Unmarshal(env.Data, &added))
	for i := 0; i < 2; i++ {
		code, _ := s.do(t, http.MethodPost, "/cart/update/"+uintStr(added.Line.ID)+"/increase", token, nil)
		require.Equal(t, http.StatusOK, code)
	}

	code, env := s.do(t, http.MethodPost, "/checkout", token, checkoutBody)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, LevelWarning, env.Level)
	assert.Equal(t, "/cart", env.Next)

	product, err := s.store.Products().FindByID(context.Background(), s.teapot.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), product.Stock)
}

func TestHandler_ErrorMapping(t *testing.T) {
	s := setupHandlerTest(t)
	customer := s.registerCustomer(t, "ann")
	admin := s.login(t, "admin", "admin-pw")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       any
		wantStatus int
		wantLevel  Level
	}{
		{name: "guest cart", method: http.MethodGet, path: "/cart", wantStatus: http.StatusUnauthorized, wantLevel: LevelWarning},
		{name: "garbage token is a guest", method: http.MethodGet, path: "/cart", token: "garbage", wantStatus: http.StatusUnauthorized, wantLevel: LevelWarning},
		{name: "customer on admin page", method: http.MethodGet, path: "/admin/dashboard", token: customer, wantStatus: http.StatusForbidden, wantLevel: LevelError},
		{name: "admin month out of range", method: http.MethodGet, path: "/admin/dashboard?year=2024&month=13", token: admin, wantStatus: http.StatusBadRequest, wantLevel: LevelError},
		{name: "unknown product", method: http.MethodGet, path: "/products/999", wantStatus: http.StatusNotFound, wantLevel: LevelError},
		{name: "non numeric id", method: http.MethodPost, path: "/cart/remove/abc", token: customer, wantStatus: http.StatusBadRequest, wantLevel: LevelError},
		{name: "bad cart action", method: http.MethodPost, path: "/cart/update/1/double", token: customer, wantStatus: http.StatusBadRequest, wantLevel: LevelError},
		{name: "missing cart line", method: http.MethodPost, path: "/cart/remove/42", token: customer, wantStatus: http.StatusNotFound, wantLevel: LevelError},
		{name: "empty checkout preview", method: http.MethodGet, path: "/checkout", token: customer, wantStatus: http.StatusOK, wantLevel: LevelInfo},
		{name: "checkout missing address", method: http.MethodPost, path: "/checkout", token: customer, body: CheckoutRequest{FirstName: "Ann"}, wantStatus: http.StatusBadRequest, wantLevel: LevelError},
		{name: "wrong password", method: http.MethodPost, path: "/login", body: LoginRequest{Username: "ann", Password: "nope"}, wantStatus: http.StatusUnauthorized, wantLevel: LevelWarning},
		{name: "duplicate username", method: http.MethodPost, path: "/register/customer", body: RegisterCustomerRequest{Name: "A", Username: "acme", Password: "password123", Email: "z@example.com"}, wantStatus: http.StatusConflict, wantLevel: LevelError},
		{name: "bad max price", method: http.MethodGet, path: "/products?max_price=cheap", wantStatus: http.StatusBadRequest, wantLevel: LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := s.do(t, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.wantStatus, code, env.Message)
			assert.Equal(t, tt.wantLevel, env.Level)
		})
	}
}

func TestHandler_Logout(t *testing.T) {
	s := setupHandlerTest(t)
	token := s.registerCustomer(t, "ann")

	code, _ := s.do(t, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodGet, "/cart", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestHandler_SessionCookie(t *testing.T) {
	s := setupHandlerTest(t)
	token := s.registerCustomer(t, "ann")

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestHandler_CatalogListing(t *testing.T) {
	s := setupHandlerTest(t)

	code, env := s.do(t, http.MethodGet, "/products?q=tea&category=kitchen&max_price=100", "", nil)
	require.Equal(t, http.StatusOK, code)
	var page domain.ProductPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Teapot", page.Products[0].Name)

	code, env = s.do(t, http.MethodGet, "/products/categories", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `["Kitchen"]`, string(env.Data))
}

func TestHandler_UnexpectedErrorIsGeneric(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{log: zap.NewNop()}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.fail(c, errors.New("dial tcp 10.0.0.5:3306: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestHandler_DeletedCustomerTokenIsRejected(t *testing.T) {
	s := setupHandlerTest(t)
	token := s.registerCustomer(t, "ghost")
	admin := s.login(t, "admin", "admin-pw")

	code, env := s.do(t, http.MethodGet, "/profile", token, nil)
	require.Equal(t, http.StatusOK, code)
	var me domain.Customer
	require.NoError(t, json.Unmarshal(env.Data, &me))

	code, _ = s.do(t, http.MethodDelete, "/admin/customers/"+uintStr(me.ID), admin, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodPost, "/cart/add/"+uintStr(s.teapot.ID), token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "/login", env.Next)
	code, _ = s.do(t, http.MethodPost, "/checkout", token, checkoutBody)
	assert.Equal(t, http.StatusUnauthorized, code)

	product, err := s.store.Products().FindByID(context.Background(), s.teapot.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), product.Stock)
}

func TestHandler_ShopperViewsHideUnitCost(t *testing.T) {
	s := setupHandlerTest(t)
	token := s.registerCustomer(t, "ann")

	code, _ := s.do(t, http.MethodPost, "/cart/add/"+uintStr(s.teapot.ID), token, nil)
	require.Equal(t, http.StatusOK, code)
	code, env := s.do(t, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), "unitCost")

	code, env = s.do(t, http.MethodPost, "/checkout", token, checkoutBody)
	require.Equal(t, http.StatusCreated, code)
	var order OrderView
	require.NoError(t, json.Unmarshal(env.Data, &order))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Teapot", order.Items[0].ProductName)

	paths := []string{
		"/products",
		"/products/latest",
		"/products/" + uintStr(s.teapot.ID),
		"/orders",
		"/orders/" + uintStr(order.ID),
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			code, env := s.do(t, http.MethodGet, path, token, nil)
			require.Equal(t, http.StatusOK, code, env.Message)
			assert.NotContains(t, string(env.Data), "unitCost")
			assert.NotContains(t, string(env.Data), `"60"`)
		})
	}

	seller := s.login(t, "acme", "seller-pw")
	code, env = s.do(t, http.MethodGet, "/seller/dashboard", seller, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "unitCost")
}

func TestHandler_UpdateProfile(t *testing.T) {
	s := setupHandlerTest(t)
	token := s.registerCustomer(t, "ann")

	code, env := s.do(t, http.MethodPut, "/profile", token, ProfileRequest{Name: "Ann Lee", Address: "9 Hill Rd", Phone: "5550199"})
	require.Equal(t, http.StatusOK, code, env.Message)
	var me domain.Customer
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "Ann Lee", me.Name)
	assert.Equal(t, "9 Hill Rd", me.Address)
	assert.Equal(t, "ann", me.Username)

	code, _ = s.do(t, http.MethodPut, "/profile", token, ProfileRequest{})
	assert.Equal(t, http.StatusBadRequest, code)

	seller := s.login(t, "acme", "seller-pw")
	code, _ = s.do(t, http.MethodPut, "/profile", seller, ProfileRequest{Name: "Acme"})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestHandler_AdminDashboardEmptyLists(t *testing.T) {
	s := setupHandlerTest(t)
	admin := s.login(t, "admin", "admin-pw")

	code, env := s.do(t, http.MethodGet, "/admin/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, code, env.Message)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &raw))
	for _, key := range []string{"customers", "pendingSellers"} {
		assert.JSONEq(t, `[]`, string(raw[key]), key)
	}
	var sales map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["sales"], &sales))
	assert.JSONEq(t, `[]`, string(sales["byProduct"]))
	assert.JSONEq(t, `[]`, string(sales["bySeller"]))
}
