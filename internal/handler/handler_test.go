package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-retail-api/internal/middleware"
	"go-retail-api/internal/model"
	"go-retail-api/internal/repository"
	"go-retail-api/internal/service"
	"go-retail-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	app        *fiber.App
	db         *gorm.DB
	adminToken string
	staffToken string
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Pagination json.RawMessage `json:"pagination"`
}

// newTestApp assembles the same stack main wires at boot, against an
// in-memory database, and returns ready tokens for both roles.
func newTestApp(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	log := zap.NewNop()
	tokens := jwt.NewManager("test-secret", 1)

	productRepo := repository.NewProductRepo(db, log)
	retailRepo := repository.NewRetailRepo(db, log)
	orderRepo := repository.NewOrderRepo(db, log)
	inventoryRepo := repository.NewInventoryRepo(db, log)
	userRepo := repository.NewUserRepo(db)

	productSvc := service.NewProductService(productRepo, inventoryRepo, db, nil, log)
	retailSvc := service.NewRetailService(retailRepo, productRepo, inventoryRepo, db, nil, log)
	orderSvc := service.NewOrderService(orderRepo, productRepo, inventoryRepo, db, nil, log)
	inventorySvc := service.NewInventoryService(inventoryRepo, log)
	dashboardSvc := service.NewDashboardService(inventoryRepo, retailRepo)
	authSvc := service.NewAuthService(userRepo, tokens, log)

	resp := NewResponder(log, false)

	productHandler := NewProductHandler(productSvc, resp)
	retailHandler := NewRetailHandler(retailSvc, resp)
	orderHandler := NewOrderHandler(orderSvc, resp)
	inventoryHandler := NewInventoryHandler(inventorySvc, resp)
	dashboardHandler := NewDashboardHandler(dashboardSvc, resp)
	authHandler := NewAuthHandler(authSvc, resp)
	healthHandler := NewHealthHandler(db, "test")

	app := fiber.New()

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api/v1")

	api.Post("/auth/login", authHandler.Login)

	api.Get("/products", productHandler.List)
	api.Get("/products/:id", productHandler.Get)

	api.Get("/retail", retailHandler.List)
	api.Get("/retail/monthly-sales", retailHandler.MonthlySales)
	api.Get("/retail/:id", retailHandler.Get)

	api.Get("/inventory", inventoryHandler.List)
	api.Get("/inventory/low-stock", inventoryHandler.LowStock)
	api.Get("/inventory/movements", inventoryHandler.Movements)
	api.Get("/inventory/:stock_code", inventoryHandler.Get)

	api.Get("/dashboard/stats", dashboardHandler.Stats)
	api.Get("/dashboard/sales-trend", dashboardHandler.SalesTrend)

	authRequired := middleware.RequireAuth(tokens, userRepo)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	api.Post("/auth/change-password", authRequired, authHandler.ChangePassword)

	api.Post("/products", authRequired, adminOnly, productHandler.Create)
	api.Put("/products/:id", authRequired, adminOnly, productHandler.Replace)
	api.Delete("/products/:id", authRequired, adminOnly, productHandler.Delete)

	api.Post("/retail", authRequired, retailHandler.Create)
	api.Put("/retail/:id", authRequired, retailHandler.Update)

	api.Get("/orders", authRequired, orderHandler.List)
	api.Get("/orders/:id", authRequired, orderHandler.Get)
	api.Post("/orders", authRequired, orderHandler.Create)
	api.Put("/orders/:id/status", authRequired, adminOnly, orderHandler.UpdateStatus)

	admin := seedTestUser(t, db, "admin@example.com", "admin123", model.RoleAdmin)
	staff := seedTestUser(t, db, "staff@example.com", "staff123", model.RoleStaff)

	adminToken, err := tokens.Generate(admin.ID, admin.Email, admin.Role)
	require.NoError(t, err)
	staffToken, err := tokens.Generate(staff.ID, staff.Email, staff.Role)
	require.NoError(t, err)

	return &testEnv{app: app, db: db, adminToken: adminToken, staffToken: staffToken}
}

func seedTestUser(t *testing.T, db *gorm.DB, email, password, role string) *model.User {
	t.Helper()
	user := &model.User{Email: email, FullName: "Test User", Role: role, IsActive: true}
	require.NoError(t, user.SetPassword(password))
	require.NoError(t, db.Create(user).Error)
	return user
}

// request performs one round trip through the app and decodes the
// response envelope.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func (e *testEnv) createProduct(t *testing.T, code string, stock int, price float64) {
	t.Helper()
	status, env := e.request(t, http.MethodPost, "/api/v1/products", e.adminToken, fiber.Map{
		"stock_code":     code,
		"description":    code + " TEST PRODUCT",
		"unit_price":     price,
		"stock_quantity": stock,
	})
	require.Equal(t, 201, status, "create product: %s", env.Error)
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "up", body["database"])
	assert.Equal(t, "test", body["env"])
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestApp(t)

	status, body := env.request(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "admin@example.com", "password": "wrong",
	})
	assert.Equal(t, 401, status)
	assert.False(t, body.Success)
	assert.Equal(t, "invalid email or password", body.Error)

	status, body = env.request(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "admin@example.com",
	})
	assert.Equal(t, 400, status)
	assert.False(t, body.Success)

	status, body = env.request(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "admin@example.com", "password": "admin123",
	})
	require.Equal(t, 200, status)
	assert.True(t, body.Success)

	var res struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	decodeData(t, body, &res)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "admin@example.com", res.User.Email)
	assert.Equal(t, model.RoleAdmin, res.User.Role)
}

func TestChangePasswordEndpoint(t *testing.T) {
	env := newTestApp(t)

	status, _ := env.request(t, http.MethodPost, "/api/v1/auth/change-password", "", fiber.Map{
		"old_password": "staff123", "new_password": "brandnew1",
	})
	assert.Equal(t, 401, status)

	status, body := env.request(t, http.MethodPost, "/api/v1/auth/change-password", env.staffToken, fiber.Map{
		"old_password": "nope", "new_password": "brandnew1",
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, "current password is incorrect", body.Error)

	status, body = env.request(t, http.MethodPost, "/api/v1/auth/change-password", env.staffToken, fiber.Map{
		"old_password": "staff123", "new_password": "short",
	})
	assert.Equal(t, 400, status)
	assert.Contains(t, body.Error, "at least 6 characters")

	status, _ = env.request(t, http.MethodPost, "/api/v1/auth/change-password", env.staffToken, fiber.Map{
		"old_password": "staff123", "new_password": "brandnew1",
	})
	require.Equal(t, 200, status)

	status, _ = env.request(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "staff@example.com", "password": "brandnew1",
	})
	assert.Equal(t, 200, status)
}

func TestAuthGuards(t *testing.T) {
	env := newTestApp(t)

	// reads stay open
	status, _ := env.request(t, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, 200, status)

	status, body := env.request(t, http.MethodPost, "/api/v1/products", "", fiber.Map{
		"stock_code": "85123A", "description": "X", "unit_price": 1.0,
	})
	assert.Equal(t, 401, status)
	assert.False(t, body.Success)

	status, body = env.request(t, http.MethodPost, "/api/v1/products", env.staffToken, fiber.Map{
		"stock_code": "85123A", "description": "X", "unit_price": 1.0,
	})
	assert.Equal(t, 403, status)
	assert.Contains(t, body.Error, "admin")

	status, _ = env.request(t, http.MethodGet, "/api/v1/orders", "", nil)
	assert.Equal(t, 401, status)

	status, _ = env.request(t, http.MethodPut, "/api/v1/orders/1/status", env.staffToken, fiber.Map{
		"status": "completed",
	})
	assert.Equal(t, 403, status)

	status, _ = env.request(t, http.MethodGet, "/api/v1/products", "garbage-token", nil)
	assert.Equal(t, 200, status, "public routes ignore bad tokens")
}

func TestProductEndpoints(t *testing.T) {
	env := newTestApp(t)
	env.createProduct(t, "85123A", 100, 2.55)

	status, body := env.request(t, http.MethodPost, "/api/v1/products", env.adminToken, fiber.Map{
		"stock_code": "85123A", "description": "DUPLICATE", "unit_price": 1.0,
	})
	assert.Equal(t, 409, status)
	assert.Contains(t, body.Error, "already exists")

	status, body = env.request(t, http.MethodPost, "/api/v1/products", env.adminToken, fiber.Map{
		"stock_code": "BAD1", "description": "NO PRICE", "unit_price": 0,
	})
	assert.Equal(t, 400, status)
	assert.False(t, body.Success)

	status, body = env.request(t, http.MethodGet, "/api/v1/products/85123A", "", nil)
	require.Equal(t, 200, status)
	var product model.Product
	decodeData(t, body, &product)
	assert.Equal(t, "85123A", product.StockCode)
	assert.Equal(t, 100, product.StockQuantity)
	assert.True(t, product.IsActive)

	status, body = env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ProductID), "", nil)
	assert.Equal(t, 200, status)

	status, body = env.request(t, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, 200, status)
	var pg struct {
		TotalRecords int64 `json:"total_records"`
		CurrentPage  int   `json:"current_page"`
	}
	require.NoError(t, json.Unmarshal(body.Pagination, &pg))
	assert.Equal(t, int64(1), pg.TotalRecords)
	assert.Equal(t, 1, pg.CurrentPage)

	status, body = env.request(t, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", product.ProductID), env.adminToken, fiber.Map{
		"stock_code": "85123A", "description": "RENAMED HOLDER", "unit_price": 3.25, "stock_quantity": 100,
	})
	require.Equal(t, 200, status)
	decodeData(t, body, &product)
	assert.Equal(t, "RENAMED HOLDER", product.Description)

	status, _ = env.request(t, http.MethodGet, "/api/v1/products/99999", "", nil)
	assert.Equal(t, 404, status)

	status, body = env.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", product.ProductID), env.adminToken, nil)
	require.Equal(t, 200, status)
	decodeData(t, body, &product)
	assert.Equal(t, "85123A", product.StockCode)

	status, _ = env.request(t, http.MethodGet, "/api/v1/products/85123A", "", nil)
	assert.Equal(t, 404, status)
}

func TestMalformedJSONBody(t *testing.T) {
	env := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+env.adminToken)

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)

	var body envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "invalid JSON body", body.Error)
}

func TestRetailEndpoints(t *testing.T) {
	env := newTestApp(t)
	env.createProduct(t, "71053", 10, 3.39)

	status, body := env.request(t, http.MethodPost, "/api/v1/retail", env.staffToken, fiber.Map{
		"invoice_no":   "536365",
		"stock_code":   "71053",
		"quantity":     3,
		"unit_price":   3.39,
		"invoice_date": "2010-12-01T08:26:00Z",
		"customer_id":  "17850",
		"country":      "United Kingdom",
	})
	require.Equal(t, 201, status, "create retail line: %s", body.Error)

	status, body = env.request(t, http.MethodGet, "/api/v1/products/71053", "", nil)
	require.Equal(t, 200, status)
	var product model.Product
	decodeData(t, body, &product)
	assert.Equal(t, 7, product.StockQuantity)

	// the literal segment must win over /retail/:id
	status, body = env.request(t, http.MethodGet, "/api/v1/retail/monthly-sales?year=2010&month=12", "", nil)
	require.Equal(t, 200, status)
	var report struct {
		Year  int `json:"year"`
		Month int `json:"month"`
	}
	decodeData(t, body, &report)
	assert.Equal(t, 2010, report.Year)
	assert.Equal(t, 12, report.Month)

	status, body = env.request(t, http.MethodGet, "/api/v1/retail?invoice_no=536365", "", nil)
	require.Equal(t, 200, status)
	var lines []model.RetailLine
	decodeData(t, body, &lines)
	assert.Len(t, lines, 1)

	status, _ = env.request(t, http.MethodPost, "/api/v1/retail", "", fiber.Map{
		"invoice_no": "536366", "stock_code": "71053", "quantity": 1, "unit_price": 3.39,
	})
	assert.Equal(t, 401, status)
}

func TestOrderEndpoints(t *testing.T) {
	env := newTestApp(t)
	env.createProduct(t, "22423", 10, 12.75)

	status, body := env.request(t, http.MethodPost, "/api/v1/orders", env.staffToken, fiber.Map{
		"customer_id": "17850",
		"country":     "United Kingdom",
		"items": []fiber.Map{
			{"stock_code": "22423", "quantity": 4, "unit_price": 12.75},
		},
	})
	require.Equal(t, 201, status, "create order: %s", body.Error)

	var order model.Order
	decodeData(t, body, &order)
	assert.Contains(t, order.OrderNo, "INV-")
	assert.Equal(t, model.OrderPending, order.Status)
	require.Len(t, order.Items, 1)

	status, body = env.request(t, http.MethodGet, "/api/v1/products/22423", "", nil)
	require.Equal(t, 200, status)
	var product model.Product
	decodeData(t, body, &product)
	assert.Equal(t, 6, product.StockQuantity)

	status, body = env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.OrderID), env.staffToken, nil)
	require.Equal(t, 200, status)
	decodeData(t, body, &order)
	assert.Len(t, order.Items, 1)

	status, body = env.request(t, http.MethodPut, fmt.Sprintf("/api/v1/orders/%d/status", order.OrderID), env.adminToken, fiber.Map{
		"status": "cancelled",
	})
	require.Equal(t, 200, status, "cancel order: %s", body.Error)
	decodeData(t, body, &order)
	assert.Equal(t, model.OrderCancelled, order.Status)

	status, body = env.request(t, http.MethodGet, "/api/v1/products/22423", "", nil)
	require.Equal(t, 200, status)
	decodeData(t, body, &product)
	assert.Equal(t, 10, product.StockQuantity, "cancel restocks")

	status, body = env.request(t, http.MethodPost, "/api/v1/orders", env.staffToken, fiber.Map{
		"items": []fiber.Map{},
	})
	assert.Equal(t, 400, status)
}

func TestInventoryAndDashboardEndpoints(t *testing.T) {
	env := newTestApp(t)
	env.createProduct(t, "84406B", 2, 2.75)
	env.createProduct(t, "47566", 50, 4.65)

	status, body := env.request(t, http.MethodGet, "/api/v1/inventory", "", nil)
	require.Equal(t, 200, status)
	var levels []model.Inventory
	decodeData(t, body, &levels)
	assert.Len(t, levels, 2)

	status, body = env.request(t, http.MethodGet, "/api/v1/inventory/84406B", "", nil)
	require.Equal(t, 200, status)

	// default reorder level is 10, so the two-unit product is low
	status, body = env.request(t, http.MethodGet, "/api/v1/inventory/low-stock", "", nil)
	require.Equal(t, 200, status)
	var low []model.LowStockAlert
	decodeData(t, body, &low)
	require.Len(t, low, 1)
	assert.Equal(t, "84406B", low[0].StockCode)

	status, body = env.request(t, http.MethodGet, "/api/v1/dashboard/stats", "", nil)
	require.Equal(t, 200, status)
	var stats struct {
		TotalProducts int64 `json:"total_products"`
		LowStockCount int64 `json:"low_stock_count"`
	}
	decodeData(t, body, &stats)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.LowStockCount)

	status, body = env.request(t, http.MethodGet, "/api/v1/dashboard/sales-trend?days=5", "", nil)
	require.Equal(t, 200, status)
	var trend struct {
		Period int             `json:"period"`
		Series json.RawMessage `json:"series"`
	}
	decodeData(t, body, &trend)
	assert.Equal(t, 5, trend.Period)
}
