package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-retail-api/internal/config"
	"go-retail-api/internal/handler"
	"go-retail-api/internal/metrics"
	"go-retail-api/internal/middleware"
	"go-retail-api/internal/model"
	"go-retail-api/internal/repository"
	"go-retail-api/internal/service"
	"go-retail-api/internal/ws"
	"go-retail-api/pkg/database"
	"go-retail-api/pkg/jwt"
	applogger "go-retail-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	zlog, err := applogger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	// AutoMigrate (swap for a dedicated migration tool once the schema stabilizes)
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		zlog.Fatal("auto migration failed", zap.Error(err))
	}

	// 3. Seed default admin user
	seedAdmin(db, cfg, zlog)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(zlog)
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTExpiryHours)

	productRepo := repository.NewProductRepo(db, zlog)
	retailRepo := repository.NewRetailRepo(db, zlog)
	orderRepo := repository.NewOrderRepo(db, zlog)
	inventoryRepo := repository.NewInventoryRepo(db, zlog)
	userRepo := repository.NewUserRepo(db)

	productSvc := service.NewProductService(productRepo, inventoryRepo, db, wsHub, zlog)
	retailSvc := service.NewRetailService(retailRepo, productRepo, inventoryRepo, db, wsHub, zlog)
	orderSvc := service.NewOrderService(orderRepo, productRepo, inventoryRepo, db, wsHub, zlog)
	inventorySvc := service.NewInventoryService(inventoryRepo, zlog)
	dashboardSvc := service.NewDashboardService(inventoryRepo, retailRepo)
	authSvc := service.NewAuthService(userRepo, tokens, zlog)

	resp := handler.NewResponder(zlog, cfg.IsDevelopment())

	productHandler := handler.NewProductHandler(productSvc, resp)
	retailHandler := handler.NewRetailHandler(retailSvc, resp)
	orderHandler := handler.NewOrderHandler(orderSvc, resp)
	inventoryHandler := handler.NewInventoryHandler(inventorySvc, resp)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, resp)
	authHandler := handler.NewAuthHandler(authSvc, resp)
	healthHandler := handler.NewHealthHandler(db, cfg.AppEnv)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Go Retail API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS
	app.Use(metrics.Middleware())

	// 7. Routes
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/login", authHandler.Login)

	api.Get("/products", productHandler.List)
	api.Get("/products/:id", productHandler.Get)

	api.Get("/retail", retailHandler.List)
	api.Get("/retail/monthly-sales", retailHandler.MonthlySales) // must come before /retail/:id
	api.Get("/retail/:id", retailHandler.Get)

	api.Get("/inventory", inventoryHandler.List)
	// literal segments registered before /inventory/:stock_code
	api.Get("/inventory/low-stock", inventoryHandler.LowStock)
	api.Get("/inventory/movements", inventoryHandler.Movements)
	api.Get("/inventory/:stock_code", inventoryHandler.Get)

	api.Get("/dashboard/stats", dashboardHandler.Stats)
	api.Get("/dashboard/sales-trend", dashboardHandler.SalesTrend)

	// ============ PROTECTED ROUTES ============
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

	// Static dashboard
	app.Static("/dashboard", cfg.WebDir)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Attach(c)
		defer wsHub.Detach(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()
	zlog.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}
	zlog.Info("server exited")
}

// seedAdmin creates the default admin account on first boot so the API
// is usable before any users exist.
func seedAdmin(db *gorm.DB, cfg *config.Config, zlog *zap.Logger) {
	userRepo := repository.NewUserRepo(db)

	if _, err := userRepo.FindByEmail(cfg.AdminEmail); err == nil {
		return
	}

	admin := &model.User{
		Email:    cfg.AdminEmail,
		FullName: "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		zlog.Warn("failed to hash admin password", zap.Error(err))
		return
	}
	if err := userRepo.Create(admin); err != nil {
		zlog.Warn("failed to create admin user", zap.Error(err))
		return
	}
	zlog.Info("admin user created", zap.String("email", cfg.AdminEmail))
}
