package main

import (
	"log"
	"time"

	"go-retail-api/internal/config"
	"go-retail-api/internal/model"
	"go-retail-api/internal/repository"
	"go-retail-api/internal/service"
	"go-retail-api/internal/ws"
	"go-retail-api/pkg/database"
	applogger "go-retail-api/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeds the database with the default admin plus a small slice of the
// online-retail dataset: products, one invoice worth of sales lines and
// one completed order. Safe to re-run, it exits early once products
// exist.
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
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		zlog.Fatal("auto migration failed", zap.Error(err))
	}

	// 3. Admin user
	seedAdmin(db, cfg, zlog)

	var count int64
	if err := db.Model(&model.Product{}).Count(&count).Error; err != nil {
		zlog.Fatal("failed to count products", zap.Error(err))
	}
	if count > 0 {
		zlog.Info("database already seeded", zap.Int64("products", count))
		return
	}

	// 4. Wire the services so seeded data flows through the same stock
	// bookkeeping as API traffic.
	hub := ws.NewHub(zlog)
	go hub.Run()

	productRepo := repository.NewProductRepo(db, zlog)
	retailRepo := repository.NewRetailRepo(db, zlog)
	orderRepo := repository.NewOrderRepo(db, zlog)
	inventoryRepo := repository.NewInventoryRepo(db, zlog)

	productSvc := service.NewProductService(productRepo, inventoryRepo, db, hub, zlog)
	retailSvc := service.NewRetailService(retailRepo, productRepo, inventoryRepo, db, hub, zlog)
	orderSvc := service.NewOrderService(orderRepo, productRepo, inventoryRepo, db, hub, zlog)

	// 5. Products
	products := []service.ProductRequest{
		{StockCode: "85123A", Description: "WHITE HANGING HEART T-LIGHT HOLDER", UnitPrice: decimal.NewFromFloat(2.55), StockQuantity: 120},
		{StockCode: "71053", Description: "WHITE METAL LANTERN", UnitPrice: decimal.NewFromFloat(3.39), StockQuantity: 80},
		{StockCode: "84406B", Description: "CREAM CUPID HEARTS COAT HANGER", UnitPrice: decimal.NewFromFloat(2.75), StockQuantity: 60},
		{StockCode: "22423", Description: "REGENCY CAKESTAND 3 TIER", UnitPrice: decimal.NewFromFloat(12.75), StockQuantity: 24},
		{StockCode: "47566", Description: "PARTY BUNTING", UnitPrice: decimal.NewFromFloat(4.65), StockQuantity: 50},
	}
	for i := range products {
		if _, err := productSvc.Create(&products[i]); err != nil {
			zlog.Fatal("failed to seed product", zap.String("stock_code", products[i].StockCode), zap.Error(err))
		}
	}
	zlog.Info("products seeded", zap.Int("count", len(products)))

	// 6. Retail sales lines, one invoice
	customer := "17850"
	country := "United Kingdom"
	invoiceDate := time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)
	lines := []service.RetailLineRequest{
		{InvoiceNo: "536365", StockCode: "85123A", Description: "WHITE HANGING HEART T-LIGHT HOLDER", Quantity: 6, InvoiceDate: &invoiceDate, UnitPrice: decimal.NewFromFloat(2.55), CustomerID: &customer, Country: country},
		{InvoiceNo: "536365", StockCode: "71053", Description: "WHITE METAL LANTERN", Quantity: 6, InvoiceDate: &invoiceDate, UnitPrice: decimal.NewFromFloat(3.39), CustomerID: &customer, Country: country},
		{InvoiceNo: "536365", StockCode: "84406B", Description: "CREAM CUPID HEARTS COAT HANGER", Quantity: 8, InvoiceDate: &invoiceDate, UnitPrice: decimal.NewFromFloat(2.75), CustomerID: &customer, Country: country},
	}
	for i := range lines {
		if _, err := retailSvc.Create(&lines[i]); err != nil {
			zlog.Fatal("failed to seed retail line", zap.String("stock_code", lines[i].StockCode), zap.Error(err))
		}
	}
	zlog.Info("retail lines seeded", zap.Int("count", len(lines)))

	// 7. One completed order
	order, err := orderSvc.Create(&service.OrderRequest{
		CustomerID: &customer,
		Country:    country,
		Items: []service.OrderItemRequest{
			{StockCode: "22423", Quantity: 2, UnitPrice: decimal.NewFromFloat(12.75)},
			{StockCode: "47566", Quantity: 4, UnitPrice: decimal.NewFromFloat(4.65)},
		},
	})
	if err != nil {
		zlog.Fatal("failed to seed order", zap.Error(err))
	}
	if _, err := orderSvc.UpdateStatus(order.OrderID, string(model.OrderCompleted)); err != nil {
		zlog.Fatal("failed to complete seeded order", zap.Error(err))
	}
	zlog.Info("order seeded", zap.String("order_no", order.OrderNo))

	zlog.Info("seeding complete")
}

func seedAdmin(db *gorm.DB, cfg *config.Config, zlog *zap.Logger) {
	userRepo := repository.NewUserRepo(db)

	if _, err := userRepo.FindByEmail(cfg.AdminEmail); err == nil {
		zlog.Info("admin user already exists", zap.String("email", cfg.AdminEmail))
		return
	}

	admin := &model.User{
		Email:    cfg.AdminEmail,
		FullName: "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		zlog.Fatal("failed to hash admin password", zap.Error(err))
	}
	if err := userRepo.Create(admin); err != nil {
		zlog.Fatal("failed to create admin user", zap.Error(err))
	}
	zlog.Info("admin user created", zap.String("email", cfg.AdminEmail))
}
