package service

import (
	"testing"

	"go-retail-api/internal/model"
	"go-retail-api/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testServices struct {
	db        *gorm.DB
	products  ProductService
	retail    RetailService
	orders    OrderService
	inventory InventoryService
}

// setupServices wires the full service stack against an in-memory
// database. The hub is nil; Publish is a no-op without one, so the
// tests exercise the exact transaction paths production runs.
func setupServices(t *testing.T) testServices {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	log := zap.NewNop()
	productRepo := repository.NewProductRepo(db, log)
	retailRepo := repository.NewRetailRepo(db, log)
	orderRepo := repository.NewOrderRepo(db, log)
	inventoryRepo := repository.NewInventoryRepo(db, log)

	return testServices{
		db:        db,
		products:  NewProductService(productRepo, inventoryRepo, db, nil, log),
		retail:    NewRetailService(retailRepo, productRepo, inventoryRepo, db, nil, log),
		orders:    NewOrderService(orderRepo, productRepo, inventoryRepo, db, nil, log),
		inventory: NewInventoryService(inventoryRepo, log),
	}
}

func createProduct(t *testing.T, svc ProductService, code string, stock int, price float64) *model.Product {
	t.Helper()
	product, err := svc.Create(&ProductRequest{
		StockCode:     code,
		Description:   code + " TEST PRODUCT",
		UnitPrice:     decimal.NewFromFloat(price),
		StockQuantity: stock,
	})
	require.NoError(t, err)
	return product
}

func stockOf(t *testing.T, db *gorm.DB, code string) int {
	t.Helper()
	var product model.Product
	require.NoError(t, db.First(&product, "stock_code = ?", code).Error)
	return product.StockQuantity
}

func mirrorOf(t *testing.T, db *gorm.DB, code string) *model.Inventory {
	t.Helper()
	var inv model.Inventory
	require.NoError(t, db.First(&inv, "stock_code = ?", code).Error)
	return &inv
}

func movementsOf(t *testing.T, db *gorm.DB, code string) []model.InventoryMovement {
	t.Helper()
	var movements []model.InventoryMovement
	require.NoError(t, db.Where("stock_code = ?", code).Order("id ASC").Find(&movements).Error)
	return movements
}
