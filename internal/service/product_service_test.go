package service

import (
	"fmt"
	"testing"

	"go-retail-api/internal/apperr"
	"go-retail-api/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCreateDefaultsAndMirror(t *testing.T) {
	s := setupServices(t)

	product, err := s.products.Create(&ProductRequest{
		StockCode:     "85123A",
		Description:   "WHITE HANGING HEART T-LIGHT HOLDER",
		UnitPrice:     decimal.NewFromFloat(2.55),
		StockQuantity: 100,
	})
	require.NoError(t, err)

	assert.NotZero(t, product.ProductID)
	assert.Equal(t, 10, product.ReorderLevel)
	assert.True(t, product.IsActive)

	// The inventory mirror is born in the same transaction.
	inv := mirrorOf(t, s.db, "85123A")
	assert.Equal(t, 100, inv.CurrentStock)
	assert.Equal(t, 100, inv.AvailableStock)
	assert.Equal(t, 10, inv.ReorderLevel)
}

func TestProductCreateHonorsExplicitFields(t *testing.T) {
	s := setupServices(t)

	reorder := 25
	active := false
	supplier := "ACME Wholesale"
	product, err := s.products.Create(&ProductRequest{
		StockCode:     "22423",
		Description:   "REGENCY CAKESTAND 3 TIER",
		UnitPrice:     decimal.NewFromFloat(12.75),
		StockQuantity: 24,
		ReorderLevel:  &reorder,
		IsActive:      &active,
		SupplierInfo:  &supplier,
	})
	require.NoError(t, err)

	assert.Equal(t, 25, product.ReorderLevel)
	assert.False(t, product.IsActive)
	require.NotNil(t, product.SupplierInfo)
	assert.Equal(t, "ACME Wholesale", *product.SupplierInfo)
}

func TestProductCreateValidation(t *testing.T) {
	s := setupServices(t)

	_, err := s.products.Create(&ProductRequest{
		Description: "NO STOCK CODE",
		UnitPrice:   decimal.NewFromFloat(1.00),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = s.products.Create(&ProductRequest{
		StockCode:   "FREEBIE",
		Description: "ZERO PRICE",
		UnitPrice:   decimal.Zero,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = s.products.Create(&ProductRequest{
		StockCode:     "NEG",
		Description:   "NEGATIVE STOCK",
		UnitPrice:     decimal.NewFromFloat(1.00),
		StockQuantity: -5,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestProductCreateDuplicateConflict(t *testing.T) {
	s := setupServices(t)
	createProduct(t, s.products, "85123A", 100, 2.55)

	_, err := s.products.Create(&ProductRequest{
		StockCode:     "85123A",
		Description:   "DUPLICATE",
		UnitPrice:     decimal.NewFromFloat(1.00),
		StockQuantity: 1,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestProductGetByIDAndCode(t *testing.T) {
	s := setupServices(t)
	created := createProduct(t, s.products, "85123A", 100, 2.55)

	byID, err := s.products.Get(fmt.Sprint(created.ProductID))
	require.NoError(t, err)
	assert.Equal(t, created.ProductID, byID.ProductID)

	byCode, err := s.products.Get("85123A")
	require.NoError(t, err)
	assert.Equal(t, created.ProductID, byCode.ProductID)

	_, err = s.products.Get("NOPE")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestProductReplaceIsFullOverwrite(t *testing.T) {
	s := setupServices(t)

	reorder := 25
	supplier := "ACME Wholesale"
	_, err := s.products.Create(&ProductRequest{
		StockCode:     "85123A",
		Description:   "T-LIGHT HOLDER",
		UnitPrice:     decimal.NewFromFloat(2.55),
		StockQuantity: 100,
		ReorderLevel:  &reorder,
		SupplierInfo:  &supplier,
	})
	require.NoError(t, err)

	// Omitting nullable fields clears them; omitted defaults reapply.
	replaced, err := s.products.Replace("85123A", &ProductRequest{
		StockCode:     "85123A",
		Description:   "T-LIGHT HOLDER (NEW)",
		UnitPrice:     decimal.NewFromFloat(2.95),
		StockQuantity: 60,
	})
	require.NoError(t, err)

	assert.Equal(t, "T-LIGHT HOLDER (NEW)", replaced.Description)
	assert.Equal(t, 10, replaced.ReorderLevel)
	assert.Nil(t, replaced.SupplierInfo)

	inv := mirrorOf(t, s.db, "85123A")
	assert.Equal(t, 60, inv.CurrentStock)
	assert.Equal(t, 10, inv.ReorderLevel)
}

func TestProductReplaceRenamesStockCode(t *testing.T) {
	s := setupServices(t)
	created := createProduct(t, s.products, "OLD1", 50, 2.00)

	replaced, err := s.products.Replace(fmt.Sprint(created.ProductID), &ProductRequest{
		StockCode:     "NEW1",
		Description:   "RENAMED PRODUCT",
		UnitPrice:     decimal.NewFromFloat(2.00),
		StockQuantity: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, "NEW1", replaced.StockCode)

	// The mirror follows the rename, the old row is gone.
	inv := mirrorOf(t, s.db, "NEW1")
	assert.Equal(t, 50, inv.CurrentStock)

	var count int64
	require.NoError(t, s.db.Model(&model.Inventory{}).Where("stock_code = ?", "OLD1").Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductReplaceStockCodeConflict(t *testing.T) {
	s := setupServices(t)
	createProduct(t, s.products, "85123A", 100, 2.55)
	createProduct(t, s.products, "71053", 80, 3.39)

	_, err := s.products.Replace("71053", &ProductRequest{
		StockCode:     "85123A",
		Description:   "TAKEN CODE",
		UnitPrice:     decimal.NewFromFloat(1.00),
		StockQuantity: 1,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestProductDeleteBlockedByDependents(t *testing.T) {
	s := setupServices(t)
	createProduct(t, s.products, "85123A", 100, 2.55)

	_, err := s.retail.Create(&RetailLineRequest{
		InvoiceNo: "536365",
		StockCode: "85123A",
		Quantity:  6,
		UnitPrice: decimal.NewFromFloat(2.55),
	})
	require.NoError(t, err)

	_, err = s.products.Delete("85123A")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Still present.
	assert.Equal(t, 94, stockOf(t, s.db, "85123A"))
}

func TestProductDeleteReturnsRowAndDropsMirror(t *testing.T) {
	s := setupServices(t)
	created := createProduct(t, s.products, "85123A", 100, 2.55)

	deleted, err := s.products.Delete("85123A")
	require.NoError(t, err)
	assert.Equal(t, created.ProductID, deleted.ProductID)

	var count int64
	require.NoError(t, s.db.Model(&model.Product{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, s.db.Model(&model.Inventory{}).Count(&count).Error)
	assert.Zero(t, count)
}
