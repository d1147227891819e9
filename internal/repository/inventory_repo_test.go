package repository

import (
	"testing"
	"time"

	"go-retail-api/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInventoryEnsureRowIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepo(db, zap.NewNop())

	require.NoError(t, repo.EnsureRow(db, &model.Inventory{
		StockCode:      "85123A",
		CurrentStock:   100,
		AvailableStock: 100,
		ReorderLevel:   10,
	}))

	// A second insert for the same code is silently dropped.
	require.NoError(t, repo.EnsureRow(db, &model.Inventory{
		StockCode:      "85123A",
		CurrentStock:   555,
		AvailableStock: 555,
		ReorderLevel:   99,
	}))

	inv, err := repo.FindByStockCode("85123A")
	require.NoError(t, err)
	assert.Equal(t, 100, inv.CurrentStock)
	assert.Equal(t, 10, inv.ReorderLevel)
}

func TestInventoryApplyMovement(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepo(db, zap.NewNop())

	require.NoError(t, repo.EnsureRow(db, &model.Inventory{
		StockCode:      "85123A",
		CurrentStock:   100,
		AvailableStock: 100,
		ReorderLevel:   10,
	}))

	at := time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)
	affected, err := repo.ApplyMovement(db, "85123A", -6, at)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	inv, err := repo.FindByStockCode("85123A")
	require.NoError(t, err)
	assert.Equal(t, 94, inv.CurrentStock)
	assert.Equal(t, 94, inv.AvailableStock)
	require.NotNil(t, inv.LastMovementAt)

	affected, err = repo.ApplyMovement(db, "MISSING", -1, at)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestInventorySyncLevelsAndRename(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepo(db, zap.NewNop())

	require.NoError(t, repo.EnsureRow(db, &model.Inventory{
		StockCode:      "OLD",
		CurrentStock:   10,
		AvailableStock: 10,
		ReorderLevel:   5,
	}))

	affected, err := repo.SyncLevels(db, "OLD", 42, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	require.NoError(t, repo.Rename(db, "OLD", "NEW"))

	inv, err := repo.FindByStockCode("NEW")
	require.NoError(t, err)
	assert.Equal(t, 42, inv.CurrentStock)
	assert.Equal(t, 42, inv.AvailableStock)
	assert.Equal(t, 7, inv.ReorderLevel)

	_, err = repo.FindByStockCode("OLD")
	assert.Error(t, err)
}

func TestInventoryMovementsFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepo(db, zap.NewNop())

	movements := []model.InventoryMovement{
		{StockCode: "85123A", MovementType: model.MovementOut, Quantity: 6, Reference: "536365"},
		{StockCode: "85123A", MovementType: model.MovementIn, Quantity: 6, Reference: "INV-1"},
		{StockCode: "71053", MovementType: model.MovementOut, Quantity: 2, Reference: "536366"},
	}
	for i := range movements {
		require.NoError(t, repo.AddMovement(db, &movements[i]))
	}

	rows, total, err := repo.Movements(MovementFilter{StockCode: "85123A", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	// Type filter is case-insensitive on input.
	rows, total, err = repo.Movements(MovementFilter{Type: "out", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, m := range rows {
		assert.Equal(t, model.MovementOut, m.MovementType)
	}

	// Newest first.
	rows, _, err = repo.Movements(MovementFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].ID > rows[2].ID)
}

func TestInventoryLowStockDerivation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepo(db, zap.NewNop())

	seedProduct(t, db, "85123A", "T-LIGHT HOLDER", 5, 2.55)
	seedProduct(t, db, "71053", "WHITE METAL LANTERN", 80, 3.39)

	// At the threshold counts as low, above it does not.
	require.NoError(t, repo.EnsureRow(db, &model.Inventory{StockCode: "85123A", CurrentStock: 10, AvailableStock: 10, ReorderLevel: 10}))
	require.NoError(t, repo.EnsureRow(db, &model.Inventory{StockCode: "71053", CurrentStock: 80, AvailableStock: 80, ReorderLevel: 10}))

	alerts, err := repo.LowStock()
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "85123A", alerts[0].StockCode)
	assert.Equal(t, "T-LIGHT HOLDER", alerts[0].Description)
	assert.Equal(t, 10, alerts[0].AvailableStock)
	assert.Equal(t, 10, alerts[0].ReorderLevel)
}

func TestInventoryStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInventoryRepo(db, zap.NewNop())

	seedProduct(t, db, "85123A", "T-LIGHT HOLDER", 10, 2.50) // valuation 25.00
	lantern := seedProduct(t, db, "71053", "LANTERN", 4, 1.25)
	require.NoError(t, db.Model(lantern).Update("is_active", false).Error) // valuation 5.00

	require.NoError(t, repo.EnsureRow(db, &model.Inventory{StockCode: "85123A", CurrentStock: 10, AvailableStock: 10, ReorderLevel: 10}))
	require.NoError(t, repo.EnsureRow(db, &model.Inventory{StockCode: "71053", CurrentStock: 4, AvailableStock: 4, ReorderLevel: 2}))

	require.NoError(t, db.Create(&model.Order{
		OrderNo:     "INV-TEST0001",
		Status:      model.OrderPending,
		OrderDate:   time.Now().UTC(),
		TotalAmount: decimal.NewFromFloat(9.99),
	}).Error)

	stats, err := repo.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.ActiveProducts)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.True(t, decimal.NewFromFloat(30.00).Equal(stats.StockValuation), "got %s", stats.StockValuation)
}
