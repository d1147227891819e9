package repository

import (
	"strings"
	"time"

	"go-retail-api/internal/model"
	"go-retail-api/pkg/pagination"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovementFilter struct {
	StockCode string
	Type      string
	Page      int
	Limit     int
}

// DashboardStats is the overview block for the dashboard endpoint.
type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	ActiveProducts int64           `json:"active_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	StockValuation decimal.Decimal `json:"stock_valuation"`
	PendingOrders  int64           `json:"pending_orders"`
}

type InventoryRepository interface {
	EnsureRow(tx *gorm.DB, inv *model.Inventory) error
	SyncLevels(tx *gorm.DB, stockCode string, stock, reorderLevel int) (int64, error)
	Rename(tx *gorm.DB, oldCode, newCode string) error
	ApplyMovement(tx *gorm.DB, stockCode string, delta int, at time.Time) (int64, error)
	DeleteRow(tx *gorm.DB, stockCode string) error
	AddMovement(tx *gorm.DB, m *model.InventoryMovement) error
	FindAll(page, limit int) ([]model.Inventory, int64, error)
	FindByStockCode(code string) (*model.Inventory, error)
	Movements(f MovementFilter) ([]model.InventoryMovement, int64, error)
	LowStock() ([]model.LowStockAlert, error)
	Stats() (*DashboardStats, error)
}

type inventoryRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewInventoryRepo(db *gorm.DB, log *zap.Logger) InventoryRepository {
	return &inventoryRepo{db: db, log: log}
}

// EnsureRow creates the mirror row for a product, ignoring the insert
// if one already exists.
func (r *inventoryRepo) EnsureRow(tx *gorm.DB, inv *model.Inventory) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_code"}},
		DoNothing: true,
	}).Create(inv).Error
}

// SyncLevels overwrites the mirror with absolute values after a product
// row was replaced through the admin surface.
func (r *inventoryRepo) SyncLevels(tx *gorm.DB, stockCode string, stock, reorderLevel int) (int64, error) {
	res := tx.Model(&model.Inventory{}).
		Where("stock_code = ?", stockCode).
		Updates(map[string]interface{}{
			"current_stock":   stock,
			"available_stock": stock,
			"reorder_level":   reorderLevel,
		})
	return res.RowsAffected, res.Error
}

func (r *inventoryRepo) Rename(tx *gorm.DB, oldCode, newCode string) error {
	return tx.Model(&model.Inventory{}).
		Where("stock_code = ?", oldCode).
		Update("stock_code", newCode).Error
}

// ApplyMovement shifts the mirror by a signed delta in one statement,
// matching the product-side stock adjustment it travels with.
func (r *inventoryRepo) ApplyMovement(tx *gorm.DB, stockCode string, delta int, at time.Time) (int64, error) {
	res := tx.Model(&model.Inventory{}).
		Where("stock_code = ?", stockCode).
		Updates(map[string]interface{}{
			"current_stock":    gorm.Expr("current_stock + ?", delta),
			"available_stock":  gorm.Expr("available_stock + ?", delta),
			"last_movement_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *inventoryRepo) DeleteRow(tx *gorm.DB, stockCode string) error {
	return tx.Delete(&model.Inventory{}, "stock_code = ?", stockCode).Error
}

func (r *inventoryRepo) AddMovement(tx *gorm.DB, m *model.InventoryMovement) error {
	return tx.Create(m).Error
}

func (r *inventoryRepo) FindAll(page, limit int) ([]model.Inventory, int64, error) {
	var total int64
	if err := r.db.Model(&model.Inventory{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count inventory rows", zap.Error(err))
		return nil, 0, err
	}

	var rows []model.Inventory
	err := r.db.Model(&model.Inventory{}).
		Order("stock_code ASC").
		Scopes(pagination.Scope(page, limit)).
		Find(&rows).Error
	if err != nil {
		r.log.Error("failed to list inventory rows", zap.Error(err))
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *inventoryRepo) FindByStockCode(code string) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.db.First(&inv, "stock_code = ?", code).Error
	return &inv, err
}

func (r *inventoryRepo) Movements(f MovementFilter) ([]model.InventoryMovement, int64, error) {
	query := r.db.Model(&model.InventoryMovement{})

	if f.StockCode != "" {
		query = query.Where("stock_code = ?", f.StockCode)
	}
	if f.Type != "" {
		query = query.Where("movement_type = ?", strings.ToUpper(f.Type))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.log.Error("failed to count movements", zap.Error(err))
		return nil, 0, err
	}

	var movements []model.InventoryMovement
	err := query.
		Order("created_at DESC, id DESC").
		Scopes(pagination.Scope(f.Page, f.Limit)).
		Find(&movements).Error
	if err != nil {
		r.log.Error("failed to list movements", zap.Error(err))
		return nil, 0, err
	}
	return movements, total, nil
}

// LowStock derives the alert list from the mirror joined with the
// catalog. Nothing is persisted; the result reflects this instant.
func (r *inventoryRepo) LowStock() ([]model.LowStockAlert, error) {
	var alerts []model.LowStockAlert
	err := r.db.Table("inventory").
		Select("inventory.stock_code, products.description, inventory.available_stock, inventory.reorder_level").
		Joins("JOIN products ON products.stock_code = inventory.stock_code").
		Where("inventory.available_stock <= inventory.reorder_level").
		Order("inventory.available_stock ASC").
		Scan(&alerts).Error
	if err != nil {
		r.log.Error("failed to derive low stock alerts", zap.Error(err))
		return nil, err
	}
	return alerts, nil
}

func (r *inventoryRepo) Stats() (*DashboardStats, error) {
	var stats DashboardStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).Where("is_active = ?", true).Count(&stats.ActiveProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Inventory{}).Where("available_stock <= reorder_level").Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	var row struct {
		Total decimal.Decimal
	}
	err := r.db.Model(&model.Product{}).
		Select("COALESCE(SUM(stock_quantity * unit_price), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	stats.StockValuation = row.Total

	if err := r.db.Model(&model.Order{}).Where("status = ?", model.OrderPending).Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
