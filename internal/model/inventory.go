package model

import "time"

// Inventory mirrors the stock position of one product. The row is
// created together with the product and updated inside the same
// transaction as every stock movement, so it never drifts from
// products.stock_quantity.
type Inventory struct {
	StockCode      string     `gorm:"type:varchar(20);primaryKey" json:"stock_code"`
	CurrentStock   int        `gorm:"not null" json:"current_stock"`
	AvailableStock int        `gorm:"not null" json:"available_stock"`
	ReorderLevel   int        `gorm:"not null" json:"reorder_level"`
	LastMovementAt *time.Time `json:"last_movement_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Inventory) TableName() string {
	return "inventory"
}

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// InventoryMovement is the audit trail of stock changes. Reference
// carries the invoice or order number that caused the movement.
type InventoryMovement struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	StockCode    string       `gorm:"type:varchar(20);not null;index" json:"stock_code"`
	MovementType MovementType `gorm:"type:varchar(3);not null" json:"movement_type"`
	Quantity     int          `gorm:"not null" json:"quantity"`
	Reference    string       `gorm:"type:varchar(30)" json:"reference"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (InventoryMovement) TableName() string {
	return "inventory_movements"
}

// LowStockAlert is derived on read from inventory joined with products.
// Alerts are never persisted; AlertTime is the time of the query.
type LowStockAlert struct {
	StockCode      string    `json:"stock_code"`
	Description    string    `json:"description"`
	AvailableStock int       `json:"available_stock"`
	ReorderLevel   int       `json:"reorder_level"`
	AlertTime      time.Time `json:"alert_time"`
}
