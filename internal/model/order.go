package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order is a header row with its item lines. TotalAmount is the sum of
// the line totals, fixed at creation time.
type Order struct {
	OrderID     uint            `gorm:"column:order_id;primaryKey" json:"order_id"`
	OrderNo     string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_no"`
	CustomerID  *string         `gorm:"type:varchar(20);index" json:"customer_id"`
	Country     string          `gorm:"type:varchar(60)" json:"country"`
	Status      OrderStatus     `gorm:"type:varchar(10);not null" json:"status"`
	OrderDate   time.Time       `gorm:"not null" json:"order_date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is one product position of an order.
type OrderItem struct {
	OrderItemID uint            `gorm:"column:order_item_id;primaryKey" json:"order_item_id"`
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	StockCode   string          `gorm:"type:varchar(20);not null;index" json:"stock_code"`
	Quantity    int             `gorm:"not null;check:chk_order_items_quantity,quantity >= 0" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;check:chk_order_items_unit_price,unit_price >= 0" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
