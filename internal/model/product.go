package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog entry for one stock item. ProductID is the
// surrogate key, StockCode the business key the retail dataset uses.
// StockQuantity deliberately carries no non-negative constraint: sales
// decrement it unconditionally, so overselling drives it below zero.
type Product struct {
	ProductID     uint             `gorm:"column:product_id;primaryKey" json:"product_id"`
	StockCode     string           `gorm:"type:varchar(20);uniqueIndex;not null" json:"stock_code"`
	Description   string           `gorm:"type:varchar(255);not null" json:"description"`
	CategoryID    *uint            `gorm:"index" json:"category_id"`
	UnitPrice     decimal.Decimal  `gorm:"type:decimal(12,2);not null;check:chk_products_unit_price,unit_price > 0" json:"unit_price"`
	StockQuantity int              `gorm:"not null" json:"stock_quantity"`
	ReorderLevel  int              `gorm:"not null" json:"reorder_level"`
	SupplierInfo  *string          `gorm:"type:text" json:"supplier_info"`
	IsActive      bool             `gorm:"not null" json:"is_active"`
	Weight        *decimal.Decimal `gorm:"type:decimal(8,3)" json:"weight"`
	Dimensions    *string          `gorm:"type:varchar(50)" json:"dimensions"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
