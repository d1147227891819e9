package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RetailLine is one line of the retail transactions table: one product
// position on one invoice. The table keeps the flat shape of the UCI
// online-retail dataset, so an invoice is just the set of lines sharing
// an invoice_no.
type RetailLine struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	InvoiceNo   string          `gorm:"type:varchar(20);not null;index" json:"invoice_no"`
	StockCode   string          `gorm:"type:varchar(20);not null;index" json:"stock_code"`
	Description string          `gorm:"type:varchar(255)" json:"description"`
	Quantity    int             `gorm:"not null;check:chk_retail_quantity,quantity >= 0" json:"quantity"`
	InvoiceDate time.Time       `gorm:"not null;index" json:"invoice_date"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;check:chk_retail_unit_price,unit_price >= 0" json:"unit_price"`
	CustomerID  *string         `gorm:"type:varchar(20);index" json:"customer_id"`
	Country     string          `gorm:"type:varchar(60);index" json:"country"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Product *Product `gorm:"foreignKey:StockCode;references:StockCode" json:"product,omitempty"`
}

func (RetailLine) TableName() string {
	return "retail"
}
