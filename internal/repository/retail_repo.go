package repository

import (
	"time"

	"go-retail-api/internal/model"
	"go-retail-api/pkg/pagination"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RetailFilter carries the query parameters of the retail list
// endpoint. From/To bound invoice_date inclusively on both ends.
type RetailFilter struct {
	Search     string
	InvoiceNo  string
	StockCode  string
	CustomerID string
	Country    string
	From       *time.Time
	To         *time.Time
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

var retailSortColumns = map[string]string{
	"id":           "id",
	"invoice_no":   "invoice_no",
	"stock_code":   "stock_code",
	"quantity":     "quantity",
	"unit_price":   "unit_price",
	"invoice_date": "invoice_date",
	"country":      "country",
}

// DailySales is one bucket of the sales trend aggregation.
type DailySales struct {
	Date      string          `json:"date"`
	Total     decimal.Decimal `json:"total"`
	LineCount int64           `json:"line_count"`
}

type RetailRepository interface {
	Create(tx *gorm.DB, line *model.RetailLine) error
	FindAll(f RetailFilter) ([]model.RetailLine, int64, error)
	FindByID(id uint) (*model.RetailLine, error)
	Save(line *model.RetailLine) error
	MonthlySales(year, month int) (decimal.Decimal, error)
	DailySales(start, end time.Time) ([]DailySales, error)
}

type retailRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRetailRepo(db *gorm.DB, log *zap.Logger) RetailRepository {
	return &retailRepo{db: db, log: log}
}

func (r *retailRepo) Create(tx *gorm.DB, line *model.RetailLine) error {
	return tx.Create(line).Error
}

func (r *retailRepo) FindAll(f RetailFilter) ([]model.RetailLine, int64, error) {
	query := r.db.Model(&model.RetailLine{})

	if f.Search != "" {
		p := searchPattern(f.Search)
		query = query.Where("(LOWER(description) LIKE ? OR LOWER(stock_code) LIKE ?)", p, p)
	}
	if f.InvoiceNo != "" {
		query = query.Where("invoice_no = ?", f.InvoiceNo)
	}
	if f.StockCode != "" {
		query = query.Where("stock_code = ?", f.StockCode)
	}
	if f.CustomerID != "" {
		query = query.Where("customer_id = ?", f.CustomerID)
	}
	if f.Country != "" {
		query = query.Where("country = ?", f.Country)
	}
	if f.From != nil {
		query = query.Where("invoice_date >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("invoice_date <= ?", *f.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.log.Error("failed to count retail lines", zap.Error(err))
		return nil, 0, err
	}

	var lines []model.RetailLine
	err := query.
		Order(sortClause(retailSortColumns, f.SortBy, f.SortOrder, "invoice_date")).
		Scopes(pagination.Scope(f.Page, f.Limit)).
		Find(&lines).Error
	if err != nil {
		r.log.Error("failed to list retail lines", zap.Error(err))
		return nil, 0, err
	}
	return lines, total, nil
}

func (r *retailRepo) FindByID(id uint) (*model.RetailLine, error) {
	var line model.RetailLine
	err := r.db.Preload("Product").First(&line, "id = ?", id).Error
	return &line, err
}

func (r *retailRepo) Save(line *model.RetailLine) error {
	return r.db.Save(line).Error
}

// MonthlySales sums quantity * unit_price over the half-open window
// [first of month, first of next month) in a single round trip.
func (r *retailRepo) MonthlySales(year, month int) (decimal.Decimal, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var row struct {
		Total decimal.Decimal
	}
	err := r.db.Model(&model.RetailLine{}).
		Select("COALESCE(SUM(quantity * unit_price), 0) AS total").
		Where("invoice_date >= ? AND invoice_date < ?", start, end).
		Scan(&row).Error
	if err != nil {
		r.log.Error("failed to aggregate monthly sales",
			zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return decimal.Zero, err
	}
	return row.Total, nil
}

// DailySales aggregates revenue and line counts per calendar day.
func (r *retailRepo) DailySales(start, end time.Time) ([]DailySales, error) {
	var results []DailySales

	rows, err := r.db.Model(&model.RetailLine{}).
		Select(`
			DATE(invoice_date) AS date,
			COALESCE(SUM(quantity * unit_price), 0) AS total,
			COUNT(*) AS line_count
		`).
		Where("invoice_date BETWEEN ? AND ?", start, end).
		Group("DATE(invoice_date)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailySales
		if err := rows.Scan(&data.Date, &data.Total, &data.LineCount); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}
