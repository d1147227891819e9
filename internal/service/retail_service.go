package service

import (
	"time"

	"go-retail-api/internal/apperr"
	"go-retail-api/internal/model"
	"go-retail-api/internal/repository"
	"go-retail-api/internal/ws"
	"go-retail-api/pkg/pagination"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RetailLineRequest is the payload for recording or editing one retail
// transaction line. Zero quantity is permitted, matching the source
// dataset, and a missing invoice_date defaults to now.
type RetailLineRequest struct {
	InvoiceNo   string          `json:"invoice_no" validate:"required,max=20"`
	StockCode   string          `json:"stock_code" validate:"required,max=20"`
	Description string          `json:"description" validate:"max=255"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	InvoiceDate *time.Time      `json:"invoice_date"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"gte=0"`
	CustomerID  *string         `json:"customer_id" validate:"omitempty,max=20"`
	Country     string          `json:"country" validate:"max=60"`
}

// MonthlySalesReport is the aggregate returned for one calendar month.
type MonthlySalesReport struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type RetailService interface {
	List(f repository.RetailFilter) ([]model.RetailLine, pagination.Pagination, error)
	Get(id uint) (*model.RetailLine, error)
	Create(req *RetailLineRequest) (*model.RetailLine, error)
	Update(id uint, req *RetailLineRequest) (*model.RetailLine, error)
	MonthlySales(year, month int) (*MonthlySalesReport, error)
}

type retailService struct {
	retail  repository.RetailRepository
	effects stockEffects
	db      *gorm.DB
	hub     *ws.Hub
	log     *zap.Logger
}

func NewRetailService(retail repository.RetailRepository, products repository.ProductRepository, inventory repository.InventoryRepository, db *gorm.DB, hub *ws.Hub, log *zap.Logger) RetailService {
	return &retailService{
		retail:  retail,
		effects: stockEffects{products: products, inventory: inventory},
		db:      db,
		hub:     hub,
		log:     log,
	}
}

func (s *retailService) List(f repository.RetailFilter) ([]model.RetailLine, pagination.Pagination, error) {
	lines, total, err := s.retail.FindAll(f)
	if err != nil {
		return nil, pagination.Pagination{}, apperr.Internal(err)
	}
	return lines, pagination.New(total, f.Page, f.Limit), nil
}

func (s *retailService) Get(id uint) (*model.RetailLine, error) {
	line, err := s.retail.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "retail line not found")
	}
	return line, nil
}

// Create inserts the line and applies its stock effect in one
// transaction: the product decrements by the sold quantity, the mirror
// follows, and a movement row records the sale. An unknown stock code
// rolls everything back.
func (s *retailService) Create(req *RetailLineRequest) (*model.RetailLine, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	line := &model.RetailLine{
		InvoiceNo:   req.InvoiceNo,
		StockCode:   req.StockCode,
		Description: req.Description,
		Quantity:    req.Quantity,
		InvoiceDate: time.Now().UTC(),
		UnitPrice:   req.UnitPrice,
		CustomerID:  req.CustomerID,
		Country:     req.Country,
	}
	if req.InvoiceDate != nil {
		line.InvoiceDate = *req.InvoiceDate
	}

	var after *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.retail.Create(tx, line); err != nil {
			return err
		}
		product, err := s.effects.apply(tx, line.StockCode, -line.Quantity, line.InvoiceNo, line.InvoiceDate)
		if err != nil {
			return err
		}
		after = product
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "retail line not found")
	}

	s.log.Info("retail line recorded",
		zap.String("invoice_no", line.InvoiceNo),
		zap.String("stock_code", line.StockCode),
		zap.Int("quantity", line.Quantity),
		zap.Int("stock_after", after.StockQuantity))

	s.hub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "retail_line_recorded",
		"line": map[string]interface{}{
			"id":         line.ID,
			"invoice_no": line.InvoiceNo,
			"stock_code": line.StockCode,
			"quantity":   line.Quantity,
			"unit_price": line.UnitPrice,
		},
		"new_stock": after.StockQuantity,
	})
	notifyLowStock(s.hub, after, after.StockQuantity+line.Quantity)

	return line, nil
}

// Update edits the descriptive fields of a line. Quantity and price
// edits do not replay stock effects; the movement history keeps the
// original sale.
func (s *retailService) Update(id uint, req *RetailLineRequest) (*model.RetailLine, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	line, err := s.retail.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "retail line not found")
	}

	line.InvoiceNo = req.InvoiceNo
	line.StockCode = req.StockCode
	line.Description = req.Description
	line.Quantity = req.Quantity
	line.UnitPrice = req.UnitPrice
	line.CustomerID = req.CustomerID
	line.Country = req.Country
	if req.InvoiceDate != nil {
		line.InvoiceDate = *req.InvoiceDate
	}
	line.Product = nil

	if err := s.retail.Save(line); err != nil {
		return nil, apperr.FromDB(err, "retail line not found")
	}

	s.log.Info("retail line updated", zap.Uint("id", line.ID))
	return line, nil
}

func (s *retailService) MonthlySales(year, month int) (*MonthlySalesReport, error) {
	if month < 1 || month > 12 {
		return nil, apperr.Validation("month must be between 1 and 12")
	}
	if year < 1900 || year > 2100 {
		return nil, apperr.Validation("year must be between 1900 and 2100")
	}

	total, err := s.retail.MonthlySales(year, month)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &MonthlySalesReport{Year: year, Month: month, TotalSales: total}, nil
}
