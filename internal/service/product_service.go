package service

import (
	"go-retail-api/internal/apperr"
	"go-retail-api/internal/model"
	"go-retail-api/internal/repository"
	"go-retail-api/internal/ws"
	"go-retail-api/pkg/pagination"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductRequest is the payload for create and replace. Replace is a
// full overwrite: omitted nullable fields are written as NULL, and
// omitted reorder_level/is_active fall back to their defaults.
type ProductRequest struct {
	StockCode     string           `json:"stock_code" validate:"required,max=20"`
	Description   string           `json:"description" validate:"required,max=255"`
	CategoryID    *uint            `json:"category_id"`
	UnitPrice     decimal.Decimal  `json:"unit_price" validate:"gt=0"`
	StockQuantity int              `json:"stock_quantity" validate:"gte=0"`
	ReorderLevel  *int             `json:"reorder_level" validate:"omitempty,gte=0"`
	SupplierInfo  *string          `json:"supplier_info"`
	IsActive      *bool            `json:"is_active"`
	Weight        *decimal.Decimal `json:"weight"`
	Dimensions    *string          `json:"dimensions" validate:"omitempty,max=50"`
}

func (r *ProductRequest) toModel() *model.Product {
	product := &model.Product{
		StockCode:     r.StockCode,
		Description:   r.Description,
		CategoryID:    r.CategoryID,
		UnitPrice:     r.UnitPrice,
		StockQuantity: r.StockQuantity,
		ReorderLevel:  10,
		SupplierInfo:  r.SupplierInfo,
		IsActive:      true,
		Weight:        r.Weight,
		Dimensions:    r.Dimensions,
	}
	if r.ReorderLevel != nil {
		product.ReorderLevel = *r.ReorderLevel
	}
	if r.IsActive != nil {
		product.IsActive = *r.IsActive
	}
	return product
}

type ProductService interface {
	List(f repository.ProductFilter) ([]model.Product, pagination.Pagination, error)
	Get(identifier string) (*model.Product, error)
	Create(req *ProductRequest) (*model.Product, error)
	Replace(identifier string, req *ProductRequest) (*model.Product, error)
	Delete(identifier string) (*model.Product, error)
}

type productService struct {
	products  repository.ProductRepository
	inventory repository.InventoryRepository
	db        *gorm.DB
	hub       *ws.Hub
	log       *zap.Logger
}

func NewProductService(products repository.ProductRepository, inventory repository.InventoryRepository, db *gorm.DB, hub *ws.Hub, log *zap.Logger) ProductService {
	return &productService{
		products:  products,
		inventory: inventory,
		db:        db,
		hub:       hub,
		log:       log,
	}
}

func (s *productService) List(f repository.ProductFilter) ([]model.Product, pagination.Pagination, error) {
	products, total, err := s.products.FindAll(f)
	if err != nil {
		return nil, pagination.Pagination{}, apperr.Internal(err)
	}
	return products, pagination.New(total, f.Page, f.Limit), nil
}

func (s *productService) Get(identifier string) (*model.Product, error) {
	product, err := s.products.FindByIdentifier(identifier)
	if err != nil {
		return nil, apperr.FromDB(err, "product not found")
	}
	return product, nil
}

func (s *productService) Create(req *ProductRequest) (*model.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if existing, err := s.products.FindByStockCode(req.StockCode); err == nil && existing.ProductID != 0 {
		return nil, apperr.Conflict("stock code '%s' already exists", req.StockCode)
	}

	product := req.toModel()

	// The mirror row is born with the product so stock movements only
	// ever need to update it.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.products.Create(tx, product); err != nil {
			return err
		}
		return s.inventory.EnsureRow(tx, &model.Inventory{
			StockCode:      product.StockCode,
			CurrentStock:   product.StockQuantity,
			AvailableStock: product.StockQuantity,
			ReorderLevel:   product.ReorderLevel,
		})
	})
	if err != nil {
		return nil, apperr.FromDB(err, "product not found")
	}

	s.log.Info("product created",
		zap.Uint("product_id", product.ProductID),
		zap.String("stock_code", product.StockCode))

	s.hub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "product_created",
		"product": map[string]interface{}{
			"product_id":     product.ProductID,
			"stock_code":     product.StockCode,
			"description":    product.Description,
			"stock_quantity": product.StockQuantity,
			"unit_price":     product.UnitPrice,
		},
	})

	return product, nil
}

func (s *productService) Replace(identifier string, req *ProductRequest) (*model.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.products.FindByIdentifier(identifier)
	if err != nil {
		return nil, apperr.FromDB(err, "product not found")
	}

	if req.StockCode != existing.StockCode {
		if other, err := s.products.FindByStockCode(req.StockCode); err == nil && other.ProductID != existing.ProductID {
			return nil, apperr.Conflict("stock code '%s' already exists", req.StockCode)
		}
	}

	oldCode := existing.StockCode
	oldStock := existing.StockQuantity

	next := req.toModel()
	next.ProductID = existing.ProductID
	next.CreatedAt = existing.CreatedAt

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if oldCode != next.StockCode {
			if err := s.inventory.Rename(tx, oldCode, next.StockCode); err != nil {
				return err
			}
		}
		if err := s.products.Save(tx, next); err != nil {
			return err
		}
		_, err := s.inventory.SyncLevels(tx, next.StockCode, next.StockQuantity, next.ReorderLevel)
		return err
	})
	if err != nil {
		return nil, apperr.FromDB(err, "product not found")
	}

	s.log.Info("product replaced",
		zap.Uint("product_id", next.ProductID),
		zap.String("stock_code", next.StockCode))

	s.hub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "product_updated",
		"product": map[string]interface{}{
			"product_id": next.ProductID,
			"stock_code": next.StockCode,
			"old_stock":  oldStock,
			"new_stock":  next.StockQuantity,
		},
	})
	notifyLowStock(s.hub, next, oldStock)

	return next, nil
}

func (s *productService) Delete(identifier string) (*model.Product, error) {
	product, err := s.products.FindByIdentifier(identifier)
	if err != nil {
		return nil, apperr.FromDB(err, "product not found")
	}

	dependents, err := s.products.DependentCount(product.StockCode)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if dependents > 0 {
		return nil, apperr.Conflict("product '%s' is referenced by %d transaction rows", product.StockCode, dependents)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.inventory.DeleteRow(tx, product.StockCode); err != nil {
			return err
		}
		return s.products.Delete(tx, product)
	})
	if err != nil {
		return nil, apperr.FromDB(err, "product not found")
	}

	s.log.Info("product deleted",
		zap.Uint("product_id", product.ProductID),
		zap.String("stock_code", product.StockCode))

	return product, nil
}
