package repository

import (
	"strconv"

	"go-retail-api/internal/model"
	"go-retail-api/pkg/pagination"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductFilter carries the query parameters of the product list
// endpoint. Nil pointer fields mean the filter is absent.
type ProductFilter struct {
	Search     string
	CategoryID *uint
	IsActive   *bool
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

var productSortColumns = map[string]string{
	"product_id":     "product_id",
	"stock_code":     "stock_code",
	"description":    "description",
	"unit_price":     "unit_price",
	"stock_quantity": "stock_quantity",
	"reorder_level":  "reorder_level",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll(f ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindByStockCode(code string) (*model.Product, error)
	FindByIdentifier(identifier string) (*model.Product, error)
	Save(tx *gorm.DB, product *model.Product) error
	Delete(tx *gorm.DB, product *model.Product) error
	DependentCount(stockCode string) (int64, error)
	AdjustStock(tx *gorm.DB, stockCode string, delta int) (int64, error)
}

type productRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewProductRepo(db *gorm.DB, log *zap.Logger) ProductRepository {
	return &productRepo{db: db, log: log}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindAll(f ProductFilter) ([]model.Product, int64, error) {
	query := r.db.Model(&model.Product{})

	if f.Search != "" {
		p := searchPattern(f.Search)
		query = query.Where("(LOWER(description) LIKE ? OR LOWER(stock_code) LIKE ?)", p, p)
	}
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if f.IsActive != nil {
		query = query.Where("is_active = ?", *f.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.log.Error("failed to count products", zap.Error(err))
		return nil, 0, err
	}

	var products []model.Product
	err := query.
		Order(sortClause(productSortColumns, f.SortBy, f.SortOrder, "product_id")).
		Scopes(pagination.Scope(f.Page, f.Limit)).
		Find(&products).Error
	if err != nil {
		r.log.Error("failed to list products", zap.Error(err))
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepo) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "product_id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindByStockCode(code string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "stock_code = ?", code).Error
	return &product, err
}

// FindByIdentifier resolves a path identifier: an all-digit value is
// treated as the surrogate product_id, anything else as a stock code.
func (r *productRepo) FindByIdentifier(identifier string) (*model.Product, error) {
	if id, err := strconv.ParseUint(identifier, 10, 32); err == nil {
		return r.FindByID(uint(id))
	}
	return r.FindByStockCode(identifier)
}

func (r *productRepo) Save(tx *gorm.DB, product *model.Product) error {
	return tx.Save(product).Error
}

func (r *productRepo) Delete(tx *gorm.DB, product *model.Product) error {
	return tx.Delete(product).Error
}

// DependentCount counts the rows in other tables that reference the
// product's stock code. A product with dependents must not be deleted.
func (r *productRepo) DependentCount(stockCode string) (int64, error) {
	var total int64
	for _, m := range []interface{}{&model.RetailLine{}, &model.OrderItem{}, &model.InventoryMovement{}} {
		var count int64
		if err := r.db.Model(m).Where("stock_code = ?", stockCode).Count(&count).Error; err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

// AdjustStock applies a signed delta to the stock in one statement, so
// concurrent sales serialize on the row lock instead of racing a
// read-modify-write. Zero affected rows means the stock code does not
// exist; the caller must abort its transaction in that case.
func (r *productRepo) AdjustStock(tx *gorm.DB, stockCode string, delta int) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("stock_code = ?", stockCode).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	return res.RowsAffected, res.Error
}
