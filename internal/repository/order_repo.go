package repository

import (
	"go-retail-api/internal/model"
	"go-retail-api/pkg/pagination"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderFilter struct {
	Status     string
	CustomerID string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

var orderSortColumns = map[string]string{
	"order_id":     "order_id",
	"order_no":     "order_no",
	"order_date":   "order_date",
	"total_amount": "total_amount",
	"status":       "status",
}

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindAll(f OrderFilter) ([]model.Order, int64, error)
	FindByID(id uint) (*model.Order, error)
	Transition(tx *gorm.DB, id uint, from, to model.OrderStatus) (int64, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOrderRepo(db *gorm.DB, log *zap.Logger) OrderRepository {
	return &orderRepo{db: db, log: log}
}

// Create inserts the order header together with its item rows.
func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepo) FindAll(f OrderFilter) ([]model.Order, int64, error) {
	query := r.db.Model(&model.Order{})

	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.CustomerID != "" {
		query = query.Where("customer_id = ?", f.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.log.Error("failed to count orders", zap.Error(err))
		return nil, 0, err
	}

	var orders []model.Order
	err := query.
		Preload("Items").
		Order(sortClause(orderSortColumns, f.SortBy, f.SortOrder, "order_id")).
		Scopes(pagination.Scope(f.Page, f.Limit)).
		Find(&orders).Error
	if err != nil {
		r.log.Error("failed to list orders", zap.Error(err))
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepo) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").First(&order, "order_id = ?", id).Error
	return &order, err
}

// Transition moves an order from one status to another in a single
// guarded statement. Zero affected rows means the order is missing or
// no longer in the expected state, so concurrent transitions cannot
// both win.
func (r *orderRepo) Transition(tx *gorm.DB, id uint, from, to model.OrderStatus) (int64, error) {
	res := tx.Model(&model.Order{}).
		Where("order_id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}
