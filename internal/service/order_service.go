package service

import (
	"strings"
	"time"

	"go-retail-api/internal/apperr"
	"go-retail-api/internal/model"
	"go-retail-api/internal/repository"
	"go-retail-api/internal/ws"
	"go-retail-api/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderItemRequest struct {
	StockCode string          `json:"stock_code" validate:"required,max=20"`
	Quantity  int             `json:"quantity" validate:"gte=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

type OrderRequest struct {
	CustomerID *string            `json:"customer_id" validate:"omitempty,max=20"`
	Country    string             `json:"country" validate:"max=60"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderService interface {
	List(f repository.OrderFilter) ([]model.Order, pagination.Pagination, error)
	Get(id uint) (*model.Order, error)
	Create(req *OrderRequest) (*model.Order, error)
	UpdateStatus(id uint, status string) (*model.Order, error)
}

type orderService struct {
	orders  repository.OrderRepository
	effects stockEffects
	db      *gorm.DB
	hub     *ws.Hub
	log     *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, inventory repository.InventoryRepository, db *gorm.DB, hub *ws.Hub, log *zap.Logger) OrderService {
	return &orderService{
		orders:  orders,
		effects: stockEffects{products: products, inventory: inventory},
		db:      db,
		hub:     hub,
		log:     log,
	}
}

// newOrderNo derives a short unique invoice number from a fresh UUID.
func newOrderNo() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "INV-" + id[:8]
}

func (s *orderService) List(f repository.OrderFilter) ([]model.Order, pagination.Pagination, error) {
	orders, total, err := s.orders.FindAll(f)
	if err != nil {
		return nil, pagination.Pagination{}, apperr.Internal(err)
	}
	return orders, pagination.New(total, f.Page, f.Limit), nil
}

func (s *orderService) Get(id uint) (*model.Order, error) {
	order, err := s.orders.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "order not found")
	}
	return order, nil
}

// Create books the order and applies every item's stock effect in one
// transaction. One unknown stock code rolls back the whole order, the
// header and all item decrements included.
func (s *orderService) Create(req *OrderRequest) (*model.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	order := &model.Order{
		OrderNo:    newOrderNo(),
		CustomerID: req.CustomerID,
		Country:    req.Country,
		Status:     model.OrderPending,
		OrderDate:  time.Now().UTC(),
	}

	total := decimal.Zero
	for _, item := range req.Items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		order.Items = append(order.Items, model.OrderItem{
			StockCode: item.StockCode,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: lineTotal,
		})
		total = total.Add(lineTotal)
	}
	order.TotalAmount = total

	// Track the last post-decrement snapshot per stock code plus the
	// stock before the order touched it, for threshold notifications.
	afterByCode := make(map[string]*model.Product)
	oldStocks := make(map[string]int)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orders.Create(tx, order); err != nil {
			return err
		}
		for _, item := range order.Items {
			after, err := s.effects.apply(tx, item.StockCode, -item.Quantity, order.OrderNo, order.OrderDate)
			if err != nil {
				return err
			}
			if _, seen := oldStocks[after.StockCode]; !seen {
				oldStocks[after.StockCode] = after.StockQuantity + item.Quantity
			}
			afterByCode[after.StockCode] = after
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "order not found")
	}

	s.log.Info("order created",
		zap.String("order_no", order.OrderNo),
		zap.Int("items", len(order.Items)),
		zap.String("total_amount", order.TotalAmount.String()))

	s.hub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "order_created",
		"order": map[string]interface{}{
			"order_id":     order.OrderID,
			"order_no":     order.OrderNo,
			"status":       order.Status,
			"total_amount": order.TotalAmount,
			"items":        len(order.Items),
		},
	})
	for code, product := range afterByCode {
		notifyLowStock(s.hub, product, oldStocks[code])
	}

	return order, nil
}

// UpdateStatus moves an order between states. Only pending orders may
// transition; cancelling one restocks every item so the movement trail
// shows the reversal.
func (s *orderService) UpdateStatus(id uint, status string) (*model.Order, error) {
	next := model.OrderStatus(status)
	if !next.Valid() {
		return nil, apperr.Validation("status must be one of pending, completed, cancelled")
	}

	order, err := s.orders.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "order not found")
	}

	if order.Status == next {
		return order, nil
	}
	if order.Status != model.OrderPending {
		return nil, apperr.Conflict("order %s is already %s", order.OrderNo, order.Status)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		affected, err := s.orders.Transition(tx, id, model.OrderPending, next)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.Conflict("order %s was finalized concurrently", order.OrderNo)
		}
		if next == model.OrderCancelled {
			for _, item := range order.Items {
				if _, err := s.effects.apply(tx, item.StockCode, item.Quantity, order.OrderNo, time.Now().UTC()); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromDB(err, "order not found")
	}

	order.Status = next

	s.log.Info("order status updated",
		zap.String("order_no", order.OrderNo),
		zap.String("status", string(next)))

	s.hub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "order_status_updated",
		"order": map[string]interface{}{
			"order_id": order.OrderID,
			"order_no": order.OrderNo,
			"status":   order.Status,
		},
	})

	return order, nil
}
