package service

import (
	"time"

	"go-retail-api/internal/apperr"
	"go-retail-api/internal/model"
	"go-retail-api/internal/repository"
	"go-retail-api/pkg/pagination"

	"go.uber.org/zap"
)

// InventoryService exposes the read side of stock tracking: mirror
// rows, the movement trail, and the derived low-stock alert list.
type InventoryService interface {
	List(page, limit int) ([]model.Inventory, pagination.Pagination, error)
	Get(stockCode string) (*model.Inventory, error)
	Movements(f repository.MovementFilter) ([]model.InventoryMovement, pagination.Pagination, error)
	LowStock() ([]model.LowStockAlert, error)
}

type inventoryService struct {
	inventory repository.InventoryRepository
	log       *zap.Logger
}

func NewInventoryService(inventory repository.InventoryRepository, log *zap.Logger) InventoryService {
	return &inventoryService{inventory: inventory, log: log}
}

func (s *inventoryService) List(page, limit int) ([]model.Inventory, pagination.Pagination, error) {
	rows, total, err := s.inventory.FindAll(page, limit)
	if err != nil {
		return nil, pagination.Pagination{}, apperr.Internal(err)
	}
	return rows, pagination.New(total, page, limit), nil
}

func (s *inventoryService) Get(stockCode string) (*model.Inventory, error) {
	inv, err := s.inventory.FindByStockCode(stockCode)
	if err != nil {
		return nil, apperr.FromDB(err, "inventory row not found")
	}
	return inv, nil
}

func (s *inventoryService) Movements(f repository.MovementFilter) ([]model.InventoryMovement, pagination.Pagination, error) {
	movements, total, err := s.inventory.Movements(f)
	if err != nil {
		return nil, pagination.Pagination{}, apperr.Internal(err)
	}
	return movements, pagination.New(total, f.Page, f.Limit), nil
}

// LowStock returns the alert list derived at query time. AlertTime is
// stamped here; nothing is written back.
func (s *inventoryService) LowStock() ([]model.LowStockAlert, error) {
	alerts, err := s.inventory.LowStock()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := time.Now().UTC()
	for i := range alerts {
		alerts[i].AlertTime = now
	}
	return alerts, nil
}
