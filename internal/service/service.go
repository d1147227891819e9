package service

import (
	"fmt"
	"time"

	"go-retail-api/internal/apperr"
	"go-retail-api/internal/model"
	"go-retail-api/internal/repository"
	"go-retail-api/internal/ws"
	"go-retail-api/pkg/validator"

	"gorm.io/gorm"
)

// validateRequest runs struct validation and converts the first failure
// into a client-facing validation error. Validation always happens
// before any database round trip.
func validateRequest(data interface{}) error {
	if err := validator.Struct(data); err != nil {
		return apperr.Validation("validation failed: %v", err)
	}
	return nil
}

// stockEffects bundles the writes every stock-touching insert performs,
// so retail lines and orders share one code path: shift the product
// row, keep the inventory mirror in step, append the movement record.
type stockEffects struct {
	products  repository.ProductRepository
	inventory repository.InventoryRepository
}

// apply runs the stock side of a sale (negative delta) or restock
// (positive delta) inside tx and returns the product state after the
// shift. A delta hitting no product row aborts the transaction as a
// referential failure, which also covers the zero-quantity case where
// the statement still validates the stock code.
func (e stockEffects) apply(tx *gorm.DB, stockCode string, delta int, reference string, at time.Time) (*model.Product, error) {
	affected, err := e.products.AdjustStock(tx, stockCode, delta)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperr.New(apperr.KindForeignKey, fmt.Sprintf("stock code '%s' does not exist", stockCode))
	}

	var after model.Product
	if err := tx.First(&after, "stock_code = ?", stockCode).Error; err != nil {
		return nil, err
	}

	mirrored, err := e.inventory.ApplyMovement(tx, stockCode, delta, at)
	if err != nil {
		return nil, err
	}
	if mirrored == 0 {
		// Mirror row missing, e.g. for rows imported before the mirror
		// existed. Recreate it from the product state.
		movedAt := at
		if err := e.inventory.EnsureRow(tx, &model.Inventory{
			StockCode:      stockCode,
			CurrentStock:   after.StockQuantity,
			AvailableStock: after.StockQuantity,
			ReorderLevel:   after.ReorderLevel,
			LastMovementAt: &movedAt,
		}); err != nil {
			return nil, err
		}
	}

	if delta != 0 {
		movement := &model.InventoryMovement{
			StockCode:    stockCode,
			MovementType: model.MovementOut,
			Quantity:     -delta,
			Reference:    reference,
		}
		if delta > 0 {
			movement.MovementType = model.MovementIn
			movement.Quantity = delta
		}
		if err := e.inventory.AddMovement(tx, movement); err != nil {
			return nil, err
		}
	}

	return &after, nil
}

// notifyLowStock publishes an alert when the stock level crosses the
// reorder threshold downward. Repeated sales below the threshold stay
// quiet until the level recovers.
func notifyLowStock(hub *ws.Hub, product *model.Product, oldStock int) {
	if oldStock > product.ReorderLevel && product.StockQuantity <= product.ReorderLevel {
		hub.Publish(map[string]interface{}{
			"type": "low_stock_alert",
			"alert": map[string]interface{}{
				"stock_code":      product.StockCode,
				"description":     product.Description,
				"available_stock": product.StockQuantity,
				"reorder_level":   product.ReorderLevel,
				"alert_time":      time.Now().UTC(),
			},
		})
	}
}
