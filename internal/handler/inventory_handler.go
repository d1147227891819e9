package handler

import (
	"go-retail-api/internal/repository"
	"go-retail-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	svc  service.InventoryService
	resp *Responder
}

func NewInventoryHandler(svc service.InventoryService, resp *Responder) *InventoryHandler {
	return &InventoryHandler{svc: svc, resp: resp}
}

// List handles GET /api/v1/inventory.
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	rows, pg, err := h.svc.List(page, limit)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.List(c, rows, pg)
}

// Get handles GET /api/v1/inventory/:stock_code.
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	inv, err := h.svc.Get(c.Params("stock_code"))
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Data(c, 200, inv)
}

// Movements handles GET /api/v1/inventory/movements.
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	f := repository.MovementFilter{
		StockCode: c.Query("stock_code"),
		Type:      c.Query("type"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
	}

	movements, pg, err := h.svc.Movements(f)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.List(c, movements, pg)
}

// LowStock handles GET /api/v1/inventory/low-stock. The list is derived
// at request time and never persisted.
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	alerts, err := h.svc.LowStock()
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Data(c, 200, alerts)
}
