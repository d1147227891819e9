package handler

import (
	"go-retail-api/internal/repository"
	"go-retail-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	svc  service.OrderService
	resp *Responder
}

func NewOrderHandler(svc service.OrderService, resp *Responder) *OrderHandler {
	return &OrderHandler{svc: svc, resp: resp}
}

// List handles GET /api/v1/orders.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	f := repository.OrderFilter{
		Status:     c.Query("status"),
		CustomerID: c.Query("customer_id"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 10),
	}

	orders, pg, err := h.svc.List(f)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.List(c, orders, pg)
}

// Get handles GET /api/v1/orders/:id.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return h.resp.Fail(c, 400, "invalid order id")
	}

	order, err := h.svc.Get(uint(id))
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Data(c, 200, order)
}

// Create handles POST /api/v1/orders. Every item decrements its
// product inside the same transaction as the order insert.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req service.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return h.resp.Fail(c, 400, "invalid JSON body")
	}

	order, err := h.svc.Create(&req)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Data(c, 201, order)
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/v1/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return h.resp.Fail(c, 400, "invalid order id")
	}

	var req orderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return h.resp.Fail(c, 400, "invalid JSON body")
	}

	order, err := h.svc.UpdateStatus(uint(id), req.Status)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Data(c, 200, order)
}
