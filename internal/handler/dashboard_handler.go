package handler

import (
	"go-retail-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	svc  service.DashboardService
	resp *Responder
}

func NewDashboardHandler(svc service.DashboardService, resp *Responder) *DashboardHandler {
	return &DashboardHandler{svc: svc, resp: resp}
}

// Stats returns the aggregate counters shown on the dashboard landing page.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	overview, err := h.svc.Stats()
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Data(c, fiber.StatusOK, overview)
}

// SalesTrend returns per-day sales totals for the last N days.
// Query params: days (default 7, clamped to [1,365]).
func (h *DashboardHandler) SalesTrend(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days <= 0 {
		days = 7
	}
	if days > 365 {
		days = 365
	}

	trend, err := h.svc.SalesTrend(days)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Data(c, fiber.StatusOK, fiber.Map{
		"period": days,
		"series": trend,
	})
}
