package handler

import (
	"time"

	"go-retail-api/internal/repository"
	"go-retail-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type RetailHandler struct {
	svc  service.RetailService
	resp *Responder
}

func NewRetailHandler(svc service.RetailService, resp *Responder) *RetailHandler {
	return &RetailHandler{svc: svc, resp: resp}
}

// List handles GET /api/v1/retail. Date bounds accept YYYY-MM-DD; the
// upper bound is stretched to the end of its day so it is inclusive.
func (h *RetailHandler) List(c *fiber.Ctx) error {
	f := repository.RetailFilter{
		Search:     c.Query("search"),
		InvoiceNo:  c.Query("invoice_no"),
		StockCode:  c.Query("stock_code"),
		CustomerID: c.Query("customer_id"),
		Country:    c.Query("country"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 10),
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Second)
			f.To = &end
		}
	}

	lines, pg, err := h.svc.List(f)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.List(c, lines, pg)
}

// Get handles GET /api/v1/retail/:id.
func (h *RetailHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return h.resp.Fail(c, 400, "invalid retail line id")
	}

	line, err := h.svc.Get(uint(id))
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Data(c, 200, line)
}

// Create handles POST /api/v1/retail and applies the sale's stock
// effects.
func (h *RetailHandler) Create(c *fiber.Ctx) error {
	var req service.RetailLineRequest
	if err := c.BodyParser(&req); err != nil {
		return h.resp.Fail(c, 400, "invalid JSON body")
	}

	line, err := h.svc.Create(&req)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Data(c, 201, line)
}

// Update handles PUT /api/v1/retail/:id. Descriptive edit only, stock
// is not replayed.
func (h *RetailHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return h.resp.Fail(c, 400, "invalid retail line id")
	}

	var req service.RetailLineRequest
	if err := c.BodyParser(&req); err != nil {
		return h.resp.Fail(c, 400, "invalid JSON body")
	}

	line, err := h.svc.Update(uint(id), &req)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Data(c, 200, line)
}

// MonthlySales handles GET /api/v1/retail/monthly-sales. Year and
// month default to the current month.
func (h *RetailHandler) MonthlySales(c *fiber.Ctx) error {
	now := time.Now().UTC()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))

	report, err := h.svc.MonthlySales(year, month)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Data(c, 200, report)
}
