package handler

import (
	"strconv"

	"go-retail-api/internal/repository"
	"go-retail-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	svc  service.ProductService
	resp *Responder
}

func NewProductHandler(svc service.ProductService, resp *Responder) *ProductHandler {
	return &ProductHandler{svc: svc, resp: resp}
}

// List handles GET /api/v1/products. Unknown sort columns and
// malformed filter values are ignored rather than rejected.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := repository.ProductFilter{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
	}
	if v := c.Query("category_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			cid := uint(id)
			f.CategoryID = &cid
		}
	}
	if v := c.Query("is_active"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			f.IsActive = &active
		}
	}

	products, pg, err := h.svc.List(f)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.List(c, products, pg)
}

// Get handles GET /api/v1/products/:id. The identifier is the numeric
// product id or, failing that, a stock code.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	product, err := h.svc.Get(c.Params("id"))
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Data(c, 200, product)
}

// Create handles POST /api/v1/products.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return h.resp.Fail(c, 400, "invalid JSON body")
	}

	product, err := h.svc.Create(&req)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Data(c, 201, product)
}

// Replace handles PUT /api/v1/products/:id as a full-row overwrite.
func (h *ProductHandler) Replace(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return h.resp.Fail(c, 400, "invalid JSON body")
	}

	product, err := h.svc.Replace(c.Params("id"), &req)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Data(c, 200, product)
}

// Delete handles DELETE /api/v1/products/:id and returns the deleted
// row.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	product, err := h.svc.Delete(c.Params("id"))
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Data(c, 200, product)
}
