package handler

import (
	"errors"

	"go-retail-api/internal/apperr"
	"go-retail-api/pkg/pagination"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Responder writes every payload in the envelope the API promises:
// {"success": true, "data": ...} on the happy path and
// {"success": false, "error": ...} on failures.
type Responder struct {
	log *zap.Logger
	dev bool
}

func NewResponder(log *zap.Logger, dev bool) *Responder {
	return &Responder{log: log, dev: dev}
}

func (r *Responder) Data(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func (r *Responder) List(c *fiber.Ctx, data interface{}, pg pagination.Pagination) error {
	return c.JSON(fiber.Map{"success": true, "data": data, "pagination": pg})
}

// Fail writes an explicit status and message, for failures that never
// pass through the taxonomy (malformed JSON, auth errors).
func (r *Responder) Fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": msg})
}

// Error maps a service error onto the response taxonomy. Internal
// failures are logged with the full cause and masked in the response
// unless the API runs in development.
func (r *Responder) Error(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	msg := "internal server error"

	var ae *apperr.Error
	if errors.As(err, &ae) {
		msg = ae.Msg
	}

	if status == 500 {
		r.log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		if r.dev {
			msg = err.Error()
		}
	}

	return c.Status(status).JSON(fiber.Map{"success": false, "error": msg})
}
