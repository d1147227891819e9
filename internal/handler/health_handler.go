package handler

import (
	"time"

	"go-retail-api/pkg/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db      *gorm.DB
	env     string
	started time.Time
}

func NewHealthHandler(db *gorm.DB, env string) *HealthHandler {
	return &HealthHandler{db: db, env: env, started: time.Now()}
}

// Check reports process and database health. Returns 503 when the
// database cannot be reached so load balancers take the node out.
// GET /health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := fiber.StatusOK
	overall := "ok"
	dbStatus := "up"
	if err := database.Ping(h.db); err != nil {
		status = fiber.StatusServiceUnavailable
		overall = "degraded"
		dbStatus = "down"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":   overall,
		"database": dbStatus,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
		"env":      h.env,
	})
}
