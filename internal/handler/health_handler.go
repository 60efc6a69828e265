package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Pinger is an interface for health check ping operations.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	pool    Pinger
	service string
}

// NewHealthHandler creates a new HealthHandler reporting for the named service.
func NewHealthHandler(pool Pinger, serviceName string) *HealthHandler {
	return &HealthHandler{pool: pool, service: serviceName}
}

// Check pings the database. Returns 503 with status "unhealthy" when it is unreachable.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.pool.Ping(c.UserContext()); err != nil {
		log.Error().Err(err).Msg("health check failed: database unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"status":  "unhealthy",
			"service": h.service,
			"error":   "database connection failed",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"status":  "healthy",
		"service": h.service,
	})
}
