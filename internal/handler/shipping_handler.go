package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/vaitahavya/morandi-sub002/internal/model"
)

// ShippingServiceInterface defines the interface for shipping business logic.
type ShippingServiceInterface interface {
	Quote(ctx context.Context, pincode string, subtotal float64) (*model.ShippingQuote, error)
	CreateRate(ctx context.Context, req *model.ShippingRateRequest) (*model.ShippingRate, error)
	UpdateRate(ctx context.Context, id int64, req *model.ShippingRateRequest) (*model.ShippingRate, error)
	GetRate(ctx context.Context, id int64) (*model.ShippingRate, error)
	ListRates(ctx context.Context, activeOnly bool) ([]model.ShippingRate, error)
	DeactivateRate(ctx context.Context, id int64) error
}

// ShippingHandler handles HTTP requests for shipping quotes and rate administration.
type ShippingHandler struct {
	service   ShippingServiceInterface
	validator *validator.Validate
}

// NewShippingHandler creates a new ShippingHandler with the given service and validator.
func NewShippingHandler(svc ShippingServiceInterface, v *validator.Validate) *ShippingHandler {
	return &ShippingHandler{service: svc, validator: v}
}

// Quote handles GET /api/shipping/quote?pincode=&subtotal= requests.
func (h *ShippingHandler) Quote(c *fiber.Ctx) error {
	var req model.ShippingQuoteRequest
	if err := c.QueryParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request: subtotal must be a number")
	}
	if err := h.validator.Struct(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, formatValidationError(err))
	}

	quote, err := h.service.Quote(c.UserContext(), req.Pincode, req.Subtotal)
	if err != nil {
		return respondServiceError(c, err, "failed to quote shipping")
	}

	return respondData(c, fiber.StatusOK, quote)
}

// CreateRate handles POST /api/admin/shipping-rates requests.
func (h *ShippingHandler) CreateRate(c *fiber.Ctx) error {
	var req model.ShippingRateRequest
	if msg, ok := bindBody(c, h.validator, &req); !ok {
		return respondError(c, fiber.StatusBadRequest, msg)
	}

	rate, err := h.service.CreateRate(c.UserContext(), &req)
	if err != nil {
		return respondServiceError(c, err, "failed to create shipping rate")
	}

	log.Info().Int64("rate_id", rate.ID).Str("zone", rate.Zone).Msg("shipping rate created")
	return respondData(c, fiber.StatusCreated, rate)
}

// UpdateRate handles PUT /api/admin/shipping-rates/:id requests.
func (h *ShippingHandler) UpdateRate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return respondError(c, fiber.StatusBadRequest, "invalid request: id must be a positive integer")
	}

	var req model.ShippingRateRequest
	if msg, ok := bindBody(c, h.validator, &req); !ok {
		return respondError(c, fiber.StatusBadRequest, msg)
	}

	rate, err := h.service.UpdateRate(c.UserContext(), int64(id), &req)
	if err != nil {
		return respondServiceError(c, err, "failed to update shipping rate")
	}

	return respondData(c, fiber.StatusOK, rate)
}

// GetRate handles GET /api/admin/shipping-rates/:id requests.
func (h *ShippingHandler) GetRate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return respondError(c, fiber.StatusBadRequest, "invalid request: id must be a positive integer")
	}

	rate, err := h.service.GetRate(c.UserContext(), int64(id))
	if err != nil {
		return respondServiceError(c, err, "failed to get shipping rate")
	}

	return respondData(c, fiber.StatusOK, rate)
}

// ListRates handles GET /api/admin/shipping-rates?active=true requests.
func (h *ShippingHandler) ListRates(c *fiber.Ctx) error {
	rates, err := h.service.ListRates(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return respondServiceError(c, err, "failed to list shipping rates")
	}

	return respondData(c, fiber.StatusOK, rates)
}

// DeactivateRate handles DELETE /api/admin/shipping-rates/:id requests.
func (h *ShippingHandler) DeactivateRate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return respondError(c, fiber.StatusBadRequest, "invalid request: id must be a positive integer")
	}

	if err := h.service.DeactivateRate(c.UserContext(), int64(id)); err != nil {
		return respondServiceError(c, err, "failed to deactivate shipping rate")
	}

	log.Info().Int("rate_id", id).Msg("shipping rate deactivated")
	return c.SendStatus(fiber.StatusNoContent)
}
