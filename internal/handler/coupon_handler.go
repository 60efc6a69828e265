package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/vaitahavya/morandi-sub002/internal/middleware"
	"github.com/vaitahavya/morandi-sub002/internal/model"
)

// CouponServiceInterface defines the interface for coupon business logic.
type CouponServiceInterface interface {
	Validate(ctx context.Context, req *model.ValidateCouponRequest) (*model.CouponValidation, error)
	Redeem(ctx context.Context, req *model.ValidateCouponRequest) (*model.CouponValidation, error)
	Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context, limit, offset int) ([]model.Coupon, error)
}

// CouponHandler handles HTTP requests for coupon operations.
type CouponHandler struct {
	service   CouponServiceInterface
	validator *validator.Validate
}

// NewCouponHandler creates a new CouponHandler with the given service and validator.
func NewCouponHandler(svc CouponServiceInterface, v *validator.Validate) *CouponHandler {
	return &CouponHandler{service: svc, validator: v}
}

// ValidateCoupon handles POST /api/coupons/validate requests.
func (h *CouponHandler) ValidateCoupon(c *fiber.Ctx) error {
	var req model.ValidateCouponRequest
	if msg, ok := bindBody(c, h.validator, &req); !ok {
		return respondError(c, fiber.StatusBadRequest, msg)
	}

	result, err := h.service.Validate(c.UserContext(), &req)
	if err != nil {
		return respondServiceError(c, err, "failed to validate coupon")
	}

	return respondData(c, fiber.StatusOK, result)
}

// RedeemCoupon handles POST /api/coupons/redeem requests to record one coupon use.
func (h *CouponHandler) RedeemCoupon(c *fiber.Ctx) error {
	var req model.ValidateCouponRequest
	if msg, ok := bindBody(c, h.validator, &req); !ok {
		return respondError(c, fiber.StatusBadRequest, msg)
	}
	req.UserID = middleware.UserID(c)

	result, err := h.service.Redeem(c.UserContext(), &req)
	if err != nil {
		return respondServiceError(c, err, "failed to redeem coupon")
	}

	log.Info().
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("coupon_code", result.Code).
		Int64("user_id", req.UserID).
		Float64("discount_amount", result.DiscountAmount).
		Msg("coupon redeemed")

	return respondData(c, fiber.StatusOK, result)
}

// CreateCoupon handles POST /api/admin/coupons requests to create a new coupon.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	var req model.CreateCouponRequest
	if msg, ok := bindBody(c, h.validator, &req); !ok {
		return respondError(c, fiber.StatusBadRequest, msg)
	}

	coupon, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return respondServiceError(c, err, "failed to create coupon")
	}

	log.Info().Str("coupon_code", coupon.Code).Str("type", string(coupon.Type)).Msg("coupon created")
	return respondData(c, fiber.StatusCreated, coupon)
}

// GetCoupon handles GET /api/admin/coupons/:code requests to retrieve coupon details.
func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return respondError(c, fiber.StatusBadRequest, "invalid request: code is required")
	}

	coupon, err := h.service.GetByCode(c.UserContext(), code)
	if err != nil {
		return respondServiceError(c, err, "failed to get coupon")
	}

	return respondData(c, fiber.StatusOK, coupon)
}

// ListCoupons handles GET /api/admin/coupons requests.
func (h *CouponHandler) ListCoupons(c *fiber.Ctx) error {
	limit, offset, ok := pagination(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "invalid request: limit must be 1-100 and offset non-negative")
	}

	coupons, err := h.service.List(c.UserContext(), limit, offset)
	if err != nil {
		return respondServiceError(c, err, "failed to list coupons")
	}

	return respondData(c, fiber.StatusOK, coupons)
}
