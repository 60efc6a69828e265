package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vaitahavya/morandi-sub002/internal/events"
	"github.com/vaitahavya/morandi-sub002/internal/metrics"
	"github.com/vaitahavya/morandi-sub002/internal/model"
	"github.com/vaitahavya/morandi-sub002/pkg/database"
)

// CouponRepositoryInterface defines the interface for coupon data access.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, coupon *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	GetByCodeForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.Coupon, error)
	IncrementUsage(ctx context.Context, tx database.TxQuerier, id int64) error
	List(ctx context.Context, limit, offset int) ([]model.Coupon, error)
}

// EventPublisher sends domain events after a state change has been committed.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// CouponService provides business logic for coupon operations.
type CouponService struct {
	pool      TxBeginner
	repo      CouponRepositoryInterface
	publisher EventPublisher
	now       func() time.Time
}

// NewCouponService creates a new CouponService with the given pool, repository and publisher.
func NewCouponService(pool *pgxpool.Pool, repo CouponRepositoryInterface, publisher EventPublisher) *CouponService {
	return NewCouponServiceWithTxBeginner(pool, repo, publisher)
}

// NewCouponServiceWithTxBeginner creates a CouponService with a custom TxBeginner.
// Primarily used for testing.
func NewCouponServiceWithTxBeginner(pool TxBeginner, repo CouponRepositoryInterface, publisher EventPublisher) *CouponService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &CouponService{
		pool:      pool,
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// NormalizeCode trims and upper-cases a coupon code; codes are case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CheckEligibility applies the coupon rules in order: active window, usage
// limit, minimum amount, then zone restriction.
func CheckEligibility(c *model.Coupon, subtotal float64, zone string, now time.Time) error {
	if !c.IsActive {
		return ErrCouponExpired
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return ErrCouponExpired
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return ErrCouponExpired
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return ErrCouponUsageLimit
	}
	if subtotal < c.MinimumAmount {
		return fmt.Errorf("%w (minimum %.2f)", ErrBelowMinimum, c.MinimumAmount)
	}
	if len(c.AppliesToZones) > 0 {
		zone = strings.TrimSpace(zone)
		allowed := false
		for _, z := range c.AppliesToZones {
			if strings.EqualFold(strings.TrimSpace(z), zone) {
				allowed = true
				break
			}
		}
		if !allowed {
			return ErrZoneNotEligible
		}
	}
	return nil
}

// Discount computes the discount of a coupon for a subtotal.
// Percentage discounts are capped at MaximumDiscount when set; fixed amounts
// never exceed the subtotal.
func Discount(c *model.Coupon, subtotal float64) float64 {
	var d float64
	switch c.Type {
	case model.CouponTypePercentage:
		d = subtotal * c.Value / 100
		if c.MaximumDiscount != nil && d > *c.MaximumDiscount {
			d = *c.MaximumDiscount
		}
	case model.CouponTypeFixedAmount:
		d = math.Min(c.Value, subtotal)
	}
	if d < 0 {
		d = 0
	}
	return roundMoney(d)
}

func (s *CouponService) evaluate(c *model.Coupon, subtotal float64, zone string) (*model.CouponValidation, error) {
	if err := CheckEligibility(c, subtotal, zone, s.now()); err != nil {
		return nil, err
	}
	discount := Discount(c, subtotal)
	return &model.CouponValidation{
		CouponID:              c.ID,
		Code:                  c.Code,
		Type:                  c.Type,
		Value:                 c.Value,
		Subtotal:              subtotal,
		DiscountAmount:        discount,
		FreeShipping:          c.FreeShipping,
		SubtotalAfterDiscount: roundMoney(subtotal - discount),
	}, nil
}

func validationResult(err error) string {
	switch {
	case err == nil:
		return "valid"
	case errors.Is(err, ErrCouponNotFound):
		return "not_found"
	case errors.Is(err, ErrCouponExpired):
		return "expired"
	case errors.Is(err, ErrCouponUsageLimit):
		return "usage_limit"
	case errors.Is(err, ErrBelowMinimum):
		return "below_minimum"
	case errors.Is(err, ErrZoneNotEligible):
		return "zone"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return "error"
	}
}

// Validate checks whether a coupon applies to an order and computes its discount.
// Returns ErrCouponNotFound for unknown codes and one of ErrCouponExpired,
// ErrCouponUsageLimit, ErrBelowMinimum or ErrZoneNotEligible otherwise.
func (s *CouponService) Validate(ctx context.Context, req *model.ValidateCouponRequest) (result *model.CouponValidation, err error) {
	ctx, span := tracer.Start(ctx, "CouponService.Validate")
	defer span.End()
	defer func() {
		metrics.CouponValidationsTotal.WithLabelValues(validationResult(err)).Inc()
	}()

	if req == nil || req.Subtotal == nil || *req.Subtotal < 0 {
		return nil, ErrInvalidRequest
	}
	code := NormalizeCode(req.Code)
	span.SetAttributes(attribute.String("coupon.code", code))

	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	return s.evaluate(coupon, *req.Subtotal, req.Zone)
}

// Redeem validates a coupon on a locked row and records one use.
// Uses SELECT FOR UPDATE so concurrent redemptions never exceed the usage limit.
func (s *CouponService) Redeem(ctx context.Context, req *model.ValidateCouponRequest) (result *model.CouponValidation, err error) {
	ctx, span := tracer.Start(ctx, "CouponService.Redeem")
	defer span.End()
	defer func() {
		metrics.CouponRedemptionsTotal.WithLabelValues(validationResult(err)).Inc()
	}()

	if req == nil || req.Subtotal == nil || *req.Subtotal < 0 {
		return nil, ErrInvalidRequest
	}
	code := NormalizeCode(req.Code)
	span.SetAttributes(attribute.String("coupon.code", code))

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	// 1. Lock the coupon row (SELECT FOR UPDATE)
	coupon, err := s.repo.GetByCodeForUpdate(ctx, tx, code)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon for update: %w", err)
	}

	// 2. Re-check eligibility against the locked row
	result, err = s.evaluate(coupon, *req.Subtotal, req.Zone)
	if err != nil {
		return nil, err
	}

	// 3. Record the use
	if err := s.repo.IncrementUsage(ctx, tx, coupon.ID); err != nil {
		return nil, fmt.Errorf("increment usage: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.publish(ctx, events.Event{
		Type: events.TypeCouponRedeemed,
		Key:  coupon.Code,
		Payload: map[string]any{
			"couponId":       coupon.ID,
			"code":           coupon.Code,
			"userId":         req.UserID,
			"subtotal":       result.Subtotal,
			"discountAmount": result.DiscountAmount,
			"usedCount":      coupon.UsedCount + 1,
		},
	})
	return result, nil
}

func (s *CouponService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("event_type", event.Type).Str("key", event.Key).Msg("failed to publish event")
	}
}

// Create creates a new coupon from the request.
// Returns ErrCouponExists if the normalized code is taken and ErrInvalidCouponValue
// when the value violates the bounds of its type.
func (s *CouponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	// Defense-in-depth: check for nil pointer even though handler validates
	if req == nil || req.Value == nil {
		return nil, ErrInvalidRequest
	}

	value := *req.Value
	switch req.Type {
	case model.CouponTypePercentage:
		if value < 0 || value > 100 {
			return nil, ErrInvalidCouponValue
		}
	case model.CouponTypeFixedAmount:
		if value <= 0 {
			return nil, ErrInvalidCouponValue
		}
	default:
		return nil, ErrInvalidRequest
	}
	if req.ValidFrom != nil && req.ValidUntil != nil && req.ValidUntil.Before(*req.ValidFrom) {
		return nil, ErrInvalidRequest
	}

	code := NormalizeCode(req.Code)
	if code == "" {
		return nil, ErrInvalidRequest
	}

	zones := make([]string, 0, len(req.AppliesToZones))
	for _, z := range req.AppliesToZones {
		if z = strings.TrimSpace(z); z != "" {
			zones = append(zones, z)
		}
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	coupon := &model.Coupon{
		Code:            code,
		Description:     req.Description,
		Type:            req.Type,
		Value:           value,
		MinimumAmount:   req.MinimumAmount,
		MaximumDiscount: req.MaximumDiscount,
		UsageLimit:      req.UsageLimit,
		FreeShipping:    req.FreeShipping,
		AppliesToZones:  zones,
		ValidFrom:       req.ValidFrom,
		ValidUntil:      req.ValidUntil,
		IsActive:        active,
	}
	if err := s.repo.Insert(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// GetByCode retrieves a coupon by code.
// Returns ErrCouponNotFound if the coupon doesn't exist.
func (s *CouponService) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	coupon, err := s.repo.GetByCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// List returns a page of coupons, newest first.
func (s *CouponService) List(ctx context.Context, limit, offset int) ([]model.Coupon, error) {
	return s.repo.List(ctx, limit, offset)
}
