package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vaitahavya/morandi-sub002/internal/metrics"
	"github.com/vaitahavya/morandi-sub002/internal/model"
)

// ShippingRateRepositoryInterface defines the interface for shipping rate data access.
type ShippingRateRepositoryInterface interface {
	FindActiveByPincode(ctx context.Context, pincode string) (*model.ShippingRate, error)
	FindActiveByLongestPrefix(ctx context.Context, pincode string) (*model.ShippingRate, error)
	GetByID(ctx context.Context, id int64) (*model.ShippingRate, error)
	Insert(ctx context.Context, rate *model.ShippingRate) error
	Update(ctx context.Context, rate *model.ShippingRate) error
	Deactivate(ctx context.Context, id int64) error
	List(ctx context.Context, activeOnly bool) ([]model.ShippingRate, error)
}

// ShippingService resolves shipping quotes and manages rates.
type ShippingService struct {
	repo ShippingRateRepositoryInterface
}

// NewShippingService creates a new ShippingService with the given repository.
func NewShippingService(repo ShippingRateRepositoryInterface) *ShippingService {
	return &ShippingService{repo: repo}
}

// Quote resolves the shipping cost for a pincode and order subtotal.
// An exact pincode match always wins; otherwise the longest matching prefix is used.
// Returns ErrShippingRateNotFound when neither matches.
func (s *ShippingService) Quote(ctx context.Context, pincode string, subtotal float64) (*model.ShippingQuote, error) {
	ctx, span := tracer.Start(ctx, "ShippingService.Quote")
	defer span.End()

	pincode = strings.TrimSpace(pincode)
	if pincode == "" || subtotal < 0 {
		return nil, ErrInvalidRequest
	}

	match := "exact"
	rate, err := s.repo.FindActiveByPincode(ctx, pincode)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("find exact rate: %w", err)
	}
	if rate == nil {
		match = "prefix"
		rate, err = s.repo.FindActiveByLongestPrefix(ctx, pincode)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("find prefix rate: %w", err)
		}
	}
	if rate == nil {
		metrics.ShippingQuotesTotal.WithLabelValues("none").Inc()
		return nil, ErrShippingRateNotFound
	}
	metrics.ShippingQuotesTotal.WithLabelValues(match).Inc()
	span.SetAttributes(
		attribute.String("shipping.match", match),
		attribute.Int64("shipping.rate_id", rate.ID),
	)

	cost := ShippingCost(rate, subtotal)
	return &model.ShippingQuote{
		RateID:                rate.ID,
		Pincode:               pincode,
		Zone:                  rate.Zone,
		ShippingCost:          cost,
		IsFree:                cost == 0,
		FreeShippingThreshold: rate.FreeShippingThreshold,
		EstimatedDeliveryMin:  rate.EstimatedDeliveryMin,
		EstimatedDeliveryMax:  rate.EstimatedDeliveryMax,
	}, nil
}

// ShippingCost is zero once subtotal reaches the rate's free-shipping threshold,
// otherwise base cost plus surcharge.
func ShippingCost(rate *model.ShippingRate, subtotal float64) float64 {
	if rate.FreeShippingThreshold != nil && subtotal >= *rate.FreeShippingThreshold {
		return 0
	}
	return roundMoney(rate.BaseCost + rate.Surcharge)
}

func rateFromRequest(req *model.ShippingRateRequest) (*model.ShippingRate, error) {
	if req == nil || req.BaseCost == nil {
		return nil, ErrInvalidRequest
	}

	pincode := trimOptional(req.Pincode)
	prefix := trimOptional(req.PincodePrefix)
	if pincode == nil && prefix == nil {
		return nil, ErrPincodeRequired
	}
	if req.EstimatedDeliveryMax < req.EstimatedDeliveryMin {
		return nil, ErrInvalidRequest
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return &model.ShippingRate{
		Pincode:               pincode,
		PincodePrefix:         prefix,
		Zone:                  strings.TrimSpace(req.Zone),
		BaseCost:              *req.BaseCost,
		Surcharge:             req.Surcharge,
		FreeShippingThreshold: req.FreeShippingThreshold,
		EstimatedDeliveryMin:  req.EstimatedDeliveryMin,
		EstimatedDeliveryMax:  req.EstimatedDeliveryMax,
		IsActive:              active,
	}, nil
}

// CreateRate stores a new shipping rate.
// Returns ErrPincodeRequired when neither pincode nor prefix is given.
func (s *ShippingService) CreateRate(ctx context.Context, req *model.ShippingRateRequest) (*model.ShippingRate, error) {
	rate, err := rateFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, rate); err != nil {
		return nil, fmt.Errorf("create shipping rate: %w", err)
	}
	return rate, nil
}

// UpdateRate replaces the editable fields of an existing rate.
// Returns ErrShippingRateNotFound if the rate doesn't exist.
func (s *ShippingService) UpdateRate(ctx context.Context, id int64, req *model.ShippingRateRequest) (*model.ShippingRate, error) {
	rate, err := rateFromRequest(req)
	if err != nil {
		return nil, err
	}
	rate.ID = id
	if err := s.repo.Update(ctx, rate); err != nil {
		return nil, fmt.Errorf("update shipping rate: %w", err)
	}
	return rate, nil
}

// GetRate retrieves a rate by id.
func (s *ShippingService) GetRate(ctx context.Context, id int64) (*model.ShippingRate, error) {
	return s.repo.GetByID(ctx, id)
}

// ListRates lists configured rates.
func (s *ShippingService) ListRates(ctx context.Context, activeOnly bool) ([]model.ShippingRate, error) {
	return s.repo.List(ctx, activeOnly)
}

// DeactivateRate disables a rate. Rates are never hard-deleted.
func (s *ShippingService) DeactivateRate(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
