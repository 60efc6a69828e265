package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaitahavya/morandi-sub002/internal/model"
	"github.com/vaitahavya/morandi-sub002/internal/service"
)

const shippingRateColumns = `id, pincode, pincode_prefix, zone, base_cost, surcharge,
	free_shipping_threshold, estimated_delivery_min, estimated_delivery_max, is_active,
	created_at, updated_at`

// ShippingRateRepository provides data access for shipping rates using pgx.
type ShippingRateRepository struct {
	pool PoolInterface
}

// NewShippingRateRepository creates a new ShippingRateRepository with the given pool.
func NewShippingRateRepository(pool *pgxpool.Pool) *ShippingRateRepository {
	return &ShippingRateRepository{pool: pool}
}

// NewShippingRateRepositoryWithPool creates a ShippingRateRepository with a custom pool interface.
func NewShippingRateRepositoryWithPool(pool PoolInterface) *ShippingRateRepository {
	return &ShippingRateRepository{pool: pool}
}

func scanShippingRate(row pgx.Row) (*model.ShippingRate, error) {
	var r model.ShippingRate
	err := row.Scan(
		&r.ID,
		&r.Pincode,
		&r.PincodePrefix,
		&r.Zone,
		&r.BaseCost,
		&r.Surcharge,
		&r.FreeShippingThreshold,
		&r.EstimatedDeliveryMin,
		&r.EstimatedDeliveryMax,
		&r.IsActive,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *ShippingRateRepository) findOne(ctx context.Context, query string, args ...any) (*model.ShippingRate, error) {
	rate, err := scanShippingRate(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rate, nil
}

// FindActiveByPincode returns the active rate whose pincode equals the given one.
// Returns nil, nil when there is no exact match.
func (r *ShippingRateRepository) FindActiveByPincode(ctx context.Context, pincode string) (*model.ShippingRate, error) {
	query := `SELECT ` + shippingRateColumns + ` FROM shipping_rates
		WHERE is_active AND pincode = $1
		ORDER BY id
		LIMIT 1`

	rate, err := r.findOne(ctx, query, pincode)
	if err != nil {
		return nil, fmt.Errorf("find shipping rate by pincode %s: %w", pincode, err)
	}
	return rate, nil
}

// FindActiveByLongestPrefix returns the active rate with the longest pincode_prefix
// that the given pincode starts with. Returns nil, nil when no prefix matches.
func (r *ShippingRateRepository) FindActiveByLongestPrefix(ctx context.Context, pincode string) (*model.ShippingRate, error) {
	query := `SELECT ` + shippingRateColumns + ` FROM shipping_rates
		WHERE is_active
			AND pincode_prefix IS NOT NULL
			AND pincode_prefix <> ''
			AND left($1, length(pincode_prefix)) = pincode_prefix
		ORDER BY length(pincode_prefix) DESC, id
		LIMIT 1`

	rate, err := r.findOne(ctx, query, pincode)
	if err != nil {
		return nil, fmt.Errorf("find shipping rate by prefix of %s: %w", pincode, err)
	}
	return rate, nil
}

// GetByID retrieves a rate regardless of its active flag.
// Returns service.ErrShippingRateNotFound if the rate doesn't exist.
func (r *ShippingRateRepository) GetByID(ctx context.Context, id int64) (*model.ShippingRate, error) {
	query := `SELECT ` + shippingRateColumns + ` FROM shipping_rates WHERE id = $1`

	rate, err := r.findOne(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get shipping rate %d: %w", id, err)
	}
	if rate == nil {
		return nil, service.ErrShippingRateNotFound
	}
	return rate, nil
}

// Insert inserts a new rate and fills in its generated fields.
func (r *ShippingRateRepository) Insert(ctx context.Context, rate *model.ShippingRate) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO shipping_rates (pincode, pincode_prefix, zone, base_cost, surcharge,
			free_shipping_threshold, estimated_delivery_min, estimated_delivery_max, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		rate.Pincode, rate.PincodePrefix, rate.Zone, rate.BaseCost, rate.Surcharge,
		rate.FreeShippingThreshold, rate.EstimatedDeliveryMin, rate.EstimatedDeliveryMax, rate.IsActive,
	).Scan(&rate.ID, &rate.CreatedAt, &rate.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert shipping rate: %w", err)
	}
	return nil
}

// Update replaces every editable column of an existing rate.
// Returns service.ErrShippingRateNotFound if the rate doesn't exist.
func (r *ShippingRateRepository) Update(ctx context.Context, rate *model.ShippingRate) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE shipping_rates SET pincode = $2, pincode_prefix = $3, zone = $4, base_cost = $5,
			surcharge = $6, free_shipping_threshold = $7, estimated_delivery_min = $8,
			estimated_delivery_max = $9, is_active = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		rate.ID, rate.Pincode, rate.PincodePrefix, rate.Zone, rate.BaseCost, rate.Surcharge,
		rate.FreeShippingThreshold, rate.EstimatedDeliveryMin, rate.EstimatedDeliveryMax, rate.IsActive,
	).Scan(&rate.CreatedAt, &rate.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.ErrShippingRateNotFound
		}
		return fmt.Errorf("update shipping rate %d: %w", rate.ID, err)
	}
	return nil
}

// Deactivate clears the active flag of a rate so quotes no longer resolve to it.
// Returns service.ErrShippingRateNotFound if the rate doesn't exist.
func (r *ShippingRateRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE shipping_rates SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate shipping rate %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrShippingRateNotFound
	}
	return nil
}

// List returns rates ordered by zone then id, optionally only active ones.
func (r *ShippingRateRepository) List(ctx context.Context, activeOnly bool) ([]model.ShippingRate, error) {
	query := `SELECT ` + shippingRateColumns + ` FROM shipping_rates
		WHERE ($1 = FALSE OR is_active)
		ORDER BY zone, id`

	rows, err := r.pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list shipping rates: %w", err)
	}
	defer rows.Close()

	rates := []model.ShippingRate{}
	for rows.Next() {
		rate, err := scanShippingRate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipping rate: %w", err)
		}
		rates = append(rates, *rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shipping rate rows: %w", err)
	}
	return rates, nil
}
