package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vaitahavya/morandi-sub002/internal/events"
	"github.com/vaitahavya/morandi-sub002/internal/metrics"
	"github.com/vaitahavya/morandi-sub002/internal/model"
	"github.com/vaitahavya/morandi-sub002/pkg/database"
)

// ProductRepositoryInterface defines the interface for product data access.
type ProductRepositoryInterface interface {
	Insert(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Product, error)
	UpdateStock(ctx context.Context, tx database.TxQuerier, product *model.Product) error
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
}

// InventoryTransactionRepositoryInterface defines the interface for the stock ledger.
type InventoryTransactionRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, txn *model.InventoryTransaction) error
	ListByProduct(ctx context.Context, productID int64, limit int) ([]model.InventoryTransaction, error)
}

// DefaultHistoryLimit bounds transaction history listings.
const DefaultHistoryLimit = 50

// InventoryService applies stock adjustments and records them in the ledger.
type InventoryService struct {
	pool              TxBeginner
	products          ProductRepositoryInterface
	txns              InventoryTransactionRepositoryInterface
	publisher         EventPublisher
	lowStockThreshold int
}

// NewInventoryService creates a new InventoryService.
// lowStockThreshold applies to products without their own threshold.
func NewInventoryService(pool *pgxpool.Pool, products ProductRepositoryInterface, txns InventoryTransactionRepositoryInterface, publisher EventPublisher, lowStockThreshold int) *InventoryService {
	return NewInventoryServiceWithTxBeginner(pool, products, txns, publisher, lowStockThreshold)
}

// NewInventoryServiceWithTxBeginner creates an InventoryService with a custom TxBeginner.
// Primarily used for testing.
func NewInventoryServiceWithTxBeginner(pool TxBeginner, products ProductRepositoryInterface, txns InventoryTransactionRepositoryInterface, publisher EventPublisher, lowStockThreshold int) *InventoryService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if lowStockThreshold < 0 {
		lowStockThreshold = model.DefaultLowStockThreshold
	}
	return &InventoryService{
		pool:              pool,
		products:          products,
		txns:              txns,
		publisher:         publisher,
		lowStockThreshold: lowStockThreshold,
	}
}

// ThresholdFor returns the product's own low-stock threshold or the service default.
func (s *InventoryService) ThresholdFor(p *model.Product) int {
	if p.LowStockThreshold != nil {
		return *p.LowStockThreshold
	}
	return s.lowStockThreshold
}

// Adjust applies a signed delta to a product's stock as one atomic unit:
// the product row is locked, its quantity (floored at zero) and derived status
// are written, and one ledger row is appended. The ledger quantity is the
// delta actually applied.
// Returns ErrProductNotFound if the product doesn't exist.
func (s *InventoryService) Adjust(ctx context.Context, req *model.AdjustInventoryRequest) (*model.InventoryAdjustment, error) {
	ctx, span := tracer.Start(ctx, "InventoryService.Adjust")
	defer span.End()

	if req == nil || req.Adjustment == nil || *req.Adjustment == 0 || strings.TrimSpace(req.Reason) == "" {
		return nil, ErrInvalidRequest
	}
	if *req.Adjustment > model.MaxStockQuantity || *req.Adjustment < -model.MaxStockQuantity {
		return nil, fmt.Errorf("%w: adjustment out of range", ErrInvalidRequest)
	}
	txnType := req.Type
	if txnType == "" {
		txnType = model.InventoryTransactionAdjustment
	}
	span.SetAttributes(
		attribute.Int64("product.id", req.ProductID),
		attribute.Int("inventory.delta", *req.Adjustment),
	)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	// 1. Lock the product row (SELECT FOR UPDATE)
	product, err := s.products.GetForUpdate(ctx, tx, req.ProductID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	// 2. Compute the new stock, never negative
	previous := product.StockQuantity
	sum := int64(previous) + int64(*req.Adjustment)
	if sum > model.MaxStockQuantity {
		return nil, fmt.Errorf("%w: stock would exceed %d", ErrInvalidRequest, model.MaxStockQuantity)
	}
	next := int(max(sum, 0))
	product.StockQuantity = next
	product.StockStatus = model.StockStatusFor(next, s.ThresholdFor(product))

	// 3. Write the product row
	if err := s.products.UpdateStock(ctx, tx, product); err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}

	// 4. Append the ledger row
	txn := &model.InventoryTransaction{
		ProductID:  product.ID,
		Type:       txnType,
		Quantity:   next - previous,
		StockAfter: next,
		Reason:     strings.TrimSpace(req.Reason),
		Notes:      req.Notes,
	}
	if err := s.txns.Insert(ctx, tx, txn); err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	metrics.InventoryAdjustmentsTotal.WithLabelValues(string(txnType), string(product.StockStatus)).Inc()
	log.Info().
		Int64("product_id", product.ID).
		Int("requested", *req.Adjustment).
		Int("applied", txn.Quantity).
		Int("stock_after", next).
		Str("stock_status", string(product.StockStatus)).
		Msg("inventory adjusted")

	if err := s.publisher.Publish(ctx, events.Event{
		Type:    events.TypeInventoryAdjusted,
		Key:     strconv.FormatInt(product.ID, 10),
		Payload: txn,
	}); err != nil {
		log.Warn().Err(err).Int64("product_id", product.ID).Msg("failed to publish inventory event")
	}

	return &model.InventoryAdjustment{Product: product, Transaction: txn}, nil
}

// History returns the most recent ledger rows of a product.
// Returns ErrProductNotFound if the product doesn't exist.
func (s *InventoryService) History(ctx context.Context, productID int64, limit int) ([]model.InventoryTransaction, error) {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	return s.txns.ListByProduct(ctx, productID, limit)
}
