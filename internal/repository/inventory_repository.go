package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaitahavya/morandi-sub002/internal/model"
	"github.com/vaitahavya/morandi-sub002/pkg/database"
)

// InventoryTransactionRepository provides append-only access to the stock ledger.
type InventoryTransactionRepository struct {
	pool PoolInterface
}

// NewInventoryTransactionRepository creates a new InventoryTransactionRepository with the given pool.
func NewInventoryTransactionRepository(pool *pgxpool.Pool) *InventoryTransactionRepository {
	return &InventoryTransactionRepository{pool: pool}
}

// NewInventoryTransactionRepositoryWithPool creates a repository with a custom pool interface.
func NewInventoryTransactionRepositoryWithPool(pool PoolInterface) *InventoryTransactionRepository {
	return &InventoryTransactionRepository{pool: pool}
}

// Insert appends a ledger row within a transaction and fills in its id and created_at.
func (r *InventoryTransactionRepository) Insert(ctx context.Context, tx database.TxQuerier, txn *model.InventoryTransaction) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO inventory_transactions (product_id, type, quantity, stock_after, reason, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		txn.ProductID, txn.Type, txn.Quantity, txn.StockAfter, txn.Reason, txn.Notes,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert inventory transaction: %w", err)
	}
	return nil
}

// ListByProduct returns the most recent ledger rows of a product, newest first.
// On success, returns an empty slice (not nil) when no rows exist.
func (r *InventoryTransactionRepository) ListByProduct(ctx context.Context, productID int64, limit int) ([]model.InventoryTransaction, error) {
	query := `SELECT id, product_id, type, quantity, stock_after, reason, notes, created_at
		FROM inventory_transactions
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list inventory transactions for product %d: %w", productID, err)
	}
	defer rows.Close()

	txns := []model.InventoryTransaction{}
	for rows.Next() {
		var t model.InventoryTransaction
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Type, &t.Quantity, &t.StockAfter, &t.Reason, &t.Notes, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		txns = append(txns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory transaction rows: %w", err)
	}

	return txns, nil
}
