package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaitahavya/morandi-sub002/internal/model"
	"github.com/vaitahavya/morandi-sub002/internal/service"
	"github.com/vaitahavya/morandi-sub002/pkg/database"
)

const productColumns = `id, sku, name, category, price, stock_quantity, stock_status,
	low_stock_threshold, created_at, updated_at`

// ProductRepository provides data access for products using pgx.
type ProductRepository struct {
	pool PoolInterface
}

// NewProductRepository creates a new ProductRepository with the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// NewProductRepositoryWithPool creates a ProductRepository with a custom pool interface.
func NewProductRepositoryWithPool(pool PoolInterface) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.SKU,
		&p.Name,
		&p.Category,
		&p.Price,
		&p.StockQuantity,
		&p.StockStatus,
		&p.LowStockThreshold,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Insert inserts a new product and fills in its generated fields.
// Returns service.ErrProductExists if the sku is already taken.
func (r *ProductRepository) Insert(ctx context.Context, product *model.Product) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (sku, name, category, price, stock_quantity, stock_status, low_stock_threshold)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		product.SKU, product.Name, product.Category, product.Price,
		product.StockQuantity, product.StockStatus, product.LowStockThreshold,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == database.UniqueViolation {
			return service.ErrProductExists
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by id.
// Returns nil, nil if the product is not found.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return product, nil
}

// GetForUpdate retrieves a product with a row lock (SELECT FOR UPDATE).
// Returns service.ErrProductNotFound if the product doesn't exist.
func (r *ProductRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

	product, err := scanProduct(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product for update %d: %w", id, err)
	}
	return product, nil
}

// UpdateStock writes the stock quantity and status of a product.
// Must be called within a transaction after locking the row.
func (r *ProductRepository) UpdateStock(ctx context.Context, tx database.TxQuerier, product *model.Product) error {
	err := tx.QueryRow(ctx,
		`UPDATE products SET stock_quantity = $2, stock_status = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		product.ID, product.StockQuantity, product.StockStatus,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.ErrProductNotFound
		}
		return fmt.Errorf("update stock for product %d: %w", product.ID, err)
	}
	return nil
}

// List returns products matching the filter ordered by name.
func (r *ProductRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE ($1 = '' OR category = $1)
			AND ($2 = '' OR stock_status = $2)
		ORDER BY name, id
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, filter.Category, string(filter.StockStatus), filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}
