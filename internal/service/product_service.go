package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vaitahavya/morandi-sub002/internal/model"
)

// DefaultPageSize is used when a listing omits its limit.
const DefaultPageSize = 20

// ProductService serves the catalog.
type ProductService struct {
	repo              ProductRepositoryInterface
	lowStockThreshold int
}

// NewProductService creates a new ProductService.
func NewProductService(repo ProductRepositoryInterface, lowStockThreshold int) *ProductService {
	if lowStockThreshold < 0 {
		lowStockThreshold = model.DefaultLowStockThreshold
	}
	return &ProductService{repo: repo, lowStockThreshold: lowStockThreshold}
}

// Create adds a product with its stock status derived from the initial quantity.
// Returns ErrProductExists if the sku is taken.
func (s *ProductService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil || req.Price == nil || req.StockQuantity < 0 || req.StockQuantity > model.MaxStockQuantity {
		return nil, ErrInvalidRequest
	}

	threshold := s.lowStockThreshold
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}

	product := &model.Product{
		SKU:               strings.TrimSpace(req.SKU),
		Name:              strings.TrimSpace(req.Name),
		Category:          strings.TrimSpace(req.Category),
		Price:             roundMoney(*req.Price),
		StockQuantity:     req.StockQuantity,
		StockStatus:       model.StockStatusFor(req.StockQuantity, threshold),
		LowStockThreshold: req.LowStockThreshold,
	}
	if err := s.repo.Insert(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Get retrieves a product by id.
// Returns ErrProductNotFound if the product doesn't exist.
func (s *ProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// List returns a page of products matching the filter.
func (s *ProductService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}
