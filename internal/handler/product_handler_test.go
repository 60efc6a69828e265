package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/vaitahavya/morandi-sub002/internal/model"
	"github.com/vaitahavya/morandi-sub002/internal/service"
	appvalidator "github.com/vaitahavya/morandi-sub002/internal/validator"
)

// mockProductService is a mock implementation of ProductServiceInterface.
type mockProductService struct {
	createFn func(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	getFn    func(ctx context.Context, id int64) (*model.Product, error)
	listFn   func(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
}

func (m *mockProductService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &model.Product{ID: 1, SKU: req.SKU}, nil
}

func (m *mockProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, service.ErrProductNotFound
}

func (m *mockProductService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return []model.Product{}, nil
}

func setupProductApp(svc *mockProductService) *fiber.App {
	app := fiber.New()
	h := NewProductHandler(svc, appvalidator.New())
	app.Get("/api/products", h.ListProducts)
	app.Get("/api/products/:id", h.GetProduct)
	app.Post("/api/admin/products", h.CreateProduct)
	return app
}

func TestListProducts_Filters(t *testing.T) {
	var got model.ProductFilter
	svc := &mockProductService{
		listFn: func(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
			got = filter
			return []model.Product{}, nil
		},
	}
	app := setupProductApp(svc)

	resp, _ := doRequest(t, app, http.MethodGet, "/api/products?category=sarees&status=instock&limit=5&offset=10", "")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "sarees", got.Category)
	assert.Equal(t, model.StockStatusInStock, got.StockStatus)
	assert.Equal(t, 5, got.Limit)
	assert.Equal(t, 10, got.Offset)
}

func TestListProducts_BadQuery(t *testing.T) {
	app := setupProductApp(&mockProductService{})

	resp, env := doRequest(t, app, http.MethodGet, "/api/products?limit=500", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: limit must be at most 100", env.Error)

	resp, env = doRequest(t, app, http.MethodGet, "/api/products?limit=abc", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: malformed query", env.Error)
}

func TestGetProduct(t *testing.T) {
	svc := &mockProductService{
		getFn: func(ctx context.Context, id int64) (*model.Product, error) {
			if id == 1 {
				return &model.Product{ID: 1, SKU: "SAR-001"}, nil
			}
			return nil, service.ErrProductNotFound
		},
	}
	app := setupProductApp(svc)

	resp, env := doRequest(t, app, http.MethodGet, "/api/products/1", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	resp, env = doRequest(t, app, http.MethodGet, "/api/products/2", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "product not found", env.Error)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/products/0", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateProduct(t *testing.T) {
	svc := &mockProductService{
		createFn: func(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
			if req.SKU == "DUP" {
				return nil, service.ErrProductExists
			}
			return &model.Product{ID: 1, SKU: req.SKU}, nil
		},
	}
	app := setupProductApp(svc)

	resp, _ := doRequest(t, app, http.MethodPost, "/api/admin/products", `{"sku":"SAR-001","name":"Linen Saree","price":2499,"stockQuantity":10}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env := doRequest(t, app, http.MethodPost, "/api/admin/products", `{"sku":"DUP","name":"x","price":1}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "product already exists", env.Error)

	resp, env = doRequest(t, app, http.MethodPost, "/api/admin/products", `{"sku":"SAR-002","name":"x"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: price is required", env.Error)

	resp, env = doRequest(t, app, http.MethodPost, "/api/admin/products", `{"sku":"SAR-003","name":"x","price":1,"stockQuantity":2147483648}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: stockQuantity exceeds maximum of 2147483647", env.Error)
}
