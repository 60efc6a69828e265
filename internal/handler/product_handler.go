package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/vaitahavya/morandi-sub002/internal/model"
)

// ProductServiceInterface defines the interface for catalog logic.
type ProductServiceInterface interface {
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	Get(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
}

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service   ProductServiceInterface
	validator *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc ProductServiceInterface, v *validator.Validate) *ProductHandler {
	return &ProductHandler{service: svc, validator: v}
}

// ListProducts handles GET /api/products?category=&status=&limit=&offset= requests.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	filter := model.ProductFilter{Limit: 20}
	if err := c.QueryParser(&filter); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request: malformed query")
	}
	if err := h.validator.Struct(filter); err != nil {
		return respondError(c, fiber.StatusBadRequest, formatValidationError(err))
	}

	products, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return respondServiceError(c, err, "failed to list products")
	}

	return respondData(c, fiber.StatusOK, products)
}

// GetProduct handles GET /api/products/:id requests.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return respondError(c, fiber.StatusBadRequest, "invalid request: id must be a positive integer")
	}

	product, err := h.service.Get(c.UserContext(), int64(id))
	if err != nil {
		return respondServiceError(c, err, "failed to get product")
	}

	return respondData(c, fiber.StatusOK, product)
}

// CreateProduct handles POST /api/admin/products requests.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req model.CreateProductRequest
	if msg, ok := bindBody(c, h.validator, &req); !ok {
		return respondError(c, fiber.StatusBadRequest, msg)
	}

	product, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return respondServiceError(c, err, "failed to create product")
	}

	log.Info().Int64("product_id", product.ID).Str("sku", product.SKU).Msg("product created")
	return respondData(c, fiber.StatusCreated, product)
}
