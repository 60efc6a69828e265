package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/vaitahavya/morandi-sub002/internal/model"
)

// InventoryServiceInterface defines the interface for stock adjustment logic.
type InventoryServiceInterface interface {
	Adjust(ctx context.Context, req *model.AdjustInventoryRequest) (*model.InventoryAdjustment, error)
	History(ctx context.Context, productID int64, limit int) ([]model.InventoryTransaction, error)
}

// InventoryHandler handles HTTP requests for stock adjustments and reports.
type InventoryHandler struct {
	inventory InventoryServiceInterface
	products  ProductServiceInterface
	validator *validator.Validate
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventory InventoryServiceInterface, products ProductServiceInterface, v *validator.Validate) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, products: products, validator: v}
}

// Adjust handles POST /api/inventory requests.
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var req model.AdjustInventoryRequest
	if msg, ok := bindBody(c, h.validator, &req); !ok {
		return respondError(c, fiber.StatusBadRequest, msg)
	}

	result, err := h.inventory.Adjust(c.UserContext(), &req)
	if err != nil {
		return respondServiceError(c, err, "failed to adjust inventory")
	}

	log.Info().
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Int64("product_id", result.Product.ID).
		Int("stock_after", result.Transaction.StockAfter).
		Str("stock_status", string(result.Product.StockStatus)).
		Msg("inventory adjustment applied")

	return respondData(c, fiber.StatusOK, result)
}

// ListStock handles GET /api/inventory?status=lowstock requests.
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	limit, offset, ok := pagination(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "invalid request: limit must be 1-100 and offset non-negative")
	}

	filter := model.ProductFilter{
		Category:    c.Query("category"),
		StockStatus: model.StockStatus(c.Query("status")),
		Limit:       limit,
		Offset:      offset,
	}
	if err := h.validator.Struct(filter); err != nil {
		return respondError(c, fiber.StatusBadRequest, formatValidationError(err))
	}

	products, err := h.products.List(c.UserContext(), filter)
	if err != nil {
		return respondServiceError(c, err, "failed to list stock")
	}

	return respondData(c, fiber.StatusOK, products)
}

// History handles GET /api/inventory/:productId/transactions requests.
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("productId")
	if err != nil || productID < 1 {
		return respondError(c, fiber.StatusBadRequest, "invalid request: productId must be a positive integer")
	}

	txns, err := h.inventory.History(c.UserContext(), int64(productID), c.QueryInt("limit", 0))
	if err != nil {
		return respondServiceError(c, err, "failed to get inventory history")
	}

	return respondData(c, fiber.StatusOK, txns)
}
