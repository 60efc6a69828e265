package model

import "time"

// StockStatus is derived from a product's stock quantity and its low-stock threshold.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "instock"
	StockStatusLowStock   StockStatus = "lowstock"
	StockStatusOutOfStock StockStatus = "outofstock"
)

// DefaultLowStockThreshold applies when neither the product nor the config sets one.
const DefaultLowStockThreshold = 5

// MaxStockQuantity is the largest quantity the stock columns can hold (INTEGER).
const MaxStockQuantity = 2147483647

// StockStatusFor derives the stock status for a quantity.
func StockStatusFor(quantity, lowStockThreshold int) StockStatus {
	switch {
	case quantity <= 0:
		return StockStatusOutOfStock
	case quantity <= lowStockThreshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// Product is a catalog item with mutable stock fields.
type Product struct {
	ID                int64       `json:"id"`
	SKU               string      `json:"sku"`
	Name              string      `json:"name"`
	Category          string      `json:"category"`
	Price             float64     `json:"price"`
	StockQuantity     int         `json:"stockQuantity"`
	StockStatus       StockStatus `json:"stockStatus"`
	LowStockThreshold *int        `json:"lowStockThreshold,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Category    string      `query:"category" validate:"max=100"`
	StockStatus StockStatus `query:"status" validate:"omitempty,oneof=instock lowstock outofstock"`
	Limit       int         `query:"limit" validate:"gte=0,lte=100"`
	Offset      int         `query:"offset" validate:"gte=0"`
}

// CreateProductRequest is the DTO for creating a product
type CreateProductRequest struct {
	SKU               string   `json:"sku" validate:"required,notblank,max=64"`
	Name              string   `json:"name" validate:"required,notblank,max=255"`
	Category          string   `json:"category" validate:"max=100"`
	Price             *float64 `json:"price" validate:"required,gte=0"`
	StockQuantity     int      `json:"stockQuantity" validate:"gte=0,max=2147483647"`
	LowStockThreshold *int     `json:"lowStockThreshold" validate:"omitempty,gte=0"`
}

// InventoryTransactionType classifies a stock movement.
type InventoryTransactionType string

const (
	InventoryTransactionSale       InventoryTransactionType = "sale"
	InventoryTransactionRestock    InventoryTransactionType = "restock"
	InventoryTransactionAdjustment InventoryTransactionType = "adjustment"
	InventoryTransactionReturn     InventoryTransactionType = "return"
)

// InventoryTransaction is an immutable ledger row recorded for every stock adjustment.
type InventoryTransaction struct {
	ID         int64                    `json:"id"`
	ProductID  int64                    `json:"productId"`
	Type       InventoryTransactionType `json:"type"`
	Quantity   int                      `json:"quantity"`
	StockAfter int                      `json:"stockAfter"`
	Reason     string                   `json:"reason"`
	Notes      string                   `json:"notes,omitempty"`
	CreatedAt  time.Time                `json:"createdAt"`
}

// AdjustInventoryRequest is the DTO for POST /api/inventory
type AdjustInventoryRequest struct {
	ProductID  int64                    `json:"product_id" validate:"required,gte=1"`
	Adjustment *int                     `json:"adjustment" validate:"required,ne=0,min=-2147483647,max=2147483647"`
	Reason     string                   `json:"reason" validate:"required,notblank,max=255"`
	Notes      string                   `json:"notes" validate:"max=1000"`
	Type       InventoryTransactionType `json:"type" validate:"omitempty,oneof=sale restock adjustment return"`
}

// InventoryAdjustment is the result of a committed stock adjustment.
type InventoryAdjustment struct {
	Product     *Product              `json:"product"`
	Transaction *InventoryTransaction `json:"transaction"`
}
