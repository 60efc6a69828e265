package model

import "time"

// ShippingRate maps a pincode (exact) or pincode prefix to a delivery zone and cost.
type ShippingRate struct {
	ID                    int64     `json:"id"`
	Pincode               *string   `json:"pincode,omitempty"`
	PincodePrefix         *string   `json:"pincodePrefix,omitempty"`
	Zone                  string    `json:"zone"`
	BaseCost              float64   `json:"baseCost"`
	Surcharge             float64   `json:"surcharge"`
	FreeShippingThreshold *float64  `json:"freeShippingThreshold,omitempty"`
	EstimatedDeliveryMin  int       `json:"estimatedDeliveryMin"`
	EstimatedDeliveryMax  int       `json:"estimatedDeliveryMax"`
	IsActive              bool      `json:"isActive"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// ShippingQuote is the API response DTO for GET /api/shipping/quote
type ShippingQuote struct {
	RateID                int64    `json:"rateId"`
	Pincode               string   `json:"pincode"`
	Zone                  string   `json:"zone"`
	ShippingCost          float64  `json:"shippingCost"`
	IsFree                bool     `json:"isFree"`
	FreeShippingThreshold *float64 `json:"freeShippingThreshold,omitempty"`
	EstimatedDeliveryMin  int      `json:"estimatedDeliveryMin"`
	EstimatedDeliveryMax  int      `json:"estimatedDeliveryMax"`
}

// ShippingQuoteRequest carries the query parameters of a quote request.
type ShippingQuoteRequest struct {
	Pincode  string  `query:"pincode" validate:"required,pincode"`
	Subtotal float64 `query:"subtotal" validate:"gte=0"`
}

// ShippingRateRequest is the DTO for creating or replacing a shipping rate.
type ShippingRateRequest struct {
	Pincode               *string  `json:"pincode" validate:"omitempty,pincode"`
	PincodePrefix         *string  `json:"pincodePrefix" validate:"omitempty,numeric,min=1,max=10"`
	Zone                  string   `json:"zone" validate:"required,notblank,max=100"`
	BaseCost              *float64 `json:"baseCost" validate:"required,gte=0"`
	Surcharge             float64  `json:"surcharge" validate:"gte=0"`
	FreeShippingThreshold *float64 `json:"freeShippingThreshold" validate:"omitempty,gte=0"`
	EstimatedDeliveryMin  int      `json:"estimatedDeliveryMin" validate:"gte=0"`
	EstimatedDeliveryMax  int      `json:"estimatedDeliveryMax" validate:"gte=0,gtefield=EstimatedDeliveryMin"`
	IsActive              *bool    `json:"isActive"`
}
