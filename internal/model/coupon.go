package model

import "time"

// CouponType is the discount kind of a coupon.
type CouponType string

const (
	CouponTypePercentage  CouponType = "percentage"
	CouponTypeFixedAmount CouponType = "fixed_amount"
)

// Coupon represents a discount code in the system
type Coupon struct {
	ID              int64      `json:"id"`
	Code            string     `json:"code"`
	Description     string     `json:"description,omitempty"`
	Type            CouponType `json:"type"`
	Value           float64    `json:"value"`
	MinimumAmount   float64    `json:"minimumAmount"`
	MaximumDiscount *float64   `json:"maximumDiscount,omitempty"`
	UsageLimit      *int       `json:"usageLimit,omitempty"`
	UsedCount       int        `json:"usedCount"`
	FreeShipping    bool       `json:"freeShipping"`
	AppliesToZones  []string   `json:"appliesToZones"`
	ValidFrom       *time.Time `json:"validFrom,omitempty"`
	ValidUntil      *time.Time `json:"validUntil,omitempty"`
	IsActive        bool       `json:"isActive"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// CreateCouponRequest is the DTO for creating a coupon
type CreateCouponRequest struct {
	Code            string     `json:"code" validate:"required,notblank,max=64"`
	Description     string     `json:"description" validate:"max=500"`
	Type            CouponType `json:"type" validate:"required,oneof=percentage fixed_amount"`
	Value           *float64   `json:"value" validate:"required,gte=0"`
	MinimumAmount   float64    `json:"minimumAmount" validate:"gte=0"`
	MaximumDiscount *float64   `json:"maximumDiscount" validate:"omitempty,gt=0"`
	UsageLimit      *int       `json:"usageLimit" validate:"omitempty,gte=1"`
	FreeShipping    bool       `json:"freeShipping"`
	AppliesToZones  []string   `json:"appliesToZones" validate:"dive,notblank,max=100"`
	ValidFrom       *time.Time `json:"validFrom"`
	ValidUntil      *time.Time `json:"validUntil"`
	IsActive        *bool      `json:"isActive"`
}

// ValidateCouponRequest is the DTO for validating or redeeming a coupon against an order.
type ValidateCouponRequest struct {
	Code     string   `json:"code" validate:"required,notblank,max=64"`
	Subtotal *float64 `json:"subtotal" validate:"required,gte=0"`
	Zone     string   `json:"zone" validate:"max=100"`

	// UserID is the redeeming caller, taken from the access token, never the body.
	UserID int64 `json:"-"`
}

// CouponValidation is the result of a successful validation.
type CouponValidation struct {
	CouponID              int64      `json:"couponId"`
	Code                  string     `json:"code"`
	Type                  CouponType `json:"type"`
	Value                 float64    `json:"value"`
	Subtotal              float64    `json:"subtotal"`
	DiscountAmount        float64    `json:"discountAmount"`
	FreeShipping          bool       `json:"freeShipping"`
	SubtotalAfterDiscount float64    `json:"subtotalAfterDiscount"`
}
