package service

import "errors"

// Not found
var (
	// ErrCouponNotFound is returned when no coupon matches the normalized code
	ErrCouponNotFound = errors.New("invalid coupon code")

	// ErrShippingRateNotFound is returned when no active rate matches a pincode exactly or by prefix
	ErrShippingRateNotFound = errors.New("no shipping rate configured for this pincode")

	// ErrProductNotFound is returned when a product id does not exist
	ErrProductNotFound = errors.New("product not found")
)

// Validation failures
var (
	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrCouponExpired is returned when a coupon is inactive or outside its validity window
	ErrCouponExpired = errors.New("coupon is expired or inactive")

	// ErrCouponUsageLimit is returned when a coupon has been used usageLimit times
	ErrCouponUsageLimit = errors.New("coupon usage limit reached")

	// ErrBelowMinimum is returned when the order subtotal is below the coupon minimum
	ErrBelowMinimum = errors.New("order subtotal is below the coupon minimum")

	// ErrZoneNotEligible is returned when a zone-restricted coupon is used elsewhere
	ErrZoneNotEligible = errors.New("coupon is not valid for this zone")

	// ErrInvalidCouponValue is returned when a coupon value violates its type's bounds
	ErrInvalidCouponValue = errors.New("invalid coupon value")

	// ErrPincodeRequired is returned when a shipping rate has neither pincode nor prefix
	ErrPincodeRequired = errors.New("either pincode or pincodePrefix is required")
)

// Conflicts
var (
	// ErrCouponExists is returned when attempting to create a coupon whose code already exists
	ErrCouponExists = errors.New("coupon already exists")

	// ErrProductExists is returned when attempting to create a product whose sku already exists
	ErrProductExists = errors.New("product already exists")
)

// Authentication
var (
	// ErrInvalidCredentials is returned when login email or password do not match
	ErrInvalidCredentials = errors.New("invalid email or password")
)
