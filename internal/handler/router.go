package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vaitahavya/morandi-sub002/internal/metrics"
	"github.com/vaitahavya/morandi-sub002/internal/middleware"
	"github.com/vaitahavya/morandi-sub002/internal/policy"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	Shipping  *ShippingHandler
	Coupon    *CouponHandler
	Inventory *InventoryHandler
	Product   *ProductHandler
}

// RegisterRoutes mounts all routes on app. Every /api route except login is
// guarded by the access policy.
func RegisterRoutes(app *fiber.App, h Handlers, tokens middleware.TokenParser) {
	app.Use(metrics.Middleware())

	app.Get("/health", h.Health.Check)
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api", middleware.Authenticate(tokens))
	guard := middleware.RequirePermission

	api.Post("/auth/login", h.Auth.Login)

	api.Get("/shipping/quote", guard(policy.ResourceShippingRate, policy.ActionQuote), h.Shipping.Quote)

	api.Post("/coupons/validate", guard(policy.ResourceCoupon, policy.ActionValidate), h.Coupon.ValidateCoupon)
	api.Post("/coupons/redeem", guard(policy.ResourceCoupon, policy.ActionRedeem), h.Coupon.RedeemCoupon)

	api.Get("/products", guard(policy.ResourceProduct, policy.ActionRead), h.Product.ListProducts)
	api.Get("/products/:id", guard(policy.ResourceProduct, policy.ActionRead), h.Product.GetProduct)

	api.Post("/inventory", guard(policy.ResourceInventory, policy.ActionAdjust), h.Inventory.Adjust)
	api.Get("/inventory", guard(policy.ResourceInventory, policy.ActionRead), h.Inventory.ListStock)
	api.Get("/inventory/:productId/transactions", guard(policy.ResourceInventory, policy.ActionRead), h.Inventory.History)

	admin := api.Group("/admin")
	admin.Post("/coupons", guard(policy.ResourceCoupon, policy.ActionCreate), h.Coupon.CreateCoupon)
	admin.Get("/coupons", guard(policy.ResourceCoupon, policy.ActionRead), h.Coupon.ListCoupons)
	admin.Get("/coupons/:code", guard(policy.ResourceCoupon, policy.ActionRead), h.Coupon.GetCoupon)

	admin.Post("/shipping-rates", guard(policy.ResourceShippingRate, policy.ActionCreate), h.Shipping.CreateRate)
	admin.Get("/shipping-rates", guard(policy.ResourceShippingRate, policy.ActionRead), h.Shipping.ListRates)
	admin.Get("/shipping-rates/:id", guard(policy.ResourceShippingRate, policy.ActionRead), h.Shipping.GetRate)
	admin.Put("/shipping-rates/:id", guard(policy.ResourceShippingRate, policy.ActionUpdate), h.Shipping.UpdateRate)
	admin.Delete("/shipping-rates/:id", guard(policy.ResourceShippingRate, policy.ActionDelete), h.Shipping.DeactivateRate)

	admin.Post("/products", guard(policy.ResourceProduct, policy.ActionCreate), h.Product.CreateProduct)
}
