// Package policy decides which roles may perform an action on a resource.
// Every route guard goes through Allow; there are no role checks elsewhere.
package policy

import "github.com/vaitahavya/morandi-sub002/internal/model"

// RoleAnonymous is the subject role of requests without a token.
const RoleAnonymous = "anonymous"

// Resources
const (
	ResourceCoupon       = "coupon"
	ResourceShippingRate = "shipping_rate"
	ResourceInventory    = "inventory"
	ResourceProduct      = "product"
)

// Actions
const (
	ActionRead     = "read"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionValidate = "validate"
	ActionRedeem   = "redeem"
	ActionQuote    = "quote"
	ActionAdjust   = "adjust"
)

type key struct {
	resource string
	action   string
}

var (
	public    = []string{RoleAnonymous, model.RoleCustomer, model.RoleManager, model.RoleAdmin}
	signedIn  = []string{model.RoleCustomer, model.RoleManager, model.RoleAdmin}
	staff     = []string{model.RoleManager, model.RoleAdmin}
	adminOnly = []string{model.RoleAdmin}
)

var rules = map[key][]string{
	{ResourceCoupon, ActionValidate}: public,
	{ResourceCoupon, ActionRedeem}:   signedIn,
	{ResourceCoupon, ActionRead}:     staff,
	{ResourceCoupon, ActionCreate}:   staff,

	{ResourceShippingRate, ActionQuote}:  public,
	{ResourceShippingRate, ActionRead}:   adminOnly,
	{ResourceShippingRate, ActionCreate}: adminOnly,
	{ResourceShippingRate, ActionUpdate}: adminOnly,
	{ResourceShippingRate, ActionDelete}: adminOnly,

	{ResourceInventory, ActionRead}:   staff,
	{ResourceInventory, ActionAdjust}: staff,

	{ResourceProduct, ActionRead}:   public,
	{ResourceProduct, ActionCreate}: adminOnly,
}

// Allow reports whether role may perform action on resource.
// Unknown (role, resource, action) combinations are denied.
func Allow(role, resource, action string) bool {
	for _, r := range rules[key{resource, action}] {
		if r == role {
			return true
		}
	}
	return false
}
