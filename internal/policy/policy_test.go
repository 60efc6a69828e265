package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vaitahavya/morandi-sub002/internal/model"
)

func TestAllow(t *testing.T) {
	tests := []struct {
		role     string
		resource string
		action   string
		want     bool
	}{
		{RoleAnonymous, ResourceShippingRate, ActionQuote, true},
		{RoleAnonymous, ResourceCoupon, ActionValidate, true},
		{RoleAnonymous, ResourceProduct, ActionRead, true},
		{RoleAnonymous, ResourceCoupon, ActionRedeem, false},
		{RoleAnonymous, ResourceInventory, ActionRead, false},

		{model.RoleCustomer, ResourceCoupon, ActionRedeem, true},
		{model.RoleCustomer, ResourceInventory, ActionAdjust, false},
		{model.RoleCustomer, ResourceCoupon, ActionCreate, false},

		{model.RoleManager, ResourceInventory, ActionAdjust, true},
		{model.RoleManager, ResourceInventory, ActionRead, true},
		{model.RoleManager, ResourceCoupon, ActionCreate, true},
		{model.RoleManager, ResourceShippingRate, ActionCreate, false},
		{model.RoleManager, ResourceProduct, ActionCreate, false},

		{model.RoleAdmin, ResourceShippingRate, ActionDelete, true},
		{model.RoleAdmin, ResourceProduct, ActionCreate, true},
		{model.RoleAdmin, ResourceCoupon, ActionRead, true},

		{model.RoleAdmin, "orders", ActionRead, false},
		{"superuser", ResourceProduct, ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.resource+"/"+tt.action, func(t *testing.T) {
			assert.Equal(t, tt.want, Allow(tt.role, tt.resource, tt.action))
		})
	}
}
