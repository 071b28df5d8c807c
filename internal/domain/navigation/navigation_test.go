package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightline-service/internal/domain/auth"
)

func flatten(groups []Group) map[string][]string {
	out := make(map[string][]string)
	for _, g := range groups {
		for _, it := range g.Items {
			out[g.Title] = append(out[g.Title], it.Label)
		}
	}
	return out
}

func TestBuildNeverLeaksRestrictedItems(t *testing.T) {
	for _, role := range []auth.Role{
		auth.RoleAdmin, auth.RoleManager, auth.RoleDriver, auth.RoleCustomer, auth.RoleVendor,
	} {
		for _, g := range Build(role) {
			for _, it := range g.Items {
				assert.True(t, it.visibleTo(role),
					"role %s must not see item %q", role, it.Label)
			}
		}
	}
}

func TestBuildDropsEmptiedGroups(t *testing.T) {
	for _, role := range []auth.Role{
		auth.RoleAdmin, auth.RoleManager, auth.RoleDriver, auth.RoleCustomer, auth.RoleVendor,
	} {
		for _, g := range Build(role) {
			assert.NotEmpty(t, g.Items, "role %s got an empty group %q", role, g.Title)
		}
	}
}

func TestVendorView(t *testing.T) {
	menu := flatten(Build(auth.RoleVendor))

	require.Contains(t, menu, "Fleet")
	assert.NotContains(t, menu, "Administration")
	assert.NotContains(t, menu, "Operations")
	assert.NotContains(t, menu["Bookings"], "Search Trucks")
	assert.Contains(t, menu["Bookings"], "Orders")
}

func TestDriverView(t *testing.T) {
	menu := flatten(Build(auth.RoleDriver))

	require.Contains(t, menu, "Operations")
	assert.NotContains(t, menu, "Bookings", "driver sees no booking items at all")
	assert.NotContains(t, menu, "Fleet")
}

func TestManagerSeesAdministrationWithoutUserManagement(t *testing.T) {
	menu := flatten(Build(auth.RoleManager))

	require.Contains(t, menu, "Administration")
	assert.Contains(t, menu["Administration"], "All Quotations")
	assert.NotContains(t, menu["Administration"], "Users")
	assert.NotContains(t, menu["Administration"], "Truck Types")
}

func TestUnknownRoleGetsCustomerView(t *testing.T) {
	unknown := Build(auth.Role("superhero"))
	customer := Build(auth.RoleCustomer)

	assert.Equal(t, customer, unknown)
	assert.NotPanics(t, func() { Build(auth.Role("")) })
}

func TestBuildIsDeterministic(t *testing.T) {
	assert.Equal(t, Build(auth.RoleAdmin), Build(auth.RoleAdmin))
}
