package navigation

import "freightline-service/internal/domain/auth"

// The menu tree mirrors the dashboard shell. Order matters.
var tree = []Group{
	{
		Title: "Overview",
		Items: []Item{
			{Label: "Dashboard", Path: "/dashboard", Icon: "home"},
			{Label: "Notifications", Path: "/notifications", Icon: "bell"},
		},
	},
	{
		Title: "Bookings",
		Items: []Item{
			{Label: "Search Trucks", Path: "/search", Icon: "search",
				Roles: []auth.Role{auth.RoleCustomer, auth.RoleManager, auth.RoleAdmin}},
			{Label: "My Quotations", Path: "/quotations", Icon: "file-text",
				Roles: []auth.Role{auth.RoleCustomer, auth.RoleManager, auth.RoleAdmin}},
			{Label: "Orders", Path: "/orders", Icon: "package",
				Roles: []auth.Role{auth.RoleCustomer, auth.RoleManager, auth.RoleAdmin, auth.RoleVendor}},
		},
	},
	{
		Title: "Fleet",
		Roles: []auth.Role{auth.RoleVendor, auth.RoleAdmin},
		Items: []Item{
			{Label: "My Trucks", Path: "/fleet", Icon: "truck"},
			{Label: "Incoming Requests", Path: "/fleet/requests", Icon: "inbox"},
		},
	},
	{
		Title: "Operations",
		Roles: []auth.Role{auth.RoleDriver},
		Items: []Item{
			{Label: "Assigned Trips", Path: "/trips", Icon: "map"},
			{Label: "Trip History", Path: "/trips/history", Icon: "clock"},
		},
	},
	{
		Title: "Administration",
		Roles: []auth.Role{auth.RoleAdmin, auth.RoleManager},
		Items: []Item{
			{Label: "All Quotations", Path: "/admin/quotations", Icon: "layers"},
			{Label: "Users", Path: "/admin/users", Icon: "users",
				Roles: []auth.Role{auth.RoleAdmin}},
			{Label: "Truck Types", Path: "/admin/truck-types", Icon: "grid",
				Roles: []auth.Role{auth.RoleAdmin}},
		},
	},
	{
		Title: "Account",
		Items: []Item{
			{Label: "Profile", Path: "/account", Icon: "user"},
			{Label: "Logout", Path: "/logout", Icon: "log-out"},
		},
	},
}
