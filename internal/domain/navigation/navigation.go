// Package navigation defines the dashboard menu tree and its role filter.
// The tree is static; what a user sees is recomputed per request from their
// role via Build.
package navigation

import "freightline-service/internal/domain/auth"

// Item is one menu entry. An empty Roles slice means visible to everyone.
type Item struct {
	Label string      `json:"label"`
	Path  string      `json:"path"`
	Icon  string      `json:"icon,omitempty"`
	Roles []auth.Role `json:"-"`
}

// Group is an ordered menu section.
type Group struct {
	Title string      `json:"title"`
	Items []Item      `json:"items"`
	Roles []auth.Role `json:"-"`
}

func (i Item) visibleTo(role auth.Role) bool { return allows(i.Roles, role) }

func (g Group) visibleTo(role auth.Role) bool { return allows(g.Roles, role) }

func allows(restriction []auth.Role, role auth.Role) bool {
	if len(restriction) == 0 {
		return true
	}
	for _, r := range restriction {
		if r == role {
			return true
		}
	}
	return false
}

// Build returns the menu visible to one role: a group or item is included
// iff it declares no restriction or its restriction contains the role, and
// groups left with zero items are dropped. Pure and deterministic; an
// unrecognised role gets the customer view.
func Build(role auth.Role) []Group {
	if !role.Valid() {
		role = auth.RoleCustomer
	}

	var out []Group
	for _, g := range tree {
		if !g.visibleTo(role) {
			continue
		}
		var items []Item
		for _, it := range g.Items {
			if it.visibleTo(role) {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			continue
		}
		out = append(out, Group{Title: g.Title, Items: items})
	}
	return out
}
