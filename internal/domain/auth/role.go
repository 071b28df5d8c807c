package auth

// Role is the closed set of access levels shared with the web client. It is
// part of the wire contract: unknown values coming off a token or a row are
// normalised by ParseRole, never rejected.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleDriver   Role = "driver"
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleDriver, RoleCustomer, RoleVendor:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole maps a role string to the enumeration. Unrecognised values fall
// back to customer, the most restrictive view.
func ParseRole(s string) Role {
	r := Role(s)
	if r.Valid() {
		return r
	}
	return RoleCustomer
}

// SignupRole restricts which roles an account may self-assign at
// registration. Staff roles are only granted by an admin.
func SignupRole(s string) Role {
	switch r := ParseRole(s); r {
	case RoleCustomer, RoleVendor, RoleDriver:
		return r
	default:
		return RoleCustomer
	}
}

// Capability checks. These are the single authoritative source for
// role-gated actions; navigation, handlers and services all consult them so
// the permitted-role sets cannot drift apart.

// CanDecideQuotation reports whether the role may accept or reject a
// quotation request.
func CanDecideQuotation(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCustomer:
		return true
	}
	return false
}

// CanManageFleet reports whether the role may create or edit truck listings.
func CanManageFleet(r Role) bool {
	return r == RoleVendor || r == RoleAdmin
}

// CanViewAllQuotations reports whether the role sees every quotation request
// rather than only its own.
func CanViewAllQuotations(r Role) bool {
	return r == RoleAdmin || r == RoleManager
}

// CanManageUsers reports whether the role may administer accounts.
func CanManageUsers(r Role) bool {
	return r == RoleAdmin
}
