package auth

import (
	"database/sql"
	"time"
)

// Identity represents a user account
type Identity struct {
	ID                  int64          `json:"id" db:"id"`
	Email               string         `json:"email" db:"email"`
	FullName            string         `json:"full_name" db:"full_name"`
	Phone               sql.NullString `json:"-" db:"phone"`
	CompanyName         sql.NullString `json:"-" db:"company_name"`
	Role                Role           `json:"role" db:"role"`
	PasswordHash        string         `json:"-" db:"password_hash"`
	Status              string         `json:"status" db:"status"` // active, inactive, suspended
	LastLogin           sql.NullTime   `json:"-" db:"last_login"`
	FailedLoginAttempts int            `json:"-" db:"failed_login_attempts"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the account may log in.
func (i *Identity) IsActive() bool {
	return i.Status == "active"
}

// Profile is the public projection of an identity returned by /auth/me and
// embedded in login responses.
type Profile struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Phone       string `json:"phone,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Role        Role   `json:"role"`
}

// ToProfile builds the public projection.
func (i *Identity) ToProfile() *Profile {
	p := &Profile{
		ID:       i.ID,
		Email:    i.Email,
		FullName: i.FullName,
		Role:     i.Role,
	}
	if i.Phone.Valid {
		p.Phone = i.Phone.String
	}
	if i.CompanyName.Valid {
		p.CompanyName = i.CompanyName.String
	}
	return p
}
