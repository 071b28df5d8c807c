// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A token is only usable for the purpose it was minted with.
const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
)

// Claims represents the JWT claims
type Claims struct {
	IdentityID     int64  `json:"identity_id"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	SessionPurpose string `json:"session_purpose"`
	jwt.RegisteredClaims
}

// IsAccess reports whether the token was minted for request authentication.
func (c *Claims) IsAccess() bool {
	return c.SessionPurpose == PurposeAccess
}

// IsRefresh reports whether the token was minted for token rotation.
func (c *Claims) IsRefresh() bool {
	return c.SessionPurpose == PurposeRefresh
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		return !required
	}

	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}

	return false
}
