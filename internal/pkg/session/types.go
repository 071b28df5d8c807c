// internal/pkg/session/types.go
package session

import (
	"time"

	"freightline-service/internal/domain/auth"
)

// Session is the server-side record behind one issued token pair. Redis is
// the only store; losing it logs the user out, nothing more.
type Session struct {
	JTI            string    `json:"jti"`
	IdentityID     int64     `json:"identity_id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	Role           auth.Role `json:"role"`
	AccessToken    string    `json:"access_token"`
	RefreshToken   string    `json:"refresh_token"`
	IPAddress      string    `json:"ip_address,omitempty"`
	UserAgent      string    `json:"user_agent,omitempty"`
	LoginAt        time.Time `json:"login_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// SessionUser is the minimal authenticated-user summary handed to everything
// outside the session layer. Receivers get copies, never the session itself.
type SessionUser struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Role          auth.Role `json:"role"`
	Authenticated bool      `json:"authenticated"`
}

// User derives the read-only summary for this session.
func (s *Session) User() *SessionUser {
	return &SessionUser{
		ID:            s.IdentityID,
		Email:         s.Email,
		FullName:      s.FullName,
		Role:          s.Role,
		Authenticated: true,
	}
}
