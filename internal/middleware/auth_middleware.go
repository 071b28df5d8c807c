// internal/middleware/auth_middleware.go
package middleware

import (
	"context"
	"strings"

	"freightline-service/internal/domain/auth"
	"freightline-service/internal/pkg/jwt"
	"freightline-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Cookie names carrying the token pair for browser clients. The bearer
// header always wins when both are present.
const (
	AccessCookie  = "fl_access"
	RefreshCookie = "fl_refresh"
)

const (
	ctxIdentityID = "identity_id"
	ctxEmail      = "email"
	ctxRole       = "role"
	ctxJTI        = "jti"
)

// TokenValidator checks an access token against signature, blacklist and the
// live session store.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// AuthMiddleware authenticates the request off the bearer header or, for
// browser clients, the access cookie.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "Authentication required")
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired session")
			return
		}

		c.Set(ctxIdentityID, claims.IdentityID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxRole, auth.ParseRole(claims.Role))
		c.Set(ctxJTI, claims.ID)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Must run after
// AuthMiddleware.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "Insufficient permissions")
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(AccessCookie); err == nil {
		return cookie
	}
	return ""
}

// GetIdentityID returns the authenticated identity, 0 if unauthenticated.
func GetIdentityID(c *gin.Context) int64 {
	if v, ok := c.Get(ctxIdentityID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// GetRole returns the authenticated role, defaulting to customer.
func GetRole(c *gin.Context) auth.Role {
	if v, ok := c.Get(ctxRole); ok {
		if r, ok := v.(auth.Role); ok {
			return r
		}
	}
	return auth.RoleCustomer
}

// GetEmail returns the authenticated email.
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// GetJTI returns the token id of the current session.
func GetJTI(c *gin.Context) string {
	return c.GetString(ctxJTI)
}
