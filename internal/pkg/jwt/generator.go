// internal/pkg/jwt/generator.go
package jwt

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

type Generator struct {
	priv       *rsa.PrivateKey
	issuer     string
	audience   string
	kid        string // key id for rotation
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewGenerator(priv *rsa.PrivateKey, issuer, audience, kid string, accessTTL, refreshTTL time.Duration) *Generator {
	return &Generator{
		priv:       priv,
		issuer:     issuer,
		audience:   audience,
		kid:        kid,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

// Generate creates a signed token and returns it together with its JTI.
func (g *Generator) Generate(identityID int64, email, role, purpose string, ttl time.Duration) (string, string, error) {
	if g.priv == nil {
		return "", "", fmt.Errorf("jwt generator has nil private key")
	}

	now := time.Now()
	jti := ulid.Make().String()

	claims := &Claims{
		IdentityID:     identityID,
		Email:          email,
		Role:           role,
		SessionPurpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   fmt.Sprintf("%d", identityID),
			Audience:  []string{g.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if g.kid != "" {
		tok.Header["kid"] = g.kid
	}

	signed, err := tok.SignedString(g.priv)
	return signed, jti, err
}

// GenerateAccessToken mints the short-lived token used to authenticate
// requests.
func (g *Generator) GenerateAccessToken(identityID int64, email, role string) (string, string, error) {
	return g.Generate(identityID, email, role, PurposeAccess, g.AccessTTL)
}

// GenerateRefreshToken mints the long-lived rotation token. Refresh tokens
// carry no role; the role is re-read from storage when a new access token is
// minted, so a role change takes effect at the next rotation.
func (g *Generator) GenerateRefreshToken(identityID int64) (string, string, error) {
	return g.Generate(identityID, "", "", PurposeRefresh, g.RefreshTTL)
}
