package jwtutil

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"strefex/pkg/config"
)

// ErrInvalidToken is returned by Validate for every failure mode: bad
// signature, expired, malformed, wrong algorithm. Callers must not be able
// to distinguish why a token was rejected.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims represents the JWT claims carried by a session token. TenantID and
// Role are the sole source of authorization truth for a request; they are
// never read from any other input channel.
type Claims struct {
	TenantID   string `json:"tenant_id"`
	TenantSlug string `json:"tenant_slug,omitempty"`
	Role       string `json:"role"`
	Email      string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTUtil issues and validates signed session tokens. The signing key and
// expiry are process-wide configuration, loaded once at startup.
type JWTUtil struct {
	signingKey []byte
	expiration time.Duration
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(cfg *config.JWTConfig) *JWTUtil {
	return &JWTUtil{
		signingKey: []byte(cfg.SigningKey),
		expiration: time.Duration(cfg.ExpirationHours) * time.Hour,
	}
}

// Issue creates a signed token embedding subject, tenant and role claims
func (j *JWTUtil) Issue(userID, tenantID uuid.UUID, role, tenantSlug, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		TenantID:   tenantID.String(),
		TenantSlug: tenantSlug,
		Role:       role,
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.signingKey)
}

// Validate verifies signature, algorithm and expiry and returns the claims.
// The expected algorithm is pinned so algorithm confusion tokens are
// rejected before signature verification.
func (j *JWTUtil) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return j.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
