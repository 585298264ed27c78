package tenant

import (
	"github.com/google/uuid"

	"strefex/pkg/apperror"
	"strefex/pkg/jwtutil"
)

// Context is the request-scoped tenant identity derived from validated
// token claims. It is built once per request and threaded through to every
// data access, so no code path can forget to scope a query.
type Context struct {
	TenantID   uuid.UUID
	TenantSlug string
	Role       string
}

// FromClaims builds a tenant context from validated claims. Claims without
// a parseable tenant id yield an authentication failure, never a partial
// context.
func FromClaims(claims *jwtutil.Claims) (*Context, error) {
	if claims == nil || claims.TenantID == "" {
		return nil, apperror.AuthenticationFailed("invalid or expired token")
	}

	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, apperror.AuthenticationFailed("invalid or expired token")
	}

	role := claims.Role
	if role == "" {
		role = DefaultRole
	}

	return &Context{
		TenantID:   tenantID,
		TenantSlug: claims.TenantSlug,
		Role:       role,
	}, nil
}
