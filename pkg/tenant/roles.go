package tenant

import "strefex/pkg/apperror"

// Role codes. The hierarchy is flat: a check passes only for roles listed
// explicitly in the allowed set, so elevated checks must name admin too.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// DefaultRole is the effective role when a user has no role assigned.
const DefaultRole = RoleUser

// Authorize allows the request iff the context role is in the allowed set.
// Denial is terminal for the request; there is no fallback privilege level.
func (c *Context) Authorize(allowed ...string) error {
	for _, role := range allowed {
		if c.Role == role {
			return nil
		}
	}
	return apperror.AuthorizationDenied("insufficient permissions")
}
