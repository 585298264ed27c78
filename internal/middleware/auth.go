package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"strefex/pkg/jwtutil"
	"strefex/pkg/logger"
	"strefex/pkg/tenant"
	"strefex/prometheus"
)

// Context keys for authenticated request state
const (
	claimsKey        = "claims"
	tenantContextKey = "tenant_context"
)

// Auth validates the bearer token and stores the claims and the resolved
// tenant context in the request. Every failure mode, missing header, bad
// signature, expired token, unresolvable tenant, yields the same 401 body.
func Auth(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			token, ok := bearerToken(c)
			if !ok {
				prometheus.RecordAuthError("missing_token")
				return unauthorized(c)
			}

			claims, err := jwtUtil.Validate(token)
			if err != nil {
				prometheus.RecordAuthError("invalid_token")
				return unauthorized(c)
			}

			tc, err := tenant.FromClaims(claims)
			if err != nil {
				prometheus.RecordAuthError("unresolvable_tenant")
				return unauthorized(c)
			}

			c.Set(claimsKey, claims)
			c.Set(tenantContextKey, tc)

			log.Debug("request authenticated",
				zap.String("tenant_id", tc.TenantID.String()),
				zap.String("role", tc.Role))

			return next(c)
		}
	}
}

// RequireRoles gates a route on the flat allowed-role set. Elevated sets
// must list admin explicitly; there is no implicit hierarchy.
func RequireRoles(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tc, ok := TenantFromEcho(c)
			if !ok {
				return unauthorized(c)
			}
			if err := tc.Authorize(allowed...); err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
			}
			return next(c)
		}
	}
}

// TenantFromEcho returns the tenant context stored by Auth
func TenantFromEcho(c echo.Context) (*tenant.Context, bool) {
	tc, ok := c.Get(tenantContextKey).(*tenant.Context)
	return tc, ok
}

// ClaimsFromEcho returns the validated claims stored by Auth
func ClaimsFromEcho(c echo.Context) (*jwtutil.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*jwtutil.Claims)
	return claims, ok
}

func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
}
