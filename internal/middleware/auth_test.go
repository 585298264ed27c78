package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"strefex/internal/middleware"
	"strefex/pkg/config"
	"strefex/pkg/jwtutil"
	"strefex/pkg/tenant"
)

func newEcho(util *jwtutil.JWTUtil, extra ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	g := e.Group("/api", middleware.Auth(util))
	g.GET("/ping", func(c echo.Context) error {
		tc, ok := middleware.TenantFromEcho(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"tenant_id": tc.TenantID.String(),
			"role":      tc.Role,
		})
	}, extra...)
	return e
}

func doGet(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthAcceptsValidToken(t *testing.T) {
	util := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	e := newEcho(util)

	tenantID := uuid.New()
	token, err := util.Issue(uuid.New(), tenantID, tenant.RoleManager, "acme", "a@acme.test")
	require.NoError(t, err)

	rec := doGet(e, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), tenantID.String())
	require.Contains(t, rec.Body.String(), tenant.RoleManager)
}

func TestAuthFailuresAreIndistinguishable(t *testing.T) {
	util := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	e := newEcho(util)

	expired, err := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: -1}).
		Issue(uuid.New(), uuid.New(), tenant.RoleUser, "acme", "a@acme.test")
	require.NoError(t, err)

	forged, err := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "other-key", ExpirationHours: 1}).
		Issue(uuid.New(), uuid.New(), tenant.RoleUser, "acme", "a@acme.test")
	require.NoError(t, err)

	headers := map[string]string{
		"missing": "",
		"garbage": "Bearer not.a.token",
		"expired": "Bearer " + expired,
		"forged":  "Bearer " + forged,
		"scheme":  "Basic " + forged,
	}

	var body string
	for name, header := range headers {
		rec := doGet(e, header)
		require.Equal(t, http.StatusUnauthorized, rec.Code, name)
		if body == "" {
			body = rec.Body.String()
		}
		// Every failure mode returns byte-identical output, so a caller
		// cannot tell a forged token from an expired one.
		require.Equal(t, body, rec.Body.String(), name)
	}
}

func TestRequireRoles(t *testing.T) {
	util := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	e := newEcho(util, middleware.RequireRoles(tenant.RoleAdmin))

	t.Run("listed role passes", func(t *testing.T) {
		token, err := util.Issue(uuid.New(), uuid.New(), tenant.RoleAdmin, "acme", "a@acme.test")
		require.NoError(t, err)
		rec := doGet(e, "Bearer "+token)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unlisted role is denied", func(t *testing.T) {
		token, err := util.Issue(uuid.New(), uuid.New(), tenant.RoleManager, "acme", "a@acme.test")
		require.NoError(t, err)
		rec := doGet(e, "Bearer "+token)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}
