package tenant_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"strefex/pkg/apperror"
	"strefex/pkg/jwtutil"
	"strefex/pkg/tenant"
)

func TestFromClaims(t *testing.T) {
	t.Run("complete claims", func(t *testing.T) {
		tenantID := uuid.New()
		ctx, err := tenant.FromClaims(&jwtutil.Claims{
			TenantID:   tenantID.String(),
			TenantSlug: "acme",
			Role:       tenant.RoleManager,
		})
		require.NoError(t, err)
		require.Equal(t, tenantID, ctx.TenantID)
		require.Equal(t, "acme", ctx.TenantSlug)
		require.Equal(t, tenant.RoleManager, ctx.Role)
	})

	t.Run("nil claims", func(t *testing.T) {
		_, err := tenant.FromClaims(nil)
		require.Equal(t, apperror.KindAuthenticationFailed, apperror.KindOf(err))
	})

	t.Run("missing tenant id", func(t *testing.T) {
		_, err := tenant.FromClaims(&jwtutil.Claims{Role: tenant.RoleAdmin})
		require.Equal(t, apperror.KindAuthenticationFailed, apperror.KindOf(err))
	})

	t.Run("unparseable tenant id", func(t *testing.T) {
		_, err := tenant.FromClaims(&jwtutil.Claims{TenantID: "not-a-uuid"})
		require.Equal(t, apperror.KindAuthenticationFailed, apperror.KindOf(err))
	})

	t.Run("missing role defaults to lowest privilege", func(t *testing.T) {
		ctx, err := tenant.FromClaims(&jwtutil.Claims{TenantID: uuid.New().String()})
		require.NoError(t, err)
		require.Equal(t, tenant.DefaultRole, ctx.Role)
	})
}

func TestAuthorize(t *testing.T) {
	ctx := &tenant.Context{TenantID: uuid.New(), Role: tenant.RoleManager}

	t.Run("role in allowed set", func(t *testing.T) {
		require.NoError(t, ctx.Authorize(tenant.RoleAdmin, tenant.RoleManager))
	})

	t.Run("role not in allowed set", func(t *testing.T) {
		err := ctx.Authorize(tenant.RoleAdmin)
		require.Equal(t, apperror.KindAuthorizationDenied, apperror.KindOf(err))
	})

	t.Run("no implicit hierarchy", func(t *testing.T) {
		admin := &tenant.Context{TenantID: uuid.New(), Role: tenant.RoleAdmin}
		// Admin does not satisfy a manager-only allow list unless listed.
		err := admin.Authorize(tenant.RoleManager)
		require.Equal(t, apperror.KindAuthorizationDenied, apperror.KindOf(err))
	})
}
