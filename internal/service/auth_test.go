package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"strefex/internal/model"
	"strefex/internal/service"
	"strefex/pkg/apperror"
	"strefex/pkg/config"
	"strefex/pkg/jwtutil"
	"strefex/pkg/password"
	"strefex/pkg/tenant"
)

type authFixture struct {
	users     *fakeUserRepo
	companies *fakeCompanyRepo
	jwt       *jwtutil.JWTUtil
	svc       *service.AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := &fakeUserRepo{}
	companies := &fakeCompanyRepo{}
	jwt := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
	return &authFixture{
		users:     users,
		companies: companies,
		jwt:       jwt,
		svc:       service.NewAuthService(users, companies, jwt),
	}
}

func (f *authFixture) seedCompany(t *testing.T, name, slug string) *model.Company {
	t.Helper()
	company := &model.Company{ID: uuid.New(), Name: name, Slug: slug, Active: true}
	f.companies.companies = append(f.companies.companies, company)
	return company
}

func (f *authFixture) seedUser(t *testing.T, company *model.Company, email, plain string, role *model.Role) *model.User {
	t.Helper()
	hashed, err := password.Hash(plain)
	require.NoError(t, err)
	user := &model.User{
		ID:        uuid.New(),
		CompanyID: company.ID,
		Email:     email,
		Password:  hashed,
		Active:    true,
		Company:   company,
		Role:      role,
	}
	if role != nil {
		user.RoleID = &role.ID
	}
	f.users.users = append(f.users.users, user)
	return user
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("email in exactly one company, no slug", func(t *testing.T) {
		f := newAuthFixture(t)
		acme := f.seedCompany(t, "Acme", "acme")
		role := &model.Role{ID: uuid.New(), CompanyID: acme.ID, Name: "Manager", Code: tenant.RoleManager}
		user := f.seedUser(t, acme, "jane@acme.test", "Passw0rd!", role)

		result, err := f.svc.Login(ctx, "jane@acme.test", "Passw0rd!", "")
		require.NoError(t, err)

		claims, err := f.jwt.Validate(result.Token)
		require.NoError(t, err)
		require.Equal(t, user.ID.String(), claims.Subject)
		require.Equal(t, acme.ID.String(), claims.TenantID)
		require.Equal(t, tenant.RoleManager, claims.Role)
		require.Equal(t, "acme", claims.TenantSlug)
	})

	t.Run("no assigned role defaults to user", func(t *testing.T) {
		f := newAuthFixture(t)
		acme := f.seedCompany(t, "Acme", "acme")
		f.seedUser(t, acme, "jane@acme.test", "Passw0rd!", nil)

		result, err := f.svc.Login(ctx, "jane@acme.test", "Passw0rd!", "")
		require.NoError(t, err)

		claims, err := f.jwt.Validate(result.Token)
		require.NoError(t, err)
		require.Equal(t, tenant.RoleUser, claims.Role)
	})

	t.Run("slug pins the company", func(t *testing.T) {
		f := newAuthFixture(t)
		acme := f.seedCompany(t, "Acme", "acme")
		globex := f.seedCompany(t, "Globex", "globex")
		f.seedUser(t, acme, "shared@example.test", "Passw0rd!", nil)
		f.seedUser(t, globex, "shared@example.test", "Passw0rd!", nil)

		result, err := f.svc.Login(ctx, "shared@example.test", "Passw0rd!", "globex")
		require.NoError(t, err)

		claims, err := f.jwt.Validate(result.Token)
		require.NoError(t, err)
		require.Equal(t, globex.ID.String(), claims.TenantID)
	})

	t.Run("ambiguous email without slug is rejected", func(t *testing.T) {
		f := newAuthFixture(t)
		acme := f.seedCompany(t, "Acme", "acme")
		globex := f.seedCompany(t, "Globex", "globex")
		f.seedUser(t, acme, "shared@example.test", "Passw0rd!", nil)
		f.seedUser(t, globex, "shared@example.test", "Passw0rd!", nil)

		_, err := f.svc.Login(ctx, "shared@example.test", "Passw0rd!", "")
		require.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
	})

	t.Run("unknown company slug", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.Login(ctx, "jane@acme.test", "Passw0rd!", "nonexistent")
		require.Equal(t, apperror.KindAuthenticationFailed, apperror.KindOf(err))
		require.Equal(t, "company not found", err.Error())
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		f := newAuthFixture(t)
		acme := f.seedCompany(t, "Acme", "acme")
		f.seedUser(t, acme, "jane@acme.test", "Passw0rd!", nil)

		_, unknownErr := f.svc.Login(ctx, "nobody@acme.test", "Passw0rd!", "")
		_, wrongErr := f.svc.Login(ctx, "jane@acme.test", "WrongPass1", "")

		require.Equal(t, apperror.KindAuthenticationFailed, apperror.KindOf(unknownErr))
		require.Equal(t, apperror.KindAuthenticationFailed, apperror.KindOf(wrongErr))
		require.Equal(t, unknownErr.Error(), wrongErr.Error())
	})

	t.Run("disabled user", func(t *testing.T) {
		f := newAuthFixture(t)
		acme := f.seedCompany(t, "Acme", "acme")
		user := f.seedUser(t, acme, "jane@acme.test", "Passw0rd!", nil)
		user.Active = false

		_, err := f.svc.Login(ctx, "jane@acme.test", "Passw0rd!", "")
		require.Equal(t, apperror.KindAuthenticationFailed, apperror.KindOf(err))
		require.Equal(t, "user is disabled", err.Error())
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates company and user, issues token", func(t *testing.T) {
		f := newAuthFixture(t)
		result, err := f.svc.Register(ctx, service.RegisterRequest{
			FullName:    "Jane Doe",
			Email:       "jane@acme.test",
			Password:    "Passw0rd!",
			CompanyName: "Acme Corp!",
		})
		require.NoError(t, err)
		require.Equal(t, "acme-corp", result.Company.Slug)
		require.Equal(t, "Acme Corp!", result.Company.Name)
		require.NotEqual(t, "Passw0rd!", result.User.Password)
		require.True(t, password.Verify("Passw0rd!", result.User.Password))

		claims, err := f.jwt.Validate(result.Token)
		require.NoError(t, err)
		require.Equal(t, result.Company.ID.String(), claims.TenantID)
		require.Equal(t, tenant.RoleUser, claims.Role)
	})

	t.Run("reuses existing company by slug", func(t *testing.T) {
		f := newAuthFixture(t)
		acme := f.seedCompany(t, "Acme Corp", "acme-corp")

		result, err := f.svc.Register(ctx, service.RegisterRequest{
			Email:       "new@acme.test",
			Password:    "Passw0rd!",
			CompanyName: "ACME corp",
		})
		require.NoError(t, err)
		require.Equal(t, acme.ID, result.Company.ID)
		require.Len(t, f.companies.companies, 1)
	})

	t.Run("falls back to shared default company", func(t *testing.T) {
		f := newAuthFixture(t)
		result, err := f.svc.Register(ctx, service.RegisterRequest{
			Email:    "solo@example.test",
			Password: "Passw0rd!",
		})
		require.NoError(t, err)
		require.Equal(t, service.DefaultCompanySlug, result.Company.Slug)
	})

	t.Run("password without uppercase leaves no state behind", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.Register(ctx, service.RegisterRequest{
			Email:       "jane@acme.test",
			Password:    "passw0rd!",
			CompanyName: "Acme",
		})
		require.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
		require.Contains(t, err.Error(), "uppercase")
		require.Empty(t, f.users.users)
		require.Empty(t, f.companies.companies)
	})

	t.Run("password validation matrix", func(t *testing.T) {
		f := newAuthFixture(t)
		cases := []struct {
			password string
			fragment string
		}{
			{"Sh0rt!", "at least 8 characters"},
			{"passw0rdlong", "uppercase"},
			{"Passwordlong", "number"},
		}
		for _, tc := range cases {
			_, err := f.svc.Register(ctx, service.RegisterRequest{
				Email:    "jane@acme.test",
				Password: tc.password,
			})
			require.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
			require.Contains(t, err.Error(), tc.fragment)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.Register(ctx, service.RegisterRequest{
			Email:    "not-an-email",
			Password: "Passw0rd!",
		})
		require.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
	})

	t.Run("email already registered in any company", func(t *testing.T) {
		f := newAuthFixture(t)
		acme := f.seedCompany(t, "Acme", "acme")
		f.seedUser(t, acme, "jane@acme.test", "Passw0rd!", nil)

		_, err := f.svc.Register(ctx, service.RegisterRequest{
			Email:       "jane@acme.test",
			Password:    "Passw0rd!",
			CompanyName: "Globex",
		})
		require.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves scoped user", func(t *testing.T) {
		f := newAuthFixture(t)
		acme := f.seedCompany(t, "Acme", "acme")
		user := f.seedUser(t, acme, "jane@acme.test", "Passw0rd!", nil)

		result, err := f.svc.Login(ctx, "jane@acme.test", "Passw0rd!", "")
		require.NoError(t, err)
		claims, err := f.jwt.Validate(result.Token)
		require.NoError(t, err)

		resolved, err := f.svc.CurrentUser(ctx, claims)
		require.NoError(t, err)
		require.Equal(t, user.ID, resolved.ID)
	})

	t.Run("token for another company resolves nothing", func(t *testing.T) {
		f := newAuthFixture(t)
		acme := f.seedCompany(t, "Acme", "acme")
		globex := f.seedCompany(t, "Globex", "globex")
		user := f.seedUser(t, acme, "jane@acme.test", "Passw0rd!", nil)

		token, err := f.jwt.Issue(user.ID, globex.ID, tenant.RoleUser, "globex", user.Email)
		require.NoError(t, err)
		claims, err := f.jwt.Validate(token)
		require.NoError(t, err)

		_, err = f.svc.CurrentUser(ctx, claims)
		require.Equal(t, apperror.KindAuthenticationFailed, apperror.KindOf(err))
	})
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Acme Corp":          "acme-corp",
		"  Acme   Corp  ":    "acme-corp",
		"ACME & Sons, Ltd.":  "acme-sons-ltd",
		"strefex2024":        "strefex2024",
		"--Weird--Name--":    "weird-name",
		"Tenant #1 (Berlin)": "tenant-1-berlin",
	}
	for input, expected := range cases {
		require.Equal(t, expected, service.Slugify(input), input)
	}
}
