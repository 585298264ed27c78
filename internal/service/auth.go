package service

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"strefex/internal/model"
	"strefex/internal/repository"
	"strefex/pkg/apperror"
	"strefex/pkg/jwtutil"
	"strefex/pkg/password"
	"strefex/pkg/tenant"
)

// DefaultCompanySlug is the shared company for registrations without a
// company name.
const DefaultCompanySlug = "default"

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)
)

// AuthService composes the credential verifier, token service and scoped
// repositories into login, registration and current-user resolution.
type AuthService struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	jwt       *jwtutil.JWTUtil
}

// NewAuthService creates the authentication orchestrator
func NewAuthService(
	users repository.UserRepository,
	companies repository.CompanyRepository,
	jwt *jwtutil.JWTUtil,
) *AuthService {
	return &AuthService{users: users, companies: companies, jwt: jwt}
}

// RegisterRequest is the input for Register
type RegisterRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name,omitempty"`
}

// AuthResult is a successful login or registration: the issued token plus
// the user and company it was issued for.
type AuthResult struct {
	Token   string
	User    *model.User
	Company *model.Company
}

// Login authenticates by email and password, optionally pinned to a company
// by slug. Unknown email and wrong password produce the same failure, so
// login cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, plainPassword, companySlug string) (*AuthResult, error) {
	var user *model.User

	if companySlug != "" {
		company, err := s.companies.GetBySlug(ctx, companySlug)
		if err != nil {
			if apperror.KindOf(err) == apperror.KindNotFound {
				return nil, apperror.AuthenticationFailed("company not found")
			}
			return nil, err
		}
		user, err = s.users.GetByEmail(ctx, email, company.ID)
		if err != nil && apperror.KindOf(err) != apperror.KindNotFound {
			return nil, err
		}
	} else {
		matches, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if len(matches) > 1 {
			// The same email exists in more than one company; picking one
			// arbitrarily could log the caller into the wrong tenant.
			return nil, apperror.ValidationFailed("company slug is required for this account")
		}
		if len(matches) == 1 {
			user = &matches[0]
		}
	}

	if user == nil {
		return nil, apperror.AuthenticationFailed("invalid credentials")
	}
	if !user.Active {
		return nil, apperror.AuthenticationFailed("user is disabled")
	}
	if !password.Verify(plainPassword, user.Password) {
		return nil, apperror.AuthenticationFailed("invalid credentials")
	}

	company := user.Company
	if company == nil {
		var err error
		company, err = s.companies.GetByID(ctx, user.CompanyID)
		if err != nil {
			return nil, err
		}
	}

	return s.issueFor(user, company)
}

// Register validates the input, resolves or creates the company, creates
// the user and issues a token (login-on-register).
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, apperror.Conflict("email already registered")
	}

	company, err := s.resolveCompany(ctx, req.CompanyName)
	if err != nil {
		return nil, err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    req.Email,
		Password: hashed,
		FullName: req.FullName,
		Active:   true,
	}
	if err := s.users.Create(ctx, company.ID, user); err != nil {
		return nil, err
	}

	return s.issueFor(user, company)
}

// CurrentUser resolves the authenticated user from validated claims,
// scoped to the token's company.
func (s *AuthService) CurrentUser(ctx context.Context, claims *jwtutil.Claims) (*model.User, error) {
	tc, err := tenant.FromClaims(claims)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.AuthenticationFailed("invalid or expired token")
	}

	user, err := s.users.GetByID(ctx, userID, tc.TenantID)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return nil, apperror.AuthenticationFailed("invalid or expired token")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperror.AuthenticationFailed("invalid or expired token")
	}
	return user, nil
}

func (s *AuthService) issueFor(user *model.User, company *model.Company) (*AuthResult, error) {
	role := user.EffectiveRole(tenant.DefaultRole)
	token, err := s.jwt.Issue(user.ID, company.ID, role, company.Slug, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user, Company: company}, nil
}

func (s *AuthService) resolveCompany(ctx context.Context, companyName string) (*model.Company, error) {
	name := strings.TrimSpace(companyName)
	slug := DefaultCompanySlug
	if name != "" {
		slug = Slugify(name)
	} else {
		name = "Default"
	}

	company, err := s.companies.GetBySlug(ctx, slug)
	if err == nil {
		return company, nil
	}
	if apperror.KindOf(err) != apperror.KindNotFound {
		return nil, err
	}

	company = &model.Company{Name: name, Slug: slug, Active: true}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Slugify derives a company slug: lowercase with non-alphanumeric runs
// collapsed to single hyphens.
func Slugify(name string) string {
	slug := slugSeparators.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

func validateEmail(email string) error {
	if email == "" || !emailPattern.MatchString(email) {
		return apperror.ValidationFailed("invalid email address")
	}
	return nil
}

func validatePassword(plain string) error {
	if len(plain) < 8 {
		return apperror.ValidationFailed("password must be at least 8 characters")
	}
	var hasUpper, hasDigit bool
	for _, r := range plain {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	if !hasUpper {
		return apperror.ValidationFailed("password must contain at least one uppercase letter")
	}
	if !hasDigit {
		return apperror.ValidationFailed("password must contain at least one number")
	}
	return nil
}
