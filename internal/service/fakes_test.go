package service_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"strefex/internal/model"
	"strefex/internal/repository"
	"strefex/pkg/apperror"
	"strefex/pkg/payment"
)

// In-memory repository fakes, enough storage semantics to drive the
// orchestrators without a database.

type fakeUserRepo struct {
	users []*model.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id, companyID uuid.UUID) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user")
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string, companyID uuid.UUID) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user")
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) ([]model.User, error) {
	var matches []model.User
	for _, u := range f.users {
		if u.Email == email {
			matches = append(matches, *u)
		}
		if len(matches) == 2 {
			break
		}
	}
	return matches, nil
}

func (f *fakeUserRepo) List(_ context.Context, companyID uuid.UUID, params repository.ListParams) ([]model.User, error) {
	params = params.Normalize()
	var matches []model.User
	for _, u := range f.users {
		if u.CompanyID != companyID {
			continue
		}
		if params.Search != "" && !strings.Contains(u.Email, params.Search) && !strings.Contains(u.FullName, params.Search) {
			continue
		}
		matches = append(matches, *u)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return paginate(matches, params), nil
}

func (f *fakeUserRepo) Count(ctx context.Context, companyID uuid.UUID, params repository.ListParams) (int64, error) {
	var count int64
	for _, u := range f.users {
		if u.CompanyID == companyID {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserRepo) Create(_ context.Context, companyID uuid.UUID, user *model.User) error {
	user.CompanyID = companyID
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User, patch repository.UserPatch) error {
	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.RoleID != nil {
		user.RoleID = patch.RoleID
	}
	if patch.Active != nil {
		user.Active = *patch.Active
	}
	if patch.Password != nil {
		user.Password = *patch.Password
	}
	return nil
}

type fakeRoleRepo struct {
	roles []*model.Role
}

func (f *fakeRoleRepo) GetByID(_ context.Context, id, companyID uuid.UUID) (*model.Role, error) {
	for _, r := range f.roles {
		if r.ID == id && r.CompanyID == companyID {
			return r, nil
		}
	}
	return nil, apperror.NotFound("role")
}

func (f *fakeRoleRepo) GetByCode(_ context.Context, code string, companyID uuid.UUID) (*model.Role, error) {
	for _, r := range f.roles {
		if r.Code == code && r.CompanyID == companyID {
			return r, nil
		}
	}
	return nil, apperror.NotFound("role")
}

func (f *fakeRoleRepo) List(_ context.Context, companyID uuid.UUID) ([]model.Role, error) {
	var matches []model.Role
	for _, r := range f.roles {
		if r.CompanyID == companyID {
			matches = append(matches, *r)
		}
	}
	return matches, nil
}

func (f *fakeRoleRepo) Create(_ context.Context, companyID uuid.UUID, role *model.Role) error {
	role.CompanyID = companyID
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	f.roles = append(f.roles, role)
	return nil
}

type fakeCompanyRepo struct {
	companies []*model.Company
}

func (f *fakeCompanyRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Company, error) {
	for _, c := range f.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperror.NotFound("company")
}

func (f *fakeCompanyRepo) GetBySlug(_ context.Context, slug string) (*model.Company, error) {
	for _, c := range f.companies {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, apperror.NotFound("company")
}

func (f *fakeCompanyRepo) Create(_ context.Context, company *model.Company) error {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	f.companies = append(f.companies, company)
	return nil
}

func (f *fakeCompanyRepo) Update(_ context.Context, company *model.Company, patch repository.CompanyPatch) error {
	if patch.Name != nil {
		company.Name = *patch.Name
	}
	if patch.Active != nil {
		company.Active = *patch.Active
	}
	return nil
}

type fakeSubscriptionRepo struct {
	subs []*model.Subscription
}

func (f *fakeSubscriptionRepo) GetByCompany(_ context.Context, companyID uuid.UUID) (*model.Subscription, error) {
	for _, s := range f.subs {
		if s.CompanyID == companyID {
			return s, nil
		}
	}
	return nil, apperror.NotFound("subscription")
}

func (f *fakeSubscriptionRepo) GetByCustomerRef(_ context.Context, customerRef string) (*model.Subscription, error) {
	for _, s := range f.subs {
		if s.CustomerRef == customerRef {
			return s, nil
		}
	}
	return nil, apperror.NotFound("subscription")
}

func (f *fakeSubscriptionRepo) Create(_ context.Context, companyID uuid.UUID, sub *model.Subscription) error {
	sub.CompanyID = companyID
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakeSubscriptionRepo) Update(_ context.Context, sub *model.Subscription, patch repository.SubscriptionPatch) error {
	if patch.Tier != nil {
		sub.Tier = *patch.Tier
	}
	if patch.Status != nil {
		sub.Status = *patch.Status
	}
	if patch.CustomerRef != nil {
		sub.CustomerRef = *patch.CustomerRef
	}
	if patch.SubscriptionRef != nil {
		sub.SubscriptionRef = *patch.SubscriptionRef
	}
	if patch.TrialEndsAt != nil {
		sub.TrialEndsAt = patch.TrialEndsAt
	} else if patch.ClearTrialEndsAt {
		sub.TrialEndsAt = nil
	}
	if patch.CurrentPeriodEnd != nil {
		sub.CurrentPeriodEnd = patch.CurrentPeriodEnd
	}
	if patch.CancelAtPeriodEnd != nil {
		sub.CancelAtPeriodEnd = *patch.CancelAtPeriodEnd
	}
	sub.Version++
	return nil
}

type fakeProvider struct {
	customers int
	checkouts int
}

func (f *fakeProvider) CreateCustomer(_ context.Context, email, name string, _ map[string]string) (*payment.Customer, error) {
	f.customers++
	return &payment.Customer{ID: "cus_" + email}, nil
}

func (f *fakeProvider) CreateCheckoutSession(_ context.Context, customerID, priceID string) (*payment.CheckoutSession, error) {
	f.checkouts++
	return &payment.CheckoutSession{ID: "cs_1", URL: "https://pay.example/cs_1"}, nil
}

func (f *fakeProvider) CreateSubscription(_ context.Context, customerID, priceID, _ string) (*payment.Subscription, error) {
	return &payment.Subscription{ID: "sub_1", Status: "active"}, nil
}

func (f *fakeProvider) CreatePortalSession(_ context.Context, customerID string) (*payment.PortalSession, error) {
	return &payment.PortalSession{URL: "https://pay.example/portal"}, nil
}

func (f *fakeProvider) DecodeWebhookEvent(payload []byte, _ string) (*payment.WebhookEvent, error) {
	return nil, apperror.ValidationFailed("invalid webhook payload")
}

func paginate(users []model.User, params repository.ListParams) []model.User {
	start := params.Offset()
	if start >= len(users) {
		return nil
	}
	end := start + params.PerPage
	if end > len(users) {
		end = len(users)
	}
	return users[start:end]
}
