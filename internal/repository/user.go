package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"strefex/internal/model"
)

// UserRepository is company-scoped: every read takes the company id and a
// user is never visible from another company's context.
type UserRepository interface {
	GetByID(ctx context.Context, id, companyID uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string, companyID uuid.UUID) (*model.User, error)
	// FindByEmail searches across all companies, for login without a
	// company slug and for the registration uniqueness check. Capped at
	// two rows: callers only need to know none / one / many.
	FindByEmail(ctx context.Context, email string) ([]model.User, error)
	List(ctx context.Context, companyID uuid.UUID, params ListParams) ([]model.User, error)
	Count(ctx context.Context, companyID uuid.UUID, params ListParams) (int64, error)
	Create(ctx context.Context, companyID uuid.UUID, user *model.User) error
	Update(ctx context.Context, user *model.User, patch UserPatch) error
}

// UserPatch enumerates the mutable user fields. CompanyID and the password
// hash cannot be patched through this path; password changes go through the
// orchestrator which hashes first.
type UserPatch struct {
	FullName *string
	RoleID   *uuid.UUID
	Active   *bool
	Password *string
}

// Fields returns the patch as a column/value map for the storage layer
func (p UserPatch) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if p.FullName != nil {
		fields["full_name"] = *p.FullName
	}
	if p.RoleID != nil {
		fields["role_id"] = *p.RoleID
	}
	if p.Active != nil {
		fields["active"] = *p.Active
	}
	if p.Password != nil {
		fields["password"] = *p.Password
	}
	return fields
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a gorm-backed user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id, companyID uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Company").Preload("Role").
		Where("id = ? AND company_id = ?", id, companyID).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, companyID uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Company").Preload("Role").
		Where("email = ? AND company_id = ?", email, companyID).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Preload("Company").Preload("Role").
		Where("email = ?", email).
		Limit(2).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) List(ctx context.Context, companyID uuid.UUID, params ListParams) ([]model.User, error) {
	params = params.Normalize()
	query := r.db.WithContext(ctx).
		Preload("Role").
		Where("company_id = ?", companyID)
	if params.Search != "" {
		q := "%" + params.Search + "%"
		query = query.Where("email ILIKE ? OR full_name ILIKE ?", q, q)
	}

	var users []model.User
	err := query.Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context, companyID uuid.UUID, params ListParams) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.User{}).Where("company_id = ?", companyID)
	if params.Search != "" {
		q := "%" + params.Search + "%"
		query = query.Where("email ILIKE ? OR full_name ILIKE ?", q, q)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Create(ctx context.Context, companyID uuid.UUID, user *model.User) error {
	// The company id always comes from the resolved context, never from
	// whatever the caller left on the struct.
	user.CompanyID = companyID
	return translate(r.db.WithContext(ctx).Create(user).Error, "user")
}

func (r *userRepository) Update(ctx context.Context, user *model.User, patch UserPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(user).Updates(fields).Error, "user")
}
