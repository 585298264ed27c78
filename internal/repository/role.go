package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"strefex/internal/model"
)

// RoleRepository is company-scoped
type RoleRepository interface {
	GetByID(ctx context.Context, id, companyID uuid.UUID) (*model.Role, error)
	GetByCode(ctx context.Context, code string, companyID uuid.UUID) (*model.Role, error)
	List(ctx context.Context, companyID uuid.UUID) ([]model.Role, error)
	Create(ctx context.Context, companyID uuid.UUID, role *model.Role) error
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a gorm-backed role repository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) GetByID(ctx context.Context, id, companyID uuid.UUID) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&role).Error
	if err != nil {
		return nil, translate(err, "role")
	}
	return &role, nil
}

func (r *roleRepository) GetByCode(ctx context.Context, code string, companyID uuid.UUID) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).
		Where("code = ? AND company_id = ?", code, companyID).
		First(&role).Error
	if err != nil {
		return nil, translate(err, "role")
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context, companyID uuid.UUID) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) Create(ctx context.Context, companyID uuid.UUID, role *model.Role) error {
	role.CompanyID = companyID
	return translate(r.db.WithContext(ctx).Create(role).Error, "role")
}
