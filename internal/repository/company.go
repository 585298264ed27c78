package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"strefex/internal/model"
)

// CompanyRepository manages tenants themselves. Companies are the isolation
// root, so lookups here are by identity, not scoped by another tenant.
type CompanyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Company, error)
	GetBySlug(ctx context.Context, slug string) (*model.Company, error)
	Create(ctx context.Context, company *model.Company) error
	Update(ctx context.Context, company *model.Company, patch CompanyPatch) error
}

// CompanyPatch enumerates the mutable company fields. Slug is deliberately
// absent: it is referenced from issued tokens and must stay stable.
type CompanyPatch struct {
	Name   *string
	Active *bool
}

// Fields returns the patch as a column/value map for the storage layer
func (p CompanyPatch) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Active != nil {
		fields["active"] = *p.Active
	}
	return fields
}

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a gorm-backed company repository
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error
	if err != nil {
		return nil, translate(err, "company")
	}
	return &company, nil
}

func (r *companyRepository) GetBySlug(ctx context.Context, slug string) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&company).Error
	if err != nil {
		return nil, translate(err, "company")
	}
	return &company, nil
}

func (r *companyRepository) Create(ctx context.Context, company *model.Company) error {
	return translate(r.db.WithContext(ctx).Create(company).Error, "company")
}

func (r *companyRepository) Update(ctx context.Context, company *model.Company, patch CompanyPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(company).Updates(fields).Error, "company")
}
