package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"strefex/internal/model"
)

// ProjectRepository is company-scoped: every query filters by company_id,
// creates stamp it from the parameter, and updates go through an
// allow-listed patch that cannot express it.
type ProjectRepository interface {
	GetByID(ctx context.Context, id, companyID uuid.UUID) (*model.Project, error)
	List(ctx context.Context, companyID uuid.UUID, params ListParams) ([]model.Project, error)
	Count(ctx context.Context, companyID uuid.UUID, params ListParams) (int64, error)
	Create(ctx context.Context, companyID uuid.UUID, project *model.Project) error
	Update(ctx context.Context, project *model.Project, patch ProjectPatch) error
	Delete(ctx context.Context, project *model.Project) error
}

// ProjectPatch enumerates the mutable project fields
type ProjectPatch struct {
	Name        *string
	Code        *string
	Description *string
	Status      *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Fields returns the patch as a column/value map for the storage layer
func (p ProjectPatch) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Code != nil {
		fields["code"] = *p.Code
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	if p.StartDate != nil {
		fields["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		fields["end_date"] = *p.EndDate
	}
	return fields
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a gorm-backed project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) filtered(ctx context.Context, companyID uuid.UUID, params ListParams) *gorm.DB {
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		q := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", q, q)
	}
	return query
}

func (r *projectRepository) GetByID(ctx context.Context, id, companyID uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&project).Error
	if err != nil {
		return nil, translate(err, "project")
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, companyID uuid.UUID, params ListParams) ([]model.Project, error) {
	params = params.Normalize()
	var projects []model.Project
	err := r.filtered(ctx, companyID, params).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) Count(ctx context.Context, companyID uuid.UUID, params ListParams) (int64, error) {
	var count int64
	err := r.filtered(ctx, companyID, params).Model(&model.Project{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *projectRepository) Create(ctx context.Context, companyID uuid.UUID, project *model.Project) error {
	project.CompanyID = companyID
	return translate(r.db.WithContext(ctx).Create(project).Error, "project")
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project, patch ProjectPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(project).Updates(fields).Error, "project")
}

func (r *projectRepository) Delete(ctx context.Context, project *model.Project) error {
	// Records only reach here through a scoped lookup, so deleting a
	// wrong-company row is structurally unreachable.
	return translate(r.db.WithContext(ctx).Delete(project).Error, "project")
}
