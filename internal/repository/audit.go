package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"strefex/internal/model"
)

// AuditRepository is company-scoped
type AuditRepository interface {
	GetByID(ctx context.Context, id, companyID uuid.UUID) (*model.Audit, error)
	List(ctx context.Context, companyID uuid.UUID, params AuditListParams) ([]model.Audit, error)
	Count(ctx context.Context, companyID uuid.UUID, params AuditListParams) (int64, error)
	Create(ctx context.Context, companyID uuid.UUID, audit *model.Audit) error
	Update(ctx context.Context, audit *model.Audit, patch AuditPatch) error
	Delete(ctx context.Context, audit *model.Audit) error
}

// AuditListParams extends the common list parameters with audit filters
type AuditListParams struct {
	ListParams
	AuditType string
	ProjectID *uuid.UUID
	AssetID   *uuid.UUID
}

// AuditPatch enumerates the mutable audit fields
type AuditPatch struct {
	AuditType   *string
	Status      *string
	ScheduledAt *time.Time
	CompletedAt *time.Time
	AuditorID   *uuid.UUID
	Findings    *datatypes.JSON
}

// Fields returns the patch as a column/value map for the storage layer
func (p AuditPatch) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if p.AuditType != nil {
		fields["audit_type"] = *p.AuditType
	}
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	if p.ScheduledAt != nil {
		fields["scheduled_at"] = *p.ScheduledAt
	}
	if p.CompletedAt != nil {
		fields["completed_at"] = *p.CompletedAt
	}
	if p.AuditorID != nil {
		fields["auditor_id"] = *p.AuditorID
	}
	if p.Findings != nil {
		fields["findings"] = *p.Findings
	}
	return fields
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a gorm-backed audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) filtered(ctx context.Context, companyID uuid.UUID, params AuditListParams) *gorm.DB {
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.AuditType != "" {
		query = query.Where("audit_type = ?", params.AuditType)
	}
	if params.ProjectID != nil {
		query = query.Where("project_id = ?", *params.ProjectID)
	}
	if params.AssetID != nil {
		query = query.Where("asset_id = ?", *params.AssetID)
	}
	return query
}

func (r *auditRepository) GetByID(ctx context.Context, id, companyID uuid.UUID) (*model.Audit, error) {
	var audit model.Audit
	err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&audit).Error
	if err != nil {
		return nil, translate(err, "audit")
	}
	return &audit, nil
}

func (r *auditRepository) List(ctx context.Context, companyID uuid.UUID, params AuditListParams) ([]model.Audit, error) {
	params.ListParams = params.Normalize()
	var audits []model.Audit
	err := r.filtered(ctx, companyID, params).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&audits).Error
	if err != nil {
		return nil, err
	}
	return audits, nil
}

func (r *auditRepository) Count(ctx context.Context, companyID uuid.UUID, params AuditListParams) (int64, error) {
	var count int64
	err := r.filtered(ctx, companyID, params).Model(&model.Audit{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *auditRepository) Create(ctx context.Context, companyID uuid.UUID, audit *model.Audit) error {
	audit.CompanyID = companyID
	return translate(r.db.WithContext(ctx).Create(audit).Error, "audit")
}

func (r *auditRepository) Update(ctx context.Context, audit *model.Audit, patch AuditPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(audit).Updates(fields).Error, "audit")
}

func (r *auditRepository) Delete(ctx context.Context, audit *model.Audit) error {
	return translate(r.db.WithContext(ctx).Delete(audit).Error, "audit")
}
