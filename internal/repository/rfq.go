package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"strefex/internal/model"
)

// RfqRepository is company-scoped. Creating an RFQ inserts its line items
// in the same transaction through the association, so a partial RFQ is
// never visible.
type RfqRepository interface {
	GetByID(ctx context.Context, id, companyID uuid.UUID) (*model.Rfq, error)
	List(ctx context.Context, companyID uuid.UUID, params ListParams) ([]model.Rfq, error)
	Count(ctx context.Context, companyID uuid.UUID, params ListParams) (int64, error)
	Create(ctx context.Context, companyID uuid.UUID, rfq *model.Rfq) error
	Update(ctx context.Context, rfq *model.Rfq, patch RfqPatch) error
	Delete(ctx context.Context, rfq *model.Rfq) error
}

// RfqPatch enumerates the mutable RFQ fields
type RfqPatch struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *time.Time
	IssuedAt    *time.Time
}

// Fields returns the patch as a column/value map for the storage layer
func (p RfqPatch) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	if p.DueDate != nil {
		fields["due_date"] = *p.DueDate
	}
	if p.IssuedAt != nil {
		fields["issued_at"] = *p.IssuedAt
	}
	return fields
}

type rfqRepository struct {
	db *gorm.DB
}

// NewRfqRepository creates a gorm-backed RFQ repository
func NewRfqRepository(db *gorm.DB) RfqRepository {
	return &rfqRepository{db: db}
}

func (r *rfqRepository) filtered(ctx context.Context, companyID uuid.UUID, params ListParams) *gorm.DB {
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		q := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR rfq_number ILIKE ?", q, q)
	}
	return query
}

func (r *rfqRepository) GetByID(ctx context.Context, id, companyID uuid.UUID) (*model.Rfq, error) {
	var rfq model.Rfq
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("id = ? AND company_id = ?", id, companyID).
		First(&rfq).Error
	if err != nil {
		return nil, translate(err, "rfq")
	}
	return &rfq, nil
}

func (r *rfqRepository) List(ctx context.Context, companyID uuid.UUID, params ListParams) ([]model.Rfq, error) {
	params = params.Normalize()
	var rfqs []model.Rfq
	err := r.filtered(ctx, companyID, params).
		Preload("LineItems").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&rfqs).Error
	if err != nil {
		return nil, err
	}
	return rfqs, nil
}

func (r *rfqRepository) Count(ctx context.Context, companyID uuid.UUID, params ListParams) (int64, error) {
	var count int64
	err := r.filtered(ctx, companyID, params).Model(&model.Rfq{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *rfqRepository) Create(ctx context.Context, companyID uuid.UUID, rfq *model.Rfq) error {
	rfq.CompanyID = companyID
	for i := range rfq.LineItems {
		rfq.LineItems[i].CompanyID = companyID
	}
	return translate(r.db.WithContext(ctx).Create(rfq).Error, "rfq")
}

func (r *rfqRepository) Update(ctx context.Context, rfq *model.Rfq, patch RfqPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(rfq).Updates(fields).Error, "rfq")
}

func (r *rfqRepository) Delete(ctx context.Context, rfq *model.Rfq) error {
	return translate(r.db.WithContext(ctx).Select("LineItems").Delete(rfq).Error, "rfq")
}
