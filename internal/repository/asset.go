package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"strefex/internal/model"
)

// AssetRepository is company-scoped
type AssetRepository interface {
	GetByID(ctx context.Context, id, companyID uuid.UUID) (*model.Asset, error)
	List(ctx context.Context, companyID uuid.UUID, params AssetListParams) ([]model.Asset, error)
	Count(ctx context.Context, companyID uuid.UUID, params AssetListParams) (int64, error)
	Create(ctx context.Context, companyID uuid.UUID, asset *model.Asset) error
	Update(ctx context.Context, asset *model.Asset, patch AssetPatch) error
	Delete(ctx context.Context, asset *model.Asset) error
}

// AssetListParams extends the common list parameters with asset filters
type AssetListParams struct {
	ListParams
	AssetType string
	ProjectID *uuid.UUID
}

// AssetPatch enumerates the mutable asset fields
type AssetPatch struct {
	Name         *string
	AssetType    *string
	SerialNumber *string
	Location     *string
	Status       *string
	ProjectID    *uuid.UUID
	Metadata     *datatypes.JSON
}

// Fields returns the patch as a column/value map for the storage layer
func (p AssetPatch) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.AssetType != nil {
		fields["asset_type"] = *p.AssetType
	}
	if p.SerialNumber != nil {
		fields["serial_number"] = *p.SerialNumber
	}
	if p.Location != nil {
		fields["location"] = *p.Location
	}
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	if p.ProjectID != nil {
		fields["project_id"] = *p.ProjectID
	}
	if p.Metadata != nil {
		fields["metadata"] = *p.Metadata
	}
	return fields
}

type assetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates a gorm-backed asset repository
func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) filtered(ctx context.Context, companyID uuid.UUID, params AssetListParams) *gorm.DB {
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.AssetType != "" {
		query = query.Where("asset_type = ?", params.AssetType)
	}
	if params.ProjectID != nil {
		query = query.Where("project_id = ?", *params.ProjectID)
	}
	if params.Search != "" {
		q := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR serial_number ILIKE ? OR location ILIKE ?", q, q, q)
	}
	return query
}

func (r *assetRepository) GetByID(ctx context.Context, id, companyID uuid.UUID) (*model.Asset, error) {
	var asset model.Asset
	err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&asset).Error
	if err != nil {
		return nil, translate(err, "asset")
	}
	return &asset, nil
}

func (r *assetRepository) List(ctx context.Context, companyID uuid.UUID, params AssetListParams) ([]model.Asset, error) {
	params.ListParams = params.Normalize()
	var assets []model.Asset
	err := r.filtered(ctx, companyID, params).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepository) Count(ctx context.Context, companyID uuid.UUID, params AssetListParams) (int64, error) {
	var count int64
	err := r.filtered(ctx, companyID, params).Model(&model.Asset{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *assetRepository) Create(ctx context.Context, companyID uuid.UUID, asset *model.Asset) error {
	asset.CompanyID = companyID
	return translate(r.db.WithContext(ctx).Create(asset).Error, "asset")
}

func (r *assetRepository) Update(ctx context.Context, asset *model.Asset, patch AssetPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(asset).Updates(fields).Error, "asset")
}

func (r *assetRepository) Delete(ctx context.Context, asset *model.Asset) error {
	return translate(r.db.WithContext(ctx).Delete(asset).Error, "asset")
}
