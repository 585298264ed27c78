package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	"strefex/internal/model"
	"strefex/internal/repository"
	"strefex/pkg/apperror"
	"strefex/prometheus"
)

// AssetHandler handles company-scoped asset CRUD
type AssetHandler struct {
	assets repository.AssetRepository
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assets repository.AssetRepository) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// AssetRequest is the create payload
type AssetRequest struct {
	Name         string         `json:"name"`
	AssetType    string         `json:"asset_type"`
	SerialNumber string         `json:"serial_number"`
	Location     string         `json:"location"`
	Status       string         `json:"status"`
	ProjectID    *uuid.UUID     `json:"project_id"`
	Metadata     datatypes.JSON `json:"metadata"`
}

// AssetUpdateRequest is the patch payload; nil fields are left untouched
type AssetUpdateRequest struct {
	Name         *string         `json:"name"`
	AssetType    *string         `json:"asset_type"`
	SerialNumber *string         `json:"serial_number"`
	Location     *string         `json:"location"`
	Status       *string         `json:"status"`
	ProjectID    *uuid.UUID      `json:"project_id"`
	Metadata     *datatypes.JSON `json:"metadata"`
}

func assetListParams(c echo.Context) repository.AssetListParams {
	return repository.AssetListParams{
		ListParams: listParams(c),
		AssetType:  c.QueryParam("asset_type"),
		ProjectID:  queryUUID(c, "project_id"),
	}
}

// Create adds an asset to the caller's company
func (h *AssetHandler) Create(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}

	var req AssetRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}
	if req.Name == "" {
		return respondError(c, apperror.ValidationFailed("name is required"))
	}
	if req.AssetType == "" {
		return respondError(c, apperror.ValidationFailed("asset_type is required"))
	}
	if req.Status == "" {
		req.Status = "active"
	}

	asset := &model.Asset{
		Name:         req.Name,
		AssetType:    req.AssetType,
		SerialNumber: req.SerialNumber,
		Location:     req.Location,
		Status:       req.Status,
		ProjectID:    req.ProjectID,
		Metadata:     req.Metadata,
	}
	if err := h.assets.Create(c.Request().Context(), tc.TenantID, asset); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordResourceOperation("asset", "create")
	return c.JSON(http.StatusCreated, asset)
}

// Get returns one asset in the caller's company
func (h *AssetHandler) Get(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	asset, err := h.assets.GetByID(c.Request().Context(), id, tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, asset)
}

// List returns one page of the caller's company's assets
func (h *AssetHandler) List(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	params := assetListParams(c)

	assets, err := h.assets.List(c.Request().Context(), tc.TenantID, params)
	if err != nil {
		return respondError(c, err)
	}
	total, err := h.assets.Count(c.Request().Context(), tc.TenantID, params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse(assets, total, params.ListParams))
}

// Update patches an asset in the caller's company
func (h *AssetHandler) Update(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req AssetUpdateRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}

	asset, err := h.assets.GetByID(c.Request().Context(), id, tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}

	patch := repository.AssetPatch{
		Name:         req.Name,
		AssetType:    req.AssetType,
		SerialNumber: req.SerialNumber,
		Location:     req.Location,
		Status:       req.Status,
		ProjectID:    req.ProjectID,
		Metadata:     req.Metadata,
	}
	if err := h.assets.Update(c.Request().Context(), asset, patch); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordResourceOperation("asset", "update")
	return c.JSON(http.StatusOK, asset)
}

// Delete removes an asset from the caller's company
func (h *AssetHandler) Delete(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	asset, err := h.assets.GetByID(c.Request().Context(), id, tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.assets.Delete(c.Request().Context(), asset); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordResourceOperation("asset", "delete")
	return c.NoContent(http.StatusNoContent)
}
