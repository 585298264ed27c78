package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	"strefex/internal/model"
	"strefex/internal/repository"
	"strefex/pkg/apperror"
	"strefex/prometheus"
)

// AuditHandler handles company-scoped audit CRUD
type AuditHandler struct {
	audits repository.AuditRepository
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audits repository.AuditRepository) *AuditHandler {
	return &AuditHandler{audits: audits}
}

// AuditRequest is the create payload
type AuditRequest struct {
	AuditType   string         `json:"audit_type"`
	Status      string         `json:"status"`
	ProjectID   *uuid.UUID     `json:"project_id"`
	AssetID     *uuid.UUID     `json:"asset_id"`
	ScheduledAt *time.Time     `json:"scheduled_at"`
	AuditorID   *uuid.UUID     `json:"auditor_id"`
	Findings    datatypes.JSON `json:"findings"`
}

// AuditUpdateRequest is the patch payload; nil fields are left untouched
type AuditUpdateRequest struct {
	AuditType   *string         `json:"audit_type"`
	Status      *string         `json:"status"`
	ScheduledAt *time.Time      `json:"scheduled_at"`
	CompletedAt *time.Time      `json:"completed_at"`
	AuditorID   *uuid.UUID      `json:"auditor_id"`
	Findings    *datatypes.JSON `json:"findings"`
}

func auditListParams(c echo.Context) repository.AuditListParams {
	return repository.AuditListParams{
		ListParams: listParams(c),
		AuditType:  c.QueryParam("audit_type"),
		ProjectID:  queryUUID(c, "project_id"),
		AssetID:    queryUUID(c, "asset_id"),
	}
}

// Create schedules an audit in the caller's company
func (h *AuditHandler) Create(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}

	var req AuditRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}
	if req.AuditType == "" {
		return respondError(c, apperror.ValidationFailed("audit_type is required"))
	}
	if req.Status == "" {
		req.Status = model.AuditStatusScheduled
	}

	audit := &model.Audit{
		AuditType:   req.AuditType,
		Status:      req.Status,
		ProjectID:   req.ProjectID,
		AssetID:     req.AssetID,
		ScheduledAt: req.ScheduledAt,
		AuditorID:   req.AuditorID,
		Findings:    req.Findings,
	}
	if err := h.audits.Create(c.Request().Context(), tc.TenantID, audit); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordResourceOperation("audit", "create")
	return c.JSON(http.StatusCreated, audit)
}

// Get returns one audit in the caller's company
func (h *AuditHandler) Get(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	audit, err := h.audits.GetByID(c.Request().Context(), id, tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, audit)
}

// List returns one page of the caller's company's audits
func (h *AuditHandler) List(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	params := auditListParams(c)

	audits, err := h.audits.List(c.Request().Context(), tc.TenantID, params)
	if err != nil {
		return respondError(c, err)
	}
	total, err := h.audits.Count(c.Request().Context(), tc.TenantID, params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse(audits, total, params.ListParams))
}

// Update patches an audit in the caller's company
func (h *AuditHandler) Update(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req AuditUpdateRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}

	audit, err := h.audits.GetByID(c.Request().Context(), id, tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}

	patch := repository.AuditPatch{
		AuditType:   req.AuditType,
		Status:      req.Status,
		ScheduledAt: req.ScheduledAt,
		CompletedAt: req.CompletedAt,
		AuditorID:   req.AuditorID,
		Findings:    req.Findings,
	}
	if err := h.audits.Update(c.Request().Context(), audit, patch); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordResourceOperation("audit", "update")
	return c.JSON(http.StatusOK, audit)
}

// Delete removes an audit from the caller's company
func (h *AuditHandler) Delete(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	audit, err := h.audits.GetByID(c.Request().Context(), id, tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.audits.Delete(c.Request().Context(), audit); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordResourceOperation("audit", "delete")
	return c.NoContent(http.StatusNoContent)
}
