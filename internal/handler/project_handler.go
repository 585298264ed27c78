package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"strefex/internal/model"
	"strefex/internal/repository"
	"strefex/pkg/apperror"
	"strefex/prometheus"
)

// ProjectHandler handles company-scoped project CRUD
type ProjectHandler struct {
	projects repository.ProjectRepository
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects repository.ProjectRepository) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// ProjectRequest is the create payload. There is no company field: the
// company always comes from the token, and unknown JSON keys are dropped.
type ProjectRequest struct {
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// ProjectUpdateRequest is the patch payload; nil fields are left untouched
type ProjectUpdateRequest struct {
	Name        *string    `json:"name"`
	Code        *string    `json:"code"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// Create adds a project to the caller's company
func (h *ProjectHandler) Create(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}

	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}
	if req.Name == "" {
		return respondError(c, apperror.ValidationFailed("name is required"))
	}
	if req.Status == "" {
		req.Status = model.ProjectStatusDraft
	}

	project := &model.Project{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   actorID(c),
	}
	if err := h.projects.Create(c.Request().Context(), tc.TenantID, project); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordResourceOperation("project", "create")
	return c.JSON(http.StatusCreated, project)
}

// Get returns one project in the caller's company
func (h *ProjectHandler) Get(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	project, err := h.projects.GetByID(c.Request().Context(), id, tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, project)
}

// List returns one page of the caller's company's projects
func (h *ProjectHandler) List(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	params := listParams(c)

	projects, err := h.projects.List(c.Request().Context(), tc.TenantID, params)
	if err != nil {
		return respondError(c, err)
	}
	total, err := h.projects.Count(c.Request().Context(), tc.TenantID, params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse(projects, total, params))
}

// Update patches a project in the caller's company
func (h *ProjectHandler) Update(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req ProjectUpdateRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}

	project, err := h.projects.GetByID(c.Request().Context(), id, tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}

	patch := repository.ProjectPatch{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := h.projects.Update(c.Request().Context(), project, patch); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordResourceOperation("project", "update")
	return c.JSON(http.StatusOK, project)
}

// Delete removes a project from the caller's company
func (h *ProjectHandler) Delete(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	project, err := h.projects.GetByID(c.Request().Context(), id, tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.projects.Delete(c.Request().Context(), project); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordResourceOperation("project", "delete")
	return c.NoContent(http.StatusNoContent)
}
