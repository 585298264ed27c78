package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"strefex/internal/repository"
	"strefex/pkg/apperror"
)

// CompanyHandler handles the caller's own company. There is no route that
// addresses a company by id; the company is always the one on the token.
type CompanyHandler struct {
	companies repository.CompanyRepository
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companies repository.CompanyRepository) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// CompanyUpdateRequest is the patch payload. The slug is not patchable: it
// is embedded in issued tokens and must stay stable.
type CompanyUpdateRequest struct {
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
}

// Get returns the caller's company
func (h *CompanyHandler) Get(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}

	company, err := h.companies.GetByID(c.Request().Context(), tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, company)
}

// Update patches the caller's company
func (h *CompanyHandler) Update(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}

	var req CompanyUpdateRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}

	company, err := h.companies.GetByID(c.Request().Context(), tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}

	patch := repository.CompanyPatch{Name: req.Name, Active: req.Active}
	if err := h.companies.Update(c.Request().Context(), company, patch); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, company)
}
