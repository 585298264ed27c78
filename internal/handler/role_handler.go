package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"strefex/internal/model"
	"strefex/internal/repository"
	"strefex/pkg/apperror"
)

// RoleHandler handles company-scoped roles
type RoleHandler struct {
	roles repository.RoleRepository
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roles repository.RoleRepository) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// RoleRequest is the create payload
type RoleRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// List returns all roles in the caller's company
func (h *RoleHandler) List(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}

	roles, err := h.roles.List(c.Request().Context(), tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": roles})
}

// Create adds a role to the caller's company
func (h *RoleHandler) Create(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}

	var req RoleRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}
	if req.Name == "" || req.Code == "" {
		return respondError(c, apperror.ValidationFailed("name and code are required"))
	}

	role := &model.Role{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	}
	if err := h.roles.Create(c.Request().Context(), tc.TenantID, role); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, role)
}
