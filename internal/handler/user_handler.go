package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"strefex/internal/service"
	"strefex/pkg/apperror"
	"strefex/prometheus"
)

// UserHandler handles company-user administration
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns one page of the caller's company's users
func (h *UserHandler) List(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	params := listParams(c)

	users, total, err := h.users.List(c.Request().Context(), tc.TenantID, params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse(users, total, params))
}

// Get returns one user in the caller's company
func (h *UserHandler) Get(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.users.Get(c.Request().Context(), id, tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Create adds a user to the caller's company
func (h *UserHandler) Create(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}

	var req service.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}

	user, err := h.users.Create(c.Request().Context(), tc.TenantID, req)
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordResourceOperation("user", "create")
	return c.JSON(http.StatusCreated, user)
}

// Update patches a user in the caller's company
func (h *UserHandler) Update(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req service.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}

	user, err := h.users.Update(c.Request().Context(), id, tc.TenantID, req)
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordResourceOperation("user", "update")
	return c.JSON(http.StatusOK, user)
}
