package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"strefex/internal/middleware"
	"strefex/internal/repository"
	"strefex/pkg/apperror"
	"strefex/pkg/logger"
	"strefex/pkg/tenant"
)

// respondError maps an application error to its HTTP status. Internal
// errors are logged with detail but never leak their message to the client.
func respondError(c echo.Context, err error) error {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(c).Error("request failed", zap.Error(err))
		return c.JSON(status, echo.Map{"error": "internal server error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// requireTenant returns the tenant context stored by the auth middleware
func requireTenant(c echo.Context) (*tenant.Context, error) {
	tc, ok := middleware.TenantFromEcho(c)
	if !ok {
		return nil, apperror.AuthenticationFailed("invalid or expired token")
	}
	return tc, nil
}

// actorID returns the authenticated user's id, if the subject parses
func actorID(c echo.Context) *uuid.UUID {
	claims, ok := middleware.ClaimsFromEcho(c)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil
	}
	return &id
}

// pathID parses the :id path parameter
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.ValidationFailed("invalid id")
	}
	return id, nil
}

// listParams reads common pagination and filter query parameters
func listParams(c echo.Context) repository.ListParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	return repository.ListParams{
		Page:    page,
		PerPage: perPage,
		Status:  c.QueryParam("status"),
		Search:  c.QueryParam("search"),
	}
}

// queryUUID parses an optional uuid query parameter
func queryUUID(c echo.Context, name string) *uuid.UUID {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// listResponse is the uniform shape of paginated list endpoints
func listResponse(items interface{}, total int64, params repository.ListParams) echo.Map {
	params = params.Normalize()
	return echo.Map{
		"items":    items,
		"total":    total,
		"page":     params.Page,
		"per_page": params.PerPage,
	}
}
