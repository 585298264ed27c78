package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports process liveness
type HealthHandler struct {
	serviceName string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(serviceName string) *HealthHandler {
	return &HealthHandler{serviceName: serviceName}
}

// Check returns 200 when the process is serving
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"service": h.serviceName,
	})
}
