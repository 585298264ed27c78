package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"strefex/internal/middleware"
	"strefex/internal/service"
	"strefex/pkg/apperror"
	"strefex/pkg/logger"
	"strefex/prometheus"
)

// AuthHandler handles login, registration and current-user resolution
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanySlug string `json:"company_slug,omitempty"`
}

// Login authenticates by email and password, optionally pinned to a company
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password, req.CompanySlug)
	if err != nil {
		switch apperror.KindOf(err) {
		case apperror.KindAuthenticationFailed:
			prometheus.RecordAuthError("invalid_credentials")
		case apperror.KindValidationFailed:
			prometheus.RecordAuthError("ambiguous_email")
		}
		log.Warn("login failed", zap.String("email", req.Email))
		return respondError(c, err)
	}

	prometheus.RecordTokenIssued()
	log.Info("user logged in",
		zap.String("user_id", result.User.ID.String()),
		zap.String("company_slug", result.Company.Slug))

	return c.JSON(http.StatusOK, echo.Map{
		"token":      result.Token,
		"token_type": "bearer",
		"user":       result.User,
		"company":    result.Company,
	})
}

// Register creates a user (and company if needed) and issues a token
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req service.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}

	result, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordTokenIssued()
	log.Info("user registered",
		zap.String("user_id", result.User.ID.String()),
		zap.String("company_slug", result.Company.Slug))

	return c.JSON(http.StatusCreated, echo.Map{
		"token":      result.Token,
		"token_type": "bearer",
		"user":       result.User,
		"company":    result.Company,
	})
}

// Me returns the authenticated user with company and role loaded
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := middleware.ClaimsFromEcho(c)
	if !ok {
		return respondError(c, apperror.AuthenticationFailed("invalid or expired token"))
	}

	user, err := h.auth.CurrentUser(c.Request().Context(), claims)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
