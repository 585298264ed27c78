package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"strefex/internal/middleware"
	"strefex/internal/service"
	"strefex/pkg/apperror"
	"strefex/prometheus"
)

// BillingHandler exposes the subscription lifecycle. The webhook route is
// the only unauthenticated one; its trust comes from signature verification
// inside the provider adapter.
type BillingHandler struct {
	billing *service.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billing *service.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// CheckoutRequest is the checkout payload
type CheckoutRequest struct {
	PlanID string `json:"plan_id"`
}

// CreateSubscriptionRequest is the direct-subscribe payload
type CreateSubscriptionRequest struct {
	PlanID          string `json:"plan_id"`
	PaymentMethodID string `json:"payment_method_id"`
}

// Plans returns the public plan catalog
func (h *BillingHandler) Plans(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"plans": service.Plans})
}

// GetSubscription returns the caller's company subscription
func (h *BillingHandler) GetSubscription(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}

	sub, err := h.billing.GetSubscription(c.Request().Context(), tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}

// StartTrial puts the caller's company on a premium trial
func (h *BillingHandler) StartTrial(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}

	sub, err := h.billing.StartTrial(c.Request().Context(), tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordBillingEvent("trial_started")
	return c.JSON(http.StatusOK, sub)
}

// Checkout creates a hosted checkout session for a plan upgrade
func (h *BillingHandler) Checkout(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	claims, ok := middleware.ClaimsFromEcho(c)
	if !ok {
		return respondError(c, apperror.AuthenticationFailed("invalid or expired token"))
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}

	session, err := h.billing.Checkout(c.Request().Context(), tc.TenantID, claims.Email, req.PlanID)
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordBillingEvent("checkout_created")
	return c.JSON(http.StatusOK, echo.Map{"session_id": session.ID, "url": session.URL})
}

// CreateSubscription subscribes the company directly with a payment method
func (h *BillingHandler) CreateSubscription(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	claims, ok := middleware.ClaimsFromEcho(c)
	if !ok {
		return respondError(c, apperror.AuthenticationFailed("invalid or expired token"))
	}

	var req CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}

	created, err := h.billing.CreateSubscription(c.Request().Context(), tc.TenantID, claims.Email, req.PlanID, req.PaymentMethodID)
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordBillingEvent("subscription_created")
	return c.JSON(http.StatusOK, echo.Map{
		"subscription_id": created.ID,
		"status":          created.Status,
		"client_secret":   created.ClientSecret,
	})
}

// Portal creates a hosted billing portal session
func (h *BillingHandler) Portal(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}

	session, err := h.billing.Portal(c.Request().Context(), tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"url": session.URL})
}

// Webhook receives provider events. Decoding verifies the signature, so a
// forged payload never reaches the subscription record.
func (h *BillingHandler) Webhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return respondError(c, apperror.ValidationFailed("unreadable payload"))
	}
	signature := c.Request().Header.Get("Stripe-Signature")

	if err := h.billing.HandleWebhook(c.Request().Context(), payload, signature); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordBillingEvent("webhook_applied")
	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
