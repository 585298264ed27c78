package payment

import (
	"context"
	"time"

	"strefex/pkg/apperror"
	"strefex/pkg/config"
)

// Customer is a provider-side customer mapped to one tenant
type Customer struct {
	ID string
}

// CheckoutSession is a hosted checkout session for a plan upgrade
type CheckoutSession struct {
	ID  string
	URL string
}

// Subscription is the provider-side subscription state
type Subscription struct {
	ID           string
	Status       string
	ClientSecret string
}

// PortalSession is a hosted billing portal session
type PortalSession struct {
	URL string
}

// WebhookEvent is a decoded, signature-verified provider event. Events may
// be redelivered; consumers must apply them idempotently.
type WebhookEvent struct {
	ID                string
	Type              string
	CustomerID        string
	SubscriptionID    string
	PriceID           string
	Status            string
	CurrentPeriodEnd  time.Time
	CancelAtPeriodEnd bool
}

// Provider is the adapter interface to the external payment provider.
// Billing orchestration is a thin consumer of this interface; the concrete
// integration lives behind it.
type Provider interface {
	CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (*Customer, error)
	CreateCheckoutSession(ctx context.Context, customerID, priceID string) (*CheckoutSession, error)
	CreateSubscription(ctx context.Context, customerID, priceID, paymentMethodID string) (*Subscription, error)
	CreatePortalSession(ctx context.Context, customerID string) (*PortalSession, error)
	DecodeWebhookEvent(payload []byte, signature string) (*WebhookEvent, error)
}

// unconfigured is the provider used when no API key is present. Every call
// fails with an upstream-unavailable error.
type unconfigured struct{}

func (unconfigured) CreateCustomer(context.Context, string, string, map[string]string) (*Customer, error) {
	return nil, errNotConfigured()
}

func (unconfigured) CreateCheckoutSession(context.Context, string, string) (*CheckoutSession, error) {
	return nil, errNotConfigured()
}

func (unconfigured) CreateSubscription(context.Context, string, string, string) (*Subscription, error) {
	return nil, errNotConfigured()
}

func (unconfigured) CreatePortalSession(context.Context, string) (*PortalSession, error) {
	return nil, errNotConfigured()
}

func (unconfigured) DecodeWebhookEvent([]byte, string) (*WebhookEvent, error) {
	return nil, errNotConfigured()
}

func errNotConfigured() error {
	return apperror.UpstreamUnavailable("payment provider is not configured")
}

// NewProvider returns the provider implied by configuration. No hosted
// integration ships yet, so every deployment gets the unconfigured provider
// and billing endpoints that need it respond 503.
func NewProvider(_ *config.BillingConfig) Provider {
	return unconfigured{}
}
