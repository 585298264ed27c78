package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"strefex/internal/model"
	"strefex/internal/repository"
	"strefex/pkg/apperror"
	"strefex/pkg/config"
	"strefex/pkg/payment"
)

// Plan is a public subscription plan
type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Interval string   `json:"interval"`
	Tier     int      `json:"tier"`
	Features []string `json:"features"`
}

// Plans is the catalog of the four subscription tiers
var Plans = []Plan{
	{ID: model.TierStart, Name: "Free (Seller)", Price: 0, Interval: "month", Tier: 0, Features: []string{
		"1 user", "Up to 3 projects", "Basic dashboard", "Company profile",
	}},
	{ID: model.TierBasic, Name: "Basic", Price: 10, Interval: "month", Tier: 1, Features: []string{
		"5 users", "Up to 10 projects", "Basic analytics & reports", "Email support",
	}},
	{ID: model.TierStandard, Name: "Standard", Price: 50, Interval: "month", Tier: 2, Features: []string{
		"25 users", "Up to 50 projects", "Advanced analytics & reports", "Priority email support",
	}},
	{ID: model.TierPremium, Name: "Premium", Price: 200, Interval: "month", Tier: 3, Features: []string{
		"Unlimited users", "Unlimited projects", "Full analytics suite", "SLA & priority support",
	}},
}

// Webhook event types consumed from the payment provider
const (
	EventSubscriptionCreated = "subscription.created"
	EventSubscriptionUpdated = "subscription.updated"
	EventSubscriptionDeleted = "subscription.deleted"
)

// BillingService drives the company subscription record from user actions
// and provider webhooks. All state lives in the subscription repository;
// nothing billing-related is held in process memory.
type BillingService struct {
	subs     repository.SubscriptionRepository
	provider payment.Provider
	cfg      *config.BillingConfig
}

// NewBillingService creates the billing orchestrator
func NewBillingService(subs repository.SubscriptionRepository, provider payment.Provider, cfg *config.BillingConfig) *BillingService {
	return &BillingService{subs: subs, provider: provider, cfg: cfg}
}

// GetSubscription returns the company's subscription, creating the free
// default on first read and lazily downgrading an expired trial.
func (s *BillingService) GetSubscription(ctx context.Context, companyID uuid.UUID) (*model.Subscription, error) {
	sub, err := s.ensure(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if sub.Status == model.SubscriptionStatusTrialing && sub.TrialEndsAt != nil && sub.TrialEndsAt.Before(time.Now()) {
		tier := model.TierStart
		status := model.SubscriptionStatusActive
		patch := repository.SubscriptionPatch{Tier: &tier, Status: &status, ClearTrialEndsAt: true}
		if err := s.subs.Update(ctx, sub, patch); err != nil {
			return nil, err
		}
	}
	return sub, nil
}

// StartTrial puts a free-tier company on a premium trial
func (s *BillingService) StartTrial(ctx context.Context, companyID uuid.UUID) (*model.Subscription, error) {
	sub, err := s.ensure(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub.Status == model.SubscriptionStatusTrialing {
		return nil, apperror.ValidationFailed("trial already active")
	}
	if sub.Tier != model.TierStart {
		return nil, apperror.ValidationFailed("already on a paid plan")
	}

	trialEnd := time.Now().AddDate(0, 0, s.cfg.TrialDays)
	tier := model.TierPremium
	status := model.SubscriptionStatusTrialing
	patch := repository.SubscriptionPatch{Tier: &tier, Status: &status, TrialEndsAt: &trialEnd}
	if err := s.subs.Update(ctx, sub, patch); err != nil {
		return nil, err
	}
	return sub, nil
}

// Checkout creates a hosted checkout session for a plan upgrade
func (s *BillingService) Checkout(ctx context.Context, companyID uuid.UUID, email, planID string) (*payment.CheckoutSession, error) {
	priceID, err := s.priceFor(planID)
	if err != nil {
		return nil, err
	}
	sub, err := s.ensure(ctx, companyID)
	if err != nil {
		return nil, err
	}
	customerRef, err := s.ensureCustomer(ctx, sub, email)
	if err != nil {
		return nil, err
	}
	return s.provider.CreateCheckoutSession(ctx, customerRef, priceID)
}

// CreateSubscription subscribes the company directly with a payment method
func (s *BillingService) CreateSubscription(ctx context.Context, companyID uuid.UUID, email, planID, paymentMethodID string) (*payment.Subscription, error) {
	priceID, err := s.priceFor(planID)
	if err != nil {
		return nil, err
	}
	sub, err := s.ensure(ctx, companyID)
	if err != nil {
		return nil, err
	}
	customerRef, err := s.ensureCustomer(ctx, sub, email)
	if err != nil {
		return nil, err
	}

	created, err := s.provider.CreateSubscription(ctx, customerRef, priceID, paymentMethodID)
	if err != nil {
		return nil, err
	}

	status := model.SubscriptionStatusActive
	if created.Status != "" {
		status = created.Status
	}
	patch := repository.SubscriptionPatch{
		Tier:            &planID,
		Status:          &status,
		SubscriptionRef: &created.ID,
	}
	if err := s.subs.Update(ctx, sub, patch); err != nil {
		return nil, err
	}
	return created, nil
}

// Portal creates a hosted billing portal session for the company
func (s *BillingService) Portal(ctx context.Context, companyID uuid.UUID) (*payment.PortalSession, error) {
	sub, err := s.ensure(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub.CustomerRef == "" {
		return nil, apperror.ValidationFailed("company has no billing customer")
	}
	return s.provider.CreatePortalSession(ctx, sub.CustomerRef)
}

// HandleWebhook decodes, verifies and applies a provider event
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.DecodeWebhookEvent(payload, signature)
	if err != nil {
		return err
	}
	return s.ApplyWebhookEvent(ctx, event)
}

// ApplyWebhookEvent applies a decoded provider event to the subscription
// record. Transitions are absolute writes keyed by customer, so a
// redelivered event converges to the same state. An optimistic-lock
// conflict means a newer transition won; the retry re-reads and re-applies.
func (s *BillingService) ApplyWebhookEvent(ctx context.Context, event *payment.WebhookEvent) error {
	for attempt := 0; attempt < 3; attempt++ {
		sub, err := s.subs.GetByCustomerRef(ctx, event.CustomerID)
		if err != nil {
			if apperror.KindOf(err) == apperror.KindNotFound {
				// Event for a customer this deployment never created.
				return nil
			}
			return err
		}

		patch := s.eventPatch(sub, event)
		err = s.subs.Update(ctx, sub, patch)
		if err == nil {
			return nil
		}
		if apperror.KindOf(err) != apperror.KindConflict {
			return err
		}
	}
	return apperror.Conflict("subscription was modified concurrently")
}

func (s *BillingService) eventPatch(sub *model.Subscription, event *payment.WebhookEvent) repository.SubscriptionPatch {
	patch := repository.SubscriptionPatch{}

	switch event.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated:
		if tier := s.tierForPrice(event.PriceID); tier != "" {
			patch.Tier = &tier
		}
		if event.Status != "" {
			patch.Status = &event.Status
		}
		if event.SubscriptionID != "" {
			patch.SubscriptionRef = &event.SubscriptionID
		}
		if !event.CurrentPeriodEnd.IsZero() {
			periodEnd := event.CurrentPeriodEnd
			patch.CurrentPeriodEnd = &periodEnd
		}
		cancel := event.CancelAtPeriodEnd
		patch.CancelAtPeriodEnd = &cancel
	case EventSubscriptionDeleted:
		tier := model.TierStart
		status := model.SubscriptionStatusCanceled
		empty := ""
		cancel := false
		patch.Tier = &tier
		patch.Status = &status
		patch.SubscriptionRef = &empty
		patch.CancelAtPeriodEnd = &cancel
		patch.ClearTrialEndsAt = true
	}

	return patch
}

func (s *BillingService) ensure(ctx context.Context, companyID uuid.UUID) (*model.Subscription, error) {
	sub, err := s.subs.GetByCompany(ctx, companyID)
	if err == nil {
		return sub, nil
	}
	if apperror.KindOf(err) != apperror.KindNotFound {
		return nil, err
	}

	sub = &model.Subscription{
		Tier:   model.TierStart,
		Status: model.SubscriptionStatusActive,
	}
	if err := s.subs.Create(ctx, companyID, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *BillingService) ensureCustomer(ctx context.Context, sub *model.Subscription, email string) (string, error) {
	if sub.CustomerRef != "" {
		return sub.CustomerRef, nil
	}

	customer, err := s.provider.CreateCustomer(ctx, email, email, map[string]string{
		"company_id": sub.CompanyID.String(),
	})
	if err != nil {
		return "", err
	}

	patch := repository.SubscriptionPatch{CustomerRef: &customer.ID}
	if err := s.subs.Update(ctx, sub, patch); err != nil {
		return "", err
	}
	return customer.ID, nil
}

func (s *BillingService) priceFor(planID string) (string, error) {
	switch planID {
	case model.TierBasic:
		return s.cfg.PriceBasic, nil
	case model.TierStandard:
		return s.cfg.PriceStandard, nil
	case model.TierPremium:
		return s.cfg.PricePremium, nil
	default:
		return "", apperror.ValidationFailed("unknown plan: " + planID)
	}
}

func (s *BillingService) tierForPrice(priceID string) string {
	switch priceID {
	case s.cfg.PriceBasic:
		return model.TierBasic
	case s.cfg.PriceStandard:
		return model.TierStandard
	case s.cfg.PricePremium:
		return model.TierPremium
	default:
		return ""
	}
}
