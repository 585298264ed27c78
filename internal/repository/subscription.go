package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"strefex/internal/model"
	"strefex/pkg/apperror"
)

// SubscriptionRepository holds one billing record per company. Updates are
// optimistic: they only apply against the version the caller read, so a
// redelivered webhook racing a newer transition loses cleanly.
type SubscriptionRepository interface {
	GetByCompany(ctx context.Context, companyID uuid.UUID) (*model.Subscription, error)
	GetByCustomerRef(ctx context.Context, customerRef string) (*model.Subscription, error)
	Create(ctx context.Context, companyID uuid.UUID, sub *model.Subscription) error
	Update(ctx context.Context, sub *model.Subscription, patch SubscriptionPatch) error
}

// SubscriptionPatch enumerates the mutable subscription fields
type SubscriptionPatch struct {
	Tier              *string
	Status            *string
	CustomerRef       *string
	SubscriptionRef   *string
	TrialEndsAt       *time.Time
	ClearTrialEndsAt  bool
	CurrentPeriodEnd  *time.Time
	CancelAtPeriodEnd *bool
}

// Fields returns the patch as a column/value map for the storage layer
func (p SubscriptionPatch) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if p.Tier != nil {
		fields["tier"] = *p.Tier
	}
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	if p.CustomerRef != nil {
		fields["customer_ref"] = *p.CustomerRef
	}
	if p.SubscriptionRef != nil {
		fields["subscription_ref"] = *p.SubscriptionRef
	}
	if p.TrialEndsAt != nil {
		fields["trial_ends_at"] = *p.TrialEndsAt
	} else if p.ClearTrialEndsAt {
		fields["trial_ends_at"] = nil
	}
	if p.CurrentPeriodEnd != nil {
		fields["current_period_end"] = *p.CurrentPeriodEnd
	}
	if p.CancelAtPeriodEnd != nil {
		fields["cancel_at_period_end"] = *p.CancelAtPeriodEnd
	}
	return fields
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a gorm-backed subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByCompany(ctx context.Context, companyID uuid.UUID) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&sub).Error
	if err != nil {
		return nil, translate(err, "subscription")
	}
	return &sub, nil
}

func (r *subscriptionRepository) GetByCustomerRef(ctx context.Context, customerRef string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).Where("customer_ref = ?", customerRef).First(&sub).Error
	if err != nil {
		return nil, translate(err, "subscription")
	}
	return &sub, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, companyID uuid.UUID, sub *model.Subscription) error {
	sub.CompanyID = companyID
	return translate(r.db.WithContext(ctx).Create(sub).Error, "subscription")
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *model.Subscription, patch SubscriptionPatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	fields["version"] = sub.Version + 1

	result := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("id = ? AND version = ?", sub.ID, sub.Version).
		Updates(fields)
	if result.Error != nil {
		return translate(result.Error, "subscription")
	}
	if result.RowsAffected == 0 {
		return apperror.Conflict("subscription was modified concurrently")
	}
	patch.apply(sub)
	sub.Version++
	return nil
}

// apply mirrors the accepted patch onto the in-memory record so callers
// see the state that was written.
func (p SubscriptionPatch) apply(sub *model.Subscription) {
	if p.Tier != nil {
		sub.Tier = *p.Tier
	}
	if p.Status != nil {
		sub.Status = *p.Status
	}
	if p.CustomerRef != nil {
		sub.CustomerRef = *p.CustomerRef
	}
	if p.SubscriptionRef != nil {
		sub.SubscriptionRef = *p.SubscriptionRef
	}
	if p.TrialEndsAt != nil {
		sub.TrialEndsAt = p.TrialEndsAt
	} else if p.ClearTrialEndsAt {
		sub.TrialEndsAt = nil
	}
	if p.CurrentPeriodEnd != nil {
		sub.CurrentPeriodEnd = p.CurrentPeriodEnd
	}
	if p.CancelAtPeriodEnd != nil {
		sub.CancelAtPeriodEnd = *p.CancelAtPeriodEnd
	}
}
