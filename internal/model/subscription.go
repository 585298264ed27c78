package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription tiers and statuses
const (
	TierStart    = "start"
	TierBasic    = "basic"
	TierStandard = "standard"
	TierPremium  = "premium"

	SubscriptionStatusActive   = "active"
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
)

// Subscription is the persisted, company-keyed billing state. One row per
// company; webhook-driven transitions update it in place under an
// optimistic-lock version so redelivered events converge instead of
// clobbering newer state.
type Subscription struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID         uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;uniqueIndex"`
	Tier              string         `json:"tier" gorm:"type:varchar(32);default:'start'"`
	Status            string         `json:"status" gorm:"type:varchar(32);default:'active'"`
	CustomerRef       string         `json:"-" gorm:"type:varchar(128);index"`
	SubscriptionRef   string         `json:"-" gorm:"type:varchar(128)"`
	TrialEndsAt       *time.Time     `json:"trial_ends_at,omitempty"`
	CurrentPeriodEnd  *time.Time     `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd bool           `json:"cancel_at_period_end"`
	Version           int            `json:"-" gorm:"default:0"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns the record ID before insert
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
