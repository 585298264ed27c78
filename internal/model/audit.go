package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit statuses
const (
	AuditStatusScheduled  = "scheduled"
	AuditStatusInProgress = "in_progress"
	AuditStatusCompleted  = "completed"
	AuditStatusCanceled   = "canceled"
)

// Audit is a company-scoped audit of a project or asset
type Audit struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;index"`
	ProjectID   *uuid.UUID     `json:"project_id,omitempty" gorm:"type:uuid;index"`
	AssetID     *uuid.UUID     `json:"asset_id,omitempty" gorm:"type:uuid;index"`
	AuditType   string         `json:"audit_type" gorm:"type:varchar(64);not null"`
	Status      string         `json:"status" gorm:"type:varchar(32);default:'scheduled'"`
	ScheduledAt *time.Time     `json:"scheduled_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	AuditorID   *uuid.UUID     `json:"auditor_id,omitempty" gorm:"type:uuid"`
	Findings    datatypes.JSON `json:"findings,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns the record ID before insert
func (a *Audit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
