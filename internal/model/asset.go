package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Asset is a company-scoped piece of equipment, optionally attached to a
// project.
type Asset struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;index"`
	ProjectID    *uuid.UUID     `json:"project_id,omitempty" gorm:"type:uuid;index"`
	Name         string         `json:"name" gorm:"type:varchar(255);not null"`
	AssetType    string         `json:"asset_type" gorm:"type:varchar(64);not null"`
	SerialNumber string         `json:"serial_number,omitempty" gorm:"type:varchar(128)"`
	Location     string         `json:"location,omitempty" gorm:"type:varchar(255)"`
	Status       string         `json:"status" gorm:"type:varchar(32);default:'active'"`
	Metadata     datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns the record ID before insert
func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
