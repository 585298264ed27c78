package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a named permission class scoped to one company. Code drives
// authorization and is unique within the company.
type Role struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;index;uniqueIndex:uq_roles_company_code"`
	Name        string         `json:"name" gorm:"type:varchar(64);not null"`
	Code        string         `json:"code" gorm:"type:varchar(32);not null;uniqueIndex:uq_roles_company_code"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns the record ID before insert
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
