package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User belongs to exactly one company. Email is unique within the company.
// The password hash is never serialized.
type User struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;index;uniqueIndex:uq_users_company_email"`
	RoleID    *uuid.UUID     `json:"role_id,omitempty" gorm:"type:uuid;index"`
	Email     string         `json:"email" gorm:"type:varchar(255);not null;index;uniqueIndex:uq_users_company_email"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	FullName  string         `json:"full_name,omitempty" gorm:"type:varchar(255)"`
	Active    bool           `json:"active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Role    *Role    `json:"role,omitempty" gorm:"foreignKey:RoleID"`
}

// BeforeCreate assigns the record ID before insert
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// EffectiveRole returns the role code used for authorization: the assigned
// role's code, else the lowest-privilege default.
func (u *User) EffectiveRole(defaultRole string) string {
	if u.Role != nil && u.Role.Code != "" {
		return u.Role.Code
	}
	return defaultRole
}
