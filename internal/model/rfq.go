package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RFQ statuses
const (
	RfqStatusDraft  = "draft"
	RfqStatusIssued = "issued"
	RfqStatusClosed = "closed"
)

// Rfq is a company-scoped request for quotation. The RFQ number is unique
// within the company.
type Rfq struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;index;uniqueIndex:uq_rfqs_company_number"`
	ProjectID   *uuid.UUID     `json:"project_id,omitempty" gorm:"type:uuid;index"`
	RfqNumber   string         `json:"rfq_number,omitempty" gorm:"type:varchar(64);uniqueIndex:uq_rfqs_company_number"`
	Title       string         `json:"title" gorm:"type:varchar(255);not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Status      string         `json:"status" gorm:"type:varchar(32);default:'draft'"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	IssuedAt    *time.Time     `json:"issued_at,omitempty"`
	CreatedBy   *uuid.UUID     `json:"created_by,omitempty" gorm:"type:uuid"`
	CreatedAt   time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	LineItems []RfqLineItem `json:"line_items,omitempty" gorm:"foreignKey:RfqID"`
}

// BeforeCreate assigns the record ID before insert
func (r *Rfq) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RfqLineItem is one line of an RFQ. It carries its own company_id so line
// items stay queryable under the same isolation rule as their parent.
type RfqLineItem struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	RfqID       uuid.UUID      `json:"rfq_id" gorm:"type:uuid;not null;index;uniqueIndex:uq_rfq_lines_rfq_line"`
	CompanyID   uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;index"`
	LineNumber  int            `json:"line_number" gorm:"not null;uniqueIndex:uq_rfq_lines_rfq_line"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Quantity    float64        `json:"quantity,omitempty"`
	Unit        string         `json:"unit,omitempty" gorm:"type:varchar(32)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns the record ID before insert
func (l *RfqLineItem) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
