package models

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus defines the lifecycle states of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
	InvoiceStatusVoid  InvoiceStatus = "void"
)

// IsValid checks if the InvoiceStatus is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	}
	return false
}

// Invoice represents a bill issued to a client. Number is unique within the
// organization, not globally.
type Invoice struct {
	BaseModel
	OrganizationID uuid.UUID     `json:"organization_id" gorm:"type:uuid;not null;uniqueIndex:idx_invoices_org_number" validate:"required"`
	ClientID       uuid.UUID     `json:"client_id" gorm:"type:uuid;not null;index" validate:"required"`
	ProjectID      *uuid.UUID    `json:"project_id,omitempty" gorm:"type:uuid;index"`
	Number         string        `json:"number" gorm:"not null;size:40;uniqueIndex:idx_invoices_org_number" validate:"required,max=40"`
	Status         InvoiceStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft'"`
	IssuedOn       *time.Time    `json:"issued_on,omitempty"`
	DueOn          *time.Time    `json:"due_on,omitempty"`

	// Relationships
	Client    Client            `json:"client,omitempty" gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Project   *Project          `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL"`
	LineItems []InvoiceLineItem `json:"line_items,omitempty" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceLineItem represents one billable line on an invoice. It inherits its
// tenant through the invoice; a declared organization that disagrees with the
// invoice's is rejected before the row is ever written.
type InvoiceLineItem struct {
	BaseModel
	InvoiceID      uuid.UUID `json:"invoice_id" gorm:"type:uuid;not null;index" validate:"required"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index" validate:"required"`
	Description    string    `json:"description" gorm:"not null;size:500" validate:"required,max=500"`
	Quantity       int       `json:"quantity" gorm:"not null;default:1" validate:"required,min=1"`
	UnitPriceCents int64     `json:"unit_price_cents" gorm:"not null" validate:"min=0"`

	// Relationships
	Invoice Invoice `json:"invoice,omitempty" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for InvoiceLineItem
func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}
