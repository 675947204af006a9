package models

import (
	"github.com/google/uuid"
)

// Client represents a customer of an organization
type Client struct {
	BaseModel
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index" validate:"required"`
	CompanyName    string    `json:"company_name" gorm:"not null;size:200" validate:"required,max=200"`
	ContactName    string    `json:"contact_name" gorm:"size:200" validate:"max=200"`
	ContactEmail   string    `json:"contact_email" gorm:"size:255" validate:"omitempty,email,max=255"`
	Phone          string    `json:"phone" gorm:"size:30"`
	Notes          string    `json:"notes" gorm:"type:text"`

	// Relationships
	Organization Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Projects     []Project    `json:"projects,omitempty" gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Invoices     []Invoice    `json:"invoices,omitempty" gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Client
func (Client) TableName() string {
	return "clients"
}
