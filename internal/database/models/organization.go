package models

import (
	"encoding/json"
)

// Organization represents the root entity for multi-tenancy. Every business
// record partitions by its organization; deleting one cascades through the
// whole tenant graph.
type Organization struct {
	BaseModel
	Name     string          `json:"name" gorm:"uniqueIndex;not null;size:100" validate:"required,min=1,max=100"`
	Slug     string          `json:"slug" gorm:"uniqueIndex;not null;size:100" validate:"required,max=100"`
	Metadata json.RawMessage `json:"metadata" gorm:"type:jsonb"`

	// Relationships
	Memberships []Membership `json:"memberships,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Clients     []Client     `json:"clients,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Projects    []Project    `json:"projects,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Invoices    []Invoice    `json:"invoices,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Organization
func (Organization) TableName() string {
	return "organizations"
}
