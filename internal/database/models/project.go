package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus defines the lifecycle states of a project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusArchived  ProjectStatus = "archived"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// IsValid checks if the ProjectStatus is valid
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusArchived, ProjectStatusCompleted:
		return true
	}
	return false
}

// Project represents a body of work for a client within one organization
type Project struct {
	BaseModel
	OrganizationID uuid.UUID     `json:"organization_id" gorm:"type:uuid;not null;index" validate:"required"`
	ClientID       uuid.UUID     `json:"client_id" gorm:"type:uuid;not null;index" validate:"required"`
	Name           string        `json:"name" gorm:"not null;size:200" validate:"required,max=200"`
	Description    string        `json:"description" gorm:"type:text"`
	Status         ProjectStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	DueOn          *time.Time    `json:"due_on,omitempty"`

	// Relationships
	Organization Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Client       Client       `json:"client,omitempty" gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Tasks        []Task       `json:"tasks,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Project
func (Project) TableName() string {
	return "projects"
}
