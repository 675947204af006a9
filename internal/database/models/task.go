package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus defines the board columns a task can occupy
type TaskStatus string

const (
	TaskStatusTodo  TaskStatus = "todo"
	TaskStatusDoing TaskStatus = "doing"
	TaskStatusDone  TaskStatus = "done"
)

// IsValid checks if the TaskStatus is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusDoing, TaskStatusDone:
		return true
	}
	return false
}

// Task represents a unit of work inside a project. Position is an opaque
// ordering hint maintained by the board UI.
type Task struct {
	BaseModel
	OrganizationID uuid.UUID  `json:"organization_id" gorm:"type:uuid;not null;index" validate:"required"`
	ProjectID      uuid.UUID  `json:"project_id" gorm:"type:uuid;not null;index" validate:"required"`
	Title          string     `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Description    string     `json:"description" gorm:"type:text"`
	Status         TaskStatus `json:"status" gorm:"type:varchar(20);not null;default:'todo'"`
	Position       int        `json:"position" gorm:"not null;default:0"`
	DueOn          *time.Time `json:"due_on,omitempty"`

	// Relationships
	Project     Project      `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Attachments []Attachment `json:"attachments,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Task
func (Task) TableName() string {
	return "tasks"
}
