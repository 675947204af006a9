package models

import (
	"github.com/google/uuid"
)

// Attachment holds file metadata hung off a task. Blob storage lives
// elsewhere; this core only tracks the record and its tenant.
type Attachment struct {
	BaseModel
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index" validate:"required"`
	TaskID         uuid.UUID `json:"task_id" gorm:"type:uuid;not null;index" validate:"required"`
	FileName       string    `json:"file_name" gorm:"not null;size:255" validate:"required,max=255"`
	ContentType    string    `json:"content_type" gorm:"size:100"`
	ByteSize       int64     `json:"byte_size" gorm:"not null;default:0"`

	// Relationships
	Task Task `json:"task,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Attachment
func (Attachment) TableName() string {
	return "attachments"
}
