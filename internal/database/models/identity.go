package models

// Identity represents a durable login identity. One identity can hold
// memberships in many organizations; PlatformOperator short-circuits every
// policy decision to Allow.
type Identity struct {
	BaseModel
	Email                string `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email,max=255"`
	PasswordHash         string `json:"-" gorm:"not null;size:100"`
	FirstName            string `json:"first_name" gorm:"size:100" validate:"max=100"`
	LastName             string `json:"last_name" gorm:"size:100" validate:"max=100"`
	PlatformOperator     bool   `json:"platform_operator" gorm:"not null;default:false"`
	RequiresPasswordReset bool  `json:"requires_password_reset" gorm:"not null;default:false"`

	// Relationships
	Memberships []Membership `json:"memberships,omitempty" gorm:"foreignKey:IdentityID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Identity
func (Identity) TableName() string {
	return "identities"
}
