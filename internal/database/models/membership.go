package models

import (
	"github.com/google/uuid"
)

// MembershipRole represents the role of an identity within one organization.
// The role plus the identity's platform-operator flag is the sole input to
// permission decisions inside that tenant.
type MembershipRole string

const (
	RoleOwner  MembershipRole = "owner"
	RoleAdmin  MembershipRole = "admin"
	RoleMember MembershipRole = "member"
	RoleClient MembershipRole = "client"
)

// IsValid checks if the MembershipRole is valid
func (r MembershipRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleClient:
		return true
	}
	return false
}

// Membership links an identity to an organization with exactly one role.
// The composite unique index makes concurrent duplicate grants resolve
// deterministically: one insert wins, the other fails on the constraint.
type Membership struct {
	BaseModel
	OrganizationID uuid.UUID      `json:"organization_id" gorm:"type:uuid;not null;uniqueIndex:idx_memberships_org_identity" validate:"required"`
	IdentityID     uuid.UUID      `json:"identity_id" gorm:"type:uuid;not null;uniqueIndex:idx_memberships_org_identity;index" validate:"required"`
	Role           MembershipRole `json:"role" gorm:"type:varchar(20);not null" validate:"required"`

	// Relationships
	Organization Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Identity     Identity     `json:"identity,omitempty" gorm:"foreignKey:IdentityID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Membership
func (Membership) TableName() string {
	return "memberships"
}
