package repository

import (
	"clientdesk-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipRepository handles database operations for memberships. It is
// also the membership directory the policy engine reads on every call.
type MembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Create creates a new membership. A duplicate (organization, identity) pair
// fails on the composite unique index.
func (r *MembershipRepository) Create(membership *models.Membership) error {
	return r.db.Create(membership).Error
}

// CreateWithIdentity provisions a brand-new identity and its first membership
// in a single transaction.
func (r *MembershipRepository) CreateWithIdentity(identity *models.Identity, membership *models.Membership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(identity).Error; err != nil {
			return err
		}
		membership.IdentityID = identity.ID
		return tx.Create(membership).Error
	})
}

// GetByID retrieves a membership by ID
func (r *MembershipRepository) GetByID(id uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.First(&membership, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// GetByOrganizationAndIdentity retrieves the membership for one identity in
// one organization
func (r *MembershipRepository) GetByOrganizationAndIdentity(orgID, identityID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.First(&membership, "organization_id = ? AND identity_id = ?", orgID, identityID).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// GetOrganizationIDs returns the IDs of every organization the identity
// belongs to
func (r *MembershipRepository) GetOrganizationIDs(identityID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Membership{}).
		Where("identity_id = ?", identityID).
		Pluck("organization_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListByOrganization retrieves all memberships for an organization with pagination
func (r *MembershipRepository) ListByOrganization(orgID uuid.UUID, limit, offset int) ([]models.Membership, int64, error) {
	var memberships []models.Membership
	var total int64

	query := r.db.Model(&models.Membership{}).Where("organization_id = ?", orgID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Identity").Limit(limit).Offset(offset).Order("created_at").Find(&memberships).Error
	if err != nil {
		return nil, 0, err
	}

	return memberships, total, nil
}

// UpdateRole updates a membership's role
func (r *MembershipRepository) UpdateRole(id uuid.UUID, role models.MembershipRole) error {
	return r.db.Model(&models.Membership{}).Where("id = ?", id).Update("role", role).Error
}

// Delete deletes a membership
func (r *MembershipRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Membership{}, "id = ?", id).Error
}
