package repository

import (
	"clientdesk-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdentityRepository handles database operations for identities
type IdentityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Create creates a new identity
func (r *IdentityRepository) Create(identity *models.Identity) error {
	return r.db.Create(identity).Error
}

// GetByID retrieves an identity by ID
func (r *IdentityRepository) GetByID(id uuid.UUID) (*models.Identity, error) {
	var identity models.Identity
	err := r.db.First(&identity, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

// GetByEmail retrieves an identity by email
func (r *IdentityRepository) GetByEmail(email string) (*models.Identity, error) {
	var identity models.Identity
	err := r.db.First(&identity, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

// Update updates an identity
func (r *IdentityRepository) Update(identity *models.Identity) error {
	return r.db.Save(identity).Error
}

// Delete deletes an identity
func (r *IdentityRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Identity{}, "id = ?", id).Error
}
