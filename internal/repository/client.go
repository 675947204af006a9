package repository

import (
	"clientdesk-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientRepository handles database operations for clients
type ClientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create creates a new client
func (r *ClientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

// GetByID retrieves a client by ID
func (r *ClientRepository) GetByID(id uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.db.First(&client, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// ListByOrganization retrieves all clients for an organization with pagination
func (r *ClientRepository) ListByOrganization(orgID uuid.UUID, limit, offset int) ([]models.Client, int64, error) {
	var clients []models.Client
	var total int64

	query := r.db.Model(&models.Client{}).Where("organization_id = ?", orgID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Limit(limit).Offset(offset).Order("company_name").Find(&clients).Error
	if err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

// CountScoped counts the clients visible to the caller
func (r *ClientRepository) CountScoped(orgIDs []uuid.UUID, all bool) (int64, error) {
	var total int64
	err := scopeOrganizations(r.db.Model(&models.Client{}), orgIDs, all).Count(&total).Error
	return total, err
}

// Update updates a client
func (r *ClientRepository) Update(client *models.Client) error {
	return r.db.Save(client).Error
}

// Delete deletes a client
func (r *ClientRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Client{}, "id = ?", id).Error
}
