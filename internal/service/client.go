package service

import (
	"errors"
	"fmt"

	"clientdesk-backend/internal/database/models"
	apperrors "clientdesk-backend/internal/errors"
	"clientdesk-backend/internal/policy"
	"clientdesk-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientService handles business logic for clients
type ClientService struct {
	repo      repository.ClientRepositoryInterface
	engine    *policy.Engine
	validator *validator.Validate
}

// NewClientService creates a new client service
func NewClientService(
	repo repository.ClientRepositoryInterface,
	engine *policy.Engine,
	validator *validator.Validate,
) *ClientService {
	return &ClientService{
		repo:      repo,
		engine:    engine,
		validator: validator,
	}
}

// CreateClientRequest represents the data needed to create a client
type CreateClientRequest struct {
	CompanyName  string `json:"company_name" validate:"required,max=200"`
	ContactName  string `json:"contact_name" validate:"max=200"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email,max=255"`
	Phone        string `json:"phone" validate:"max=30"`
	Notes        string `json:"notes"`
}

// UpdateClientRequest represents the data needed to update a client
type UpdateClientRequest struct {
	CompanyName  *string `json:"company_name" validate:"omitempty,max=200"`
	ContactName  *string `json:"contact_name" validate:"omitempty,max=200"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email,max=255"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
	Notes        *string `json:"notes"`
}

// ClientResponse represents the response data for a client
type ClientResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	CompanyName    string    `json:"company_name"`
	ContactName    string    `json:"contact_name,omitempty"`
	ContactEmail   string    `json:"contact_email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      string    `json:"created_at"`
	UpdatedAt      string    `json:"updated_at"`
}

// Create creates a new client in the organization. Requires manage_own_tenant.
func (s *ClientService) Create(actor *models.Identity, orgID uuid.UUID, req *CreateClientRequest) (*ClientResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := authorize(s.engine, actor, policy.ActionManageOwnTenant, orgID); err != nil {
		return nil, err
	}

	client := &models.Client{
		OrganizationID: orgID,
		CompanyName:    req.CompanyName,
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		Phone:          req.Phone,
		Notes:          req.Notes,
	}

	if err := s.repo.Create(client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return s.convertToResponse(client), nil
}

// Get retrieves a client by ID
func (s *ClientService) Get(actor *models.Identity, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.engine, actor, policy.ActionRead, client.OrganizationID); err != nil {
		return nil, err
	}
	return s.convertToResponse(client), nil
}

// List returns the clients of an organization
func (s *ClientService) List(actor *models.Identity, orgID uuid.UUID, limit, offset int) ([]ClientResponse, int64, error) {
	if err := authorize(s.engine, actor, policy.ActionRead, orgID); err != nil {
		return nil, 0, err
	}

	clients, total, err := s.repo.ListByOrganization(orgID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}

	responses := make([]ClientResponse, len(clients))
	for i, client := range clients {
		responses[i] = *s.convertToResponse(&client)
	}
	return responses, total, nil
}

// Update updates a client. Requires manage_own_tenant in the client's organization.
func (s *ClientService) Update(actor *models.Identity, id uuid.UUID, req *UpdateClientRequest) (*ClientResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	client, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.engine, actor, policy.ActionManageOwnTenant, client.OrganizationID); err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		client.CompanyName = *req.CompanyName
	}
	if req.ContactName != nil {
		client.ContactName = *req.ContactName
	}
	if req.ContactEmail != nil {
		client.ContactEmail = *req.ContactEmail
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}

	if err := s.repo.Update(client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	return s.convertToResponse(client), nil
}

// Delete deletes a client. Requires manage_own_tenant.
func (s *ClientService) Delete(actor *models.Identity, id uuid.UUID) error {
	client, err := s.load(id)
	if err != nil {
		return err
	}
	if err := authorize(s.engine, actor, policy.ActionManageOwnTenant, client.OrganizationID); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

func (s *ClientService) load(id uuid.UUID) (*models.Client, error) {
	client, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	return client, nil
}

func (s *ClientService) convertToResponse(client *models.Client) *ClientResponse {
	return &ClientResponse{
		ID:             client.ID,
		OrganizationID: client.OrganizationID,
		CompanyName:    client.CompanyName,
		ContactName:    client.ContactName,
		ContactEmail:   client.ContactEmail,
		Phone:          client.Phone,
		Notes:          client.Notes,
		CreatedAt:      formatTime(client.CreatedAt),
		UpdatedAt:      formatTime(client.UpdatedAt),
	}
}
