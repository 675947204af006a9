package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"clientdesk-backend/internal/database/models"
	apperrors "clientdesk-backend/internal/errors"
	"clientdesk-backend/internal/lifecycle"
	"clientdesk-backend/internal/policy"
	"clientdesk-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// OrganizationService handles business logic for organizations
type OrganizationService struct {
	repo      repository.OrganizationRepositoryInterface
	engine    *policy.Engine
	lifecycle *lifecycle.CascadeManager
	validator *validator.Validate
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(
	repo repository.OrganizationRepositoryInterface,
	engine *policy.Engine,
	lifecycle *lifecycle.CascadeManager,
	validator *validator.Validate,
) *OrganizationService {
	return &OrganizationService{
		repo:      repo,
		engine:    engine,
		lifecycle: lifecycle,
		validator: validator,
	}
}

// CreateOrganizationRequest represents the data needed to create an organization.
// Slug is optional; when omitted it is derived from the name.
type CreateOrganizationRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=100"`
	Slug     string          `json:"slug" validate:"omitempty,max=100"`
	Metadata json.RawMessage `json:"metadata" swaggertype:"object"`
}

// UpdateOrganizationRequest represents the data needed to update an organization
type UpdateOrganizationRequest struct {
	Name     *string         `json:"name" validate:"omitempty,min=1,max=100"`
	Metadata json.RawMessage `json:"metadata" swaggertype:"object"`
}

// OrganizationResponse represents the response data for an organization
type OrganizationResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Metadata  json.RawMessage `json:"metadata,omitempty" swaggertype:"object"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// Create bootstraps a new organization. Any authenticated identity may do
// this; the creator receives an owner membership in the same transaction, so
// there is never a window where the organization exists unmanaged.
func (s *OrganizationService) Create(actor *models.Identity, req *CreateOrganizationRequest) (*OrganizationResponse, error) {
	if !s.engine.CanCreateOrganization(actor) {
		return nil, apperrors.NewForbiddenError("create_organization", "platform")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}
	if !slugPattern.MatchString(slug) {
		return nil, apperrors.NewValidationError("slug", "must be lowercase letters, digits and single hyphens")
	}

	org := &models.Organization{
		Name:     req.Name,
		Slug:     slug,
		Metadata: req.Metadata,
	}

	if err := s.repo.CreateWithOwner(org, actor.ID); err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.ErrOrganizationExists
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	return s.convertToResponse(org), nil
}

// Get retrieves one organization visible to the actor
func (s *OrganizationService) Get(actor *models.Identity, id uuid.UUID) (*OrganizationResponse, error) {
	if err := authorize(s.engine, actor, policy.ActionRead, id); err != nil {
		return nil, err
	}

	org, err := s.repo.GetByID(id)
	if err != nil {
		return nil, apperrors.ErrOrganizationNotFound
	}

	return s.convertToResponse(org), nil
}

// List returns the organizations the actor may see. The visibility predicate
// comes from the policy engine and is pushed into the query; rows outside the
// actor's memberships are never fetched.
func (s *OrganizationService) List(actor *models.Identity, limit, offset int) ([]OrganizationResponse, int64, error) {
	orgIDs, all, err := s.engine.ReadableOrganizations(actor)
	if err != nil {
		return nil, 0, err
	}

	orgs, total, err := s.repo.ListScoped(orgIDs, all, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organizations: %w", err)
	}

	responses := make([]OrganizationResponse, len(orgs))
	for i, org := range orgs {
		responses[i] = *s.convertToResponse(&org)
	}
	return responses, total, nil
}

// Update renames or retags an organization. Requires manage_organization.
func (s *OrganizationService) Update(actor *models.Identity, id uuid.UUID, req *UpdateOrganizationRequest) (*OrganizationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := authorize(s.engine, actor, policy.ActionManageOrganization, id); err != nil {
		return nil, err
	}

	org, err := s.repo.GetByID(id)
	if err != nil {
		return nil, apperrors.ErrOrganizationNotFound
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Metadata != nil {
		org.Metadata = req.Metadata
	}

	if err := s.repo.Update(org); err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.ErrOrganizationExists
		}
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return s.convertToResponse(org), nil
}

// Delete removes the organization and its entire dependent graph atomically
func (s *OrganizationService) Delete(ctx context.Context, actor *models.Identity, id uuid.UUID) error {
	return s.lifecycle.DeleteOrganization(ctx, actor, id)
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// slugify lowercases the name and collapses every run of other characters
// into a single hyphen, so "Acme Design Studio" becomes "acme-design-studio"
func slugify(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

func (s *OrganizationService) convertToResponse(org *models.Organization) *OrganizationResponse {
	return &OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		Slug:      org.Slug,
		Metadata:  org.Metadata,
		CreatedAt: formatTime(org.CreatedAt),
		UpdatedAt: formatTime(org.UpdatedAt),
	}
}
