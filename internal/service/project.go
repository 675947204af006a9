package service

import (
	"errors"
	"fmt"
	"time"

	"clientdesk-backend/internal/database/models"
	apperrors "clientdesk-backend/internal/errors"
	"clientdesk-backend/internal/policy"
	"clientdesk-backend/internal/repository"
	"clientdesk-backend/internal/tenant"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectService handles business logic for projects
type ProjectService struct {
	repo      repository.ProjectRepositoryInterface
	resolver  *tenant.Resolver
	engine    *policy.Engine
	validator *validator.Validate
}

// NewProjectService creates a new project service
func NewProjectService(
	repo repository.ProjectRepositoryInterface,
	resolver *tenant.Resolver,
	engine *policy.Engine,
	validator *validator.Validate,
) *ProjectService {
	return &ProjectService{
		repo:      repo,
		resolver:  resolver,
		engine:    engine,
		validator: validator,
	}
}

// CreateProjectRequest represents the data needed to create a project
type CreateProjectRequest struct {
	ClientID    uuid.UUID            `json:"client_id" validate:"required"`
	Name        string               `json:"name" validate:"required,max=200"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	DueOn       *time.Time           `json:"due_on"`
}

// UpdateProjectRequest represents the data needed to update a project
type UpdateProjectRequest struct {
	Name        *string               `json:"name" validate:"omitempty,max=200"`
	Description *string               `json:"description"`
	Status      *models.ProjectStatus `json:"status"`
	DueOn       *time.Time            `json:"due_on"`
}

// ProjectResponse represents the response data for a project
type ProjectResponse struct {
	ID             uuid.UUID            `json:"id"`
	OrganizationID uuid.UUID            `json:"organization_id"`
	ClientID       uuid.UUID            `json:"client_id"`
	Name           string               `json:"name"`
	Description    string               `json:"description,omitempty"`
	Status         models.ProjectStatus `json:"status"`
	DueOn          *time.Time           `json:"due_on,omitempty"`
	CreatedAt      string               `json:"created_at"`
	UpdatedAt      string               `json:"updated_at"`
}

// Create creates a new project under a client. The project's organization is
// derived from the client; a declared organization that disagrees is rejected
// as inconsistent. Requires manage_own_tenant.
func (s *ProjectService) Create(actor *models.Identity, orgID uuid.UUID, req *CreateProjectRequest) (*ProjectResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	status := req.Status
	if status == "" {
		status = models.ProjectStatusActive
	}
	if !status.IsValid() {
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	if err := authorize(s.engine, actor, policy.ActionManageOwnTenant, orgID); err != nil {
		return nil, err
	}

	resolvedOrg, err := s.resolver.ResolveForChild(
		tenant.RecordRef{Kind: tenant.KindClient, ID: req.ClientID}, orgID, "project")
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		OrganizationID: resolvedOrg,
		ClientID:       req.ClientID,
		Name:           req.Name,
		Description:    req.Description,
		Status:         status,
		DueOn:          req.DueOn,
	}

	if err := s.repo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.convertToResponse(project), nil
}

// Get retrieves a project by ID
func (s *ProjectService) Get(actor *models.Identity, id uuid.UUID) (*ProjectResponse, error) {
	project, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.engine, actor, policy.ActionRead, project.OrganizationID); err != nil {
		return nil, err
	}
	return s.convertToResponse(project), nil
}

// List returns the projects of an organization
func (s *ProjectService) List(actor *models.Identity, orgID uuid.UUID, limit, offset int) ([]ProjectResponse, int64, error) {
	if err := authorize(s.engine, actor, policy.ActionRead, orgID); err != nil {
		return nil, 0, err
	}

	projects, total, err := s.repo.ListByOrganization(orgID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return s.convertList(projects), total, nil
}

// ListByClient returns the projects attached to one client
func (s *ProjectService) ListByClient(actor *models.Identity, clientID uuid.UUID, limit, offset int) ([]ProjectResponse, int64, error) {
	orgID, err := s.resolver.Resolve(tenant.RecordRef{Kind: tenant.KindClient, ID: clientID})
	if err != nil {
		return nil, 0, err
	}
	if err := authorize(s.engine, actor, policy.ActionRead, orgID); err != nil {
		return nil, 0, err
	}

	projects, total, err := s.repo.ListByClient(clientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return s.convertList(projects), total, nil
}

// Update updates a project. Requires manage_own_tenant in the project's organization.
func (s *ProjectService) Update(actor *models.Identity, id uuid.UUID, req *UpdateProjectRequest) (*ProjectResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	project, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.engine, actor, policy.ActionManageOwnTenant, project.OrganizationID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", *req.Status))
		}
		project.Status = *req.Status
	}
	if req.DueOn != nil {
		project.DueOn = req.DueOn
	}

	if err := s.repo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.convertToResponse(project), nil
}

// Delete deletes a project. Requires manage_own_tenant.
func (s *ProjectService) Delete(actor *models.Identity, id uuid.UUID) error {
	project, err := s.load(id)
	if err != nil {
		return err
	}
	if err := authorize(s.engine, actor, policy.ActionManageOwnTenant, project.OrganizationID); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *ProjectService) load(id uuid.UUID) (*models.Project, error) {
	project, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) convertList(projects []models.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i, project := range projects {
		responses[i] = *s.convertToResponse(&project)
	}
	return responses
}

func (s *ProjectService) convertToResponse(project *models.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:             project.ID,
		OrganizationID: project.OrganizationID,
		ClientID:       project.ClientID,
		Name:           project.Name,
		Description:    project.Description,
		Status:         project.Status,
		DueOn:          project.DueOn,
		CreatedAt:      formatTime(project.CreatedAt),
		UpdatedAt:      formatTime(project.UpdatedAt),
	}
}
