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

// MembershipService handles business logic for memberships
type MembershipService struct {
	repo      repository.MembershipRepositoryInterface
	engine    *policy.Engine
	validator *validator.Validate
}

// NewMembershipService creates a new membership service
func NewMembershipService(
	repo repository.MembershipRepositoryInterface,
	engine *policy.Engine,
	validator *validator.Validate,
) *MembershipService {
	return &MembershipService{
		repo:      repo,
		engine:    engine,
		validator: validator,
	}
}

// UpdateMembershipRoleRequest represents the data needed to change a member's role
type UpdateMembershipRoleRequest struct {
	Role models.MembershipRole `json:"role" validate:"required"`
}

// MembershipResponse represents the response data for a membership
type MembershipResponse struct {
	ID             uuid.UUID             `json:"id"`
	OrganizationID uuid.UUID             `json:"organization_id"`
	IdentityID     uuid.UUID             `json:"identity_id"`
	Email          string                `json:"email,omitempty"`
	FirstName      string                `json:"first_name,omitempty"`
	LastName       string                `json:"last_name,omitempty"`
	Role           models.MembershipRole `json:"role"`
	CreatedAt      string                `json:"created_at"`
}

// List returns the memberships of an organization
func (s *MembershipService) List(actor *models.Identity, orgID uuid.UUID, limit, offset int) ([]MembershipResponse, int64, error) {
	if err := authorize(s.engine, actor, policy.ActionRead, orgID); err != nil {
		return nil, 0, err
	}

	memberships, total, err := s.repo.ListByOrganization(orgID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list memberships: %w", err)
	}

	responses := make([]MembershipResponse, len(memberships))
	for i, membership := range memberships {
		responses[i] = *s.convertToResponse(&membership)
	}
	return responses, total, nil
}

// UpdateRole changes one member's role. Requires manage_members; the change
// binds on the target's next policy evaluation.
func (s *MembershipService) UpdateRole(actor *models.Identity, orgID, membershipID uuid.UUID, req *UpdateMembershipRoleRequest) (*MembershipResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !req.Role.IsValid() {
		return nil, apperrors.NewValidationError("role", fmt.Sprintf("unknown role %q", req.Role))
	}

	if err := authorize(s.engine, actor, policy.ActionManageMembers, orgID); err != nil {
		return nil, err
	}

	membership, err := s.getInOrganization(orgID, membershipID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRole(membership.ID, req.Role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	membership.Role = req.Role

	return s.convertToResponse(membership), nil
}

// Remove revokes a membership. Requires manage_members. The removed identity
// loses access on its next request; nothing is cached.
func (s *MembershipService) Remove(actor *models.Identity, orgID, membershipID uuid.UUID) error {
	if err := authorize(s.engine, actor, policy.ActionManageMembers, orgID); err != nil {
		return err
	}

	membership, err := s.getInOrganization(orgID, membershipID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(membership.ID); err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	return nil
}

// getInOrganization loads a membership and verifies it belongs to the
// organization named in the URL. A membership from another tenant is treated
// as absent, not as forbidden.
func (s *MembershipService) getInOrganization(orgID, membershipID uuid.UUID) (*models.Membership, error) {
	membership, err := s.repo.GetByID(membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}
	if membership.OrganizationID != orgID {
		return nil, apperrors.ErrMembershipNotFound
	}
	return membership, nil
}

func (s *MembershipService) convertToResponse(membership *models.Membership) *MembershipResponse {
	resp := &MembershipResponse{
		ID:             membership.ID,
		OrganizationID: membership.OrganizationID,
		IdentityID:     membership.IdentityID,
		Role:           membership.Role,
		CreatedAt:      formatTime(membership.CreatedAt),
	}
	if membership.Identity.ID != uuid.Nil {
		resp.Email = membership.Identity.Email
		resp.FirstName = membership.Identity.FirstName
		resp.LastName = membership.Identity.LastName
	}
	return resp
}
