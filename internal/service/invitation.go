package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"clientdesk-backend/internal/database/models"
	apperrors "clientdesk-backend/internal/errors"
	"clientdesk-backend/internal/logger"
	"clientdesk-backend/internal/policy"
	"clientdesk-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// credentialBytes is the entropy of a provisioned temporary credential before
// encoding. 24 random bytes encode to a 32-character token.
const credentialBytes = 24

// InvitationService brings identities into organizations. Inviting a known
// email grants a membership to the existing identity; inviting an unknown one
// provisions identity and membership together in a single transaction.
type InvitationService struct {
	identities  repository.IdentityRepositoryInterface
	memberships repository.MembershipRepositoryInterface
	engine      *policy.Engine
	notifier    InvitationNotifier
	validator   *validator.Validate
}

// NewInvitationService creates a new invitation service
func NewInvitationService(
	identities repository.IdentityRepositoryInterface,
	memberships repository.MembershipRepositoryInterface,
	engine *policy.Engine,
	notifier InvitationNotifier,
	validator *validator.Validate,
) *InvitationService {
	return &InvitationService{
		identities:  identities,
		memberships: memberships,
		engine:      engine,
		notifier:    notifier,
		validator:   validator,
	}
}

// InviteRequest represents the data needed to invite someone into an organization
type InviteRequest struct {
	Email     string                `json:"email" validate:"required,email,max=255"`
	Role      models.MembershipRole `json:"role" validate:"required"`
	FirstName string                `json:"first_name" validate:"max=100"`
	LastName  string                `json:"last_name" validate:"max=100"`
}

// InvitationResponse represents the outcome of an invitation
type InvitationResponse struct {
	MembershipID    uuid.UUID             `json:"membership_id"`
	OrganizationID  uuid.UUID             `json:"organization_id"`
	IdentityID      uuid.UUID             `json:"identity_id"`
	Email           string                `json:"email"`
	Role            models.MembershipRole `json:"role"`
	IdentityCreated bool                  `json:"identity_created"`
}

// Invite grants the addressed email a membership in the organization.
// Requires manage_members. Inviting an email that already holds a membership
// in this organization is a conflict, including when two admins race: the
// unique index on (organization, identity) makes exactly one of them win.
func (s *InvitationService) Invite(actor *models.Identity, orgID uuid.UUID, req *InviteRequest) (*InvitationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !req.Role.IsValid() {
		return nil, apperrors.NewValidationError("role", fmt.Sprintf("unknown role %q", req.Role))
	}

	if err := authorize(s.engine, actor, policy.ActionManageMembers, orgID); err != nil {
		return nil, err
	}

	identity, err := s.identities.GetByEmail(req.Email)
	switch {
	case err == nil:
		return s.inviteExisting(actor, orgID, identity, req.Role)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.inviteNew(actor, orgID, req)
	default:
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}
}

func (s *InvitationService) inviteExisting(actor *models.Identity, orgID uuid.UUID, identity *models.Identity, role models.MembershipRole) (*InvitationResponse, error) {
	if _, err := s.memberships.GetByOrganizationAndIdentity(orgID, identity.ID); err == nil {
		return nil, apperrors.ErrMembershipExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	membership := &models.Membership{
		OrganizationID: orgID,
		IdentityID:     identity.ID,
		Role:           role,
	}
	if err := s.memberships.Create(membership); err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.ErrMembershipExists
		}
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	if err := s.notifier.InvitationCreated(identity.Email, orgID, role, ""); err != nil {
		logger.ForIdentity(actor.Email).WithField("error", err.Error()).Warn("invitation notification failed")
	}

	return &InvitationResponse{
		MembershipID:   membership.ID,
		OrganizationID: orgID,
		IdentityID:     identity.ID,
		Email:          identity.Email,
		Role:           role,
	}, nil
}

func (s *InvitationService) inviteNew(actor *models.Identity, orgID uuid.UUID, req *InviteRequest) (*InvitationResponse, error) {
	credential, err := generateCredential()
	if err != nil {
		return nil, fmt.Errorf("failed to generate credential: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	identity := &models.Identity{
		Email:                 req.Email,
		PasswordHash:          string(hash),
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		RequiresPasswordReset: true,
	}
	membership := &models.Membership{
		OrganizationID: orgID,
		Role:           req.Role,
	}

	if err := s.memberships.CreateWithIdentity(identity, membership); err != nil {
		if isDuplicateKey(err) {
			// A racing invite may have provisioned this identity or
			// membership first; the constraint name tells us which.
			if strings.Contains(duplicateConstraint(err), "identities") {
				return nil, apperrors.ErrIdentityExists
			}
			return nil, apperrors.ErrMembershipExists
		}
		return nil, fmt.Errorf("failed to provision identity: %w", err)
	}

	// The credential travels only through the notifier; it is not logged
	// and not part of the response.
	if err := s.notifier.InvitationCreated(identity.Email, orgID, req.Role, credential); err != nil {
		logger.ForIdentity(actor.Email).WithField("error", err.Error()).Warn("invitation notification failed")
	}

	return &InvitationResponse{
		MembershipID:    membership.ID,
		OrganizationID:  orgID,
		IdentityID:      identity.ID,
		Email:           identity.Email,
		Role:            req.Role,
		IdentityCreated: true,
	}, nil
}

// generateCredential draws a fresh high-entropy token from crypto/rand.
// Two invitations never share a credential.
func generateCredential() (string, error) {
	buf := make([]byte, credentialBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
