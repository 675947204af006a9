package policy

import (
	"errors"
	"fmt"

	"clientdesk-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Action is a permission class a caller must hold to perform an operation.
type Action string

const (
	ActionRead               Action = "read"
	ActionManageOwnTenant    Action = "manage_own_tenant"
	ActionManageInvoices     Action = "manage_invoices"
	ActionManageMembers      Action = "manage_members"
	ActionManageOrganization Action = "manage_organization"
	ActionManagePlatform     Action = "manage_platform"
)

// Decision is the verdict of an evaluation. Deny is an ordinary result,
// never an exception.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Scope identifies what an action targets: a single organization, or the
// platform itself (organization create/delete, cross-tenant listing).
type Scope struct {
	platform       bool
	organizationID uuid.UUID
}

// PlatformScope returns the scope for platform-class actions
func PlatformScope() Scope {
	return Scope{platform: true}
}

// OrganizationScope returns the scope for actions inside one organization
func OrganizationScope(id uuid.UUID) Scope {
	return Scope{organizationID: id}
}

// IsPlatform reports whether the scope targets the platform
func (s Scope) IsPlatform() bool {
	return s.platform
}

// OrganizationID returns the targeted organization (zero for platform scope)
func (s Scope) OrganizationID() uuid.UUID {
	return s.organizationID
}

func (s Scope) String() string {
	if s.platform {
		return "platform"
	}
	return s.organizationID.String()
}

// MembershipDirectory is the read surface the engine needs. Every Evaluate
// call reads current state through it, so a revoked role binds on the next
// call rather than lingering in a cache.
type MembershipDirectory interface {
	GetByOrganizationAndIdentity(orgID, identityID uuid.UUID) (*models.Membership, error)
	GetOrganizationIDs(identityID uuid.UUID) ([]uuid.UUID, error)
}

// Engine decides, for every read or write of every record, whether the
// requesting identity may perform the operation. It holds no state beyond
// the directory handle and is safe for concurrent use.
type Engine struct {
	memberships MembershipDirectory
}

// NewEngine creates a policy engine over the given membership directory
func NewEngine(memberships MembershipDirectory) *Engine {
	return &Engine{memberships: memberships}
}

// Evaluate returns Allow or Deny for (identity, action, scope).
// A store failure surfaces as an error alongside Deny; it is never
// downgraded to Allow.
func (e *Engine) Evaluate(identity *models.Identity, action Action, scope Scope) (Decision, error) {
	if identity == nil {
		return Deny, nil
	}

	// The operator override stays the single first-checked branch; it must
	// never be interleaved with tenant-role checks.
	if identity.PlatformOperator {
		return Allow, nil
	}

	if scope.IsPlatform() {
		return Deny, nil
	}

	membership, err := e.memberships.GetByOrganizationAndIdentity(scope.OrganizationID(), identity.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Deny, nil
		}
		return Deny, fmt.Errorf("failed to load membership: %w", err)
	}

	return decide(membership.Role, action), nil
}

// decide is the pure role/action table. It assumes the operator and
// platform-scope branches were already taken and a membership exists.
func decide(role models.MembershipRole, action Action) Decision {
	switch role {
	case models.RoleOwner, models.RoleAdmin:
		switch action {
		case ActionRead, ActionManageOwnTenant, ActionManageInvoices, ActionManageMembers, ActionManageOrganization:
			return Allow
		}
	case models.RoleMember:
		switch action {
		case ActionRead, ActionManageOwnTenant:
			return Allow
		}
	case models.RoleClient:
		if action == ActionRead {
			return Allow
		}
	}
	// Default-deny: anything unmatched is rejected.
	return Deny
}

// CanCreateOrganization reports whether the identity may bootstrap a new
// organization. Any authenticated identity may; it is the one action that
// needs no prior membership.
func (e *Engine) CanCreateOrganization(identity *models.Identity) bool {
	return identity != nil
}

// ReadableOrganizations returns the set of organizations whose rows the
// identity may see. For a platform operator, all is true and ids is nil:
// listing components push this predicate into query construction instead of
// filtering fetched rows in memory.
func (e *Engine) ReadableOrganizations(identity *models.Identity) (ids []uuid.UUID, all bool, err error) {
	if identity == nil {
		return nil, false, nil
	}
	if identity.PlatformOperator {
		return nil, true, nil
	}
	ids, err = e.memberships.GetOrganizationIDs(identity.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load memberships: %w", err)
	}
	return ids, false, nil
}
