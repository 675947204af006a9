package policy

import (
	"errors"
	"testing"

	"clientdesk-backend/internal/database/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// fakeDirectory is an in-memory MembershipDirectory for engine tests
type fakeDirectory struct {
	memberships map[uuid.UUID]map[uuid.UUID]models.MembershipRole // orgID -> identityID -> role
	failWith    error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{memberships: make(map[uuid.UUID]map[uuid.UUID]models.MembershipRole)}
}

func (f *fakeDirectory) grant(orgID, identityID uuid.UUID, role models.MembershipRole) {
	if f.memberships[orgID] == nil {
		f.memberships[orgID] = make(map[uuid.UUID]models.MembershipRole)
	}
	f.memberships[orgID][identityID] = role
}

func (f *fakeDirectory) GetByOrganizationAndIdentity(orgID, identityID uuid.UUID) (*models.Membership, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	role, ok := f.memberships[orgID][identityID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Membership{OrganizationID: orgID, IdentityID: identityID, Role: role}, nil
}

func (f *fakeDirectory) GetOrganizationIDs(identityID uuid.UUID) ([]uuid.UUID, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var ids []uuid.UUID
	for orgID, byIdentity := range f.memberships {
		if _, ok := byIdentity[identityID]; ok {
			ids = append(ids, orgID)
		}
	}
	return ids, nil
}

func identity(operator bool) *models.Identity {
	return &models.Identity{
		BaseModel:        models.BaseModel{ID: uuid.New()},
		Email:            "someone@example.com",
		PlatformOperator: operator,
	}
}

var allActions = []Action{
	ActionRead,
	ActionManageOwnTenant,
	ActionManageInvoices,
	ActionManageMembers,
	ActionManageOrganization,
	ActionManagePlatform,
}

func TestOperatorAllowedEverywhere(t *testing.T) {
	engine := NewEngine(newFakeDirectory())
	operator := identity(true)
	orgID := uuid.New()

	for _, action := range allActions {
		for _, scope := range []Scope{PlatformScope(), OrganizationScope(orgID)} {
			decision, err := engine.Evaluate(operator, action, scope)
			assert.NoError(t, err)
			assert.Equal(t, Allow, decision, "operator should be allowed %s in %s", action, scope)
		}
	}
}

func TestPlatformScopeDeniedForNonOperators(t *testing.T) {
	dir := newFakeDirectory()
	engine := NewEngine(dir)
	actor := identity(false)
	// Even an owner somewhere holds no platform rights
	dir.grant(uuid.New(), actor.ID, models.RoleOwner)

	for _, action := range allActions {
		decision, err := engine.Evaluate(actor, action, PlatformScope())
		assert.NoError(t, err)
		assert.Equal(t, Deny, decision)
	}
}

func TestNoMembershipDenied(t *testing.T) {
	dir := newFakeDirectory()
	engine := NewEngine(dir)
	actor := identity(false)
	otherOrg := uuid.New()
	dir.grant(otherOrg, actor.ID, models.RoleOwner)

	strangerOrg := uuid.New()
	for _, action := range allActions {
		decision, err := engine.Evaluate(actor, action, OrganizationScope(strangerOrg))
		assert.NoError(t, err)
		assert.Equal(t, Deny, decision, "no membership should deny %s", action)
	}
}

func TestRoleActionTable(t *testing.T) {
	cases := []struct {
		role    models.MembershipRole
		allowed map[Action]bool
	}{
		{
			role: models.RoleOwner,
			allowed: map[Action]bool{
				ActionRead:               true,
				ActionManageOwnTenant:    true,
				ActionManageInvoices:     true,
				ActionManageMembers:      true,
				ActionManageOrganization: true,
				ActionManagePlatform:     false,
			},
		},
		{
			role: models.RoleAdmin,
			allowed: map[Action]bool{
				ActionRead:               true,
				ActionManageOwnTenant:    true,
				ActionManageInvoices:     true,
				ActionManageMembers:      true,
				ActionManageOrganization: true,
				ActionManagePlatform:     false,
			},
		},
		{
			role: models.RoleMember,
			allowed: map[Action]bool{
				ActionRead:               true,
				ActionManageOwnTenant:    true,
				ActionManageInvoices:     false,
				ActionManageMembers:      false,
				ActionManageOrganization: false,
				ActionManagePlatform:     false,
			},
		},
		{
			role: models.RoleClient,
			allowed: map[Action]bool{
				ActionRead:               true,
				ActionManageOwnTenant:    false,
				ActionManageInvoices:     false,
				ActionManageMembers:      false,
				ActionManageOrganization: false,
				ActionManagePlatform:     false,
			},
		},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			dir := newFakeDirectory()
			engine := NewEngine(dir)
			actor := identity(false)
			orgID := uuid.New()
			dir.grant(orgID, actor.ID, tc.role)

			for _, action := range allActions {
				decision, err := engine.Evaluate(actor, action, OrganizationScope(orgID))
				assert.NoError(t, err)
				want := Deny
				if tc.allowed[action] {
					want = Allow
				}
				assert.Equal(t, want, decision, "role %s action %s", tc.role, action)
			}
		})
	}
}

func TestUnknownRoleDefaultDeny(t *testing.T) {
	for _, action := range allActions {
		assert.Equal(t, Deny, decide(models.MembershipRole("superuser"), action))
	}
}

func TestNilIdentityDenied(t *testing.T) {
	engine := NewEngine(newFakeDirectory())
	decision, err := engine.Evaluate(nil, ActionRead, OrganizationScope(uuid.New()))
	assert.NoError(t, err)
	assert.Equal(t, Deny, decision)
}

func TestStoreFailureSurfacesAsDenyWithError(t *testing.T) {
	dir := newFakeDirectory()
	dir.failWith = errors.New("connection refused")
	engine := NewEngine(dir)

	decision, err := engine.Evaluate(identity(false), ActionRead, OrganizationScope(uuid.New()))
	assert.Error(t, err)
	assert.Equal(t, Deny, decision)
}

func TestCanCreateOrganization(t *testing.T) {
	engine := NewEngine(newFakeDirectory())
	assert.True(t, engine.CanCreateOrganization(identity(false)))
	assert.True(t, engine.CanCreateOrganization(identity(true)))
	assert.False(t, engine.CanCreateOrganization(nil))
}

func TestReadableOrganizations(t *testing.T) {
	dir := newFakeDirectory()
	engine := NewEngine(dir)

	actor := identity(false)
	org1 := uuid.New()
	org2 := uuid.New()
	dir.grant(org1, actor.ID, models.RoleMember)
	dir.grant(org2, actor.ID, models.RoleClient)
	dir.grant(uuid.New(), uuid.New(), models.RoleOwner) // unrelated tenant

	ids, all, err := engine.ReadableOrganizations(actor)
	assert.NoError(t, err)
	assert.False(t, all)
	assert.ElementsMatch(t, []uuid.UUID{org1, org2}, ids)
}

func TestReadableOrganizationsOperator(t *testing.T) {
	engine := NewEngine(newFakeDirectory())
	ids, all, err := engine.ReadableOrganizations(identity(true))
	assert.NoError(t, err)
	assert.True(t, all)
	assert.Nil(t, ids)
}

func TestScopeString(t *testing.T) {
	assert.Equal(t, "platform", PlatformScope().String())
	orgID := uuid.New()
	assert.Equal(t, orgID.String(), OrganizationScope(orgID).String())
	assert.True(t, PlatformScope().IsPlatform())
	assert.False(t, OrganizationScope(orgID).IsPlatform())
}
