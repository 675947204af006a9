//go:build integration
// +build integration

package repository

import (
	"testing"

	"clientdesk-backend/internal/database/models"
	"clientdesk-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// OrganizationRepositoryTestSuite tests the OrganizationRepository
type OrganizationRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite  *testutils.BaseTestSuite
	repo           *OrganizationRepository
	identityRepo   *IdentityRepository
	membershipRepo *MembershipRepository
	factories      *testutils.FactorySet
}

// SetupSuite runs before all tests in the suite
func (suite *OrganizationRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())

	suite.repo = NewOrganizationRepository(suite.baseTestSuite.DB)
	suite.identityRepo = NewIdentityRepository(suite.baseTestSuite.DB)
	suite.membershipRepo = NewMembershipRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

// TearDownSuite runs after all tests in the suite
func (suite *OrganizationRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *OrganizationRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *OrganizationRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// TestCreateWithOwnerGrantsMembership tests that creating an organization
// through CreateWithOwner leaves the creator as owner in one step
func (suite *OrganizationRepositoryTestSuite) TestCreateWithOwnerGrantsMembership() {
	identity := suite.factories.Identity.Create()
	suite.NoError(suite.identityRepo.Create(identity))

	org := suite.factories.Organization.Create()
	err := suite.repo.CreateWithOwner(org, identity.ID)
	suite.NoError(err)
	suite.NotEqual(uuid.Nil, org.ID)

	membership, err := suite.membershipRepo.GetByOrganizationAndIdentity(org.ID, identity.ID)
	suite.NoError(err)
	suite.Equal(models.RoleOwner, membership.Role)
}

// TestCreateWithOwnerRollsBackOnDuplicateName tests that a name collision
// leaves neither the organization nor a stray membership behind
func (suite *OrganizationRepositoryTestSuite) TestCreateWithOwnerRollsBackOnDuplicateName() {
	identity := suite.factories.Identity.Create()
	suite.NoError(suite.identityRepo.Create(identity))

	first := suite.factories.Organization.WithName("Acme Design", "acme-design")
	suite.NoError(suite.repo.CreateWithOwner(first, identity.ID))

	second := suite.factories.Organization.WithName("Acme Design", "acme-design-2")
	err := suite.repo.CreateWithOwner(second, identity.ID)
	suite.Error(err)
	suite.Contains(err.Error(), "duplicate key value")

	ids, err := suite.membershipRepo.GetOrganizationIDs(identity.ID)
	suite.NoError(err)
	suite.Len(ids, 1)
}

// TestListScopedFiltersInQuery tests that the scope predicate is applied by
// the database, not after the fetch
func (suite *OrganizationRepositoryTestSuite) TestListScopedFiltersInQuery() {
	visible := suite.factories.Organization.Create()
	hidden := suite.factories.Organization.Create()
	suite.NoError(suite.repo.Create(visible))
	suite.NoError(suite.repo.Create(hidden))

	orgs, total, err := suite.repo.ListScoped([]uuid.UUID{visible.ID}, false, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(orgs, 1)
	suite.Equal(visible.ID, orgs[0].ID)
}

// TestListScopedEmptyScope tests that an identity with no memberships sees
// an empty page without touching the table
func (suite *OrganizationRepositoryTestSuite) TestListScopedEmptyScope() {
	suite.NoError(suite.repo.Create(suite.factories.Organization.Create()))

	orgs, total, err := suite.repo.ListScoped(nil, false, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(0), total)
	suite.Empty(orgs)
}

// TestListScopedAll tests the operator path that bypasses the scope filter
func (suite *OrganizationRepositoryTestSuite) TestListScopedAll() {
	suite.NoError(suite.repo.Create(suite.factories.Organization.Create()))
	suite.NoError(suite.repo.Create(suite.factories.Organization.Create()))

	orgs, total, err := suite.repo.ListScoped(nil, true, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(orgs, 2)
}

// TestGetBySlug tests slug lookup
func (suite *OrganizationRepositoryTestSuite) TestGetBySlug() {
	org := suite.factories.Organization.WithName("Beta Studio", "beta-studio")
	suite.NoError(suite.repo.Create(org))

	found, err := suite.repo.GetBySlug("beta-studio")
	suite.NoError(err)
	suite.Equal(org.ID, found.ID)
}

// TestOrganizationRepositoryTestSuite runs the test suite
func TestOrganizationRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationRepositoryTestSuite))
}
