//go:build integration
// +build integration

package service_test

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"testing"

	"clientdesk-backend/internal/database/models"
	apperrors "clientdesk-backend/internal/errors"
	"clientdesk-backend/internal/lifecycle"
	"clientdesk-backend/internal/policy"
	"clientdesk-backend/internal/repository"
	"clientdesk-backend/internal/service"
	"clientdesk-backend/internal/tenant"
	"clientdesk-backend/internal/testutils"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
)

// TestMain ensures Docker cleanup for the integration run
func TestMain(m *testing.M) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Service tests interrupted, cleaning up Docker containers...")
		testutils.CleanupSharedContainer()
		os.Exit(1)
	}()

	code := m.Run()

	testutils.CleanupSharedContainer()
	os.Exit(code)
}

// TenancyTestSuite exercises the full service stack against a real database:
// two organizations, their owners, and the walls between them.
type TenancyTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	factories     *testutils.FactorySet

	organizations *service.OrganizationService
	invitations   *service.InvitationService
	clients       *service.ClientService
	projects      *service.ProjectService
	summaries     *service.SummaryService

	alice *models.Identity
	bob   *models.Identity
	acme  *service.OrganizationResponse
	beta  *service.OrganizationResponse
}

// SetupSuite runs before all tests in the suite
func (suite *TenancyTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.factories = testutils.NewFactorySet()

	db := suite.baseTestSuite.DB
	validate := validator.New()

	identityRepo := repository.NewIdentityRepository(db)
	organizationRepo := repository.NewOrganizationRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	clientRepo := repository.NewClientRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	engine := policy.NewEngine(membershipRepo)
	resolver := tenant.NewResolver(organizationRepo, clientRepo, projectRepo, taskRepo, invoiceRepo, attachmentRepo)
	cascade := lifecycle.NewCascadeManager(db, engine)

	suite.organizations = service.NewOrganizationService(organizationRepo, engine, cascade, validate)
	suite.invitations = service.NewInvitationService(identityRepo, membershipRepo, engine, service.NewLogNotifier(), validate)
	suite.clients = service.NewClientService(clientRepo, engine, validate)
	suite.projects = service.NewProjectService(projectRepo, resolver, engine, validate)
	suite.summaries = service.NewSummaryService(organizationRepo, clientRepo, projectRepo, taskRepo, invoiceRepo, engine)
}

// TearDownSuite runs after all tests in the suite
func (suite *TenancyTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest seeds Alice owning Acme and Bob owning Beta before each test
func (suite *TenancyTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()

	db := suite.baseTestSuite.DB

	suite.alice = suite.factories.Identity.WithEmail("alice@acme.test")
	suite.bob = suite.factories.Identity.WithEmail("bob@beta.test")
	suite.NoError(db.Create(suite.alice).Error)
	suite.NoError(db.Create(suite.bob).Error)

	var err error
	suite.acme, err = suite.organizations.Create(suite.alice, &service.CreateOrganizationRequest{
		Name: "Acme Design", Slug: "acme-design",
	})
	suite.Require().NoError(err)

	suite.beta, err = suite.organizations.Create(suite.bob, &service.CreateOrganizationRequest{
		Name: "Beta Studio", Slug: "beta-studio",
	})
	suite.Require().NoError(err)
}

// TearDownTest runs after each test
func (suite *TenancyTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// TestOutsiderCannotReadForeignTenant tests that Bob is denied on Acme's
// records even though they exist
func (suite *TenancyTestSuite) TestOutsiderCannotReadForeignTenant() {
	created, err := suite.clients.Create(suite.alice, suite.acme.ID, &service.CreateClientRequest{
		CompanyName: "Globex",
	})
	suite.Require().NoError(err)

	_, err = suite.clients.Get(suite.bob, created.ID)
	suite.True(apperrors.IsForbidden(err))

	_, _, err = suite.clients.List(suite.bob, suite.acme.ID, 50, 0)
	suite.True(apperrors.IsForbidden(err))
}

// TestListingsStayInsideOwnScope tests that each owner lists only their own
// organization
func (suite *TenancyTestSuite) TestListingsStayInsideOwnScope() {
	orgs, total, err := suite.organizations.List(suite.bob, 50, 0)
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(orgs, 1)
	suite.Equal(suite.beta.ID, orgs[0].ID)
}

// TestCrossTenantParentIsRejected tests that a project declared in Beta but
// pointing at an Acme client is rejected, not silently re-homed
func (suite *TenancyTestSuite) TestCrossTenantParentIsRejected() {
	acmeClient, err := suite.clients.Create(suite.alice, suite.acme.ID, &service.CreateClientRequest{
		CompanyName: "Globex",
	})
	suite.Require().NoError(err)

	_, err = suite.projects.Create(suite.bob, suite.beta.ID, &service.CreateProjectRequest{
		ClientID: acmeClient.ID,
		Name:     "Rebrand",
	})
	suite.True(apperrors.IsInconsistentTenant(err))

	// Nothing was written into either tenant
	_, total, err := suite.projects.List(suite.bob, suite.beta.ID, 50, 0)
	suite.NoError(err)
	suite.Equal(int64(0), total)
}

// TestInvitedClientRoleReadsButCannotWrite tests that inviting Bob into Acme
// as a client grants reads there without write access, and leaves Beta alone
func (suite *TenancyTestSuite) TestInvitedClientRoleReadsButCannotWrite() {
	acmeClient, err := suite.clients.Create(suite.alice, suite.acme.ID, &service.CreateClientRequest{
		CompanyName: "Globex",
	})
	suite.Require().NoError(err)

	invitation, err := suite.invitations.Invite(suite.alice, suite.acme.ID, &service.InviteRequest{
		Email: suite.bob.Email,
		Role:  models.RoleClient,
	})
	suite.Require().NoError(err)
	suite.False(invitation.IdentityCreated)

	// Bob can now read inside Acme
	_, err = suite.clients.Get(suite.bob, acmeClient.ID)
	suite.NoError(err)

	// But the client role cannot create records there
	_, err = suite.clients.Create(suite.bob, suite.acme.ID, &service.CreateClientRequest{
		CompanyName: "Initech",
	})
	suite.True(apperrors.IsForbidden(err))

	// And Bob's role in Beta is unchanged
	orgs, _, err := suite.organizations.List(suite.bob, 50, 0)
	suite.NoError(err)
	suite.Len(orgs, 2)
}

// TestRepeatInvitationConflicts tests that inviting the same email into the
// same organization twice yields a conflict, not a second membership
func (suite *TenancyTestSuite) TestRepeatInvitationConflicts() {
	req := &service.InviteRequest{Email: "carol@example.test", Role: models.RoleMember}

	first, err := suite.invitations.Invite(suite.alice, suite.acme.ID, req)
	suite.Require().NoError(err)
	suite.True(first.IdentityCreated)

	_, err = suite.invitations.Invite(suite.alice, suite.acme.ID, req)
	suite.True(apperrors.IsConflict(err))
}

// TestProvisionedIdentityMustResetBeforeUse tests that the identity minted by
// an invitation carries the forced-reset flag
func (suite *TenancyTestSuite) TestProvisionedIdentityMustResetBeforeUse() {
	_, err := suite.invitations.Invite(suite.alice, suite.acme.ID, &service.InviteRequest{
		Email: "dave@example.test", Role: models.RoleMember,
	})
	suite.Require().NoError(err)

	var identity models.Identity
	suite.NoError(suite.baseTestSuite.DB.First(&identity, "email = ?", "dave@example.test").Error)
	suite.True(identity.RequiresPasswordReset)
	suite.NotEmpty(identity.PasswordHash)
}

// TestSummaryCountsOnlyVisibleTenants tests that the aggregate view is
// scoped exactly like the listings
func (suite *TenancyTestSuite) TestSummaryCountsOnlyVisibleTenants() {
	_, err := suite.clients.Create(suite.alice, suite.acme.ID, &service.CreateClientRequest{
		CompanyName: "Globex",
	})
	suite.Require().NoError(err)

	aliceView, err := suite.summaries.Overview(suite.alice)
	suite.NoError(err)
	suite.Equal(int64(1), aliceView.Organizations)
	suite.Equal(int64(1), aliceView.Clients)

	bobView, err := suite.summaries.Overview(suite.bob)
	suite.NoError(err)
	suite.Equal(int64(1), bobView.Organizations)
	suite.Equal(int64(0), bobView.Clients)
}

// TestDeleteTenantThroughService tests the full teardown path from the
// organization service down to the cascade
func (suite *TenancyTestSuite) TestDeleteTenantThroughService() {
	created, err := suite.clients.Create(suite.alice, suite.acme.ID, &service.CreateClientRequest{
		CompanyName: "Globex",
	})
	suite.Require().NoError(err)

	suite.NoError(suite.organizations.Delete(context.Background(), suite.alice, suite.acme.ID))

	_, err = suite.organizations.Get(suite.alice, suite.acme.ID)
	suite.Error(err)

	var count int64
	suite.NoError(suite.baseTestSuite.DB.Model(&models.Client{}).
		Where("id = ?", created.ID).Count(&count).Error)
	suite.Equal(int64(0), count)
}

// TestTenancyTestSuite runs the test suite
func TestTenancyTestSuite(t *testing.T) {
	suite.Run(t, new(TenancyTestSuite))
}
