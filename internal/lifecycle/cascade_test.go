//go:build integration
// +build integration

package lifecycle

import (
	"context"
	"testing"

	"clientdesk-backend/internal/database/models"
	apperrors "clientdesk-backend/internal/errors"
	"clientdesk-backend/internal/policy"
	"clientdesk-backend/internal/repository"
	"clientdesk-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// CascadeManagerTestSuite tests organization teardown against a real database
type CascadeManagerTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	manager       *CascadeManager
	factories     *testutils.FactorySet
}

// SetupSuite runs before all tests in the suite
func (suite *CascadeManagerTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())

	membershipRepo := repository.NewMembershipRepository(suite.baseTestSuite.DB)
	engine := policy.NewEngine(membershipRepo)
	suite.manager = NewCascadeManager(suite.baseTestSuite.DB, engine)
	suite.factories = testutils.NewFactorySet()
}

// TearDownSuite runs after all tests in the suite
func (suite *CascadeManagerTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *CascadeManagerTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *CascadeManagerTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// seedTenant persists a full tenant graph and returns the organization, its
// owner identity, and the line item hanging off the invoice.
func (suite *CascadeManagerTestSuite) seedTenant() (*models.Organization, *models.Identity) {
	db := suite.baseTestSuite.DB

	org, owner, membership, client, project, task, invoice := suite.factories.CreateFullTenantGraph()
	suite.NoError(db.Create(owner).Error)
	suite.NoError(db.Create(org).Error)
	suite.NoError(db.Create(membership).Error)
	suite.NoError(db.Create(client).Error)
	suite.NoError(db.Create(project).Error)
	suite.NoError(db.Create(task).Error)
	suite.NoError(db.Create(invoice).Error)
	suite.NoError(db.Create(suite.factories.LineItem.Create(org.ID, invoice.ID)).Error)
	suite.NoError(db.Create(suite.factories.Attachment.Create(org.ID, task.ID)).Error)

	return org, owner
}

func (suite *CascadeManagerTestSuite) countRows(model interface{}, orgID uuid.UUID) int64 {
	var count int64
	suite.NoError(suite.baseTestSuite.DB.Model(model).
		Where("organization_id = ?", orgID).Count(&count).Error)
	return count
}

// TestDeleteLeavesNoSurvivors tests that after a delete no entity type
// returns a row for the removed organization
func (suite *CascadeManagerTestSuite) TestDeleteLeavesNoSurvivors() {
	org, owner := suite.seedTenant()

	err := suite.manager.DeleteOrganization(context.Background(), owner, org.ID)
	suite.NoError(err)

	var orgCount int64
	suite.NoError(suite.baseTestSuite.DB.Model(&models.Organization{}).
		Where("id = ?", org.ID).Count(&orgCount).Error)
	suite.Equal(int64(0), orgCount)

	for _, model := range []interface{}{
		&models.Membership{},
		&models.Client{},
		&models.Project{},
		&models.Task{},
		&models.Invoice{},
		&models.InvoiceLineItem{},
		&models.Attachment{},
	} {
		suite.Equal(int64(0), suite.countRows(model, org.ID))
	}
}

// TestDeleteDoesNotTouchOtherTenants tests that a delete in one organization
// leaves a sibling tenant's graph intact
func (suite *CascadeManagerTestSuite) TestDeleteDoesNotTouchOtherTenants() {
	doomed, owner := suite.seedTenant()
	survivor, _ := suite.seedTenant()

	suite.NoError(suite.manager.DeleteOrganization(context.Background(), owner, doomed.ID))

	suite.Equal(int64(1), suite.countRows(&models.Client{}, survivor.ID))
	suite.Equal(int64(1), suite.countRows(&models.Project{}, survivor.ID))
	suite.Equal(int64(1), suite.countRows(&models.Task{}, survivor.ID))
	suite.Equal(int64(1), suite.countRows(&models.Invoice{}, survivor.ID))
	suite.Equal(int64(1), suite.countRows(&models.InvoiceLineItem{}, survivor.ID))
	suite.Equal(int64(1), suite.countRows(&models.Attachment{}, survivor.ID))
}

// TestDeleteForbiddenForMember tests that a plain member cannot tear down
// the organization, and that nothing is removed on the denied attempt
func (suite *CascadeManagerTestSuite) TestDeleteForbiddenForMember() {
	org, _ := suite.seedTenant()
	db := suite.baseTestSuite.DB

	member := suite.factories.Identity.Create()
	suite.NoError(db.Create(member).Error)
	suite.NoError(db.Create(suite.factories.Membership.Create(org.ID, member.ID, models.RoleMember)).Error)

	err := suite.manager.DeleteOrganization(context.Background(), member, org.ID)
	suite.Error(err)
	suite.True(apperrors.IsForbidden(err))

	var orgCount int64
	suite.NoError(db.Model(&models.Organization{}).Where("id = ?", org.ID).Count(&orgCount).Error)
	suite.Equal(int64(1), orgCount)
}

// TestDeleteForbiddenForOutsider tests that an identity with no membership
// gets Forbidden, not NotFound, for an organization that exists
func (suite *CascadeManagerTestSuite) TestDeleteForbiddenForOutsider() {
	org, _ := suite.seedTenant()

	outsider := suite.factories.Identity.Create()
	suite.NoError(suite.baseTestSuite.DB.Create(outsider).Error)

	err := suite.manager.DeleteOrganization(context.Background(), outsider, org.ID)
	suite.True(apperrors.IsForbidden(err))
}

// TestDeleteAllowedForOperator tests the platform-operator bypass
func (suite *CascadeManagerTestSuite) TestDeleteAllowedForOperator() {
	org, _ := suite.seedTenant()

	operator := suite.factories.Identity.Operator()
	suite.NoError(suite.baseTestSuite.DB.Create(operator).Error)

	suite.NoError(suite.manager.DeleteOrganization(context.Background(), operator, org.ID))
}

// TestDeleteMissingOrganization tests the not-found path
func (suite *CascadeManagerTestSuite) TestDeleteMissingOrganization() {
	_, owner := suite.seedTenant()

	err := suite.manager.DeleteOrganization(context.Background(), owner, uuid.New())
	suite.ErrorIs(err, apperrors.ErrOrganizationNotFound)
}

// TestCascadeManagerTestSuite runs the test suite
func TestCascadeManagerTestSuite(t *testing.T) {
	suite.Run(t, new(CascadeManagerTestSuite))
}
