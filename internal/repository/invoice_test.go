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

// InvoiceRepositoryTestSuite tests the InvoiceRepository
type InvoiceRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *InvoiceRepository
	orgRepo       *OrganizationRepository
	clientRepo    *ClientRepository
	factories     *testutils.FactorySet
}

// SetupSuite runs before all tests in the suite
func (suite *InvoiceRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())

	suite.repo = NewInvoiceRepository(suite.baseTestSuite.DB)
	suite.orgRepo = NewOrganizationRepository(suite.baseTestSuite.DB)
	suite.clientRepo = NewClientRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

// TearDownSuite runs after all tests in the suite
func (suite *InvoiceRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *InvoiceRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *InvoiceRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func (suite *InvoiceRepositoryTestSuite) createOrgAndClient() (*models.Organization, *models.Client) {
	org := suite.factories.Organization.Create()
	suite.NoError(suite.orgRepo.Create(org))

	client := suite.factories.Client.Create(org.ID)
	suite.NoError(suite.clientRepo.Create(client))

	return org, client
}

// TestNumberUniquePerOrganization tests that the invoice number constraint is
// scoped to the organization: a reused number collides inside one tenant but
// is free in another.
func (suite *InvoiceRepositoryTestSuite) TestNumberUniquePerOrganization() {
	orgA, clientA := suite.createOrgAndClient()
	orgB, clientB := suite.createOrgAndClient()

	suite.NoError(suite.repo.Create(suite.factories.Invoice.WithNumber(orgA.ID, clientA.ID, "INV-2026-001")))

	// Same number in the same organization collides
	err := suite.repo.Create(suite.factories.Invoice.WithNumber(orgA.ID, clientA.ID, "INV-2026-001"))
	suite.Error(err)
	suite.Contains(err.Error(), "duplicate key value")

	// Same number in a different organization is fine
	suite.NoError(suite.repo.Create(suite.factories.Invoice.WithNumber(orgB.ID, clientB.ID, "INV-2026-001")))
}

// TestGetWithLineItems tests that line items come back with the invoice
func (suite *InvoiceRepositoryTestSuite) TestGetWithLineItems() {
	org, client := suite.createOrgAndClient()

	invoice := suite.factories.Invoice.Create(org.ID, client.ID)
	suite.NoError(suite.repo.Create(invoice))

	item := suite.factories.LineItem.Create(org.ID, invoice.ID)
	item.Quantity = 5
	item.UnitPriceCents = 2500
	suite.NoError(suite.repo.CreateLineItem(item))

	loaded, err := suite.repo.GetWithLineItems(invoice.ID)
	suite.NoError(err)
	suite.Require().Len(loaded.LineItems, 1)
	suite.Equal(5, loaded.LineItems[0].Quantity)
	suite.Equal(int64(2500), loaded.LineItems[0].UnitPriceCents)
}

// TestGetByOrganizationAndNumber tests number lookup within a tenant
func (suite *InvoiceRepositoryTestSuite) TestGetByOrganizationAndNumber() {
	org, client := suite.createOrgAndClient()

	invoice := suite.factories.Invoice.WithNumber(org.ID, client.ID, "INV-42")
	suite.NoError(suite.repo.Create(invoice))

	found, err := suite.repo.GetByOrganizationAndNumber(org.ID, "INV-42")
	suite.NoError(err)
	suite.Equal(invoice.ID, found.ID)
}

// TestCountScoped tests the aggregate scope filter
func (suite *InvoiceRepositoryTestSuite) TestCountScoped() {
	orgA, clientA := suite.createOrgAndClient()
	orgB, clientB := suite.createOrgAndClient()

	suite.NoError(suite.repo.Create(suite.factories.Invoice.Create(orgA.ID, clientA.ID)))
	suite.NoError(suite.repo.Create(suite.factories.Invoice.Create(orgA.ID, clientA.ID)))
	suite.NoError(suite.repo.Create(suite.factories.Invoice.Create(orgB.ID, clientB.ID)))

	scoped, err := suite.repo.CountScoped([]uuid.UUID{orgA.ID}, false)
	suite.NoError(err)
	suite.Equal(int64(2), scoped)

	all, err := suite.repo.CountScoped(nil, true)
	suite.NoError(err)
	suite.Equal(int64(3), all)
}

// TestInvoiceRepositoryTestSuite runs the test suite
func TestInvoiceRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceRepositoryTestSuite))
}
