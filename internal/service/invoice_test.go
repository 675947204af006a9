package service_test

import (
	"testing"

	"clientdesk-backend/internal/database/models"
	apperrors "clientdesk-backend/internal/errors"
	"clientdesk-backend/internal/mocks"
	"clientdesk-backend/internal/policy"
	"clientdesk-backend/internal/service"
	"clientdesk-backend/internal/tenant"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// InvoiceServiceTestSuite defines the test suite for InvoiceService
type InvoiceServiceTestSuite struct {
	suite.Suite
	ctrl               *gomock.Controller
	mockInvoiceRepo    *mocks.MockInvoiceRepositoryInterface
	mockClientRepo     *mocks.MockClientRepositoryInterface
	mockMembershipRepo *mocks.MockMembershipRepositoryInterface
	invoiceService     *service.InvoiceService

	orgID uuid.UUID
	actor *models.Identity
}

// SetupTest sets up the test suite
func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockInvoiceRepo = mocks.NewMockInvoiceRepositoryInterface(suite.ctrl)
	suite.mockClientRepo = mocks.NewMockClientRepositoryInterface(suite.ctrl)
	suite.mockMembershipRepo = mocks.NewMockMembershipRepositoryInterface(suite.ctrl)

	resolver := tenant.NewResolver(
		mocks.NewMockOrganizationRepositoryInterface(suite.ctrl),
		suite.mockClientRepo,
		mocks.NewMockProjectRepositoryInterface(suite.ctrl),
		mocks.NewMockTaskRepositoryInterface(suite.ctrl),
		suite.mockInvoiceRepo,
		mocks.NewMockAttachmentRepositoryInterface(suite.ctrl),
	)
	engine := policy.NewEngine(suite.mockMembershipRepo)
	suite.invoiceService = service.NewInvoiceService(suite.mockInvoiceRepo, resolver, engine, validator.New())

	suite.orgID = uuid.New()
	suite.actor = identity("alice@acme.test")
}

// TearDownTest cleans up after each test
func (suite *InvoiceServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *InvoiceServiceTestSuite) expectRole(role models.MembershipRole) {
	suite.mockMembershipRepo.EXPECT().
		GetByOrganizationAndIdentity(suite.orgID, suite.actor.ID).
		Return(&models.Membership{OrganizationID: suite.orgID, IdentityID: suite.actor.ID, Role: role}, nil).
		Times(1)
}

// TestCreateForbiddenForMember tests that manage_invoices is required, which
// a plain member does not hold
func (suite *InvoiceServiceTestSuite) TestCreateForbiddenForMember() {
	suite.expectRole(models.RoleMember)

	_, err := suite.invoiceService.Create(suite.actor, suite.orgID, &service.CreateInvoiceRequest{
		ClientID: uuid.New(),
		Number:   "INV-001",
	})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsForbidden(err))
}

// TestCreateDuplicateNumberConflicts tests that the per-organization number
// uniqueness surfaces as a conflict
func (suite *InvoiceServiceTestSuite) TestCreateDuplicateNumberConflicts() {
	suite.expectRole(models.RoleAdmin)

	client := &models.Client{OrganizationID: suite.orgID, CompanyName: "Globex"}
	client.ID = uuid.New()
	suite.mockClientRepo.EXPECT().
		GetByID(client.ID).
		Return(client, nil).
		Times(1)
	suite.mockInvoiceRepo.EXPECT().
		Create(gomock.Any()).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "idx_invoices_org_number"}).
		Times(1)

	_, err := suite.invoiceService.Create(suite.actor, suite.orgID, &service.CreateInvoiceRequest{
		ClientID: client.ID,
		Number:   "INV-001",
	})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsConflict(err))
}

// TestAddLineItemInheritsTenant tests that a line item lands in the invoice's
// organization, resolved through the parent
func (suite *InvoiceServiceTestSuite) TestAddLineItemInheritsTenant() {
	invoice := &models.Invoice{OrganizationID: suite.orgID, ClientID: uuid.New(), Number: "INV-001"}
	invoice.ID = uuid.New()

	suite.mockInvoiceRepo.EXPECT().
		GetByID(invoice.ID).
		Return(invoice, nil).
		Times(1)
	suite.expectRole(models.RoleOwner)
	suite.mockInvoiceRepo.EXPECT().
		CreateLineItem(gomock.Any()).
		DoAndReturn(func(item *models.InvoiceLineItem) error {
			assert.Equal(suite.T(), suite.orgID, item.OrganizationID)
			assert.Equal(suite.T(), invoice.ID, item.InvoiceID)
			return nil
		}).
		Times(1)

	resp, err := suite.invoiceService.AddLineItem(suite.actor, invoice.ID, &service.CreateLineItemRequest{
		Description:    "Design work",
		Quantity:       10,
		UnitPriceCents: 15000,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(150000), resp.TotalCents)
}

// TestGetTotalsLineItems tests that the invoice total sums its lines
func (suite *InvoiceServiceTestSuite) TestGetTotalsLineItems() {
	invoice := &models.Invoice{
		OrganizationID: suite.orgID,
		ClientID:       uuid.New(),
		Number:         "INV-002",
		Status:         models.InvoiceStatusDraft,
		LineItems: []models.InvoiceLineItem{
			{Description: "Design work", Quantity: 2, UnitPriceCents: 5000},
			{Description: "Hosting", Quantity: 1, UnitPriceCents: 2500},
		},
	}
	invoice.ID = uuid.New()

	suite.mockInvoiceRepo.EXPECT().
		GetWithLineItems(invoice.ID).
		Return(invoice, nil).
		Times(1)
	suite.expectRole(models.RoleClient)

	resp, err := suite.invoiceService.Get(suite.actor, invoice.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(12500), resp.TotalCents)
	assert.Len(suite.T(), resp.LineItems, 2)
}

// TestRemoveLineItemFromWrongInvoiceNotFound tests that a line item is only
// addressable under its own invoice
func (suite *InvoiceServiceTestSuite) TestRemoveLineItemFromWrongInvoiceNotFound() {
	item := &models.InvoiceLineItem{InvoiceID: uuid.New(), OrganizationID: suite.orgID, Description: "Design work", Quantity: 1}
	item.ID = uuid.New()

	suite.mockInvoiceRepo.EXPECT().
		GetLineItemByID(item.ID).
		Return(item, nil).
		Times(1)

	err := suite.invoiceService.RemoveLineItem(suite.actor, uuid.New(), item.ID)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsNotFound(err))
}

// TestInvoiceServiceTestSuite runs the test suite
func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
