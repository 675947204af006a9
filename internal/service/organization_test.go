package service_test

import (
	"testing"

	"clientdesk-backend/internal/database/models"
	apperrors "clientdesk-backend/internal/errors"
	"clientdesk-backend/internal/mocks"
	"clientdesk-backend/internal/policy"
	"clientdesk-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// OrganizationServiceTestSuite defines the test suite for OrganizationService
type OrganizationServiceTestSuite struct {
	suite.Suite
	ctrl                *gomock.Controller
	mockOrgRepo         *mocks.MockOrganizationRepositoryInterface
	mockMembershipRepo  *mocks.MockMembershipRepositoryInterface
	organizationService *service.OrganizationService
}

// SetupTest sets up the test suite
func (suite *OrganizationServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockOrgRepo = mocks.NewMockOrganizationRepositoryInterface(suite.ctrl)
	suite.mockMembershipRepo = mocks.NewMockMembershipRepositoryInterface(suite.ctrl)

	engine := policy.NewEngine(suite.mockMembershipRepo)
	suite.organizationService = service.NewOrganizationService(
		suite.mockOrgRepo, engine, nil, validator.New())
}

// TearDownTest cleans up after each test
func (suite *OrganizationServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func identity(email string) *models.Identity {
	id := &models.Identity{Email: email}
	id.ID = uuid.New()
	return id
}

// TestCreateGrantsOwnerMembership tests that creating an organization goes
// through the transactional create-with-owner path
func (suite *OrganizationServiceTestSuite) TestCreateGrantsOwnerMembership() {
	actor := identity("alice@acme.test")

	suite.mockOrgRepo.EXPECT().
		CreateWithOwner(gomock.Any(), actor.ID).
		Return(nil).
		Times(1)

	resp, err := suite.organizationService.Create(actor, &service.CreateOrganizationRequest{
		Name: "Acme Consulting",
		Slug: "acme",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Acme Consulting", resp.Name)
	assert.Equal(suite.T(), "acme", resp.Slug)
}

// TestCreateDerivesSlugFromName tests that an omitted slug is derived from
// the organization name
func (suite *OrganizationServiceTestSuite) TestCreateDerivesSlugFromName() {
	actor := identity("alice@acme.test")

	suite.mockOrgRepo.EXPECT().
		CreateWithOwner(gomock.Any(), actor.ID).
		DoAndReturn(func(org *models.Organization, _ uuid.UUID) error {
			assert.Equal(suite.T(), "acme-design-studio", org.Slug)
			return nil
		}).
		Times(1)

	resp, err := suite.organizationService.Create(actor, &service.CreateOrganizationRequest{
		Name: "Acme Design  Studio!",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "acme-design-studio", resp.Slug)
}

// TestCreateRejectsMalformedSlug tests that a slug with characters unfit for
// a URL never reaches the repository
func (suite *OrganizationServiceTestSuite) TestCreateRejectsMalformedSlug() {
	actor := identity("alice@acme.test")

	for _, slug := range []string{"not url safe !!/??", "Acme", "acme--design", "-acme", "acme-"} {
		_, err := suite.organizationService.Create(actor, &service.CreateOrganizationRequest{
			Name: "Acme Consulting",
			Slug: slug,
		})

		assert.Error(suite.T(), err, "slug %q", slug)
		assert.True(suite.T(), apperrors.IsValidation(err), "slug %q", slug)
	}
}

// TestCreateDuplicateNameConflicts tests duplicate name/slug handling
func (suite *OrganizationServiceTestSuite) TestCreateDuplicateNameConflicts() {
	actor := identity("alice@acme.test")

	suite.mockOrgRepo.EXPECT().
		CreateWithOwner(gomock.Any(), actor.ID).
		Return(gorm.ErrDuplicatedKey).
		Times(1)

	_, err := suite.organizationService.Create(actor, &service.CreateOrganizationRequest{
		Name: "Acme Consulting",
		Slug: "acme",
	})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsConflict(err))
}

// TestCreateRequiresIdentity tests that an anonymous caller cannot create
func (suite *OrganizationServiceTestSuite) TestCreateRequiresIdentity() {
	_, err := suite.organizationService.Create(nil, &service.CreateOrganizationRequest{
		Name: "Acme Consulting",
		Slug: "acme",
	})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsForbidden(err))
}

// TestGetForbiddenForOutsider tests that a non-member cannot read an organization
func (suite *OrganizationServiceTestSuite) TestGetForbiddenForOutsider() {
	actor := identity("mallory@other.test")
	orgID := uuid.New()

	suite.mockMembershipRepo.EXPECT().
		GetByOrganizationAndIdentity(orgID, actor.ID).
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)

	_, err := suite.organizationService.Get(actor, orgID)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsForbidden(err))
}

// TestListPushesScopeIntoQuery tests that listing hands the caller's
// membership set to the repository instead of filtering in memory
func (suite *OrganizationServiceTestSuite) TestListPushesScopeIntoQuery() {
	actor := identity("alice@acme.test")
	memberOf := []uuid.UUID{uuid.New(), uuid.New()}

	suite.mockMembershipRepo.EXPECT().
		GetOrganizationIDs(actor.ID).
		Return(memberOf, nil).
		Times(1)
	suite.mockOrgRepo.EXPECT().
		ListScoped(memberOf, false, 50, 0).
		Return([]models.Organization{{Name: "Acme Consulting", Slug: "acme"}}, int64(1), nil).
		Times(1)

	resp, total, err := suite.organizationService.List(actor, 50, 0)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
	assert.Len(suite.T(), resp, 1)
}

// TestListOperatorSeesAll tests that a platform operator lists without a scope filter
func (suite *OrganizationServiceTestSuite) TestListOperatorSeesAll() {
	actor := identity("ops@platform.test")
	actor.PlatformOperator = true

	suite.mockOrgRepo.EXPECT().
		ListScoped(nil, true, 50, 0).
		Return([]models.Organization{}, int64(7), nil).
		Times(1)

	_, total, err := suite.organizationService.List(actor, 50, 0)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), total)
}

// TestUpdateForbiddenForMember tests that a plain member cannot rename
func (suite *OrganizationServiceTestSuite) TestUpdateForbiddenForMember() {
	actor := identity("bob@acme.test")
	orgID := uuid.New()

	suite.mockMembershipRepo.EXPECT().
		GetByOrganizationAndIdentity(orgID, actor.ID).
		Return(&models.Membership{OrganizationID: orgID, IdentityID: actor.ID, Role: models.RoleMember}, nil).
		Times(1)

	name := "Acme Renamed"
	_, err := suite.organizationService.Update(actor, orgID, &service.UpdateOrganizationRequest{Name: &name})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsForbidden(err))
}

// TestUpdateAllowedForOwner tests renaming as owner
func (suite *OrganizationServiceTestSuite) TestUpdateAllowedForOwner() {
	actor := identity("alice@acme.test")
	orgID := uuid.New()
	org := &models.Organization{Name: "Acme Consulting", Slug: "acme"}
	org.ID = orgID

	suite.mockMembershipRepo.EXPECT().
		GetByOrganizationAndIdentity(orgID, actor.ID).
		Return(&models.Membership{OrganizationID: orgID, IdentityID: actor.ID, Role: models.RoleOwner}, nil).
		Times(1)
	suite.mockOrgRepo.EXPECT().
		GetByID(orgID).
		Return(org, nil).
		Times(1)
	suite.mockOrgRepo.EXPECT().
		Update(gomock.Any()).
		Return(nil).
		Times(1)

	name := "Acme Renamed"
	resp, err := suite.organizationService.Update(actor, orgID, &service.UpdateOrganizationRequest{Name: &name})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Acme Renamed", resp.Name)
}

// TestOrganizationServiceTestSuite runs the test suite
func TestOrganizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationServiceTestSuite))
}
