package auth_test

import (
	"testing"
	"time"

	"clientdesk-backend/internal/auth"
	"clientdesk-backend/internal/database/models"
	apperrors "clientdesk-backend/internal/errors"
	"clientdesk-backend/internal/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthServiceTestSuite defines the test suite for the auth Service
type AuthServiceTestSuite struct {
	suite.Suite
	ctrl             *gomock.Controller
	mockIdentityRepo *mocks.MockIdentityRepositoryInterface
	authService      *auth.Service
}

// SetupTest sets up the test suite
func (suite *AuthServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockIdentityRepo = mocks.NewMockIdentityRepositoryInterface(suite.ctrl)
	suite.authService = auth.NewService(suite.mockIdentityRepo, "test-secret", time.Hour)
}

// TearDownTest cleans up after each test
func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func hashed(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

// TestLoginIssuesValidToken tests the full login/validate round trip
func (suite *AuthServiceTestSuite) TestLoginIssuesValidToken() {
	identity := &models.Identity{Email: "alice@acme.test", PasswordHash: hashed("correct-horse")}
	identity.ID = uuid.New()

	suite.mockIdentityRepo.EXPECT().
		GetByEmail("alice@acme.test").
		Return(identity, nil).
		Times(1)

	resp, err := suite.authService.Login("alice@acme.test", "correct-horse")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "bearer", resp.TokenType)

	claims, err := suite.authService.ValidateJWT(resp.AccessToken)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), identity.ID, claims.IdentityID)
	assert.Equal(suite.T(), "alice@acme.test", claims.Email)
}

// TestLoginWrongPassword tests that a wrong password is rejected
func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	identity := &models.Identity{Email: "alice@acme.test", PasswordHash: hashed("correct-horse")}
	identity.ID = uuid.New()

	suite.mockIdentityRepo.EXPECT().
		GetByEmail("alice@acme.test").
		Return(identity, nil).
		Times(1)

	_, err := suite.authService.Login("alice@acme.test", "wrong")

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsAuthentication(err))
}

// TestLoginUnknownEmail tests that an unknown email gets the same error as a
// wrong password
func (suite *AuthServiceTestSuite) TestLoginUnknownEmail() {
	suite.mockIdentityRepo.EXPECT().
		GetByEmail("nobody@acme.test").
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)

	_, err := suite.authService.Login("nobody@acme.test", "whatever")

	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidCredentials)
}

// TestLoginBlockedUntilReset tests that a provisioned identity must reset its
// temporary credential before its first real login
func (suite *AuthServiceTestSuite) TestLoginBlockedUntilReset() {
	identity := &models.Identity{
		Email:                 "carol@acme.test",
		PasswordHash:          hashed("temp-credential"),
		RequiresPasswordReset: true,
	}
	identity.ID = uuid.New()

	suite.mockIdentityRepo.EXPECT().
		GetByEmail("carol@acme.test").
		Return(identity, nil).
		Times(1)

	_, err := suite.authService.Login("carol@acme.test", "temp-credential")

	assert.ErrorIs(suite.T(), err, apperrors.ErrPasswordResetDue)
}

// TestResetPasswordClearsFlag tests the reset flow
func (suite *AuthServiceTestSuite) TestResetPasswordClearsFlag() {
	identity := &models.Identity{
		Email:                 "carol@acme.test",
		PasswordHash:          hashed("temp-credential"),
		RequiresPasswordReset: true,
	}
	identity.ID = uuid.New()

	suite.mockIdentityRepo.EXPECT().
		GetByEmail("carol@acme.test").
		Return(identity, nil).
		Times(1)
	suite.mockIdentityRepo.EXPECT().
		Update(gomock.Any()).
		DoAndReturn(func(updated *models.Identity) error {
			assert.False(suite.T(), updated.RequiresPasswordReset)
			assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("a-real-password")))
			return nil
		}).
		Times(1)

	err := suite.authService.ResetPassword("carol@acme.test", "temp-credential", "a-real-password")

	assert.NoError(suite.T(), err)
}

// TestResetPasswordTooShort tests the minimum length rule
func (suite *AuthServiceTestSuite) TestResetPasswordTooShort() {
	err := suite.authService.ResetPassword("carol@acme.test", "temp-credential", "short")

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsValidation(err))
}

// TestValidateJWTRejectsGarbage tests token validation failure
func (suite *AuthServiceTestSuite) TestValidateJWTRejectsGarbage() {
	_, err := suite.authService.ValidateJWT("not-a-token")

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsAuthentication(err))
}

// TestAuthServiceTestSuite runs the test suite
func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
