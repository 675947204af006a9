package auth

import (
	"errors"
	"fmt"
	"time"

	"clientdesk-backend/internal/database/models"
	apperrors "clientdesk-backend/internal/errors"
	"clientdesk-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 10

// Claims represents JWT token claims
type Claims struct {
	IdentityID uuid.UUID `json:"identity_id"`
	Email      string    `json:"email"`
	jwt.RegisteredClaims
}

// Service provides password authentication and JWT issuance. It carries no
// authorization logic; the policy engine decides what an authenticated
// identity may do.
type Service struct {
	identities repository.IdentityRepositoryInterface
	secret     []byte
	expiry     time.Duration
}

// NewService creates a new authentication service
func NewService(identities repository.IdentityRepositoryInterface, secret string, expiry time.Duration) *Service {
	return &Service{
		identities: identities,
		secret:     []byte(secret),
		expiry:     expiry,
	}
}

// LoginResponse represents the response for a successful login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login verifies the credentials and issues a JWT. An identity still holding
// its provisioned temporary credential must reset it before logging in.
func (s *Service) Login(email, password string) (*LoginResponse, error) {
	identity, err := s.identities.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if identity.RequiresPasswordReset {
		return nil, apperrors.ErrPasswordResetDue
	}

	token, err := s.issueToken(identity)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.expiry.Seconds()),
	}, nil
}

// ResetPassword replaces the current credential with a new one. This is how a
// provisioned identity turns its temporary credential into a real password.
func (s *Service) ResetPassword(email, current, next string) error {
	if len(next) < minPasswordLength {
		return apperrors.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	identity, err := s.identities.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidCredentials
		}
		return fmt.Errorf("failed to look up identity: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(current)); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	identity.PasswordHash = string(hash)
	identity.RequiresPasswordReset = false

	if err := s.identities.Update(identity); err != nil {
		return fmt.Errorf("failed to update identity: %w", err)
	}
	return nil
}

// ValidateJWT parses and validates a token, returning its claims
func (s *Service) ValidateJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperrors.NewAuthenticationError(fmt.Sprintf("invalid token: %v", err))
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.NewAuthenticationError("invalid token claims")
	}
	return claims, nil
}

// LoadIdentity fetches the current identity record for validated claims.
// Role and operator state are read fresh from the store on every request,
// never trusted from the token.
func (s *Service) LoadIdentity(claims *Claims) (*models.Identity, error) {
	identity, err := s.identities.GetByID(claims.IdentityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAuthenticationError("identity no longer exists")
		}
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}
	return identity, nil
}

func (s *Service) issueToken(identity *models.Identity) (string, error) {
	now := time.Now()
	claims := &Claims{
		IdentityID: identity.ID,
		Email:      identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "clientdesk-backend",
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
