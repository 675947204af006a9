package service

import (
	"clientdesk-backend/internal/database/models"
	"clientdesk-backend/internal/logger"

	"github.com/google/uuid"
)

//go:generate mockgen -source=notifier.go -destination=../mocks/notifier_mock.go -package=mocks

// InvitationNotifier delivers an invitation out of band. For a freshly
// provisioned identity the temporary credential travels only through this
// channel; it is never logged or returned over the API.
type InvitationNotifier interface {
	InvitationCreated(email string, orgID uuid.UUID, role models.MembershipRole, temporaryCredential string) error
}

// LogNotifier is the default notifier. It records that an invitation went out
// without the credential itself.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed invitation notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// InvitationCreated logs the invitation event
func (n *LogNotifier) InvitationCreated(email string, orgID uuid.UUID, role models.MembershipRole, temporaryCredential string) error {
	logger.New().WithFields(map[string]interface{}{
		"email":           email,
		"organization_id": orgID.String(),
		"role":            string(role),
		"credential_sent": temporaryCredential != "",
	}).Info("invitation created")
	return nil
}
