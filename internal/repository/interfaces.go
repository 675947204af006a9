package repository

import (
	"clientdesk-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// IdentityRepositoryInterface defines the interface for identity repository operations
type IdentityRepositoryInterface interface {
	Create(identity *models.Identity) error
	GetByID(id uuid.UUID) (*models.Identity, error)
	GetByEmail(email string) (*models.Identity, error)
	Update(identity *models.Identity) error
	Delete(id uuid.UUID) error
}

// OrganizationRepositoryInterface defines the interface for organization repository operations
type OrganizationRepositoryInterface interface {
	Create(org *models.Organization) error
	CreateWithOwner(org *models.Organization, ownerIdentityID uuid.UUID) error
	GetByID(id uuid.UUID) (*models.Organization, error)
	GetByName(name string) (*models.Organization, error)
	GetBySlug(slug string) (*models.Organization, error)
	ListScoped(orgIDs []uuid.UUID, all bool, limit, offset int) ([]models.Organization, int64, error)
	Update(org *models.Organization) error
}

// MembershipRepositoryInterface defines the interface for membership repository operations.
// It doubles as the policy engine's membership directory.
type MembershipRepositoryInterface interface {
	Create(membership *models.Membership) error
	CreateWithIdentity(identity *models.Identity, membership *models.Membership) error
	GetByID(id uuid.UUID) (*models.Membership, error)
	GetByOrganizationAndIdentity(orgID, identityID uuid.UUID) (*models.Membership, error)
	GetOrganizationIDs(identityID uuid.UUID) ([]uuid.UUID, error)
	ListByOrganization(orgID uuid.UUID, limit, offset int) ([]models.Membership, int64, error)
	UpdateRole(id uuid.UUID, role models.MembershipRole) error
	Delete(id uuid.UUID) error
}

// ClientRepositoryInterface defines the interface for client repository operations
type ClientRepositoryInterface interface {
	Create(client *models.Client) error
	GetByID(id uuid.UUID) (*models.Client, error)
	ListByOrganization(orgID uuid.UUID, limit, offset int) ([]models.Client, int64, error)
	CountScoped(orgIDs []uuid.UUID, all bool) (int64, error)
	Update(client *models.Client) error
	Delete(id uuid.UUID) error
}

// ProjectRepositoryInterface defines the interface for project repository operations
type ProjectRepositoryInterface interface {
	Create(project *models.Project) error
	GetByID(id uuid.UUID) (*models.Project, error)
	ListByOrganization(orgID uuid.UUID, limit, offset int) ([]models.Project, int64, error)
	ListByClient(clientID uuid.UUID, limit, offset int) ([]models.Project, int64, error)
	CountScoped(orgIDs []uuid.UUID, all bool) (int64, error)
	Update(project *models.Project) error
	Delete(id uuid.UUID) error
}

// TaskRepositoryInterface defines the interface for task repository operations
type TaskRepositoryInterface interface {
	Create(task *models.Task) error
	GetByID(id uuid.UUID) (*models.Task, error)
	ListByProject(projectID uuid.UUID, limit, offset int) ([]models.Task, int64, error)
	CountScoped(orgIDs []uuid.UUID, all bool) (int64, error)
	Update(task *models.Task) error
	Delete(id uuid.UUID) error
}

// InvoiceRepositoryInterface defines the interface for invoice and line item repository operations
type InvoiceRepositoryInterface interface {
	Create(invoice *models.Invoice) error
	GetByID(id uuid.UUID) (*models.Invoice, error)
	GetByOrganizationAndNumber(orgID uuid.UUID, number string) (*models.Invoice, error)
	GetWithLineItems(id uuid.UUID) (*models.Invoice, error)
	ListByOrganization(orgID uuid.UUID, limit, offset int) ([]models.Invoice, int64, error)
	CountScoped(orgIDs []uuid.UUID, all bool) (int64, error)
	Update(invoice *models.Invoice) error
	Delete(id uuid.UUID) error
	CreateLineItem(item *models.InvoiceLineItem) error
	GetLineItemByID(id uuid.UUID) (*models.InvoiceLineItem, error)
	ListLineItems(invoiceID uuid.UUID) ([]models.InvoiceLineItem, error)
	DeleteLineItem(id uuid.UUID) error
}

// AttachmentRepositoryInterface defines the interface for attachment repository operations
type AttachmentRepositoryInterface interface {
	Create(attachment *models.Attachment) error
	GetByID(id uuid.UUID) (*models.Attachment, error)
	ListByTask(taskID uuid.UUID) ([]models.Attachment, error)
	Delete(id uuid.UUID) error
}
