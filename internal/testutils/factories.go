package testutils

import (
	"fmt"
	"time"

	"clientdesk-backend/internal/database/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// IdentityFactory provides methods to create test Identity data
type IdentityFactory struct{}

// NewIdentityFactory creates a new IdentityFactory
func NewIdentityFactory() *IdentityFactory {
	return &IdentityFactory{}
}

// Create creates a test Identity with default values. Each call gets a
// unique email so the unique index never trips across factory calls.
func (f *IdentityFactory) Create() *models.Identity {
	id := uuid.New()
	hash, _ := bcrypt.GenerateFromPassword([]byte("test-password"), bcrypt.MinCost)
	return &models.Identity{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Email:        fmt.Sprintf("user-%s@test.com", id.String()[:8]),
		PasswordHash: string(hash),
		FirstName:    "Jane",
		LastName:     "Doe",
	}
}

// WithEmail sets a custom email for the identity
func (f *IdentityFactory) WithEmail(email string) *models.Identity {
	identity := f.Create()
	identity.Email = email
	return identity
}

// Operator creates a platform-operator identity
func (f *IdentityFactory) Operator() *models.Identity {
	identity := f.Create()
	identity.PlatformOperator = true
	return identity
}

// OrganizationFactory provides methods to create test Organization data
type OrganizationFactory struct{}

// NewOrganizationFactory creates a new OrganizationFactory
func NewOrganizationFactory() *OrganizationFactory {
	return &OrganizationFactory{}
}

// Create creates a test Organization with default values
func (f *OrganizationFactory) Create() *models.Organization {
	id := uuid.New()
	return &models.Organization{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name: fmt.Sprintf("Test Organization %s", id.String()[:8]),
		Slug: fmt.Sprintf("test-org-%s", id.String()[:8]),
	}
}

// WithName sets a custom name and a matching slug
func (f *OrganizationFactory) WithName(name, slug string) *models.Organization {
	org := f.Create()
	org.Name = name
	org.Slug = slug
	return org
}

// MembershipFactory provides methods to create test Membership data
type MembershipFactory struct{}

// NewMembershipFactory creates a new MembershipFactory
func NewMembershipFactory() *MembershipFactory {
	return &MembershipFactory{}
}

// Create links an identity to an organization with the given role
func (f *MembershipFactory) Create(orgID, identityID uuid.UUID, role models.MembershipRole) *models.Membership {
	return &models.Membership{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OrganizationID: orgID,
		IdentityID:     identityID,
		Role:           role,
	}
}

// ClientFactory provides methods to create test Client data
type ClientFactory struct{}

// NewClientFactory creates a new ClientFactory
func NewClientFactory() *ClientFactory {
	return &ClientFactory{}
}

// Create creates a test Client within the given organization
func (f *ClientFactory) Create(orgID uuid.UUID) *models.Client {
	id := uuid.New()
	return &models.Client{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OrganizationID: orgID,
		CompanyName:    fmt.Sprintf("Test Client %s", id.String()[:8]),
		ContactName:    "John Smith",
		ContactEmail:   fmt.Sprintf("contact-%s@client.test", id.String()[:8]),
	}
}

// ProjectFactory provides methods to create test Project data
type ProjectFactory struct{}

// NewProjectFactory creates a new ProjectFactory
func NewProjectFactory() *ProjectFactory {
	return &ProjectFactory{}
}

// Create creates a test Project under the given client
func (f *ProjectFactory) Create(orgID, clientID uuid.UUID) *models.Project {
	id := uuid.New()
	return &models.Project{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OrganizationID: orgID,
		ClientID:       clientID,
		Name:           fmt.Sprintf("Test Project %s", id.String()[:8]),
		Status:         models.ProjectStatusActive,
	}
}

// TaskFactory provides methods to create test Task data
type TaskFactory struct{}

// NewTaskFactory creates a new TaskFactory
func NewTaskFactory() *TaskFactory {
	return &TaskFactory{}
}

// Create creates a test Task inside the given project
func (f *TaskFactory) Create(orgID, projectID uuid.UUID) *models.Task {
	id := uuid.New()
	return &models.Task{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OrganizationID: orgID,
		ProjectID:      projectID,
		Title:          fmt.Sprintf("Test Task %s", id.String()[:8]),
		Status:         models.TaskStatusTodo,
	}
}

// InvoiceFactory provides methods to create test Invoice data
type InvoiceFactory struct{}

// NewInvoiceFactory creates a new InvoiceFactory
func NewInvoiceFactory() *InvoiceFactory {
	return &InvoiceFactory{}
}

// Create creates a test Invoice for the given client
func (f *InvoiceFactory) Create(orgID, clientID uuid.UUID) *models.Invoice {
	id := uuid.New()
	return &models.Invoice{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OrganizationID: orgID,
		ClientID:       clientID,
		Number:         fmt.Sprintf("INV-%s", id.String()[:8]),
		Status:         models.InvoiceStatusDraft,
	}
}

// WithNumber sets a custom invoice number
func (f *InvoiceFactory) WithNumber(orgID, clientID uuid.UUID, number string) *models.Invoice {
	invoice := f.Create(orgID, clientID)
	invoice.Number = number
	return invoice
}

// LineItemFactory provides methods to create test InvoiceLineItem data
type LineItemFactory struct{}

// NewLineItemFactory creates a new LineItemFactory
func NewLineItemFactory() *LineItemFactory {
	return &LineItemFactory{}
}

// Create creates a test line item on the given invoice
func (f *LineItemFactory) Create(orgID, invoiceID uuid.UUID) *models.InvoiceLineItem {
	return &models.InvoiceLineItem{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		InvoiceID:      invoiceID,
		OrganizationID: orgID,
		Description:    "Consulting hours",
		Quantity:       1,
		UnitPriceCents: 10000,
	}
}

// AttachmentFactory provides methods to create test Attachment data
type AttachmentFactory struct{}

// NewAttachmentFactory creates a new AttachmentFactory
func NewAttachmentFactory() *AttachmentFactory {
	return &AttachmentFactory{}
}

// Create creates a test attachment record under the given task
func (f *AttachmentFactory) Create(orgID, taskID uuid.UUID) *models.Attachment {
	return &models.Attachment{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OrganizationID: orgID,
		TaskID:         taskID,
		FileName:       "statement-of-work.pdf",
		ContentType:    "application/pdf",
		ByteSize:       2048,
	}
}

// FactorySet provides access to all factories
type FactorySet struct {
	Identity     *IdentityFactory
	Organization *OrganizationFactory
	Membership   *MembershipFactory
	Client       *ClientFactory
	Project      *ProjectFactory
	Task         *TaskFactory
	Invoice      *InvoiceFactory
	LineItem     *LineItemFactory
	Attachment   *AttachmentFactory
}

// NewFactorySet creates a new FactorySet with all factories initialized
func NewFactorySet() *FactorySet {
	return &FactorySet{
		Identity:     NewIdentityFactory(),
		Organization: NewOrganizationFactory(),
		Membership:   NewMembershipFactory(),
		Client:       NewClientFactory(),
		Project:      NewProjectFactory(),
		Task:         NewTaskFactory(),
		Invoice:      NewInvoiceFactory(),
		LineItem:     NewLineItemFactory(),
		Attachment:   NewAttachmentFactory(),
	}
}

// CreateFullTenantGraph creates one organization populated with an owner
// identity, a client, a project, a task and an invoice. Callers persist the
// records themselves so tests can interleave their own fixtures.
func (fs *FactorySet) CreateFullTenantGraph() (*models.Organization, *models.Identity, *models.Membership, *models.Client, *models.Project, *models.Task, *models.Invoice) {
	org := fs.Organization.Create()
	owner := fs.Identity.Create()
	membership := fs.Membership.Create(org.ID, owner.ID, models.RoleOwner)
	client := fs.Client.Create(org.ID)
	project := fs.Project.Create(org.ID, client.ID)
	task := fs.Task.Create(org.ID, project.ID)
	invoice := fs.Invoice.Create(org.ID, client.ID)
	return org, owner, membership, client, project, task, invoice
}
