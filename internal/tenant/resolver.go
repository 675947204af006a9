package tenant

import (
	"errors"
	"fmt"

	apperrors "clientdesk-backend/internal/errors"
	"clientdesk-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind identifies the entity type of a record reference
type Kind string

const (
	KindOrganization Kind = "organization"
	KindClient       Kind = "client"
	KindProject      Kind = "project"
	KindTask         Kind = "task"
	KindInvoice      Kind = "invoice"
	KindLineItem     Kind = "invoice_line_item"
	KindAttachment   Kind = "attachment"
)

// RecordRef points at one record of a known kind
type RecordRef struct {
	Kind Kind
	ID   uuid.UUID
}

// Resolver derives the organization a record belongs to. Children (line
// items, attachments) resolve through their parent, so a record can never be
// tagged into a different tenant than the graph it hangs off.
type Resolver struct {
	organizations repository.OrganizationRepositoryInterface
	clients       repository.ClientRepositoryInterface
	projects      repository.ProjectRepositoryInterface
	tasks         repository.TaskRepositoryInterface
	invoices      repository.InvoiceRepositoryInterface
	attachments   repository.AttachmentRepositoryInterface
}

// NewResolver creates a tenant scope resolver over the entity repositories
func NewResolver(
	organizations repository.OrganizationRepositoryInterface,
	clients repository.ClientRepositoryInterface,
	projects repository.ProjectRepositoryInterface,
	tasks repository.TaskRepositoryInterface,
	invoices repository.InvoiceRepositoryInterface,
	attachments repository.AttachmentRepositoryInterface,
) *Resolver {
	return &Resolver{
		organizations: organizations,
		clients:       clients,
		projects:      projects,
		tasks:         tasks,
		invoices:      invoices,
		attachments:   attachments,
	}
}

// Resolve returns the organization the referenced record belongs to, or a
// NotFoundError if the record (or, for children, its parent) does not exist.
func (r *Resolver) Resolve(ref RecordRef) (uuid.UUID, error) {
	switch ref.Kind {
	case KindOrganization:
		org, err := r.organizations.GetByID(ref.ID)
		if err != nil {
			return uuid.Nil, notFound(err, apperrors.ErrOrganizationNotFound)
		}
		return org.ID, nil

	case KindClient:
		client, err := r.clients.GetByID(ref.ID)
		if err != nil {
			return uuid.Nil, notFound(err, apperrors.ErrClientNotFound)
		}
		return client.OrganizationID, nil

	case KindProject:
		project, err := r.projects.GetByID(ref.ID)
		if err != nil {
			return uuid.Nil, notFound(err, apperrors.ErrProjectNotFound)
		}
		return project.OrganizationID, nil

	case KindTask:
		task, err := r.tasks.GetByID(ref.ID)
		if err != nil {
			return uuid.Nil, notFound(err, apperrors.ErrTaskNotFound)
		}
		return task.OrganizationID, nil

	case KindInvoice:
		invoice, err := r.invoices.GetByID(ref.ID)
		if err != nil {
			return uuid.Nil, notFound(err, apperrors.ErrInvoiceNotFound)
		}
		return invoice.OrganizationID, nil

	case KindLineItem:
		item, err := r.invoices.GetLineItemByID(ref.ID)
		if err != nil {
			return uuid.Nil, notFound(err, apperrors.ErrLineItemNotFound)
		}
		// Children resolve through the parent, not their own column.
		return r.Resolve(RecordRef{Kind: KindInvoice, ID: item.InvoiceID})

	case KindAttachment:
		attachment, err := r.attachments.GetByID(ref.ID)
		if err != nil {
			return uuid.Nil, notFound(err, apperrors.ErrAttachmentNotFound)
		}
		return r.Resolve(RecordRef{Kind: KindTask, ID: attachment.TaskID})

	default:
		return uuid.Nil, fmt.Errorf("unknown record kind %q", ref.Kind)
	}
}

// ResolveForChild resolves the parent's organization for a proposed child
// record. A declared organization that disagrees with the parent's resolved
// one is rejected as inconsistent, never silently corrected.
func (r *Resolver) ResolveForChild(parent RecordRef, declared uuid.UUID, childEntity string) (uuid.UUID, error) {
	resolved, err := r.Resolve(parent)
	if err != nil {
		return uuid.Nil, err
	}
	if declared != uuid.Nil && declared != resolved {
		return uuid.Nil, apperrors.NewInconsistentTenantError(childEntity)
	}
	return resolved, nil
}

func notFound(err error, kind error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return kind
	}
	return fmt.Errorf("failed to resolve tenant: %w", err)
}
