package service

import (
	"errors"
	"fmt"
	"time"

	"clientdesk-backend/internal/database/models"
	apperrors "clientdesk-backend/internal/errors"
	"clientdesk-backend/internal/policy"
	"clientdesk-backend/internal/repository"
	"clientdesk-backend/internal/tenant"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceService handles business logic for invoices and their line items
type InvoiceService struct {
	repo      repository.InvoiceRepositoryInterface
	resolver  *tenant.Resolver
	engine    *policy.Engine
	validator *validator.Validate
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	repo repository.InvoiceRepositoryInterface,
	resolver *tenant.Resolver,
	engine *policy.Engine,
	validator *validator.Validate,
) *InvoiceService {
	return &InvoiceService{
		repo:      repo,
		resolver:  resolver,
		engine:    engine,
		validator: validator,
	}
}

// CreateInvoiceRequest represents the data needed to create an invoice
type CreateInvoiceRequest struct {
	ClientID  uuid.UUID            `json:"client_id" validate:"required"`
	ProjectID *uuid.UUID           `json:"project_id"`
	Number    string               `json:"number" validate:"required,max=40"`
	Status    models.InvoiceStatus `json:"status"`
	IssuedOn  *time.Time           `json:"issued_on"`
	DueOn     *time.Time           `json:"due_on"`
}

// UpdateInvoiceRequest represents the data needed to update an invoice
type UpdateInvoiceRequest struct {
	Status   *models.InvoiceStatus `json:"status"`
	IssuedOn *time.Time            `json:"issued_on"`
	DueOn    *time.Time            `json:"due_on"`
}

// CreateLineItemRequest represents the data needed to add a line item
type CreateLineItemRequest struct {
	Description    string `json:"description" validate:"required,max=500"`
	Quantity       int    `json:"quantity" validate:"required,min=1"`
	UnitPriceCents int64  `json:"unit_price_cents" validate:"min=0"`
}

// LineItemResponse represents the response data for a line item
type LineItemResponse struct {
	ID             uuid.UUID `json:"id"`
	InvoiceID      uuid.UUID `json:"invoice_id"`
	Description    string    `json:"description"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	TotalCents     int64     `json:"total_cents"`
}

// InvoiceResponse represents the response data for an invoice
type InvoiceResponse struct {
	ID             uuid.UUID            `json:"id"`
	OrganizationID uuid.UUID            `json:"organization_id"`
	ClientID       uuid.UUID            `json:"client_id"`
	ProjectID      *uuid.UUID           `json:"project_id,omitempty"`
	Number         string               `json:"number"`
	Status         models.InvoiceStatus `json:"status"`
	IssuedOn       *time.Time           `json:"issued_on,omitempty"`
	DueOn          *time.Time           `json:"due_on,omitempty"`
	TotalCents     int64                `json:"total_cents"`
	LineItems      []LineItemResponse   `json:"line_items,omitempty"`
	CreatedAt      string               `json:"created_at"`
	UpdatedAt      string               `json:"updated_at"`
}

// Create creates a new invoice for a client. The invoice's organization is
// derived from the client; its number must be unique within that
// organization. Requires manage_invoices.
func (s *InvoiceService) Create(actor *models.Identity, orgID uuid.UUID, req *CreateInvoiceRequest) (*InvoiceResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	status := req.Status
	if status == "" {
		status = models.InvoiceStatusDraft
	}
	if !status.IsValid() {
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	if err := authorize(s.engine, actor, policy.ActionManageInvoices, orgID); err != nil {
		return nil, err
	}

	resolvedOrg, err := s.resolver.ResolveForChild(
		tenant.RecordRef{Kind: tenant.KindClient, ID: req.ClientID}, orgID, "invoice")
	if err != nil {
		return nil, err
	}

	if req.ProjectID != nil {
		if _, err := s.resolver.ResolveForChild(
			tenant.RecordRef{Kind: tenant.KindProject, ID: *req.ProjectID}, resolvedOrg, "invoice"); err != nil {
			return nil, err
		}
	}

	invoice := &models.Invoice{
		OrganizationID: resolvedOrg,
		ClientID:       req.ClientID,
		ProjectID:      req.ProjectID,
		Number:         req.Number,
		Status:         status,
		IssuedOn:       req.IssuedOn,
		DueOn:          req.DueOn,
	}

	if err := s.repo.Create(invoice); err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.ErrInvoiceNumberExists
		}
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	return s.convertToResponse(invoice), nil
}

// Get retrieves an invoice with its line items
func (s *InvoiceService) Get(actor *models.Identity, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.repo.GetWithLineItems(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if err := authorize(s.engine, actor, policy.ActionRead, invoice.OrganizationID); err != nil {
		return nil, err
	}
	return s.convertToResponse(invoice), nil
}

// List returns the invoices of an organization
func (s *InvoiceService) List(actor *models.Identity, orgID uuid.UUID, limit, offset int) ([]InvoiceResponse, int64, error) {
	if err := authorize(s.engine, actor, policy.ActionRead, orgID); err != nil {
		return nil, 0, err
	}

	invoices, total, err := s.repo.ListByOrganization(orgID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i, invoice := range invoices {
		responses[i] = *s.convertToResponse(&invoice)
	}
	return responses, total, nil
}

// Update updates an invoice's status and dates. Requires manage_invoices.
func (s *InvoiceService) Update(actor *models.Identity, id uuid.UUID, req *UpdateInvoiceRequest) (*InvoiceResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	invoice, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.engine, actor, policy.ActionManageInvoices, invoice.OrganizationID); err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", *req.Status))
		}
		invoice.Status = *req.Status
	}
	if req.IssuedOn != nil {
		invoice.IssuedOn = req.IssuedOn
	}
	if req.DueOn != nil {
		invoice.DueOn = req.DueOn
	}

	if err := s.repo.Update(invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	return s.convertToResponse(invoice), nil
}

// Delete deletes an invoice. Requires manage_invoices.
func (s *InvoiceService) Delete(actor *models.Identity, id uuid.UUID) error {
	invoice, err := s.load(id)
	if err != nil {
		return err
	}
	if err := authorize(s.engine, actor, policy.ActionManageInvoices, invoice.OrganizationID); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return nil
}

// AddLineItem adds a billable line to an invoice. The line's organization is
// inherited from the invoice. Requires manage_invoices.
func (s *InvoiceService) AddLineItem(actor *models.Identity, invoiceID uuid.UUID, req *CreateLineItemRequest) (*LineItemResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	orgID, err := s.resolver.Resolve(tenant.RecordRef{Kind: tenant.KindInvoice, ID: invoiceID})
	if err != nil {
		return nil, err
	}
	if err := authorize(s.engine, actor, policy.ActionManageInvoices, orgID); err != nil {
		return nil, err
	}

	item := &models.InvoiceLineItem{
		InvoiceID:      invoiceID,
		OrganizationID: orgID,
		Description:    req.Description,
		Quantity:       req.Quantity,
		UnitPriceCents: req.UnitPriceCents,
	}

	if err := s.repo.CreateLineItem(item); err != nil {
		return nil, fmt.Errorf("failed to create line item: %w", err)
	}

	return s.convertLineItem(item), nil
}

// ListLineItems returns the line items of an invoice
func (s *InvoiceService) ListLineItems(actor *models.Identity, invoiceID uuid.UUID) ([]LineItemResponse, error) {
	orgID, err := s.resolver.Resolve(tenant.RecordRef{Kind: tenant.KindInvoice, ID: invoiceID})
	if err != nil {
		return nil, err
	}
	if err := authorize(s.engine, actor, policy.ActionRead, orgID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListLineItems(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}

	responses := make([]LineItemResponse, len(items))
	for i, item := range items {
		responses[i] = *s.convertLineItem(&item)
	}
	return responses, nil
}

// RemoveLineItem deletes a line item. Requires manage_invoices.
func (s *InvoiceService) RemoveLineItem(actor *models.Identity, invoiceID, itemID uuid.UUID) error {
	item, err := s.repo.GetLineItemByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrLineItemNotFound
		}
		return fmt.Errorf("failed to load line item: %w", err)
	}
	if item.InvoiceID != invoiceID {
		return apperrors.ErrLineItemNotFound
	}

	if err := authorize(s.engine, actor, policy.ActionManageInvoices, item.OrganizationID); err != nil {
		return err
	}

	if err := s.repo.DeleteLineItem(itemID); err != nil {
		return fmt.Errorf("failed to delete line item: %w", err)
	}
	return nil
}

func (s *InvoiceService) load(id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	return invoice, nil
}

func (s *InvoiceService) convertToResponse(invoice *models.Invoice) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:             invoice.ID,
		OrganizationID: invoice.OrganizationID,
		ClientID:       invoice.ClientID,
		ProjectID:      invoice.ProjectID,
		Number:         invoice.Number,
		Status:         invoice.Status,
		IssuedOn:       invoice.IssuedOn,
		DueOn:          invoice.DueOn,
		CreatedAt:      formatTime(invoice.CreatedAt),
		UpdatedAt:      formatTime(invoice.UpdatedAt),
	}
	if len(invoice.LineItems) > 0 {
		resp.LineItems = make([]LineItemResponse, len(invoice.LineItems))
		for i, item := range invoice.LineItems {
			resp.LineItems[i] = *s.convertLineItem(&item)
			resp.TotalCents += resp.LineItems[i].TotalCents
		}
	}
	return resp
}

func (s *InvoiceService) convertLineItem(item *models.InvoiceLineItem) *LineItemResponse {
	return &LineItemResponse{
		ID:             item.ID,
		InvoiceID:      item.InvoiceID,
		Description:    item.Description,
		Quantity:       item.Quantity,
		UnitPriceCents: item.UnitPriceCents,
		TotalCents:     int64(item.Quantity) * item.UnitPriceCents,
	}
}
