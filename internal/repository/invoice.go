package repository

import (
	"clientdesk-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceRepository handles database operations for invoices and their line items
type InvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create creates a new invoice
func (r *InvoiceRepository) Create(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

// GetByID retrieves an invoice by ID
func (r *InvoiceRepository) GetByID(id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetByOrganizationAndNumber retrieves an invoice by its per-organization number
func (r *InvoiceRepository) GetByOrganizationAndNumber(orgID uuid.UUID, number string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.First(&invoice, "organization_id = ? AND number = ?", orgID, number).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetWithLineItems retrieves an invoice with its line items
func (r *InvoiceRepository) GetWithLineItems(id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.Preload("LineItems").First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ListByOrganization retrieves all invoices for an organization with pagination
func (r *InvoiceRepository) ListByOrganization(orgID uuid.UUID, limit, offset int) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	query := r.db.Model(&models.Invoice{}).Where("organization_id = ?", orgID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Limit(limit).Offset(offset).Order("number").Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// CountScoped counts the invoices visible to the caller
func (r *InvoiceRepository) CountScoped(orgIDs []uuid.UUID, all bool) (int64, error) {
	var total int64
	err := scopeOrganizations(r.db.Model(&models.Invoice{}), orgIDs, all).Count(&total).Error
	return total, err
}

// Update updates an invoice
func (r *InvoiceRepository) Update(invoice *models.Invoice) error {
	return r.db.Save(invoice).Error
}

// Delete deletes an invoice
func (r *InvoiceRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Invoice{}, "id = ?", id).Error
}

// CreateLineItem creates a new invoice line item
func (r *InvoiceRepository) CreateLineItem(item *models.InvoiceLineItem) error {
	return r.db.Create(item).Error
}

// GetLineItemByID retrieves a line item by ID
func (r *InvoiceRepository) GetLineItemByID(id uuid.UUID) (*models.InvoiceLineItem, error) {
	var item models.InvoiceLineItem
	err := r.db.First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListLineItems retrieves all line items for an invoice
func (r *InvoiceRepository) ListLineItems(invoiceID uuid.UUID) ([]models.InvoiceLineItem, error) {
	var items []models.InvoiceLineItem
	err := r.db.Where("invoice_id = ?", invoiceID).Order("created_at").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteLineItem deletes a line item
func (r *InvoiceRepository) DeleteLineItem(id uuid.UUID) error {
	return r.db.Delete(&models.InvoiceLineItem{}, "id = ?", id).Error
}
