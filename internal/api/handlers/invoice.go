package handlers

import (
	"net/http"

	"clientdesk-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles HTTP requests for invoices and their line items
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// CreateInvoice creates a new invoice in an organization
// @Summary Create an invoice
// @Description Create an invoice for a client. The invoice number must be
// @Description unique within the organization.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Param invoice body service.CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} service.InvoiceResponse
// @Failure 403 {object} ErrorResponse "Requires manage_invoices"
// @Failure 409 {object} ErrorResponse "Number already used"
// @Security BearerAuth
// @Router /organizations/{id}/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orgID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	invoice, err := h.invoiceService.Create(actor, orgID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// GetInvoice retrieves an invoice with its line items
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "invoiceId")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// ListInvoices lists the invoices of an organization
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orgID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	limit, offset := pagination(c)

	invoices, total, err := h.invoiceService.List(actor, orgID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"invoices": invoices,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// UpdateInvoice updates an invoice
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "invoiceId")
	if !ok {
		return
	}

	var req service.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	invoice, err := h.invoiceService.Update(actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice deletes an invoice
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "invoiceId")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddLineItem adds a line item to an invoice
func (h *InvoiceHandler) AddLineItem(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(c, "invoiceId")
	if !ok {
		return
	}

	var req service.CreateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	item, err := h.invoiceService.AddLineItem(actor, invoiceID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ListLineItems lists the line items of an invoice
func (h *InvoiceHandler) ListLineItems(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(c, "invoiceId")
	if !ok {
		return
	}

	items, err := h.invoiceService.ListLineItems(actor, invoiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"line_items": items})
}

// RemoveLineItem deletes a line item
func (h *InvoiceHandler) RemoveLineItem(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(c, "invoiceId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}

	if err := h.invoiceService.RemoveLineItem(actor, invoiceID, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
