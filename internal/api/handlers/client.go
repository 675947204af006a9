package handlers

import (
	"net/http"

	"clientdesk-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ClientHandler handles HTTP requests for clients
type ClientHandler struct {
	clientService  *service.ClientService
	projectService *service.ProjectService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *service.ClientService, projectService *service.ProjectService) *ClientHandler {
	return &ClientHandler{
		clientService:  clientService,
		projectService: projectService,
	}
}

// CreateClient creates a new client in an organization
func (h *ClientHandler) CreateClient(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orgID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	client, err := h.clientService.Create(actor, orgID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClient retrieves a client by ID
func (h *ClientHandler) GetClient(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "clientId")
	if !ok {
		return
	}

	client, err := h.clientService.Get(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// ListClients lists the clients of an organization
func (h *ClientHandler) ListClients(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orgID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	limit, offset := pagination(c)

	clients, total, err := h.clientService.List(actor, orgID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"clients": clients,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// UpdateClient updates a client
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "clientId")
	if !ok {
		return
	}

	var req service.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	client, err := h.clientService.Update(actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient deletes a client
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "clientId")
	if !ok {
		return
	}

	if err := h.clientService.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListClientProjects lists the projects attached to a client
func (h *ClientHandler) ListClientProjects(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	clientID, ok := pathUUID(c, "clientId")
	if !ok {
		return
	}
	limit, offset := pagination(c)

	projects, total, err := h.projectService.ListByClient(actor, clientID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}
