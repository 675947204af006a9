package handlers

import (
	"net/http"

	"clientdesk-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ProjectHandler handles HTTP requests for projects
type ProjectHandler struct {
	projectService *service.ProjectService
	taskService    *service.TaskService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *service.ProjectService, taskService *service.TaskService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		taskService:    taskService,
	}
}

// CreateProject creates a new project in an organization
// @Summary Create a project
// @Description Create a project under a client. The project lands in the
// @Description client's organization; a mismatching declared organization is
// @Description rejected with 422.
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Param project body service.CreateProjectRequest true "Project data"
// @Success 201 {object} service.ProjectResponse
// @Failure 422 {object} ErrorResponse "Client belongs to another organization"
// @Security BearerAuth
// @Router /organizations/{id}/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orgID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	project, err := h.projectService.Create(actor, orgID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// GetProject retrieves a project by ID
func (h *ProjectHandler) GetProject(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "projectId")
	if !ok {
		return
	}

	project, err := h.projectService.Get(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// ListProjects lists the projects of an organization
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orgID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	limit, offset := pagination(c)

	projects, total, err := h.projectService.List(actor, orgID, limit, offset)
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

// UpdateProject updates a project
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "projectId")
	if !ok {
		return
	}

	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	project, err := h.projectService.Update(actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject deletes a project
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "projectId")
	if !ok {
		return
	}

	if err := h.projectService.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListProjectTasks lists the tasks of a project in board order
func (h *ProjectHandler) ListProjectTasks(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "projectId")
	if !ok {
		return
	}
	limit, offset := pagination(c)

	tasks, total, err := h.taskService.ListByProject(actor, projectID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks":  tasks,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
