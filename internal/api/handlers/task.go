package handlers

import (
	"net/http"

	"clientdesk-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles HTTP requests for tasks and their attachments
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTask creates a new task in an organization
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	orgID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	task, err := h.taskService.Create(actor, orgID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// GetTask retrieves a task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "taskId")
	if !ok {
		return
	}

	task, err := h.taskService.Get(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask updates a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "taskId")
	if !ok {
		return
	}

	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	task, err := h.taskService.Update(actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "taskId")
	if !ok {
		return
	}

	if err := h.taskService.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddAttachment records attachment metadata under a task
func (h *TaskHandler) AddAttachment(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "taskId")
	if !ok {
		return
	}

	var req service.CreateAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	attachment, err := h.taskService.AddAttachment(actor, taskID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attachment)
}

// ListAttachments lists the attachments of a task
func (h *TaskHandler) ListAttachments(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "taskId")
	if !ok {
		return
	}

	attachments, err := h.taskService.ListAttachments(actor, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attachments": attachments})
}

// RemoveAttachment deletes an attachment record
func (h *TaskHandler) RemoveAttachment(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "taskId")
	if !ok {
		return
	}
	attachmentID, ok := pathUUID(c, "attachmentId")
	if !ok {
		return
	}

	if err := h.taskService.RemoveAttachment(actor, taskID, attachmentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
