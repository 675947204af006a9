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

// TaskService handles business logic for tasks and their attachments
type TaskService struct {
	repo        repository.TaskRepositoryInterface
	attachments repository.AttachmentRepositoryInterface
	resolver    *tenant.Resolver
	engine      *policy.Engine
	validator   *validator.Validate
}

// NewTaskService creates a new task service
func NewTaskService(
	repo repository.TaskRepositoryInterface,
	attachments repository.AttachmentRepositoryInterface,
	resolver *tenant.Resolver,
	engine *policy.Engine,
	validator *validator.Validate,
) *TaskService {
	return &TaskService{
		repo:        repo,
		attachments: attachments,
		resolver:    resolver,
		engine:      engine,
		validator:   validator,
	}
}

// CreateTaskRequest represents the data needed to create a task
type CreateTaskRequest struct {
	ProjectID   uuid.UUID         `json:"project_id" validate:"required"`
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	Position    int               `json:"position"`
	DueOn       *time.Time        `json:"due_on"`
}

// UpdateTaskRequest represents the data needed to update a task
type UpdateTaskRequest struct {
	Title       *string            `json:"title" validate:"omitempty,max=200"`
	Description *string            `json:"description"`
	Status      *models.TaskStatus `json:"status"`
	Position    *int               `json:"position"`
	DueOn       *time.Time         `json:"due_on"`
}

// CreateAttachmentRequest represents the metadata for a new attachment
type CreateAttachmentRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"max=100"`
	ByteSize    int64  `json:"byte_size" validate:"min=0"`
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID             uuid.UUID         `json:"id"`
	OrganizationID uuid.UUID         `json:"organization_id"`
	ProjectID      uuid.UUID         `json:"project_id"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	Status         models.TaskStatus `json:"status"`
	Position       int               `json:"position"`
	DueOn          *time.Time        `json:"due_on,omitempty"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
}

// AttachmentResponse represents the response data for an attachment
type AttachmentResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	TaskID         uuid.UUID `json:"task_id"`
	FileName       string    `json:"file_name"`
	ContentType    string    `json:"content_type,omitempty"`
	ByteSize       int64     `json:"byte_size"`
	CreatedAt      string    `json:"created_at"`
}

// Create creates a new task under a project. The task's organization is
// derived from the project. Requires manage_own_tenant.
func (s *TaskService) Create(actor *models.Identity, orgID uuid.UUID, req *CreateTaskRequest) (*TaskResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	status := req.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !status.IsValid() {
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	if err := authorize(s.engine, actor, policy.ActionManageOwnTenant, orgID); err != nil {
		return nil, err
	}

	resolvedOrg, err := s.resolver.ResolveForChild(
		tenant.RecordRef{Kind: tenant.KindProject, ID: req.ProjectID}, orgID, "task")
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		OrganizationID: resolvedOrg,
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         status,
		Position:       req.Position,
		DueOn:          req.DueOn,
	}

	if err := s.repo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.convertToResponse(task), nil
}

// Get retrieves a task by ID
func (s *TaskService) Get(actor *models.Identity, id uuid.UUID) (*TaskResponse, error) {
	task, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.engine, actor, policy.ActionRead, task.OrganizationID); err != nil {
		return nil, err
	}
	return s.convertToResponse(task), nil
}

// ListByProject returns the tasks of a project in board order
func (s *TaskService) ListByProject(actor *models.Identity, projectID uuid.UUID, limit, offset int) ([]TaskResponse, int64, error) {
	orgID, err := s.resolver.Resolve(tenant.RecordRef{Kind: tenant.KindProject, ID: projectID})
	if err != nil {
		return nil, 0, err
	}
	if err := authorize(s.engine, actor, policy.ActionRead, orgID); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.repo.ListByProject(projectID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	responses := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = *s.convertToResponse(&task)
	}
	return responses, total, nil
}

// Update updates a task. Requires manage_own_tenant in the task's organization.
func (s *TaskService) Update(actor *models.Identity, id uuid.UUID, req *UpdateTaskRequest) (*TaskResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	task, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.engine, actor, policy.ActionManageOwnTenant, task.OrganizationID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", *req.Status))
		}
		task.Status = *req.Status
	}
	if req.Position != nil {
		task.Position = *req.Position
	}
	if req.DueOn != nil {
		task.DueOn = req.DueOn
	}

	if err := s.repo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.convertToResponse(task), nil
}

// Delete deletes a task. Requires manage_own_tenant.
func (s *TaskService) Delete(actor *models.Identity, id uuid.UUID) error {
	task, err := s.load(id)
	if err != nil {
		return err
	}
	if err := authorize(s.engine, actor, policy.ActionManageOwnTenant, task.OrganizationID); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AddAttachment records attachment metadata under a task. The attachment's
// organization is derived from the task. Requires manage_own_tenant.
func (s *TaskService) AddAttachment(actor *models.Identity, taskID uuid.UUID, req *CreateAttachmentRequest) (*AttachmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	orgID, err := s.resolver.Resolve(tenant.RecordRef{Kind: tenant.KindTask, ID: taskID})
	if err != nil {
		return nil, err
	}
	if err := authorize(s.engine, actor, policy.ActionManageOwnTenant, orgID); err != nil {
		return nil, err
	}

	attachment := &models.Attachment{
		OrganizationID: orgID,
		TaskID:         taskID,
		FileName:       req.FileName,
		ContentType:    req.ContentType,
		ByteSize:       req.ByteSize,
	}

	if err := s.attachments.Create(attachment); err != nil {
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}

	return s.convertAttachment(attachment), nil
}

// ListAttachments returns the attachments of a task
func (s *TaskService) ListAttachments(actor *models.Identity, taskID uuid.UUID) ([]AttachmentResponse, error) {
	orgID, err := s.resolver.Resolve(tenant.RecordRef{Kind: tenant.KindTask, ID: taskID})
	if err != nil {
		return nil, err
	}
	if err := authorize(s.engine, actor, policy.ActionRead, orgID); err != nil {
		return nil, err
	}

	attachments, err := s.attachments.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	responses := make([]AttachmentResponse, len(attachments))
	for i, attachment := range attachments {
		responses[i] = *s.convertAttachment(&attachment)
	}
	return responses, nil
}

// RemoveAttachment deletes an attachment record. Requires manage_own_tenant.
func (s *TaskService) RemoveAttachment(actor *models.Identity, taskID, attachmentID uuid.UUID) error {
	attachment, err := s.attachments.GetByID(attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAttachmentNotFound
		}
		return fmt.Errorf("failed to load attachment: %w", err)
	}
	if attachment.TaskID != taskID {
		return apperrors.ErrAttachmentNotFound
	}

	if err := authorize(s.engine, actor, policy.ActionManageOwnTenant, attachment.OrganizationID); err != nil {
		return err
	}

	if err := s.attachments.Delete(attachmentID); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}

func (s *TaskService) load(id uuid.UUID) (*models.Task, error) {
	task, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	return task, nil
}

func (s *TaskService) convertToResponse(task *models.Task) *TaskResponse {
	return &TaskResponse{
		ID:             task.ID,
		OrganizationID: task.OrganizationID,
		ProjectID:      task.ProjectID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Position:       task.Position,
		DueOn:          task.DueOn,
		CreatedAt:      formatTime(task.CreatedAt),
		UpdatedAt:      formatTime(task.UpdatedAt),
	}
}

func (s *TaskService) convertAttachment(attachment *models.Attachment) *AttachmentResponse {
	return &AttachmentResponse{
		ID:             attachment.ID,
		OrganizationID: attachment.OrganizationID,
		TaskID:         attachment.TaskID,
		FileName:       attachment.FileName,
		ContentType:    attachment.ContentType,
		ByteSize:       attachment.ByteSize,
		CreatedAt:      formatTime(attachment.CreatedAt),
	}
}
