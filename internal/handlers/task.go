package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tvhoang/workunit-api/internal/dto"
	apierrors "github.com/tvhoang/workunit-api/internal/errors"
	"github.com/tvhoang/workunit-api/internal/middleware"
	"github.com/tvhoang/workunit-api/internal/models"
	"github.com/tvhoang/workunit-api/internal/services"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns every task visible to the current user, newest first.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListVisible(actor)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
	})
}

// GetTask returns a single task.
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, err := h.taskService.GetTask(actor, c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

type attachmentRequest struct {
	Name        string `json:"name" binding:"required"`
	ContentType string `json:"content_type"`
	Data        string `json:"data" binding:"required"` // base64
}

type createTaskRequest struct {
	Content         string              `json:"content" binding:"required"`
	Complexity      string              `json:"complexity"`
	LeadID          string              `json:"lead_id"`
	CollaboratorIDs []string            `json:"collaborator_ids"`
	Attachments     []attachmentRequest `json:"attachments"`
}

// CreateTask creates a task for the current user; supplying lead_id
// delegates the task through the rank check.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		Content:         req.Content,
		Complexity:      models.TaskComplexity(req.Complexity),
		LeadID:          req.LeadID,
		CollaboratorIDs: req.CollaboratorIDs,
	}

	for _, att := range req.Attachments {
		data, err := base64.StdEncoding.DecodeString(att.Data)
		if err != nil {
			apierrors.BadRequest(c, "Attachment data must be base64 encoded")
			return
		}
		input.Attachments = append(input.Attachments, services.AttachmentInput{
			Name:        att.Name,
			ContentType: att.ContentType,
			Data:        data,
		})
	}

	task, err := h.taskService.CreateTask(actor, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial edit to the task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateTaskRequest struct {
		Content    *string `json:"content"`
		Complexity *string `json:"complexity"`
		Status     *string `json:"status"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{Content: req.Content}
	if req.Complexity != nil {
		complexity := models.TaskComplexity(*req.Complexity)
		input.Complexity = &complexity
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}

	task, err := h.taskService.UpdateTask(actor, c.Param("id"), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateStatus moves a task through the workflow.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateStatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.ApplyStatus(actor, c.Param("id"), models.TaskStatus(req.Status))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task permanently.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.taskService.DeleteTask(actor, c.Param("id")); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted",
	})
}

// DownloadAttachment streams one attachment blob.
func (h *TaskHandler) DownloadAttachment(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, err := h.taskService.GetTask(actor, c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	attID, err := strconv.ParseUint(c.Param("att_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid attachment ID")
		return
	}

	for _, att := range task.Attachments {
		if att.ID == attID {
			contentType := att.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			c.Header("Content-Disposition", `attachment; filename="`+att.Name+`"`)
			c.Data(http.StatusOK, contentType, att.Data)
			return
		}
	}

	apierrors.NotFound(c, "Attachment not found")
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskPermissionDenied),
		errors.Is(err, services.ErrDelegationDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrContentRequired),
		errors.Is(err, services.ErrLeadRequired),
		errors.Is(err, services.ErrInvalidComplexity),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrTooManyAttachments):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
