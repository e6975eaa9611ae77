package dto

import (
	"time"

	"github.com/tvhoang/workunit-api/internal/models"
)

// AttachmentDTO is attachment metadata in API responses; the blob itself is
// served separately.
type AttachmentDTO struct {
	ID          uint64 `json:"id"`
	Position    int    `json:"position"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	LeadID          string                `json:"lead_id"`
	CollaboratorIDs []string              `json:"collaborator_ids"`
	Content         string                `json:"content"`
	Complexity      models.TaskComplexity `json:"complexity"`
	Status          models.TaskStatus     `json:"status"`
	Unit            string                `json:"unit"`
	StartTime       time.Time             `json:"start_time"`
	CompletedTime   *time.Time            `json:"completed_time"`
	Attachments     []AttachmentDTO       `json:"attachments,omitempty"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:              task.ID,
		UserID:          task.UserID,
		LeadID:          task.LeadID,
		CollaboratorIDs: task.CollaboratorIDs(),
		Content:         task.Content,
		Complexity:      task.Complexity,
		Status:          task.Status,
		Unit:            task.Unit,
		StartTime:       task.StartTime,
		CompletedTime:   task.CompletedTime,
	}

	for _, att := range task.Attachments {
		dto.Attachments = append(dto.Attachments, AttachmentDTO{
			ID:          att.ID,
			Position:    att.Position,
			Name:        att.Name,
			ContentType: att.ContentType,
		})
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks.
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t)
	}
	return dtos
}
