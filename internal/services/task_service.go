package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tvhoang/workunit-api/internal/constants"
	"github.com/tvhoang/workunit-api/internal/models"
	"github.com/tvhoang/workunit-api/internal/policy"
	"github.com/tvhoang/workunit-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskPermissionDenied = errors.New("user does not have permission to access this task")
	ErrContentRequired      = errors.New("content is required")
	ErrLeadRequired         = errors.New("a lead must be selected")
	ErrInvalidComplexity    = errors.New("unknown complexity level")
	ErrInvalidStatus        = errors.New("unknown task status")
	ErrDelegationDenied     = errors.New("target rank must be below the actor's rank")
	ErrTooManyAttachments   = errors.New("too many attachments")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// ListVisible returns every task the actor may view, newest first.
func (s *TaskService) ListVisible(actor models.User) ([]models.Task, error) {
	tasks, err := s.taskRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return policy.VisibleTasks(actor, tasks), nil
}

// GetTask returns a task if the actor may view it.
func (s *TaskService) GetTask(actor models.User, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.CanView(actor, *task) {
		return nil, ErrTaskPermissionDenied
	}

	return task, nil
}

// AttachmentInput is one uploaded file on a new task.
type AttachmentInput struct {
	Name        string
	ContentType string
	Data        []byte
}

// CreateTaskInput represents input for creating or delegating a task.
type CreateTaskInput struct {
	Content         string
	Complexity      models.TaskComplexity
	LeadID          string
	CollaboratorIDs []string
	Attachments     []AttachmentInput
}

// CreateTask creates a task for the actor. With no lead selected the actor
// leads their own task; a foreign lead goes through the delegation rank
// check. The task's unit is snapshotted from the actor.
func (s *TaskService) CreateTask(actor models.User, input CreateTaskInput) (*models.Task, error) {
	if input.Content == "" {
		return nil, ErrContentRequired
	}
	if input.Complexity == "" {
		input.Complexity = models.ComplexityMedium
	}
	if !validComplexity(input.Complexity) {
		return nil, ErrInvalidComplexity
	}
	if len(input.Attachments) > constants.MaxAttachments {
		return nil, ErrTooManyAttachments
	}

	leadID := input.LeadID
	if leadID == "" {
		leadID = actor.ID
	}

	if leadID != actor.ID {
		lead, err := s.userRepo.FindByID(leadID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLeadRequired
			}
			return nil, fmt.Errorf("failed to find lead: %w", err)
		}
		if !policy.CanDelegateTo(actor, lead.DelegateLevel) {
			return nil, ErrDelegationDenied
		}
	}

	task := &models.Task{
		ID:         uuid.NewString(),
		UserID:     actor.ID,
		LeadID:     leadID,
		Content:    input.Content,
		Complexity: input.Complexity,
		Status:     models.TaskStatusTodo,
		Unit:       actor.Unit,
		StartTime:  time.Now(),
	}

	for _, id := range uniqueStrings(input.CollaboratorIDs) {
		if id == leadID {
			continue
		}
		task.Collaborators = append(task.Collaborators, models.TaskCollaborator{
			TaskID: task.ID,
			UserID: id,
		})
	}

	for i, att := range input.Attachments {
		task.Attachments = append(task.Attachments, models.Attachment{
			TaskID:      task.ID,
			Position:    i,
			Name:        att.Name,
			ContentType: att.ContentType,
			Data:        att.Data,
		})
	}

	if err := s.taskRepo.Insert(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID)
}

// UpdateTaskInput represents a partial edit of a task.
type UpdateTaskInput struct {
	Content    *string
	Complexity *models.TaskComplexity
	Status     *models.TaskStatus
}

// UpdateTask applies a partial edit. A status value runs through the same
// transition rules as ApplyStatus; the generic path deliberately does not
// forbid moving a task backward, matching the board's correction flow.
func (s *TaskService) UpdateTask(actor models.User, taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(actor, taskID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Content != nil {
		if *input.Content == "" {
			return nil, ErrContentRequired
		}
		fields["content"] = *input.Content
	}
	if input.Complexity != nil {
		if !validComplexity(*input.Complexity) {
			return nil, ErrInvalidComplexity
		}
		fields["complexity"] = *input.Complexity
	}
	if input.Status != nil {
		statusFields, err := transitionFields(task, *input.Status, time.Now())
		if err != nil {
			return nil, err
		}
		for k, v := range statusFields {
			fields[k] = v
		}
	}

	if len(fields) == 0 {
		return task, nil
	}

	if err := s.taskRepo.UpdateFields(taskID, fields); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(taskID)
}

// ApplyStatus moves a task to the target workflow state.
func (s *TaskService) ApplyStatus(actor models.User, taskID string, target models.TaskStatus) (*models.Task, error) {
	task, err := s.GetTask(actor, taskID)
	if err != nil {
		return nil, err
	}

	fields, err := transitionFields(task, target, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateFields(taskID, fields); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return s.taskRepo.FindByID(taskID)
}

// DeleteTask hard-deletes a task the actor may view.
func (s *TaskService) DeleteTask(actor models.User, taskID string) error {
	if _, err := s.GetTask(actor, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// transitionFields computes the column updates for a status change.
// Timestamps move only on a genuine transition: work-start is stamped the
// first time the task leaves TO_DO, completion is stamped on entry into
// COMPLETED. Re-applying the current status never touches a timestamp.
func transitionFields(task *models.Task, target models.TaskStatus, now time.Time) (map[string]interface{}, error) {
	if !validStatus(target) {
		return nil, ErrInvalidStatus
	}

	fields := map[string]interface{}{"status": target}

	if target == models.TaskStatusInProgress && task.Status == models.TaskStatusTodo {
		fields["start_time"] = now
	}
	if target == models.TaskStatusCompleted && task.Status != models.TaskStatusCompleted {
		fields["completed_time"] = now
	}

	return fields, nil
}

func validComplexity(c models.TaskComplexity) bool {
	switch c {
	case models.ComplexityMedium, models.ComplexityHard, models.ComplexityVeryHard:
		return true
	}
	return false
}

func validStatus(s models.TaskStatus) bool {
	switch s {
	case models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusCompleted:
		return true
	}
	return false
}

// uniqueStrings removes duplicate values while preserving order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		if v == "" {
			continue
		}
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
