package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TO_DO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

type TaskComplexity string

const (
	ComplexityMedium   TaskComplexity = "MEDIUM"
	ComplexityHard     TaskComplexity = "HARD"
	ComplexityVeryHard TaskComplexity = "VERY_HARD"
)

// Tasks are hard-deleted: the workflow has no tombstone or undo, so there is
// no gorm.DeletedAt column on this table or its children.
type Task struct {
	ID            string         `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        string         `gorm:"type:varchar(36);not null;index" json:"user_id"`
	LeadID        string         `gorm:"type:varchar(36);not null;index" json:"lead_id"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	Complexity    TaskComplexity `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"complexity"`
	Status        TaskStatus     `gorm:"type:varchar(20);not null;default:'TO_DO'" json:"status"`
	Unit          string         `gorm:"type:varchar(255);index" json:"unit"`
	StartTime     time.Time      `gorm:"not null;index" json:"start_time"`
	CompletedTime *time.Time     `json:"completed_time"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	// Relations
	Creator       User               `gorm:"foreignKey:UserID" json:"creator,omitempty"`
	Lead          User               `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	Collaborators []TaskCollaborator `gorm:"foreignKey:TaskID" json:"collaborators,omitempty"`
	Attachments   []Attachment       `gorm:"foreignKey:TaskID" json:"attachments,omitempty"`
}

// CollaboratorIDs returns the ids of the task's collaborators in stored order.
func (t Task) CollaboratorIDs() []string {
	ids := make([]string, len(t.Collaborators))
	for i, c := range t.Collaborators {
		ids[i] = c.UserID
	}
	return ids
}

// HasCollaborator reports whether the user is listed as a collaborator.
func (t Task) HasCollaborator(userID string) bool {
	for _, c := range t.Collaborators {
		if c.UserID == userID {
			return true
		}
	}
	return false
}
