package repository

import (
	"github.com/tvhoang/workunit-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// List returns every user
	List() ([]models.User, error)

	// Count returns the number of users in the store
	Count() (int64, error)

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email, matched case-insensitively
	FindByEmail(email string) (*models.User, error)

	// Upsert inserts the user or updates the existing row with the same ID
	Upsert(user *models.User) error

	// ReplaceAll swaps the full roster for the imported one, keeping the
	// accounts whose IDs appear in keepIDs
	ReplaceAll(users []models.User, keepIDs []string) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// List returns every task ordered by start_time descending, with
	// collaborators and attachments preloaded
	List() ([]models.Task, error)

	// FindByID finds a task by ID with collaborators and attachments
	FindByID(id string) (*models.Task, error)

	// Insert creates a task together with its collaborator and attachment rows
	Insert(task *models.Task) error

	// UpdateFields applies a partial update to the task row
	UpdateFields(id string, fields map[string]interface{}) error

	// Delete hard-deletes a task and its child rows
	Delete(id string) error
}
