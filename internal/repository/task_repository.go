package repository

import (
	"github.com/tvhoang/workunit-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// List returns every task, newest start time first. Collaborators and
// attachment metadata are preloaded; attachment blobs are omitted so listing
// stays cheap.
func (r *GormTaskRepository) List() ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Preload("Collaborators").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "task_id", "position", "name", "content_type").Order("position")
		}).
		Order("start_time DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByID finds a task by ID with collaborators and attachments
func (r *GormTaskRepository) FindByID(id string) (*models.Task, error) {
	var task models.Task
	err := r.db.
		Preload("Collaborators").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Insert creates a task together with its collaborator and attachment rows
func (r *GormTaskRepository) Insert(task *models.Task) error {
	return r.db.Create(task).Error
}

// UpdateFields applies a partial update to the task row
func (r *GormTaskRepository) UpdateFields(id string, fields map[string]interface{}) error {
	return r.db.Model(&models.Task{}).Where("id = ?", id).Updates(fields).Error
}

// Delete hard-deletes a task, its collaborator rows, and its attachments
func (r *GormTaskRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskCollaborator{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, "id = ?", id).Error
	})
}
