package models

import "time"

// Attachment is a binary blob attached to a task. Position preserves the
// order the files were attached in.
type Attachment struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	TaskID      string    `gorm:"type:varchar(36);not null;index" json:"task_id"`
	Position    int       `gorm:"not null" json:"position"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	ContentType string    `gorm:"type:varchar(100)" json:"content_type"`
	Data        []byte    `gorm:"type:mediumblob" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
