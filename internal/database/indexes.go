package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes the filter paths rely on. AutoMigrate
// already creates the single-column ones declared on the models.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task listing is ordered by start_time and scoped by unit.
		{"tasks", "idx_tasks_unit_start_time", "unit, start_time"},
		{"tasks", "idx_tasks_status", "status"},

		// Collaborator lookups during visibility checks.
		{"task_collaborators", "idx_task_collaborators_user_id", "user_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
