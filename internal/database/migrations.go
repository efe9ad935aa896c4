package database

import (
	"fmt"

	"github.com/yukikurage/project-task-api/internal/logging"
	"github.com/yukikurage/project-task-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the indexes used by ownership and assignment lookups.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		// Ownership ("my projects", policy checks)
		{&models.Project{}, "projects", "idx_projects_owner_id", "owner_id"},

		// Task lookups by parent and assignee
		{&models.Task{}, "tasks", "idx_tasks_project_id", "project_id"},
		{&models.Task{}, "tasks", "idx_tasks_assigned_to", "assigned_to"},
		{&models.Task{}, "tasks", "idx_tasks_status", "status"},
		{&models.Task{}, "tasks", "idx_tasks_due_date", "due_date"},
	}

	log := logging.Logger()
	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug().Str("index", idx.name).Msg("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info().Str("index", idx.name).Str("table", idx.table).Str("columns", idx.columns).Msg("Created index")
	}

	return nil
}
