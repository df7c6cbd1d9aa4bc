package database

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yukikurage/team-task-board/internal/models"
)

// AddIndexes adds the indexes used by scope listing and ordering
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		// Scope filters
		{&models.Task{}, "tasks", "idx_tasks_department_id", "department_id"},
		{&models.Task{}, "tasks", "idx_tasks_created_by", "created_by"},
		{&models.Task{}, "tasks", "idx_tasks_assigned_to", "assigned_to"},

		// Partition + ordering
		{&models.Task{}, "tasks", "idx_tasks_status_position", "status, position"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			log.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.WithFields(log.Fields{"index": idx.name, "table": idx.table}).Info("Created index")
	}

	return nil
}

// MigrateDatabase runs schema migration, indexes and seed data
func MigrateDatabase(db *gorm.DB) error {
	if err := Migrate(db); err != nil {
		return err
	}
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	return SeedDepartments(db)
}
