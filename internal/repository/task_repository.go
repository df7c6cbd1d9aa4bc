package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/team-task-board/internal/constants"
	"github.com/yukikurage/team-task-board/internal/database"
	"github.com/yukikurage/team-task-board/internal/models"
	"github.com/yukikurage/team-task-board/internal/ordering"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// ListForScope retrieves the tasks visible in scope
func (r *GormTaskRepository) ListForScope(ctx context.Context, scope Scope) ([]models.Task, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{}).Preload("Department")

	switch {
	case scope.All:
	case scope.DepartmentID != "":
		query = query.Scopes(database.InDepartment(scope.DepartmentID))
	case scope.UserID != "":
		query = query.Scopes(database.VisibleToUser(scope.UserID))
	default:
		return []models.Task{}, nil
	}

	var tasks []models.Task
	if err := query.Scopes(database.OrderedByPosition).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Preload("Department").Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Create inserts task after every existing task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextPosition(tx)
		if err != nil {
			return err
		}
		task.Position = next
		if task.Status == "" {
			task.Status = models.TaskStatusActive
		}
		task.SharedWith = []string{}
		return tx.Create(task).Error
	})
}

// SetStatus updates the status and leaves position alone
func (r *GormTaskRepository) SetStatus(ctx context.Context, id string, status models.TaskStatus) error {
	return r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// SetPosition writes a single position
func (r *GormTaskRepository) SetPosition(ctx context.Context, id string, position int) error {
	return r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"position":   position,
			"updated_at": time.Now(),
		}).Error
}

// SetPositions writes every placement or none of them
func (r *GormTaskRepository) SetPositions(ctx context.Context, placements []ordering.Placement) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range placements {
			err := tx.Model(&models.Task{}).Where("id = ?", p.TaskID).
				UpdateColumns(map[string]interface{}{
					"position":   p.Position,
					"updated_at": now,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateFields applies patch and refreshes updated_at
func (r *GormTaskRepository) UpdateFields(ctx context.Context, id string, patch TaskPatch) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Priority != nil {
		updates["priority"] = models.NormalizePriority(*patch.Priority)
	}
	if patch.ClearDepartment {
		updates["department_id"] = nil
	} else if patch.DepartmentID != nil {
		updates["department_id"] = *patch.DepartmentID
	}
	if patch.ClearDueDate {
		updates["due_date"] = nil
	} else if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}

	return r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).UpdateColumns(updates).Error
}

// SharedWith reads the collaborator ids straight from the row
func (r *GormTaskRepository) SharedWith(ctx context.Context, id string) ([]string, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Select("id", "shared_with").Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return task.SharedWith, nil
}

// SetSharedWith replaces the collaborator ids
func (r *GormTaskRepository) SetSharedWith(ctx context.Context, id string, userIDs []string) error {
	if userIDs == nil {
		userIDs = []string{}
	}
	// Struct form so the json serializer encodes the slice.
	return r.db.WithContext(ctx).Model(&models.Task{ID: id}).
		Select("shared_with", "updated_at").
		UpdateColumns(models.Task{SharedWith: userIDs, UpdatedAt: time.Now()}).Error
}

// Duplicate clones a task for actorID. Collaborators are not carried over.
func (r *GormTaskRepository) Duplicate(ctx context.Context, id, actorID string) (*models.Task, error) {
	var clone models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var source models.Task
		if err := tx.Where("id = ?", id).First(&source).Error; err != nil {
			return err
		}

		next, err := nextPosition(tx)
		if err != nil {
			return err
		}

		clone = models.Task{
			Title:        source.Title + constants.CopyTitleSuffix,
			Description:  source.Description,
			Priority:     source.Priority,
			DepartmentID: source.DepartmentID,
			Status:       source.Status,
			Position:     next,
			DueDate:      source.DueDate,
			CreatedBy:    actorID,
			AssignedTo:   source.AssignedTo,
			SharedWith:   []string{},
		}
		return tx.Create(&clone).Error
	})
	if err != nil {
		return nil, err
	}
	return &clone, nil
}

// Delete permanently removes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func nextPosition(tx *gorm.DB) (int, error) {
	var next int
	err := tx.Model(&models.Task{}).Select("COALESCE(MAX(position), -1) + 1").Scan(&next).Error
	return next, err
}
