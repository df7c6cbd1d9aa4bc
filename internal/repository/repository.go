package repository

import (
	"context"
	"time"

	"github.com/yukikurage/team-task-board/internal/models"
	"github.com/yukikurage/team-task-board/internal/ordering"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// ListForScope returns every task visible in scope, ordered by position
	ListForScope(ctx context.Context, scope Scope) ([]models.Task, error)

	// FindByID finds a task by ID with its department preloaded
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// Create inserts a task at the end of the global order
	Create(ctx context.Context, task *models.Task) error

	// SetStatus moves a task between partitions without touching its position
	SetStatus(ctx context.Context, id string, status models.TaskStatus) error

	// SetPosition writes a single position
	SetPosition(ctx context.Context, id string, position int) error

	// SetPositions writes many positions in one transaction
	SetPositions(ctx context.Context, placements []ordering.Placement) error

	// UpdateFields applies an edit-dialog patch
	UpdateFields(ctx context.Context, id string, patch TaskPatch) error

	// SharedWith reads the current collaborator ids of a task
	SharedWith(ctx context.Context, id string) ([]string, error)

	// SetSharedWith replaces the collaborator ids of a task
	SetSharedWith(ctx context.Context, id string, userIDs []string) error

	// Duplicate copies a task for actorID and returns the copy
	Duplicate(ctx context.Context, id, actorID string) (*models.Task, error)

	// Delete permanently removes a task
	Delete(ctx context.Context, id string) error
}

// Scope selects the tasks an actor may see. All wins over DepartmentID,
// DepartmentID wins over UserID.
type Scope struct {
	All          bool
	DepartmentID string
	UserID       string
}

// TaskPatch holds the editable fields. Nil pointers are left untouched.
type TaskPatch struct {
	Title           *string
	Description     *string
	Priority        *models.TaskPriority
	DepartmentID    *string
	ClearDepartment bool
	DueDate         *time.Time
	ClearDueDate    bool
}

// DepartmentRepository defines the interface for department data access
type DepartmentRepository interface {
	// List returns all departments ordered by name
	List(ctx context.Context) ([]models.Department, error)

	// FindByID finds a department by ID
	FindByID(ctx context.Context, id string) (*models.Department, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
