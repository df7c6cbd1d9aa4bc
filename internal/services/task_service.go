package services

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	apierrors "github.com/yukikurage/team-task-board/internal/errors"
	"github.com/yukikurage/team-task-board/internal/events"
	"github.com/yukikurage/team-task-board/internal/models"
	"github.com/yukikurage/team-task-board/internal/ordering"
	"github.com/yukikurage/team-task-board/internal/repository"
	"github.com/yukikurage/team-task-board/internal/sharing"
)

var (
	errTaskNotFound       = apierrors.NotFoundError("task not found")
	errDepartmentNotFound = apierrors.NotFoundError("department not found")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	deptRepo  repository.DepartmentRepository
	ordering  *ordering.Engine
	sharing   *sharing.Engine
	publisher events.Publisher
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	deptRepo repository.DepartmentRepository,
	directory sharing.Directory,
	publisher events.Publisher,
	orderingOpts ...ordering.Option,
) *TaskService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &TaskService{
		taskRepo:  taskRepo,
		deptRepo:  deptRepo,
		ordering:  ordering.NewEngine(taskRepo, orderingOpts...),
		sharing:   sharing.NewEngine(directory, taskRepo),
		publisher: publisher,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title        string              `validate:"required,max=255"`
	Description  string              `validate:"max=10000"`
	Priority     models.TaskPriority `validate:"omitempty,oneof=low medium high"`
	DepartmentID *string
	DueDate      *time.Time
	AssignedTo   string
}

// UpdateTaskInput represents input for the edit dialog. Nil fields are kept.
type UpdateTaskInput struct {
	Title           *string              `validate:"omitnil,min=1,max=255"`
	Description     *string              `validate:"omitnil,max=10000"`
	Priority        *models.TaskPriority `validate:"omitnil,oneof=low medium high"`
	DepartmentID    *string
	ClearDepartment bool
	DueDate         *time.Time
	ClearDueDate    bool
}

// Board loads every task in the actor's scope
func (s *TaskService) Board(ctx context.Context, actor *Actor) (*ordering.Board, error) {
	tasks, err := s.taskRepo.ListForScope(ctx, actor.Scope())
	if err != nil {
		return nil, apierrors.Transient("failed to load tasks", err)
	}
	return ordering.NewBoard(tasks), nil
}

// GetTask returns a task the actor can see. Tasks outside the scope are
// reported as not found.
func (s *TaskService) GetTask(ctx context.Context, actor *Actor, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, translate(err, "failed to load task")
	}
	if !actor.CanSee(task) {
		return nil, errTaskNotFound
	}
	return task, nil
}

// CreateTask validates input and appends a new active task
func (s *TaskService) CreateTask(ctx context.Context, actor *Actor, input CreateTaskInput) (*models.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	departmentID := input.DepartmentID
	if departmentID != nil && *departmentID == "" {
		departmentID = nil
	}
	if departmentID == nil && actor.DepartmentID != "" {
		own := actor.DepartmentID
		departmentID = &own
	}
	if err := s.ensureDepartment(ctx, departmentID); err != nil {
		return nil, err
	}

	assignee := strings.TrimSpace(input.AssignedTo)
	if assignee == "" {
		assignee = actor.ID
	}

	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		Priority:     models.NormalizePriority(input.Priority),
		DepartmentID: departmentID,
		Status:       models.TaskStatusActive,
		DueDate:      input.DueDate,
		CreatedBy:    actor.ID,
		AssignedTo:   assignee,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, apierrors.Transient("failed to create task", err)
	}

	s.publish(ctx, events.TaskCreated, task.ID, actor)
	return s.reload(ctx, task)
}

// SetStatus moves a task between the active and completed partitions
func (s *TaskService) SetStatus(ctx context.Context, actor *Actor, taskID string, completed bool) (*models.Task, error) {
	task, err := s.GetTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	status := models.TaskStatusActive
	if completed {
		status = models.TaskStatusCompleted
	}
	if err := s.taskRepo.SetStatus(ctx, task.ID, status); err != nil {
		return nil, apierrors.Transient("failed to update task status", err)
	}

	s.publish(ctx, events.TaskUpdated, task.ID, actor)
	return s.reload(ctx, task)
}

// UpdateTask applies an edit-dialog patch
func (s *TaskService) UpdateTask(ctx context.Context, actor *Actor, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		input.Title = &title
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	task, err := s.GetTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	patch := repository.TaskPatch{
		Title:        input.Title,
		Description:  input.Description,
		Priority:     input.Priority,
		DueDate:      input.DueDate,
		ClearDueDate: input.ClearDueDate,
	}
	if input.ClearDepartment || (input.DepartmentID != nil && *input.DepartmentID == "") {
		patch.ClearDepartment = true
	} else if input.DepartmentID != nil {
		if err := s.ensureDepartment(ctx, input.DepartmentID); err != nil {
			return nil, err
		}
		patch.DepartmentID = input.DepartmentID
	}

	if err := s.taskRepo.UpdateFields(ctx, task.ID, patch); err != nil {
		return nil, apierrors.Transient("failed to update task", err)
	}

	s.publish(ctx, events.TaskUpdated, task.ID, actor)
	return s.reload(ctx, task)
}

// Reorder drops activeID onto overID within the actor's active partition and
// returns the resulting board. On failure the returned board holds the order
// from before the move.
func (s *TaskService) Reorder(ctx context.Context, actor *Actor, activeID, overID string) (*ordering.Board, error) {
	board, err := s.Board(ctx, actor)
	if err != nil {
		return nil, err
	}

	moved, err := s.ordering.Reorder(ctx, board, activeID, overID)
	if err != nil {
		log.WithFields(log.Fields{
			"actor_id":  actor.ID,
			"active_id": activeID,
			"over_id":   overID,
		}).WithError(err).Error("Reorder failed")
		return board, err
	}
	if moved {
		s.publish(ctx, events.TasksReordered, activeID, actor)
	}
	return board, nil
}

// ShareTask adds the user registered under email as a collaborator
func (s *TaskService) ShareTask(ctx context.Context, actor *Actor, taskID, email string) (sharing.Result, error) {
	if strings.TrimSpace(email) == "" {
		return sharing.Result{}, apierrors.Validation("email required")
	}
	if _, err := s.GetTask(ctx, actor, taskID); err != nil {
		return sharing.Result{}, err
	}

	result, err := s.sharing.Share(ctx, taskID, email)
	if err != nil {
		return sharing.Result{}, err
	}
	if result.Outcome == sharing.OutcomeShared {
		s.publish(ctx, events.TaskShared, taskID, actor)
	}
	return result, nil
}

// DuplicateTask copies a task for the actor
func (s *TaskService) DuplicateTask(ctx context.Context, actor *Actor, taskID string) (*models.Task, error) {
	task, err := s.GetTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	clone, err := s.taskRepo.Duplicate(ctx, task.ID, actor.ID)
	if err != nil {
		return nil, translate(err, "failed to duplicate task")
	}

	s.publish(ctx, events.TaskCreated, clone.ID, actor)
	return s.reload(ctx, clone)
}

// DeleteTask permanently removes a task
func (s *TaskService) DeleteTask(ctx context.Context, actor *Actor, taskID string) error {
	task, err := s.GetTask(ctx, actor, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return translate(err, "failed to delete task")
	}

	s.publish(ctx, events.TaskDeleted, task.ID, actor)
	return nil
}

func (s *TaskService) ensureDepartment(ctx context.Context, departmentID *string) error {
	if departmentID == nil {
		return nil
	}
	if _, err := s.deptRepo.FindByID(ctx, *departmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errDepartmentNotFound
		}
		return apierrors.Transient("failed to load department", err)
	}
	return nil
}

// reload re-reads a task after a write so the response carries stored values.
// A failed re-read falls back to the in-memory copy.
func (s *TaskService) reload(ctx context.Context, task *models.Task) (*models.Task, error) {
	fresh, err := s.taskRepo.FindByID(ctx, task.ID)
	if err != nil {
		log.WithField("task_id", task.ID).WithError(err).Warn("Failed to reload task")
		return task, nil
	}
	return fresh, nil
}

func (s *TaskService) publish(ctx context.Context, eventType, taskID string, actor *Actor) {
	ev := events.Event{Type: eventType, TaskID: taskID, ActorID: actor.ID}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.WithFields(log.Fields{"type": eventType, "task_id": taskID}).WithError(err).Warn("Failed to publish task event")
	}
}

// translate maps repository errors onto the domain taxonomy
func translate(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errTaskNotFound
	}
	if _, ok := apierrors.KindOf(err); ok {
		return err
	}
	return apierrors.Transient(message, err)
}
