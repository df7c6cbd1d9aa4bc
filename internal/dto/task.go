package dto

import (
	"time"

	"github.com/yukikurage/team-task-board/internal/constants"
	"github.com/yukikurage/team-task-board/internal/models"
	"github.com/yukikurage/team-task-board/internal/ordering"
	"github.com/yukikurage/team-task-board/internal/sharing"
)

// Notice is a toast-style message attached to successful responses
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Severity    string `json:"severity"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	FullName     string  `json:"full_name"`
	DepartmentID *string `json:"department_id"`
	IsAdmin      bool    `json:"is_admin"`
}

// DepartmentDTO represents a department in API responses
type DepartmentDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Priority       models.TaskPriority `json:"priority"`
	DepartmentID   *string             `json:"department_id"`
	DepartmentName string              `json:"department_name,omitempty"`
	Status         models.TaskStatus   `json:"status"`
	Position       int                 `json:"position"`
	DueDate        *time.Time          `json:"due_date"`
	CreatedBy      string              `json:"created_by"`
	AssignedTo     string              `json:"assigned_to"`
	SharedWith     []string            `json:"shared_with"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// TaskResponse wraps a single task
type TaskResponse struct {
	Task   TaskDTO `json:"task"`
	Notice *Notice `json:"notice,omitempty"`
}

// BoardDTO is the whole board plus its derived partitions
type BoardDTO struct {
	Tasks     []TaskDTO `json:"tasks"`
	Active    []TaskDTO `json:"active"`
	Completed []TaskDTO `json:"completed"`
	Shared    []TaskDTO `json:"shared"`
	Notice    *Notice   `json:"notice,omitempty"`
}

// ShareResultDTO reports the outcome of a share request
type ShareResultDTO struct {
	Outcome    sharing.Outcome `json:"outcome"`
	UserID     string          `json:"user_id"`
	SharedWith []string        `json:"shared_with"`
	Notice     *Notice         `json:"notice,omitempty"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User, isAdmin bool) UserDTO {
	return UserDTO{
		ID:           user.ID,
		Email:        user.Email,
		FullName:     user.FullName,
		DepartmentID: user.DepartmentID,
		IsAdmin:      isAdmin,
	}
}

// ToDepartmentDTOs converts departments to DTOs
func ToDepartmentDTOs(departments []models.Department) []DepartmentDTO {
	result := make([]DepartmentDTO, len(departments))
	for i, d := range departments {
		result[i] = DepartmentDTO{ID: d.ID, Name: d.Name}
	}
	return result
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	sharedWith := task.SharedWith
	if sharedWith == nil {
		sharedWith = []string{}
	}
	return TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Priority:       task.Priority,
		DepartmentID:   task.DepartmentID,
		DepartmentName: task.DepartmentName(),
		Status:         task.Status,
		Position:       task.Position,
		DueDate:        task.DueDate,
		CreatedBy:      task.CreatedBy,
		AssignedTo:     task.AssignedTo,
		SharedWith:     sharedWith,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	result := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		result[i] = ToTaskDTO(t)
	}
	return result
}

// ToBoardDTO renders a board as seen by userID
func ToBoardDTO(board *ordering.Board, userID string) BoardDTO {
	return BoardDTO{
		Tasks:     ToTaskDTOs(board.Tasks()),
		Active:    ToTaskDTOs(board.Active()),
		Completed: ToTaskDTOs(board.Completed()),
		Shared:    ToTaskDTOs(board.SharedWith(userID)),
	}
}

// ToShareResultDTO converts a sharing result and picks its notice
func ToShareResultDTO(result sharing.Result) ShareResultDTO {
	out := ShareResultDTO{
		Outcome:    result.Outcome,
		UserID:     result.UserID,
		SharedWith: result.SharedWith,
	}
	if out.SharedWith == nil {
		out.SharedWith = []string{}
	}
	if result.Outcome == sharing.OutcomeAlreadyShared {
		out.Notice = &Notice{
			Title:       "Already shared",
			Description: "This task is already shared with that user.",
			Severity:    constants.SeverityDefault,
		}
	} else {
		out.Notice = &Notice{
			Title:       "Task shared",
			Description: "The task was shared successfully.",
			Severity:    constants.SeverityDefault,
		}
	}
	return out
}

// NewNotice creates a default-severity notice
func NewNotice(title, description string) *Notice {
	return &Notice{Title: title, Description: description, Severity: constants.SeverityDefault}
}
