package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/team-task-board/internal/dto"
	apierrors "github.com/yukikurage/team-task-board/internal/errors"
	"github.com/yukikurage/team-task-board/internal/events"
	"github.com/yukikurage/team-task-board/internal/middleware"
	"github.com/yukikurage/team-task-board/internal/models"
	"github.com/yukikurage/team-task-board/internal/ordering"
	"github.com/yukikurage/team-task-board/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
	subscriber  events.Subscriber
}

func NewTaskHandler(taskService *services.TaskService, subscriber events.Subscriber) *TaskHandler {
	if subscriber == nil {
		subscriber = events.Nop{}
	}
	return &TaskHandler{
		taskService: taskService,
		subscriber:  subscriber,
	}
}

// ListTasks returns the actor's board.
// Optional priority and department_id query parameters narrow every partition.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	filter := ordering.BoardFilter{
		Priority:     models.TaskPriority(strings.ToLower(c.Query("priority"))),
		DepartmentID: c.Query("department_id"),
	}
	if filter.Priority != "" && models.NormalizePriority(filter.Priority) != filter.Priority {
		apierrors.BadRequest(c, "Invalid priority")
		return
	}

	board, err := h.taskService.Board(c.Request.Context(), actor)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(board.Filter(filter), actor.ID))
}

// GetTask returns a specific task by ID
// Task is already loaded by RequireTaskAccess middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.TaskResponse{Task: dto.ToTaskDTO(*task)})
}

// CreateTask creates a new task at the end of the board
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title        string  `json:"title"`
		Description  string  `json:"description"`
		Priority     string  `json:"priority"`
		DepartmentID *string `json:"department_id"`
		DueDate      *string `json:"due_date"`
		AssignedTo   string  `json:"assigned_to"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid due_date format. Use RFC3339 or YYYY-MM-DD", gin.H{"field": "due_date"})
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), actor, services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     models.TaskPriority(strings.ToLower(req.Priority)),
		DepartmentID: req.DepartmentID,
		DueDate:      dueDate,
		AssignedTo:   req.AssignedTo,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.TaskResponse{
		Task:   dto.ToTaskDTO(*task),
		Notice: dto.NewNotice("Task created", "The task was created successfully."),
	})
}

// UpdateTask applies an edit-dialog patch
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, task, ok := actorAndTask(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title           *string `json:"title"`
		Description     *string `json:"description"`
		Priority        *string `json:"priority"`
		DepartmentID    *string `json:"department_id"`
		ClearDepartment bool    `json:"clear_department"`
		DueDate         *string `json:"due_date"`
		ClearDueDate    bool    `json:"clear_due_date"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid due_date format. Use RFC3339 or YYYY-MM-DD", gin.H{"field": "due_date"})
		return
	}

	input := services.UpdateTaskInput{
		Title:           req.Title,
		Description:     req.Description,
		DepartmentID:    req.DepartmentID,
		ClearDepartment: req.ClearDepartment,
		DueDate:         dueDate,
		ClearDueDate:    req.ClearDueDate,
	}
	if req.Priority != nil {
		priority := models.TaskPriority(strings.ToLower(*req.Priority))
		input.Priority = &priority
	}

	updated, err := h.taskService.UpdateTask(c.Request.Context(), actor, task.ID, input)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskResponse{
		Task:   dto.ToTaskDTO(*updated),
		Notice: dto.NewNotice("Task updated", "The task was updated successfully."),
	})
}

// SetStatus toggles a task between active and completed
func (h *TaskHandler) SetStatus(c *gin.Context) {
	actor, task, ok := actorAndTask(c)
	if !ok {
		return
	}

	type SetStatusRequest struct {
		Completed *bool `json:"completed" binding:"required"`
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.taskService.SetStatus(c.Request.Context(), actor, task.ID, *req.Completed)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskResponse{Task: dto.ToTaskDTO(*updated)})
}

// ReorderTasks handles a drag end: active_id was dropped onto over_id.
func (h *TaskHandler) ReorderTasks(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type ReorderRequest struct {
		ActiveID string `json:"active_id" binding:"required"`
		OverID   string `json:"over_id"`
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.taskService.Reorder(c.Request.Context(), actor, req.ActiveID, req.OverID)
	if err != nil {
		if board == nil {
			apierrors.RespondWithDomainError(c, err)
			return
		}
		// The board is back in its pre-move order; the client re-renders from it.
		apierrors.RespondWithDomainErrorDetails(c, err, gin.H{
			"board": dto.ToBoardDTO(board, actor.ID),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(board, actor.ID))
}

// ShareTask adds a collaborator by email
func (h *TaskHandler) ShareTask(c *gin.Context) {
	actor, task, ok := actorAndTask(c)
	if !ok {
		return
	}

	type ShareRequest struct {
		Email string `json:"email"`
	}

	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.taskService.ShareTask(c.Request.Context(), actor, task.ID, req.Email)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToShareResultDTO(result))
}

// DuplicateTask copies a task for the current user
func (h *TaskHandler) DuplicateTask(c *gin.Context) {
	actor, task, ok := actorAndTask(c)
	if !ok {
		return
	}

	clone, err := h.taskService.DuplicateTask(c.Request.Context(), actor, task.ID)
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.TaskResponse{
		Task:   dto.ToTaskDTO(*clone),
		Notice: dto.NewNotice("Task duplicated", "A copy of the task was created."),
	})
}

// DeleteTask permanently deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, task, ok := actorAndTask(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), actor, task.ID); err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"notice":  dto.NewNotice("Task deleted", "The task was deleted successfully."),
	})
}

func actorAndTask(c *gin.Context) (*services.Actor, *models.Task, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return nil, nil, false
	}
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return nil, nil, false
	}
	return actor, task, true
}

// parseDueDate accepts RFC3339 timestamps and plain dates. nil and "" mean unset.
func parseDueDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	raw := strings.TrimSpace(*value)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
