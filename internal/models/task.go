package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// NormalizePriority maps anything outside low/medium/high to medium.
func NormalizePriority(p TaskPriority) TaskPriority {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return p
	default:
		return TaskPriorityMedium
	}
}

type Task struct {
	ID           string       `gorm:"type:varchar(36);primarykey" json:"id"`
	Title        string       `gorm:"type:varchar(255);not null" json:"title"`
	Description  string       `gorm:"type:text" json:"description"`
	Priority     TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	DepartmentID *string      `gorm:"type:varchar(36)" json:"department_id"`
	Status       TaskStatus   `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Position     int          `gorm:"not null;default:0" json:"position"`
	DueDate      *time.Time   `json:"due_date"`
	CreatedBy    string       `gorm:"type:varchar(36);not null" json:"created_by"`
	AssignedTo   string       `gorm:"type:varchar(36)" json:"assigned_to"`
	SharedWith   []string     `gorm:"serializer:json;type:text" json:"shared_with"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"-"`
}

// IsSharedWith reports whether userID is a collaborator on the task
func (t *Task) IsSharedWith(userID string) bool {
	return slices.Contains(t.SharedWith, userID)
}

// DepartmentName returns the joined department name, or "" when not preloaded.
func (t *Task) DepartmentName() string {
	if t.Department == nil {
		return ""
	}
	return t.Department.Name
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Task) BeforeSave(tx *gorm.DB) error {
	if t.SharedWith == nil {
		t.SharedWith = []string{}
	}
	t.Priority = NormalizePriority(t.Priority)
	return nil
}

// AfterFind normalizes rows written by older clients.
func (t *Task) AfterFind(tx *gorm.DB) error {
	t.Priority = NormalizePriority(t.Priority)
	if t.SharedWith == nil {
		t.SharedWith = []string{}
	}
	return nil
}
