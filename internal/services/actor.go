package services

import (
	"github.com/yukikurage/team-task-board/internal/models"
	"github.com/yukikurage/team-task-board/internal/repository"
)

// Actor is the authenticated user a request acts for
type Actor struct {
	ID           string
	Email        string
	DepartmentID string
	IsAdmin      bool
}

// Scope returns which tasks the actor may see: everything for admins,
// the whole department for department members, otherwise tasks the
// actor created, is assigned to, or was shared into.
func (a *Actor) Scope() repository.Scope {
	switch {
	case a.IsAdmin:
		return repository.Scope{All: true}
	case a.DepartmentID != "":
		return repository.Scope{DepartmentID: a.DepartmentID}
	default:
		return repository.Scope{UserID: a.ID}
	}
}

// CanSee reports whether task falls inside the actor's scope
func (a *Actor) CanSee(task *models.Task) bool {
	scope := a.Scope()
	switch {
	case scope.All:
		return true
	case scope.DepartmentID != "":
		return task.DepartmentID != nil && *task.DepartmentID == scope.DepartmentID
	default:
		return task.CreatedBy == a.ID || task.AssignedTo == a.ID || task.IsSharedWith(a.ID)
	}
}
