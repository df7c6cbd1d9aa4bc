package sharing

import (
	"context"
	"errors"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	apierrors "github.com/yukikurage/team-task-board/internal/errors"
)

// Outcome of a share request that did not fail
type Outcome string

const (
	OutcomeShared        Outcome = "shared"
	OutcomeAlreadyShared Outcome = "already_shared"
)

// Directory resolves collaborator emails to user ids.
// A missing user is reported as gorm.ErrRecordNotFound.
type Directory interface {
	LookupUserID(ctx context.Context, email string) (string, error)
}

// CollaboratorStore reads and writes a task's shared_with set.
// A missing task is reported as gorm.ErrRecordNotFound.
type CollaboratorStore interface {
	SharedWith(ctx context.Context, taskID string) ([]string, error)
	SetSharedWith(ctx context.Context, taskID string, userIDs []string) error
}

// Result describes a completed share request
type Result struct {
	Outcome    Outcome
	UserID     string
	SharedWith []string
}

// Engine adds collaborators to tasks
type Engine struct {
	directory Directory
	store     CollaboratorStore
}

// NewEngine creates a new Engine
func NewEngine(directory Directory, store CollaboratorStore) *Engine {
	return &Engine{
		directory: directory,
		store:     store,
	}
}

// Share adds the user registered under email to the task's collaborators.
//
// The current set is re-read right before writing, but read and write are not
// atomic: two concurrent shares of the same task can both read the old set and
// the later write wins. After a write the returned SharedWith is read back from
// the store, so it reflects what was persisted.
func (e *Engine) Share(ctx context.Context, taskID, email string) (Result, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Result{}, apierrors.Validation("email required")
	}

	userID, err := e.directory.LookupUserID(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Result{}, apierrors.NotFoundError("user not found")
		}
		return Result{}, apierrors.Transient("failed to look up user", err)
	}

	current, err := e.store.SharedWith(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Result{}, apierrors.NotFoundError("task not found")
		}
		return Result{}, apierrors.Transient("failed to load collaborators", err)
	}

	updated, added := AddToSet(current, userID)
	if !added {
		return Result{Outcome: OutcomeAlreadyShared, UserID: userID, SharedWith: updated}, nil
	}

	if err := e.store.SetSharedWith(ctx, taskID, updated); err != nil {
		return Result{}, apierrors.Transient("failed to share task", err)
	}

	log.WithFields(log.Fields{"task_id": taskID, "user_id": userID}).Info("Task shared")

	stored, err := e.store.SharedWith(ctx, taskID)
	if err != nil {
		log.WithField("task_id", taskID).WithError(err).Warn("Failed to re-read collaborators after share")
		return Result{Outcome: OutcomeShared, UserID: userID, SharedWith: updated}, nil
	}
	return Result{Outcome: OutcomeShared, UserID: userID, SharedWith: Unique(stored)}, nil
}

// AddToSet returns the deduplicated union of set and id, dropping empty ids,
// and whether id was not already present.
func AddToSet(set []string, id string) ([]string, bool) {
	result := Unique(set)
	if slices.Contains(result, id) {
		return result, false
	}
	return append(result, id), true
}

// Unique removes duplicates and empty values, keeping first occurrences
func Unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values)+1)

	for _, v := range values {
		if v == "" {
			continue
		}
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
