package ordering

import (
	"sort"

	"github.com/yukikurage/team-task-board/internal/models"
)

// BoardFilter narrows a view. Empty fields match everything.
type BoardFilter struct {
	Priority     models.TaskPriority
	DepartmentID string
}

func (f BoardFilter) matches(t models.Task) bool {
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.DepartmentID != "" && (t.DepartmentID == nil || *t.DepartmentID != f.DepartmentID) {
		return false
	}
	return true
}

// Board is the single ordered collection of tasks visible to one actor.
// The active/completed/shared partitions are derived on every read.
type Board struct {
	tasks []models.Task
}

// NewBoard copies tasks and orders them by position. Ties keep input order.
func NewBoard(tasks []models.Task) *Board {
	b := &Board{tasks: make([]models.Task, len(tasks))}
	copy(b.tasks, tasks)
	b.sort()
	return b
}

func (b *Board) sort() {
	sort.SliceStable(b.tasks, func(i, j int) bool {
		return b.tasks[i].Position < b.tasks[j].Position
	})
}

// Tasks returns every task on the board in order
func (b *Board) Tasks() []models.Task {
	return b.view(func(models.Task) bool { return true })
}

// Active returns the active partition in order
func (b *Board) Active() []models.Task {
	return b.view(func(t models.Task) bool { return t.Status == models.TaskStatusActive })
}

// Completed returns the completed partition in order
func (b *Board) Completed() []models.Task {
	return b.view(func(t models.Task) bool { return t.Status == models.TaskStatusCompleted })
}

// SharedWith returns tasks on which userID is a collaborator
func (b *Board) SharedWith(userID string) []models.Task {
	return b.view(func(t models.Task) bool { return t.IsSharedWith(userID) })
}

// Filter returns a new board holding only the tasks matching f.
func (b *Board) Filter(f BoardFilter) *Board {
	return &Board{tasks: b.view(f.matches)}
}

// Find returns the task with the given id
func (b *Board) Find(id string) (models.Task, bool) {
	for _, t := range b.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func (b *Board) view(keep func(models.Task) bool) []models.Task {
	result := make([]models.Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}

// Snapshot captures the current order for Restore.
func (b *Board) Snapshot() []models.Task {
	return b.Tasks()
}

// Restore replaces the board contents with a snapshot
func (b *Board) Restore(snapshot []models.Task) {
	b.tasks = make([]models.Task, len(snapshot))
	copy(b.tasks, snapshot)
}

// applyActiveOrder sets position = rank for the given active ids.
// Tasks outside ids keep their position.
func (b *Board) applyActiveOrder(ids []string) {
	rank := make(map[string]int, len(ids))
	for i, id := range ids {
		rank[id] = i
	}
	for i := range b.tasks {
		if r, ok := rank[b.tasks[i].ID]; ok {
			b.tasks[i].Position = r
		}
	}
	// Active tasks go first so position ties with other partitions keep them ahead.
	active := make([]models.Task, 0, len(ids))
	rest := make([]models.Task, 0, len(b.tasks)-len(ids))
	for _, t := range b.tasks {
		if _, ok := rank[t.ID]; ok {
			active = append(active, t)
		} else {
			rest = append(rest, t)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return rank[active[i].ID] < rank[active[j].ID] })
	b.tasks = append(active, rest...)
	b.sort()
}
