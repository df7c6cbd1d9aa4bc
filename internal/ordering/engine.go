package ordering

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	apierrors "github.com/yukikurage/team-task-board/internal/errors"
	"github.com/yukikurage/team-task-board/internal/models"
)

// Placement is one persisted position write
type Placement struct {
	TaskID   string
	Position int
}

// PositionWriter persists a single task position
type PositionWriter interface {
	SetPosition(ctx context.Context, taskID string, position int) error
}

// BatchPositionWriter persists many positions atomically
type BatchPositionWriter interface {
	PositionWriter
	SetPositions(ctx context.Context, placements []Placement) error
}

// Engine moves a task within the active partition of a Board and persists
// the resulting order.
type Engine struct {
	writer     PositionWriter
	sequential bool
}

// Option configures an Engine
type Option func(*Engine)

// Sequential forces one write per task even when the writer supports batches.
func Sequential() Option {
	return func(e *Engine) {
		e.sequential = true
	}
}

// NewEngine creates a new Engine
func NewEngine(writer PositionWriter, opts ...Option) *Engine {
	e := &Engine{writer: writer}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reorder moves activeID to the slot held by overID. Unknown ids and
// activeID == overID are no-ops and report moved == false.
//
// The board is updated before anything is written. If persisting fails the
// board is restored to its previous order and a transient error is returned.
// In sequential mode writes made before the failure stay in the database.
func (e *Engine) Reorder(ctx context.Context, b *Board, activeID, overID string) (bool, error) {
	if activeID == overID {
		return false, nil
	}

	active := b.Active()
	from, to := indexOf(active, activeID), indexOf(active, overID)
	if from == -1 || to == -1 {
		log.WithFields(log.Fields{"active_id": activeID, "over_id": overID}).Debug("Ignoring stale reorder")
		return false, nil
	}

	ids := make([]string, len(active))
	for i, t := range active {
		ids[i] = t.ID
	}
	ids = Move(ids, from, to)

	snapshot := b.Snapshot()
	b.applyActiveOrder(ids)

	placements := make([]Placement, len(ids))
	for i, id := range ids {
		placements[i] = Placement{TaskID: id, Position: i}
	}

	if err := e.persist(ctx, placements); err != nil {
		b.Restore(snapshot)
		return true, apierrors.Transient("failed to update positions", err)
	}
	return true, nil
}

func (e *Engine) persist(ctx context.Context, placements []Placement) error {
	if batch, ok := e.writer.(BatchPositionWriter); ok && !e.sequential {
		return batch.SetPositions(ctx, placements)
	}

	for i, p := range placements {
		if err := e.writer.SetPosition(ctx, p.TaskID, p.Position); err != nil {
			log.WithFields(log.Fields{
				"task_id": p.TaskID,
				"written": i,
				"total":   len(placements),
			}).WithError(err).Warn("Position write failed, earlier writes kept")
			return fmt.Errorf("set position of %s: %w", p.TaskID, err)
		}
	}
	return nil
}

func indexOf(tasks []models.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
