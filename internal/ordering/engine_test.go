package ordering

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/yukikurage/team-task-board/internal/errors"
	"github.com/yukikurage/team-task-board/internal/models"
)

// fakeWriter records single writes and fails on the failAt-th call (1-based).
type fakeWriter struct {
	writes []Placement
	calls  int
	failAt int
}

func (w *fakeWriter) SetPosition(_ context.Context, taskID string, position int) error {
	w.calls++
	if w.failAt > 0 && w.calls == w.failAt {
		return errors.New("connection reset")
	}
	w.writes = append(w.writes, Placement{TaskID: taskID, Position: position})
	return nil
}

type fakeBatchWriter struct {
	fakeWriter
	batches [][]Placement
	err     error
}

func (w *fakeBatchWriter) SetPositions(_ context.Context, placements []Placement) error {
	if w.err != nil {
		return w.err
	}
	w.batches = append(w.batches, placements)
	return nil
}

func abcBoard() *Board {
	return NewBoard([]models.Task{
		task("A", models.TaskStatusActive, 0),
		task("B", models.TaskStatusActive, 1),
		task("C", models.TaskStatusActive, 2),
	})
}

func TestReorder_DragAOntoC_Sequential(t *testing.T) {
	w := &fakeWriter{}
	b := abcBoard()

	moved, err := NewEngine(w).Reorder(context.Background(), b, "A", "C")

	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, []string{"B", "C", "A"}, ids(b.Active()))
	assert.Equal(t, []Placement{{"B", 0}, {"C", 1}, {"A", 2}}, w.writes)
}

func TestReorder_SameIDIsNoop(t *testing.T) {
	w := &fakeWriter{}
	b := abcBoard()

	moved, err := NewEngine(w).Reorder(context.Background(), b, "B", "B")

	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, []string{"A", "B", "C"}, ids(b.Active()))
	assert.Zero(t, w.calls)
}

func TestReorder_StaleIDIsNoop(t *testing.T) {
	w := &fakeWriter{}
	b := abcBoard()

	moved, err := NewEngine(w).Reorder(context.Background(), b, "A", "gone")
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = NewEngine(w).Reorder(context.Background(), b, "gone", "A")
	require.NoError(t, err)
	assert.False(t, moved)

	assert.Zero(t, w.calls)
}

func TestReorder_CompletedTaskIsNotReorderable(t *testing.T) {
	w := &fakeWriter{}
	b := NewBoard([]models.Task{
		task("A", models.TaskStatusActive, 0),
		task("X", models.TaskStatusCompleted, 1),
	})

	moved, err := NewEngine(w).Reorder(context.Background(), b, "X", "A")

	require.NoError(t, err)
	assert.False(t, moved)
	assert.Zero(t, w.calls)
}

func TestReorder_SecondWriteFailsRevertsBoard(t *testing.T) {
	w := &fakeWriter{failAt: 2}
	b := abcBoard()

	moved, err := NewEngine(w).Reorder(context.Background(), b, "A", "C")

	require.Error(t, err)
	assert.True(t, moved)
	assert.True(t, apierrors.IsKind(err, apierrors.KindTransient))
	assert.Equal(t, []string{"A", "B", "C"}, ids(b.Active()))
	// First write stays persisted
	assert.Equal(t, []Placement{{"B", 0}}, w.writes)
}

func TestReorder_UsesBatchWhenAvailable(t *testing.T) {
	w := &fakeBatchWriter{}
	b := abcBoard()

	moved, err := NewEngine(w).Reorder(context.Background(), b, "C", "A")

	require.NoError(t, err)
	assert.True(t, moved)
	require.Len(t, w.batches, 1)
	assert.Equal(t, []Placement{{"C", 0}, {"A", 1}, {"B", 2}}, w.batches[0])
	assert.Zero(t, w.calls)
}

func TestReorder_BatchFailureRevertsBoard(t *testing.T) {
	w := &fakeBatchWriter{err: errors.New("deadlock")}
	b := abcBoard()

	_, err := NewEngine(w).Reorder(context.Background(), b, "C", "A")

	require.Error(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, ids(b.Active()))
}

func TestReorder_SequentialOptionIgnoresBatch(t *testing.T) {
	w := &fakeBatchWriter{}
	b := abcBoard()

	_, err := NewEngine(w, Sequential()).Reorder(context.Background(), b, "A", "B")

	require.NoError(t, err)
	assert.Empty(t, w.batches)
	assert.Equal(t, 3, w.calls)
}

func TestReorder_GapsAreCompacted(t *testing.T) {
	w := &fakeWriter{}
	b := NewBoard([]models.Task{
		task("A", models.TaskStatusActive, 3),
		task("B", models.TaskStatusActive, 3),
		task("C", models.TaskStatusActive, 10),
	})

	_, err := NewEngine(w).Reorder(context.Background(), b, "C", "B")

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B"}, ids(b.Active()))
	assert.Equal(t, []Placement{{"A", 0}, {"C", 1}, {"B", 2}}, w.writes)
}
