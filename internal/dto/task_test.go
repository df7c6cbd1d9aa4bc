package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/team-task-board/internal/models"
	"github.com/yukikurage/team-task-board/internal/ordering"
	"github.com/yukikurage/team-task-board/internal/sharing"
)

func TestToBoardDTO_Partitions(t *testing.T) {
	board := ordering.NewBoard([]models.Task{
		{ID: "c", Title: "C", Status: models.TaskStatusCompleted, Position: 0},
		{ID: "a", Title: "A", Status: models.TaskStatusActive, Position: 1, SharedWith: []string{"u1"}},
		{ID: "b", Title: "B", Status: models.TaskStatusActive, Position: 2},
	})

	out := ToBoardDTO(board, "u1")

	assert.Len(t, out.Tasks, 3)
	require.Len(t, out.Active, 2)
	assert.Equal(t, "a", out.Active[0].ID)
	assert.Equal(t, "b", out.Active[1].ID)
	require.Len(t, out.Completed, 1)
	assert.Equal(t, "c", out.Completed[0].ID)
	require.Len(t, out.Shared, 1)
	assert.Equal(t, "a", out.Shared[0].ID)
	assert.Equal(t, []string{}, out.Active[1].SharedWith)
}

func TestToBoardDTO_EmptyEncodesArrays(t *testing.T) {
	data, err := json.Marshal(ToBoardDTO(ordering.NewBoard(nil), "u1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks":[],"active":[],"completed":[],"shared":[]}`, string(data))
}

func TestToShareResultDTO_Notice(t *testing.T) {
	shared := ToShareResultDTO(sharing.Result{Outcome: sharing.OutcomeShared, UserID: "u2", SharedWith: []string{"u2"}})
	require.NotNil(t, shared.Notice)
	assert.Equal(t, "Task shared", shared.Notice.Title)

	again := ToShareResultDTO(sharing.Result{Outcome: sharing.OutcomeAlreadyShared, UserID: "u2"})
	require.NotNil(t, again.Notice)
	assert.Equal(t, "Already shared", again.Notice.Title)
	assert.Equal(t, "default", again.Notice.Severity)
	assert.Equal(t, []string{}, again.SharedWith)
}
