package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/team-task-board/internal/dto"
	apierrors "github.com/yukikurage/team-task-board/internal/errors"
	"github.com/yukikurage/team-task-board/internal/ordering"
	"github.com/yukikurage/team-task-board/internal/repository"
)

// flakyPositions lets the first position write through and fails the rest
type flakyPositions struct {
	*repository.GormTaskRepository
	writes int
}

func (f *flakyPositions) SetPosition(ctx context.Context, id string, position int) error {
	f.writes++
	if f.writes > 1 {
		return errors.New("connection reset")
	}
	return f.GormTaskRepository.SetPosition(ctx, id, position)
}

func TestReorderTasks_FailureReturnsPreMoveBoard(t *testing.T) {
	env := setupTestEnvWith(t, nil, func(r *repository.GormTaskRepository) repository.TaskRepository {
		return &flakyPositions{GormTaskRepository: r}
	}, ordering.Sequential())
	_, cookies := env.login(t, "owner@team.com", nil)

	for _, title := range []string{"A", "B", "C"} {
		w := env.do(t, http.MethodPost, "/api/tasks", map[string]string{"title": title}, cookies)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/tasks", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	before := decode[dto.BoardDTO](t, w)
	require.Len(t, before.Active, 3)

	w = env.do(t, http.MethodPost, "/api/tasks/reorder", map[string]string{
		"active_id": before.Active[0].ID,
		"over_id":   before.Active[2].ID,
	}, cookies)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	body := decode[struct {
		Code     string `json:"code"`
		Severity string `json:"severity"`
		Details  struct {
			Board dto.BoardDTO `json:"board"`
		} `json:"details"`
	}](t, w)
	assert.Equal(t, apierrors.ErrCodeServiceUnavailable, body.Code)
	assert.Equal(t, "destructive", body.Severity)
	assert.Equal(t, activeTitles(before), activeTitles(body.Details.Board))
}
