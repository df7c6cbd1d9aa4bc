package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/yukikurage/team-task-board/internal/dto"
	apierrors "github.com/yukikurage/team-task-board/internal/errors"
	"github.com/yukikurage/team-task-board/internal/middleware"
)

// StreamTasks pushes the actor's board as server-sent "board" events: once on
// connect, then again after every task change anywhere.
func (h *TaskHandler) StreamTasks(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	ctx := c.Request.Context()
	feed, err := h.subscriber.Subscribe(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to subscribe to task events")
		apierrors.ServiceUnavailable(c, "Event stream unavailable")
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	sendBoard := func() {
		board, err := h.taskService.Board(ctx, actor)
		if err != nil {
			log.WithField("actor_id", actor.ID).WithError(err).Warn("Failed to refetch board for stream")
			c.SSEvent("error", gin.H{"message": "Failed to load tasks"})
			return
		}
		c.SSEvent("board", dto.ToBoardDTO(board, actor.ID))
	}

	sendBoard()
	c.Writer.Flush()

	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case _, ok := <-feed:
			if !ok {
				return false
			}
			sendBoard()
			return true
		}
	})
}
