package middleware

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/yukikurage/team-task-board/internal/constants"
	apierrors "github.com/yukikurage/team-task-board/internal/errors"
	"github.com/yukikurage/team-task-board/internal/services"
)

// LoadActor resolves the session user into a services.Actor.
// Must run after RequireAuth.
func LoadActor(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		actor, err := authService.Actor(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				// Session outlived the profile.
				session := sessions.Default(c)
				session.Clear()
				_ = session.Save()
				apierrors.Unauthorized(c, "")
				c.Abort()
				return
			}
			log.WithField("user_id", userID).WithError(err).Error("Failed to load actor")
			apierrors.ServiceUnavailable(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyActor, actor)
		c.Next()
	}
}

// GetActor retrieves the actor stored by LoadActor
func GetActor(c *gin.Context) (*services.Actor, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return nil, false
	}
	actor, ok := value.(*services.Actor)
	return actor, ok
}
