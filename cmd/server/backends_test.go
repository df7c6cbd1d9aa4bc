package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/team-task-board/internal/constants"
	"github.com/yukikurage/team-task-board/internal/events"
)

// sessionRoundTrip stores a value through store and reads it back on a second request
func sessionRoundTrip(t *testing.T, store sessions.Store) string {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.GET("/set", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set("user_id", "u1")
		require.NoError(t, session.Save())
		c.Status(http.StatusNoContent)
	})
	r.GET("/get", func(c *gin.Context) {
		value, _ := sessions.Default(c).Get("user_id").(string)
		c.String(http.StatusOK, value)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set", nil))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Body.String()
}

func TestSetupBackends_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	b, err := setupBackends(context.Background(), mr.Addr(), "task-events", []byte("secret"), false)
	require.NoError(t, err)
	t.Cleanup(b.close)

	assert.IsType(t, &events.RedisBus{}, b.bus)
	assert.Equal(t, "u1", sessionRoundTrip(t, b.store))
	assert.NotEmpty(t, mr.Keys(), "session should be stored in redis")
}

func TestSetupBackends_FallsBackWithoutRedis(t *testing.T) {
	b, err := setupBackends(context.Background(), "127.0.0.1:1", "task-events", []byte("secret"), false)
	require.NoError(t, err)
	t.Cleanup(b.close)

	assert.Equal(t, events.Nop{}, b.bus)
	assert.Equal(t, "u1", sessionRoundTrip(t, b.store))
}
