package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/yukikurage/team-task-board/internal/events"
)

// backends holds the Redis-dependent pieces of the server
type backends struct {
	store sessions.Store
	bus   events.Bus
	close func()
}

// setupBackends uses Redis for sessions and the change feed when it answers a
// ping. Otherwise sessions live in signed cookies and live updates are off.
func setupBackends(ctx context.Context, addr, channel string, secret []byte, secure bool) (*backends, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b *backends
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		log.WithError(err).WithField("addr", addr).Warn("Redis unreachable, using cookie sessions and disabling live updates")
		b = &backends{
			store: cookie.NewStore(secret),
			bus:   events.Nop{},
			close: func() {},
		}
	} else {
		store, err := redisStore.NewStore(
			10,     // Redis pool size
			"tcp",  // network type
			addr,   // Redis address from config
			"",     // username (empty for default user)
			"",     // password (empty = no password)
			secret, // authentication key
		)
		if err != nil {
			rdb.Close()
			return nil, err
		}
		b = &backends{
			store: store,
			bus:   events.NewRedisBus(rdb, channel),
			close: func() { rdb.Close() },
		}
	}

	b.store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return b, nil
}
