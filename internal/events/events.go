package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Event types
const (
	TaskCreated    = "task.created"
	TaskUpdated    = "task.updated"
	TaskDeleted    = "task.deleted"
	TasksReordered = "tasks.reordered"
	TaskShared     = "task.shared"
)

// Event tells subscribers that task data changed and should be re-fetched.
type Event struct {
	Type    string    `json:"type"`
	TaskID  string    `json:"task_id,omitempty"`
	ActorID string    `json:"actor_id"`
	At      time.Time `json:"at"`
}

// Publisher announces task changes
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Subscriber delivers task changes until ctx is done
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan Event, error)
}

// Bus is both ends of the change feed
type Bus interface {
	Publisher
	Subscriber
}

// RedisBus fans events out over a Redis pub/sub channel
type RedisBus struct {
	rdb     *redis.Client
	channel string
}

// NewRedisBus creates a new RedisBus
func NewRedisBus(rdb *redis.Client, channel string) *RedisBus {
	return &RedisBus{rdb: rdb, channel: channel}
}

// Publish sends ev to every subscriber
func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, data).Err()
}

// Subscribe returns a channel of events that is closed when ctx is done.
// Undecodable payloads are logged and skipped.
func (b *RedisBus) Subscribe(ctx context.Context) (<-chan Event, error) {
	sub := b.rdb.Subscribe(ctx, b.channel)
	// Wait for the subscription confirmation so no publish is missed.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.WithError(err).Warn("Unable to decode task event")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Nop drops every event. Used when Redis is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Subscribe returns a channel that closes with ctx
func (Nop) Subscribe(ctx context.Context) (<-chan Event, error) {
	out := make(chan Event)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, nil
}
