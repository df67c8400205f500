package redisnotify

import (
	"context"
	"log/slog"
	"time"

	"moviebook/pkg/broadcast"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const publishTimeout = 2 * time.Second

// Relay mirrors local bookmark changes onto a redis channel and replays
// changes published by other instances into the local hub.
type Relay struct {
	rdb     *redis.Client
	channel string
	hub     *broadcast.Hub
	origin  string
	logger  *slog.Logger
}

// New hooks the relay into hub. Every hub.Notify publishes one message;
// Run must be started to receive messages from other instances.
func New(rdb *redis.Client, channel string, hub *broadcast.Hub, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Relay{
		rdb:     rdb,
		channel: channel,
		hub:     hub,
		origin:  uuid.NewString(),
		logger:  logger.With("component", "redis_relay"),
	}
	hub.OnNotify(r.publish)
	return r
}

// Origin identifies this instance on the channel.
func (r *Relay) Origin() string {
	return r.origin
}

// Run blocks until ctx is done, signalling the hub for every message
// published by another instance.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if msg.Payload == r.origin {
				continue
			}
			r.hub.NotifyLocal()
		}
	}
}

func (r *Relay) publish() {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := r.rdb.Publish(ctx, r.channel, r.origin).Err(); err != nil {
		r.logger.Warn("publish bookmark change failed", "channel", r.channel, "error", err)
	}
}
