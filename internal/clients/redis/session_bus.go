package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mindbridge-backend/internal/modules/session"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

// SessionEventBus publishes session lifecycle events over Redis pub/sub so
// companion services (UI push, analytics) can observe transitions.
type SessionEventBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

var _ session.EventPublisher = (*SessionEventBus)(nil)

func NewSessionEventBus(log *logger.Logger) (*SessionEventBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_SESSION_CHANNEL"))
	if ch == "" {
		ch = "session_events"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &SessionEventBus{
		log:     log.With("service", "RedisSessionEventBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *SessionEventBus) PublishSessionEvent(ctx context.Context, ev session.Event) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("session event bus not initialized")
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder subscribes to the channel and invokes onEvent for every
// decoded event until ctx is cancelled.
func (b *SessionEventBus) StartForwarder(ctx context.Context, onEvent func(ev session.Event)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("session event bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var ev session.Event
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					b.log.Warn("bad session event payload", "error", err)
					continue
				}
				onEvent(ev)
			}
		}
	}()

	return nil
}

func (b *SessionEventBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
