package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	uuid "github.com/gofrs/uuid"

	"github.com/linkmark/api/internal/pkg/log"
	platformconfig "github.com/linkmark/api/internal/platform/config"
)

// RedisFeed carries change events over Redis pub/sub, one channel per owner.
type RedisFeed struct {
	client redis.UniversalClient
}

var _ Publisher = (*RedisFeed)(nil)
var _ Subscriber = (*RedisFeed)(nil)

// NewRedisFeed connects a change feed to Redis.
func NewRedisFeed(cfg *platformconfig.RedisConfig) (*RedisFeed, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.Database,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxConnAge:   cfg.MaxConnAge,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisFeed{client: client}, nil
}

// NewRedisFeedWithClient wraps an existing client, used by tests.
func NewRedisFeedWithClient(client redis.UniversalClient) *RedisFeed {
	return &RedisFeed{client: client}
}

// Publish sends the event on the owner's channel. The owner is taken from the
// event record.
func (f *RedisFeed) Publish(ctx context.Context, event ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}

	channel := ChannelFor(event.Record.OwnerID)
	if err := f.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}

	return nil
}

// Subscribe opens the owner's change stream. Malformed payloads are logged and
// skipped so one bad message cannot wedge the stream.
func (f *RedisFeed) Subscribe(ctx context.Context, ownerID uuid.UUID) (<-chan ChangeEvent, func(), error) {
	pubsub := f.client.Subscribe(ctx, ChannelFor(ownerID))

	// Force the subscription to be established before returning.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe to change feed: %w", err)
	}

	events := make(chan ChangeEvent)
	done := make(chan struct{})

	go func() {
		defer close(events)
		src := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-src:
				if !ok {
					return
				}
				var event ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Warn("change feed: dropping malformed event for owner %s: %v", ownerID, err)
					continue
				}
				select {
				case events <- event:
				case <-done:
					return
				}
			}
		}
	}()

	cancel := func() {
		close(done)
		pubsub.Close()
	}

	return events, cancel, nil
}

// Close releases the underlying Redis client.
func (f *RedisFeed) Close() error {
	return f.client.Close()
}
