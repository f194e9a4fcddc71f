package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// envelope is the wire shape published to the redis channel.
type envelope struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RedisBus publishes events to a single redis pub/sub channel.
type RedisBus struct {
	client  *redis.Client
	channel string
}

func NewRedisBus(client *redis.Client, channel string) *RedisBus {
	if channel == "" {
		channel = "rental-catalog.events"
	}
	return &RedisBus{client: client, channel: channel}
}

func (b *RedisBus) Emit(ctx context.Context, event string, payload interface{}) error {
	env := envelope{
		ID:        uuid.New().String(),
		Event:     event,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	data, err := json.Marshal(env)
	if err != nil {
		logger.Error("Failed to marshal event payload", err, map[string]interface{}{
			"event": event,
		})
		return err
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		logger.Error("Failed to publish event", err, map[string]interface{}{
			"event":   event,
			"channel": b.channel,
		})
		return err
	}

	logger.Debug("Published event", map[string]interface{}{
		"event":    event,
		"event_id": env.ID,
	})
	return nil
}
