package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NotifyQueue decouples webhook delivery from the request lifecycle. Handlers
// enqueue; the notify worker drains and delivers with its own failure policy.
type NotifyQueue interface {
	Enqueue(ctx context.Context, event *NotificationEvent) error
}

// RedisNotifyQueue implements NotifyQueue on a Redis Stream.
type RedisNotifyQueue struct {
	client *redis.Client
	stream string
}

var _ NotifyQueue = (*RedisNotifyQueue)(nil)

func NewRedisNotifyQueue(client *redis.Client, stream string) *RedisNotifyQueue {
	if stream == "" {
		stream = "tower:notifications"
	}
	return &RedisNotifyQueue{client: client, stream: stream}
}

func (q *RedisNotifyQueue) Stream() string {
	return q.stream
}

func (q *RedisNotifyQueue) Enqueue(ctx context.Context, event *NotificationEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]interface{}{"data": string(data)},
	}
	if _, err := q.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}
	return nil
}

// CreateConsumerGroup ensures the worker group exists; BUSYGROUP is fine.
func (q *RedisNotifyQueue) CreateConsumerGroup(ctx context.Context, group string) error {
	err := q.client.XGroupCreateMkStream(ctx, q.stream, group, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

// Dequeue blocks up to blockTime for the next event. A nil event with nil
// error means the read timed out.
func (q *RedisNotifyQueue) Dequeue(ctx context.Context, group, consumer string, blockTime time.Duration) (*NotificationEvent, string, error) {
	args := &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{q.stream, ">"},
		Count:    1,
		Block:    blockTime,
	}

	streams, err := q.client.XReadGroup(ctx, args).Result()
	if err == redis.Nil {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	msg := streams[0].Messages[0]
	raw, ok := msg.Values["data"].(string)
	if !ok {
		return nil, msg.ID, fmt.Errorf("malformed stream entry %s", msg.ID)
	}

	var event NotificationEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return nil, msg.ID, fmt.Errorf("failed to unmarshal event %s: %w", msg.ID, err)
	}
	return &event, msg.ID, nil
}

// Ack acknowledges a processed message.
func (q *RedisNotifyQueue) Ack(ctx context.Context, group, messageID string) error {
	return q.client.XAck(ctx, q.stream, group, messageID).Err()
}
