package common

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"levant-va/tower/internal/models/dtos"
)

// FlightBroadcaster pushes position updates to the live-map distribution
// channel. Implementations are best-effort; callers log and move on.
type FlightBroadcaster interface {
	BroadcastFlightUpdate(ctx context.Context, update *dtos.FlightUpdate) error
}

// RedisBroadcaster publishes flight updates on a Redis pub/sub channel the
// dashboard websocket bridge subscribes to.
type RedisBroadcaster struct {
	client  *redis.Client
	channel string
}

var _ FlightBroadcaster = (*RedisBroadcaster)(nil)

func NewRedisBroadcaster(client *redis.Client) *RedisBroadcaster {
	channel := os.Getenv("LIVE_MAP_CHANNEL")
	if channel == "" {
		channel = "tower:flight-updates"
	}
	return &RedisBroadcaster{client: client, channel: channel}
}

func (b *RedisBroadcaster) BroadcastFlightUpdate(ctx context.Context, update *dtos.FlightUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal flight update: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish flight update: %w", err)
	}
	return nil
}
