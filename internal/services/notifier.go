package services

import (
	"context"
	"fmt"
	"strconv"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/logging"
	"levant-va/tower/internal/metrics"
)

// Notifier dispatches webhook notifications. Events go through the Redis
// Stream so delivery retries live in the worker, not the request path; when
// the queue is down the event is delivered inline as a degraded fallback.
// Either way the caller never sees an error.
type Notifier struct {
	queue   common.NotifyQueue
	discord *common.DiscordService
	metrics *metrics.MetricsRegistry
}

func NewNotifier(queue common.NotifyQueue, discord *common.DiscordService, reg *metrics.MetricsRegistry) *Notifier {
	return &Notifier{queue: queue, discord: discord, metrics: reg}
}

func (n *Notifier) dispatch(ctx context.Context, event *common.NotificationEvent) {
	if n.metrics != nil {
		n.metrics.NotificationsQueuedTotal.WithLabelValues(string(event.Type)).Inc()
	}

	if n.queue != nil {
		if err := n.queue.Enqueue(ctx, event); err == nil {
			return
		} else {
			logging.Warn("Notification enqueue failed, delivering inline",
				"event_type", string(event.Type), "error", err.Error())
		}
	}

	if n.discord == nil {
		return
	}
	if err := n.discord.Send(ctx, event); err != nil {
		logging.Error("Inline notification delivery failed",
			"event_type", string(event.Type), "error", err.Error())
	}
}

func (n *Notifier) NotifyTakeoff(ctx context.Context, pilotName, pilotID, callsign, origin, destination, aircraft string) {
	n.dispatch(ctx, &common.NotificationEvent{
		Type:      common.EventTakeoff,
		PilotName: pilotName,
		PilotID:   pilotID,
		Fields: map[string]string{
			"callsign":    callsign,
			"origin":      origin,
			"destination": destination,
			"aircraft":    aircraft,
		},
	})
}

func (n *Notifier) NotifyLanding(ctx context.Context, pilotName, pilotID, callsign, destination string, landingRate, score int) {
	n.dispatch(ctx, &common.NotificationEvent{
		Type:      common.EventLanding,
		PilotName: pilotName,
		PilotID:   pilotID,
		Fields: map[string]string{
			"callsign":     callsign,
			"destination":  destination,
			"landing_rate": strconv.Itoa(landingRate),
			"score":        strconv.Itoa(score),
		},
	})
}

func (n *Notifier) NotifyPromotion(ctx context.Context, pilotName, pilotID, rankName, rankImageURL string) {
	n.dispatch(ctx, &common.NotificationEvent{
		Type:      common.EventRankPromotion,
		PilotName: pilotName,
		PilotID:   pilotID,
		Fields: map[string]string{
			"rank_name":      rankName,
			"rank_image_url": rankImageURL,
		},
	})
}

func (n *Notifier) NotifyModeration(ctx context.Context, pilotName, pilotID, category, details string) {
	n.dispatch(ctx, &common.NotificationEvent{
		Type:      common.EventModeration,
		PilotName: pilotName,
		PilotID:   pilotID,
		Fields: map[string]string{
			"category": category,
			"details":  details,
		},
	})
}

func (n *Notifier) NotifyError(ctx context.Context, title string, err error) {
	n.dispatch(ctx, &common.NotificationEvent{
		Type: common.EventError,
		Fields: map[string]string{
			"title":   title,
			"message": fmt.Sprintf("%v", err),
		},
	})
}
