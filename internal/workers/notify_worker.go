package workers

import (
	"context"
	"fmt"
	"time"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/logging"
	"levant-va/tower/internal/metrics"
)

const notifyConsumerGroup = "notify-workers"

// NotifyWorker drains the notification stream and delivers each event to
// Discord. Delivery failures are acked anyway; a webhook that 400s once will
// 400 forever and must not wedge the stream.
type NotifyWorker struct {
	workerID string
	queue    *common.RedisNotifyQueue
	discord  *common.DiscordService
	metrics  *metrics.MetricsRegistry
}

func NewNotifyWorker(workerID string, queue *common.RedisNotifyQueue, discord *common.DiscordService, metricsReg *metrics.MetricsRegistry) *NotifyWorker {
	return &NotifyWorker{
		workerID: workerID,
		queue:    queue,
		discord:  discord,
		metrics:  metricsReg,
	}
}

// Start runs the consume loop until ctx is cancelled.
func (w *NotifyWorker) Start(ctx context.Context) {
	if err := w.queue.CreateConsumerGroup(ctx, notifyConsumerGroup); err != nil {
		logging.Warn("Failed to create notify consumer group", "error", err.Error())
	}

	logging.Info("Notify worker started", "worker", w.workerID, "stream", w.queue.Stream())

	delivered := 0
	failed := 0
	for {
		select {
		case <-ctx.Done():
			logging.Info("Notify worker stopping",
				"worker", w.workerID, "delivered", fmt.Sprint(delivered), "failed", fmt.Sprint(failed))
			return
		default:
			event, messageID, err := w.queue.Dequeue(ctx, notifyConsumerGroup, w.workerID, 5*time.Second)
			if err != nil {
				logging.Warn("Notify dequeue failed", "worker", w.workerID, "error", err.Error())
				time.Sleep(2 * time.Second)
				continue
			}
			if event == nil && messageID == "" {
				continue
			}

			if event != nil {
				if err := w.discord.Send(ctx, event); err != nil {
					failed++
					if w.metrics != nil {
						w.metrics.NotificationsFailedTotal.Inc()
					}
					logging.Warn("Notification delivery failed",
						"worker", w.workerID, "type", string(event.Type), "error", err.Error())
				} else {
					delivered++
					if w.metrics != nil {
						w.metrics.NotificationsDeliveredTotal.WithLabelValues(string(event.Type)).Inc()
					}
				}
			}

			if messageID != "" {
				if err := w.queue.Ack(ctx, notifyConsumerGroup, messageID); err != nil {
					logging.Warn("Notify ack failed", "worker", w.workerID, "message_id", messageID, "error", err.Error())
				}
			}
		}
	}
}
