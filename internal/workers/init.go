package workers

import (
	"context"
	"fmt"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/metrics"
)

type WorkersContainer struct {
	Notify []*NotifyWorker
}

// InitWorkers starts the background consumers. Notification delivery runs on
// a small pool so a slow webhook does not back up the stream.
func InitWorkers(
	ctx context.Context,
	queue *common.RedisNotifyQueue,
	discord *common.DiscordService,
	metricsReg *metrics.MetricsRegistry,
	numNotifyWorkers int,
) *WorkersContainer {
	if numNotifyWorkers <= 0 {
		numNotifyWorkers = 2
	}

	container := &WorkersContainer{}
	for i := 0; i < numNotifyWorkers; i++ {
		w := NewNotifyWorker(fmt.Sprintf("notify-%d", i), queue, discord, metricsReg)
		container.Notify = append(container.Notify, w)
		go w.Start(ctx)
	}
	return container
}
