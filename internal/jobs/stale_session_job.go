package jobs

import (
	"context"
	"fmt"
	"time"

	"levant-va/tower/internal/db/repositories"
	"levant-va/tower/internal/logging"
)

// staleAfter is how long a session may go without a position report or ping
// before it is considered abandoned. Clients that crash never send an end
// request, so the reaper is the only thing that clears them.
const staleAfter = 30 * time.Minute

// StaleSessionJob removes active flight sessions whose clients went silent.
type StaleSessionJob struct {
	activeFlights *repositories.ActiveFlightRepository
	olderThan     time.Duration
}

func NewStaleSessionJob(activeFlights *repositories.ActiveFlightRepository) *StaleSessionJob {
	return &StaleSessionJob{
		activeFlights: activeFlights,
		olderThan:     staleAfter,
	}
}

// Run performs one sweep.
func (j *StaleSessionJob) Run(ctx context.Context) error {
	removed, err := j.activeFlights.DeleteStale(ctx, j.olderThan)
	if err != nil {
		return err
	}
	if removed > 0 {
		logging.Info("Stale sessions reaped", "count", fmt.Sprint(removed))
	}
	return nil
}

// RunScheduled sweeps on a fixed interval until ctx is cancelled.
func (j *StaleSessionJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := j.Run(ctx); err != nil {
		logging.Warn("Stale session sweep failed", "error", err.Error())
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				logging.Warn("Stale session sweep failed", "error", err.Error())
			}
		case <-ctx.Done():
			logging.Info("Stale session job shutting down")
			return
		}
	}
}
