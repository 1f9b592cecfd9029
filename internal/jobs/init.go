package jobs

import (
	"context"
	"time"

	"levant-va/tower/internal/db/repositories"
)

type JobsContainer struct {
	StaleSessions *StaleSessionJob
}

// InitializeJobs starts the scheduled background jobs.
func InitializeJobs(ctx context.Context, activeFlights *repositories.ActiveFlightRepository) *JobsContainer {
	staleJob := NewStaleSessionJob(activeFlights)
	go staleJob.RunScheduled(ctx, 5*time.Minute)

	return &JobsContainer{
		StaleSessions: staleJob,
	}
}
