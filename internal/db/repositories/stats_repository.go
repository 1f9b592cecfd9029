package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// AirlineStats is the aggregate block on the ops dashboard.
type AirlineStats struct {
	ActivePilots   int64   `db:"active_pilots"`
	LiveFlights    int64   `db:"live_flights"`
	PendingPireps  int64   `db:"pending_pireps"`
	FlightsToday   int64   `db:"flights_today"`
	TotalFlights   int64   `db:"total_flights"`
	TotalHours     float64 `db:"total_hours"`
	CreditsAwarded int64   `db:"credits_awarded"`
}

// StatsRepository runs the raw aggregate queries behind the dashboard. These
// stay on sqlx: they cross tables and return scalars, which is a poor fit for
// the model-bound ORM layer.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db}
}

const airlineStatsQuery = `
SELECT
	(SELECT COUNT(*) FROM pilots WHERE status = 'Active')                                  AS active_pilots,
	(SELECT COUNT(*) FROM active_flights WHERE last_update >= NOW() - INTERVAL '10 minutes') AS live_flights,
	(SELECT COUNT(*) FROM flights WHERE approved_status = 0)                               AS pending_pireps,
	(SELECT COUNT(*) FROM flights WHERE submitted_at >= date_trunc('day', NOW()))          AS flights_today,
	(SELECT COUNT(*) FROM flights WHERE approved_status <> 2)                              AS total_flights,
	(SELECT COALESCE(SUM(flight_time), 0) / 60.0 FROM flights WHERE approved_status = 1)   AS total_hours,
	(SELECT COALESCE(SUM(credits_earned), 0) FROM flights WHERE approved_status = 1)       AS credits_awarded
`

func (r *StatsRepository) GetAirlineStats(ctx context.Context) (*AirlineStats, error) {
	var stats AirlineStats
	if err := r.db.QueryRowxContext(ctx, airlineStatsQuery).StructScan(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
