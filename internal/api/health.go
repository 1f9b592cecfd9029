package api

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"levant-va/tower/internal/common"
	"levant-va/tower/internal/models/dtos"
)

// HealthCheckHandler handles GET /healthCheck. It reports per-dependency
// status so the uptime monitor can tell a dead database from a dead queue.
func HealthCheckHandler(db *sqlx.DB, rdb *redis.Client, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]dtos.ServiceStatus)

		pgStatus := "ok"
		pgDetails := "Postgres connected"
		if err := db.PingContext(r.Context()); err != nil {
			pgStatus = "down"
			pgDetails = err.Error()
		}
		services["postgres"] = dtos.ServiceStatus{Status: pgStatus, Details: pgDetails}

		redisStatus := "ok"
		redisDetails := "Redis connected"
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			redisStatus = "down"
			redisDetails = err.Error()
		}
		services["redis"] = dtos.ServiceStatus{Status: redisStatus, Details: redisDetails}

		overall := "ok"
		// Redis being down degrades notifications but ACARS keeps working.
		if services["postgres"].Status != "ok" {
			overall = "down"
		}

		resp := dtos.HealthCheckResponse{
			Status:   overall,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
			Services: services,
		}

		code := http.StatusOK
		if overall != "ok" {
			code = http.StatusServiceUnavailable
		}
		common.RespondJSON(w, code, resp)
	}
}
