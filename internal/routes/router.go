package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"levant-va/tower/internal/api"
	"levant-va/tower/internal/db"
	"levant-va/tower/internal/jobs"
	"levant-va/tower/internal/logging"
	"levant-va/tower/internal/metrics"
	"levant-va/tower/internal/middleware"
	"levant-va/tower/internal/workers"
)

func RegisterRoutes(upSince time.Time) http.Handler {

	r := chi.NewRouter()

	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	deps, err := api.InitDependencies(metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	handlers := api.NewHandlers(deps)

	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, deps.Redis, upSince))

	// Background workers and jobs share the server's lifetime.
	workers.InitWorkers(context.Background(), deps.Services.NotifyQueue, deps.Services.Discord, metricsReg, 2)
	jobs.InitializeJobs(context.Background(), deps.Repo.ActiveFlights)

	RegisterAPIRoutes(r, handlers, deps)

	return r
}
