package routes

import (
	"github.com/go-chi/chi/v5"

	"levant-va/tower/internal/api"
	"levant-va/tower/internal/middleware"
)

// RegisterAPIRoutes registers the ACARS and review endpoints. Route
// registration is kept separate from router setup.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies) {

	// ACARS client surface. Token auth is optional; the middleware attaches
	// the pilot claim when a valid bearer token is present and handlers fall
	// back to the pilotId in the body otherwise.
	r.Route("/api/acars", func(acars chi.Router) {
		acars.Use(middleware.PilotTokenMiddleware(deps.Services.Tokens))

		acars.Get("/", handlers.StatusHandler())
		acars.Post("/", handlers.DispatchHandler())

		acars.Post("/auth", handlers.AuthHandler())
		acars.Post("/position", handlers.PositionHandler())
		acars.Post("/bid", handlers.BidHandler())
		acars.Post("/start", handlers.StartHandler())
		acars.Post("/end", handlers.EndHandler())
		acars.Post("/ping", handlers.PingHandler())
		acars.Post("/pirep", handlers.PirepSubmitHandler())
	})

	// Review surface for the crew portal.
	r.Route("/api/pireps", func(pireps chi.Router) {
		pireps.Get("/pending", handlers.PendingPirepsHandler())
		pireps.Get("/pilot/{pilotId}", handlers.PilotPirepsHandler())
		pireps.Post("/{id}/review", handlers.PirepReviewHandler())
		pireps.Delete("/{id}", handlers.PirepDeleteHandler())
	})
}
