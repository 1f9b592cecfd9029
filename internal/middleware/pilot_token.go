package middleware

import (
	"net/http"
	"strings"

	"levant-va/tower/internal/auth"
	"levant-va/tower/internal/logging"
)

// PilotTokenMiddleware validates an optional Authorization bearer token and
// attaches the pilot identity to the context. Requests without a token pass
// through untouched; the handlers fall back to the body's pilotId field, so
// older ACARS client builds keep working.
func PilotTokenMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			token, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logging.Warn("Rejected ACARS token", "error", err.Error())
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPilotToken(r.Context(), token)))
		})
	}
}
