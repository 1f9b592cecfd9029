package auth

import "context"

type contextKey string

const pilotTokenKey contextKey = "pilotToken"

// WithPilotToken attaches a validated token identity to the request context.
func WithPilotToken(ctx context.Context, token *PilotToken) context.Context {
	return context.WithValue(ctx, pilotTokenKey, token)
}

// PilotTokenFromContext returns the token identity, if the request carried a
// valid Authorization header. Most ACARS routes also accept the body pilotId,
// so callers treat a nil result as anonymous rather than rejecting.
func PilotTokenFromContext(ctx context.Context) *PilotToken {
	token, _ := ctx.Value(pilotTokenKey).(*PilotToken)
	return token
}
