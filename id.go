package fvwm

import (
	"context"

	"github.com/google/uuid"
)

// NewID generates a globally unique, time-sortable UUIDv7 (RFC 9562).
// The transport stamps one on each incoming request for correlation.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

type ctxKey int

const requestIDKey ctxKey = 0

// WithRequestID returns a context carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id stamped on the context, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
