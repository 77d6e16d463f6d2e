package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is a private type for context keys.
type contextKey string

// runIDContextKey carries the run ID of the current batch invocation.
const runIDContextKey contextKey = "run_id"

// GenerateRunID creates a unique identifier for one analyzer run.
func GenerateRunID() string {
	return uuid.New().String()
}

// WithRunID stores a run ID in the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDContextKey, runID)
}

// GetRunID returns the run ID from the context, or "" if none is set.
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDContextKey).(string); ok {
		return id
	}
	return ""
}

// EnsureRunID returns a context that carries a run ID, generating one if the
// incoming context has none.
func EnsureRunID(ctx context.Context) context.Context {
	if GetRunID(ctx) == "" {
		return WithRunID(ctx, GenerateRunID())
	}
	return ctx
}
