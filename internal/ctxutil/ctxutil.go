// Package ctxutil provides shared context key accessors.
//
// The CLI stamps every run with an invocation id at startup. The command
// layer, the journal, and log records all read it from the context instead
// of threading it through every call site.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const keyInvocationID contextKey = "invocation_id"

// WithInvocationID returns a new context carrying the given invocation id.
func WithInvocationID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, keyInvocationID, id)
}

// InvocationIDFromContext extracts the invocation id from the context.
func InvocationIDFromContext(ctx context.Context) uuid.UUID {
	if v, ok := ctx.Value(keyInvocationID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}
