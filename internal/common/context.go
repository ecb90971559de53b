package common

import (
	"context"
	"path/filepath"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRunID  contextKey = "run_id"
	ContextKeySource contextKey = "source"
)

// WithRunID adds the batch run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// RunIDFromContext extracts the run ID from context
func RunIDFromContext(ctx context.Context) string {
	if runID, ok := ctx.Value(ContextKeyRunID).(string); ok {
		return runID
	}
	return ""
}

// WithSource adds the source document path to the context
func WithSource(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ContextKeySource, path)
}

// SourceFromContext extracts the source document path from context
func SourceFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(ContextKeySource).(string); ok {
		return p
	}
	return ""
}

// LogAttrs returns the run_id and file attributes carried by ctx, for
// loggers that are deep below the orchestrator.
func LogAttrs(ctx context.Context) []any {
	var attrs []any
	if id := RunIDFromContext(ctx); id != "" {
		attrs = append(attrs, "run_id", id)
	}
	if src := SourceFromContext(ctx); src != "" {
		attrs = append(attrs, "file", filepath.Base(src))
	}
	return attrs
}
