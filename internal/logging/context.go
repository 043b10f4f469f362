package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for upload run identifiers.
	FieldRunID = "run_id"
	// FieldTier is the standardized structured logging key for asset tier names.
	FieldTier = "tier"
	// FieldFile is the standardized structured logging key for the file being processed.
	FieldFile = "file"
	// FieldBlobID is the standardized structured logging key for Walrus blob identifiers.
	FieldBlobID = "blob_id"
	// FieldEventType names a machine-readable event for filtering structured logs.
	FieldEventType = "event_type"
	// FieldErrorHint carries a short operator-facing remediation hint.
	FieldErrorHint = "error_hint"
)

type contextKey string

const (
	runIDKey contextKey = "run_id"
	tierKey  contextKey = "tier"
)

// WithRunID annotates context with the upload run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the upload run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(runIDKey).(string)
	return v, ok && v != ""
}

// WithTier annotates context with the tier currently being processed.
func WithTier(ctx context.Context, tier string) context.Context {
	if tier == "" {
		return ctx
	}
	return context.WithValue(ctx, tierKey, tier)
}

// TierFromContext returns the tier name if present.
func TierFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(tierKey).(string)
	return v, ok && v != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if tier, ok := TierFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldTier, tier))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
