package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for the resolution run ID.
	RunIDKey contextKey = "run_id"

	// ConfigPathKey is the context key for the configuration file path.
	ConfigPathKey contextKey = "config_path"

	// ModeKey is the context key for the resolved run mode.
	ModeKey contextKey = "mode"

	// TriggerKey is the context key for what started a resolution
	// (command, file change, cycle, signal).
	TriggerKey contextKey = "trigger"
)

// contextKeys lists the keys extracted into log records, in output order.
var contextKeys = []contextKey{RunIDKey, ConfigPathKey, ModeKey, TriggerKey}

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	return getString(ctx, RunIDKey)
}

// WithConfigPath adds the configuration path to the context.
func WithConfigPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ConfigPathKey, path)
}

// GetConfigPath retrieves the configuration path from the context.
func GetConfigPath(ctx context.Context) string {
	return getString(ctx, ConfigPathKey)
}

// WithMode adds the run mode to the context.
func WithMode(ctx context.Context, mode string) context.Context {
	return context.WithValue(ctx, ModeKey, mode)
}

// GetMode retrieves the run mode from the context.
func GetMode(ctx context.Context) string {
	return getString(ctx, ModeKey)
}

// WithTrigger records what started the current resolution.
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, TriggerKey, trigger)
}

// GetTrigger retrieves the trigger from the context.
func GetTrigger(ctx context.Context) string {
	return getString(ctx, TriggerKey)
}

func getString(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// extractContextFields returns key/value pairs for every run field set in ctx.
func extractContextFields(ctx context.Context) []any {
	var fields []any
	for _, key := range contextKeys {
		if v := getString(ctx, key); v != "" {
			fields = append(fields, string(key), v)
		}
	}
	return fields
}

// contextHandler adds the run fields found in the record's context, so plain
// *slog.Logger callers get them through the *Context methods.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	fields := extractContextFields(ctx)
	for i := 0; i+1 < len(fields); i += 2 {
		r.AddAttrs(slog.String(fields[i].(string), fields[i+1].(string)))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}
