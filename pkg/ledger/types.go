package ledger

import (
	"context"
	"time"
)

// Outcome values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Record is one configuration resolution.
type Record struct {
	ID         string    `json:"id" yaml:"id"`
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`

	// Trigger names what caused the resolution: validate, window, watch,
	// reload or schedule.
	Trigger    string `json:"trigger" yaml:"trigger"`
	ConfigPath string `json:"config_path" yaml:"config_path"`

	Outcome string `json:"outcome" yaml:"outcome"`
	Mode    string `json:"mode,omitempty" yaml:"mode,omitempty"`

	// Error details, empty on success.
	ErrorKind  string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	ErrorField string `json:"error_field,omitempty" yaml:"error_field,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`

	// Resolved window, empty on failure.
	WindowBegin    string `json:"window_begin,omitempty" yaml:"window_begin,omitempty"`
	WindowEnd      string `json:"window_end,omitempty" yaml:"window_end,omitempty"`
	NumOutputSteps int    `json:"num_output_steps" yaml:"num_output_steps"`
	NumForecasts   int    `json:"num_forecasts" yaml:"num_forecasts"`
	NumInputs      int    `json:"num_inputs" yaml:"num_inputs"`

	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Query defines filter parameters for ledger records.
type Query struct {
	// Time range on RecordedAt, both inclusive.
	Since *time.Time `json:"since,omitempty"`
	Until *time.Time `json:"until,omitempty"`

	ConfigPath string `json:"config_path,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Outcome    string `json:"outcome,omitempty"`
	Trigger    string `json:"trigger,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// SortOrder on RecordedAt: "asc" or "desc" (default).
	SortOrder string `json:"sort_order,omitempty"`
}

// Storage is a ledger backend. Implementations must be safe for concurrent
// use.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Query returns records matching the filters, newest first unless the
	// query asks otherwise.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of matching records. Pagination is ignored.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes matching records and returns how many were removed.
	// Pagination is ignored.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Ping checks that the backend is usable.
	Ping(ctx context.Context) error

	// Close releases the backend.
	Close() error
}
