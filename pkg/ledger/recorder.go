package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"hydroforce/forcing/pkg/config"
)

// RecorderConfig configures a Recorder.
type RecorderConfig struct {
	// WriteTimeout bounds a single Store call. Default: 5 seconds.
	WriteTimeout time.Duration

	// Now returns the record timestamp. Default: time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// Entry describes one finished resolution.
type Entry struct {
	Trigger    string
	ConfigPath string

	// Config is the resolved configuration, nil on failure.
	Config *config.Config

	// Err is the resolution error, nil on success.
	Err error

	Duration time.Duration
}

// Recorder turns resolution results into ledger records.
type Recorder struct {
	storage Storage
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewRecorder creates a Recorder writing to storage.
func NewRecorder(storage Storage, cfg *RecorderConfig) *Recorder {
	if cfg == nil {
		cfg = &RecorderConfig{}
	}
	r := &Recorder{
		storage: storage,
		timeout: cfg.WriteTimeout,
		now:     cfg.Now,
		logger:  cfg.Logger,
	}
	if r.timeout <= 0 {
		r.timeout = 5 * time.Second
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.logger = r.logger.With("component", "ledger.recorder")
	return r
}

// Record stores the outcome of one resolution and returns the stored record.
// A failed write is logged and returned; it never affects the resolution.
func (r *Recorder) Record(ctx context.Context, e Entry) (*Record, error) {
	record := NewRecord(e, r.now())

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.ErrorContext(ctx, "failed to store ledger record", "record_id", record.ID, "error", err)
		return nil, err
	}
	r.logger.DebugContext(ctx, "ledger record stored",
		"record_id", record.ID,
		"outcome", record.Outcome,
	)
	return record, nil
}

// NewRecord builds a Record from e with a fresh UUID.
func NewRecord(e Entry, at time.Time) *Record {
	record := &Record{
		ID:         uuid.New().String(),
		RecordedAt: at.UTC(),
		Trigger:    e.Trigger,
		ConfigPath: e.ConfigPath,
		Duration:   e.Duration,
	}

	if e.Err != nil || e.Config == nil {
		record.Outcome = OutcomeFailure
		if e.Err != nil {
			record.Error = e.Err.Error()
			record.ErrorKind = config.KindOf(e.Err).String()
			var fe *config.FieldError
			if errors.As(e.Err, &fe) {
				record.ErrorField = fe.Field
			}
		}
		return record
	}

	cfg := e.Config
	window := cfg.Window()
	record.Outcome = OutcomeSuccess
	record.Mode = cfg.Mode().String()
	record.WindowBegin = window.Begin.String()
	record.WindowEnd = window.End.String()
	record.NumOutputSteps = window.NumOutputSteps
	record.NumForecasts = window.NumForecasts
	record.NumInputs = cfg.NumInputs()
	return record
}

// Header implements cli.Tabular for record listings.
func (r *Record) Header() []string {
	return []string{"id", "recorded_at", "trigger", "config_path", "outcome", "mode", "error_kind", "window_begin", "window_end", "num_output_steps", "duration"}
}

// Row returns the record as CSV cells in Header order.
func (r *Record) Row() []string {
	return []string{
		r.ID,
		r.RecordedAt.Format(time.RFC3339),
		r.Trigger,
		r.ConfigPath,
		r.Outcome,
		r.Mode,
		r.ErrorKind,
		r.WindowBegin,
		r.WindowEnd,
		strconv.Itoa(r.NumOutputSteps),
		r.Duration.String(),
	}
}

// Records is a listing of ledger records.
type Records []*Record

// Header implements cli.Tabular.
func (rs Records) Header() []string {
	return (&Record{}).Header()
}

// Rows implements cli.Tabular.
func (rs Records) Rows() [][]string {
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, r.Row())
	}
	return rows
}
