package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"hydroforce/forcing/pkg/config"
)

// Severity of a reported diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityFatal
)

// Reporter prints diagnostics. A fatal report terminates the process.
type Reporter struct {
	w      io.Writer
	exit   func(int)
	logger *slog.Logger
}

// NewReporter creates a Reporter writing to w. If w is nil, it defaults to
// os.Stderr.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stderr
	}
	return &Reporter{w: w, exit: os.Exit}
}

// WithLogger also logs every report to logger.
func (r *Reporter) WithLogger(logger *slog.Logger) *Reporter {
	r.logger = logger
	return r
}

// WithExit replaces the process exit function, for tests.
func (r *Reporter) WithExit(exit func(int)) *Reporter {
	r.exit = exit
	return r
}

// Report prints err. With SeverityFatal it exits with ExitCode(err) and does
// not return unless the exit function does.
func (r *Reporter) Report(err error, severity Severity) {
	if err == nil {
		return
	}
	if r.logger != nil {
		attrs := []any{"error", err, "exit_code", ExitCode(err)}
		if kind := config.KindOf(err); kind != 0 {
			attrs = append(attrs, "kind", kind.String())
		}
		if severity == SeverityFatal {
			r.logger.Error("fatal configuration error", attrs...)
		} else {
			r.logger.Warn("configuration warning", attrs...)
		}
	}
	switch severity {
	case SeverityFatal:
		fmt.Fprintf(r.w, "✗ ERROR: %v\n", err)
		r.exit(ExitCode(err))
	default:
		fmt.Fprintf(r.w, "⚠ WARNING: %v\n", err)
	}
}

// Fatal reports err at fatal severity.
func (r *Reporter) Fatal(err error) {
	r.Report(err, SeverityFatal)
}
