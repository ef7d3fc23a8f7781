package config

import (
	"strconv"
	"strings"
)

// Settings controls how the tool itself runs: logging, the run ledger,
// metrics and tracing. They live in an optional [Runtime] section next to the
// forcing configuration and never influence resolution.
type Settings struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat is json or text.
	LogFormat string `json:"log_format" yaml:"log_format" validate:"oneof=json text"`

	// LedgerDriver selects the ledger backend: sqlite (pure Go), sqlite3
	// (cgo) or memory.
	LedgerDriver string `json:"ledger_driver" yaml:"ledger_driver" validate:"oneof=sqlite sqlite3 memory"`

	// LedgerPath is the database file. Unused by the memory driver.
	LedgerPath string `json:"ledger_path" yaml:"ledger_path" validate:"required_unless=LedgerDriver memory"`

	// LedgerRetentionDays removes ledger records older than this. Zero keeps
	// everything.
	LedgerRetentionDays int `json:"ledger_retention_days" yaml:"ledger_retention_days" validate:"min=0"`

	// LedgerPruneSchedule is the cron expression of the pruning job.
	LedgerPruneSchedule string `json:"ledger_prune_schedule" yaml:"ledger_prune_schedule" validate:"required"`

	// MetricsAddress is where watch serves /metrics and health endpoints.
	// Empty disables the listener.
	MetricsAddress string `json:"metrics_address" yaml:"metrics_address" validate:"omitempty,hostname_port"`

	// Trace enables span export to standard error.
	Trace bool `json:"trace" yaml:"trace"`
}

// Runtime section keys.
var (
	keyLogLevel            = fieldSpec{SectionRuntime, "LogLevel"}
	keyLogFormat           = fieldSpec{SectionRuntime, "LogFormat"}
	keyLedgerDriver        = fieldSpec{SectionRuntime, "LedgerDriver"}
	keyLedgerPath          = fieldSpec{SectionRuntime, "LedgerPath"}
	keyLedgerRetentionDays = fieldSpec{SectionRuntime, "LedgerRetentionDays"}
	keyLedgerPruneSchedule = fieldSpec{SectionRuntime, "LedgerPruneSchedule"}
	keyMetricsAddress      = fieldSpec{SectionRuntime, "MetricsAddress"}
	keyTrace               = fieldSpec{SectionRuntime, "Trace"}
)

// ReadSettings reads the [Runtime] section of src over the defaults and
// validates the result. A source without the section yields the defaults.
func ReadSettings(src Source) (*Settings, error) {
	s := DefaultSettings()
	r := reader{src: src}
	var errs []SettingError

	str := func(f fieldSpec, dst *string) {
		if v, ok := src.Lookup(f.Section, f.Key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	str(keyLogLevel, &s.LogLevel)
	str(keyLogFormat, &s.LogFormat)
	str(keyLedgerDriver, &s.LedgerDriver)
	str(keyMetricsAddress, &s.MetricsAddress)
	str(keyLedgerPruneSchedule, &s.LedgerPruneSchedule)
	if s.LedgerDriver == "memory" {
		s.LedgerPath = ""
	}
	str(keyLedgerPath, &s.LedgerPath)

	if r.has(keyLedgerRetentionDays) {
		v, _ := r.raw(keyLedgerRetentionDays)
		days, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, SettingError{Field: "runtime.ledger_retention_days", Message: "must be an integer"})
		}
		s.LedgerRetentionDays = days
	}
	if r.has(keyTrace) {
		v, _ := r.raw(keyTrace)
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, SettingError{Field: "runtime.trace", Message: "must be a boolean"})
		}
		s.Trace = b
	}

	if len(errs) > 0 {
		return nil, ValidationError{Errors: errs}
	}
	if err := ValidateSettings(s); err != nil {
		return nil, err
	}
	return s, nil
}
