package config

import (
	"errors"
	"strings"
	"testing"
)

// TestReadSettings_Defaults tests that a missing Runtime section yields defaults.
func TestReadSettings_Defaults(t *testing.T) {
	s, err := ReadSettings(MapSource("test", nil))
	if err != nil {
		t.Fatalf("ReadSettings() failed: %v", err)
	}
	if s.LogLevel != DefaultLogLevel {
		t.Errorf("Expected log level %s, got %s", DefaultLogLevel, s.LogLevel)
	}
	if s.LedgerDriver != DefaultLedgerDriver || s.LedgerPath != DefaultLedgerPath {
		t.Errorf("Expected default ledger, got %s %s", s.LedgerDriver, s.LedgerPath)
	}
	if s.LedgerRetentionDays != DefaultLedgerRetentionDays {
		t.Errorf("Expected %d retention days, got %d", DefaultLedgerRetentionDays, s.LedgerRetentionDays)
	}
	if s.MetricsAddress != "" {
		t.Errorf("Expected no metrics address, got %s", s.MetricsAddress)
	}
}

// TestReadSettings tests explicit values.
func TestReadSettings(t *testing.T) {
	s, err := ReadSettings(MapSource("test", map[string]map[string]string{
		SectionRuntime: {
			"LogLevel":            "debug",
			"LogFormat":           "json",
			"LedgerDriver":        "memory",
			"LedgerRetentionDays": "0",
			"MetricsAddress":      "localhost:9100",
			"Trace":               "true",
		},
	}))
	if err != nil {
		t.Fatalf("ReadSettings() failed: %v", err)
	}
	if s.LogLevel != "debug" || s.LogFormat != "json" {
		t.Errorf("Unexpected logging settings: %+v", s)
	}
	if s.LedgerPath != "" {
		t.Errorf("Expected no ledger path for memory driver, got %s", s.LedgerPath)
	}
	if s.LedgerRetentionDays != 0 {
		t.Errorf("Expected retention 0, got %d", s.LedgerRetentionDays)
	}
	if !s.Trace {
		t.Error("Expected tracing enabled")
	}
}

// TestReadSettings_Invalid tests that every invalid setting is reported.
func TestReadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{name: "log level", key: "LogLevel", value: "verbose", field: "runtime.log_level"},
		{name: "log format", key: "LogFormat", value: "xml", field: "runtime.log_format"},
		{name: "driver", key: "LedgerDriver", value: "postgres", field: "runtime.ledger_driver"},
		{name: "retention", key: "LedgerRetentionDays", value: "-3", field: "runtime.ledger_retention_days"},
		{name: "retention text", key: "LedgerRetentionDays", value: "weekly", field: "runtime.ledger_retention_days"},
		{name: "schedule", key: "LedgerPruneSchedule", value: "every day", field: "runtime.ledger_prune_schedule"},
		{name: "address", key: "MetricsAddress", value: "no-port", field: "runtime.metrics_address"},
		{name: "trace", key: "Trace", value: "maybe", field: "runtime.trace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSettings(MapSource("test", map[string]map[string]string{
				SectionRuntime: {tt.key: tt.value},
			}))
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected error on %s, got %v", tt.field, verr)
			}
		})
	}
}

// TestValidationError_Multiple tests the multi-error message.
func TestValidationError_Multiple(t *testing.T) {
	err := ValidateSettings(&Settings{
		LogLevel:            "loud",
		LogFormat:           "xml",
		LedgerDriver:        "sqlite",
		LedgerPath:          "ledger.db",
		LedgerPruneSchedule: DefaultLedgerPruneSchedule,
	})
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(err.Error(), "with 2 errors") {
		t.Errorf("Expected aggregated message, got %q", err.Error())
	}
}
