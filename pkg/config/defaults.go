package config

// Default runtime settings.
const (
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "text"
	DefaultLedgerDriver        = "sqlite"
	DefaultLedgerPath          = "forcing-ledger.db"
	DefaultLedgerRetentionDays = 90
	DefaultLedgerPruneSchedule = "0 3 * * *"

	// DefaultMetricsAddress is used by watch when neither the settings nor
	// the command line name an address.
	DefaultMetricsAddress = "127.0.0.1:9464"
)

// ApplyDefaults fills unset string settings. LedgerRetentionDays is left
// alone since zero is meaningful.
func ApplyDefaults(s *Settings) {
	if s.LogLevel == "" {
		s.LogLevel = DefaultLogLevel
	}
	if s.LogFormat == "" {
		s.LogFormat = DefaultLogFormat
	}
	if s.LedgerDriver == "" {
		s.LedgerDriver = DefaultLedgerDriver
	}
	if s.LedgerPath == "" && s.LedgerDriver != "memory" {
		s.LedgerPath = DefaultLedgerPath
	}
	if s.LedgerPruneSchedule == "" {
		s.LedgerPruneSchedule = DefaultLedgerPruneSchedule
	}
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() *Settings {
	s := &Settings{LedgerRetentionDays: DefaultLedgerRetentionDays}
	ApplyDefaults(s)
	return s
}
