package storage

import (
	"fmt"

	"hydroforce/forcing/pkg/config"
	"hydroforce/forcing/pkg/ledger"
)

// DriverMemory selects MemoryStorage.
const DriverMemory = "memory"

// Open returns the ledger backend selected by the runtime settings.
func Open(settings *config.Settings) (ledger.Storage, error) {
	switch settings.LedgerDriver {
	case DriverMemory:
		return NewMemoryStorage(), nil
	case DriverSQLite, DriverSQLite3, "":
		cfg := DefaultSQLiteConfig()
		if settings.LedgerDriver != "" {
			cfg.Driver = settings.LedgerDriver
		}
		cfg.Path = settings.LedgerPath
		return NewSQLiteStorage(cfg)
	default:
		return nil, fmt.Errorf("unknown ledger driver %q", settings.LedgerDriver)
	}
}
