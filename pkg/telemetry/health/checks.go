package health

import (
	"context"
	"errors"
	"fmt"
	"os"

	"hydroforce/forcing/pkg/config"
)

// ErrNotResolved is reported before the first successful resolution.
var ErrNotResolved = errors.New("configuration not resolved")

// ConfigCheck passes once current returns a resolved configuration.
func ConfigCheck(current func() *config.Config) CheckFunc {
	return func(context.Context) error {
		if current() == nil {
			return ErrNotResolved
		}
		return nil
	}
}

// DirectoriesCheck verifies that every input and output directory of the
// current configuration still exists. Directories are validated at
// resolution time but may disappear while watch is running.
func DirectoriesCheck(current func() *config.Config) CheckFunc {
	return func(ctx context.Context) error {
		cfg := current()
		if cfg == nil {
			return ErrNotResolved
		}
		for _, dir := range cfg.Directories() {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := os.Stat(dir)
			if err != nil {
				return fmt.Errorf("directory %q: %w", dir, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%q is not a directory", dir)
			}
		}
		return nil
	}
}

// GeogridCheck verifies that the geogrid file of the current configuration
// is still readable.
func GeogridCheck(current func() *config.Config) CheckFunc {
	return func(context.Context) error {
		cfg := current()
		if cfg == nil {
			return ErrNotResolved
		}
		f, err := os.Open(cfg.Geogrid())
		if err != nil {
			return fmt.Errorf("geogrid: %w", err)
		}
		return f.Close()
	}
}

// PingCheck adapts a Ping method, such as the ledger's, to a CheckFunc.
func PingCheck(ping func(ctx context.Context) error) CheckFunc {
	return func(ctx context.Context) error {
		return ping(ctx)
	}
}
