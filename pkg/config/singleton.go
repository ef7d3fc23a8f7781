package config

import (
	"context"
	"sync"
)

var (
	// globalConfig holds the resolved configuration of the current run.
	globalConfig *Config

	// configMutex protects access to globalConfig.
	configMutex sync.RWMutex
)

// GetConfig returns the process-wide configuration, or nil before the first
// successful ReloadConfig. Resolved configurations are immutable, so callers
// may share the result freely.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfig replaces the process-wide configuration.
func SetConfig(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
}

// ReloadConfig resolves path with r and publishes the result as the
// process-wide configuration. On failure the current configuration stays in
// place and the resolution error is returned unchanged. A nil r uses a
// default Resolver.
func ReloadConfig(ctx context.Context, r *Resolver, path string) (*Config, error) {
	if r == nil {
		r = NewResolver(ResolverConfig{})
	}
	cfg, err := LoadConfigWith(ctx, r, path)
	if err != nil {
		return nil, err
	}

	SetConfig(cfg)
	return cfg, nil
}
