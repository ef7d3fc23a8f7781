package config

import (
	"context"
	"fmt"
)

// LoadConfig reads the configuration file at path, layers FORCING_* environment
// overrides on top and resolves it with a default Resolver.
//
// The loading sequence is:
// 1. Parse the file in the layout implied by its extension
// 2. Apply environment variable overrides
// 3. Resolve and validate every section
func LoadConfig(path string) (*Config, error) {
	return LoadConfigWith(context.Background(), NewResolver(ResolverConfig{}), path)
}

// LoadConfigWith is LoadConfig with an explicit resolver.
func LoadConfigWith(ctx context.Context, r *Resolver, path string) (*Config, error) {
	src, err := OpenSource(path)
	if err != nil {
		return nil, err
	}
	return r.Resolve(ctx, WithEnvOverrides(src))
}

// LoadSettings reads the runtime settings stored alongside the configuration
// at path. Environment overrides apply here as well.
func LoadSettings(path string) (*Settings, error) {
	src, err := OpenSource(path)
	if err != nil {
		return nil, err
	}
	s, err := ReadSettings(WithEnvOverrides(src))
	if err != nil {
		return nil, fmt.Errorf("failed to load runtime settings from %q: %w", path, err)
	}
	return s, nil
}
