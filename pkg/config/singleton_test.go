package config

import (
	"context"
	"testing"
)

// TestSetConfig tests replacing the process-wide configuration.
func TestSetConfig(t *testing.T) {
	prev := GetConfig()
	t.Cleanup(func() { SetConfig(prev) })

	cfg := &Config{mode: ModeRetrospective}
	SetConfig(cfg)
	if GetConfig() != cfg {
		t.Error("Expected GetConfig to return the configuration set")
	}
}

// TestReloadConfig tests that a successful reload is published.
func TestReloadConfig(t *testing.T) {
	prev := GetConfig()
	t.Cleanup(func() { SetConfig(prev) })
	SetConfig(nil)

	f := newFixture(t, 1)
	cfg, err := ReloadConfig(context.Background(), newTestResolver(nil), writeINI(t, f.retrospective()))
	if err != nil {
		t.Fatalf("ReloadConfig() failed: %v", err)
	}
	if cfg.Mode() != ModeRetrospective {
		t.Errorf("Expected mode retrospective, got %s", cfg.Mode())
	}
	if GetConfig() != cfg {
		t.Error("Expected GetConfig to return the reloaded configuration")
	}
}

// TestReloadConfig_KeepsCurrentOnFailure tests that a failed reload leaves
// the existing configuration in place and reports the resolution error.
func TestReloadConfig_KeepsCurrentOnFailure(t *testing.T) {
	prev := GetConfig()
	t.Cleanup(func() { SetConfig(prev) })

	cfg := &Config{mode: ModeRealtime}
	SetConfig(cfg)

	f := newFixture(t, 1)
	sections := f.retrospective()
	delete(sections[SectionOutput], "OutputFrequency")

	tests := []struct {
		name string
		path string
		kind ErrorKind
	}{
		{name: "missing file", path: "/nonexistent/forcing.config", kind: KindResourceNotFound},
		{name: "missing key", path: writeINI(t, sections), kind: KindMissingKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReloadConfig(context.Background(), nil, tt.path)
			if got != nil {
				t.Errorf("Expected nil configuration, got %v", got)
			}
			if KindOf(err) != tt.kind {
				t.Errorf("Expected kind %s, got %s (%v)", tt.kind, KindOf(err), err)
			}
			if GetConfig() != cfg {
				t.Error("Expected configuration to be unchanged")
			}
		})
	}
}
