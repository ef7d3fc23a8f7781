package logging

import (
	"context"
	"testing"
)

func TestContextFields(t *testing.T) {
	tests := []struct {
		name string
		set  func(context.Context, string) context.Context
		get  func(context.Context) string
	}{
		{name: "run id", set: WithRunID, get: GetRunID},
		{name: "config path", set: WithConfigPath, get: GetConfigPath},
		{name: "mode", set: WithMode, get: GetMode},
		{name: "trigger", set: WithTrigger, get: GetTrigger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if got := tt.get(ctx); got != "" {
				t.Errorf("empty context returned %q", got)
			}
			ctx = tt.set(ctx, "value")
			if got := tt.get(ctx); got != "value" {
				t.Errorf("got %q, want %q", got, "value")
			}
		})
	}
}

func TestExtractContextFields(t *testing.T) {
	ctx := WithMode(WithRunID(context.Background(), "abc"), "reforecast")
	fields := extractContextFields(ctx)

	want := []any{"run_id", "abc", "mode", "reforecast"}
	if len(fields) != len(want) {
		t.Fatalf("got %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("fields[%d] = %v, want %v", i, fields[i], want[i])
		}
	}
}
