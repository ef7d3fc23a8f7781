package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hydroforce/forcing/pkg/telemetry/logging"
)

// fixture holds on-disk resources referenced by a test configuration.
type fixture struct {
	inputDirs []string
	outDir    string
	geogrid   string
}

func newFixture(t *testing.T, numInputs int) fixture {
	t.Helper()
	root := t.TempDir()

	f := fixture{outDir: filepath.Join(root, "out"), geogrid: filepath.Join(root, "geo_em.d01.nc")}
	for i := 0; i < numInputs; i++ {
		dir := filepath.Join(root, "input", string(rune('a'+i)))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll() failed: %v", err)
		}
		f.inputDirs = append(f.inputDirs, dir)
	}
	if err := os.MkdirAll(f.outDir, 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}
	if err := os.WriteFile(f.geogrid, []byte("grid"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return f
}

// repeat renders a list literal with n copies of v.
func repeat(v string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = v
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// retrospective returns a valid retrospective configuration.
func (f fixture) retrospective() map[string]map[string]string {
	n := len(f.inputDirs)
	sections := map[string]map[string]string{
		SectionInput: {
			"InputForcings":           repeat("3", n),
			"InputForcingDirectories": strings.Join(f.inputDirs, ", "),
		},
		SectionOutput: {
			"OutputFrequency": "60",
			"OutDir":          f.outDir,
		},
		SectionRetrospective: {
			"RetroFlag": "1",
			"BDateProc": "202001010000",
			"EDateProc": "202001020000",
		},
		SectionGeospatial:    {"GeogridIn": f.geogrid},
		SectionRegridding:    {"RegridOpt": repeat("1", n)},
		SectionInterpolation: {},
	}
	for _, v := range Variables {
		sections[SectionInterpolation][v.Key()] = repeat("0", n)
	}
	return sections
}

// realtime returns a valid realtime configuration.
func (f fixture) realtime() map[string]map[string]string {
	sections := f.retrospective()
	sections[SectionRetrospective] = map[string]string{
		"RetroFlag": "0",
		"BDateProc": Sentinel,
		"EDateProc": Sentinel,
	}
	sections[SectionForecast] = map[string]string{
		"LookBack":              "180",
		"RefcstBDateProc":       Sentinel,
		"RefcstEDateProc":       Sentinel,
		"ForecastFrequency":     "60",
		"ForecastShift":         "0",
		"ForecastInputHorizons": "[180, 360]",
		"ForecastInputOffsets":  "[0, 0]",
	}
	return sections
}

// reforecast returns a valid reforecast configuration.
func (f fixture) reforecast() map[string]map[string]string {
	sections := f.realtime()
	sections[SectionForecast]["LookBack"] = Sentinel
	sections[SectionForecast]["RefcstBDateProc"] = "202001010000"
	sections[SectionForecast]["RefcstEDateProc"] = "202001020000"
	sections[SectionForecast]["ForecastFrequency"] = "360"
	return sections
}

var fixedNow = time.Date(2020, 1, 1, 13, 47, 30, 0, time.UTC)

func newTestResolver(lookback LookbackFunc) *Resolver {
	return NewResolver(ResolverConfig{
		Now:      func() time.Time { return fixedNow },
		Lookback: lookback,
	})
}

func resolve(t *testing.T, sections map[string]map[string]string) (*Config, error) {
	t.Helper()
	return newTestResolver(nil).Resolve(context.Background(), MapSource("test", sections))
}

func requireKind(t *testing.T, err error, kind ErrorKind, field string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected %s error on %s, got nil", kind, field)
	}
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected *FieldError, got %T: %v", err, err)
	}
	if fe.Kind != kind {
		t.Errorf("Expected kind %s, got %s (%v)", kind, fe.Kind, err)
	}
	if field != "" && fe.Field != field {
		t.Errorf("Expected field %q, got %q", field, fe.Field)
	}
}

// TestResolve_Retrospective tests the retrospective step count.
func TestResolve_Retrospective(t *testing.T) {
	f := newFixture(t, 2)
	cfg, err := resolve(t, f.retrospective())
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}

	if cfg.Mode() != ModeRetrospective {
		t.Errorf("Expected mode retrospective, got %s", cfg.Mode())
	}
	w := cfg.Window()
	if w.NumOutputSteps != 24 {
		t.Errorf("Expected 24 output steps, got %d", w.NumOutputSteps)
	}
	if w.CycleLengthMinutes != 0 || w.NumForecasts != 0 {
		t.Errorf("Expected no forecast quantities, got cycle=%d forecasts=%d", w.CycleLengthMinutes, w.NumForecasts)
	}
	if _, ok := cfg.LookBack(); ok {
		t.Error("Expected no LookBack in retrospective mode")
	}
	if got := w.Begin.String(); got != "2020-01-01 00:00" {
		t.Errorf("Expected begin 2020-01-01 00:00, got %s", got)
	}
	if cfg.NumInputs() != 2 {
		t.Errorf("Expected 2 inputs, got %d", cfg.NumInputs())
	}
}

// TestResolve_Reforecast tests reforecast cycle counting.
func TestResolve_Reforecast(t *testing.T) {
	tests := []struct {
		name      string
		frequency string
		want      int
		wantKind  ErrorKind
	}{
		{name: "divisor", frequency: "360", want: 4},
		{name: "hourly", frequency: "60", want: 24},
		{name: "not a divisor", frequency: "500", wantKind: KindCrossField},
		{name: "longer than a day", frequency: "1441", wantKind: KindRange},
		{name: "zero", frequency: "0", wantKind: KindRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 2)
			sections := f.reforecast()
			sections[SectionForecast]["ForecastFrequency"] = tt.frequency

			cfg, err := resolve(t, sections)
			if tt.wantKind != 0 {
				requireKind(t, err, tt.wantKind, keyForecastFrequency.String())
				return
			}
			if err != nil {
				t.Fatalf("Resolve() failed: %v", err)
			}
			if cfg.Mode() != ModeReforecast {
				t.Errorf("Expected mode reforecast, got %s", cfg.Mode())
			}
			if got := cfg.Window().NumForecasts; got != tt.want {
				t.Errorf("Expected %d forecasts, got %d", tt.want, got)
			}
		})
	}
}

// TestResolve_LongWindows tests step and forecast counts over windows longer
// than time.Duration can represent.
func TestResolve_LongWindows(t *testing.T) {
	f := newFixture(t, 2)

	retro := f.retrospective()
	retro[SectionRetrospective]["BDateProc"] = "160001010000"
	retro[SectionRetrospective]["EDateProc"] = "200001010000"
	cfg, err := resolve(t, retro)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if got := cfg.Window().NumOutputSteps; got != 3506328 {
		t.Errorf("Expected 3506328 output steps, got %d", got)
	}

	refcst := f.reforecast()
	refcst[SectionForecast]["RefcstBDateProc"] = "160001010000"
	refcst[SectionForecast]["RefcstEDateProc"] = "200001010000"
	refcst[SectionForecast]["ForecastFrequency"] = "1440"
	cfg, err = resolve(t, refcst)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if got := cfg.Window().NumForecasts; got != 146097 {
		t.Errorf("Expected 146097 forecasts, got %d", got)
	}
}

// TestResolve_LogsRunContext tests that resolver records carry the run
// fields of the resolution context.
func TestResolve_LogsRunContext(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New() failed: %v", err)
	}
	r := NewResolver(ResolverConfig{
		Now:    func() time.Time { return fixedNow },
		Logger: logger.Slog(),
	})

	ctx := logging.WithRunID(context.Background(), "run-7")
	ctx = logging.WithTrigger(ctx, "file")

	f := newFixture(t, 1)
	sections := f.retrospective()
	if _, err := r.Resolve(ctx, MapSource("test", sections)); err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	delete(sections[SectionOutput], "OutDir")
	if _, err := r.Resolve(ctx, MapSource("test", sections)); err == nil {
		t.Fatal("Expected resolution to fail")
	}

	seen := map[string]bool{}
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var record map[string]any
		if err := dec.Decode(&record); err != nil {
			t.Fatalf("invalid JSON record: %v", err)
		}
		msg, _ := record["msg"].(string)
		seen[msg] = true
		if record["run_id"] != "run-7" || record["trigger"] != "file" {
			t.Errorf("Expected run_id and trigger on %q, got %v", msg, record)
		}
	}
	for _, msg := range []string{"selected run mode", "resolved processing window", "configuration resolution failed"} {
		if !seen[msg] {
			t.Errorf("Expected a %q record", msg)
		}
	}
}

// TestResolve_ReforecastRequiresDates tests that the sentinel is rejected
// for reforecast bounds.
func TestResolve_ReforecastRequiresDates(t *testing.T) {
	f := newFixture(t, 2)
	sections := f.reforecast()
	sections[SectionForecast]["RefcstEDateProc"] = Sentinel

	_, err := resolve(t, sections)
	requireKind(t, err, KindCrossField, keyRefcstEDateProc.String())
}

// TestResolve_Realtime tests the realtime window and lookback idempotence.
func TestResolve_Realtime(t *testing.T) {
	f := newFixture(t, 2)

	var calls []LookbackRequest
	lookback := func(req LookbackRequest) (time.Time, time.Time) {
		calls = append(calls, req)
		return CalculateLookbackWindow(req)
	}

	r := newTestResolver(lookback)
	cfg, err := r.Resolve(context.Background(), MapSource("test", f.realtime()))
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("Expected lookback to be invoked twice, got %d", len(calls))
	}
	if calls[0] != calls[1] {
		t.Errorf("Expected identical lookback requests, got %+v and %+v", calls[0], calls[1])
	}
	b1, e1 := CalculateLookbackWindow(calls[0])
	b2, e2 := CalculateLookbackWindow(calls[1])
	if !b1.Equal(b2) || !e1.Equal(e2) {
		t.Errorf("Expected idempotent lookback, got %v-%v and %v-%v", b1, e1, b2, e2)
	}

	w := cfg.Window()
	wantBegin := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2020, 1, 1, 13, 0, 0, 0, time.UTC)
	if !w.Begin.Valid || !w.Begin.Time.Equal(wantBegin) {
		t.Errorf("Expected begin %v, got %s", wantBegin, w.Begin)
	}
	if !w.End.Valid || !w.End.Time.Equal(wantEnd) {
		t.Errorf("Expected end %v, got %s", wantEnd, w.End)
	}
	if minutes, ok := cfg.LookBack(); !ok || minutes != 180 {
		t.Errorf("Expected LookBack 180, got %d (ok=%v)", minutes, ok)
	}
	if !cfg.ReferenceTime().Equal(fixedNow) {
		t.Errorf("Expected reference time %v, got %v", fixedNow, cfg.ReferenceTime())
	}
	if r.State() != StateComplete {
		t.Errorf("Expected state complete, got %s", r.State())
	}
}

// TestResolve_RealtimeWindowUnsetBeforeLookback tests that the window stays
// unset until the lookback function runs.
func TestResolve_RealtimeWindowUnsetBeforeLookback(t *testing.T) {
	f := newFixture(t, 2)
	b := &builder{
		r:         reader{src: MapSource("test", f.realtime())},
		logger:    NewResolver(ResolverConfig{}).logger,
		lookback:  CalculateLookbackWindow,
		reference: fixedNow,
	}
	if err := b.readInput(); err != nil {
		t.Fatalf("readInput() failed: %v", err)
	}
	if err := b.readOutput(); err != nil {
		t.Fatalf("readOutput() failed: %v", err)
	}
	if err := b.selectMode(); err != nil {
		t.Fatalf("selectMode() failed: %v", err)
	}
	if b.window.Begin.Valid || b.window.End.Valid {
		t.Fatalf("Expected unset window before lookback, got %s - %s", b.window.Begin, b.window.End)
	}
	if err := b.resolveWindow(); err != nil {
		t.Fatalf("resolveWindow() failed: %v", err)
	}
	if !b.window.Begin.Valid || !b.window.End.Valid {
		t.Errorf("Expected concrete window after lookback, got %s - %s", b.window.Begin, b.window.End)
	}
}

// TestResolve_RealtimeShift tests ForecastShift validation.
func TestResolve_RealtimeShift(t *testing.T) {
	f := newFixture(t, 2)
	sections := f.realtime()
	sections[SectionForecast]["ForecastShift"] = "-5"

	_, err := resolve(t, sections)
	requireKind(t, err, KindRange, keyForecastShift.String())
}

// TestResolve_CycleLength tests cycle length derivation from horizons.
func TestResolve_CycleLength(t *testing.T) {
	tests := []struct {
		name       string
		outputFreq string
		wantCycle  int
		wantSteps  int
		wantErr    bool
	}{
		{name: "divides", outputFreq: "90", wantCycle: 360, wantSteps: 4},
		{name: "hourly", outputFreq: "60", wantCycle: 360, wantSteps: 6},
		{name: "does not divide", outputFreq: "70", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 2)
			sections := f.realtime()
			sections[SectionOutput]["OutputFrequency"] = tt.outputFreq

			cfg, err := resolve(t, sections)
			if tt.wantErr {
				requireKind(t, err, KindCrossField, keyOutputFrequency.String())
				return
			}
			if err != nil {
				t.Fatalf("Resolve() failed: %v", err)
			}
			w := cfg.Window()
			if w.CycleLengthMinutes != tt.wantCycle {
				t.Errorf("Expected cycle length %d, got %d", tt.wantCycle, w.CycleLengthMinutes)
			}
			if w.NumOutputSteps != tt.wantSteps {
				t.Errorf("Expected %d output steps, got %d", tt.wantSteps, w.NumOutputSteps)
			}
		})
	}
}

// TestResolve_SentinelDates tests open and half-open retrospective windows.
func TestResolve_SentinelDates(t *testing.T) {
	tests := []struct {
		name    string
		begin   string
		end     string
		wantErr bool
		field   string
	}{
		{name: "both unset", begin: Sentinel, end: Sentinel},
		{name: "begin unset", begin: Sentinel, end: "202001020000", wantErr: true, field: keyBDateProc.String()},
		{name: "end unset", begin: "202001010000", end: Sentinel, wantErr: true, field: keyEDateProc.String()},
		{name: "end before begin", begin: "202001020000", end: "202001010000", wantErr: true, field: keyEDateProc.String()},
		{name: "end equals begin", begin: "202001010000", end: "202001010000", wantErr: true, field: keyEDateProc.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 1)
			sections := f.retrospective()
			sections[SectionRetrospective]["BDateProc"] = tt.begin
			sections[SectionRetrospective]["EDateProc"] = tt.end

			cfg, err := resolve(t, sections)
			if tt.wantErr {
				requireKind(t, err, KindCrossField, tt.field)
				return
			}
			if err != nil {
				t.Fatalf("Resolve() failed: %v", err)
			}
			w := cfg.Window()
			if !w.Open() {
				t.Errorf("Expected open window, got %s - %s", w.Begin, w.End)
			}
			if w.NumOutputSteps != 0 {
				t.Errorf("Expected 0 output steps for open window, got %d", w.NumOutputSteps)
			}
		})
	}
}

// recordingSource remembers every section that was looked up.
type recordingSource struct {
	Source
	sections map[string]bool
}

func (s *recordingSource) Lookup(section, key string) (string, bool) {
	s.sections[section] = true
	return s.Source.Lookup(section, key)
}

// TestResolve_MissingInputDirectory tests that a missing directory stops
// resolution before any other section is read.
func TestResolve_MissingInputDirectory(t *testing.T) {
	f := newFixture(t, 2)
	sections := f.retrospective()
	sections[SectionInput]["InputForcingDirectories"] = f.inputDirs[0] + ", " + filepath.Join(t.TempDir(), "missing")

	src := &recordingSource{Source: MapSource("test", sections), sections: map[string]bool{}}
	r := newTestResolver(nil)
	_, err := r.Resolve(context.Background(), src)
	requireKind(t, err, KindResourceNotFound, keyInputDirectories.String())

	if !errors.Is(err, ErrResourceNotFound) {
		t.Error("Expected errors.Is(err, ErrResourceNotFound)")
	}
	for section := range src.sections {
		if section != SectionInput {
			t.Errorf("Expected no lookups outside Input, got %s", section)
		}
	}
	if r.State() != StateFailed {
		t.Errorf("Expected state failed, got %s", r.State())
	}
}

// TestResolve_Errors tests the error taxonomy across sections.
func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f fixture, s map[string]map[string]string)
		kind   ErrorKind
		field  string
	}{
		{
			name:   "missing input forcings",
			mutate: func(_ fixture, s map[string]map[string]string) { delete(s[SectionInput], "InputForcings") },
			kind:   KindMissingKey,
			field:  keyInputForcings.String(),
		},
		{
			name:   "malformed list literal",
			mutate: func(_ fixture, s map[string]map[string]string) { s[SectionInput]["InputForcings"] = "[3, " },
			kind:   KindParse,
			field:  keyInputForcings.String(),
		},
		{
			name:   "empty input forcings",
			mutate: func(_ fixture, s map[string]map[string]string) { s[SectionInput]["InputForcings"] = "[]" },
			kind:   KindRange,
			field:  keyInputForcings.String(),
		},
		{
			name:   "forcing code out of range",
			mutate: func(_ fixture, s map[string]map[string]string) { s[SectionInput]["InputForcings"] = "[3, 11]" },
			kind:   KindRange,
			field:  keyInputForcings.String(),
		},
		{
			name: "directory count mismatch",
			mutate: func(f fixture, s map[string]map[string]string) {
				s[SectionInput]["InputForcingDirectories"] = f.inputDirs[0]
			},
			kind:  KindArrayLength,
			field: keyInputDirectories.String(),
		},
		{
			name:   "unknown input type",
			mutate: func(_ fixture, s map[string]map[string]string) { s[SectionInput]["InputForcingTypes"] = "GRIB2, GRIB3" },
			kind:   KindRange,
			field:  keyInputTypes.String(),
		},
		{
			name:   "mandatory flag out of range",
			mutate: func(_ fixture, s map[string]map[string]string) { s[SectionInput]["InputMandatory"] = "[1, 2]" },
			kind:   KindRange,
			field:  keyInputMandatory.String(),
		},
		{
			name:   "negative border width",
			mutate: func(_ fixture, s map[string]map[string]string) { s[SectionInput]["IgnoredBorderWidths"] = "[0, -1]" },
			kind:   KindRange,
			field:  keyIgnoredBorders.String(),
		},
		{
			name:   "non numeric output frequency",
			mutate: func(_ fixture, s map[string]map[string]string) { s[SectionOutput]["OutputFrequency"] = "hourly" },
			kind:   KindParse,
			field:  keyOutputFrequency.String(),
		},
		{
			name:   "zero output frequency",
			mutate: func(_ fixture, s map[string]map[string]string) { s[SectionOutput]["OutputFrequency"] = "0" },
			kind:   KindRange,
			field:  keyOutputFrequency.String(),
		},
		{
			name: "missing output directory",
			mutate: func(_ fixture, s map[string]map[string]string) {
				s[SectionOutput]["OutDir"] = filepath.Join(os.TempDir(), "forcing-does-not-exist")
			},
			kind:  KindResourceNotFound,
			field: keyOutDir.String(),
		},
		{
			name:   "retro flag out of range",
			mutate: func(_ fixture, s map[string]map[string]string) { s[SectionRetrospective]["RetroFlag"] = "2" },
			kind:   KindRange,
			field:  keyRetroFlag.String(),
		},
		{
			name:   "short date",
			mutate: func(_ fixture, s map[string]map[string]string) { s[SectionRetrospective]["BDateProc"] = "2020010100" },
			kind:   KindParse,
			field:  keyBDateProc.String(),
		},
		{
			name:   "invalid date",
			mutate: func(_ fixture, s map[string]map[string]string) { s[SectionRetrospective]["BDateProc"] = "202013010000" },
			kind:   KindParse,
			field:  keyBDateProc.String(),
		},
		{
			name:   "missing geogrid",
			mutate: func(f fixture, s map[string]map[string]string) { s[SectionGeospatial]["GeogridIn"] = f.outDir },
			kind:   KindResourceNotFound,
			field:  keyGeogridIn.String(),
		},
		{
			name:   "regrid length",
			mutate: func(_ fixture, s map[string]map[string]string) { s[SectionRegridding]["RegridOpt"] = "[1]" },
			kind:   KindArrayLength,
			field:  keyRegridOpt.String(),
		},
		{
			name:   "regrid out of range",
			mutate: func(_ fixture, s map[string]map[string]string) { s[SectionRegridding]["RegridOpt"] = "[1, 4]" },
			kind:   KindRange,
			field:  keyRegridOpt.String(),
		},
		{
			name: "interpolation length",
			mutate: func(_ fixture, s map[string]map[string]string) {
				s[SectionInterpolation][VarPrecipitation.Key()] = "[0, 0, 0]"
			},
			kind:  KindArrayLength,
			field: SectionInterpolation + "." + VarPrecipitation.Key(),
		},
		{
			name: "interpolation out of range",
			mutate: func(_ fixture, s map[string]map[string]string) {
				s[SectionInterpolation][VarLongwave.Key()] = "[0, 3]"
			},
			kind:  KindRange,
			field: SectionInterpolation + "." + VarLongwave.Key(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 2)
			sections := f.retrospective()
			tt.mutate(f, sections)

			cfg, err := resolve(t, sections)
			if cfg != nil {
				t.Error("Expected nil config on failure")
			}
			requireKind(t, err, tt.kind, tt.field)
		})
	}
}

// TestResolve_ForecastErrors tests errors in the Forecast section.
func TestResolve_ForecastErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		kind  ErrorKind
	}{
		{name: "negative lookback", key: "LookBack", value: "-60", kind: KindRange},
		{name: "zero lookback", key: "LookBack", value: "0", kind: KindRange},
		{name: "text lookback", key: "LookBack", value: "soon", kind: KindParse},
		{name: "horizon length", key: "ForecastInputHorizons", value: "[180]", kind: KindArrayLength},
		{name: "zero horizon", key: "ForecastInputHorizons", value: "[0, 360]", kind: KindRange},
		{name: "offset length", key: "ForecastInputOffsets", value: "[0, 0, 0]", kind: KindArrayLength},
		{name: "negative offset", key: "ForecastInputOffsets", value: "[0, -6]", kind: KindRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 2)
			sections := f.realtime()
			sections[SectionForecast][tt.key] = tt.value

			_, err := resolve(t, sections)
			requireKind(t, err, tt.kind, SectionForecast+"."+tt.key)
		})
	}
}

// TestResolve_PerSourceFields tests that every per-source value lands on
// the right input.
func TestResolve_PerSourceFields(t *testing.T) {
	f := newFixture(t, 2)
	sections := f.realtime()
	sections[SectionInput]["InputForcings"] = "[3, 5]"
	sections[SectionInput]["InputForcingTypes"] = "GRIB2, GRIB1"
	sections[SectionInput]["InputMandatory"] = "[1, 0]"
	sections[SectionInput]["IgnoredBorderWidths"] = "[0, 5]"
	sections[SectionRegridding]["RegridOpt"] = "[1, 3]"
	sections[SectionForecast]["ForecastInputOffsets"] = "[0, 6]"
	sections[SectionInterpolation][VarPrecipitation.Key()] = "[2, 1]"

	cfg, err := resolve(t, sections)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}

	second, ok := cfg.Input(1)
	if !ok {
		t.Fatal("Expected input 1 to exist")
	}
	if second.Source != ForcingHRRR {
		t.Errorf("Expected HRRR, got %s", second.Source)
	}
	if second.Type != SourceGRIB1 {
		t.Errorf("Expected GRIB1, got %q", second.Type)
	}
	if second.Mandatory {
		t.Error("Expected input 1 to be optional")
	}
	if second.IgnoredBorderWidth != 5 {
		t.Errorf("Expected border width 5, got %d", second.IgnoredBorderWidth)
	}
	if second.Regrid != RegridConservativeBilinear {
		t.Errorf("Expected conservative regridding, got %s", second.Regrid)
	}
	if second.Horizon != 360 || second.Offset != 6 {
		t.Errorf("Expected horizon 360 offset 6, got %d/%d", second.Horizon, second.Offset)
	}
	if got := second.InterpFor(VarPrecipitation); got != InterpNearestNeighbor {
		t.Errorf("Expected nearest neighbor precipitation interpolation, got %s", got)
	}

	first, _ := cfg.Input(0)
	if !first.Mandatory || first.InterpFor(VarPrecipitation) != InterpLinearWeighted {
		t.Errorf("Unexpected first input: %+v", first)
	}
	if _, ok := cfg.Input(2); ok {
		t.Error("Expected input 2 to be out of range")
	}
}

// TestResolve_OptionalInputDefaults tests defaults for the optional Input keys.
func TestResolve_OptionalInputDefaults(t *testing.T) {
	f := newFixture(t, 2)
	cfg, err := resolve(t, f.retrospective())
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	for i, in := range cfg.Inputs() {
		if !in.Mandatory {
			t.Errorf("input %d: expected mandatory by default", i)
		}
		if in.IgnoredBorderWidth != 0 {
			t.Errorf("input %d: expected border width 0, got %d", i, in.IgnoredBorderWidth)
		}
		if in.Type != "" {
			t.Errorf("input %d: expected empty type, got %q", i, in.Type)
		}
	}
}

// TestConfig_Immutable tests that accessors do not expose internal state.
func TestConfig_Immutable(t *testing.T) {
	f := newFixture(t, 2)
	cfg, err := resolve(t, f.retrospective())
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}

	inputs := cfg.Inputs()
	inputs[0].Directory = "/elsewhere"
	inputs[0].Interp[VarTemperature] = InterpLinearWeighted

	again, _ := cfg.Input(0)
	if again.Directory == "/elsewhere" {
		t.Error("Expected Inputs() to return a copy")
	}
	if again.Interp[VarTemperature] != InterpNone {
		t.Error("Expected interpolation settings to be copied")
	}
}

// TestConfig_Describe tests the serializable view.
func TestConfig_Describe(t *testing.T) {
	f := newFixture(t, 2)
	sections := f.reforecast()
	sections[SectionInput]["InputForcings"] = "[3, 5]"

	cfg, err := resolve(t, sections)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}

	d := cfg.Describe()
	if d.Mode != "reforecast" {
		t.Errorf("Expected mode reforecast, got %s", d.Mode)
	}
	if len(d.Inputs) != 2 {
		t.Fatalf("Expected 2 inputs, got %d", len(d.Inputs))
	}
	if d.Inputs[1].Forcing != "HRRR" {
		t.Errorf("Expected HRRR, got %s", d.Inputs[1].Forcing)
	}
	if d.Inputs[0].RegriddingOpt != "ESMF_BILINEAR" {
		t.Errorf("Expected ESMF_BILINEAR, got %s", d.Inputs[0].RegriddingOpt)
	}
	if got := d.Inputs[0].TemporalInterp["RAINRATE"]; got != "NONE" {
		t.Errorf("Expected NONE for RAINRATE, got %s", got)
	}
	if d.Window.NumForecasts != 4 {
		t.Errorf("Expected 4 forecasts, got %d", d.Window.NumForecasts)
	}
}

// TestResolver_Reuse tests that a resolver can be reused after a failure.
func TestResolver_Reuse(t *testing.T) {
	f := newFixture(t, 2)
	r := newTestResolver(nil)

	bad := f.retrospective()
	bad[SectionOutput]["OutputFrequency"] = "0"
	if _, err := r.Resolve(context.Background(), MapSource("bad", bad)); err == nil {
		t.Fatal("Expected failure")
	}
	if r.State() != StateFailed {
		t.Errorf("Expected state failed, got %s", r.State())
	}

	if _, err := r.Resolve(context.Background(), MapSource("good", f.retrospective())); err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if r.State() != StateComplete {
		t.Errorf("Expected state complete, got %s", r.State())
	}
}
