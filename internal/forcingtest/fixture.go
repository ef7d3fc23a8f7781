// Package forcingtest builds on-disk forcing configurations for tests.
package forcingtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"hydroforce/forcing/pkg/config"
)

// Now is the reference time used by Resolve: 2020-01-01 13:47:30 UTC.
var Now = time.Date(2020, 1, 1, 13, 47, 30, 0, time.UTC)

// Fixture holds the directories and files a test configuration points at.
type Fixture struct {
	Root      string
	InputDirs []string
	OutDir    string
	Geogrid   string
}

// NewFixture creates numInputs input directories, an output directory and a
// geogrid file under t.TempDir().
func NewFixture(t *testing.T, numInputs int) Fixture {
	t.Helper()
	root := t.TempDir()

	f := Fixture{
		Root:    root,
		OutDir:  filepath.Join(root, "out"),
		Geogrid: filepath.Join(root, "geo_em.d01.nc"),
	}
	for i := 0; i < numInputs; i++ {
		dir := filepath.Join(root, "input", fmt.Sprintf("src%d", i))
		AssertNoError(t, os.MkdirAll(dir, 0o755))
		f.InputDirs = append(f.InputDirs, dir)
	}
	AssertNoError(t, os.MkdirAll(f.OutDir, 0o755))
	AssertNoError(t, os.WriteFile(f.Geogrid, []byte("grid"), 0o644))
	return f
}

// List renders a list literal with n copies of v.
func List(v string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = v
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Retrospective returns a valid retrospective configuration covering
// 2020-01-01 at hourly output.
func (f Fixture) Retrospective() map[string]map[string]string {
	n := len(f.InputDirs)
	sections := map[string]map[string]string{
		config.SectionInput: {
			"InputForcings":           List("3", n),
			"InputForcingDirectories": strings.Join(f.InputDirs, ", "),
		},
		config.SectionOutput: {
			"OutputFrequency": "60",
			"OutDir":          f.OutDir,
		},
		config.SectionRetrospective: {
			"RetroFlag": "1",
			"BDateProc": "202001010000",
			"EDateProc": "202001020000",
		},
		config.SectionGeospatial:    {"GeogridIn": f.Geogrid},
		config.SectionRegridding:    {"RegridOpt": List("1", n)},
		config.SectionInterpolation: {},
	}
	for _, v := range config.Variables {
		sections[config.SectionInterpolation][v.Key()] = List("0", n)
	}
	return sections
}

// Realtime returns a valid realtime configuration with a 180 minute
// lookback on hourly cycles.
func (f Fixture) Realtime() map[string]map[string]string {
	n := len(f.InputDirs)
	sections := f.Retrospective()
	sections[config.SectionRetrospective] = map[string]string{
		"RetroFlag": "0",
		"BDateProc": config.Sentinel,
		"EDateProc": config.Sentinel,
	}
	sections[config.SectionForecast] = map[string]string{
		"LookBack":              "180",
		"RefcstBDateProc":       config.Sentinel,
		"RefcstEDateProc":       config.Sentinel,
		"ForecastFrequency":     "60",
		"ForecastShift":         "0",
		"ForecastInputHorizons": List("180", n),
		"ForecastInputOffsets":  List("0", n),
	}
	return sections
}

// Reforecast returns a valid reforecast configuration with four 6-hourly
// cycles.
func (f Fixture) Reforecast() map[string]map[string]string {
	sections := f.Realtime()
	sections[config.SectionForecast]["LookBack"] = config.Sentinel
	sections[config.SectionForecast]["RefcstBDateProc"] = "202001010000"
	sections[config.SectionForecast]["RefcstEDateProc"] = "202001020000"
	sections[config.SectionForecast]["ForecastFrequency"] = "360"
	return sections
}

// Resolve resolves sections at Now and fails the test on error.
func Resolve(t *testing.T, sections map[string]map[string]string) *config.Config {
	t.Helper()
	r := config.NewResolver(config.ResolverConfig{Now: func() time.Time { return Now }})
	cfg, err := r.Resolve(context.Background(), config.MapSource("test", sections))
	AssertNoError(t, err)
	return cfg
}

// RenderINI renders sections as an INI document in configuration order.
func RenderINI(sections map[string]map[string]string) string {
	var b strings.Builder
	order := append([]string{}, config.Sections...)
	for _, name := range config.SortedKeys(sections) {
		if !contains(order, name) {
			order = append(order, name)
		}
	}
	for _, name := range order {
		keys, ok := sections[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "[%s]\n", name)
		names := config.SortedKeys(keys)
		sort.SliceStable(names, func(i, j int) bool {
			return config.KeyOrder(name, names[i]) < config.KeyOrder(name, names[j])
		})
		for _, k := range names {
			fmt.Fprintf(&b, "%s = %s\n", k, keys[k])
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WriteINI writes sections to name under dir and returns the path.
func WriteINI(t *testing.T, dir, name string, sections map[string]map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	AssertNoError(t, os.WriteFile(path, []byte(RenderINI(sections)), 0o644))
	return path
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertKind fails the test unless err carries the given error kind.
func AssertKind(t *testing.T, err error, kind config.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := config.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}
