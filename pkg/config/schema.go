package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Sentinel is the literal that marks a date or LookBack as unspecified in
// configuration text. It never survives parsing: readers turn it into an
// invalid Date or an absent LookBack.
const Sentinel = "-9999"

// DateLayout is the fixed YYYYMMDDHHMM layout of every date key.
const DateLayout = "200601021504"

// Section names.
const (
	SectionInput         = "Input"
	SectionOutput        = "Output"
	SectionRetrospective = "Retrospective"
	SectionForecast      = "Forecast"
	SectionGeospatial    = "Geospatial"
	SectionRegridding    = "Regridding"
	SectionInterpolation = "Interpolation"
	SectionRuntime       = "Runtime"
)

// Date is a processing-window bound that may be unspecified.
type Date struct {
	Time  time.Time
	Valid bool
}

// NewDate returns a valid Date.
func NewDate(t time.Time) Date {
	return Date{Time: t.UTC(), Valid: true}
}

// String formats the date as "2006-01-02 15:04", or "unset".
func (d Date) String() string {
	if !d.Valid {
		return "unset"
	}
	return d.Time.Format("2006-01-02 15:04")
}

// fieldSpec names one configuration key.
type fieldSpec struct {
	Section string
	Key     string
}

func (f fieldSpec) String() string {
	return f.Section + "." + f.Key
}

// intCheck validates one integer element of a field.
type intCheck struct {
	ok   func(int) bool
	want string
}

var (
	positive    = intCheck{ok: func(v int) bool { return v > 0 }, want: "greater than zero"}
	nonNegative = intCheck{ok: func(v int) bool { return v >= 0 }, want: "greater than or equal to zero"}
	flag01      = intCheck{ok: func(v int) bool { return v == 0 || v == 1 }, want: "0 or 1"}
)

func between(lo, hi int) intCheck {
	return intCheck{
		ok:   func(v int) bool { return v >= lo && v <= hi },
		want: fmt.Sprintf("between %d and %d", lo, hi),
	}
}

// listSpec declares a per-source integer array: one element per input forcing.
type listSpec struct {
	field fieldSpec
	check intCheck
	// optional arrays default to fill when absent.
	optional bool
	fill     int
}

// reader coerces raw Source values into typed fields. Every method fails fast
// with a *FieldError naming the offending Section.Key.
type reader struct {
	src Source
}

func (r reader) raw(f fieldSpec) (string, error) {
	v, ok := r.src.Lookup(f.Section, f.Key)
	if !ok {
		return "", newFieldError(KindMissingKey, f.String(), "unable to locate %s under the %s section in the configuration", f.Key, f.Section)
	}
	return strings.TrimSpace(v), nil
}

func (r reader) has(f fieldSpec) bool {
	_, ok := r.src.Lookup(f.Section, f.Key)
	return ok
}

func (r reader) intValue(f fieldSpec, check intCheck) (int, error) {
	s, err := r.raw(f)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &FieldError{Kind: KindParse, Field: f.String(), Message: fmt.Sprintf("improper %s value %q", f.Key, s), Err: err}
	}
	if !check.ok(v) {
		return 0, newFieldError(KindRange, f.String(), "%s must be %s, got %d", f.Key, check.want, v)
	}
	return v, nil
}

// intList parses a JSON list literal such as "[1, 5]".
func (r reader) intList(f fieldSpec) ([]int, error) {
	s, err := r.raw(f)
	if err != nil {
		return nil, err
	}
	var out []int
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, &FieldError{Kind: KindParse, Field: f.String(), Message: fmt.Sprintf("improper %s option %q", f.Key, s), Err: err}
	}
	return out, nil
}

// stringList splits comma-separated text, trimming every element. A JSON
// string array is accepted as well, which is how YAML and TOML lists arrive.
func (r reader) stringList(f fieldSpec) ([]string, error) {
	s, err := r.raw(f)
	if err != nil {
		return nil, err
	}
	var parts []string
	if strings.HasPrefix(s, "[") {
		if err := json.Unmarshal([]byte(s), &parts); err != nil {
			return nil, &FieldError{Kind: KindParse, Field: f.String(), Message: fmt.Sprintf("improper %s list %q", f.Key, s), Err: err}
		}
	} else {
		parts = strings.Split(s, ",")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// date parses a YYYYMMDDHHMM value. The sentinel yields an invalid Date.
func (r reader) date(f fieldSpec) (Date, error) {
	s, err := r.raw(f)
	if err != nil {
		return Date{}, err
	}
	if s == Sentinel {
		return Date{}, nil
	}
	if len(s) != len(DateLayout) {
		return Date{}, newFieldError(KindParse, f.String(), "improper %s length %d, expected YYYYMMDDHHMM", f.Key, len(s))
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return Date{}, &FieldError{Kind: KindParse, Field: f.String(), Message: fmt.Sprintf("improper %s value %q", f.Key, s), Err: err}
	}
	return NewDate(t), nil
}

// perSource parses a per-source array, checks its length against n and then
// every element. The slice is returned only when all checks pass.
func (r reader) perSource(spec listSpec, n int) ([]int, error) {
	if spec.optional && !r.has(spec.field) {
		out := make([]int, n)
		for i := range out {
			out[i] = spec.fill
		}
		return out, nil
	}
	vals, err := r.intList(spec.field)
	if err != nil {
		return nil, err
	}
	if len(vals) != n {
		return nil, newFieldError(KindArrayLength, spec.field.String(), "please specify %s values for each of the %d input forcings, got %d", spec.field.Key, n, len(vals))
	}
	for _, v := range vals {
		if !spec.check.ok(v) {
			return nil, newFieldError(KindRange, spec.field.String(), "please specify %s values %s, got %d", spec.field.Key, spec.check.want, v)
		}
	}
	return vals, nil
}

func requireDir(f fieldSpec, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &FieldError{Kind: KindResourceNotFound, Field: f.String(), Message: fmt.Sprintf("unable to locate directory %q", path), Err: err}
	}
	if !info.IsDir() {
		return newFieldError(KindResourceNotFound, f.String(), "%q is not a directory", path)
	}
	return nil
}

func requireFile(f fieldSpec, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &FieldError{Kind: KindResourceNotFound, Field: f.String(), Message: fmt.Sprintf("unable to locate file %q", path), Err: err}
	}
	if !info.Mode().IsRegular() {
		return newFieldError(KindResourceNotFound, f.String(), "%q is not a regular file", path)
	}
	return nil
}
