package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind tags a resolution failure with its category.
type ErrorKind int

const (
	KindMissingKey ErrorKind = iota + 1
	KindParse
	KindRange
	KindArrayLength
	KindCrossField
	KindResourceNotFound
)

// String returns the kind name used in diagnostics and metric labels.
func (k ErrorKind) String() string {
	switch k {
	case KindMissingKey:
		return "missing_key"
	case KindParse:
		return "parse_error"
	case KindRange:
		return "range_error"
	case KindArrayLength:
		return "array_length_mismatch"
	case KindCrossField:
		return "cross_field_inconsistency"
	case KindResourceNotFound:
		return "resource_not_found"
	default:
		return "unknown"
	}
}

// Sentinel errors matched by errors.Is against a *FieldError of the same kind.
var (
	ErrMissingKey       = errors.New("missing key")
	ErrParse            = errors.New("parse error")
	ErrRange            = errors.New("value out of range")
	ErrArrayLength      = errors.New("array length mismatch")
	ErrCrossField       = errors.New("cross-field inconsistency")
	ErrResourceNotFound = errors.New("resource not found")
)

var kindSentinels = map[ErrorKind]error{
	KindMissingKey:       ErrMissingKey,
	KindParse:            ErrParse,
	KindRange:            ErrRange,
	KindArrayLength:      ErrArrayLength,
	KindCrossField:       ErrCrossField,
	KindResourceNotFound: ErrResourceNotFound,
}

// FieldError is a fatal resolution failure for one configuration field.
type FieldError struct {
	// Kind categorizes the failure.
	Kind ErrorKind

	// Field is the "Section.Key" path of the offending field.
	Field string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error returns the diagnostic line.
func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
}

// Unwrap returns the underlying cause.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error for the kind.
func (e *FieldError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func newFieldError(kind ErrorKind, field, format string, args ...any) *FieldError {
	return &FieldError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *FieldError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// SettingError is a validation failure for one runtime setting.
type SettingError struct {
	// Field is the dotted path to the setting (e.g., "runtime.log_level").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this setting.
func (e SettingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every runtime setting that failed validation.
type ValidationError struct {
	Errors []SettingError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "runtime settings validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("runtime settings validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("runtime settings validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}
