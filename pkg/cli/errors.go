package cli

import (
	"errors"
	"fmt"

	"hydroforce/forcing/pkg/config"
)

// Process exit codes. Resolution failures map to one code per error kind so
// that batch schedulers can branch without parsing diagnostics.
const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitUsage            = 2
	ExitMissingKey       = 10
	ExitParse            = 11
	ExitRange            = 12
	ExitArrayLength      = 13
	ExitCrossField       = 14
	ExitResourceNotFound = 15
	ExitSettings         = 20
)

var kindExitCodes = map[config.ErrorKind]int{
	config.KindMissingKey:       ExitMissingKey,
	config.KindParse:            ExitParse,
	config.KindRange:            ExitRange,
	config.KindArrayLength:      ExitArrayLength,
	config.KindCrossField:       ExitCrossField,
	config.KindResourceNotFound: ExitResourceNotFound,
}

// ConfigError represents an error in the configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if code, ok := kindExitCodes[config.KindOf(err)]; ok {
		return code
	}
	var verr config.ValidationError
	if errors.As(err, &verr) {
		return ExitSettings
	}
	var cerr *ConfigError
	if errors.As(err, &cerr) {
		return ExitUsage
	}
	return ExitFailure
}
