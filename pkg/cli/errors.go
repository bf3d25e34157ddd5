package cli

import (
	"errors"
	"fmt"

	"mercator-hq/egress/pkg/config"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitConfig  = 2
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string `json:"field,omitempty" yaml:"field,omitempty"`
	Message string `json:"message" yaml:"message"`
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config error: " + e.Message
	}
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

// ConfigErrors flattens a configuration load failure into one ConfigError
// per offending field. Errors that are not validation failures become a
// single ConfigError without a field.
func ConfigErrors(err error) []*ConfigError {
	if err == nil {
		return nil
	}

	var valErr config.ValidationError
	if !errors.As(err, &valErr) {
		return []*ConfigError{NewConfigError("", err.Error())}
	}

	out := make([]*ConfigError, 0, len(valErr.Errors))
	for _, fe := range valErr.Errors {
		out = append(out, NewConfigError(fe.Field, fe.Message))
	}
	return out
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *ConfigError
	var valErr config.ValidationError
	if errors.As(err, &cfgErr) || errors.As(err, &valErr) {
		return ExitConfig
	}
	return ExitFailure
}
