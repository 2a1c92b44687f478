package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnknownSetting indicates a key that is not a recognised setting.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrInvalidValue indicates a value that fails validation.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnknownFont indicates a font family that is not installed.
	ErrUnknownFont = errors.New("font not available")
)

// ParseError reports a configuration that cannot be used. Field names the
// offending key when one is known.
type ParseError struct {
	// Path is the configuration file, empty for defaults and environment.
	Path string
	// Field is the setting key.
	Field string
	// Message describes the problem.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + " " + msg
	}
	if e.Path != "" {
		return fmt.Sprintf("config %s: %s", e.Path, msg)
	}
	return "config: " + msg
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

func invalid(field, format string, args ...any) *ParseError {
	return &ParseError{Field: field, Message: fmt.Sprintf(format, args...), Err: ErrInvalidValue}
}
