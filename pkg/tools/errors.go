// Package tools provides the Google Maps MCP tool implementations.
package tools

import (
	"errors"
	"fmt"
)

// UnknownToolError is returned when a call names a tool that is not registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("Unknown tool: %s", e.Name)
}

// ValidationError reports tool arguments that were rejected before any
// upstream call was made.
type ValidationError struct {
	Tool    string // Tool name, filled in by the registry
	Field   string // Offending argument, empty when the whole payload is bad
	Message string
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + " " + msg
	}
	if e.Tool != "" {
		return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, msg)
	}
	return "invalid arguments: " + msg
}

// UpstreamError wraps a failure returned by the Google Maps client. Its
// message is the upstream message, unmodified.
type UpstreamError struct {
	Tool string
	Err  error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether err was caused by the caller: an unknown
// tool name or invalid arguments.
func IsClientError(err error) bool {
	var unknown *UnknownToolError
	var invalid *ValidationError
	return errors.As(err, &unknown) || errors.As(err, &invalid)
}

func missing(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "is required"}
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
