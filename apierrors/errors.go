package apierrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrUnrecognizedVendor indicates the document grammar could not be detected.
	ErrUnrecognizedVendor = errors.New("unrecognized vendor")

	// ErrUnsupportedFeature indicates a backend cannot handle the document.
	ErrUnsupportedFeature = errors.New("unsupported feature")

	// ErrResolution indicates a referenced resource could not be fetched.
	ErrResolution = errors.New("resolution failure")

	// ErrCircularReference indicates an include or $ref cycle was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrBackendFault indicates a backend crashed while parsing.
	ErrBackendFault = errors.New("backend fault")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// UnrecognizedVendorError is returned when no RAML header or OpenAPI/Swagger
// version key could be found in the content.
type UnrecognizedVendorError struct {
	// Location is the document location, if known
	Location string
	// Line is the first meaningful line that was inspected (may be empty)
	Line string
}

// Error returns a human-readable error message.
func (e *UnrecognizedVendorError) Error() string {
	msg := "unrecognized vendor"
	if e.Location != "" {
		msg += " for " + e.Location
	}
	if e.Line != "" {
		msg += fmt.Sprintf(": first line %q", e.Line)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *UnrecognizedVendorError) Is(target error) bool {
	return target == ErrUnrecognizedVendor
}

// UnsupportedFeatureError is returned when a backend rejects a
// vendor/format combination before any work is attempted.
type UnsupportedFeatureError struct {
	// Backend is the name of the backend that rejected the document
	Backend string
	// Vendor is the detected vendor (e.g., "OAS_30")
	Vendor string
	// Format is the detected format (e.g., "YAML")
	Format string
}

// Error returns a human-readable error message.
func (e *UnsupportedFeatureError) Error() string {
	msg := "unsupported feature"
	if e.Backend != "" {
		msg += ": " + e.Backend + " parser does not support"
		if e.Vendor != "" {
			msg += " " + e.Vendor
		}
		if e.Format != "" {
			msg += " " + e.Format
		}
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *UnsupportedFeatureError) Is(target error) bool {
	return target == ErrUnsupportedFeature
}

// ResolutionError represents a failure to fetch a referenced resource.
type ResolutionError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// From is the location of the document containing the reference (empty for the root)
	From string
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ResolutionError) Error() string {
	msg := "resolution failure"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.From != "" {
		msg += " (included from " + e.From + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrResolution, and also ErrCircularReference when IsCircular is set.
func (e *ResolutionError) Is(target error) bool {
	if target == ErrResolution {
		return true
	}
	return target == ErrCircularReference && e.IsCircular
}

// BackendFaultError wraps a crash inside a backend engine: either an error
// the engine returned instead of a report, or a recovered panic.
type BackendFaultError struct {
	// Backend is the name of the backend that crashed
	Backend string
	// Recovered holds the value passed to panic, if the fault was a panic
	Recovered any
	// Cause is the error returned by the backend, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *BackendFaultError) Error() string {
	msg := "backend fault"
	if e.Backend != "" {
		msg += " in " + e.Backend + " parser"
	}
	if e.Recovered != nil {
		msg += fmt.Sprintf(": panic: %v", e.Recovered)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *BackendFaultError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *BackendFaultError) Is(target error) bool {
	return target == ErrBackendFault
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
