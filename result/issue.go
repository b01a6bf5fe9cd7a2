package result

import (
	"strings"

	"github.com/erraggy/apiparser/internal/severity"
)

// Code classifies an Issue.
type Code string

const (
	// CodeUnrecognizedVendor indicates the document grammar could not be detected.
	CodeUnrecognizedVendor Code = "UNRECOGNIZED_VENDOR"
	// CodeUnsupportedFeature indicates the backend cannot handle the vendor/format combination.
	CodeUnsupportedFeature Code = "UNSUPPORTED_FEATURE"
	// CodeException indicates the backend crashed while parsing.
	CodeException Code = "EXCEPTION"
	// CodeValidationError indicates the backend reported a grammar or semantic error.
	CodeValidationError Code = "VALIDATION_ERROR"
	// CodeValidationWarning indicates the backend reported a non-fatal problem.
	CodeValidationWarning Code = "VALIDATION_WARNING"
	// CodeResolutionFailure indicates a referenced resource could not be fetched.
	CodeResolutionFailure Code = "RESOLUTION_FAILURE"
)

// Severity is the severity of a validation result.
type Severity = severity.Severity

const (
	// SeverityError marks a result that makes the document non-conforming.
	SeverityError = severity.SeverityError
	// SeverityWarning marks a result that does not affect conformance.
	SeverityWarning = severity.SeverityWarning
)

// Issue is a single normalized problem. Issues are values and are not
// modified after they are produced.
type Issue struct {
	// Cause is the human-readable message, including location details when known
	Cause string `json:"cause"`
	// Code classifies the issue
	Code Code `json:"code"`
}

// NewIssue creates an Issue.
func NewIssue(code Code, cause string) Issue {
	return Issue{Cause: cause, Code: code}
}

// String returns "CODE: cause".
func (i Issue) String() string {
	return string(i.Code) + ": " + i.Cause
}

// CompositeError groups several underlying problems under one description.
// It is used when a single structural problem, such as an unreachable root
// document, spans more than one underlying issue.
type CompositeError struct {
	Description string
	Children    []string
}

// NewCompositeError creates a CompositeError from a description and the
// renderings of its children.
func NewCompositeError(description string, children ...string) *CompositeError {
	return &CompositeError{Description: description, Children: children}
}

// Error renders the description followed by each child on its own indented line.
func (e *CompositeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Description)
	for _, child := range e.Children {
		b.WriteString("\n  ")
		b.WriteString(strings.ReplaceAll(child, "\n", "\n  "))
	}
	return b.String()
}

// Issue converts the composite into a single Issue with the given code.
func (e *CompositeError) Issue(code Code) Issue {
	return NewIssue(code, e.Error())
}
