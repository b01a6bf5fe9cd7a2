// Package severity provides the severity levels shared by every backend
// adapter and the tolerant parsing of backend-native level strings.
//
// Backends spell their levels differently ("Violation", "ERROR", "warn",
// "Info"). Parse folds case with golang.org/x/text/cases so that every
// spelling lands on one of two levels:
//   - SeverityError: the issue goes to the errors bucket
//   - SeverityWarning: the issue goes to the warnings bucket
//
// A level that is not recognized is an error. It is never dropped and never
// downgraded to a warning.
package severity

import (
	"strings"

	"golang.org/x/text/cases"
)

// Severity indicates whether an issue is an error or a warning.
type Severity int

const (
	// SeverityError indicates a problem that makes the document invalid.
	SeverityError Severity = iota

	// SeverityWarning indicates a problem that does not prevent parsing.
	SeverityWarning
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// levels maps case-folded backend level names onto the shared levels.
var levels = map[string]Severity{
	"error":     SeverityError,
	"violation": SeverityError,
	"fatal":     SeverityError,
	"warning":   SeverityWarning,
	"warn":      SeverityWarning,
	"info":      SeverityWarning,
}

// Parse maps a backend-reported level onto a Severity.
// The comparison ignores case and surrounding whitespace. The boolean reports
// whether the level was recognized; unrecognized levels map to SeverityError.
func Parse(level string) (Severity, bool) {
	// A Caser is stateful, so each call gets its own.
	key := cases.Fold().String(strings.TrimSpace(level))
	if s, ok := levels[key]; ok {
		return s, true
	}
	return SeverityError, false
}
