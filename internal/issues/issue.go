// Package issues provides the intermediate issue form that backend adapters
// fill in before an issue is handed to callers.
package issues

import (
	"fmt"
	"strings"

	"github.com/erraggy/apiparser/internal/severity"
)

// Issue represents a single backend-reported problem after its severity and
// position have been translated, but before it is given a result code.
type Issue struct {
	// Message is a human-readable description of the issue
	Message string
	// Location is the document the issue was found in (empty if unknown)
	Location string
	// Line is the 1-based line number in the source file (0 if unknown)
	Line int
	// Column is the 1-based column number in the source file (0 if unknown)
	Column int
	// Severity indicates the severity level of the issue
	Severity severity.Severity
}

// HasPosition returns true if this issue has a line number.
func (i Issue) HasPosition() bool {
	return i.Line > 0
}

// Position returns the position as "Line <n>,  Column <m>", or an empty
// string when the line is unknown. A missing column is reported as column 1.
func (i Issue) Position() string {
	if !i.HasPosition() {
		return ""
	}
	col := i.Column
	if col <= 0 {
		col = 1
	}
	return fmt.Sprintf("Line %d,  Column %d", i.Line, col)
}

// Cause renders the message followed by whatever location detail is known:
//
//	message
//	message (api.raml)
//	message (api.raml: Line 3,  Column 5)
//	message (Line 3,  Column 5)
func (i Issue) Cause() string {
	var detail []string
	if i.Location != "" {
		detail = append(detail, i.Location)
	}
	if pos := i.Position(); pos != "" {
		detail = append(detail, pos)
	}
	if len(detail) == 0 {
		return i.Message
	}
	return fmt.Sprintf("%s (%s)", i.Message, strings.Join(detail, ": "))
}

// String implements fmt.Stringer.
func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s", i.Severity, i.Cause())
}
