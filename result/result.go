package result

import "github.com/erraggy/apiparser/apiref"

// Specification is the handle to a successfully parsed document.
// Model holds the backend's own model and is opaque to this module.
type Specification struct {
	// Location is the root document location
	Location string `json:"location"`
	// Vendor is the grammar the document was parsed as
	Vendor apiref.Vendor `json:"vendor"`
	// Backend is the name of the backend that produced the model
	Backend string `json:"backend"`
	// Title is the API title declared by the document
	Title string `json:"title,omitempty"`
	// Version is the API version declared by the document
	Version string `json:"version,omitempty"`
	// Includes lists every external resource the document pulled in, in discovery order
	Includes []string `json:"includes,omitempty"`
	// Model is the backend-specific model of the document
	Model any `json:"-"`
}

// Result is the terminal output of a parse. It is not modified after it is
// returned to the caller.
type Result struct {
	// Specification is present when the parse produced a model
	Specification *Specification `json:"specification,omitempty"`
	// Errors contains the error-severity issues in the order they were reported
	Errors []Issue `json:"errors"`
	// Warnings contains the warning-severity issues in the order they were reported
	Warnings []Issue `json:"warnings"`
}

// New creates a Result.
func New(spec *Specification, errs, warnings []Issue) *Result {
	return &Result{Specification: spec, Errors: errs, Warnings: warnings}
}

// Failure creates a Result with the given errors and no specification.
func Failure(errs ...Issue) *Result {
	return &Result{Errors: errs}
}

// Success reports whether the result has no errors.
func (r *Result) Success() bool {
	return len(r.Errors) == 0
}

// HasCode reports whether any error or warning carries the given code.
func (r *Result) HasCode(code Code) bool {
	for _, list := range [][]Issue{r.Errors, r.Warnings} {
		for _, i := range list {
			if i.Code == code {
				return true
			}
		}
	}
	return false
}
