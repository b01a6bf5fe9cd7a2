// Package validator checks API description documents and reports the
// outcome as a flat list of validation results.
//
// It parses with the parser package and keeps only the issues:
//
//	report := validator.Validate(ctx, "api.raml", strategy.ModeAuto)
//	if !report.Conforms() {
//	    for _, r := range report.Results {
//	        fmt.Printf("[%s] %s: %s\n", r.Level, r.Code, r.Message)
//	    }
//	}
package validator

import (
	"context"

	"github.com/erraggy/apiparser/parser"
	"github.com/erraggy/apiparser/result"
	"github.com/erraggy/apiparser/strategy"
)

// Validate validates the document at location with the given mode.
func Validate(ctx context.Context, location string, mode strategy.Mode) *result.ValidationReport {
	return ValidateWithOptions(ctx, parser.WithLocation(location), parser.WithMode(mode))
}

// ValidateWithOptions validates a document described by parser options.
func ValidateWithOptions(ctx context.Context, opts ...parser.Option) *result.ValidationReport {
	res := parser.ParseWithOptions(ctx, opts...)
	return result.FromResult(parser.Source(opts...), res)
}
