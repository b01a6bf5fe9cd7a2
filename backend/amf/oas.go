package amf

import (
	"context"
	"errors"
	"fmt"

	"github.com/erraggy/apiparser/apiref"
	"github.com/erraggy/apiparser/internal/bundle"
	"github.com/erraggy/apiparser/resolver"
	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/index"
)

func (e *Engine) parseOAS(ctx context.Context, ref *apiref.Reference, root *resolver.Resource, r resolver.Resolver) (*Report, error) {
	bundled, err := bundle.Bundle(ctx, r, root.Location, root.Data)
	if err != nil {
		return nil, err
	}

	report := &Report{Conforms: true}
	for _, p := range bundled.Problems {
		report.add(bundleResult(p))
	}

	document, err := libopenapi.NewDocument(bundled.Data)
	if err != nil {
		report.add(ValidationResult{
			Message:      fmt.Sprintf("unable to read document: %v", err),
			Level:        LevelViolation,
			ValidationID: ValidationSyntax,
			Location:     root.Location,
		})
		return report, nil
	}

	doc := &Document{Vendor: ref.Vendor(), Includes: bundled.Documents}
	// positions reported by libopenapi refer to the bundled text
	positioned := !bundled.Changed

	switch ref.Vendor() {
	case apiref.VendorOAS20:
		model, err := document.BuildV2Model()
		e.modelErrors(report, root.Location, err, positioned)
		if model == nil {
			break
		}
		doc.Model = model
		if paths := model.Model.Paths; paths == nil {
			report.add(mandatory(root.Location, "paths"))
		}
		if info := model.Model.Info; info != nil {
			doc.Title, doc.Version = info.Title, info.Version
		}
	default:
		model, err := document.BuildV3Model()
		e.modelErrors(report, root.Location, err, positioned)
		if model == nil {
			break
		}
		doc.Model = model
		if paths := model.Model.Paths; paths == nil {
			report.add(mandatory(root.Location, "paths"))
		}
		if info := model.Model.Info; info != nil {
			doc.Title, doc.Version = info.Title, info.Version
		}
	}

	if doc.Model == nil {
		report.add(ValidationResult{
			Message:      "unable to build document model",
			Level:        LevelViolation,
			ValidationID: ValidationModel,
			Location:     root.Location,
		})
		return report, nil
	}
	if doc.Title == "" {
		report.add(mandatory(root.Location, "info.title"))
	}
	report.Document = doc
	return report, nil
}

// modelErrors records the errors joined into err by libopenapi.
func (e *Engine) modelErrors(report *Report, location string, err error, positioned bool) {
	if err == nil {
		return
	}
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	for _, err := range errs {
		v := ValidationResult{
			Message:      err.Error(),
			Level:        LevelViolation,
			ValidationID: ValidationModel,
			Location:     location,
		}
		var re *index.ResolvingError
		if errors.As(err, &re) {
			v.ValidationID = ValidationUnresolvedReference
			if re.CircularReference != nil {
				v.Level = LevelWarning
				v.ValidationID = ValidationCircularReference
			}
			if positioned && re.Node != nil {
				v.Position = at(re.Node.Line, re.Node.Column-1)
			}
		}
		e.log.Debug("model error", "location", location, "error", err)
		report.add(v)
	}
}

func mandatory(location, property string) ValidationResult {
	return ValidationResult{
		Message:      property + " is required",
		Level:        LevelViolation,
		ValidationID: ValidationMandatoryProperty,
		Location:     location,
	}
}

func bundleResult(p bundle.Problem) ValidationResult {
	v := ValidationResult{
		Message:      p.Message,
		Level:        LevelViolation,
		ValidationID: ValidationUnresolvedReference,
		Location:     p.Location,
		Position:     at(p.Line, p.Column-1),
	}
	switch p.Kind {
	case bundle.KindCircular:
		v.Level = LevelWarning
		v.ValidationID = ValidationCircularReference
	case bundle.KindSyntax:
		v.ValidationID = ValidationSyntax
	case bundle.KindLimit:
		v.ValidationID = ValidationLimit
	}
	return v
}
