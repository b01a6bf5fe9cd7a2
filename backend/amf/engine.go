package amf

import (
	"context"

	"github.com/erraggy/apiparser/apiref"
	"github.com/erraggy/apiparser/internal/ramldoc"
	"github.com/erraggy/apiparser/internal/severity"
	"github.com/erraggy/apiparser/logging"
	"github.com/erraggy/apiparser/resolver"
)

// Name is the engine name used in results and messages.
const Name = "AMF"

// Engine is the multi-format engine. It is stateless and safe for
// concurrent use.
type Engine struct {
	log logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	e.log = logging.OrNop(e.log)
	return e
}

// Name returns "AMF".
func (e *Engine) Name() string { return Name }

// Supports reports whether the engine handles the vendor and format.
// OpenAPI 3.0 is only read from JSON.
func (e *Engine) Supports(v apiref.Vendor, f apiref.Format) bool {
	switch v {
	case apiref.VendorRAML08, apiref.VendorRAML10, apiref.VendorRAML:
		return f == apiref.FormatYAML || f == apiref.FormatUnknown
	case apiref.VendorOAS20:
		return f == apiref.FormatJSON || f == apiref.FormatYAML
	case apiref.VendorOAS30:
		return f == apiref.FormatJSON
	default:
		return false
	}
}

// Parse parses the root document, fetching nested references through r.
// The returned error is reserved for failures of the engine itself;
// everything wrong with the document is in the report.
func (e *Engine) Parse(ctx context.Context, ref *apiref.Reference, root *resolver.Resource, r resolver.Resolver) (*Report, error) {
	e.log.Debug("parsing", "location", root.Location, "vendor", ref.Vendor(), "format", ref.Format())
	if ref.Vendor().IsRAML() {
		return e.parseRAML(ctx, ref, root, r)
	}
	return e.parseOAS(ctx, ref, root, r)
}

func (e *Engine) parseRAML(ctx context.Context, ref *apiref.Reference, root *resolver.Resource, r resolver.Resolver) (*Report, error) {
	doc, problems, err := ramldoc.Load(ctx, r, root.Location, root.Data)
	if err != nil {
		return nil, err
	}

	report := &Report{Conforms: true}
	for _, p := range problems {
		level := LevelViolation
		if p.Severity == severity.SeverityWarning {
			level = LevelWarning
		}
		report.add(ValidationResult{
			Message:      p.Message,
			Level:        level,
			ValidationID: ramlValidation(p),
			Location:     p.Location,
			Position:     at(p.Line+1, p.Column),
		})
	}

	vendor := ref.Vendor()
	if vendor == apiref.VendorRAML {
		vendor = apiref.VendorRAML10
		if doc.Version == "0.8" {
			vendor = apiref.VendorRAML08
		}
	}
	report.Document = &Document{
		Vendor:   vendor,
		Title:    doc.Title,
		Version:  doc.APIVersion,
		Includes: doc.Includes,
		Model:    doc,
	}
	return report, nil
}

func ramlValidation(p ramldoc.Problem) string {
	switch p.Kind {
	case ramldoc.KindInclude:
		return ValidationUnresolvedReference
	case ramldoc.KindSyntax:
		return ValidationSyntax
	}
	if p.Severity == severity.SeverityWarning {
		return ValidationUnknownProperty
	}
	return ValidationMandatoryProperty
}
