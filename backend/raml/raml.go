// Package raml is the legacy RAML-only parsing engine.
//
// It reports in its own vocabulary: ValidationResults whose Level is
// "ERROR", "WARN" or "INFO", with 0-based lines and columns and a flag
// marking problems raised while loading an include.
package raml

import (
	"context"

	"github.com/erraggy/apiparser/apiref"
	"github.com/erraggy/apiparser/internal/ramldoc"
	"github.com/erraggy/apiparser/internal/severity"
	"github.com/erraggy/apiparser/logging"
	"github.com/erraggy/apiparser/resolver"
)

// Name is the engine name used in results and messages.
const Name = "RAML"

// Result levels.
const (
	LevelError = "ERROR"
	LevelWarn  = "WARN"
	LevelInfo  = "INFO"
)

// ValidationResult is a single finding. Line and Column are 0-based and -1
// when unknown.
type ValidationResult struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	// Path is the document the finding belongs to
	Path   string `json:"path,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	// Include marks problems raised while loading an included resource
	Include bool `json:"include,omitempty"`
}

// API is the parsed model.
type API struct {
	Title       string
	Version     string
	BaseURI     string
	RAMLVersion string
	Resources   []*ramldoc.Resource
	Includes    []string
	Document    *ramldoc.Document
}

// Result is the outcome of a parse.
type Result struct {
	Results []ValidationResult
	API     *API
}

// HasErrors reports whether any result has level ERROR.
func (r *Result) HasErrors() bool {
	for _, v := range r.Results {
		if v.Level == LevelError {
			return true
		}
	}
	return false
}

// Engine is the legacy RAML engine. It is stateless and safe for concurrent
// use.
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

// Name returns "RAML".
func (e *Engine) Name() string { return Name }

// Supports reports whether the engine handles the vendor and format. Only
// RAML, which is always YAML, is supported.
func (e *Engine) Supports(v apiref.Vendor, f apiref.Format) bool {
	return v.IsRAML() && (f == apiref.FormatYAML || f == apiref.FormatUnknown)
}

// Parse parses the root RAML document, fetching includes through r.
func (e *Engine) Parse(ctx context.Context, ref *apiref.Reference, root *resolver.Resource, r resolver.Resolver) (*Result, error) {
	e.log.Debug("parsing", "location", root.Location, "vendor", ref.Vendor())
	doc, problems, err := ramldoc.Load(ctx, r, root.Location, root.Data)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, p := range problems {
		res.Results = append(res.Results, ValidationResult{
			Level:   level(p),
			Message: p.Message,
			Path:    p.Location,
			Line:    p.Line,
			Column:  p.Column,
			Include: p.Kind == ramldoc.KindInclude,
		})
	}
	if doc.Version == "1.0" && ref.Vendor() == apiref.VendorRAML08 {
		res.Results = append(res.Results, ValidationResult{
			Level:   LevelInfo,
			Message: "document declares RAML 1.0 but was requested as RAML 0.8",
			Path:    root.Location,
			Line:    0,
			Column:  0,
		})
	}

	res.API = &API{
		Title:       doc.Title,
		Version:     doc.APIVersion,
		BaseURI:     doc.BaseURI,
		RAMLVersion: doc.Version,
		Resources:   doc.Resources,
		Includes:    doc.Includes,
		Document:    doc,
	}
	return res, nil
}

func level(p ramldoc.Problem) string {
	if p.Severity == severity.SeverityWarning {
		if p.Kind == ramldoc.KindSyntax {
			// a missing header is informational for this engine
			return LevelInfo
		}
		return LevelWarn
	}
	return LevelError
}
