package amf

import "github.com/erraggy/apiparser/apiref"

// Result levels.
const (
	LevelViolation = "Violation"
	LevelWarning   = "Warning"
	LevelInfo      = "Info"
)

// Validation identifiers.
const (
	ValidationUnresolvedReference = "http://a.ml/vocabularies/amf/core#unresolved-reference"
	ValidationCircularReference   = "http://a.ml/vocabularies/amf/core#recursive-shape"
	ValidationSyntax              = "http://a.ml/vocabularies/amf/parser#syntax-error"
	ValidationMandatoryProperty   = "http://a.ml/vocabularies/amf/parser#mandatory-property"
	ValidationUnknownProperty     = "http://a.ml/vocabularies/amf/parser#closed-shape"
	ValidationModel               = "http://a.ml/vocabularies/amf/parser#model-error"
	ValidationLimit               = "http://a.ml/vocabularies/amf/core#resource-limit"
)

// Position is a point in a document: Line is 1-based, Column is 0-based.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// ValidationResult is a single finding.
type ValidationResult struct {
	Message      string `json:"message"`
	Level        string `json:"level"`
	ValidationID string `json:"validationId"`
	// Location is the document the finding belongs to
	Location string `json:"location,omitempty"`
	// Position is nil when the finding has no position
	Position *Range `json:"position,omitempty"`
}

// Document is the parsed model.
type Document struct {
	Vendor   apiref.Vendor
	Title    string
	Version  string
	Includes []string
	// Model is *libopenapi.DocumentModel[v3.Document],
	// *libopenapi.DocumentModel[v2.Swagger] or *ramldoc.Document
	Model any
}

// Report is the outcome of a parse.
type Report struct {
	Conforms bool
	Results  []ValidationResult
	Document *Document
}

func (r *Report) add(v ValidationResult) {
	r.Results = append(r.Results, v)
	if v.Level == LevelViolation {
		r.Conforms = false
	}
}

func at(line, column int) *Range {
	if line <= 0 {
		return nil
	}
	p := Position{Line: line, Column: max(column, 0)}
	return &Range{Start: p, End: p}
}
