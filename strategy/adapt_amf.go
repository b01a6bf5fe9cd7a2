package strategy

import (
	"github.com/erraggy/apiparser/apiref"
	"github.com/erraggy/apiparser/backend/amf"
	"github.com/erraggy/apiparser/internal/issues"
	"github.com/erraggy/apiparser/internal/severity"
	"github.com/erraggy/apiparser/result"
)

// adaptAMF converts a multi-format engine report. AMF columns are 0-based.
func adaptAMF(ref *apiref.Reference, backend string, report *amf.Report) *result.Result {
	var b bucket
	for _, v := range report.Results {
		sev, _ := severity.Parse(v.Level)
		i := issues.Issue{Message: v.Message, Location: v.Location, Severity: sev}
		if v.Position != nil {
			i.Line = v.Position.Start.Line
			i.Column = v.Position.Start.Column + 1
		}
		b.add(i, v.ValidationID == amf.ValidationUnresolvedReference)
	}

	res := b.result()
	if res.Success() && report.Document != nil {
		d := report.Document
		res.Specification = &result.Specification{
			Location: ref.Location(),
			Vendor:   d.Vendor,
			Backend:  backend,
			Title:    d.Title,
			Version:  d.Version,
			Includes: d.Includes,
			Model:    d.Model,
		}
	}
	return res
}

// bucket sorts adapted issues into errors and warnings.
type bucket struct {
	errs     []result.Issue
	warnings []result.Issue
}

func (b *bucket) add(i issues.Issue, unresolved bool) {
	code := result.CodeValidationError
	if i.Severity == severity.SeverityWarning {
		code = result.CodeValidationWarning
	}
	if unresolved {
		code = result.CodeResolutionFailure
	}
	issue := result.NewIssue(code, i.Cause())
	if i.Severity == severity.SeverityWarning {
		b.warnings = append(b.warnings, issue)
	} else {
		b.errs = append(b.errs, issue)
	}
}

func (b *bucket) result() *result.Result {
	return result.New(nil, b.errs, b.warnings)
}
