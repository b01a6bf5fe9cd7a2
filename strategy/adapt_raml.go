package strategy

import (
	"github.com/erraggy/apiparser/apiref"
	"github.com/erraggy/apiparser/backend/raml"
	"github.com/erraggy/apiparser/internal/issues"
	"github.com/erraggy/apiparser/internal/severity"
	"github.com/erraggy/apiparser/result"
)

// adaptRAML converts a legacy engine result. Its lines and columns are
// 0-based, -1 when unknown.
func adaptRAML(ref *apiref.Reference, backend string, res *raml.Result) *result.Result {
	var b bucket
	for _, v := range res.Results {
		sev, _ := severity.Parse(v.Level)
		i := issues.Issue{Message: v.Message, Location: v.Path, Severity: sev}
		if v.Line >= 0 {
			i.Line = v.Line + 1
			i.Column = v.Column + 1
		}
		b.add(i, v.Include)
	}

	out := b.result()
	if out.Success() && res.API != nil {
		vendor := ref.Vendor()
		if vendor == apiref.VendorRAML {
			vendor = apiref.VendorRAML10
			if res.API.RAMLVersion == "0.8" {
				vendor = apiref.VendorRAML08
			}
		}
		out.Specification = &result.Specification{
			Location: ref.Location(),
			Vendor:   vendor,
			Backend:  backend,
			Title:    res.API.Title,
			Version:  res.API.Version,
			Includes: res.API.Includes,
			Model:    res.API,
		}
	}
	return out
}
