package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apiparser/result"
)

type validateInput struct {
	Spec       specInput `json:"spec"                  jsonschema:"The document to validate"`
	Mode       string    `json:"mode,omitempty"        jsonschema:"Parsing mode: AMF, RAML or AUTO"`
	NoWarnings bool      `json:"no_warnings,omitempty" jsonschema:"Suppress warnings from output"`
	Offset     int       `json:"offset,omitempty"      jsonschema:"Skip the first N results (for pagination)"`
	Limit      int       `json:"limit,omitempty"       jsonschema:"Maximum number of results to return (default 100)"`
}

type validateResult struct {
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type validateOutput struct {
	Conforms     bool             `json:"conforms"`
	Location     string           `json:"location"`
	ErrorCount   int              `json:"error_count"`
	WarningCount int              `json:"warning_count"`
	Returned     int              `json:"returned"`
	Results      []validateResult `json:"results,omitempty"`
}

func handleValidate(ctx context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	res, err := input.Spec.parse(ctx, input.Mode)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}
	report := result.FromResult(input.Spec.location(), res)

	output := validateOutput{
		Conforms:   report.Conforms(),
		Location:   report.Location,
		ErrorCount: report.ErrorCount(),
	}
	if !input.NoWarnings {
		output.WarningCount = report.WarningCount()
	}

	results := makeSlice[validateResult](len(report.Results))
	for _, r := range report.Results {
		if input.NoWarnings && r.Severity == result.SeverityWarning {
			continue
		}
		results = append(results, validateResult{Level: r.Level, Code: string(r.Code), Message: r.Message})
	}
	output.Results = paginate(results, input.Offset, input.Limit)
	output.Returned = len(output.Results)

	return nil, output, nil
}
