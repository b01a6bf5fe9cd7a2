package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apiparser/parser"
)

type includesInput struct {
	Spec specInput `json:"spec" jsonschema:"The root document"`
}

type includesOutput struct {
	Location string   `json:"location"`
	Count    int      `json:"count"`
	Includes []string `json:"includes,omitempty"`
}

func handleIncludes(ctx context.Context, _ *mcp.CallToolRequest, input includesInput) (*mcp.CallToolResult, includesOutput, error) {
	if err := input.Spec.check(); err != nil {
		return errResult(err), includesOutput{}, nil
	}
	includes, err := parser.Includes(ctx, input.Spec.options()...)
	if err != nil {
		return errResult(err), includesOutput{}, nil
	}
	return nil, includesOutput{
		Location: input.Spec.location(),
		Count:    len(includes),
		Includes: includes,
	}, nil
}
