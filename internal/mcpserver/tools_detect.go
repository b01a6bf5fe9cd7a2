package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apiparser/parser"
)

type detectInput struct {
	Spec specInput `json:"spec" jsonschema:"The document to classify"`
}

type detectOutput struct {
	Location string `json:"location"`
	Vendor   string `json:"vendor"`
	Format   string `json:"format"`
}

func handleDetect(ctx context.Context, _ *mcp.CallToolRequest, input detectInput) (*mcp.CallToolResult, detectOutput, error) {
	if err := input.Spec.check(); err != nil {
		return errResult(err), detectOutput{}, nil
	}
	ref, err := parser.Reference(ctx, input.Spec.options()...)
	if err != nil {
		return errResult(err), detectOutput{}, nil
	}
	return nil, detectOutput{
		Location: input.Spec.location(),
		Vendor:   ref.Vendor().String(),
		Format:   ref.Format().String(),
	}, nil
}
