package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type parseInput struct {
	Spec specInput `json:"spec"           jsonschema:"The document to parse"`
	Mode string    `json:"mode,omitempty" jsonschema:"Parsing mode: AMF, RAML or AUTO"`
}

type parseOutput struct {
	Success  bool          `json:"success"`
	Location string        `json:"location"`
	Vendor   string        `json:"vendor,omitempty"`
	Backend  string        `json:"backend,omitempty"`
	Title    string        `json:"title,omitempty"`
	Version  string        `json:"version,omitempty"`
	Includes []string      `json:"includes,omitempty"`
	Errors   []issueOutput `json:"errors,omitempty"`
	Warnings []issueOutput `json:"warnings,omitempty"`
}

func handleParse(ctx context.Context, _ *mcp.CallToolRequest, input parseInput) (*mcp.CallToolResult, parseOutput, error) {
	res, err := input.Spec.parse(ctx, input.Mode)
	if err != nil {
		return errResult(err), parseOutput{}, nil
	}

	output := parseOutput{
		Success:  res.Success(),
		Location: input.Spec.location(),
		Errors:   issueOutputs(res.Errors),
		Warnings: issueOutputs(res.Warnings),
	}
	if spec := res.Specification; spec != nil {
		output.Vendor = spec.Vendor.String()
		output.Backend = spec.Backend
		output.Title = spec.Title
		output.Version = spec.Version
		output.Includes = spec.Includes
	}
	return nil, output, nil
}
