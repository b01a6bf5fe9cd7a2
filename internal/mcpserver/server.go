// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes apiparser capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apiparser"
	"github.com/erraggy/apiparser/result"
)

const serverInstructions = `apiparser MCP server: detects, parses and validates RAML 0.8/1.0 and OpenAPI 2.0/3.x documents and lists the files they include.

Every tool takes a spec object with exactly one of file (a path on disk) or content (inline document). Inline content may carry a name; relative includes resolve against it.

Configuration is read once from APIPARSER_* environment variables set in your MCP client config:
- APIPARSER_WORKING_DIR: project directory exchange_modules/ paths resolve against
- APIPARSER_DEPENDENCY_REPO: Maven-style repository for resource:: dependency references
- APIPARSER_DEFAULT_MODE (default: AUTO): parsing mode when a tool call names none (AMF, RAML, AUTO)
- APIPARSER_PARSER_TYPE: forces AMF or RAML for every parse, overriding any mode
- APIPARSER_CACHE_ENABLED (default: true), APIPARSER_CACHE_FILE_TTL (default: 15m), APIPARSER_CACHE_CONTENT_TTL (default: 15m)
- APIPARSER_RESULT_LIMIT (default: 100): default page size for validation results`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		parseResults.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "apiparser", Version: apiparser.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect",
		Description: "Detect the vendor (RAML_08, RAML_10, OAS_20, OAS_30) and format (JSON, YAML) of an API description document without parsing it.",
	}, handleDetect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse",
		Description: "Parse a RAML or OpenAPI document. Returns whether parsing succeeded, the vendor, the engine that produced the model, title, version, included files and every error and warning with its code (UNRECOGNIZED_VENDOR, UNSUPPORTED_FEATURE, EXCEPTION, VALIDATION_ERROR, VALIDATION_WARNING, RESOLUTION_FAILURE). mode selects AMF, RAML or AUTO (default from APIPARSER_DEFAULT_MODE).",
	}, handleParse)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate a RAML or OpenAPI document. Returns conforms plus a flat list of results with level (error or warning), code and message, errors first. Use no_warnings to focus on errors and offset/limit to paginate.",
	}, handleValidate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "includes",
		Description: "List every file a document transitively references through !include, uses and external $ref, in discovery order, without parsing it.",
	}, handleIncludes)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ResultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ResultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// issueOutput is the wire form of a result.Issue.
type issueOutput struct {
	Code  string `json:"code"`
	Cause string `json:"cause"`
}

func issueOutputs(issues []result.Issue) []issueOutput {
	out := makeSlice[issueOutput](len(issues))
	for _, i := range issues {
		out = append(out, issueOutput{Code: string(i.Code), Cause: i.Cause})
	}
	return out
}
