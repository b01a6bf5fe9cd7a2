package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/apiparser/internal/mcpserver"
)

// HandleMCP starts the MCP server over stdio. It blocks until the client
// disconnects or ctx is cancelled.
func HandleMCP(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apiparser mcp\n\n")
		Writef(fs.Output(), "Start an MCP server over stdio exposing the detect, parse, validate and\n")
		Writef(fs.Output(), "includes tools. Configure it with APIPARSER_* environment variables.\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}

	if err := mcpserver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
