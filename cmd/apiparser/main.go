package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/apiparser"
	"github.com/erraggy/apiparser/cmd/apiparser/commands"
)

// commandNames lists every command main dispatches, in usage order.
var commandNames = []string{"detect", "parse", "validate", "includes", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("apiparser v%s\n", apiparser.Version())
		fmt.Println(apiparser.BuildInfo())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "detect":
		err = commands.HandleDetect(ctx, args, os.Stdout)
	case "parse":
		err = commands.HandleParse(ctx, args, os.Stdout)
	case "validate":
		err = commands.HandleValidate(ctx, args, os.Stdout)
	case "includes":
		err = commands.HandleIncludes(ctx, args, os.Stdout)
	case "mcp":
		err = commands.HandleMCP(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// suggestCommand returns the known command closest to input, or "" when
// none is within two edits.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	usage := `apiparser - RAML and OpenAPI parsing and validation

Usage:
  apiparser <command> [options]

Commands:
  detect      Report the vendor and format of a document
  parse       Parse a document and report its model summary and issues
  validate    Validate a document and report conformance
  includes    List the files a document transitively includes
  mcp         Start the MCP server over stdio
  version     Show version information
  help        Show this help message

Environment:
  APIPARSER_PARSER_TYPE    Force AMF or RAML for every parse

Run 'apiparser <command> --help' for more information on a command.`

	fmt.Println(usage)
}
