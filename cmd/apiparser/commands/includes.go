package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/erraggy/apiparser/parser"
)

// IncludesFlags contains flags for the includes command
type IncludesFlags struct {
	sourceFlags
}

// IncludesOutput is the structured form of an include listing.
type IncludesOutput struct {
	Location string   `json:"location"`
	Count    int      `json:"count"`
	Includes []string `json:"includes"`
}

// SetupIncludesFlags creates and configures a FlagSet for the includes command.
func SetupIncludesFlags() (*flag.FlagSet, *IncludesFlags) {
	fs := flag.NewFlagSet("includes", flag.ContinueOnError)
	flags := &IncludesFlags{}
	flags.register(fs)

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apiparser includes [flags] <file>\n\n")
		Writef(fs.Output(), "List every file a document transitively references through !include,\n")
		Writef(fs.Output(), "uses and external $ref, in discovery order. Unreadable includes are listed\n")
		Writef(fs.Output(), "but not followed.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  apiparser includes api.raml\n")
		Writef(fs.Output(), "  apiparser includes --format yaml openapi.json\n")
	}

	return fs, flags
}

// HandleIncludes executes the includes command
func HandleIncludes(ctx context.Context, args []string, w io.Writer) error {
	fs, flags := SetupIncludesFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("includes command requires exactly one document location")
	}

	opts, err := flags.options(fs.Arg(0))
	if err != nil {
		return err
	}

	includes, err := parser.Includes(ctx, opts...)
	if err != nil {
		return fmt.Errorf("listing includes of %s: %w", fs.Arg(0), err)
	}

	output := IncludesOutput{Location: fs.Arg(0), Count: len(includes), Includes: includes}
	if output.Includes == nil {
		output.Includes = []string{}
	}
	if flags.Format != FormatText {
		return OutputStructured(w, output, flags.Format)
	}

	for _, inc := range output.Includes {
		Writef(w, "%s\n", inc)
	}
	return nil
}
