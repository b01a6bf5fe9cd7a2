package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/erraggy/apiparser/parser"
)

// DetectFlags contains flags for the detect command
type DetectFlags struct {
	sourceFlags
}

// DetectOutput is the structured form of a detection.
type DetectOutput struct {
	Location string `json:"location"`
	Vendor   string `json:"vendor"`
	Format   string `json:"format"`
}

// SetupDetectFlags creates and configures a FlagSet for the detect command.
func SetupDetectFlags() (*flag.FlagSet, *DetectFlags) {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	flags := &DetectFlags{}
	flags.register(fs)

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apiparser detect [flags] <file>\n\n")
		Writef(fs.Output(), "Report the vendor (RAML_08, RAML_10, OAS_20, OAS_30) and format of a document.\n")
		Writef(fs.Output(), "Only the start of the root document is read; nothing is parsed.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  apiparser detect api.raml\n")
		Writef(fs.Output(), "  apiparser detect --format json openapi.yaml\n")
		Writef(fs.Output(), "  apiparser detect 'resource::com.acme:types:1.0.0:raml-fragment:zip:user.raml' --dependency-repo ~/.m2/repository\n")
	}

	return fs, flags
}

// HandleDetect executes the detect command
func HandleDetect(ctx context.Context, args []string, w io.Writer) error {
	fs, flags := SetupDetectFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("detect command requires exactly one document location")
	}

	opts, err := flags.options(fs.Arg(0))
	if err != nil {
		return err
	}

	ref, err := parser.Reference(ctx, opts...)
	if err != nil {
		return fmt.Errorf("detecting %s: %w", fs.Arg(0), err)
	}

	output := DetectOutput{
		Location: ref.Location(),
		Vendor:   ref.Vendor().String(),
		Format:   ref.Format().String(),
	}
	if flags.Format != FormatText {
		return OutputStructured(w, output, flags.Format)
	}

	Writef(w, "Location: %s\n", output.Location)
	Writef(w, "Vendor: %s\n", output.Vendor)
	Writef(w, "Format: %s\n", output.Format)
	return nil
}
