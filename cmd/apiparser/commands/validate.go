package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/erraggy/apiparser"
	"github.com/erraggy/apiparser/parser"
	"github.com/erraggy/apiparser/result"
	"github.com/erraggy/apiparser/validator"
)

// ErrNotConforming is returned once a non-conforming report has been printed.
var ErrNotConforming = errors.New("document does not conform")

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	sourceFlags
	Mode       string
	NoWarnings bool
	Quiet      bool
}

// ValidateOutput is the structured form of a validation report.
type ValidateOutput struct {
	Conforms     bool                      `json:"conforms"`
	Location     string                    `json:"location"`
	ErrorCount   int                       `json:"errorCount"`
	WarningCount int                       `json:"warningCount"`
	Results      []result.ValidationResult `json:"results"`
}

// SetupValidateFlags creates and configures a FlagSet for the validate command.
// Returns the FlagSet and a ValidateFlags struct with bound flag variables.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}
	flags.register(fs)
	fs.StringVar(&flags.Mode, "mode", "AUTO", "parsing mode: AMF, RAML, or AUTO")
	fs.BoolVar(&flags.NoWarnings, "no-warnings", false, "omit warnings from output")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output results, no headers")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apiparser validate [flags] <file>\n\n")
		Writef(fs.Output(), "Validate a RAML or OpenAPI document. Errors are listed before warnings;\n")
		Writef(fs.Output(), "a document with warnings only still conforms.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nOutput Formats:\n")
		Writef(fs.Output(), "  text (default)  Human-readable text output\n")
		Writef(fs.Output(), "  json            JSON format for programmatic processing\n")
		Writef(fs.Output(), "  yaml            YAML format for programmatic processing\n")
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  apiparser validate api.raml\n")
		Writef(fs.Output(), "  apiparser validate --no-warnings openapi.json\n")
		Writef(fs.Output(), "  apiparser validate --format json --mode AMF openapi.yaml | jq '.conforms'\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Document conforms (warnings allowed)\n")
		Writef(fs.Output(), "  1    Document does not conform or cannot be read\n")
	}

	return fs, flags
}

// HandleValidate executes the validate command
func HandleValidate(ctx context.Context, args []string, w io.Writer) error {
	fs, flags := SetupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one document location")
	}

	mode, err := parseModeFlag(flags.Mode)
	if err != nil {
		return err
	}
	opts, err := flags.options(fs.Arg(0))
	if err != nil {
		return err
	}

	report := validator.ValidateWithOptions(ctx, append(opts, parser.WithMode(mode))...)
	output := newValidateOutput(report, flags.NoWarnings)

	if flags.Format != FormatText {
		if err := OutputStructured(w, output, flags.Format); err != nil {
			return err
		}
	} else {
		writeValidateText(w, output, flags.Quiet)
	}

	if !output.Conforms {
		return ErrNotConforming
	}
	return nil
}

// newValidateOutput summarizes report. Counts always cover every result.
func newValidateOutput(report *result.ValidationReport, noWarnings bool) ValidateOutput {
	output := ValidateOutput{
		Conforms:     report.Conforms(),
		Location:     report.Location,
		ErrorCount:   report.ErrorCount(),
		WarningCount: report.WarningCount(),
		Results:      report.Results,
	}
	if noWarnings {
		output.Results = nil
		for _, r := range report.Results {
			if r.Severity != result.SeverityWarning {
				output.Results = append(output.Results, r)
			}
		}
	}
	return output
}

func writeValidateText(w io.Writer, output ValidateOutput, quiet bool) {
	if !quiet {
		Writef(w, "API Description Validator\n")
		Writef(w, "=========================\n\n")
		Writef(w, "apiparser version: %s\n", apiparser.Version())
		Writef(w, "Document: %s\n\n", output.Location)
	}

	for _, r := range output.Results {
		Writef(w, "  [%s] %s: %s\n", r.Level, r.Code, r.Message)
	}
	if len(output.Results) > 0 {
		Writef(w, "\n")
	}

	if quiet {
		return
	}
	if output.Conforms {
		Writef(w, "✓ Validation passed")
		if output.WarningCount > 0 {
			Writef(w, " with %d warning(s)", output.WarningCount)
		}
	} else {
		Writef(w, "✗ Validation failed: %d error(s)", output.ErrorCount)
		if output.WarningCount > 0 {
			Writef(w, ", %d warning(s)", output.WarningCount)
		}
	}
	Writef(w, "\n")
}
