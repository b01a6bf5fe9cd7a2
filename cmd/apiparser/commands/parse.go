package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/erraggy/apiparser"
	"github.com/erraggy/apiparser/parser"
	"github.com/erraggy/apiparser/result"
)

// ErrParseFailed is returned once a failed parse has been reported.
var ErrParseFailed = errors.New("parsing failed")

// ParseFlags contains flags for the parse command
type ParseFlags struct {
	sourceFlags
	Mode  string
	Quiet bool
}

// ParseOutput is the structured form of a parse result.
type ParseOutput struct {
	Success  bool           `json:"success"`
	Location string         `json:"location"`
	Vendor   string         `json:"vendor,omitempty"`
	Backend  string         `json:"backend,omitempty"`
	Title    string         `json:"title,omitempty"`
	Version  string         `json:"version,omitempty"`
	Includes []string       `json:"includes,omitempty"`
	Errors   []result.Issue `json:"errors"`
	Warnings []result.Issue `json:"warnings"`
}

// SetupParseFlags creates and configures a FlagSet for the parse command.
func SetupParseFlags() (*flag.FlagSet, *ParseFlags) {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	flags := &ParseFlags{}
	flags.register(fs)
	fs.StringVar(&flags.Mode, "mode", "AUTO", "parsing mode: AMF, RAML, or AUTO")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output errors")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apiparser parse [flags] <file>\n\n")
		Writef(fs.Output(), "Parse a RAML or OpenAPI document and report its summary and issues.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nModes:\n")
		Writef(fs.Output(), "  AMF   use the multi-format engine\n")
		Writef(fs.Output(), "  RAML  use the RAML engine (RAML documents only)\n")
		Writef(fs.Output(), "  AUTO  pick an engine by vendor, retry once with the other after a crash\n")
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  apiparser parse api.raml\n")
		Writef(fs.Output(), "  apiparser parse --mode RAML --format json api.raml\n")
		Writef(fs.Output(), "  apiparser parse --working-dir ./project exchange_modules/com.acme/types/1.0.0/user.raml\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Parsing succeeded (warnings allowed)\n")
		Writef(fs.Output(), "  1    Parsing failed or reported errors\n")
	}

	return fs, flags
}

// HandleParse executes the parse command
func HandleParse(ctx context.Context, args []string, w io.Writer) error {
	fs, flags := SetupParseFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("parse command requires exactly one document location")
	}

	mode, err := parseModeFlag(flags.Mode)
	if err != nil {
		return err
	}
	opts, err := flags.options(fs.Arg(0))
	if err != nil {
		return err
	}

	start := time.Now()
	res := parser.ParseWithOptions(ctx, append(opts, parser.WithMode(mode))...)
	elapsed := time.Since(start)

	output := newParseOutput(parser.Source(opts...), res)
	if flags.Format != FormatText {
		if err := OutputStructured(w, output, flags.Format); err != nil {
			return err
		}
	} else {
		writeParseText(w, output, mode.String(), elapsed, flags.Quiet)
	}

	if !output.Success {
		return ErrParseFailed
	}
	return nil
}

func newParseOutput(location string, res *result.Result) ParseOutput {
	output := ParseOutput{
		Success:  res.Success(),
		Location: location,
		Errors:   res.Errors,
		Warnings: res.Warnings,
	}
	if spec := res.Specification; spec != nil {
		output.Vendor = spec.Vendor.String()
		output.Backend = spec.Backend
		output.Title = spec.Title
		output.Version = spec.Version
		output.Includes = spec.Includes
	}
	return output
}

func writeParseText(w io.Writer, output ParseOutput, mode string, elapsed time.Duration, quiet bool) {
	if quiet {
		writeIssues(w, "Errors", output.Errors)
		return
	}

	Writef(w, "API Description Parser\n")
	Writef(w, "======================\n\n")
	Writef(w, "apiparser version: %s\n", apiparser.Version())
	Writef(w, "Document: %s\n", output.Location)
	Writef(w, "Mode: %s\n", mode)
	if output.Vendor != "" {
		Writef(w, "Vendor: %s\n", output.Vendor)
		Writef(w, "Backend: %s\n", output.Backend)
		Writef(w, "Title: %s\n", output.Title)
		if output.Version != "" {
			Writef(w, "Version: %s\n", output.Version)
		}
		Writef(w, "Includes: %d\n", len(output.Includes))
	}
	Writef(w, "Parse Time: %v\n\n", elapsed)

	writeIssues(w, "Errors", output.Errors)
	writeIssues(w, "Warnings", output.Warnings)

	if output.Success {
		Writef(w, "✓ Parsing succeeded\n")
	} else {
		Writef(w, "✗ Parsing failed\n")
	}
}
