// Package commands provides CLI command handlers for apiparser.
package commands

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-json"
	"sigs.k8s.io/yaml"

	"github.com/erraggy/apiparser/apiref"
	"github.com/erraggy/apiparser/logging"
	"github.com/erraggy/apiparser/parser"
	"github.com/erraggy/apiparser/result"
	"github.com/erraggy/apiparser/strategy"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data to w in the specified format (json or yaml).
// YAML output is derived from the json tags.
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	Writef(w, "%s\n", bytes)
	return nil
}

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// sourceFlags are the flags every document command shares.
type sourceFlags struct {
	Format         string
	Vendor         string
	WorkingDir     string
	DependencyRepo string
	Verbose        bool
}

func (f *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&f.Vendor, "vendor", "", "declare the vendor instead of detecting it (RAML_08, RAML_10, OAS_20, OAS_30)")
	fs.StringVar(&f.WorkingDir, "working-dir", "", "project directory exchange_modules/ paths resolve against")
	fs.StringVar(&f.DependencyRepo, "dependency-repo", "", "Maven-style repository resource:: references resolve against")
	fs.BoolVar(&f.Verbose, "verbose", false, "log resolution and backend decisions to stderr")
}

// options validates the shared flags and turns them into parser options
// for location.
func (f *sourceFlags) options(location string) ([]parser.Option, error) {
	if err := ValidateOutputFormat(f.Format); err != nil {
		return nil, err
	}
	opts := []parser.Option{parser.WithLocation(location)}
	if f.Vendor != "" {
		v, ok := apiref.ParseVendor(f.Vendor)
		if !ok {
			return nil, fmt.Errorf("invalid vendor '%s'. Valid vendors: RAML_08, RAML_10, OAS_20, OAS_30", f.Vendor)
		}
		opts = append(opts, parser.WithVendor(v))
	}
	if f.WorkingDir != "" {
		opts = append(opts, parser.WithWorkingDir(f.WorkingDir))
	}
	if f.DependencyRepo != "" {
		opts = append(opts, parser.WithDependencyRepository(f.DependencyRepo))
	}
	if f.Verbose {
		opts = append(opts, parser.WithLogger(logging.NewSlogAdapter(
			slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})),
		)))
	}
	return opts, nil
}

// parseModeFlag parses the --mode flag value.
func parseModeFlag(value string) (strategy.Mode, error) {
	mode, err := strategy.ParseMode(value)
	if err != nil {
		return "", fmt.Errorf("invalid mode '%s'. Valid modes: %s, %s, %s", value, strategy.ModeAMF, strategy.ModeRAML, strategy.ModeAuto)
	}
	return mode, nil
}

// writeIssues prints a titled issue list in text form.
func writeIssues(w io.Writer, title string, list []result.Issue) {
	if len(list) == 0 {
		return
	}
	Writef(w, "%s (%d):\n", title, len(list))
	for _, i := range list {
		Writef(w, "  %s\n", i)
	}
	Writef(w, "\n")
}
