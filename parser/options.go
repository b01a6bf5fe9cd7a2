package parser

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/erraggy/apiparser/apierrors"
	"github.com/erraggy/apiparser/apiref"
	"github.com/erraggy/apiparser/internal/options"
	"github.com/erraggy/apiparser/logging"
	"github.com/erraggy/apiparser/resolver"
	"github.com/erraggy/apiparser/strategy"
)

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

// parseConfig holds configuration for a parse operation
type parseConfig struct {
	// Input source (exactly one must be set)
	location *string
	content  *content

	mode   strategy.Mode
	vendor apiref.Vendor
	format apiref.Format

	// Resolution
	loader         resolver.Loader
	workingDir     string
	dependencyRepo string

	logger       logging.Logger
	strategyOpts []strategy.Option
}

type content struct {
	name string
	data []byte
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{mode: strategy.ModeAuto}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"parser: must specify an input source (use WithLocation or WithContent)",
		"parser: must specify exactly one input source",
		cfg.location != nil, cfg.content != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// source returns the location the configured document is known under.
func (cfg *parseConfig) source() string {
	switch {
	case cfg.location != nil:
		return *cfg.location
	case cfg.content != nil:
		return cfg.content.name
	}
	return ""
}

// resourceLoader returns the loader for the configured input. Content is
// served from memory ahead of any configured loader.
func (cfg *parseConfig) resourceLoader() resolver.Loader {
	if cfg.content == nil {
		if cfg.loader == nil {
			return resolver.FileLoader{}
		}
		return cfg.loader
	}
	mem := resolver.MemLoader{cfg.content.name: cfg.content.data}
	if cfg.loader != nil {
		return resolver.MultiLoader{mem, cfg.loader}
	}
	return mem
}

func (cfg *parseConfig) resolverOptions() []resolver.Option {
	var opts []resolver.Option
	if cfg.workingDir != "" {
		opts = append(opts, resolver.WithWorkingDir(cfg.workingDir))
	}
	if cfg.dependencyRepo != "" {
		opts = append(opts, resolver.WithDependencyLoader(resolver.DependencyLoader{Repository: cfg.dependencyRepo}))
	}
	return opts
}

// refOptions returns the options for the document reference.
func (cfg *parseConfig) refOptions() []apiref.Option {
	refOpts := []apiref.Option{
		apiref.WithLoader(cfg.resourceLoader()),
		apiref.WithResolverOptions(cfg.resolverOptions()...),
	}
	if cfg.vendor != apiref.VendorUnknown {
		refOpts = append(refOpts, apiref.WithVendor(cfg.vendor))
	}
	if cfg.format != apiref.FormatUnknown {
		refOpts = append(refOpts, apiref.WithFormat(cfg.format))
	}
	return refOpts
}

// WithLocation specifies the document location: a file path, a
// dependency-notation reference or an exchange_modules/ path.
// An empty location is accepted and fails resolution.
func WithLocation(location string) Option {
	return func(cfg *parseConfig) error {
		cfg.location = &location
		return nil
	}
}

// WithContent specifies in-memory content as the input source. name is the
// location the content is known under; its extension and directory are
// used like those of a file path.
func WithContent(name string, data []byte) Option {
	return func(cfg *parseConfig) error {
		clean := path.Clean(strings.TrimPrefix(filepath.ToSlash(name), "/"))
		if name == "" || clean == "." || strings.HasPrefix(clean, "../") || clean == ".." {
			return &apierrors.ConfigError{Option: "content", Value: name, Message: "content name must be a relative file name"}
		}
		cfg.content = &content{name: clean, data: data}
		return nil
	}
}

// WithMode selects the parsing strategy. Default: strategy.ModeAuto.
func WithMode(mode strategy.Mode) Option {
	return func(cfg *parseConfig) error {
		m, err := strategy.ParseMode(string(mode))
		if err != nil {
			return err
		}
		cfg.mode = m
		return nil
	}
}

// WithVendor declares the document vendor, skipping detection.
func WithVendor(v apiref.Vendor) Option {
	return func(cfg *parseConfig) error {
		cfg.vendor = v
		return nil
	}
}

// WithFormat declares the document format.
func WithFormat(f apiref.Format) Option {
	return func(cfg *parseConfig) error {
		cfg.format = f
		return nil
	}
}

// WithLoader sets the loader used to fetch documents. Default: the file system.
func WithLoader(l resolver.Loader) Option {
	return func(cfg *parseConfig) error {
		if l == nil {
			return &apierrors.ConfigError{Option: "loader", Message: "loader cannot be nil"}
		}
		cfg.loader = l
		return nil
	}
}

// WithWorkingDir sets the project directory exchange_modules/ paths are
// resolved against.
func WithWorkingDir(dir string) Option {
	return func(cfg *parseConfig) error {
		cfg.workingDir = dir
		return nil
	}
}

// WithDependencyRepository sets the Maven-style repository directory that
// dependency-notation references are loaded from.
func WithDependencyRepository(dir string) Option {
	return func(cfg *parseConfig) error {
		cfg.dependencyRepo = dir
		return nil
	}
}

// WithLogger sets a structured logger for parsing operations.
// By default, no logging is performed.
func WithLogger(l logging.Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithStrategyOptions passes options through to the parsing strategy, for
// example to replace an engine.
func WithStrategyOptions(opts ...strategy.Option) Option {
	return func(cfg *parseConfig) error {
		cfg.strategyOpts = append(cfg.strategyOpts, opts...)
		return nil
	}
}
