package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/erraggy/apiparser/apierrors"
	"github.com/erraggy/apiparser/apiref"
	"github.com/erraggy/apiparser/logging"
	"github.com/erraggy/apiparser/resolver"
	"github.com/erraggy/apiparser/result"
	"github.com/erraggy/apiparser/strategy"
)

// Parse parses the document at location with the given mode.
func Parse(ctx context.Context, location string, mode strategy.Mode) *result.Result {
	return ParseWithOptions(ctx, WithLocation(location), WithMode(mode))
}

// ParseWithOptions parses a document using functional options.
//
// Example:
//
//	res := parser.ParseWithOptions(ctx,
//	    parser.WithLocation("api.raml"),
//	    parser.WithWorkingDir("."),
//	)
func ParseWithOptions(ctx context.Context, opts ...Option) (res *result.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = result.Failure(result.NewIssue(result.CodeException, fmt.Sprintf("parser: panic: %v", r)))
		}
	}()

	cfg, err := applyOptions(opts...)
	if err != nil {
		return result.Failure(result.NewIssue(result.CodeException, fmt.Sprintf("parser: invalid options: %v", err)))
	}
	log := logging.OrNop(cfg.logger)
	location := cfg.source()

	ref, err := apiref.New(ctx, location, cfg.refOptions()...)
	if err != nil {
		log.Info("unable to identify document", "location", location, "error", err)
		return referenceFailure(location, err)
	}
	log.Debug("identified document", "location", location, "vendor", ref.Vendor(), "format", ref.Format())

	stratOpts := append([]strategy.Option{strategy.WithLogger(log)}, cfg.strategyOpts...)
	return strategy.New(cfg.mode, stratOpts...).Parse(ctx, ref)
}

// Reference identifies the document the options name without parsing it.
// The vendor is detected unless declared with WithVendor.
func Reference(ctx context.Context, opts ...Option) (*apiref.Reference, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	return apiref.New(ctx, cfg.source(), cfg.refOptions()...)
}

// Includes lists every resource the document transitively references, in
// discovery order, without parsing it. Only a failure to fetch the root
// document is an error.
func Includes(ctx context.Context, opts ...Option) ([]string, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	chainOpts := append([]resolver.Option{
		resolver.WithLoader(cfg.resourceLoader()),
		resolver.WithLogger(cfg.logger),
	}, cfg.resolverOptions()...)
	chain := resolver.New(cfg.source(), chainOpts...)
	return resolver.Includes(ctx, chain, chain.Root())
}

// Source returns the location the options name, or "" when they name none.
// Invalid options are ignored.
func Source(opts ...Option) string {
	cfg := &parseConfig{}
	for _, opt := range opts {
		_ = opt(cfg)
	}
	return cfg.source()
}

func referenceFailure(location string, err error) *result.Result {
	var re *apierrors.ResolutionError
	switch {
	case errors.Is(err, apierrors.ErrUnrecognizedVendor):
		return result.Failure(result.NewIssue(result.CodeUnrecognizedVendor, err.Error()))
	case errors.As(err, &re) && re.Cause != nil:
		return strategy.RootFailure(location, re.Cause)
	default:
		return result.Failure(result.NewIssue(result.CodeException, err.Error()))
	}
}
