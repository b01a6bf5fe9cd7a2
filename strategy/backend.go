package strategy

import (
	"context"
	"errors"

	"github.com/erraggy/apiparser/apiref"
	"github.com/erraggy/apiparser/backend/amf"
	"github.com/erraggy/apiparser/backend/raml"
	"github.com/erraggy/apiparser/resolver"
	"github.com/erraggy/apiparser/result"
)

// AMFBackend is the capability of the multi-format engine.
// *amf.Engine implements it.
type AMFBackend interface {
	Name() string
	Supports(v apiref.Vendor, f apiref.Format) bool
	Parse(ctx context.Context, ref *apiref.Reference, root *resolver.Resource, r resolver.Resolver) (*amf.Report, error)
}

// RAMLBackend is the capability of the legacy RAML engine.
// *raml.Engine implements it.
type RAMLBackend interface {
	Name() string
	Supports(v apiref.Vendor, f apiref.Format) bool
	Parse(ctx context.Context, ref *apiref.Reference, root *resolver.Resource, r resolver.Resolver) (*raml.Result, error)
}

var (
	_ AMFBackend  = (*amf.Engine)(nil)
	_ RAMLBackend = (*raml.Engine)(nil)
)

// engine is a backend with its adapter applied.
type engine struct {
	name     string
	supports func(apiref.Vendor, apiref.Format) bool
	parse    func(ctx context.Context, ref *apiref.Reference, root *resolver.Resource, r resolver.Resolver) (*result.Result, error)
}

func amfEngine(b AMFBackend) engine {
	return engine{
		name:     b.Name(),
		supports: b.Supports,
		parse: func(ctx context.Context, ref *apiref.Reference, root *resolver.Resource, r resolver.Resolver) (*result.Result, error) {
			report, err := b.Parse(ctx, ref, root, r)
			if err != nil {
				return nil, err
			}
			if report == nil {
				return nil, errNoReport
			}
			return adaptAMF(ref, b.Name(), report), nil
		},
	}
}

func ramlEngine(b RAMLBackend) engine {
	return engine{
		name:     b.Name(),
		supports: b.Supports,
		parse: func(ctx context.Context, ref *apiref.Reference, root *resolver.Resource, r resolver.Resolver) (*result.Result, error) {
			res, err := b.Parse(ctx, ref, root, r)
			if err != nil {
				return nil, err
			}
			if res == nil {
				return nil, errNoReport
			}
			return adaptRAML(ref, b.Name(), res), nil
		},
	}
}

var errNoReport = errors.New("parser returned no report")
