package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/erraggy/apiparser/apierrors"
	"github.com/erraggy/apiparser/apiref"
	"github.com/erraggy/apiparser/backend/amf"
	"github.com/erraggy/apiparser/backend/raml"
	"github.com/erraggy/apiparser/logging"
	"github.com/erraggy/apiparser/resolver"
	"github.com/erraggy/apiparser/result"
)

// Strategy parses a document into a normalized result. Parse never panics
// and never returns nil.
type Strategy interface {
	Parse(ctx context.Context, ref *apiref.Reference) *result.Result
}

// Option configures a strategy.
type Option func(*config)

type config struct {
	amf          AMFBackend
	raml         RAMLBackend
	log          logging.Logger
	resolverOpts []resolver.Option
}

// WithAMF replaces the multi-format engine.
func WithAMF(b AMFBackend) Option {
	return func(cfg *config) { cfg.amf = b }
}

// WithRAML replaces the legacy RAML engine.
func WithRAML(b RAMLBackend) Option {
	return func(cfg *config) { cfg.raml = b }
}

// WithLogger sets the logger for dispatch and fallback decisions. It is
// also handed to the resolver chains and the default engines.
func WithLogger(l logging.Logger) Option {
	return func(cfg *config) { cfg.log = l }
}

// WithResolverOptions adds options for the resolver chain built for each
// root document.
func WithResolverOptions(opts ...resolver.Option) Option {
	return func(cfg *config) { cfg.resolverOpts = append(cfg.resolverOpts, opts...) }
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.log = logging.OrNop(cfg.log)
	if cfg.amf == nil {
		cfg.amf = amf.New(amf.WithLogger(cfg.log))
	}
	if cfg.raml == nil {
		cfg.raml = raml.New(raml.WithLogger(cfg.log))
	}
	return cfg
}

// New returns the strategy for mode. An operator override, when set,
// replaces mode entirely. Unknown modes are treated as ModeAuto.
func New(mode Mode, opts ...Option) Strategy {
	cfg := newConfig(opts)
	if forced, ok := Override(); ok {
		if forced != mode {
			cfg.log.Info("parser override in effect", "requested", mode, "forced", forced)
		}
		mode = forced
	}

	switch mode {
	case ModeAMF:
		return &AMF{cfg: cfg}
	case ModeRAML:
		return &RAML{cfg: cfg}
	default:
		return &Auto{cfg: cfg}
	}
}

// AMF parses with the multi-format engine only.
type AMF struct {
	cfg *config
}

// Parse implements Strategy.
func (s *AMF) Parse(ctx context.Context, ref *apiref.Reference) *result.Result {
	return s.cfg.direct(ctx, ref, amfEngine(s.cfg.amf))
}

// RAML parses with the legacy RAML engine only.
type RAML struct {
	cfg *config
}

// Parse implements Strategy.
func (s *RAML) Parse(ctx context.Context, ref *apiref.Reference) *result.Result {
	return s.cfg.direct(ctx, ref, ramlEngine(s.cfg.raml))
}

// Auto picks an engine from the vendor and retries once on the other engine
// when the first one crashes.
type Auto struct {
	cfg *config
}

// Parse implements Strategy.
func (s *Auto) Parse(ctx context.Context, ref *apiref.Reference) *result.Result {
	primary, secondary := amfEngine(s.cfg.amf), ramlEngine(s.cfg.raml)
	if ref.Vendor() == apiref.VendorRAML08 {
		primary, secondary = secondary, primary
	}

	first, fault := s.cfg.run(ctx, ref, primary)
	if fault == nil {
		return first
	}

	exception := exceptionIssue(fault)
	if ctx.Err() != nil {
		return result.Failure(exception)
	}
	s.cfg.log.Warn("parser crashed, falling back",
		"location", ref.Location(), "failed", primary.name, "fallback", secondary.name, "error", fault)

	retry, fault := s.cfg.run(ctx, ref, secondary)
	if fault != nil {
		return result.Failure(exception, exceptionIssue(fault))
	}
	if retry.Success() {
		// the crashed attempt's warnings are discarded
		warnings := append([]result.Issue{exception}, retry.Warnings...)
		return result.New(retry.Specification, retry.Errors, warnings)
	}
	errs := append([]result.Issue{exception}, retry.Errors...)
	return result.New(nil, errs, retry.Warnings)
}

// direct runs a single engine and turns a crash into an EXCEPTION result.
func (cfg *config) direct(ctx context.Context, ref *apiref.Reference, e engine) *result.Result {
	res, fault := cfg.run(ctx, ref, e)
	if fault != nil {
		return result.Failure(exceptionIssue(fault))
	}
	return res
}

// run performs one parse attempt. A non-nil fault means the engine crashed;
// res is then nil. Unsupported documents and unreachable roots are results,
// not faults.
func (cfg *config) run(ctx context.Context, ref *apiref.Reference, e engine) (res *result.Result, fault error) {
	defer func() {
		if r := recover(); r != nil {
			res, fault = nil, &apierrors.BackendFaultError{Backend: e.name, Recovered: r}
		}
	}()

	vendor, format := ref.Vendor(), ref.Format()
	if vendor != apiref.VendorUnknown && !e.supports(vendor, format) {
		err := &apierrors.UnsupportedFeatureError{Backend: e.name, Vendor: vendor.String(), Format: format.String()}
		cfg.log.Info("unsupported document", "location", ref.Location(), "parser", e.name, "vendor", vendor, "format", format)
		return result.Failure(result.NewIssue(result.CodeUnsupportedFeature, err.Error())), nil
	}

	opts := append([]resolver.Option{resolver.WithLogger(cfg.log)}, cfg.resolverOpts...)
	chain := ref.NewResolver(opts...)
	root, ok := ref.RootResource()
	if !ok || len(cfg.resolverOpts) > 0 {
		var err error
		if root, err = chain.Fetch(ctx, chain.Root()); err != nil {
			cfg.log.Info("root document unreachable", "location", ref.Location(), "error", err)
			return RootFailure(ref.Location(), err), nil
		}
	}

	cfg.log.Info("parsing", "location", ref.Location(), "parser", e.name, "vendor", vendor, "format", format)
	res, err := e.parse(ctx, ref, root, resolver.Preload(chain, root))
	if err != nil {
		return nil, &apierrors.BackendFaultError{Backend: e.name, Cause: err}
	}
	return res, nil
}

// RootFailure reports an unreachable root document as one
// RESOLUTION_FAILURE listing every location that was tried.
func RootFailure(location string, err error) *result.Result {
	var children []string
	var nf *resolver.NotFoundError
	if errors.As(err, &nf) {
		children = append(children, nf.Tried...)
	}
	if len(children) == 0 {
		children = append(children, err.Error())
	}
	composite := result.NewCompositeError(fmt.Sprintf("Unable to resolve root document %q", location), children...)
	return result.Failure(composite.Issue(result.CodeResolutionFailure))
}

func exceptionIssue(fault error) result.Issue {
	return result.NewIssue(result.CodeException, fault.Error())
}
