package resolver

import (
	"context"
	"path"
	"path/filepath"

	"github.com/erraggy/apiparser/logging"
)

// Option configures a Chain.
type Option func(*chainConfig)

type chainConfig struct {
	loader     Loader
	depLoader  Loader
	workingDir string
	logger     logging.Logger
}

// WithLoader sets the loader used for plain paths and as the terminal
// resolver. Default: FileLoader.
func WithLoader(l Loader) Option {
	return func(cfg *chainConfig) {
		if l != nil {
			cfg.loader = l
		}
	}
}

// WithDependencyLoader sets the loader used for dependency-notation
// references. Dependency notation is always tried against the main loader
// as well.
func WithDependencyLoader(l Loader) Option {
	return func(cfg *chainConfig) {
		cfg.depLoader = l
	}
}

// WithWorkingDir sets the directory exchange_modules/ paths are resolved
// against.
func WithWorkingDir(dir string) Option {
	return func(cfg *chainConfig) {
		cfg.workingDir = filepath.ToSlash(dir)
	}
}

// WithLogger sets the logger used to trace resolution.
func WithLogger(l logging.Logger) Option {
	return func(cfg *chainConfig) {
		cfg.logger = l
	}
}

// Chain is the resolver for one root document and all of its nested
// references. It is immutable after New and safe for concurrent use; two
// chains never share state.
type Chain struct {
	root      string
	prefix    string
	composite *Composite
}

// New builds the chain for the root document at location.
//
// For a dependency-notation root the chain is [embedded, dependency]; the
// dependency prefix is computed here, once. For a path root the chain is
// [embedded, path (root directory), loader]. An empty location produces a
// chain that fails every fetch with ErrNotFound.
func New(location string, opts ...Option) *Chain {
	cfg := &chainConfig{loader: FileLoader{}}
	for _, opt := range opts {
		opt(cfg)
	}
	log := logging.OrNop(cfg.logger).With("root", location)

	depLoader := cfg.loader
	if cfg.depLoader != nil {
		depLoader = MultiLoader{cfg.depLoader, cfg.loader}
	}

	if location == "" {
		return &Chain{composite: NewComposite(log)}
	}

	if IsDependency(location) {
		dep := NewDependencyResolver(location, &LoaderResolver{Loader: depLoader})
		root := location
		if d, ok := ParseDependency(location); ok {
			root = d.Path
		}
		return &Chain{
			root:   root,
			prefix: dep.Prefix(),
			composite: NewComposite(log,
				&EmbeddedResolver{WorkingDir: cfg.workingDir, Loader: cfg.loader, Dependency: dep},
				dep,
			),
		}
	}

	slashed := filepath.ToSlash(location)
	var dep *DependencyResolver
	if cfg.depLoader != nil {
		dep = NewDependencyResolver("", &LoaderResolver{Loader: depLoader})
	}
	resolvers := []Resolver{
		&EmbeddedResolver{WorkingDir: cfg.workingDir, Loader: cfg.loader, Dependency: dep},
		&PathResolver{Base: path.Dir(slashed), Loader: cfg.loader},
	}
	if dep != nil {
		resolvers = append(resolvers, dep)
	}
	resolvers = append(resolvers, &LoaderResolver{Loader: cfg.loader})

	return &Chain{
		root:      path.Base(slashed),
		composite: NewComposite(log, resolvers...),
	}
}

// Root returns the logical location of the root document. Nested
// references are joined against it with Join.
func (c *Chain) Root() string { return c.root }

// Prefix returns the dependency prefix of the root, or "".
func (c *Chain) Prefix() string { return c.prefix }

// Name implements Named.
func (c *Chain) Name() string { return "chain" }

// Accepts implements Resolver.
func (c *Chain) Accepts(ref string) bool { return c.composite.Accepts(ref) }

// Fetch implements Resolver.
func (c *Chain) Fetch(ctx context.Context, ref string) (*Resource, error) {
	return c.composite.Fetch(ctx, ref)
}
