package resolver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/erraggy/apiparser/logging"
)

// ErrNotFound reports that a resolver definitely does not have a resource.
// It is the only error that lets a Composite move on to its next resolver.
var ErrNotFound = errors.New("resolver: resource not found")

// Resource is a fetched document.
type Resource struct {
	// Location is the logical location the resource was requested under
	Location string
	// Resolved is the concrete location it was loaded from
	Resolved string
	// Data is the raw content
	Data []byte
}

// Resolver turns a logical reference into content.
type Resolver interface {
	// Accepts reports whether the resolver handles ref at all.
	Accepts(ref string) bool
	// Fetch returns the resource for ref. A definite miss is reported with an
	// error matching ErrNotFound; any other error is a failure.
	Fetch(ctx context.Context, ref string) (*Resource, error)
}

// Named is implemented by resolvers that have a short name for logs and
// not-found reports.
type Named interface {
	Name() string
}

func nameOf(r Resolver) string {
	if n, ok := r.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", r)
}

// NotFoundError reports a reference no resolver could fetch.
type NotFoundError struct {
	// Ref is the reference that was requested
	Ref string
	// Tried lists "<resolver>: <target>" for each attempt, in order
	Tried []string
}

// Error returns a human-readable error message.
func (e *NotFoundError) Error() string {
	if e.Ref == "" {
		return "resolver: empty location"
	}
	return fmt.Sprintf("resolver: %s not found", e.Ref)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(ref string, tried ...string) error {
	return &NotFoundError{Ref: ref, Tried: tried}
}

// isMissing reports whether a loader error means "does not exist".
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, ErrNotFound)
}

// Composite tries its resolvers in order. Only resolvers that accept the
// reference are consulted. A not-found result moves on to the next one; any
// other error is returned immediately.
type Composite struct {
	resolvers []Resolver
	log       logging.Logger
}

// NewComposite creates a Composite over resolvers.
func NewComposite(log logging.Logger, resolvers ...Resolver) *Composite {
	return &Composite{resolvers: resolvers, log: logging.OrNop(log)}
}

// Name implements Named.
func (c *Composite) Name() string { return "composite" }

// Accepts implements Resolver.
func (c *Composite) Accepts(ref string) bool {
	for _, r := range c.resolvers {
		if r.Accepts(ref) {
			return true
		}
	}
	return false
}

// Fetch implements Resolver.
func (c *Composite) Fetch(ctx context.Context, ref string) (*Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var tried []string
	for _, r := range c.resolvers {
		if !r.Accepts(ref) {
			continue
		}
		res, err := r.Fetch(ctx, ref)
		if err == nil {
			c.log.Debug("resolved reference", "ref", ref, "resolver", nameOf(r), "resolved", res.Resolved)
			return res, nil
		}
		if !errors.Is(err, ErrNotFound) {
			c.log.Debug("resolver failed", "ref", ref, "resolver", nameOf(r), "error", err)
			return nil, err
		}
		var nf *NotFoundError
		if errors.As(err, &nf) && len(nf.Tried) > 0 {
			tried = append(tried, nf.Tried...)
		} else {
			tried = append(tried, nameOf(r)+": "+ref)
		}
	}
	return nil, notFound(ref, tried...)
}

// LoaderResolver looks a reference up in a Loader as-is. It is the terminal
// resolver of a chain and only takes references that mean the same thing
// wherever they are written: absolute paths, URLs and dependency notation.
// Relative references are left to the path resolver.
type LoaderResolver struct {
	Loader Loader
}

// Name implements Named.
func (l *LoaderResolver) Name() string { return "loader" }

// Accepts implements Resolver.
func (l *LoaderResolver) Accepts(ref string) bool {
	if ref == "" {
		return false
	}
	return IsDependency(ref) || hasURLScheme(ref) || path.IsAbs(ref) || filepath.IsAbs(ref)
}

// Fetch implements Resolver.
func (l *LoaderResolver) Fetch(ctx context.Context, ref string) (*Resource, error) {
	return fetchFrom(ctx, l.Loader, ref, ref, l.Name())
}

func fetchFrom(ctx context.Context, loader Loader, ref, target, name string) (*Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := readAll(loader, target)
	if err != nil {
		if isMissing(err) {
			return nil, notFound(ref, name+": "+target)
		}
		return nil, err
	}
	resolved, ok := loader.Locate(target)
	if !ok {
		resolved = target
	}
	return &Resource{Location: ref, Resolved: resolved, Data: data}, nil
}

// PathResolver resolves plain paths against a fixed base directory.
type PathResolver struct {
	Base   string
	Loader Loader
}

// Name implements Named.
func (p *PathResolver) Name() string { return "path" }

// Accepts implements Resolver.
func (p *PathResolver) Accepts(ref string) bool {
	return ref != "" && !IsDependency(ref) && !hasURLScheme(ref)
}

// Target returns the loader name for ref: a leading '/' is stripped, the
// result is joined with the base directory and "%20" is decoded to a space.
func (p *PathResolver) Target(ref string) string {
	ref = strings.TrimPrefix(ref, "/")
	if p.Base != "" && p.Base != "." {
		ref = strings.TrimSuffix(p.Base, "/") + "/" + ref
	}
	return strings.ReplaceAll(ref, "%20", " ")
}

// Fetch implements Resolver.
func (p *PathResolver) Fetch(ctx context.Context, ref string) (*Resource, error) {
	return fetchFrom(ctx, p.Loader, ref, p.Target(ref), p.Name())
}

// DependencyResolver resolves references inside a published dependency.
// Its prefix is fixed at construction from the root reference and
// prepended to every reference that lacks the dependency scheme.
type DependencyResolver struct {
	prefix string
	dep    Dependency
	inner  Resolver
}

// NewDependencyResolver creates a DependencyResolver for the given root
// reference. root may be empty, in which case only full notation and
// embedded paths can be resolved.
func NewDependencyResolver(root string, inner Resolver) *DependencyResolver {
	d, _ := ParseDependency(root)
	return &DependencyResolver{prefix: Prefix(root), dep: d, inner: inner}
}

// Name implements Named.
func (d *DependencyResolver) Name() string { return "dependency" }

// Prefix returns the prefix computed from the root reference.
func (d *DependencyResolver) Prefix() string { return d.prefix }

// Accepts implements Resolver.
func (d *DependencyResolver) Accepts(ref string) bool {
	if ref == "" {
		return false
	}
	return IsDependency(ref) || IsEmbedded(ref) || d.prefix != ""
}

// Target returns the full dependency notation for ref.
func (d *DependencyResolver) Target(ref string) (string, bool) {
	switch {
	case IsDependency(ref):
		return ref, true
	case IsEmbedded(ref):
		remainder, _ := EmbeddedRemainder(ref)
		return ToDependency(remainder, d.dep.Classifier, d.dep.Packaging)
	case d.prefix != "":
		return d.prefix + strings.TrimPrefix(ref, "/"), true
	default:
		return "", false
	}
}

// Fetch implements Resolver.
func (d *DependencyResolver) Fetch(ctx context.Context, ref string) (*Resource, error) {
	target, ok := d.Target(ref)
	if !ok {
		return nil, notFound(ref, d.Name()+": "+ref)
	}
	res, err := d.inner.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	return &Resource{Location: ref, Resolved: res.Resolved, Data: res.Data}, nil
}

// EmbeddedResolver resolves exchange_modules/ paths against a working
// directory. Without a working directory the remainder is looked up as-is
// and, on a miss, translated to dependency notation and handed to the
// dependency resolver.
type EmbeddedResolver struct {
	WorkingDir string
	Loader     Loader
	Dependency *DependencyResolver
}

// Name implements Named.
func (e *EmbeddedResolver) Name() string { return "embedded" }

// Accepts implements Resolver.
func (e *EmbeddedResolver) Accepts(ref string) bool {
	return IsEmbedded(ref)
}

// Fetch implements Resolver.
func (e *EmbeddedResolver) Fetch(ctx context.Context, ref string) (*Resource, error) {
	remainder, ok := EmbeddedRemainder(ref)
	if !ok {
		return nil, notFound(ref)
	}
	target := remainder
	if e.WorkingDir != "" {
		target = strings.TrimSuffix(e.WorkingDir, "/") + "/" + remainder
	}

	res, err := fetchFrom(ctx, e.Loader, ref, target, e.Name())
	if err == nil || !errors.Is(err, ErrNotFound) {
		return res, err
	}
	if e.WorkingDir != "" || e.Dependency == nil {
		return nil, err
	}

	dres, derr := e.Dependency.Fetch(ctx, remainder)
	if derr != nil {
		if errors.Is(derr, ErrNotFound) {
			var nf *NotFoundError
			tried := []string{e.Name() + ": " + target}
			if errors.As(derr, &nf) {
				tried = append(tried, nf.Tried...)
			}
			return nil, notFound(ref, tried...)
		}
		return nil, derr
	}
	return &Resource{Location: ref, Resolved: dres.Resolved, Data: dres.Data}, nil
}

// preloaded serves one already fetched resource from memory.
type preloaded struct {
	Resolver
	res *Resource
}

// Preload wraps r so that res is returned for res.Location without another
// fetch. Every other reference is delegated to r.
func Preload(r Resolver, res *Resource) Resolver {
	return &preloaded{Resolver: r, res: res}
}

func (p *preloaded) Fetch(ctx context.Context, ref string) (*Resource, error) {
	if ref == p.res.Location {
		return p.res, nil
	}
	return p.Resolver.Fetch(ctx, ref)
}
