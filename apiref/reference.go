package apiref

import (
	"bytes"
	"context"
	"fmt"

	"github.com/erraggy/apiparser/apierrors"
	"github.com/erraggy/apiparser/resolver"
)

// Reference identifies the document to parse, its grammar and how to fetch
// it and its dependents. It is immutable once created.
type Reference struct {
	location     string
	vendor       Vendor
	format       Format
	loader       resolver.Loader
	resolverOpts []resolver.Option

	// root is the root document when New had to read it.
	root *resolver.Resource
}

// Option configures a Reference.
type Option func(*Reference)

// WithVendor declares the vendor instead of detecting it.
func WithVendor(v Vendor) Option {
	return func(r *Reference) { r.vendor = v }
}

// WithFormat declares the format instead of detecting it.
func WithFormat(f Format) Option {
	return func(r *Reference) { r.format = f }
}

// WithLoader sets the resource loader used to fetch the document and its
// includes. Default: resolver.FileLoader.
func WithLoader(l resolver.Loader) Option {
	return func(r *Reference) { r.loader = l }
}

// WithResolverOptions adds options applied to every resolver chain built
// for this reference.
func WithResolverOptions(opts ...resolver.Option) Option {
	return func(r *Reference) { r.resolverOpts = append(r.resolverOpts, opts...) }
}

// New creates a Reference for location.
//
// When the vendor is not declared the root document is fetched once and
// classified with Detect; a declared vendor without a format gets its format
// from the file extension or, failing that, from the content. An empty
// location is legal: no detection happens and every later fetch fails.
//
// Errors are *apierrors.UnrecognizedVendorError when detection fails and
// *apierrors.ResolutionError when the root cannot be fetched for detection.
func New(ctx context.Context, location string, opts ...Option) (*Reference, error) {
	ref := &Reference{location: location, loader: resolver.FileLoader{}}
	for _, opt := range opts {
		opt(ref)
	}
	if location == "" {
		return ref, nil
	}

	if ref.vendor.IsRAML() && ref.format == FormatUnknown {
		ref.format = FormatYAML
	}
	if ref.vendor != VendorUnknown && ref.format != FormatUnknown {
		return ref, nil
	}
	if ref.vendor != VendorUnknown {
		if f := formatFromPath(location); f != FormatUnknown {
			ref.format = f
			return ref, nil
		}
	}

	chain := ref.NewResolver()
	res, err := chain.Fetch(ctx, chain.Root())
	if err != nil {
		return nil, &apierrors.ResolutionError{Ref: location, Message: "cannot read root document", Cause: err}
	}

	if ref.vendor != VendorUnknown {
		ref.format = formatFromContent(res.Data)
		ref.root = res
		return ref, nil
	}

	vendor, format, err := Detect(bytes.NewReader(res.Data))
	if err != nil {
		if uv, ok := err.(*apierrors.UnrecognizedVendorError); ok {
			uv.Location = location
		}
		return nil, err
	}
	ref.vendor = vendor
	if ref.format == FormatUnknown {
		ref.format = format
	}
	ref.root = res
	return ref, nil
}

// MustNew is New for tests and fixed inputs; it panics on error.
func MustNew(ctx context.Context, location string, opts ...Option) *Reference {
	ref, err := New(ctx, location, opts...)
	if err != nil {
		panic(fmt.Sprintf("apiref: %v", err))
	}
	return ref
}

// Location returns the document location as given.
func (r *Reference) Location() string { return r.location }

// Vendor returns the declared or detected vendor.
func (r *Reference) Vendor() Vendor { return r.vendor }

// Format returns the declared or detected format.
func (r *Reference) Format() Format { return r.format }

// Loader returns the resource loader.
func (r *Reference) Loader() resolver.Loader { return r.loader }

// RootResource returns the root document as read during detection. It is
// only available when New had to fetch the root to detect its vendor or
// format; the resource is shared and must not be modified.
func (r *Reference) RootResource() (*resolver.Resource, bool) {
	return r.root, r.root != nil
}

// NewResolver builds a fresh resolver chain for this document. Each call
// returns an independent chain so that no state is shared between parses.
func (r *Reference) NewResolver(extra ...resolver.Option) *resolver.Chain {
	opts := make([]resolver.Option, 0, len(r.resolverOpts)+len(extra)+1)
	opts = append(opts, resolver.WithLoader(r.loader))
	opts = append(opts, r.resolverOpts...)
	opts = append(opts, extra...)
	return resolver.New(r.location, opts...)
}

// String returns "location (VENDOR/FORMAT)".
func (r *Reference) String() string {
	return fmt.Sprintf("%s (%s/%s)", r.location, r.vendor, r.format)
}
