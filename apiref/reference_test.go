package apiref

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apiparser/apierrors"
	"github.com/erraggy/apiparser/internal/testutil"
	"github.com/erraggy/apiparser/resolver"
)

// countingLoader counts Open calls on the wrapped loader.
type countingLoader struct {
	resolver.Loader
	opens int
}

func (c *countingLoader) Open(name string) (io.ReadCloser, error) {
	c.opens++
	return c.Loader.Open(name)
}

func memLoader(files map[string]string) *countingLoader {
	mem := resolver.MemLoader{}
	for name, content := range files {
		mem[name] = []byte(content)
	}
	return &countingLoader{Loader: mem}
}

func TestNewDetects(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"api.raml":     testutil.RAML08,
		"openapi.json": testutil.OAS30JSON,
		"swagger.yaml": testutil.OAS20YAML,
	})
	tests := []struct {
		file   string
		vendor Vendor
		format Format
	}{
		{"api.raml", VendorRAML08, FormatYAML},
		{"openapi.json", VendorOAS30, FormatJSON},
		{"swagger.yaml", VendorOAS20, FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			location := filepath.Join(dir, tt.file)
			ref, err := New(context.Background(), location)
			require.NoError(t, err)
			assert.Equal(t, location, ref.Location())
			assert.Equal(t, tt.vendor, ref.Vendor())
			assert.Equal(t, tt.format, ref.Format())
		})
	}
}

func TestNewDeclaredSkipsFetch(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		vendor Vendor
		format Format
	}{
		{"vendor and format", []Option{WithVendor(VendorOAS30), WithFormat(FormatJSON)}, VendorOAS30, FormatJSON},
		{"raml defaults to yaml", []Option{WithVendor(VendorRAML10)}, VendorRAML10, FormatYAML},
		{"format from extension", []Option{WithVendor(VendorOAS20)}, VendorOAS20, FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := memLoader(nil)
			ref, err := New(context.Background(), "api.yaml", append(tt.opts, WithLoader(loader))...)
			require.NoError(t, err)
			assert.Equal(t, tt.vendor, ref.Vendor())
			assert.Equal(t, tt.format, ref.Format())
			assert.Equal(t, 0, loader.opens)
		})
	}
}

func TestNewDeclaredVendorFormatFromContent(t *testing.T) {
	loader := memLoader(map[string]string{"spec": testutil.OAS30JSON})

	ref, err := New(context.Background(), "spec", WithVendor(VendorOAS30), WithLoader(loader))
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, ref.Format())
	assert.Equal(t, 1, loader.opens)
}

func TestNewDeclaredFormatKept(t *testing.T) {
	loader := memLoader(map[string]string{"spec": "openapi: 3.0.0\n"})

	ref, err := New(context.Background(), "spec", WithFormat(FormatJSON), WithLoader(loader))
	require.NoError(t, err)
	assert.Equal(t, VendorOAS30, ref.Vendor())
	assert.Equal(t, FormatJSON, ref.Format())
}

func TestNewEmptyLocation(t *testing.T) {
	ref, err := New(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, VendorUnknown, ref.Vendor())
	assert.Equal(t, FormatUnknown, ref.Format())

	_, err = ref.NewResolver().Fetch(context.Background(), "api.raml")
	assert.ErrorIs(t, err, resolver.ErrNotFound)
}

func TestNewUnrecognized(t *testing.T) {
	loader := memLoader(map[string]string{"notes.txt": "hello\n"})

	_, err := New(context.Background(), "notes.txt", WithLoader(loader))
	require.Error(t, err)
	assert.True(t, IsUnrecognized(err))
	assert.Equal(t, `unrecognized vendor for notes.txt: first line "hello"`, err.Error())
}

func TestNewMissingRoot(t *testing.T) {
	_, err := New(context.Background(), "missing.raml", WithLoader(memLoader(nil)))
	require.Error(t, err)

	var re *apierrors.ResolutionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "missing.raml", re.Ref)
	assert.ErrorIs(t, err, apierrors.ErrResolution)
	assert.ErrorIs(t, re.Cause, resolver.ErrNotFound)
}

func TestNewResolverIndependentChains(t *testing.T) {
	loader := memLoader(map[string]string{"api.raml": testutil.RAML08})
	ref := MustNew(context.Background(), "api.raml", WithLoader(loader))

	a, b := ref.NewResolver(), ref.NewResolver()
	assert.NotSame(t, a, b)
	assert.Equal(t, "api.raml", a.Root())

	res, err := a.Fetch(context.Background(), a.Root())
	require.NoError(t, err)
	assert.Equal(t, testutil.RAML08, string(res.Data))
	assert.Equal(t, "api.raml (RAML_08/YAML)", ref.String())
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew(context.Background(), "missing.raml", WithLoader(memLoader(nil)))
	})
}
