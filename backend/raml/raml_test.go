package raml

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/erraggy/apiparser/apiref"
	"github.com/erraggy/apiparser/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, files fstest.MapFS, location string, opts ...apiref.Option) *Result {
	t.Helper()
	ctx := context.Background()
	ref, err := apiref.New(ctx, location, append(opts, apiref.WithLoader(resolver.NewFSLoader(files)))...)
	require.NoError(t, err)
	chain := ref.NewResolver()
	root, err := chain.Fetch(ctx, chain.Root())
	require.NoError(t, err)

	res, err := New().Parse(ctx, ref, root, chain)
	require.NoError(t, err)
	return res
}

func TestSupports(t *testing.T) {
	e := New()
	assert.True(t, e.Supports(apiref.VendorRAML08, apiref.FormatYAML))
	assert.True(t, e.Supports(apiref.VendorRAML10, apiref.FormatYAML))
	assert.True(t, e.Supports(apiref.VendorRAML, apiref.FormatUnknown))
	assert.False(t, e.Supports(apiref.VendorOAS20, apiref.FormatYAML))
	assert.False(t, e.Supports(apiref.VendorOAS30, apiref.FormatJSON))
	assert.Equal(t, "RAML", e.Name())
}

func TestParse(t *testing.T) {
	res := parse(t, fstest.MapFS{
		"api.raml": {Data: []byte("#%RAML 0.8\ntitle: Pets\nversion: v1\nbaseUri: http://x/{version}\nschemas:\n  - pet: !include pet.json\n/pets:\n  get:\n  /{id}:\n    put:\n")},
		"pet.json": {Data: []byte(`{"type": "object"}`)},
	}, "api.raml")

	assert.Empty(t, res.Results)
	assert.False(t, res.HasErrors())
	require.NotNil(t, res.API)
	assert.Equal(t, "Pets", res.API.Title)
	assert.Equal(t, "0.8", res.API.RAMLVersion)
	assert.Equal(t, []string{"pet.json"}, res.API.Includes)
	require.Len(t, res.API.Resources, 1)
	assert.Equal(t, "/pets/{id}", res.API.Resources[0].Resources[0].FullPath)
}

func TestParseMissingInclude(t *testing.T) {
	res := parse(t, fstest.MapFS{
		"api.raml": {Data: []byte("#%RAML 0.8\ntitle: Pets\nschemas:\n  - pet: !include missing.json\n")},
	}, "api.raml")

	require.Len(t, res.Results, 1)
	v := res.Results[0]
	assert.Equal(t, LevelError, v.Level)
	assert.True(t, v.Include)
	assert.Equal(t, "api.raml", v.Path)
	assert.Equal(t, 3, v.Line)
	assert.Equal(t, 9, v.Column)
	assert.Contains(t, v.Message, "missing.json")
	assert.True(t, res.HasErrors())
}

func TestParseLevels(t *testing.T) {
	res := parse(t, fstest.MapFS{
		"api.raml": {Data: []byte("#%RAML 1.0\nversion: v1\nfrobnicate: 1\n")},
	}, "api.raml", apiref.WithVendor(apiref.VendorRAML08))

	levels := make(map[string]int)
	for _, v := range res.Results {
		levels[v.Level]++
		assert.False(t, v.Include)
	}
	assert.Equal(t, map[string]int{LevelError: 1, LevelWarn: 1, LevelInfo: 1}, levels)
}
