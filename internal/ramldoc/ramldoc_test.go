package ramldoc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/erraggy/apiparser/internal/severity"
	"github.com/erraggy/apiparser/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func load(t *testing.T, files fstest.MapFS, root string) (*Document, []Problem) {
	t.Helper()
	chain := resolver.New(root, resolver.WithLoader(resolver.NewFSLoader(files)))
	res, err := chain.Fetch(context.Background(), chain.Root())
	require.NoError(t, err)
	doc, problems, err := Load(context.Background(), chain, chain.Root(), res.Data)
	require.NoError(t, err)
	return doc, problems
}

func errorsOf(problems []Problem) []Problem {
	var out []Problem
	for _, p := range problems {
		if p.Severity == severity.SeverityError {
			out = append(out, p)
		}
	}
	return out
}

func TestLoadAPI(t *testing.T) {
	files := fstest.MapFS{
		"api/api.raml": {Data: []byte(`#%RAML 1.0
title: Pets
version: v1
baseUri: https://example.com/{version}
uses:
  lib: libraries/common.raml
types:
  Pet: !include types/pet.raml
/pets:
  get:
  post:
  /{id}:
    get:
    delete:
`)},
		"api/libraries/common.raml": {Data: []byte("#%RAML 1.0 Library\ntypes:\n  Id: string\n")},
		"api/types/pet.raml":        {Data: []byte("#%RAML 1.0 DataType\ntype: object\nproperties:\n  name: string\n")},
	}

	doc, problems := load(t, files, "api/api.raml")
	assert.Empty(t, problems)
	assert.Equal(t, "1.0", doc.Version)
	assert.Empty(t, doc.Fragment)
	assert.Equal(t, "Pets", doc.Title)
	assert.Equal(t, "v1", doc.APIVersion)
	assert.Equal(t, []string{"types/pet.raml", "libraries/common.raml"}, doc.Includes)
	require.Contains(t, doc.Libraries, "lib")

	require.Len(t, doc.Resources, 1)
	pets := doc.Resources[0]
	assert.Equal(t, "/pets", pets.FullPath)
	assert.Equal(t, []string{"get", "post"}, pets.Methods)
	require.Len(t, pets.Resources, 1)
	assert.Equal(t, "/pets/{id}", pets.Resources[0].FullPath)
	assert.Equal(t, []string{"get", "delete"}, pets.Resources[0].Methods)

	resources, operations := doc.Endpoints()
	assert.Equal(t, 2, resources)
	assert.Equal(t, 4, operations)

	pet := lookup(lookup(doc.Root, "types"), "Pet")
	require.NotNil(t, pet)
	assert.Equal(t, yaml.MappingNode, pet.Kind, "RAML fragment is merged")
}

func TestLoadKeepsNonYAMLIncludesAsText(t *testing.T) {
	files := fstest.MapFS{
		"api.raml": {Data: []byte("#%RAML 0.8\ntitle: T\nschemas:\n  - pet: !include pet.json\n")},
		"pet.json": {Data: []byte(`{"type": "object"}`)},
	}
	doc, problems := load(t, files, "api.raml")
	assert.Empty(t, problems)
	assert.Equal(t, "0.8", doc.Version)

	schemas := lookup(doc.Root, "schemas")
	require.NotNil(t, schemas)
	pet := lookup(schemas.Content[0], "pet")
	assert.Equal(t, yaml.ScalarNode, pet.Kind)
	assert.Equal(t, `{"type": "object"}`, pet.Value)
}

func TestLoadMissingInclude(t *testing.T) {
	files := fstest.MapFS{
		"api.raml": {Data: []byte("#%RAML 0.8\ntitle: T\n/a:\n  get:\n    body:\n      application/json:\n        schema: !include missing.json\n")},
	}
	doc, problems := load(t, files, "api.raml")
	require.Len(t, problems, 1)
	p := problems[0]
	assert.Equal(t, KindInclude, p.Kind)
	assert.Equal(t, severity.SeverityError, p.Severity)
	assert.Equal(t, "missing.json", p.Ref)
	assert.Contains(t, p.Message, "missing.json")
	assert.Equal(t, "api.raml", p.Location)
	assert.Equal(t, 6, p.Line)
	assert.Equal(t, []string{"missing.json"}, doc.Includes)
}

func TestLoadCircularInclude(t *testing.T) {
	files := fstest.MapFS{
		"api.raml": {Data: []byte("#%RAML 1.0\ntitle: T\ntypes:\n  A: !include a.raml\n")},
		"a.raml":   {Data: []byte("type: object\nproperties:\n  b: !include b.raml\n")},
		"b.raml":   {Data: []byte("type: object\nproperties:\n  a: !include a.raml\n")},
	}
	_, problems := load(t, files, "api.raml")
	require.Len(t, problems, 1)
	assert.Equal(t, KindInclude, problems[0].Kind)
	assert.Contains(t, problems[0].Message, "circular include")
	assert.Equal(t, "b.raml", problems[0].Location)
}

func TestLoadGrammar(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		errors   []string
		warnings int
	}{
		{
			name:   "missing title",
			src:    "#%RAML 1.0\nversion: v1\n",
			errors: []string{"API title is required"},
		},
		{
			name:   "version placeholder",
			src:    "#%RAML 1.0\ntitle: T\nbaseUri: http://x/{version}\n",
			errors: []string{"version is required when baseUri contains {version}"},
		},
		{
			name:     "unknown key",
			src:      "#%RAML 1.0\ntitle: T\nfrobnicate: true\n(annotated): x\n",
			warnings: 1,
		},
		{
			name:     "1.0 keys in 0.8",
			src:      "#%RAML 0.8\ntitle: T\ntypes: {}\n",
			warnings: 1,
		},
		{
			name:   "resource not a mapping",
			src:    "#%RAML 1.0\ntitle: T\n/a: [1]\n",
			errors: []string{"resource /a must be a mapping"},
		},
		{
			name:   "root not a mapping",
			src:    "#%RAML 1.0\n- a\n",
			errors: []string{"document root must be a mapping"},
		},
		{
			name: "fragment skips API rules",
			src:  "#%RAML 1.0 Library\ntypes:\n  A: string\n",
		},
		{
			name:     "missing header",
			src:      "title: T\n/a:\n  get:\n",
			warnings: 1,
		},
		{
			name:   "unsupported version",
			src:    "#%RAML 2.0\ntitle: T\n",
			errors: []string{`unsupported RAML version "2.0"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, problems := load(t, fstest.MapFS{"api.raml": {Data: []byte(tt.src)}}, "api.raml")
			var errs []string
			warnings := 0
			for _, p := range problems {
				if p.Severity == severity.SeverityError {
					errs = append(errs, p.Message)
				} else {
					warnings++
				}
			}
			assert.Equal(t, tt.errors, errs)
			assert.Equal(t, tt.warnings, warnings)
		})
	}
}

func TestLoadSyntaxError(t *testing.T) {
	_, problems := load(t, fstest.MapFS{"api.raml": {Data: []byte("#%RAML 1.0\ntitle: T\n/a: [1, 2\n")}}, "api.raml")
	errs := errorsOf(problems)
	require.Len(t, errs, 1)
	assert.Equal(t, KindSyntax, errs[0].Kind)
	assert.GreaterOrEqual(t, errs[0].Line, 0)
}

func TestLoadDependencyRoot(t *testing.T) {
	repo := t.TempDir()
	pkg := filepath.Join(repo, "com", "acme", "pets", "1.0.0", "pets-1.0.0-raml")
	require.NoError(t, os.MkdirAll(filepath.Join(pkg, "types"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "api.raml"), []byte("#%RAML 1.0\ntitle: T\ntypes:\n  Pet: !include types/pet.raml\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "types", "pet.raml"), []byte("type: object\n"), 0o600))

	root := "resource::com.acme:pets:1.0.0:raml:zip:api.raml"
	chain := resolver.New(root, resolver.WithDependencyLoader(resolver.DependencyLoader{Repository: repo}))
	res, err := chain.Fetch(context.Background(), chain.Root())
	require.NoError(t, err)

	doc, problems, err := Load(context.Background(), chain, chain.Root(), res.Data)
	require.NoError(t, err)
	assert.Empty(t, problems)
	assert.Equal(t, []string{"types/pet.raml"}, doc.Includes)
	assert.Equal(t, "T", doc.Title)
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	chain := resolver.New("api.raml", resolver.WithLoader(resolver.NewFSLoader(fstest.MapFS{})))
	_, _, err := Load(ctx, chain, "api.raml", []byte("#%RAML 1.0\ntitle: T\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
