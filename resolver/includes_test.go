package resolver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apiparser/internal/testutil"
	"github.com/erraggy/apiparser/resolver"
)

func memChain(files map[string]string) *resolver.Chain {
	mem := resolver.MemLoader{}
	for name, content := range files {
		mem[name] = []byte(content)
	}
	return resolver.New("api.raml", resolver.WithLoader(mem))
}

func TestIncludesDiscoveryOrder(t *testing.T) {
	chain := memChain(map[string]string{
		"api.raml":              testutil.RAML10,
		"types/pet.raml":        testutil.PetType,
		"libraries/common.raml": testutil.CommonLibrary,
	})

	got, err := resolver.Includes(context.Background(), chain, chain.Root())
	require.NoError(t, err)
	assert.Equal(t, []string{"libraries/common.raml", "types/pet.raml"}, got)
}

func TestIncludesTransitiveAndDeduplicated(t *testing.T) {
	chain := memChain(map[string]string{
		"api.raml": `#%RAML 1.0
title: T
types:
  A: !include types/a.raml
  B: !include types/b.raml
`,
		"types/a.raml":      "type: !include shared.raml\n",
		"types/b.raml":      "type: !include shared.raml\n",
		"types/shared.raml": "type: string\n",
	})

	got, err := resolver.Includes(context.Background(), chain, chain.Root())
	require.NoError(t, err)
	assert.Equal(t, []string{"types/a.raml", "types/shared.raml", "types/b.raml"}, got)
}

func TestIncludesUnfetchableListed(t *testing.T) {
	chain := memChain(map[string]string{
		"api.raml": "#%RAML 1.0\ntitle: T\ntypes:\n  A: !include missing.raml\n",
	})

	got, err := resolver.Includes(context.Background(), chain, chain.Root())
	require.NoError(t, err)
	assert.Equal(t, []string{"missing.raml"}, got)
}

func TestIncludesCircular(t *testing.T) {
	chain := memChain(map[string]string{
		"api.raml": "a: !include a.raml\n",
		"a.raml":   "b: !include api.raml\n",
	})

	got, err := resolver.Includes(context.Background(), chain, chain.Root())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.raml"}, got)
}

func TestIncludesRootMissing(t *testing.T) {
	chain := memChain(map[string]string{})

	_, err := resolver.Includes(context.Background(), chain, chain.Root())
	assert.ErrorIs(t, err, resolver.ErrNotFound)
}

func TestReferences(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected []string
	}{
		{
			name:     "tagged include",
			doc:      "types:\n  Pet: !include pet.raml\n",
			expected: []string{"pet.raml"},
		},
		{
			name:     "quoted include string",
			doc:      "types:\n  Pet: \"!include pet.raml\"\n",
			expected: []string{"pet.raml"},
		},
		{
			name:     "uses at top level only",
			doc:      "uses:\n  lib: lib.raml\nnested:\n  uses:\n    other: other.raml\n",
			expected: []string{"lib.raml"},
		},
		{
			name:     "external refs keep the document part",
			doc:      "a:\n  $ref: \"schemas/pet.json#/definitions/Pet\"\nb:\n  $ref: \"#/definitions/Local\"\n",
			expected: []string{"schemas/pet.json"},
		},
		{
			name:     "sequence items",
			doc:      "items:\n  - !include one.raml\n  - !include two.raml\n",
			expected: []string{"one.raml", "two.raml"},
		},
		{
			name: "malformed yaml",
			doc:  "a: [unclosed\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolver.References([]byte(tt.doc)))
		})
	}
}

func TestIncludeTarget(t *testing.T) {
	ref, ok := resolver.IncludeTarget(&yaml.Node{Kind: yaml.ScalarNode, Tag: resolver.IncludeTag, Value: " pet.raml "})
	require.True(t, ok)
	assert.Equal(t, "pet.raml", ref)

	_, ok = resolver.IncludeTarget(&yaml.Node{Kind: yaml.ScalarNode, Tag: resolver.IncludeTag})
	assert.False(t, ok)

	_, ok = resolver.IncludeTarget(&yaml.Node{Kind: yaml.MappingNode, Tag: resolver.IncludeTag, Value: "x"})
	assert.False(t, ok)

	_, ok = resolver.IncludeTarget(&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "pet.raml"})
	assert.False(t, ok)
}
