package resolver

import (
	"context"
	"strings"

	"go.yaml.in/yaml/v4"
)

// IncludeTag is the YAML tag that marks an external reference in RAML.
const IncludeTag = "!include"

// Includes returns every resource transitively referenced from root, in
// discovery order and without duplicates.
//
// References are YAML nodes tagged !include, string values of the form
// "!include <path>", the values of a top-level RAML "uses" mapping and the
// document part of external "$ref" values. Each reference is joined against
// the document that contains it. Targets that cannot be fetched are listed
// but not scanned; a target that is not valid YAML contributes no includes.
// Only a failure to fetch root itself is returned as an error.
func Includes(ctx context.Context, r Resolver, root string) ([]string, error) {
	res, err := r.Fetch(ctx, root)
	if err != nil {
		return nil, err
	}

	d := &discovery{r: r, visited: map[string]bool{root: true}}
	d.scan(ctx, root, res.Data)
	return d.found, nil
}

type discovery struct {
	r       Resolver
	visited map[string]bool
	found   []string
}

func (d *discovery) scan(ctx context.Context, location string, data []byte) {
	for _, ref := range References(data) {
		if ctx.Err() != nil {
			return
		}
		target := Join(location, ref)
		if d.visited[target] {
			continue
		}
		d.visited[target] = true
		d.found = append(d.found, target)

		res, err := d.r.Fetch(ctx, target)
		if err != nil {
			continue
		}
		d.scan(ctx, target, res.Data)
	}
}

// References lists the external references written in a single document,
// in document order. Malformed YAML yields no references.
func References(data []byte) []string {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil
	}
	var refs []string
	collect(&doc, 0, &refs)
	return refs
}

func collect(n *yaml.Node, depth int, refs *[]string) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			collect(c, depth, refs)
		}
	case yaml.ScalarNode:
		if ref, ok := IncludeTarget(n); ok {
			*refs = append(*refs, ref)
		}
	case yaml.SequenceNode:
		for _, c := range n.Content {
			collect(c, depth+1, refs)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			switch {
			case key.Value == "$ref" && val.Kind == yaml.ScalarNode:
				if file := refDocument(val.Value); file != "" {
					*refs = append(*refs, file)
				}
				continue
			case key.Value == "uses" && depth == 0 && val.Kind == yaml.MappingNode:
				for j := 1; j < len(val.Content); j += 2 {
					if lib := val.Content[j]; lib.Kind == yaml.ScalarNode && lib.Value != "" {
						if ref, ok := IncludeTarget(lib); ok {
							*refs = append(*refs, ref)
						} else {
							*refs = append(*refs, lib.Value)
						}
					}
				}
				continue
			}
			collect(key, depth+1, refs)
			collect(val, depth+1, refs)
		}
	}
}

// IncludeTarget returns the reference of a scalar that is tagged !include or
// whose value is written as "!include <path>".
func IncludeTarget(n *yaml.Node) (string, bool) {
	if n.Kind != yaml.ScalarNode {
		return "", false
	}
	if n.Tag == IncludeTag {
		ref := strings.TrimSpace(n.Value)
		return ref, ref != ""
	}
	if rest, ok := strings.CutPrefix(n.Value, IncludeTag+" "); ok {
		ref := strings.TrimSpace(rest)
		return ref, ref != ""
	}
	return "", false
}

// refDocument returns the document part of a $ref, or "" for local refs.
func refDocument(ref string) string {
	file, _, _ := strings.Cut(ref, "#")
	return strings.TrimSpace(file)
}
