// Package bundle inlines the external $ref targets of an OpenAPI document
// so that it can be handed to an engine that only understands local
// references.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/erraggy/apiparser/resolver"
	"go.yaml.in/yaml/v4"
)

const (
	// MaxRefDepth is the maximum depth allowed for nested $ref resolution.
	// This prevents stack overflow from deeply nested (but non-circular) references.
	MaxRefDepth = 100

	// MaxCachedDocuments is the maximum number of external documents loaded
	// for one bundle. This prevents memory exhaustion from documents with
	// many external references.
	MaxCachedDocuments = 100
)

// ProblemKind classifies a bundling problem.
type ProblemKind string

const (
	// KindMissing means the referenced document could not be fetched
	KindMissing ProblemKind = "missing"
	// KindPointer means the fragment does not exist in the target document
	KindPointer ProblemKind = "pointer"
	// KindCircular means the reference points back into its own resolution stack
	KindCircular ProblemKind = "circular"
	// KindSyntax means the referenced document is not valid YAML or JSON
	KindSyntax ProblemKind = "syntax"
	// KindLimit means a resource limit was reached
	KindLimit ProblemKind = "limit"
)

// Problem is a reference that could not be inlined. Line and Column are
// 1-based positions of the $ref value in Location; zero when unknown.
type Problem struct {
	Kind     ProblemKind
	Ref      string
	Message  string
	Location string
	Line     int
	Column   int
}

// Result is the outcome of Bundle.
type Result struct {
	// Data is the bundled document. It is the input unchanged when nothing
	// was inlined, which keeps engine positions aligned with the source.
	Data []byte
	// Changed reports whether any reference was inlined
	Changed bool
	// Documents lists the external documents that were loaded, in order
	Documents []string
	// Problems lists the references that could not be inlined
	Problems []Problem
}

// Bundle inlines every external $ref reachable from the root document.
//
// Local references in the root document are left as they are. Local
// references inside an external document are resolved against that
// document and inlined too, since they would be meaningless once the
// content is moved into the root. A reference that cannot be inlined is
// replaced by an empty mapping and reported as a problem. Only a cancelled
// context returns an error.
func Bundle(ctx context.Context, r resolver.Resolver, root string, data []byte) (*Result, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil || doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		// the engine reports the syntax error with its own positions
		return &Result{Data: data}, nil
	}

	b := &bundler{
		ctx:       ctx,
		r:         r,
		root:      root,
		docs:      map[string]*yaml.Node{root: doc.Content[0]},
		resolving: make(map[string]bool),
	}
	b.walk(doc.Content[0], root, 0)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Data: data, Changed: b.changed, Documents: b.order, Problems: b.problems}
	if b.changed {
		out, err := yaml.Marshal(&doc)
		if err != nil {
			return nil, fmt.Errorf("bundle: failed to encode bundled document: %w", err)
		}
		res.Data = out
	}
	return res, nil
}

type bundler struct {
	ctx       context.Context
	r         resolver.Resolver
	root      string
	docs      map[string]*yaml.Node
	order     []string
	resolving map[string]bool
	problems  []Problem
	changed   bool
	limited   bool
}

func (b *bundler) walk(n *yaml.Node, doc string, depth int) {
	if n == nil || b.ctx.Err() != nil {
		return
	}
	if depth > MaxRefDepth {
		if !b.limited {
			b.limited = true
			b.problems = append(b.problems, Problem{
				Kind:     KindLimit,
				Message:  fmt.Sprintf("structure too deeply nested: exceeds %d levels", MaxRefDepth),
				Location: doc,
				Line:     n.Line,
				Column:   n.Column,
			})
		}
		return
	}

	switch n.Kind {
	case yaml.MappingNode:
		if ref, val := refOf(n); val != nil {
			b.inline(n, ref, val, doc, depth)
			return
		}
		for i := 1; i < len(n.Content); i += 2 {
			b.walk(n.Content[i], doc, depth+1)
		}
	case yaml.SequenceNode:
		for _, c := range n.Content {
			b.walk(c, doc, depth+1)
		}
	}
}

// inline replaces the $ref mapping n with a copy of its target.
func (b *bundler) inline(n *yaml.Node, ref string, val *yaml.Node, doc string, depth int) {
	file, fragment, _ := strings.Cut(ref, "#")
	file = strings.TrimSpace(file)
	if file == "" && doc == b.root {
		return
	}

	target := doc
	if file != "" {
		target = resolver.Join(doc, file)
	}
	key := target + "#" + fragment
	problem := Problem{Ref: ref, Location: doc, Line: val.Line, Column: val.Column}

	if b.resolving[key] {
		problem.Kind = KindCircular
		problem.Message = "circular reference: " + ref
		b.fail(n, problem)
		return
	}

	targetRoot, p := b.load(target)
	if p != nil {
		problem.Kind, problem.Message = p.Kind, p.Message
		b.fail(n, problem)
		return
	}
	found, err := Pointer(targetRoot, fragment)
	if err != nil {
		problem.Kind = KindPointer
		problem.Message = fmt.Sprintf("reference not found: %s: %v", ref, err)
		b.fail(n, problem)
		return
	}

	replacement := deepCopy(found)
	b.resolving[key] = true
	b.walk(replacement, target, depth+1)
	delete(b.resolving, key)

	*n = *replacement
	b.changed = true
}

func (b *bundler) fail(n *yaml.Node, p Problem) {
	b.problems = append(b.problems, p)
	*n = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: n.Line, Column: n.Column}
	b.changed = true
}

// load returns the root content node of an external document. Failures are
// cached so that a missing document is reported once per reference site but
// fetched only once.
func (b *bundler) load(location string) (*yaml.Node, *Problem) {
	if n, ok := b.docs[location]; ok {
		if n == nil {
			return nil, &Problem{Kind: KindMissing, Message: "unable to load " + location}
		}
		return n, nil
	}
	if len(b.docs) > MaxCachedDocuments {
		return nil, &Problem{
			Kind:    KindLimit,
			Message: fmt.Sprintf("too many external references: exceeds %d documents", MaxCachedDocuments),
		}
	}

	res, err := b.r.Fetch(b.ctx, location)
	if err != nil {
		b.docs[location] = nil
		if errors.Is(err, resolver.ErrNotFound) {
			return nil, &Problem{Kind: KindMissing, Message: "unable to resolve " + location}
		}
		return nil, &Problem{Kind: KindMissing, Message: fmt.Sprintf("unable to load %s: %v", location, err)}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(res.Data, &doc); err != nil {
		b.docs[location] = nil
		return nil, &Problem{Kind: KindSyntax, Message: fmt.Sprintf("failed to parse %s: %v", location, err)}
	}
	var content *yaml.Node
	if len(doc.Content) > 0 {
		content = doc.Content[0]
	} else {
		content = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	b.docs[location] = content
	b.order = append(b.order, location)
	return content, nil
}

// refOf returns the $ref value of a mapping node, or nil.
func refOf(n *yaml.Node) (string, *yaml.Node) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k, v := n.Content[i], n.Content[i+1]; k.Value == "$ref" && v.Kind == yaml.ScalarNode {
			return v.Value, v
		}
	}
	return "", nil
}

// Pointer resolves a JSON pointer fragment (without the leading '#')
// against a YAML node. An empty fragment or "/" selects n itself.
func Pointer(n *yaml.Node, fragment string) (*yaml.Node, error) {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if fragment == "" || fragment == "/" {
		return n, nil
	}
	if !strings.HasPrefix(fragment, "/") {
		return nil, fmt.Errorf("invalid JSON pointer %q", fragment)
	}

	parts := strings.Split(strings.TrimPrefix(fragment, "/"), "/")
	current := n
	for i, part := range parts {
		if decoded, err := url.PathUnescape(part); err == nil {
			part = decoded
		}
		part = unescapeJSONPointer(part)
		at := "#/" + strings.Join(parts[:i+1], "/")

		switch current.Kind {
		case yaml.MappingNode:
			var next *yaml.Node
			for j := 0; j+1 < len(current.Content); j += 2 {
				if current.Content[j].Value == part {
					next = current.Content[j+1]
					break
				}
			}
			if next == nil {
				return nil, fmt.Errorf("missing key %q at %s", part, at)
			}
			current = next
		case yaml.SequenceNode:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 {
				return nil, fmt.Errorf("invalid array index %q at %s", part, at)
			}
			if index >= len(current.Content) {
				return nil, fmt.Errorf("array index %d out of bounds (length %d) at %s", index, len(current.Content), at)
			}
			current = current.Content[index]
		case yaml.AliasNode:
			if current.Alias == nil {
				return nil, fmt.Errorf("dangling alias at %s", at)
			}
			current = current.Alias
			return Pointer(current, "/"+strings.Join(parts[i:], "/"))
		default:
			return nil, fmt.Errorf("cannot traverse into scalar at %s", at)
		}
	}
	return current, nil
}

// unescapeJSONPointer unescapes JSON Pointer tokens
// Per RFC 6901, ~1 represents / and ~0 represents ~
func unescapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

func deepCopy(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	c := *n
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = deepCopy(child)
		}
	}
	return &c
}
