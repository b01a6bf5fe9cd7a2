package ramldoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/erraggy/apiparser/internal/severity"
	"github.com/erraggy/apiparser/resolver"
	"go.yaml.in/yaml/v4"
)

// Header is the marker that starts every RAML document.
const Header = "#%RAML"

// Kind classifies a Problem.
type Kind string

const (
	// KindInclude is an !include or library that could not be loaded
	KindInclude Kind = "include"
	// KindSyntax is malformed YAML or a missing header
	KindSyntax Kind = "syntax"
	// KindGrammar is a RAML rule violation
	KindGrammar Kind = "grammar"
)

// Problem is a single finding. Line and Column are 0-based; -1 when the
// problem has no position.
type Problem struct {
	Kind     Kind
	Severity severity.Severity
	Message  string
	Location string
	Line     int
	Column   int
	// Ref is the unresolved reference for KindInclude problems
	Ref string
}

// Document is a loaded RAML document.
type Document struct {
	// Location is the logical location of the root document
	Location string
	// Version is "0.8" or "1.0"
	Version string
	// Fragment is the fragment kind named in the header ("Library",
	// "DataType", ...), empty for an API definition
	Fragment string

	Title      string
	APIVersion string
	BaseURI    string
	Resources  []*Resource

	// Includes lists every document referenced from the root, in
	// discovery order
	Includes []string
	// Libraries maps each "uses" namespace to its loaded content
	Libraries map[string]*yaml.Node
	// Root is the root mapping with all includes merged in
	Root *yaml.Node
}

// Resource is a RAML resource and its methods.
type Resource struct {
	// Path is the relative URI of the resource as written
	Path string
	// FullPath is the URI relative to baseUri
	FullPath  string
	Methods   []string
	Resources []*Resource
	Line      int
	Column    int
}

var (
	methods = map[string]bool{
		"get": true, "post": true, "put": true, "delete": true, "patch": true,
		"head": true, "options": true, "trace": true, "connect": true,
	}

	rootKeys = map[string]bool{
		"title": true, "description": true, "version": true, "baseUri": true,
		"baseUriParameters": true, "protocols": true, "mediaType": true,
		"documentation": true, "schemas": true, "traits": true,
		"resourceTypes": true, "securitySchemes": true, "securedBy": true,
		"uriParameters": true,
	}

	// keys only valid in RAML 1.0
	rootKeys10 = map[string]bool{
		"uses": true, "types": true, "annotationTypes": true,
	}

	yamlLine = regexp.MustCompile(`line (\d+)`)
)

// Load loads the RAML document at location, whose content is data, and
// every document it includes. r resolves includes; references are joined
// against the including document. Only a cancelled context is returned as
// an error; everything else is a Problem.
func Load(ctx context.Context, r resolver.Resolver, location string, data []byte) (*Document, []Problem, error) {
	l := &loader{
		ctx:     ctx,
		r:       r,
		seen:    make(map[string]bool),
		loading: map[string]bool{location: true},
	}
	doc := &Document{Location: location, Libraries: make(map[string]*yaml.Node)}

	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))
	doc.Version, doc.Fragment = l.header(location, data)

	root, ok := l.parse(location, data)
	if !ok {
		return doc, l.problems, ctx.Err()
	}
	l.resolve(root, location)

	if root.Kind == yaml.MappingNode {
		l.uses(doc, root, location)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	doc.Root = root
	doc.Includes = l.order
	l.grammar(doc, root)
	return doc, l.problems, nil
}

type loader struct {
	ctx      context.Context
	r        resolver.Resolver
	seen     map[string]bool
	loading  map[string]bool
	order    []string
	problems []Problem
}

func (l *loader) add(p Problem) {
	l.problems = append(l.problems, p)
}

func (l *loader) at(kind Kind, sev severity.Severity, location string, n *yaml.Node, format string, args ...any) Problem {
	p := Problem{Kind: kind, Severity: sev, Message: fmt.Sprintf(format, args...), Location: location, Line: -1, Column: -1}
	if n != nil && n.Line > 0 {
		p.Line = n.Line - 1
		p.Column = max(n.Column-1, 0)
	}
	return p
}

// header returns the version and fragment named on the first line. A
// missing header is reported and the document is read as RAML 1.0.
func (l *loader) header(location string, data []byte) (string, string) {
	first, _, _ := bytes.Cut(data, []byte("\n"))
	line := strings.TrimSpace(string(first))
	rest, ok := strings.CutPrefix(line, Header)
	if !ok {
		p := l.at(KindSyntax, severity.SeverityWarning, location, nil, "missing %s header, reading as RAML 1.0", Header)
		p.Line, p.Column = 0, 0
		l.add(p)
		return "1.0", ""
	}
	fields := strings.Fields(rest)
	version := "1.0"
	if len(fields) > 0 {
		version = fields[0]
	}
	if version != "0.8" && version != "1.0" {
		p := l.at(KindSyntax, severity.SeverityError, location, nil, "unsupported RAML version %q", version)
		p.Line, p.Column = 0, 0
		l.add(p)
	}
	return version, strings.Join(fields[min(1, len(fields)):], " ")
}

// parse decodes data into its root content node.
func (l *loader) parse(location string, data []byte) (*yaml.Node, bool) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		p := l.at(KindSyntax, severity.SeverityError, location, nil, "%s", strings.TrimPrefix(err.Error(), "yaml: "))
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			if line, convErr := strconv.Atoi(m[1]); convErr == nil && line > 0 {
				p.Line, p.Column = line-1, 0
			}
		}
		l.add(p)
		return nil, false
	}
	if len(n.Content) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, true
	}
	return n.Content[0], true
}

// resolve replaces every !include in the tree below n, which belongs to the
// document at location, with the included content.
func (l *loader) resolve(n *yaml.Node, location string) {
	if n == nil || l.ctx.Err() != nil {
		return
	}
	if ref, ok := resolver.IncludeTarget(n); ok {
		l.include(n, ref, location)
		return
	}
	for _, c := range n.Content {
		l.resolve(c, location)
	}
}

func (l *loader) include(n *yaml.Node, ref, location string) {
	target := resolver.Join(location, ref)
	l.record(target)

	if l.loading[target] {
		l.add(l.at(KindInclude, severity.SeverityError, location, n, "circular include: %s", target))
		return
	}
	res, err := l.r.Fetch(l.ctx, target)
	if err != nil {
		if l.ctx.Err() != nil {
			return
		}
		p := l.at(KindInclude, severity.SeverityError, location, n, "%s", includeMessage(target, err))
		p.Ref = target
		l.add(p)
		return
	}

	if !isStructured(target, res.Data) {
		*n = yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(res.Data), Style: yaml.LiteralStyle, Line: n.Line, Column: n.Column}
		return
	}
	content, ok := l.parse(target, res.Data)
	if !ok {
		return
	}
	l.loading[target] = true
	l.resolve(content, target)
	delete(l.loading, target)
	*n = *content
}

// uses loads the libraries declared in a top-level "uses" mapping.
func (l *loader) uses(doc *Document, root *yaml.Node, location string) {
	uses := lookup(root, "uses")
	if uses == nil || uses.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(uses.Content); i += 2 {
		name, val := uses.Content[i], uses.Content[i+1]
		if val.Kind != yaml.ScalarNode || val.Value == "" {
			l.add(l.at(KindGrammar, severity.SeverityError, location, val, "library %q must be a path", name.Value))
			continue
		}
		ref := val.Value
		if t, ok := resolver.IncludeTarget(val); ok {
			ref = t
		}
		target := resolver.Join(location, ref)
		l.record(target)

		res, err := l.r.Fetch(l.ctx, target)
		if err != nil {
			if l.ctx.Err() != nil {
				return
			}
			p := l.at(KindInclude, severity.SeverityError, location, val, "%s", includeMessage(target, err))
			p.Ref = target
			l.add(p)
			continue
		}
		content, ok := l.parse(target, res.Data)
		if !ok {
			continue
		}
		l.loading[target] = true
		l.resolve(content, target)
		delete(l.loading, target)
		doc.Libraries[name.Value] = content
	}
}

func (l *loader) record(target string) {
	if !l.seen[target] {
		l.seen[target] = true
		l.order = append(l.order, target)
	}
}

func includeMessage(target string, err error) string {
	if errors.Is(err, resolver.ErrNotFound) {
		return "Include file not found: " + target
	}
	return fmt.Sprintf("unable to load include %s: %v", target, err)
}

// isStructured reports whether included content is merged as YAML rather
// than kept as a string.
func isStructured(target string, data []byte) bool {
	switch strings.ToLower(path.Ext(target)) {
	case ".raml", ".yaml", ".yml":
		return true
	}
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte(Header))
}

// lookup returns the value of key in a mapping node.
func lookup(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
