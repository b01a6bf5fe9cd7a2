package ramldoc

import (
	"strings"

	"github.com/erraggy/apiparser/internal/severity"
	"go.yaml.in/yaml/v4"
)

// grammar checks the rules of an API definition and collects its resources.
// Fragments and libraries only need to be well-formed YAML.
func (l *loader) grammar(doc *Document, root *yaml.Node) {
	if doc.Fragment != "" {
		return
	}
	loc := doc.Location
	if root.Kind != yaml.MappingNode {
		l.add(l.at(KindGrammar, severity.SeverityError, loc, root, "document root must be a mapping"))
		return
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		name := key.Value
		switch {
		case strings.HasPrefix(name, "/"):
			doc.Resources = append(doc.Resources, l.resource(loc, key, val, ""))
		case name == "title":
			doc.Title = scalar(val)
		case name == "version":
			doc.APIVersion = scalar(val)
		case name == "baseUri":
			doc.BaseURI = scalar(val)
		case rootKeys[name]:
		case doc.Version != "0.8" && (rootKeys10[name] || isAnnotation(name)):
		default:
			l.add(l.at(KindGrammar, severity.SeverityWarning, loc, key, "unknown top-level key %q", name))
		}
	}

	if strings.TrimSpace(doc.Title) == "" {
		l.add(l.at(KindGrammar, severity.SeverityError, loc, root, "API title is required"))
	}
	if strings.Contains(doc.BaseURI, "{version}") && doc.APIVersion == "" {
		l.add(l.at(KindGrammar, severity.SeverityError, loc, lookup(root, "baseUri"),
			"version is required when baseUri contains {version}"))
	}
}

func (l *loader) resource(loc string, key, val *yaml.Node, parent string) *Resource {
	res := &Resource{
		Path:     key.Value,
		FullPath: parent + key.Value,
		Line:     key.Line - 1,
		Column:   max(key.Column-1, 0),
	}
	switch val.Kind {
	case yaml.MappingNode:
	case yaml.ScalarNode:
		if val.Tag == "!!null" || val.Value == "" {
			return res
		}
		fallthrough
	default:
		l.add(l.at(KindGrammar, severity.SeverityError, loc, val, "resource %s must be a mapping", res.FullPath))
		return res
	}

	for i := 0; i+1 < len(val.Content); i += 2 {
		k, v := val.Content[i], val.Content[i+1]
		switch name := k.Value; {
		case strings.HasPrefix(name, "/"):
			res.Resources = append(res.Resources, l.resource(loc, k, v, res.FullPath))
		case methods[strings.TrimSuffix(name, "?")]:
			res.Methods = append(res.Methods, strings.TrimSuffix(name, "?"))
		}
	}
	return res
}

func scalar(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

// isAnnotation reports whether key is a RAML 1.0 annotation such as "(tag)".
func isAnnotation(key string) bool {
	return len(key) > 2 && key[0] == '(' && key[len(key)-1] == ')'
}

// Walk calls fn for every resource in depth-first order.
func (d *Document) Walk(fn func(*Resource)) {
	var walk func([]*Resource)
	walk = func(rs []*Resource) {
		for _, r := range rs {
			fn(r)
			walk(r.Resources)
		}
	}
	walk(d.Resources)
}

// Endpoints returns the number of resources and of methods.
func (d *Document) Endpoints() (resources, operations int) {
	d.Walk(func(r *Resource) {
		resources++
		operations += len(r.Methods)
	})
	return resources, operations
}
