package resolver

import (
	"path"
	"regexp"
	"strings"
)

const (
	// DependencyScheme marks a reference into a published dependency package:
	// resource::<group>:<artifact>:<version>:<classifier>:<packaging>:<innerPath>
	DependencyScheme = "resource::"

	// EmbeddedMarker is the path segment that starts a dependency-relative
	// remainder inside a project: exchange_modules/<group>/<artifact>/<version>/<path>
	EmbeddedMarker = "exchange_modules/"

	// DefaultClassifier is used when an embedded path is translated to
	// dependency notation and no root prefix supplies a classifier.
	DefaultClassifier = "raml-fragment"

	// DefaultPackaging is used when an embedded path is translated to
	// dependency notation and no root prefix supplies a packaging.
	DefaultPackaging = "zip"
)

var embeddedPattern = regexp.MustCompile(`(^|/)` + regexp.QuoteMeta(EmbeddedMarker))

// Dependency is a parsed dependency-notation reference.
type Dependency struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
	Packaging  string
	Path       string
}

// ParseDependency parses a dependency-notation reference. The boolean is
// false when ref does not carry the scheme or has fewer than six fields.
func ParseDependency(ref string) (Dependency, bool) {
	if !IsDependency(ref) {
		return Dependency{}, false
	}
	fields := strings.SplitN(strings.TrimPrefix(ref, DependencyScheme), ":", 6)
	if len(fields) != 6 {
		return Dependency{}, false
	}
	return Dependency{
		Group:      fields[0],
		Artifact:   fields[1],
		Version:    fields[2],
		Classifier: fields[3],
		Packaging:  fields[4],
		Path:       fields[5],
	}, true
}

// Prefix returns the notation without the inner path, ending in ':'.
func (d Dependency) Prefix() string {
	return DependencyScheme + strings.Join([]string{d.Group, d.Artifact, d.Version, d.Classifier, d.Packaging}, ":") + ":"
}

// String returns the full dependency notation.
func (d Dependency) String() string {
	return d.Prefix() + d.Path
}

// IsDependency reports whether ref carries the dependency scheme.
func IsDependency(ref string) bool {
	return strings.HasPrefix(ref, DependencyScheme)
}

// IsEmbedded reports whether ref contains the exchange_modules/ marker at the
// start of the path or after a '/'.
func IsEmbedded(ref string) bool {
	return embeddedPattern.MatchString(ref)
}

// EmbeddedRemainder returns the part of ref from the exchange_modules/ marker
// to the end of the string.
func EmbeddedRemainder(ref string) (string, bool) {
	loc := embeddedPattern.FindStringIndex(ref)
	if loc == nil {
		return "", false
	}
	start := loc[0]
	if ref[start] == '/' {
		start++
	}
	return ref[start:], true
}

// ToDependency translates an embedded remainder
// (exchange_modules/<group>/<artifact>/<version>/<path>) into dependency
// notation using the given classifier and packaging. Empty values fall back
// to DefaultClassifier and DefaultPackaging.
func ToDependency(remainder, classifier, packaging string) (string, bool) {
	rest, ok := strings.CutPrefix(remainder, EmbeddedMarker)
	if !ok {
		return "", false
	}
	parts := strings.SplitN(rest, "/", 4)
	if len(parts) != 4 || parts[0] == "" || parts[1] == "" || parts[2] == "" || parts[3] == "" {
		return "", false
	}
	if classifier == "" {
		classifier = DefaultClassifier
	}
	if packaging == "" {
		packaging = DefaultPackaging
	}
	d := Dependency{
		Group:      parts[0],
		Artifact:   parts[1],
		Version:    parts[2],
		Classifier: classifier,
		Packaging:  packaging,
		Path:       parts[3],
	}
	return d.String(), true
}

// Prefix returns everything up to and including the last ':' of a
// dependency-notation root, or "" when root is not in dependency notation.
func Prefix(root string) string {
	if !IsDependency(root) {
		return ""
	}
	return root[:strings.LastIndex(root, ":")+1]
}

// hasURLScheme reports whether ref looks like "scheme://...".
func hasURLScheme(ref string) bool {
	idx := strings.Index(ref, "://")
	if idx <= 0 {
		return false
	}
	for _, c := range ref[:idx] {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.') {
			return false
		}
	}
	return true
}

// Join resolves ref against the directory of the document at from.
//
// Dependency-notation, embedded, URL and root-absolute ("/...") references
// are returned unchanged. When from is in dependency notation the result is
// relative to the package root and carries no prefix; the dependency
// resolver of the chain adds it back.
func Join(from, ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return from
	case IsDependency(ref), IsEmbedded(ref), hasURLScheme(ref), strings.HasPrefix(ref, "/"):
		return ref
	}
	if d, ok := ParseDependency(from); ok {
		from = d.Path
	}
	return path.Join(path.Dir(from), ref)
}
