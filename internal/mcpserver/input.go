package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/apiparser/parser"
	"github.com/erraggy/apiparser/resolver"
	"github.com/erraggy/apiparser/result"
	"github.com/erraggy/apiparser/strategy"
)

// specInput represents the two ways a document can be provided to a tool.
// Exactly one of File or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a RAML or OpenAPI file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline document content (RAML, JSON or YAML)"`
	Name    string `json:"name,omitempty"    jsonschema:"File name inline content is known under; relative includes resolve against it"`
}

// name returns the name inline content is known under. Without an explicit
// name it is chosen from the content so that detection sees a fitting
// extension.
func (s specInput) name() string {
	if s.Name != "" {
		return s.Name
	}
	trimmed := strings.TrimSpace(s.Content)
	switch {
	case strings.HasPrefix(trimmed, "{"):
		return "openapi.json"
	case strings.HasPrefix(trimmed, "#%RAML"):
		return "api.raml"
	default:
		return "openapi.yaml"
	}
}

// location returns the location the document is reported under.
func (s specInput) location() string {
	if s.File != "" {
		return s.File
	}
	return s.name()
}

// check verifies that exactly one input is set and inline content is not too large.
func (s specInput) check() error {
	count := 0
	if s.File != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return fmt.Errorf("exactly one of file or content must be provided (got %d)", count)
	}
	if int64(len(s.Content)) > cfg.MaxInlineSize {
		return fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set APIPARSER_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}
	return nil
}

// options returns the parser options for the input. Inline content resolves
// its relative includes against the configured working directory.
func (s specInput) options() []parser.Option {
	var opts []parser.Option
	if s.File != "" {
		opts = append(opts, parser.WithLocation(s.File))
		if cfg.WorkingDir != "" {
			opts = append(opts, parser.WithWorkingDir(cfg.WorkingDir))
		}
	} else {
		opts = append(opts, parser.WithContent(s.name(), []byte(s.Content)))
		if cfg.WorkingDir != "" {
			opts = append(opts, parser.WithLoader(resolver.NewFSLoader(os.DirFS(cfg.WorkingDir))))
		}
	}
	if cfg.DependencyRepo != "" {
		opts = append(opts, parser.WithDependencyRepository(cfg.DependencyRepo))
	}
	return opts
}

// parseMode returns the requested mode, or the configured default when empty.
func parseMode(mode string) (strategy.Mode, error) {
	if mode == "" {
		return cfg.DefaultMode, nil
	}
	return strategy.ParseMode(mode)
}

// makeCacheKey returns the cache key for the input and mode. Files are
// keyed by absolute path; whether the cached result is still current is
// decided from the file stamps stored with it. Inline content is keyed by a
// hash of its name and content.
func makeCacheKey(s specInput, mode strategy.Mode) (cacheKey, bool) {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return cacheKey{}, false
		}
		return cacheKey{source: "file:" + absPath, mode: mode}, true
	case s.Content != "":
		h := sha256.Sum256([]byte(s.name() + "\x00" + s.Content))
		return cacheKey{source: "sha256:" + hex.EncodeToString(h[:]), mode: mode}, true
	default:
		return cacheKey{}, false
	}
}

// sourceFiles stamps the files on disk res was built from: the root file
// and every include written as a plain path. Includes are relative to the
// root file's directory, or to the working directory for inline content.
// Dependency and exchange_modules/ includes are published packages and are
// not stamped.
func (s specInput) sourceFiles(res *result.Result) []fileStamp {
	var stamps []fileStamp
	base := cfg.WorkingDir
	if s.File != "" {
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return nil
		}
		stamps = append(stamps, stampFile(absPath))
		base = filepath.Dir(absPath)
	}
	if base == "" || res.Specification == nil {
		return stamps
	}
	for _, inc := range res.Specification.Includes {
		if resolver.IsDependency(inc) || resolver.IsEmbedded(inc) || strings.Contains(inc, "://") {
			continue
		}
		stamps = append(stamps, stampFile(filepath.Join(base, filepath.FromSlash(strings.TrimPrefix(inc, "/")))))
	}
	return stamps
}

// parse parses the input with the given mode, using the cache when enabled.
func (s specInput) parse(ctx context.Context, mode string) (*result.Result, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	m, err := parseMode(mode)
	if err != nil {
		return nil, err
	}

	key, cacheable := makeCacheKey(s, m)
	cacheable = cacheable && cfg.CacheEnabled
	if cacheable {
		if cached := parseResults.get(key); cached != nil {
			return cached, nil
		}
	}

	res := parser.ParseWithOptions(ctx, append(s.options(), parser.WithMode(m))...)

	// Cancelled parses and unresolved references say nothing lasting about
	// the document.
	if !cacheable || ctx.Err() != nil || res.HasCode(result.CodeResolutionFailure) {
		return res, nil
	}
	ttl := cfg.CacheContentTTL
	if s.File != "" {
		ttl = cfg.CacheFileTTL
	}
	parseResults.put(key, res, s.sourceFiles(res), ttl)
	return res, nil
}
