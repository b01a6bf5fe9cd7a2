package resolver

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// MaxFileSize is the maximum size (in bytes) of a single fetched resource.
// This prevents resource exhaustion from loading arbitrarily large files.
const MaxFileSize = 10 * 1024 * 1024 // 10MB

// Loader is the resource loading capability provided by the hosting
// environment. The resolvers never assume a storage medium behind it.
type Loader interface {
	// Open returns the content of name. A missing resource is reported with
	// an error matching fs.ErrNotExist.
	Open(name string) (io.ReadCloser, error)
	// Locate returns a concrete location identifier for name, or false when
	// the resource does not exist.
	Locate(name string) (string, bool)
}

// FileLoader loads resources from the operating system file system.
// Names are slash-separated paths, relative to the process working directory
// unless absolute.
type FileLoader struct{}

// Open implements Loader.
func (FileLoader) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.FromSlash(name))
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err == nil && info.IsDir() {
		_ = f.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return f, nil
}

// Locate implements Loader.
func (FileLoader) Locate(name string) (string, bool) {
	p := filepath.FromSlash(name)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", false
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p, true
	}
	return abs, true
}

// FSLoader loads resources from an fs.FS, such as an embed.FS holding
// resources bundled into the binary or an in-memory fstest.MapFS.
type FSLoader struct {
	// FS is the file system to read from
	FS fs.FS
	// Scheme prefixes locations returned by Locate (default "embed")
	Scheme string
}

// NewFSLoader creates an FSLoader.
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{FS: fsys}
}

func (l *FSLoader) clean(name string) (string, bool) {
	name = path.Clean(strings.TrimPrefix(name, "/"))
	return name, fs.ValidPath(name)
}

// Open implements Loader.
func (l *FSLoader) Open(name string) (io.ReadCloser, error) {
	clean, ok := l.clean(name)
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	f, err := l.FS.Open(clean)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err == nil && info.IsDir() {
		_ = f.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return f, nil
}

// Locate implements Loader.
func (l *FSLoader) Locate(name string) (string, bool) {
	clean, ok := l.clean(name)
	if !ok {
		return "", false
	}
	info, err := fs.Stat(l.FS, clean)
	if err != nil || info.IsDir() {
		return "", false
	}
	scheme := l.Scheme
	if scheme == "" {
		scheme = "embed"
	}
	return scheme + ":" + clean, true
}

// MemLoader serves resources held in memory, keyed by slash-separated name.
type MemLoader map[string][]byte

// Open implements Loader.
func (m MemLoader) Open(name string) (io.ReadCloser, error) {
	data, ok := m[path.Clean(strings.TrimPrefix(name, "/"))]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Locate implements Loader.
func (m MemLoader) Locate(name string) (string, bool) {
	clean := path.Clean(strings.TrimPrefix(name, "/"))
	if _, ok := m[clean]; !ok {
		return "", false
	}
	return "mem:" + clean, true
}

// MultiLoader tries each loader in order; the first that has the resource wins.
type MultiLoader []Loader

// Open implements Loader.
func (m MultiLoader) Open(name string) (io.ReadCloser, error) {
	for _, l := range m {
		rc, err := l.Open(name)
		if err == nil {
			return rc, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// Locate implements Loader.
func (m MultiLoader) Locate(name string) (string, bool) {
	for _, l := range m {
		if loc, ok := l.Locate(name); ok {
			return loc, true
		}
	}
	return "", false
}

// DependencyLoader loads dependency-notation resources from a Maven-style
// repository directory. The package for
//
//	resource::com.acme:types:1.0.0:raml-fragment:zip:user.raml
//
// is looked up as the exploded directory
// <Repository>/com/acme/types/1.0.0/types-1.0.0-raml-fragment/ first and then
// as the archive <Repository>/com/acme/types/1.0.0/types-1.0.0-raml-fragment.zip.
// Names without the dependency scheme are never found.
type DependencyLoader struct {
	Repository string
}

func (l DependencyLoader) packagePath(d Dependency) string {
	dirs := append(strings.Split(d.Group, "."), d.Artifact, d.Version)
	base := fmt.Sprintf("%s-%s-%s", d.Artifact, d.Version, d.Classifier)
	return filepath.Join(append([]string{l.Repository}, append(dirs, base)...)...)
}

// Open implements Loader.
func (l DependencyLoader) Open(name string) (io.ReadCloser, error) {
	d, ok := ParseDependency(name)
	if !ok || l.Repository == "" {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	inner := path.Clean(strings.TrimPrefix(d.Path, "/"))
	if !fs.ValidPath(inner) || inner == "." || !validCoordinates(d) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	pkg := l.packagePath(d)

	if info, err := os.Stat(pkg); err == nil && info.IsDir() {
		return FileLoader{}.Open(filepath.ToSlash(filepath.Join(pkg, filepath.FromSlash(inner))))
	}

	archive := pkg + "." + d.Packaging
	zr, err := zip.OpenReader(archive)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		return nil, fmt.Errorf("resolver: opening dependency package %s: %w", archive, err)
	}
	f, err := zr.Open(inner)
	if err != nil {
		_ = zr.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &zipEntry{ReadCloser: f, archive: zr}, nil
}

// validCoordinates reports whether every coordinate of d names a single
// directory or file inside the repository.
func validCoordinates(d Dependency) bool {
	elems := append(strings.Split(d.Group, "."), d.Artifact, d.Version, d.Classifier, d.Packaging)
	for _, e := range elems {
		if e == "" || e == "." || e == ".." || strings.ContainsAny(e, `/\`) {
			return false
		}
	}
	return true
}

// Locate implements Loader.
func (l DependencyLoader) Locate(name string) (string, bool) {
	rc, err := l.Open(name)
	if err != nil {
		return "", false
	}
	_ = rc.Close()
	d, _ := ParseDependency(name)
	return l.packagePath(d) + "!/" + d.Path, true
}

// zipEntry closes the archive together with the entry.
type zipEntry struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (z *zipEntry) Close() error {
	err := z.ReadCloser.Close()
	if cerr := z.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

// readAll reads a resource through the loader, enforcing MaxFileSize.
func readAll(l Loader, name string) ([]byte, error) {
	rc, err := l.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("resolver: reading %s: %w", name, err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, fmt.Errorf("resolver: %s exceeds maximum size limit (%d bytes)", name, MaxFileSize)
	}
	return data, nil
}
