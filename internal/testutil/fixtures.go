// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apiparser/resolver"
)

// RAML08 is a minimal valid RAML 0.8 API definition.
const RAML08 = `#%RAML 0.8
title: Pets
version: v1
baseUri: https://api.example.com/{version}
/pets:
  get:
    description: List pets
`

// RAML10 is a RAML 1.0 API definition that includes types/pet.raml and
// uses libraries/common.raml.
const RAML10 = `#%RAML 1.0
title: Pets
version: v1
uses:
  common: libraries/common.raml
types:
  Pet: !include types/pet.raml
/pets:
  get:
  /{id}:
    get:
`

// PetType is the RAML 1.0 data type fragment included by RAML10.
const PetType = `#%RAML 1.0 DataType
type: object
properties:
  name: string
`

// CommonLibrary is the RAML 1.0 library used by RAML10.
const CommonLibrary = `#%RAML 1.0 Library
types:
  Id: string
`

// OAS20YAML is a minimal valid Swagger 2.0 document.
const OAS20YAML = `swagger: "2.0"
info:
  title: Pets
  version: "1.0.0"
paths:
  /pets:
    get:
      responses:
        "200":
          description: ok
`

// OAS30JSON is an OpenAPI 3.0 document referencing schemas/pet.json.
const OAS30JSON = `{
  "openapi": "3.0.3",
  "info": {"title": "Pets", "version": "1.0.0"},
  "paths": {
    "/pets": {
      "get": {
        "responses": {
          "200": {
            "description": "ok",
            "content": {"application/json": {"schema": {"$ref": "schemas/pet.json"}}}
          }
        }
      }
    }
  }
}`

// PetSchemaJSON is the schema referenced by OAS30JSON.
const PetSchemaJSON = `{"type": "object", "properties": {"name": {"type": "string"}}}`

// WriteTree writes files (slash-separated relative name to content) below
// a temporary directory and returns the directory.
// The directory is automatically cleaned up when the test completes (via t.TempDir).
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, files)
	return dir
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

// WriteDependency publishes files as the package named by notation (any
// dependency-notation reference into it) below the repository directory.
// With zipped set the package is written as an archive, otherwise as an
// exploded directory.
func WriteDependency(t *testing.T, repo, notation string, zipped bool, files map[string]string) {
	t.Helper()
	d, ok := resolver.ParseDependency(notation)
	if !ok {
		t.Fatalf("Invalid dependency notation: %s", notation)
	}
	dirs := append([]string{repo}, strings.Split(d.Group, ".")...)
	dirs = append(dirs, d.Artifact, d.Version, d.Artifact+"-"+d.Version+"-"+d.Classifier)
	pkg := filepath.Join(dirs...)
	if !zipped {
		writeFiles(t, pkg, files)
		return
	}

	if err := os.MkdirAll(filepath.Dir(pkg), 0o755); err != nil {
		t.Fatalf("Failed to create package directory: %v", err)
	}
	f, err := os.Create(pkg + "." + d.Packaging)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to add %s to archive: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s to archive: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to finish archive: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close archive: %v", err)
	}
}

// WriteTempYAML marshals a document to YAML and writes it to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary YAML file: %v", err)
	}

	return tmpFile
}

// WriteTempJSON marshals a document to JSON and writes it to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary JSON file: %v", err)
	}

	return tmpFile
}
