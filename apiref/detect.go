package apiref

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"path"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/erraggy/apiparser/apierrors"
)

// MaxSniffBytes is the maximum number of bytes Detect reads from a document.
const MaxSniffBytes = 64 * 1024

const ramlHeader = "#%RAML"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Detect classifies a document by reading only as much of r as it needs.
//
//   - "#%RAML 0.8" on the first meaningful line gives RAML_08/YAML
//   - any other "#%RAML" header gives RAML_10/YAML
//   - content starting with '{' is scanned for a top-level "openapi" (OAS_30)
//     or "swagger" (OAS_20) key, format JSON
//   - otherwise top-level YAML keys are scanned the same way, format YAML;
//     YAML without a header but with top-level resource keys ("/users:") is
//     taken to be RAML_10
//
// A leading byte-order mark and blank lines are skipped. When nothing is
// recognized an *apierrors.UnrecognizedVendorError is returned.
func Detect(r io.Reader) (Vendor, Format, error) {
	br := bufio.NewReader(io.LimitReader(r, MaxSniffBytes))

	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	first, err := skipSpace(br)
	if err != nil {
		return VendorUnknown, FormatUnknown, &apierrors.UnrecognizedVendorError{}
	}
	if first == '{' {
		return detectJSON(br)
	}
	return detectYAML(br)
}

// DetectBytes is Detect over an in-memory document.
func DetectBytes(data []byte) (Vendor, Format, error) {
	return Detect(bytes.NewReader(data))
}

// skipSpace consumes leading whitespace and returns the next byte without consuming it.
func skipSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		_ = br.UnreadByte()
		return b, nil
	}
}

func detectJSON(br *bufio.Reader) (Vendor, Format, error) {
	dec := json.NewDecoder(br)

	// Opening brace of the top-level object.
	if _, err := dec.Token(); err != nil {
		return VendorUnknown, FormatUnknown, &apierrors.UnrecognizedVendorError{Line: "{"}
	}

	depth := 0
	expectKey := true
	for {
		tok, err := dec.Token()
		if err != nil {
			return VendorUnknown, FormatUnknown, &apierrors.UnrecognizedVendorError{Line: "{"}
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				depth++
			case '}', ']':
				if depth == 0 {
					return VendorUnknown, FormatUnknown, &apierrors.UnrecognizedVendorError{Line: "{"}
				}
				depth--
			}
			if depth == 0 {
				expectKey = true
			}
			continue
		case string:
			if depth == 0 && expectKey {
				switch v {
				case "openapi":
					return VendorOAS30, FormatJSON, nil
				case "swagger":
					return VendorOAS20, FormatJSON, nil
				}
				expectKey = false
				continue
			}
		}
		if depth == 0 {
			expectKey = true
		}
	}
}

func detectYAML(br *bufio.Reader) (Vendor, Format, error) {
	var firstLine string
	sawResource := false

	for lineNo := 0; ; lineNo++ {
		raw, err := br.ReadString('\n')
		if raw == "" && err != nil {
			break
		}
		line := strings.TrimRight(raw, "\r\n")
		trimmed := strings.TrimSpace(line)

		if lineNo == 0 {
			firstLine = trimmed
			if strings.HasPrefix(trimmed, ramlHeader) {
				return ramlVendor(trimmed), FormatYAML, nil
			}
		}

		if trimmed == "" || trimmed == "---" || strings.HasPrefix(trimmed, "#") {
			if err != nil {
				break
			}
			continue
		}

		// Only top-level keys are of interest.
		if line[0] != ' ' && line[0] != '\t' {
			key := topLevelKey(trimmed)
			switch key {
			case "openapi":
				return VendorOAS30, FormatYAML, nil
			case "swagger":
				return VendorOAS20, FormatYAML, nil
			}
			if strings.HasPrefix(key, "/") {
				sawResource = true
			}
		}

		if err != nil {
			break
		}
	}

	if sawResource {
		return VendorRAML10, FormatYAML, nil
	}
	return VendorUnknown, FormatUnknown, &apierrors.UnrecognizedVendorError{Line: firstLine}
}

// ramlVendor picks the vendor from a "#%RAML <version> [fragment]" header.
func ramlVendor(header string) Vendor {
	fields := strings.Fields(strings.TrimPrefix(header, ramlHeader))
	if len(fields) > 0 && fields[0] == "0.8" {
		return VendorRAML08
	}
	return VendorRAML10
}

// topLevelKey returns the unquoted mapping key on a YAML line, or "".
func topLevelKey(line string) string {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(line[:idx]), `"'`)
}

// formatFromPath detects the format from a file extension.
func formatFromPath(location string) Format {
	switch strings.ToLower(path.Ext(location)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml", ".raml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// formatFromContent detects the format from the first non-whitespace byte.
// JSON objects/arrays start with { or [, anything else is taken as YAML.
func formatFromContent(data []byte) Format {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, utf8BOM), " \t\n\r")
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatYAML
}

// IsUnrecognized reports whether err is a detection failure.
func IsUnrecognized(err error) bool {
	return errors.Is(err, apierrors.ErrUnrecognizedVendor)
}
