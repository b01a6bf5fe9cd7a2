// Package amf is the multi-format parsing engine. It reads OpenAPI 2.0 and
// 3.0 documents through github.com/pb33f/libopenapi and RAML 0.8 and 1.0
// documents through the shared RAML loader.
//
// The engine reports in its own vocabulary: a Report with a Conforms flag
// and ValidationResults whose Level is "Violation", "Warning" or "Info".
// Positions use 1-based lines and 0-based columns.
package amf
