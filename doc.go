// Package apiparser parses API description documents without the caller
// knowing in advance which grammar they use or where their fragments live.
//
// Supported inputs are RAML 0.8, RAML 1.0, Swagger/OpenAPI 2.0 and
// OpenAPI 3.0, in JSON or YAML.
//
// # Overview
//
// The module is organised in small packages, leaves first:
//
//   - apiref: vendor/format detection and the immutable API reference
//   - resolver: turns logical references (paths, "resource::" dependency
//     notation, exchange_modules/ paths) into bytes, including nested includes
//   - result: the normalized issue and result model returned to callers
//   - backend/amf and backend/raml: the two grammar engines
//   - strategy: picks a backend, runs it and falls back after a crash
//   - parser and validator: the inbound entry points
//
// # Quick Start
//
// Parse a document and let the module pick the backend:
//
//	import (
//		"github.com/erraggy/apiparser/parser"
//		"github.com/erraggy/apiparser/strategy"
//	)
//
//	res := parser.Parse(ctx, "api/api.raml", strategy.ModeAuto)
//	if !res.Success() {
//		for _, e := range res.Errors {
//			fmt.Println(e)
//		}
//	}
//
// Validate and inspect the report:
//
//	import "github.com/erraggy/apiparser/validator"
//
//	report := validator.Validate(ctx, "openapi.json", strategy.ModeAuto)
//	fmt.Println(report.Conforms())
//
// # Command Line and MCP
//
// The apiparser command wraps the same entry points:
//
//	apiparser detect api.raml
//	apiparser validate --format json openapi.json
//	apiparser includes --working-dir ./project api.raml
//
// "apiparser mcp" serves the detect, parse, validate and includes tools to
// MCP clients over stdio.
//
// # Operator Override
//
// Setting APIPARSER_PARSER_TYPE to "AMF" or "RAML" forces that backend for
// every parse in the process, whatever mode the caller asks for. Any other
// value is ignored.
package apiparser
