// Package strategy decides which parsing engine handles a document and turns
// each engine's native report into a result.Result.
//
// Three strategies exist:
//
//   - AMF runs only the multi-format engine.
//   - RAML runs only the legacy RAML engine.
//   - Auto sends RAML 0.8 to the legacy engine and everything else to the
//     multi-format engine. When the chosen engine crashes (panics or returns
//     an error instead of a report) the document is retried exactly once on
//     the other engine. Reported validation errors are never retried.
//
// Every strategy rejects vendor/format combinations its engine does not
// support before fetching anything, fetches the root document through a
// resolver chain built for that document, and never lets a panic escape.
//
// An operator can force a strategy for every parse with the
// APIPARSER_PARSER_TYPE environment variable ("AMF" or "RAML") or with
// SetOverride.
package strategy
