// Package parser is the entry point for parsing API description documents.
//
// A caller names a document and, optionally, a mode; the package detects
// the grammar, builds the resolver chain for the document's includes and
// runs the parsing strategy for the mode. The outcome is always a
// *result.Result: detection failures, unreachable documents, invalid
// options and engine crashes are all reported as issues, never as a Go
// error or a panic.
//
// # Quick Start
//
//	res := parser.Parse(ctx, "api/api.raml", strategy.ModeAuto)
//	if !res.Success() {
//	    for _, e := range res.Errors {
//	        fmt.Println(e)
//	    }
//	}
//
// # Functional Options
//
//	res := parser.ParseWithOptions(ctx,
//	    parser.WithLocation("resource::com.acme:pets:1.0.0:raml:zip:api.raml"),
//	    parser.WithDependencyRepository(os.ExpandEnv("$HOME/.m2/repository")),
//	    parser.WithMode(strategy.ModeAMF),
//	)
//
// In-memory content is parsed with WithContent; its includes are resolved
// with the loader given by WithLoader, if any.
package parser
