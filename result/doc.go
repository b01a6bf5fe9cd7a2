// Package result provides the normalized, backend-agnostic output of a parse.
//
// Every backend-native error or warning is converted into an [Issue] before it
// leaves the strategy layer. Callers only ever see the types in this package.
//
// # Result
//
// A [Result] holds an optional [Specification] and two ordered issue lists.
// Success is defined as having no errors:
//
//	res := parser.Parse(ctx, "api.raml", strategy.ModeAuto)
//	if !res.Success() {
//		for _, issue := range res.Errors {
//			fmt.Printf("%s: %s\n", issue.Code, issue.Cause)
//		}
//	}
//
// # Codes
//
//   - [CodeUnrecognizedVendor]: content could not be classified
//   - [CodeUnsupportedFeature]: the backend cannot handle the vendor/format combination
//   - [CodeException]: the backend crashed
//   - [CodeValidationError] and [CodeValidationWarning]: the backend reported a problem
//   - [CodeResolutionFailure]: a referenced resource could not be fetched
//
// # Validation Reports
//
// [ValidationReport] is the view used by the validator package: a flat list of
// results with a severity each, and Conforms reporting whether none of them
// is an error.
package result
