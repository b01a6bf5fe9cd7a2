// Package apierrors provides structured error types for the apiparser module.
//
// Import path: github.com/erraggy/apiparser/apierrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As].
// The error types never leave the module's public entry points directly; the
// strategy layer converts them into coded issues. They are exported so that
// backends, loaders and resolvers written outside this module can report
// conditions the strategy layer knows how to classify.
//
// # Error Types
//
//   - [UnrecognizedVendorError]: content does not look like RAML or OpenAPI
//   - [UnsupportedFeatureError]: a backend cannot handle a vendor/format combination
//   - [ResolutionError]: a referenced resource could not be fetched
//   - [BackendFaultError]: a backend crashed while parsing
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrUnrecognizedVendor]: Matches any [UnrecognizedVendorError]
//   - [ErrUnsupportedFeature]: Matches any [UnsupportedFeatureError]
//   - [ErrResolution]: Matches any [ResolutionError]
//   - [ErrCircularReference]: Matches [ResolutionError] with IsCircular=true
//   - [ErrBackendFault]: Matches any [BackendFaultError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
//	vendor, format, err := apiref.Detect(r)
//	if errors.Is(err, apierrors.ErrUnrecognizedVendor) {
//	    // not an API description
//	}
//
//	var fault *apierrors.BackendFaultError
//	if errors.As(err, &fault) {
//	    fmt.Println(fault.Backend, fault.Recovered)
//	}
package apierrors
