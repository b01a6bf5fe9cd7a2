// Package ramldoc loads RAML 0.8 and 1.0 documents into a single YAML tree.
//
// Load reads the header, parses the root document, resolves every !include
// through a resolver.Resolver, loads the libraries named under "uses" and
// checks the handful of grammar rules both parsing engines share. Problems
// carry 0-based positions; each engine converts them to its own convention.
package ramldoc
