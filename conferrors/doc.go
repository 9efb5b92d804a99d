// Package conferrors provides structured error types for the conformance harness.
//
// Import path: github.com/studentrecords/conformance/conferrors
//
// These errors describe conditions that stop a run or a single request from
// happening at all. Contract violations found in a response are not errors:
// they are reported by the checker package as violations.
//
// # Error Types
//
//   - [ParseError]: the contract or configuration file cannot be decoded
//   - [ReferenceError]: a $ref or a named resource cannot be resolved
//   - [ResourceLimitError]: a contract nests deeper than the resolver allows
//   - [ConfigError]: invalid harness configuration or options
//   - [TransportError]: an HTTP request could not be completed
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrCircularReference]: Matches [ReferenceError] with IsCircular=true
//   - [ErrResourceLimit]: Matches any [ResourceLimitError]
//   - [ErrConfig]: Matches any [ConfigError]
//   - [ErrTransport]: Matches any [TransportError]
//
// # Example
//
//	doc, err := contract.Load("openapi.yaml")
//	if errors.Is(err, conferrors.ErrCircularReference) {
//		// the contract cannot be compiled into finite schema fragments
//	}
package conferrors
