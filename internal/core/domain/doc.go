// Package domain defines the core business entities for mailfts.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Fragment: A classified piece of extracted message text
//   - Document: The backend-facing full-text record for one mail object
//   - Collection: The category deciding which backend index a document lives in
//   - DocumentIDSet: A finite set of document ids scoped for bulk removal
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
