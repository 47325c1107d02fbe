// Package domain defines the core entities of the docqa client.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A file known to the document question-answering service
//   - Strategy: An opaque indexing/retrieval mode tag
//   - QueryExchange: One question and its answer, sources and metrics
//   - ClientConfig: The explicit configuration handed to service clients
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
