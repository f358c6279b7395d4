// Package domain defines the core business entities for finqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Upload: Raw bytes handed over by a driving adapter
//   - Document: A parsed document with its normalised text
//   - DocumentMetadata: Structural info and extracted financial metrics
//   - Exchange: A question/answer pair kept for conversational context
//   - ChatMessage: A display-only chat log entry
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
