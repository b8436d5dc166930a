// Package errors provides structured error handling for the solo-rpg-api project.
//
// It provides:
//   - Structured errors with codes, messages, and metadata
//   - HTTP status mapping for the handler layer
//   - Error context preservation through wrapping
//   - Validation error helpers
//   - Type-safe error checking
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFound("deck state not found")
//	err := errors.InvalidArgumentf("invalid dice notation: %s", notation)
//
// Wrapping errors:
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to save deck state")
//	}
//
// Type checking:
//
//	if errors.IsNotFound(err) {
//	    // hydrate a fresh deck instead
//	}
//
// # Layer-Specific Guidelines
//
// Repository layer:
//   - Return NotFound when a key is absent
//   - Return DataLoss when persisted data fails to decode
//   - Wrap storage errors with context
//
// Orchestrator layer:
//   - Validate inputs and return InvalidArgument errors
//   - Treat persistence failures as best-effort: log and continue, the
//     in-memory state stays authoritative
//
// Handler layer:
//   - Map errors to HTTP status via Code.HTTPStatus
//   - Extract user-friendly messages with GetMessage
package errors
