// Package errs provides the standardized error taxonomy for the pharmacy delivery engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package defines one error kind per failure class of the order engine:
//   - ObjectNotFoundError: a referenced order, driver, or pharmacy does not exist
//   - ValueIsRequiredError / ValueIsInvalidError: caller input failed validation
//     before any transaction was opened
//   - ConflictError: a status or ownership guard re-checked inside the transaction
//     failed because concurrent state changed
//   - PersistenceError: the transaction itself could not commit
//   - NotificationError: a post-commit notification step failed; logged, never fatal
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrConflict)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// Callers classify failures with errors.Is against the sentinels; transport adapters
// map them to status codes (404, 400, 409, 500) at the boundary.
package errs
