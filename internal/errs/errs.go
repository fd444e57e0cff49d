// Package errs defines the error types shared by every layer of quizbank.
//
// Two families live here:
//   - DataError, returned by repositories and services. It carries a Kind
//     (not found, constraint violation, ...) plus the table, operation and
//     id the failure happened on.
//   - HTTPError, the JSON shape written to API clients by the global error
//     handler. FromDataError converts the first into the second.
package errs
