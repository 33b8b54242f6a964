// Package services implements the business logic behind the HTTP API.
// Handlers decode and validate requests, services do the work and return
// domain values or errors from internal/errors that the error handler maps
// to problem responses.
//
// # Available Services
//
//	- InterviewService: candidate lookup, per-interviewer result files,
//	  countdown timers and confirmed deletes
//	- MergeService: merges uploaded or on-disk result files into a ranked summary
//	- HealthService: liveness, readiness and version information
//
// # Concurrency
//
// InterviewService serializes writes to the same result file with a
// per-path mutex; every write reloads the file first so the last save wins
// across processes. Timers and pending confirmations live in memory only.
//
// # Error Handling
//
//	- validation errors for bad interviewer names and sort fields
//	- not found errors for unknown candidates and evaluations
//	- conflict errors when an existing result file cannot be read, and for
//	  stale delete confirmations
//	- storage errors when a result file cannot be written
package services
