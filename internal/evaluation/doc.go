// Package evaluation is the per-interviewer result store.
//
// A Table holds at most one evaluation per (interviewer, candidate) pair:
// Upsert replaces an existing row in place and Delete removes it. A Store
// persists a table as a result workbook with three sheets, Evaluations,
// CandidatesSnapshot and Meta, always rewriting the whole file.
//
// Load distinguishes a missing file from one that exists but cannot be read,
// so callers can warn instead of silently starting over with an empty table
// and overwriting the data on the next save.
package evaluation
