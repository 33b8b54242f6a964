// Package merge combines the result workbooks of many interviewers.
//
// ReadTables reads the Evaluations sheet of each source, skipping the ones it
// cannot read. Combine concatenates the readable tables and tags every row
// with its source file, and Summarize folds them into one ranked row per
// candidate: averages over the scores that were actually given, the union of
// risk flags, a tally of recommendations and the interviewers' summary memos.
package merge
