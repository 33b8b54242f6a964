// Package files locates and writes the workbooks the tool works with: glob
// expansion of merge inputs, discovery of per-interviewer result files, and
// atomic replacement of a result file on save.
package files
