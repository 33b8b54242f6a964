// Package roster loads the candidate workbook.
//
// The first sheet must carry a name column (이름, or name); every other column
// is optional. Missing student id, mark, level and category columns are filled
// with defaults: the mark is derived from the student id so that applicants
// outside the current cohort are flagged with a warning glyph, and the level
// falls back to the legacy 레벨추정 column. Each candidate gets the id
// "<student id>_<name>"; when two rows derive the same id the later ones are
// suffixed "#2", "#3" and reported in Roster.Warnings.
package roster
