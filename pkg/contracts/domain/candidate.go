package domain

import "strings"

// WarningGlyph marks a candidate whose student id is outside the current cohort.
const WarningGlyph = "⚠️"

// Candidate is one roster row. Candidates are immutable once the roster is loaded.
type Candidate struct {
	// ID is student_id + "_" + name with stray separators stripped,
	// e.g. "260123_Kim" or "Kim" when no student id is known.
	ID        string `json:"candidate_id"`
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
	// Mark is the cohort display mark, empty for current-cohort applicants.
	Mark      string `json:"mark"`
	Category  string `json:"category"`
	Level     string `json:"level"`
	Duplicate string `json:"duplicate,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	Answers   []Passage `json:"answers,omitempty"`
	Questions []Passage `json:"questions,omitempty"`
}

// Passage is a labelled block of free text shown next to the scoring form.
type Passage struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Flagged reports whether the cohort mark carries the warning glyph.
func (c Candidate) Flagged() bool {
	return strings.Contains(c.Mark, WarningGlyph)
}

// StudentPrefix returns the two leading characters of a student id, or ""
// when the id is shorter than two characters.
func StudentPrefix(studentID string) string {
	sid := strings.TrimSpace(studentID)
	if len(sid) < 2 {
		return ""
	}
	return sid[:2]
}

// CandidateID derives the stable candidate identifier.
func CandidateID(studentID, name string) string {
	id := strings.TrimSpace(studentID) + "_" + strings.TrimSpace(name)
	return strings.Trim(id, "_")
}
