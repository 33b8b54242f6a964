package evaluation

import (
	"interviewcheck/pkg/contracts/domain"
)

// Table is an ordered set of evaluations with at most one row per
// (interviewer, candidate) key. Row order is insertion order and is what
// gets persisted.
type Table struct {
	rows  []domain.Evaluation
	index map[domain.EvaluationKey]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[domain.EvaluationKey]int)}
}

// Upsert replaces the row with e's key in place, or appends e.
// It reports whether an existing row was replaced.
func (t *Table) Upsert(e domain.Evaluation) bool {
	key := e.Key()
	if i, ok := t.index[key]; ok {
		t.rows[i] = e
		return true
	}
	t.index[key] = len(t.rows)
	t.rows = append(t.rows, e)
	return false
}

// Delete removes the row with the given key. Deleting a missing key is a no-op
// and reports false.
func (t *Table) Delete(interviewer, candidateID string) bool {
	key := domain.EvaluationKey{Interviewer: interviewer, CandidateID: candidateID}
	i, ok := t.index[key]
	if !ok {
		return false
	}

	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	delete(t.index, key)
	for j := i; j < len(t.rows); j++ {
		t.index[t.rows[j].Key()] = j
	}
	return true
}

// Get returns the row with the given key.
func (t *Table) Get(interviewer, candidateID string) (domain.Evaluation, bool) {
	i, ok := t.index[domain.EvaluationKey{Interviewer: interviewer, CandidateID: candidateID}]
	if !ok {
		return domain.Evaluation{}, false
	}
	return t.rows[i], true
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows in order.
func (t *Table) Rows() []domain.Evaluation {
	out := make([]domain.Evaluation, len(t.rows))
	copy(out, t.rows)
	return out
}

// ForInterviewer returns the rows written by interviewer, in order.
func (t *Table) ForInterviewer(interviewer string) []domain.Evaluation {
	var out []domain.Evaluation
	for _, e := range t.rows {
		if e.Interviewer == interviewer {
			out = append(out, e)
		}
	}
	return out
}

// CompletedCount is the number of distinct candidates interviewer has evaluated.
func (t *Table) CompletedCount(interviewer string) int {
	// keys are unique, so one row per candidate
	return len(t.ForInterviewer(interviewer))
}
