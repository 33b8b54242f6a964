package domain

import (
	"fmt"
	"strings"
)

// RecommendationTally counts verdicts across the evaluators of one candidate.
type RecommendationTally map[Recommendation]int

// String renders the tally as "pass(2) / hold(1)", in display order,
// omitting verdicts nobody gave.
func (t RecommendationTally) String() string {
	var parts []string
	for _, r := range Recommendations {
		if n := t[r]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s(%d)", r, n))
		}
	}
	return strings.Join(parts, " / ")
}

// Contains reports whether any evaluator gave one of the verdicts in set.
func (t RecommendationTally) Contains(set []Recommendation) bool {
	for _, r := range set {
		if t[r] > 0 {
			return true
		}
	}
	return false
}

// CategoryAverages holds per-category averages over positive scores only.
type CategoryAverages struct {
	RulesFit       float64 `json:"rules_fit"`
	OutputEvidence float64 `json:"output_evidence"`
	Collaboration  float64 `json:"collaboration"`
	SelfDriven     float64 `json:"self_driven"`
	RoleSkill      float64 `json:"role_skill"`
}

// SummaryRow is the per-candidate aggregate computed at merge time.
// It is derived from its source evaluations and never stored on its own.
type SummaryRow struct {
	Rank        int    `json:"rank"`
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	StudentID   string `json:"student_id"`
	Evaluators  int    `json:"evaluators"`

	Averages CategoryAverages `json:"averages"`
	Overall  float64          `json:"overall"`

	Flags           RiskFlags           `json:"flags"`
	Recommendations RecommendationTally `json:"recommendations"`
	Summaries       string              `json:"summaries"`
}
