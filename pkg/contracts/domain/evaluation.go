package domain

import (
	"strings"
)

// TimestampLayout is the layout used for evaluation timestamps and workbook metadata.
const TimestampLayout = "2006-01-02 15:04:05"

// Recommendation is an interviewer's verdict on a candidate.
type Recommendation string

const (
	RecommendPass      Recommendation = "pass"
	RecommendHold      Recommendation = "hold"
	RecommendFail      Recommendation = "fail"
	RecommendUndecided Recommendation = "undecided"
)

// Recommendations lists every verdict in display order.
var Recommendations = []Recommendation{RecommendPass, RecommendHold, RecommendFail, RecommendUndecided}

// recommendationLabels are the labels stored in result workbooks. Files written
// by earlier versions of the tool use these, so they stay the on-disk form.
var recommendationLabels = map[Recommendation]string{
	RecommendPass:      "합격",
	RecommendHold:      "보류",
	RecommendFail:      "불합",
	RecommendUndecided: "미정",
}

// Label returns the workbook label for r.
func (r Recommendation) Label() string {
	if label, ok := recommendationLabels[r]; ok {
		return label
	}
	return recommendationLabels[RecommendUndecided]
}

// Valid reports whether r is one of the known verdicts.
func (r Recommendation) Valid() bool {
	_, ok := recommendationLabels[r]
	return ok
}

// ParseRecommendation accepts either the code ("pass") or the workbook label ("합격").
// Anything else, including the empty string, is undecided.
func ParseRecommendation(s string) Recommendation {
	s = strings.ToLower(strings.TrimSpace(s))
	for code, label := range recommendationLabels {
		if s == string(code) || s == label {
			return code
		}
	}
	return RecommendUndecided
}

// MaxScore is the top of every score scale. Zero means "not scored".
const MaxScore = 5

// Scores holds the five category scores.
type Scores struct {
	RulesFit       int `json:"rules_fit" validate:"gte=0,lte=5"`
	OutputEvidence int `json:"output_evidence" validate:"gte=0,lte=5"`
	Collaboration  int `json:"collaboration" validate:"gte=0,lte=5"`
	SelfDriven     int `json:"self_driven" validate:"gte=0,lte=5"`
	RoleSkill      int `json:"role_skill" validate:"gte=0,lte=5"`
}

// Values returns the scores in column order.
func (s Scores) Values() []int {
	return []int{s.RulesFit, s.OutputEvidence, s.Collaboration, s.SelfDriven, s.RoleSkill}
}

// RiskFlags are independent yes/no concerns raised by an interviewer.
type RiskFlags struct {
	Evidence bool `json:"evidence"`
	Schedule bool `json:"schedule"`
	Attitude bool `json:"attitude"`
	Comm     bool `json:"comm"`
	Other    bool `json:"other"`
}

// Or returns the union of f and o.
func (f RiskFlags) Or(o RiskFlags) RiskFlags {
	return RiskFlags{
		Evidence: f.Evidence || o.Evidence,
		Schedule: f.Schedule || o.Schedule,
		Attitude: f.Attitude || o.Attitude,
		Comm:     f.Comm || o.Comm,
		Other:    f.Other || o.Other,
	}
}

// Any reports whether at least one flag is set.
func (f RiskFlags) Any() bool {
	return f.Evidence || f.Schedule || f.Attitude || f.Comm || f.Other
}

// Memos are the free-text notes attached to an evaluation.
type Memos struct {
	Strength string `json:"strength"`
	Concern  string `json:"concern"`
	Followup string `json:"followup"`
	Summary  string `json:"summary"`
}

// EvaluationKey identifies at most one live evaluation.
type EvaluationKey struct {
	Interviewer string `json:"interviewer"`
	CandidateID string `json:"candidate_id"`
}

// Evaluation is one interviewer's scored assessment of one candidate.
type Evaluation struct {
	Timestamp   string `json:"timestamp"`
	AppVersion  string `json:"app_version"`
	Interviewer string `json:"interviewer"`

	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	StudentID   string `json:"student_id"`
	Mark        string `json:"mark"`
	Category    string `json:"category"`
	Level       string `json:"level"`

	Scores Scores `json:"scores"`
	// Overall is the manual overall score, or the computed average when
	// no manual score was given.
	Overall float64 `json:"overall"`

	Flags          RiskFlags      `json:"flags"`
	Memos          Memos          `json:"memos"`
	Recommendation Recommendation `json:"recommendation"`
}

// Key returns the upsert key of e.
func (e Evaluation) Key() EvaluationKey {
	return EvaluationKey{Interviewer: e.Interviewer, CandidateID: e.CandidateID}
}
