package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateID(t *testing.T) {
	tests := []struct {
		name      string
		studentID string
		fullName  string
		want      string
	}{
		{name: "both present", studentID: "260123", fullName: "Kim", want: "260123_Kim"},
		{name: "whitespace trimmed", studentID: " 260123 ", fullName: " Kim ", want: "260123_Kim"},
		{name: "missing student id", studentID: "", fullName: "Kim", want: "Kim"},
		{name: "missing name", studentID: "260123", fullName: "", want: "260123"},
		{name: "both missing", studentID: "", fullName: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CandidateID(tt.studentID, tt.fullName))
		})
	}
}

func TestStudentPrefix(t *testing.T) {
	assert.Equal(t, "26", StudentPrefix("260123"))
	assert.Equal(t, "21", StudentPrefix(" 21 "))
	assert.Equal(t, "", StudentPrefix("2"))
	assert.Equal(t, "", StudentPrefix(""))
}

func TestParseRecommendation(t *testing.T) {
	tests := []struct {
		in   string
		want Recommendation
	}{
		{"pass", RecommendPass},
		{" HOLD ", RecommendHold},
		{"합격", RecommendPass},
		{"보류", RecommendHold},
		{"불합", RecommendFail},
		{"미정", RecommendUndecided},
		{"", RecommendUndecided},
		{"maybe", RecommendUndecided},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRecommendation(tt.in))
		})
	}
}

func TestRecommendationLabel(t *testing.T) {
	assert.Equal(t, "합격", RecommendPass.Label())
	assert.Equal(t, "미정", Recommendation("bogus").Label())
	assert.True(t, RecommendFail.Valid())
	assert.False(t, Recommendation("bogus").Valid())
}

func TestRecommendationTally_String(t *testing.T) {
	tally := RecommendationTally{RecommendHold: 1, RecommendPass: 2}
	assert.Equal(t, "pass(2) / hold(1)", tally.String())
	assert.Equal(t, "", RecommendationTally{}.String())
}

func TestRecommendationTally_Contains(t *testing.T) {
	tally := RecommendationTally{RecommendHold: 1}
	assert.True(t, tally.Contains([]Recommendation{RecommendPass, RecommendHold}))
	assert.False(t, tally.Contains([]Recommendation{RecommendFail}))
	assert.False(t, tally.Contains(nil))
}

func TestRiskFlags_Or(t *testing.T) {
	a := RiskFlags{Schedule: true}
	b := RiskFlags{Comm: true}

	got := a.Or(b)
	assert.True(t, got.Schedule)
	assert.True(t, got.Comm)
	assert.False(t, got.Evidence)
	assert.True(t, got.Any())
	assert.False(t, RiskFlags{}.Any())
}

func TestCandidateFlagged(t *testing.T) {
	assert.True(t, Candidate{Mark: WarningGlyph + " 26학번 아님"}.Flagged())
	assert.False(t, Candidate{}.Flagged())
}
