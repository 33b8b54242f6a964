package evaluation

import (
	"math"
	"strconv"
	"strings"

	"interviewcheck/internal/dataprocessing"
	"interviewcheck/internal/exporter"
	"interviewcheck/pkg/contracts/domain"
)

// Sheet names of a result workbook.
const (
	SheetEvaluations = "Evaluations"
	SheetSnapshot    = "CandidatesSnapshot"
	SheetMeta        = "Meta"
)

// Evaluation column names.
const (
	ColTimestamp      = "timestamp"
	ColAppVersion     = "app_version"
	ColInterviewer    = "interviewer"
	ColCandidateID    = "candidate_id"
	ColName           = "name"
	ColStudentID      = "student_id"
	ColMark           = "mark"
	ColCategory       = "category"
	ColLevel          = "level"
	ColRulesFit       = "score_rules_fit"
	ColOutputEvidence = "score_output_evidence"
	ColCollaboration  = "score_collaboration"
	ColSelfDriven     = "score_self_driven"
	ColRoleSkill      = "score_role_skill"
	ColOverall        = "score_overall"
	ColFlagEvidence   = "flag_evidence_risk"
	ColFlagSchedule   = "flag_schedule_risk"
	ColFlagAttitude   = "flag_attitude_risk"
	ColFlagComm       = "flag_comm_risk"
	ColFlagOther      = "flag_other_risk"
	ColMemoStrength   = "memo_strength"
	ColMemoConcern    = "memo_concern"
	ColMemoFollowup   = "memo_followup"
	ColMemoSummary    = "memo_summary"
	ColRecommendation = "recommendation"
)

// Columns is the fixed schema of the Evaluations sheet, in order.
var Columns = []string{
	ColTimestamp, ColAppVersion, ColInterviewer,
	ColCandidateID, ColName, ColStudentID, ColMark,
	ColCategory, ColLevel,
	ColRulesFit, ColOutputEvidence, ColCollaboration, ColSelfDriven, ColRoleSkill, ColOverall,
	ColFlagEvidence, ColFlagSchedule, ColFlagAttitude, ColFlagComm, ColFlagOther,
	ColMemoStrength, ColMemoConcern, ColMemoFollowup, ColMemoSummary,
	ColRecommendation,
}

// ScoreColumns are the five category scores followed by the overall score.
var ScoreColumns = []string{
	ColRulesFit, ColOutputEvidence, ColCollaboration, ColSelfDriven, ColRoleSkill, ColOverall,
}

// IsScoreColumn reports whether col holds a number.
func IsScoreColumn(col string) bool {
	for _, c := range ScoreColumns {
		if c == col {
			return true
		}
	}
	return false
}

// Encode renders e as one Evaluations row under Columns.
// Scores are written as numbers, flags as "True"/"False".
func Encode(e domain.Evaluation) []interface{} {
	return []interface{}{
		e.Timestamp, e.AppVersion, e.Interviewer,
		e.CandidateID, e.Name, e.StudentID, e.Mark,
		e.Category, e.Level,
		e.Scores.RulesFit, e.Scores.OutputEvidence, e.Scores.Collaboration, e.Scores.SelfDriven, e.Scores.RoleSkill,
		e.Overall,
		exporter.FormatBool(e.Flags.Evidence),
		exporter.FormatBool(e.Flags.Schedule),
		exporter.FormatBool(e.Flags.Attitude),
		exporter.FormatBool(e.Flags.Comm),
		exporter.FormatBool(e.Flags.Other),
		e.Memos.Strength, e.Memos.Concern, e.Memos.Followup, e.Memos.Summary,
		e.Recommendation.Label(),
	}
}

// IsMemoColumn reports whether col holds free text that is read untrimmed.
func IsMemoColumn(col string) bool {
	switch col {
	case ColMemoStrength, ColMemoConcern, ColMemoFollowup, ColMemoSummary:
		return true
	}
	return false
}

// Decode reads an Evaluations row. Absent columns decode as zero values and
// unparseable numbers as 0. Memos keep their whitespace.
func Decode(rec dataprocessing.Record) domain.Evaluation {
	return domain.Evaluation{
		Timestamp:   rec.Get(ColTimestamp),
		AppVersion:  rec.Get(ColAppVersion),
		Interviewer: rec.Get(ColInterviewer),
		CandidateID: rec.Get(ColCandidateID),
		Name:        rec.Get(ColName),
		StudentID:   rec.Get(ColStudentID),
		Mark:        rec.Get(ColMark),
		Category:    rec.Get(ColCategory),
		Level:       rec.Get(ColLevel),
		Scores: domain.Scores{
			RulesFit:       scoreInt(rec.Get(ColRulesFit)),
			OutputEvidence: scoreInt(rec.Get(ColOutputEvidence)),
			Collaboration:  scoreInt(rec.Get(ColCollaboration)),
			SelfDriven:     scoreInt(rec.Get(ColSelfDriven)),
			RoleSkill:      scoreInt(rec.Get(ColRoleSkill)),
		},
		Overall: ParseScore(rec.Get(ColOverall)),
		Flags: domain.RiskFlags{
			Evidence: exporter.ParseBool(rec.Get(ColFlagEvidence)),
			Schedule: exporter.ParseBool(rec.Get(ColFlagSchedule)),
			Attitude: exporter.ParseBool(rec.Get(ColFlagAttitude)),
			Comm:     exporter.ParseBool(rec.Get(ColFlagComm)),
			Other:    exporter.ParseBool(rec.Get(ColFlagOther)),
		},
		Memos: domain.Memos{
			Strength: rec.Raw(ColMemoStrength),
			Concern:  rec.Raw(ColMemoConcern),
			Followup: rec.Raw(ColMemoFollowup),
			Summary:  rec.Raw(ColMemoSummary),
		},
		Recommendation: domain.ParseRecommendation(rec.Get(ColRecommendation)),
	}
}

// ParseScore reads a numeric cell. Empty, unparseable and non-finite values are 0.
func ParseScore(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func scoreInt(s string) int {
	return int(math.Round(ParseScore(s)))
}
