package merge

import (
	"fmt"
	"sort"
	"strings"

	"interviewcheck/internal/dataprocessing"
	"interviewcheck/internal/evaluation"
	"interviewcheck/internal/exporter"
	"interviewcheck/pkg/contracts/domain"
)

// ColSourceFile is the provenance column added to every merged row.
const ColSourceFile = "source_file"

// Row is one evaluation row of the combined table with its source file.
type Row struct {
	Source string
	Values dataprocessing.Record
}

// Get returns the trimmed value of col, or "" when the source lacked it.
func (r Row) Get(col string) string {
	if col == ColSourceFile {
		return r.Source
	}
	return r.Values.Get(col)
}

// Text returns col the way it is written back out: memo columns untrimmed,
// everything else as Get.
func (r Row) Text(col string) string {
	if evaluation.IsMemoColumn(col) {
		return r.Values.Raw(col)
	}
	return r.Get(col)
}

// Combine concatenates the tables in input order.
func Combine(tables []Table) []Row {
	var rows []Row
	for _, t := range tables {
		for _, rec := range t.Records {
			rows = append(rows, Row{Source: t.Source, Values: rec})
		}
	}
	return rows
}

// SortField selects the summary column used for ranking.
type SortField string

const (
	SortOverall        SortField = "overall"
	SortRulesFit       SortField = "rules_fit"
	SortOutputEvidence SortField = "output_evidence"
	SortCollaboration  SortField = "collaboration"
	SortSelfDriven     SortField = "self_driven"
	SortRoleSkill      SortField = "role_skill"
	SortName           SortField = "name"
	SortEvaluators     SortField = "evaluators"
)

var sortFields = []SortField{
	SortOverall, SortRulesFit, SortOutputEvidence, SortCollaboration,
	SortSelfDriven, SortRoleSkill, SortName, SortEvaluators,
}

// ParseSortField validates s. The empty string selects SortOverall.
func ParseSortField(s string) (SortField, error) {
	if s == "" {
		return SortOverall, nil
	}
	for _, f := range sortFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// Options controls filtering and ordering of the summary.
type Options struct {
	SortBy    SortField
	Ascending bool
	// Only keeps candidates that received at least one of these verdicts.
	// Empty keeps everyone.
	Only []domain.Recommendation
}

type group struct {
	row    domain.SummaryRow
	scores [6][]float64
	memos  []string
}

// Summarize aggregates rows into one summary row per candidate id.
// Groups are formed in first-appearance order; the sort is stable, so ties
// keep that order. Ranks are assigned after filtering and sorting.
func Summarize(rows []Row, opts Options) []domain.SummaryRow {
	var order []string
	groups := make(map[string]*group)

	for _, r := range rows {
		id := r.Get(evaluation.ColCandidateID)
		g, ok := groups[id]
		if !ok {
			g = &group{row: domain.SummaryRow{
				CandidateID:     id,
				Name:            r.Get(evaluation.ColName),
				StudentID:       r.Get(evaluation.ColStudentID),
				Recommendations: domain.RecommendationTally{},
			}}
			groups[id] = g
			order = append(order, id)
		}

		g.row.Evaluators++
		for i, col := range evaluation.ScoreColumns {
			g.scores[i] = append(g.scores[i], evaluation.ParseScore(r.Get(col)))
		}
		g.row.Flags = g.row.Flags.Or(domain.RiskFlags{
			Evidence: exporter.ParseBool(r.Get(evaluation.ColFlagEvidence)),
			Schedule: exporter.ParseBool(r.Get(evaluation.ColFlagSchedule)),
			Attitude: exporter.ParseBool(r.Get(evaluation.ColFlagAttitude)),
			Comm:     exporter.ParseBool(r.Get(evaluation.ColFlagComm)),
			Other:    exporter.ParseBool(r.Get(evaluation.ColFlagOther)),
		})
		g.row.Recommendations[domain.ParseRecommendation(r.Get(evaluation.ColRecommendation))]++
		if memo := r.Get(evaluation.ColMemoSummary); memo != "" {
			g.memos = append(g.memos, fmt.Sprintf("[%s] %s", r.Get(evaluation.ColInterviewer), memo))
		}
	}

	out := make([]domain.SummaryRow, 0, len(order))
	for _, id := range order {
		g := groups[id]
		if len(opts.Only) > 0 && !g.row.Recommendations.Contains(opts.Only) {
			continue
		}
		g.row.Averages = domain.CategoryAverages{
			RulesFit:       evaluation.AveragePositive(g.scores[0]),
			OutputEvidence: evaluation.AveragePositive(g.scores[1]),
			Collaboration:  evaluation.AveragePositive(g.scores[2]),
			SelfDriven:     evaluation.AveragePositive(g.scores[3]),
			RoleSkill:      evaluation.AveragePositive(g.scores[4]),
		}
		g.row.Overall = evaluation.AveragePositive(g.scores[5])
		g.row.Summaries = strings.Join(g.memos, "\n")
		out = append(out, g.row)
	}

	sortSummary(out, opts)
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func sortSummary(rows []domain.SummaryRow, opts Options) {
	field := opts.SortBy
	if field == "" {
		field = SortOverall
	}

	less := func(a, b domain.SummaryRow) bool {
		switch field {
		case SortName:
			return a.Name < b.Name
		case SortEvaluators:
			return a.Evaluators < b.Evaluators
		default:
			return sortValue(a, field) < sortValue(b, field)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if opts.Ascending {
			return less(rows[i], rows[j])
		}
		return less(rows[j], rows[i])
	})
}

func sortValue(r domain.SummaryRow, field SortField) float64 {
	switch field {
	case SortRulesFit:
		return r.Averages.RulesFit
	case SortOutputEvidence:
		return r.Averages.OutputEvidence
	case SortCollaboration:
		return r.Averages.Collaboration
	case SortSelfDriven:
		return r.Averages.SelfDriven
	case SortRoleSkill:
		return r.Averages.RoleSkill
	default:
		return r.Overall
	}
}

// SortForOutput orders merged rows by candidate id, interviewer and timestamp,
// keeping input order among equal keys.
func SortForOutput(rows []Row) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if x, y := a.Get(evaluation.ColCandidateID), b.Get(evaluation.ColCandidateID); x != y {
			return x < y
		}
		if x, y := a.Get(evaluation.ColInterviewer), b.Get(evaluation.ColInterviewer); x != y {
			return x < y
		}
		return a.Get(evaluation.ColTimestamp) < b.Get(evaluation.ColTimestamp)
	})
	return out
}
