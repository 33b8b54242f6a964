package merge

import (
	"io"
	"strconv"
	"strings"
	"time"

	"interviewcheck/internal/evaluation"
	"interviewcheck/internal/exporter"
	"interviewcheck/pkg/contracts/domain"
)

// Sheet names of merged workbooks.
const (
	SheetMerged  = "MergedEvaluations"
	SheetSummary = "Summary"
	SheetMeta    = "Meta"
)

// MergedColumns is the header of the MergedEvaluations sheet.
var MergedColumns = append(append([]string{}, evaluation.Columns...), ColSourceFile)

// SummaryColumns is the header of the Summary sheet and the summary CSV.
var SummaryColumns = []string{
	"rank", "candidate_id", "name", "student_id", "evaluators",
	"avg_rules_fit", "avg_output_evidence", "avg_collaboration", "avg_self_driven", "avg_role_skill",
	"avg_overall",
	"flag_evidence_risk", "flag_schedule_risk", "flag_attitude_risk", "flag_comm_risk", "flag_other_risk",
	"recommendations", "summaries",
}

// WriteMerged writes the merge CLI workbook: every row sorted for output plus
// a Meta sheet naming the input files.
func WriteMerged(w io.Writer, rows []Row, inputs []string, mergedAt time.Time) error {
	wb := exporter.NewWorkbook()
	defer wb.Close()

	if err := wb.AddSheet(SheetMerged, MergedColumns, mergedCells(SortForOutput(rows))); err != nil {
		return err
	}
	meta := [][]interface{}{{mergedAt.Format(domain.TimestampLayout), strings.Join(inputs, ", ")}}
	if err := wb.AddSheet(SheetMeta, []string{"merged_at", "input_files"}, meta); err != nil {
		return err
	}

	_, err := wb.WriteTo(w)
	return err
}

// WriteExport writes the combined rows in input order and the summary.
func WriteExport(w io.Writer, rows []Row, summary []domain.SummaryRow) error {
	wb := exporter.NewWorkbook()
	defer wb.Close()

	if err := wb.AddSheet(SheetMerged, MergedColumns, mergedCells(rows)); err != nil {
		return err
	}
	if err := wb.AddSheet(SheetSummary, SummaryColumns, summaryCells(summary)); err != nil {
		return err
	}

	_, err := wb.WriteTo(w)
	return err
}

// WriteSummaryOnly writes a workbook holding just the summary.
func WriteSummaryOnly(w io.Writer, summary []domain.SummaryRow) error {
	wb := exporter.NewWorkbook()
	defer wb.Close()

	if err := wb.AddSheet(SheetSummary, SummaryColumns, summaryCells(summary)); err != nil {
		return err
	}

	_, err := wb.WriteTo(w)
	return err
}

// WriteSummaryCSV writes the summary as BOM-prefixed CSV so Excel opens it as UTF-8.
func WriteSummaryCSV(w io.Writer, summary []domain.SummaryRow) error {
	records := make([][]string, 0, len(summary))
	for _, s := range summary {
		records = append(records, SummaryRecord(s))
	}
	return exporter.NewCSVWriter("").WriteTo(w, exporter.WriteOptions{
		Headers:   SummaryColumns,
		Records:   records,
		BOMPrefix: true,
	})
}

// SummaryRecord renders s as text under SummaryColumns. Averages have two
// decimals and the overall average one.
func SummaryRecord(s domain.SummaryRow) []string {
	return []string{
		exporter.FormatInt(s.Rank),
		s.CandidateID,
		s.Name,
		s.StudentID,
		exporter.FormatInt(s.Evaluators),
		exporter.FormatFloat(s.Averages.RulesFit, 2),
		exporter.FormatFloat(s.Averages.OutputEvidence, 2),
		exporter.FormatFloat(s.Averages.Collaboration, 2),
		exporter.FormatFloat(s.Averages.SelfDriven, 2),
		exporter.FormatFloat(s.Averages.RoleSkill, 2),
		FormatOverall(s.Overall),
		exporter.FormatBool(s.Flags.Evidence),
		exporter.FormatBool(s.Flags.Schedule),
		exporter.FormatBool(s.Flags.Attitude),
		exporter.FormatBool(s.Flags.Comm),
		exporter.FormatBool(s.Flags.Other),
		s.Recommendations.String(),
		s.Summaries,
	}
}

// FormatOverall renders an overall average with one decimal.
func FormatOverall(v float64) string {
	return exporter.FormatFloat(v, 1)
}

func summaryCells(summary []domain.SummaryRow) [][]interface{} {
	out := make([][]interface{}, 0, len(summary))
	for _, s := range summary {
		out = append(out, []interface{}{
			s.Rank, s.CandidateID, s.Name, s.StudentID, s.Evaluators,
			s.Averages.RulesFit, s.Averages.OutputEvidence, s.Averages.Collaboration,
			s.Averages.SelfDriven, s.Averages.RoleSkill,
			evaluation.RoundHalfEven(s.Overall, 1),
			exporter.FormatBool(s.Flags.Evidence),
			exporter.FormatBool(s.Flags.Schedule),
			exporter.FormatBool(s.Flags.Attitude),
			exporter.FormatBool(s.Flags.Comm),
			exporter.FormatBool(s.Flags.Other),
			s.Recommendations.String(),
			s.Summaries,
		})
	}
	return out
}

// mergedCells writes score columns as numbers when they parse and everything
// else as the text it was read as.
func mergedCells(rows []Row) [][]interface{} {
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		cells := make([]interface{}, len(MergedColumns))
		for i, col := range MergedColumns {
			v := r.Text(col)
			if evaluation.IsScoreColumn(col) {
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					cells[i] = f
					continue
				}
			}
			cells[i] = v
		}
		out = append(out, cells)
	}
	return out
}
