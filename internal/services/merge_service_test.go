package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewcheck/internal/dataprocessing"
	apperrors "interviewcheck/internal/errors"
	"interviewcheck/internal/merge"
	"interviewcheck/internal/shared/testutil"
	api "interviewcheck/pkg/contracts/api/v1"
	"interviewcheck/pkg/contracts/domain"
)

// seedResults saves evaluations from two interviewers into the fixture's output dir.
func seedResults(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	saves := []struct {
		interviewer string
		candidate   string
		req         api.EvaluationRequest
	}{
		{"alice", "260001_Kim", api.EvaluationRequest{Scores: domain.Scores{RulesFit: 4, RoleSkill: 4}, Recommendation: "pass", Memos: domain.Memos{Summary: "strong"}}},
		{"alice", "250002_Lee", api.EvaluationRequest{Scores: domain.Scores{RulesFit: 2}, Recommendation: "fail"}},
		{"bob", "260001_Kim", api.EvaluationRequest{Scores: domain.Scores{RulesFit: 5}, OverallManual: 5, Recommendation: "hold", Flags: domain.RiskFlags{Comm: true}}},
	}
	for _, s := range saves {
		_, err := f.svc.SaveEvaluation(ctx, s.interviewer, s.candidate, s.req)
		require.NoError(t, err)
	}
}

func newMergeService(t *testing.T, f *fixture) *MergeService {
	logger, _ := testutil.NewTestLogger(t)
	return NewMergeService(f.dir, "interview_results.xlsx", f.metrics, logger)
}

func TestMergeService_ResultSourcesAndMerge(t *testing.T) {
	f := newFixture(t)
	seedResults(t, f)
	ms := newMergeService(t, f)
	ctx := context.Background()

	sources, err := ms.ResultSources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "interview_results_alice.xlsx", sources[0].Name)
	assert.Equal(t, "interview_results_bob.xlsx", sources[1].Name)

	res, err := ms.Merge(ctx, sources, api.MergeRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"interview_results_alice.xlsx", "interview_results_bob.xlsx"}, res.Files)
	assert.Equal(t, 3, res.Rows)
	assert.Empty(t, res.Skipped)
	require.Len(t, res.Summary, 2)

	top := res.Summary[0]
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, "260001_Kim", top.CandidateID)
	assert.Equal(t, 2, top.Evaluators)
	assert.Equal(t, 4.5, top.Overall)
	assert.Equal(t, 4.5, top.Averages.RulesFit)
	assert.True(t, top.Flags.Comm)
	assert.Equal(t, "pass(1) / hold(1)", top.Recommendations.String())
	assert.Equal(t, "[alice] strong", top.Summaries)

	filtered, err := ms.Merge(ctx, sources, api.MergeRequest{Only: []string{"fail"}})
	require.NoError(t, err)
	require.Len(t, filtered.Summary, 1)
	assert.Equal(t, "250002_Lee", filtered.Summary[0].CandidateID)
	assert.Equal(t, 1, filtered.Summary[0].Rank)

	assert.Equal(t, 2.0, counterValue(t, f.metrics.MergeRuns.WithLabelValues("ok")))
	assert.Equal(t, 4.0, counterValue(t, f.metrics.MergeFilesRead))
}

func TestMergeService_SkipsUnreadableUploads(t *testing.T) {
	f := newFixture(t)
	seedResults(t, f)
	ms := newMergeService(t, f)
	ctx := context.Background()

	data, err := os.ReadFile(filepath.Join(f.dir, "interview_results_alice.xlsx"))
	require.NoError(t, err)

	sources := []merge.Source{
		merge.FromBytes("alice.xlsx", data),
		merge.FromBytes("broken.xlsx", []byte("garbage")),
	}
	res, err := ms.Merge(ctx, sources, api.MergeRequest{SortBy: "name", Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice.xlsx"}, res.Files)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "broken.xlsx", res.Skipped[0].Source)
	assert.Equal(t, "Kim", res.Summary[0].Name)
	assert.Equal(t, 1.0, counterValue(t, f.metrics.MergeFilesSkipped))
}

func TestMergeService_NoInput(t *testing.T) {
	f := newFixture(t)
	ms := newMergeService(t, f)
	ctx := context.Background()

	_, err := ms.Merge(ctx, nil, api.MergeRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNoMergeInput)

	_, err = ms.Merge(ctx, []merge.Source{merge.FromBytes("x.xlsx", []byte("nope"))}, api.MergeRequest{})
	require.ErrorIs(t, err, apperrors.ErrNoMergeInput)
	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	skipped := apiErr.Details.(map[string]interface{})["skipped"].([]merge.Skipped)
	require.Len(t, skipped, 1)
	assert.Equal(t, "x.xlsx", skipped[0].Source)

	var buf bytes.Buffer
	err = ms.Export(ctx, nil, api.MergeRequest{}, &buf)
	assert.ErrorIs(t, err, apperrors.ErrNoMergeInput)
	assert.Zero(t, buf.Len(), "nothing is written without input")

	assert.Equal(t, 3.0, counterValue(t, f.metrics.MergeRuns.WithLabelValues("no_input")))
}

func TestMergeService_BadSortField(t *testing.T) {
	f := newFixture(t)
	ms := newMergeService(t, f)

	_, err := ms.Merge(context.Background(), nil, api.MergeRequest{SortBy: "height"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestMergeService_Export(t *testing.T) {
	f := newFixture(t)
	seedResults(t, f)
	ms := newMergeService(t, f)
	ctx := context.Background()

	sources, err := ms.ResultSources(ctx)
	require.NoError(t, err)

	tests := []struct {
		kind       string
		wantSheets []string
	}{
		{kind: "", wantSheets: []string{merge.SheetMerged, merge.SheetSummary}},
		{kind: ExportFull, wantSheets: []string{merge.SheetMerged, merge.SheetSummary}},
		{kind: ExportSummary, wantSheets: []string{merge.SheetSummary}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, ms.Export(ctx, sources, api.MergeRequest{Kind: tt.kind}, &buf))

			path := filepath.Join(t.TempDir(), "export.xlsx")
			require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
			assert.Equal(t, tt.wantSheets, testutil.SheetList(t, path))

			summary, err := dataprocessing.ParseFile(path, merge.SheetSummary)
			require.NoError(t, err)
			require.Len(t, summary.Records, 2)
			assert.Equal(t, "260001_Kim", summary.Records[0].Get("candidate_id"))
			assert.Equal(t, "4.5", summary.Records[0].Get("avg_overall"))
		})
	}
}

func TestMergeService_ResultSourcesMissingDir(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	ms := NewMergeService(filepath.Join(t.TempDir(), "missing"), "interview_results.xlsx", nil, logger)

	_, err := ms.ResultSources(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}
