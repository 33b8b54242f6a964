package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"interviewcheck/internal/merge"
	api "interviewcheck/pkg/contracts/api/v1"
	"interviewcheck/pkg/contracts/domain"
)

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	recorder := tracetest.NewSpanRecorder()
	return recorder, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
}

func endedByName(recorder *tracetest.SpanRecorder) map[string]sdktrace.ReadOnlySpan {
	out := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range recorder.Ended() {
		out[s.Name()] = s
	}
	return out
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestInterviewService_SaveEvaluationSpans(t *testing.T) {
	f := newFixture(t)
	recorder, tp := newRecorder()
	f.svc.tracer = tp.Tracer("test")
	ctx := context.Background()

	_, err := f.svc.SaveEvaluation(ctx, "alice", "260001_Kim", api.EvaluationRequest{
		Scores:         domain.Scores{RulesFit: 4, RoleSkill: 5},
		Recommendation: "pass",
	})
	require.NoError(t, err)

	spans := endedByName(recorder)
	save, ok := spans["InterviewService.SaveEvaluation"]
	require.True(t, ok)
	write, ok := spans["InterviewService.update"]
	require.True(t, ok)

	assert.Equal(t, save.SpanContext().SpanID(), write.Parent().SpanID(), "the file write nests under the save")
	assert.Equal(t, codes.Unset, save.Status().Code)
	assert.Equal(t, "alice", attrs(save)["interviewer"].AsString())
	assert.Equal(t, "260001_Kim", attrs(save)["candidate_id"].AsString())
	assert.Equal(t, "pass", attrs(save)["recommendation"].AsString())
	assert.Equal(t, int64(1), attrs(write)["rows"].AsInt64())
	assert.Contains(t, attrs(write)["file"].AsString(), "interview_results_alice.xlsx")
}

func TestInterviewService_SaveEvaluationSpans_Failure(t *testing.T) {
	f := newFixture(t)
	recorder, tp := newRecorder()
	f.svc.tracer = tp.Tracer("test")

	_, err := f.svc.SaveEvaluation(context.Background(), "alice", "nobody", api.EvaluationRequest{})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1, "nothing is written for an unknown candidate")
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "Candidate not found", spans[0].Status().Description)
}

func TestMergeService_MergeSpan(t *testing.T) {
	f := newFixture(t)
	seedResults(t, f)
	ms := newMergeService(t, f)
	recorder, tp := newRecorder()
	ms.tracer = tp.Tracer("test")
	ctx := context.Background()

	sources, err := ms.ResultSources(ctx)
	require.NoError(t, err)
	_, err = ms.Merge(ctx, append(sources, merge.FromBytes("broken.xlsx", []byte("garbage"))), api.MergeRequest{})
	require.NoError(t, err)

	_, err = ms.Merge(ctx, nil, api.MergeRequest{})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	ok := attrs(spans[0])
	assert.Equal(t, "MergeService.Merge", spans[0].Name())
	assert.Equal(t, int64(3), ok["sources"].AsInt64())
	assert.Equal(t, int64(2), ok["files"].AsInt64())
	assert.Equal(t, int64(1), ok["skipped"].AsInt64())
	assert.Equal(t, int64(3), ok["rows"].AsInt64())
	assert.Equal(t, int64(2), ok["candidates"].AsInt64())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, int64(0), attrs(spans[1])["sources"].AsInt64())
}
