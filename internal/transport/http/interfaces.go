package http

import (
	"context"
	"io"

	"interviewcheck/internal/merge"
	"interviewcheck/internal/services"
	"interviewcheck/internal/session"
	api "interviewcheck/pkg/contracts/api/v1"
	"interviewcheck/pkg/contracts/domain"
	"interviewcheck/pkg/contracts/events"
)

// InterviewService is the scoring workflow the interviewer and roster handlers drive
type InterviewService interface {
	Roster(ctx context.Context, req api.RosterListRequest) []services.RosterEntry
	Candidate(ctx context.Context, candidateID string) (domain.Candidate, error)

	Evaluations(ctx context.Context, interviewer string) (*services.EvaluationTable, error)
	Evaluation(ctx context.Context, interviewer, candidateID string) (domain.Evaluation, error)
	SaveEvaluation(ctx context.Context, interviewer, candidateID string, req api.EvaluationRequest) (domain.Evaluation, error)
	RequestDelete(ctx context.Context, interviewer, candidateID string) (session.Confirmation, error)
	ConfirmDelete(ctx context.Context, interviewer, candidateID, token string) error
	Progress(ctx context.Context, interviewer string) (services.Progress, error)
	Export(ctx context.Context, interviewer string, w io.Writer) error
	ExportFilename(interviewer string) string

	Timer(ctx context.Context, interviewer, candidateID string) (events.TimerSnapshot, error)
	StartTimer(ctx context.Context, interviewer, candidateID string, minutes int) (events.TimerSnapshot, error)
	PauseTimer(ctx context.Context, interviewer, candidateID string) (events.TimerSnapshot, error)
	ResetTimer(ctx context.Context, interviewer, candidateID string) (events.TimerSnapshot, error)
}

// MergeService merges evaluation workbooks
type MergeService interface {
	Merge(ctx context.Context, sources []merge.Source, req api.MergeRequest) (*services.MergeResult, error)
	Export(ctx context.Context, sources []merge.Source, req api.MergeRequest, w io.Writer) error
	ResultSources(ctx context.Context) ([]merge.Source, error)
}

// HealthService reports service health
type HealthService interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
