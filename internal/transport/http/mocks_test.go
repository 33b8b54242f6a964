package http

import (
	"context"
	"io"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/mock"

	apierrors "interviewcheck/internal/errors"
	"interviewcheck/internal/merge"
	appmiddleware "interviewcheck/internal/middleware"
	"interviewcheck/internal/services"
	"interviewcheck/internal/session"
	"interviewcheck/internal/shared/testutil"
	api "interviewcheck/pkg/contracts/api/v1"
	"interviewcheck/pkg/contracts/domain"
	"interviewcheck/pkg/contracts/events"
)

// MockInterviewService implements InterviewService for testing
type MockInterviewService struct {
	mock.Mock
}

func (m *MockInterviewService) Roster(ctx context.Context, req api.RosterListRequest) []services.RosterEntry {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]services.RosterEntry)
}

func (m *MockInterviewService) Candidate(ctx context.Context, candidateID string) (domain.Candidate, error) {
	args := m.Called(ctx, candidateID)
	return args.Get(0).(domain.Candidate), args.Error(1)
}

func (m *MockInterviewService) Evaluations(ctx context.Context, interviewer string) (*services.EvaluationTable, error) {
	args := m.Called(ctx, interviewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.EvaluationTable), args.Error(1)
}

func (m *MockInterviewService) Evaluation(ctx context.Context, interviewer, candidateID string) (domain.Evaluation, error) {
	args := m.Called(ctx, interviewer, candidateID)
	return args.Get(0).(domain.Evaluation), args.Error(1)
}

func (m *MockInterviewService) SaveEvaluation(ctx context.Context, interviewer, candidateID string, req api.EvaluationRequest) (domain.Evaluation, error) {
	args := m.Called(ctx, interviewer, candidateID, req)
	return args.Get(0).(domain.Evaluation), args.Error(1)
}

func (m *MockInterviewService) RequestDelete(ctx context.Context, interviewer, candidateID string) (session.Confirmation, error) {
	args := m.Called(ctx, interviewer, candidateID)
	return args.Get(0).(session.Confirmation), args.Error(1)
}

func (m *MockInterviewService) ConfirmDelete(ctx context.Context, interviewer, candidateID, token string) error {
	args := m.Called(ctx, interviewer, candidateID, token)
	return args.Error(0)
}

func (m *MockInterviewService) Progress(ctx context.Context, interviewer string) (services.Progress, error) {
	args := m.Called(ctx, interviewer)
	return args.Get(0).(services.Progress), args.Error(1)
}

func (m *MockInterviewService) Export(ctx context.Context, interviewer string, w io.Writer) error {
	args := m.Called(ctx, interviewer, w)
	return args.Error(0)
}

func (m *MockInterviewService) ExportFilename(interviewer string) string {
	args := m.Called(interviewer)
	return args.String(0)
}

func (m *MockInterviewService) Timer(ctx context.Context, interviewer, candidateID string) (events.TimerSnapshot, error) {
	args := m.Called(ctx, interviewer, candidateID)
	return args.Get(0).(events.TimerSnapshot), args.Error(1)
}

func (m *MockInterviewService) StartTimer(ctx context.Context, interviewer, candidateID string, minutes int) (events.TimerSnapshot, error) {
	args := m.Called(ctx, interviewer, candidateID, minutes)
	return args.Get(0).(events.TimerSnapshot), args.Error(1)
}

func (m *MockInterviewService) PauseTimer(ctx context.Context, interviewer, candidateID string) (events.TimerSnapshot, error) {
	args := m.Called(ctx, interviewer, candidateID)
	return args.Get(0).(events.TimerSnapshot), args.Error(1)
}

func (m *MockInterviewService) ResetTimer(ctx context.Context, interviewer, candidateID string) (events.TimerSnapshot, error) {
	args := m.Called(ctx, interviewer, candidateID)
	return args.Get(0).(events.TimerSnapshot), args.Error(1)
}

// MockMergeService implements MergeService for testing
type MockMergeService struct {
	mock.Mock
}

func (m *MockMergeService) Merge(ctx context.Context, sources []merge.Source, req api.MergeRequest) (*services.MergeResult, error) {
	args := m.Called(ctx, sources, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.MergeResult), args.Error(1)
}

func (m *MockMergeService) Export(ctx context.Context, sources []merge.Source, req api.MergeRequest, w io.Writer) error {
	args := m.Called(ctx, sources, req, w)
	return args.Error(0)
}

func (m *MockMergeService) ResultSources(ctx context.Context) ([]merge.Source, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]merge.Source), args.Error(1)
}

// MockHealthService implements HealthService for testing
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}

// handlerDeps bundles the shared collaborators every handler takes
type handlerDeps struct {
	validator    *appmiddleware.ValidationMiddleware
	errorHandler *apierrors.ErrorHandler
}

func newHandlerDeps(t *testing.T) handlerDeps {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	return handlerDeps{
		validator:    appmiddleware.NewValidationMiddleware(logger, errorHandler),
		errorHandler: errorHandler,
	}
}

// mountAt returns a router serving h under prefix, with request ids
func mountAt(prefix string, h chi.Router) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Mount(prefix, h)
	return r
}
