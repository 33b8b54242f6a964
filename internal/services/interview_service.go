package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"interviewcheck/internal/config"
	apperrors "interviewcheck/internal/errors"
	"interviewcheck/internal/evaluation"
	"interviewcheck/internal/infrastructure"
	"interviewcheck/internal/roster"
	"interviewcheck/internal/session"
	"interviewcheck/internal/validation"
	"interviewcheck/pkg/contracts"
	api "interviewcheck/pkg/contracts/api/v1"
	"interviewcheck/pkg/contracts/domain"
	"interviewcheck/pkg/contracts/events"
)

// InterviewSettings are the file locations and session lengths the service works with.
type InterviewSettings struct {
	OutputDir      string
	ResultFilename string
	TimerLength    time.Duration
	ConfirmTTL     time.Duration
}

// RosterEntry is one line of the candidate picker.
type RosterEntry struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	StudentID   string `json:"student_id"`
	Mark        string `json:"mark"`
	Category    string `json:"category"`
	Level       string `json:"level"`
	Label       string `json:"label"`
}

// EvaluationTable is an interviewer's result file as the API returns it.
type EvaluationTable struct {
	Interviewer string              `json:"interviewer"`
	File        string              `json:"file"`
	Status      string              `json:"status"`
	Warning     string              `json:"warning,omitempty"`
	Rows        []domain.Evaluation `json:"rows"`
}

// Progress counts how many roster candidates an interviewer has scored.
type Progress struct {
	Interviewer string `json:"interviewer"`
	Done        int    `json:"done"`
	Total       int    `json:"total"`
}

// InterviewService implements the scoring workflow: candidate lookup,
// per-interviewer result files, countdown timers and confirmed deletes.
type InterviewService struct {
	roster    *roster.Roster
	store     *evaluation.Store
	timers    *session.Timers
	confirms  *session.Confirmations
	metrics   *infrastructure.Metrics
	validator *validation.FileValidator
	settings  InterviewSettings
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewInterviewService wires the service. metrics may be nil.
func NewInterviewService(r *roster.Roster, store *evaluation.Store, settings InterviewSettings, metrics *infrastructure.Metrics, logger *slog.Logger) *InterviewService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "interview_service"))

	s := &InterviewService{
		roster:    r,
		store:     store,
		timers:    session.NewTimers(nil),
		confirms:  session.NewConfirmations(settings.ConfirmTTL, nil),
		metrics:   metrics,
		validator: validation.NewFileValidator(logger),
		settings:  settings,
		logger:    logger,
		tracer:    infrastructure.Tracer(),
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
	if metrics != nil {
		s.timers.OnRunningChanged = func(n int) { metrics.TimersActive.Set(float64(n)) }
		metrics.TrackPendingDeletes(func() int { return s.confirms.Pending() })
	}

	logger.Info("InterviewService initialized",
		slog.Int("candidates", r.Len()),
		slog.String("output_dir", settings.OutputDir),
		slog.String("result_filename", settings.ResultFilename))
	return s
}

// WithClock replaces the clock used for timestamps, timers and confirmations.
func (s *InterviewService) WithClock(now func() time.Time) *InterviewService {
	s.now = now
	running := s.timers.OnRunningChanged
	s.timers = session.NewTimers(now)
	s.timers.OnRunningChanged = running
	s.confirms = session.NewConfirmations(s.settings.ConfirmTTL, now)
	return s
}

// Roster lists candidates matching the request, sorted for the picker.
func (s *InterviewService) Roster(ctx context.Context, req api.RosterListRequest) []RosterEntry {
	list := s.roster.View(roster.ViewOptions{Query: req.Query, PinOlder: req.PinOlder})
	out := make([]RosterEntry, 0, len(list))
	for _, c := range list {
		out = append(out, RosterEntry{
			CandidateID: c.ID,
			Name:        c.Name,
			StudentID:   c.StudentID,
			Mark:        c.Mark,
			Category:    c.Category,
			Level:       c.Level,
			Label:       roster.Label(c),
		})
	}

	s.logger.DebugContext(ctx, "Roster listed",
		slog.String("query", req.Query),
		slog.Bool("pin_older", req.PinOlder),
		slog.Int("count", len(out)))
	return out
}

// Candidate returns one candidate with answers and questions.
func (s *InterviewService) Candidate(ctx context.Context, candidateID string) (domain.Candidate, error) {
	c, ok := s.roster.Find(candidateID)
	if !ok {
		return domain.Candidate{}, apperrors.ErrCandidateNotFound.
			WithDetails(map[string]string{"candidate_id": candidateID})
	}
	return c, nil
}

// Evaluations reads the interviewer's result file. An unreadable file is not
// an error here: it comes back empty with the reason in Warning.
func (s *InterviewService) Evaluations(ctx context.Context, interviewer string) (*EvaluationTable, error) {
	if err := s.checkInterviewer(interviewer); err != nil {
		return nil, err
	}

	path := s.resultPath(interviewer)
	res := s.store.Load(path)

	out := &EvaluationTable{
		Interviewer: interviewer,
		File:        path,
		Status:      res.Status.String(),
		Rows:        res.Table.Rows(),
	}
	if res.Err != nil {
		out.Warning = res.Err.Error()
	}
	return out, nil
}

// Evaluation returns the saved row for one candidate.
func (s *InterviewService) Evaluation(ctx context.Context, interviewer, candidateID string) (domain.Evaluation, error) {
	if err := s.checkInterviewer(interviewer); err != nil {
		return domain.Evaluation{}, err
	}

	res := s.store.Load(s.resultPath(interviewer))
	if res.Status == evaluation.StatusUnreadable {
		return domain.Evaluation{}, res.Err
	}

	e, ok := res.Table.Get(interviewer, candidateID)
	if !ok {
		return domain.Evaluation{}, apperrors.ErrEvaluationNotFound.
			WithDetails(map[string]string{"interviewer": interviewer, "candidate_id": candidateID})
	}
	return e, nil
}

// SaveEvaluation upserts the interviewer's evaluation of a candidate and
// rewrites the result file.
func (s *InterviewService) SaveEvaluation(ctx context.Context, interviewer, candidateID string, req api.EvaluationRequest) (_ domain.Evaluation, err error) {
	ctx, span := s.tracer.Start(ctx, "InterviewService.SaveEvaluation", trace.WithAttributes(
		attribute.String("interviewer", interviewer),
		attribute.String("candidate_id", candidateID),
	))
	defer func() {
		infrastructure.RecordError(span, err)
		span.End()
	}()

	if err := s.checkInterviewer(interviewer); err != nil {
		return domain.Evaluation{}, err
	}
	c, err := s.Candidate(ctx, candidateID)
	if err != nil {
		return domain.Evaluation{}, err
	}

	e := domain.Evaluation{
		Timestamp:      s.now().Format(domain.TimestampLayout),
		AppVersion:     contracts.Version,
		Interviewer:    interviewer,
		CandidateID:    c.ID,
		Name:           c.Name,
		StudentID:      c.StudentID,
		Mark:           c.Mark,
		Category:       c.Category,
		Level:          c.Level,
		Scores:         req.Scores,
		Overall:        evaluation.Overall(req.OverallManual, req.Scores),
		Flags:          req.Flags,
		Memos:          req.Memos,
		Recommendation: domain.ParseRecommendation(req.Recommendation),
	}

	err = s.update(ctx, interviewer, func(t *evaluation.Table) {
		t.Upsert(e)
	})
	if err != nil {
		return domain.Evaluation{}, err
	}

	if s.metrics != nil {
		s.metrics.EvaluationsSaved.WithLabelValues(interviewer).Inc()
	}
	s.logger.InfoContext(ctx, "Evaluation saved",
		slog.String("interviewer", interviewer),
		slog.String("candidate_id", c.ID),
		slog.Float64("overall", e.Overall),
		slog.String("recommendation", string(e.Recommendation)))
	span.SetAttributes(
		attribute.Float64("overall", e.Overall),
		attribute.String("recommendation", string(e.Recommendation)),
	)
	return e, nil
}

// RequestDelete issues the confirmation token a delete must present.
func (s *InterviewService) RequestDelete(ctx context.Context, interviewer, candidateID string) (session.Confirmation, error) {
	if _, err := s.Evaluation(ctx, interviewer, candidateID); err != nil {
		return session.Confirmation{}, err
	}

	conf := s.confirms.Request(domain.EvaluationKey{Interviewer: interviewer, CandidateID: candidateID})
	s.logger.InfoContext(ctx, "Delete confirmation requested",
		slog.String("interviewer", interviewer),
		slog.String("candidate_id", candidateID),
		slog.Time("expires_at", conf.ExpiresAt))
	return conf, nil
}

// ConfirmDelete removes the evaluation when token matches a pending request
// for the same row, then rewrites the result file.
func (s *InterviewService) ConfirmDelete(ctx context.Context, interviewer, candidateID, token string) error {
	if err := s.checkInterviewer(interviewer); err != nil {
		return err
	}

	key := domain.EvaluationKey{Interviewer: interviewer, CandidateID: candidateID}
	if !s.confirms.Confirm(token, key) {
		return apperrors.ErrConfirmationStale
	}

	deleted := false
	err := s.update(ctx, interviewer, func(t *evaluation.Table) {
		deleted = t.Delete(interviewer, candidateID)
	})
	if err != nil {
		return err
	}

	if deleted && s.metrics != nil {
		s.metrics.EvaluationsDeleted.WithLabelValues(interviewer).Inc()
	}
	s.logger.InfoContext(ctx, "Evaluation deleted",
		slog.String("interviewer", interviewer),
		slog.String("candidate_id", candidateID),
		slog.Bool("existed", deleted))
	return nil
}

// Progress returns done / total for the interviewer.
func (s *InterviewService) Progress(ctx context.Context, interviewer string) (Progress, error) {
	if err := s.checkInterviewer(interviewer); err != nil {
		return Progress{}, err
	}

	res := s.store.Load(s.resultPath(interviewer))
	return Progress{
		Interviewer: interviewer,
		Done:        res.Table.CompletedCount(interviewer),
		Total:       s.roster.Len(),
	}, nil
}

// Export writes the interviewer's Evaluations sheet as a standalone workbook.
func (s *InterviewService) Export(ctx context.Context, interviewer string, w io.Writer) error {
	if err := s.checkInterviewer(interviewer); err != nil {
		return err
	}

	res := s.store.Load(s.resultPath(interviewer))
	if res.Status == evaluation.StatusUnreadable {
		return res.Err
	}
	return evaluation.Export(w, res.Table)
}

// ExportFilename is the download name of an interviewer's export.
func (s *InterviewService) ExportFilename(interviewer string) string {
	return fmt.Sprintf("evaluations_%s.xlsx", interviewer)
}

// Timer returns the countdown state of an interview.
func (s *InterviewService) Timer(ctx context.Context, interviewer, candidateID string) (events.TimerSnapshot, error) {
	key, err := s.timerKey(ctx, interviewer, candidateID)
	if err != nil {
		return events.TimerSnapshot{}, err
	}
	return s.timers.Snapshot(key, s.settings.TimerLength), nil
}

// StartTimer starts or resumes the countdown. A non-zero minutes sets the
// length of a timer that has not run yet; a paused timer keeps its length.
func (s *InterviewService) StartTimer(ctx context.Context, interviewer, candidateID string, minutes int) (events.TimerSnapshot, error) {
	if minutes != 0 && (minutes < config.MinTimerMinutes || minutes > config.MaxTimerMinutes) {
		return events.TimerSnapshot{}, apperrors.NewAppValidationError(
			fmt.Sprintf("minutes must be between %d and %d", config.MinTimerMinutes, config.MaxTimerMinutes),
		).WithContext("field", "minutes")
	}
	key, err := s.timerKey(ctx, interviewer, candidateID)
	if err != nil {
		return events.TimerSnapshot{}, err
	}

	length := s.settings.TimerLength
	if minutes != 0 {
		length = time.Duration(minutes) * time.Minute
	}
	snap := s.timers.Start(key, length)
	s.logger.DebugContext(ctx, "Timer started",
		slog.String("interviewer", interviewer),
		slog.String("candidate_id", candidateID),
		slog.Int("total_seconds", snap.TotalSeconds),
		slog.Int("remaining_seconds", snap.RemainingSeconds))
	return snap, nil
}

// PauseTimer pauses the countdown.
func (s *InterviewService) PauseTimer(ctx context.Context, interviewer, candidateID string) (events.TimerSnapshot, error) {
	key, err := s.timerKey(ctx, interviewer, candidateID)
	if err != nil {
		return events.TimerSnapshot{}, err
	}
	return s.timers.Pause(key, s.settings.TimerLength), nil
}

// ResetTimer stops the countdown and rewinds it to the full length.
func (s *InterviewService) ResetTimer(ctx context.Context, interviewer, candidateID string) (events.TimerSnapshot, error) {
	key, err := s.timerKey(ctx, interviewer, candidateID)
	if err != nil {
		return events.TimerSnapshot{}, err
	}
	return s.timers.Reset(key, s.settings.TimerLength), nil
}

func (s *InterviewService) timerKey(ctx context.Context, interviewer, candidateID string) (domain.EvaluationKey, error) {
	if err := s.checkInterviewer(interviewer); err != nil {
		return domain.EvaluationKey{}, err
	}
	if _, err := s.Candidate(ctx, candidateID); err != nil {
		return domain.EvaluationKey{}, err
	}
	return domain.EvaluationKey{Interviewer: interviewer, CandidateID: candidateID}, nil
}

// update applies change to the freshly loaded table and saves it, holding the
// lock for the result file. A result file that exists but cannot be read is
// never overwritten.
func (s *InterviewService) update(ctx context.Context, interviewer string, change func(t *evaluation.Table)) (err error) {
	path := s.resultPath(interviewer)
	ctx, span := s.tracer.Start(ctx, "InterviewService.update", trace.WithAttributes(
		attribute.String("interviewer", interviewer),
		attribute.String("file", path),
	))
	defer func() {
		infrastructure.RecordError(span, err)
		span.End()
	}()

	unlock := s.lock(path)
	defer unlock()

	res := s.store.Load(path)
	if res.Status == evaluation.StatusUnreadable {
		s.logger.WarnContext(ctx, "Refusing to overwrite unreadable result file",
			slog.String("path", path))
		return apperrors.NewConflictError("existing result file could not be read; fix or move it before saving", res.Err).
			WithContext("file", path)
	}

	change(res.Table)
	span.SetAttributes(attribute.Int("rows", res.Table.Len()))

	if err := s.store.Save(path, res.Table, s.roster.Candidates()); err != nil {
		if s.metrics != nil {
			s.metrics.SaveFailures.Inc()
		}
		return err
	}
	return nil
}

func (s *InterviewService) lock(path string) func() {
	s.mu.Lock()
	l, ok := s.locks[path]
	if !ok {
		l = &sync.Mutex{}
		s.locks[path] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *InterviewService) checkInterviewer(name string) error {
	if err := s.validator.ValidateInterviewerName(name); err != nil {
		return apperrors.NewAppValidationError(err.Error()).WithContext("field", "interviewer")
	}
	return nil
}

func (s *InterviewService) resultPath(interviewer string) string {
	return evaluation.ResultPath(s.settings.OutputDir, s.settings.ResultFilename, interviewer)
}
