package services

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "interviewcheck/internal/errors"
	"interviewcheck/internal/files"
	"interviewcheck/internal/infrastructure"
	"interviewcheck/internal/merge"
	api "interviewcheck/pkg/contracts/api/v1"
	"interviewcheck/pkg/contracts/domain"
)

// Export kinds accepted by MergeService.Export
const (
	ExportFull    = "full"
	ExportSummary = "summary"
)

// MergeResult is the JSON answer of a merge.
type MergeResult struct {
	Files   []string            `json:"files"`
	Rows    int                 `json:"rows"`
	Skipped []merge.Skipped     `json:"skipped"`
	Summary []domain.SummaryRow `json:"summary"`

	combined []merge.Row
}

// MergeService combines evaluation workbooks into a ranked summary.
// Every call recomputes from its inputs; nothing is cached.
type MergeService struct {
	discovery      *files.Discovery
	outputDir      string
	resultFilename string
	metrics        *infrastructure.Metrics
	logger         *slog.Logger
	tracer         trace.Tracer
}

// NewMergeService creates the service. outputDir and resultFilename locate the
// result files ResultSources picks up; metrics may be nil.
func NewMergeService(outputDir, resultFilename string, metrics *infrastructure.Metrics, logger *slog.Logger) *MergeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MergeService{
		discovery:      files.NewDiscovery(""),
		outputDir:      outputDir,
		resultFilename: resultFilename,
		metrics:        metrics,
		logger:         logger.With(slog.String("component", "merge_service")),
		tracer:         infrastructure.Tracer(),
	}
}

// MergeOptions converts the request options. The request is assumed validated.
func MergeOptions(req api.MergeRequest) (merge.Options, error) {
	field, err := merge.ParseSortField(req.SortBy)
	if err != nil {
		return merge.Options{}, apperrors.NewAppValidationError(err.Error()).WithContext("field", "sort_by")
	}

	opts := merge.Options{SortBy: field, Ascending: req.Ascending}
	for _, code := range req.Only {
		opts.Only = append(opts.Only, domain.Recommendation(code))
	}
	return opts, nil
}

// Merge reads the sources and summarizes them.
func (s *MergeService) Merge(ctx context.Context, sources []merge.Source, req api.MergeRequest) (_ *MergeResult, err error) {
	ctx, span := s.tracer.Start(ctx, "MergeService.Merge", trace.WithAttributes(
		attribute.Int("sources", len(sources)),
		attribute.String("sort_by", req.SortBy),
	))
	defer func() {
		infrastructure.RecordError(span, err)
		span.End()
	}()

	opts, err := MergeOptions(req)
	if err != nil {
		return nil, err
	}

	read, err := merge.ReadTables(ctx, sources, s.logger)
	s.record(read, err)
	if err != nil {
		s.logger.WarnContext(ctx, "Merge failed",
			slog.Int("sources", len(sources)),
			slog.String("error", err.Error()))
		if apperrors.IsType(err, apperrors.ErrTypeNoInput) {
			skipped := []merge.Skipped{}
			if read != nil && read.Skipped != nil {
				skipped = read.Skipped
			}
			return nil, apperrors.ErrNoMergeInput.WithDetails(map[string]interface{}{"skipped": skipped})
		}
		return nil, err
	}

	rows := merge.Combine(read.Tables)
	res := &MergeResult{
		Rows:     len(rows),
		Skipped:  read.Skipped,
		Summary:  merge.Summarize(rows, opts),
		combined: rows,
	}
	for _, t := range read.Tables {
		res.Files = append(res.Files, t.Source)
	}
	if res.Skipped == nil {
		res.Skipped = []merge.Skipped{}
	}

	span.SetAttributes(
		attribute.Int("files", len(res.Files)),
		attribute.Int("skipped", len(res.Skipped)),
		attribute.Int("rows", res.Rows),
		attribute.Int("candidates", len(res.Summary)),
	)
	s.logger.InfoContext(ctx, "Merge completed",
		slog.Int("files", len(res.Files)),
		slog.Int("skipped", len(res.Skipped)),
		slog.Int("rows", res.Rows),
		slog.Int("candidates", len(res.Summary)))
	return res, nil
}

// Export merges the sources and writes the workbook of the requested kind:
// merged rows plus summary, or the summary alone.
func (s *MergeService) Export(ctx context.Context, sources []merge.Source, req api.MergeRequest, w io.Writer) error {
	res, err := s.Merge(ctx, sources, req)
	if err != nil {
		return err
	}

	if req.Kind == ExportSummary {
		return merge.WriteSummaryOnly(w, res.Summary)
	}
	return merge.WriteExport(w, res.combined, res.Summary)
}

// ResultSources lists the result workbooks in the output directory.
func (s *MergeService) ResultSources(ctx context.Context) ([]merge.Source, error) {
	found, err := s.discovery.FindResultFiles(s.outputDir, s.resultFilename)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list result files", err)
	}

	sources := make([]merge.Source, 0, len(found))
	for _, f := range found {
		sources = append(sources, merge.FromPath(f.Path))
	}
	s.logger.DebugContext(ctx, "Result files discovered",
		slog.String("dir", s.outputDir),
		slog.Int("count", len(sources)))
	return sources, nil
}

func (s *MergeService) record(read *merge.ReadResult, err error) {
	if s.metrics == nil {
		return
	}
	if read != nil {
		s.metrics.MergeFilesRead.Add(float64(len(read.Tables)))
		s.metrics.MergeFilesSkipped.Add(float64(len(read.Skipped)))
	}
	switch {
	case err == nil:
		s.metrics.MergeRuns.WithLabelValues("ok").Inc()
	case apperrors.IsType(err, apperrors.ErrTypeNoInput):
		s.metrics.MergeRuns.WithLabelValues("no_input").Inc()
	default:
		s.metrics.MergeRuns.WithLabelValues("error").Inc()
	}
}
