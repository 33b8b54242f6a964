package evaluation

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"interviewcheck/internal/dataprocessing"
	apperrors "interviewcheck/internal/errors"
	"interviewcheck/internal/exporter"
	"interviewcheck/internal/files"
	"interviewcheck/internal/roster"
	"interviewcheck/pkg/contracts"
	"interviewcheck/pkg/contracts/domain"
)

// LoadStatus tells a caller what Load found on disk.
type LoadStatus int

const (
	// StatusNoPriorFile means there was no result file yet
	StatusNoPriorFile LoadStatus = iota
	// StatusLoaded means the file was read
	StatusLoaded
	// StatusUnreadable means a file exists but its Evaluations sheet could not
	// be read. The table is empty and Err says why.
	StatusUnreadable
)

// String returns the status name used in API responses.
func (s LoadStatus) String() string {
	switch s {
	case StatusNoPriorFile:
		return "no_prior_file"
	case StatusLoaded:
		return "loaded"
	case StatusUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// LoadResult is the outcome of reading a result workbook.
type LoadResult struct {
	Table  *Table
	Status LoadStatus
	Err    error
	// Duplicates counts rows that repeated an earlier key and were folded into it.
	Duplicates int
	// Missing lists expected columns the file did not have.
	Missing []string
}

// ResultPath returns the per-interviewer result file:
// {outputDir}/{baseName without extension}_{interviewer}.xlsx
func ResultPath(outputDir, baseName, interviewer string) string {
	stem := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	return filepath.Join(outputDir, fmt.Sprintf("%s_%s.xlsx", stem, interviewer))
}

// Store reads and writes result workbooks.
type Store struct {
	files  *files.Manager
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a store. A nil logger uses slog.Default.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		files:  files.NewManager(""),
		logger: logger.With(slog.String("component", "evaluation_store")),
		now:    time.Now,
	}
}

// WithClock replaces the clock used for the Meta sheet timestamp.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Load reads the Evaluations sheet of the workbook at path.
func (s *Store) Load(path string) LoadResult {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("No prior result file", slog.String("path", path))
			return LoadResult{Table: NewTable(), Status: StatusNoPriorFile}
		}
		return s.unreadable(path, err)
	}

	sheet, err := dataprocessing.ParseFile(path, SheetEvaluations)
	if err != nil {
		return s.unreadable(path, err)
	}

	res := LoadResult{Status: StatusLoaded}
	for _, col := range Columns {
		if !sheet.HasColumn(col) {
			res.Missing = append(res.Missing, col)
		}
	}
	if len(res.Missing) > 0 {
		s.logger.Debug("Result file missing columns, filled with empty values",
			slog.String("path", path),
			slog.Any("columns", res.Missing))
	}

	res.Table, res.Duplicates = FromRecords(sheet.Records)
	if res.Duplicates > 0 {
		s.logger.Warn("Result file had duplicate evaluation keys; later rows replaced earlier ones",
			slog.String("path", path),
			slog.Int("duplicates", res.Duplicates))
	}

	s.logger.Info("Result file loaded",
		slog.String("path", path),
		slog.Int("rows", res.Table.Len()))
	return res
}

func (s *Store) unreadable(path string, err error) LoadResult {
	readErr := apperrors.NewReadFailure(path, err)
	s.logger.Warn("Result file exists but could not be read",
		slog.String("path", path),
		slog.String("error", err.Error()))
	return LoadResult{Table: NewTable(), Status: StatusUnreadable, Err: readErr}
}

// FromRecords builds a table from decoded rows. A key that repeats keeps its
// first position and takes the last row's values; the count of folded rows is returned.
func FromRecords(records []dataprocessing.Record) (*Table, int) {
	t := NewTable()
	dups := 0
	for _, rec := range records {
		if t.Upsert(Decode(rec)) {
			dups++
		}
	}
	return t, dups
}

// Save overwrites the workbook at path with the table, a snapshot of the
// roster identity columns and a Meta sheet. The file is replaced atomically.
func (s *Store) Save(path string, table *Table, candidates []domain.Candidate) error {
	wb, err := s.buildWorkbook(table, candidates)
	if err != nil {
		return apperrors.NewStorageError("failed to build result workbook", err)
	}
	defer wb.Close()

	err = s.files.WriteAtomic(path, func(w io.Writer) error {
		_, err := wb.WriteTo(w)
		return err
	})
	if err != nil {
		s.logger.Error("Failed to save result file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to save %s", path), err)
	}

	s.logger.Info("Result file saved",
		slog.String("path", path),
		slog.Int("rows", table.Len()))
	return nil
}

func (s *Store) buildWorkbook(table *Table, candidates []domain.Candidate) (*exporter.Workbook, error) {
	wb := exporter.NewWorkbook()

	if err := wb.AddSheet(SheetEvaluations, Columns, encodeRows(table)); err != nil {
		wb.Close()
		return nil, err
	}

	snapshot := make([][]interface{}, 0, len(candidates))
	for _, c := range candidates {
		snapshot = append(snapshot, roster.SnapshotRow(c))
	}
	if err := wb.AddSheet(SheetSnapshot, roster.SnapshotColumns, snapshot); err != nil {
		wb.Close()
		return nil, err
	}

	meta := [][]interface{}{{contracts.Version, s.now().Format(domain.TimestampLayout)}}
	if err := wb.AddSheet(SheetMeta, []string{"app_version", "generated_at"}, meta); err != nil {
		wb.Close()
		return nil, err
	}

	return wb, nil
}

// Export writes a workbook holding only the Evaluations sheet of table.
func Export(w io.Writer, table *Table) error {
	wb := exporter.NewWorkbook()
	defer wb.Close()

	if err := wb.AddSheet(SheetEvaluations, Columns, encodeRows(table)); err != nil {
		return err
	}
	_, err := wb.WriteTo(w)
	return err
}

func encodeRows(table *Table) [][]interface{} {
	rows := make([][]interface{}, 0, table.Len())
	for _, e := range table.Rows() {
		rows = append(rows, Encode(e))
	}
	return rows
}
