package merge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"interviewcheck/internal/dataprocessing"
	apperrors "interviewcheck/internal/errors"
	"interviewcheck/internal/evaluation"
)

// maxConcurrentReads bounds how many workbooks are parsed at once.
const maxConcurrentReads = 4

// Source is one evaluation workbook to merge, on disk or uploaded.
type Source struct {
	// Name is recorded in the source_file column and in warnings.
	Name string
	Open func() (io.ReadCloser, error)
}

// FromPath returns a source reading the workbook at path. Its name is the base name.
func FromPath(path string) Source {
	return Source{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// FromBytes returns a source over an in-memory workbook, such as an upload.
func FromBytes(name string, data []byte) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Table is the Evaluations sheet of one readable source.
type Table struct {
	Source  string
	Records []dataprocessing.Record
}

// Skipped names a source that could not be read.
type Skipped struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// ReadResult holds the readable tables in input order and the skipped sources.
type ReadResult struct {
	Tables  []Table
	Skipped []Skipped
}

// ReadTables reads the Evaluations sheet of every source. Unreadable sources
// are skipped with a warning. When nothing could be read the result is a
// NoInput error.
func ReadTables(ctx context.Context, sources []Source, logger *slog.Logger) (*ReadResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "merge"))

	if len(sources) == 0 {
		return nil, apperrors.NewNoInputError("no input files")
	}

	tables := make([]*Table, len(sources))
	reasons := make([]error, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := readSource(src)
			if err != nil {
				reasons[i] = err
				return nil
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &ReadResult{}
	for i, src := range sources {
		if reasons[i] != nil {
			logger.Warn("Skipping unreadable evaluation file",
				slog.String("source", src.Name),
				slog.String("error", reasons[i].Error()))
			res.Skipped = append(res.Skipped, Skipped{Source: src.Name, Reason: reasons[i].Error()})
			continue
		}
		res.Tables = append(res.Tables, *tables[i])
	}

	if len(res.Tables) == 0 {
		return res, apperrors.NewNoInputError(
			fmt.Sprintf("no readable %s sheet in %d file(s)", evaluation.SheetEvaluations, len(sources)))
	}

	logger.Info("Evaluation files read",
		slog.Int("read", len(res.Tables)),
		slog.Int("skipped", len(res.Skipped)))
	return res, nil
}

func readSource(src Source) (*Table, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	sheet, err := dataprocessing.ParseReader(rc, evaluation.SheetEvaluations)
	if err != nil {
		return nil, err
	}
	return &Table{Source: src.Name, Records: sheet.Records}, nil
}
