package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// Workbook builds an xlsx file one named sheet at a time.
type Workbook struct {
	file   *excelize.File
	sheets []string
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{file: excelize.NewFile()}
}

// AddSheet appends a sheet with a header row followed by rows.
// Rows shorter than the header leave the remaining cells empty.
func (w *Workbook) AddSheet(name string, headers []string, rows [][]interface{}) error {
	if len(w.sheets) == 0 {
		// excelize starts every file with a default sheet; reuse it
		if err := w.file.SetSheetName(w.file.GetSheetName(0), name); err != nil {
			return fmt.Errorf("failed to name sheet %s: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	sw, err := w.file.NewStreamWriter(name)
	if err != nil {
		return fmt.Errorf("failed to open stream writer for %s: %w", name, err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", name, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, name, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet %s: %w", name, err)
	}

	w.sheets = append(w.sheets, name)
	slog.Debug("Sheet written", slog.String("sheet", name), slog.Int("rows", len(rows)))
	return nil
}

// Sheets returns the sheet names added so far.
func (w *Workbook) Sheets() []string {
	return w.sheets
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteTo writes the workbook to out.
func (w *Workbook) WriteTo(out io.Writer) (int64, error) {
	n, err := w.file.WriteTo(out)
	if err != nil {
		return n, fmt.Errorf("failed to write workbook: %w", err)
	}
	return n, nil
}

// Close releases the workbook's temporary resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}
