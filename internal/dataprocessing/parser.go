package dataprocessing

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned when the requested sheet does not exist in the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// Record is one data row keyed by header name. Cells beyond the end of a short
// row read as the empty string.
type Record map[string]string

// Get returns the trimmed value of column name, or "" when the column is absent.
func (r Record) Get(name string) string {
	return strings.TrimSpace(r[name])
}

// Raw returns the value of column name exactly as stored, for free-text
// columns whose surrounding whitespace is part of the content.
func (r Record) Raw(name string) string {
	return r[name]
}

// Sheet is a parsed worksheet: the header row in column order and its data rows.
type Sheet struct {
	Name    string
	Header  []string
	Records []Record
}

// HasColumn reports whether the header contains name.
func (s *Sheet) HasColumn(name string) bool {
	for _, h := range s.Header {
		if h == name {
			return true
		}
	}
	return false
}

// ParseFile opens the workbook at filePath and parses one sheet.
// An empty sheetName selects the first sheet.
func ParseFile(filePath, sheetName string) (*Sheet, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f, sheetName)
}

// ParseReader parses one sheet of a workbook read from r.
func ParseReader(r io.Reader, sheetName string) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f, sheetName)
}

func parseWorkbook(f *excelize.File, sheetName string) (*Sheet, error) {
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrSheetNotFound
		}
		sheetName = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheetName)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}

	sheet := &Sheet{Name: sheetName}

	// The header is the first row with any content
	headerRow := -1
	for i, row := range rows {
		if !isBlank(row) {
			headerRow = i
			break
		}
	}
	if headerRow == -1 {
		slog.Debug("Sheet has no header row", slog.String("sheet", sheetName))
		return sheet, nil
	}

	for _, h := range rows[headerRow] {
		sheet.Header = append(sheet.Header, strings.TrimSpace(h))
	}

	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}

		rec := make(Record, len(sheet.Header))
		for j, name := range sheet.Header {
			if name == "" {
				continue
			}
			if j < len(row) {
				rec[name] = row[j]
			} else {
				rec[name] = ""
			}
		}
		sheet.Records = append(sheet.Records, rec)
	}

	slog.Debug("Sheet parsed",
		slog.String("sheet", sheetName),
		slog.Int("columns", len(sheet.Header)),
		slog.Int("records", len(sheet.Records)))

	return sheet, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
