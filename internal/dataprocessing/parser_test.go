package dataprocessing

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves a single-sheet workbook built from rows.
func writeWorkbook(t *testing.T, sheetName string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheetName))

	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheetName, cell, val))
		}
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseFile(t *testing.T) {
	path := writeWorkbook(t, "Roster", [][]interface{}{
		{"이름", "학번", "분류"},
		{"Kim", "260001", "A"},
		{"", "", ""},
		{"Lee", "250002"},
	})

	sheet, err := ParseFile(path, "")
	require.NoError(t, err)

	assert.Equal(t, "Roster", sheet.Name)
	assert.Equal(t, []string{"이름", "학번", "분류"}, sheet.Header)
	require.Len(t, sheet.Records, 2, "blank rows are skipped")

	assert.Equal(t, "Kim", sheet.Records[0].Get("이름"))
	assert.Equal(t, "A", sheet.Records[0].Get("분류"))
	assert.Equal(t, "", sheet.Records[1].Get("분류"), "short row reads as empty")
	assert.Equal(t, "", sheet.Records[1].Get("missing"))
	assert.True(t, sheet.HasColumn("학번"))
	assert.False(t, sheet.HasColumn("이메일"))
}

func TestRecord_Raw(t *testing.T) {
	path := writeWorkbook(t, "Evaluations", [][]interface{}{
		{"candidate_id", "memo_summary"},
		{" 260001_Kim ", "  first line\n- second\n"},
	})

	sheet, err := ParseFile(path, "Evaluations")
	require.NoError(t, err)
	require.Len(t, sheet.Records, 1)

	rec := sheet.Records[0]
	assert.Equal(t, "260001_Kim", rec.Get("candidate_id"))
	assert.Equal(t, "first line\n- second", rec.Get("memo_summary"))
	assert.Equal(t, "  first line\n- second\n", rec.Raw("memo_summary"))
	assert.Equal(t, "", rec.Raw("missing"))
}

func TestParseFile_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Evaluations", [][]interface{}{
		{"interviewer", "candidate_id"},
		{"alice", "260001_Kim"},
	})

	sheet, err := ParseFile(path, "Evaluations")
	require.NoError(t, err)
	require.Len(t, sheet.Records, 1)
	assert.Equal(t, "alice", sheet.Records[0].Get("interviewer"))

	_, err = ParseFile(path, "Summary")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSheetNotFound))
}

func TestParseFile_EmptySheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", nil)

	sheet, err := ParseFile(path, "")
	require.NoError(t, err)
	assert.Empty(t, sheet.Header)
	assert.Empty(t, sheet.Records)
}

func TestParseFile_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.xlsx")
	_, err := ParseFile(path, "")
	assert.Error(t, err)
}

func TestParseReader(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "name"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Park"))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	sheet, err := ParseReader(&buf, "")
	require.NoError(t, err)
	require.Len(t, sheet.Records, 1)
	assert.Equal(t, "Park", sheet.Records[0].Get("name"))

	_, err = ParseReader(bytes.NewReader([]byte("not a zip")), "")
	assert.Error(t, err)
}
