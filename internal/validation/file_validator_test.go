package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewcheck/internal/shared/testutil"
)

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	dir := filepath.Join(t.TempDir(), "outputs", "nested")
	require.NoError(t, v.ValidateOutputDirectory(dir))
	assert.DirExists(t, dir)
	assert.NoFileExists(t, filepath.Join(dir, ".write_test"))

	// A file in the way of the directory
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	assert.Error(t, v.ValidateOutputDirectory(filepath.Join(blocker, "sub")))
}

func TestFileValidator_ValidateExcelFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ok.xlsx", "~$ok.xlsx", "legacy.xls", "data.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	tests := []struct {
		name    string
		file    string
		wantErr string
	}{
		{name: "valid workbook", file: "ok.xlsx"},
		{name: "lock file", file: "~$ok.xlsx", wantErr: "temporary"},
		{name: "legacy xls", file: "legacy.xls", wantErr: "not an xlsx"},
		{name: "csv", file: "data.csv", wantErr: "not an xlsx"},
		{name: "missing", file: "missing.xlsx", wantErr: "does not exist"},
	}

	v := NewFileValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateExcelFile(filepath.Join(dir, tt.file))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFileValidator_ValidateExcelFile_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "folder.xlsx")
	require.NoError(t, os.Mkdir(dir, 0755))

	err := NewFileValidator(nil).ValidateExcelFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestFileValidator_ValidateInterviewerName(t *testing.T) {
	v := NewFileValidator(nil)

	assert.NoError(t, v.ValidateInterviewerName("alice"))
	assert.NoError(t, v.ValidateInterviewerName("김면접"))

	for _, bad := range []string{"", "  ", " alice", "a/b", `a\b`, "..", "a:b", strings.Repeat("x", 65)} {
		assert.Error(t, v.ValidateInterviewerName(bad), "name %q", bad)
	}
}
