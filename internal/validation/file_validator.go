package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileValidator provides the file checks shared by the web server and the merge CLI
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Warn("File does not exist", slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExcelFile checks that path is an existing, readable .xlsx workbook
// that is not an Office lock file.
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := v.ValidateExcelName(path); err != nil {
		return err
	}
	return v.ValidateFile(path)
}

// ValidateExcelName checks the name of a workbook without touching the disk.
// Uploaded files are checked this way before they are parsed.
func (v *FileValidator) ValidateExcelName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".xlsx" {
		v.logger.Warn("File is not an xlsx workbook",
			slog.String("file", name),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not an xlsx workbook (extension: %s)", name, ext)
	}

	if strings.HasPrefix(filepath.Base(name), "~$") {
		v.logger.Warn("Skipping temporary Excel file", slog.String("file", name))
		return fmt.Errorf("file %s is a temporary Excel file", name)
	}

	return nil
}

// ValidateInterviewerName rejects names that cannot be embedded in a result file name.
func (v *FileValidator) ValidateInterviewerName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("interviewer name is required")
	}
	if trimmed != name {
		return fmt.Errorf("interviewer name has leading or trailing spaces")
	}
	if strings.ContainsAny(name, `/\:*?"<>|`) || name == "." || name == ".." {
		return fmt.Errorf("interviewer name %q contains characters not allowed in file names", name)
	}
	if len(name) > 64 {
		return fmt.Errorf("interviewer name is longer than 64 bytes")
	}
	return nil
}
