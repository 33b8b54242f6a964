package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved file locations of one running instance.
// Relative settings are resolved against BaseDir, which is the working
// directory the tool was started from.
type Paths struct {
	BaseDir    string
	RosterFile string
	OutputDir  string
	LogsDir    string
}

// ResolvePaths resolves the configured locations against baseDir.
// An empty baseDir uses the current working directory.
func ResolvePaths(cfg *Config, baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	p := &Paths{BaseDir: baseDir}
	p.RosterFile = p.Resolve(cfg.Interview.RosterFile)
	p.OutputDir = p.Resolve(cfg.Interview.OutputDir)
	p.LogsDir = filepath.Dir(p.Resolve(cfg.Logging.FilePath))

	slog.Debug("Resolved paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("roster_file", p.RosterFile),
		slog.String("output_dir", p.OutputDir))

	return p, nil
}

// Resolve returns path unchanged if absolute, else joined onto BaseDir.
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.BaseDir, path)
}

// EnsureDirectories creates the output and log directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
