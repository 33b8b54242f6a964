package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindResultFiles finds the per-interviewer result files derived from baseName,
// i.e. "<stem>_<interviewer>.xlsx" in dir.
func (d *Discovery) FindResultFiles(dir, baseName string) ([]FileInfo, error) {
	stem := strings.TrimSuffix(filepath.Base(baseName), filepath.Ext(baseName))
	prefix := stem + "_"
	return d.find(dir, func(name string) bool {
		return strings.HasPrefix(name, prefix) && strings.EqualFold(filepath.Ext(name), ".xlsx")
	})
}

func (d *Discovery) find(dir string, match func(name string) bool) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || IsTempFile(name) || !match(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// IsTempFile reports whether name is an Office lock file ("~$book.xlsx").
func IsTempFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), "~$")
}

// ExpandInputs resolves command-line input arguments into a sorted, de-duplicated
// path list. Arguments containing glob metacharacters are expanded; anything else
// is kept as given, even if it does not exist, so that the reader can report it.
func ExpandInputs(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.ContainsAny(p, "*?[") {
			add(p)
			continue
		}

		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid input pattern %q: %w", p, err)
		}
		for _, m := range matches {
			if !IsTempFile(m) {
				add(m)
			}
		}
	}

	sort.Strings(out)
	return out, nil
}
