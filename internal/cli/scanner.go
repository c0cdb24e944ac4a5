package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/toyz/pybind/internal/errors"
	"github.com/toyz/pybind/internal/utils"
)

// DirectoryScanner handles recursive directory scanning for Go files
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// ScanDirectories scans the provided directories for Go packages and
// returns the absolute directories that contain Go files. A plain
// directory names one package; "dir/..." includes every package below it.
func (s *DirectoryScanner) ScanDirectories(rootDirs []string) ([]string, error) {
	var packageDirs []string
	seen := make(map[string]bool)

	for _, rootDir := range rootDirs {
		baseDir, recursive := splitPattern(rootDir)

		cleanPath, err := filepath.Abs(baseDir)
		if err != nil {
			return nil, errors.WrapWithOperation("process", fmt.Sprintf("path resolution %s", baseDir), err)
		}

		var dirs []string
		if recursive {
			dirs, err = s.fileProcessor.ScanDirectoriesWithGoFiles([]string{cleanPath})
			if err != nil {
				return nil, err
			}
		} else {
			has, err := s.fileProcessor.HasGoFiles(cleanPath)
			if err != nil {
				return nil, errors.WrapFileSystemError("scan", cleanPath, err)
			}
			if has {
				dirs = []string{cleanPath}
			}
		}

		for _, dir := range dirs {
			if !seen[dir] {
				seen[dir] = true
				packageDirs = append(packageDirs, dir)
			}
		}
	}

	return packageDirs, nil
}

// splitPattern separates a Go-style "./..." suffix from a directory
func splitPattern(dir string) (string, bool) {
	if dir == "..." {
		return ".", true
	}
	if strings.HasSuffix(dir, "/...") {
		base := strings.TrimSuffix(dir, "/...")
		if base == "" {
			base = "."
		}
		return base, true
	}
	return dir, false
}
