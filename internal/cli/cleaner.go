package cli

import (
	"fmt"
	"path/filepath"

	"github.com/toyz/pybind/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// CleanGeneratedFiles removes generated binding files from the specified
// directories and returns the removed paths. "dir/..." cleans the whole
// tree below dir.
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	var removedFiles []string

	for _, dir := range directories {
		baseDir, recursive := splitPattern(dir)

		if recursive {
			removed, err := c.fileProcessor.CleanDirectories([]string{baseDir})
			removedFiles = append(removedFiles, removed...)
			if err != nil {
				return removedFiles, fmt.Errorf("failed to clean directory %s: %w", dir, err)
			}
			continue
		}

		removed, err := c.fileProcessor.RemoveGenerated(baseDir)
		if err != nil {
			return removedFiles, fmt.Errorf("failed to clean directory %s: %w", dir, err)
		}
		if removed {
			removedFiles = append(removedFiles, filepath.Join(baseDir, c.fileProcessor.GeneratedFileName()))
		}
	}

	return removedFiles, nil
}
