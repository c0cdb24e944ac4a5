package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultGeneratedFileName is the file the generator writes into each
// package that exports functions.
const DefaultGeneratedFileName = "autogen_pybind.go"

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct {
	generatedFile string
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return NewFileProcessorFor(DefaultGeneratedFileName)
}

// NewFileProcessorFor creates a file processor that treats generatedFile as
// generator output
func NewFileProcessorFor(generatedFile string) *FileProcessor {
	return &FileProcessor{generatedFile: generatedFile}
}

// GeneratedFileName returns the name of the generated file
func (fp *FileProcessor) GeneratedFileName() string {
	return fp.generatedFile
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// SourceFileFilter filters for .go files, excluding tests and the generated file
func (fp *FileProcessor) SourceFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			name != fp.generatedFile
	}
}

// DefaultDirectoryFilter skips common directories that shouldn't contain source code
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"_examples":    true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()

		// Hidden and underscore directories are ignored by the go tool too
		if (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) && name != "." && name != ".." {
			return false
		}

		return !skipDirs[name]
	}
}

// ScanDirectoriesWithGoFiles scans directories and returns those containing Go files
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, rootDir := range rootDirs {
		dirs, err := fp.scanDirectoryRecursive(rootDir, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}

	return packageDirs, nil
}

// scanDirectoryRecursive recursively scans a directory for Go files
func (fp *FileProcessor) scanDirectoryRecursive(dir string, visited map[string]bool) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	var packageDirs []string

	hasGoFiles, err := fp.HasGoFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("checking %s for Go files: %w", dir, err)
	}

	if hasGoFiles {
		packageDirs = append(packageDirs, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	directoryFilter := DefaultDirectoryFilter()

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		entryPath := filepath.Join(dir, entry.Name())
		if !directoryFilter(entryPath, entry) {
			continue
		}

		subDirs, err := fp.scanDirectoryRecursive(entryPath, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, subDirs...)
	}

	return packageDirs, nil
}

// HasGoFiles checks if a directory contains any .go files (excluding test files and the generated file)
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}

	fileFilter := fp.SourceFileFilter()

	for _, entry := range entries {
		if fileFilter(filepath.Join(dir, entry.Name()), entry) {
			return true, nil
		}
	}

	return false, nil
}

// CleanDirectories removes generated files from the given directory trees
// and returns the removed paths in sorted order
func (fp *FileProcessor) CleanDirectories(baseDirs []string) ([]string, error) {
	var removedFiles []string

	for _, baseDir := range baseDirs {
		if err := fp.cleanDirectory(baseDir, &removedFiles); err != nil {
			sort.Strings(removedFiles)
			return removedFiles, fmt.Errorf("cleaning %s: %w", baseDir, err)
		}
	}

	sort.Strings(removedFiles)
	return removedFiles, nil
}

// cleanDirectory cleans a single directory tree
func (fp *FileProcessor) cleanDirectory(baseDir string, removedFiles *[]string) error {
	startDir := "."
	if baseDir != "" {
		startDir = baseDir
	}

	directoryFilter := DefaultDirectoryFilter()

	return filepath.WalkDir(startDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if path != startDir && !directoryFilter(path, entry) {
			return filepath.SkipDir
		}
		return fp.cleanSingleDirectory(path, removedFiles)
	})
}

// cleanSingleDirectory removes the generated file from a single directory
func (fp *FileProcessor) cleanSingleDirectory(dir string, removedFiles *[]string) error {
	removed, err := fp.RemoveGenerated(dir)
	if err != nil {
		return err
	}
	if removed {
		*removedFiles = append(*removedFiles, filepath.Join(dir, fp.generatedFile))
	}
	return nil
}

// RemoveGenerated deletes the generated file in dir and reports whether
// there was one
func (fp *FileProcessor) RemoveGenerated(dir string) (bool, error) {
	generated := filepath.Join(dir, fp.generatedFile)

	if _, err := os.Stat(generated); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("checking %s: %w", generated, err)
	}

	if err := os.Remove(generated); err != nil {
		return false, fmt.Errorf("removing %s: %w", generated, err)
	}
	return true, nil
}
