package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/toyz/pybind/internal/errors"
	"github.com/toyz/pybind/internal/generator"
	"github.com/toyz/pybind/internal/models"
	"github.com/toyz/pybind/internal/parser"
	"github.com/toyz/pybind/internal/utils"
)

// GenerationSummary contains summary information about the generation process
type GenerationSummary struct {
	PackagesProcessed int
	PackagesSkipped   int
	FunctionsExported int
	ModulesGenerated  int
	FilesWritten      int
	FilesUnchanged    int
	GeneratedFiles    []string
	RemovedFiles      []string
	OutOfDate         []string
}

// Generator coordinates the CLI generation process
type Generator struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	fileProcessor  *utils.FileProcessor
	diagnostics    *utils.DiagnosticSystem
	summary        GenerationSummary
}

// NewGenerator creates a new CLI generator reporting through diagnostics
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	return &Generator{
		scanner:        NewDirectoryScanner(),
		moduleResolver: NewModuleResolver(),
		fileProcessor:  utils.NewFileProcessor(),
		diagnostics:    diagnostics,
	}
}

// GetSummary returns the generation summary
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run executes the complete generation process. Every package is parsed
// and generated before anything is written, so a run with errors leaves
// the tree untouched.
func (g *Generator) Run(config Config) error {
	startTime := time.Now()
	g.summary = GenerationSummary{}
	d := g.diagnostics

	d.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))
	d.Debug("Scanning directories: %v", config.Directories)

	// Resolve module name
	d.PhaseHeader("Resolving module")
	moduleName, err := g.moduleResolver.ResolveModuleName(config.ModuleName)
	if err != nil {
		d.Warn("%v", err)
	} else {
		d.PhaseItem(moduleName)
	}

	// Load the export table
	table, err := g.loadExportTable(config.ConfigFile)
	if err != nil {
		return err
	}

	runtimeImport := generator.DefaultRuntimeImport
	if table != nil && table.Runtime != "" {
		runtimeImport = table.Runtime
	}
	codeGenerator := generator.NewGeneratorWithRuntime(runtimeImport)
	d.Verbose("Runtime import: %s", runtimeImport)

	// Scan directories
	d.PhaseHeader("Scanning directories")
	packageDirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			Message: "failed to scan directories",
			Cause:   err,
		}
	}
	if len(packageDirs) == 0 {
		return &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			Message: fmt.Sprintf("no Go packages found in %v", config.Directories),
		}
	}
	d.PhaseItem(fmt.Sprintf("Found %d packages", len(packageDirs)))
	d.Indent()
	for _, dir := range packageDirs {
		d.List("%s", g.displayPath(moduleName, dir))
	}
	d.Unindent()

	// Parse packages
	p := parser.NewParser()
	if err := g.applyExportTable(p, table, packageDirs); err != nil {
		d.Report(err)
		return &models.GeneratorError{
			Type:    models.ErrorTypeConfiguration,
			File:    table.Path(),
			Message: "invalid export table",
			Cause:   err,
		}
	}

	d.PhaseHeader("Generating bindings")
	var (
		pending []*models.GeneratedFile
		stale   []string
		failed  int
	)
	for _, dir := range packageDirs {
		g.summary.PackagesProcessed++
		pkgPath := g.displayPath(moduleName, dir)

		metadata, err := p.ParseDirectory(dir)
		if err != nil {
			d.Report(err)
			failed++
			continue
		}

		if !metadata.HasExports() {
			g.summary.PackagesSkipped++
			d.Debug("Skipping %s (no exports)", pkgPath)
			if g.hasGeneratedFile(dir) {
				stale = append(stale, dir)
			}
			continue
		}

		file, err := codeGenerator.GenerateFile(metadata)
		if err != nil {
			d.Report(err)
			failed++
			continue
		}

		g.summary.FunctionsExported += file.Wrappers
		g.summary.ModulesGenerated += file.Modules
		pending = append(pending, file)
		d.PhaseProgress(fmt.Sprintf("%s: %d functions, %d modules", pkgPath, file.Wrappers, file.Modules))
	}

	if failed > 0 {
		return &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			Message: fmt.Sprintf("%d of %d packages failed; no files were written", failed, len(packageDirs)),
		}
	}

	if config.Check {
		return g.check(pending, stale)
	}

	if err := g.write(pending, stale); err != nil {
		return err
	}

	d.Verbose("Generation completed in %v", time.Since(startTime))
	return nil
}

func (g *Generator) loadExportTable(path string) (*ExportTable, error) {
	if path == "" {
		return nil, nil
	}
	g.diagnostics.PhaseHeader("Loading export table")
	table, err := LoadExportTable(path)
	if err != nil {
		g.diagnostics.Report(err)
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeConfiguration,
			File:    path,
			Message: "failed to load export table",
			Cause:   err,
		}
	}
	g.diagnostics.PhaseItem(fmt.Sprintf("%d exports, %d modules", len(table.Exports), len(table.Modules)))
	return table, nil
}

// applyExportTable registers the table's directives with the parser. Every
// package the table names must be among the scanned packages.
func (g *Generator) applyExportTable(p *parser.Parser, table *ExportTable, packageDirs []string) error {
	if table == nil {
		return nil
	}
	directives, err := table.Directives()
	if err != nil {
		return err
	}

	scanned := make(map[string]bool, len(packageDirs))
	for _, dir := range packageDirs {
		scanned[filepath.Clean(dir)] = true
	}

	dirs := make([]string, 0, len(directives))
	for dir := range directives {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	errs := errors.NewMultipleErrors()
	for _, dir := range dirs {
		if !scanned[dir] {
			errs.Add(errors.ConfigurationError("export table", fmt.Sprintf("package %s is not among the scanned directories", dir)).
				WithLocation(errors.SourceLocation{File: table.Path()}).
				WithSuggestion("add the package directory to the command line"))
			continue
		}
		p.SetExternalDirectives(dir, directives[dir])
	}
	return errs.ErrorOrNil()
}

// check compares generated output with the files on disk without writing
func (g *Generator) check(pending []*models.GeneratedFile, stale []string) error {
	for _, file := range pending {
		current, err := os.ReadFile(file.FilePath)
		if err != nil || !bytes.Equal(current, []byte(file.Content)) {
			g.summary.OutOfDate = append(g.summary.OutOfDate, file.FilePath)
			continue
		}
		g.summary.FilesUnchanged++
	}
	for _, dir := range stale {
		g.summary.OutOfDate = append(g.summary.OutOfDate, filepath.Join(dir, g.fileProcessor.GeneratedFileName()))
	}

	if len(g.summary.OutOfDate) == 0 {
		g.diagnostics.PhaseItem("All generated files are up to date")
		return nil
	}
	for _, path := range g.summary.OutOfDate {
		g.diagnostics.Error("%s is out of date", path)
	}
	return &models.GeneratorError{
		Type:    models.ErrorTypeValidation,
		Message: fmt.Sprintf("%d generated files are out of date; run pybind to regenerate", len(g.summary.OutOfDate)),
	}
}

// write writes changed files and removes generated files of packages that
// no longer export anything
func (g *Generator) write(pending []*models.GeneratedFile, stale []string) error {
	g.diagnostics.PhaseHeader("Writing files")
	for _, file := range pending {
		current, err := os.ReadFile(file.FilePath)
		if err == nil && bytes.Equal(current, []byte(file.Content)) {
			g.summary.FilesUnchanged++
			g.diagnostics.Verbose("%s unchanged", file.FilePath)
			continue
		}
		if err := os.WriteFile(file.FilePath, []byte(file.Content), 0o644); err != nil {
			return &models.GeneratorError{
				Type:    models.ErrorTypeFileSystem,
				File:    file.FilePath,
				Message: "failed to write generated file",
				Cause:   err,
			}
		}
		g.summary.FilesWritten++
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)
		g.diagnostics.PhaseProgress("Writing " + file.FilePath)
	}

	for _, dir := range stale {
		removed, err := g.fileProcessor.RemoveGenerated(dir)
		if err != nil {
			return &models.GeneratorError{
				Type:    models.ErrorTypeFileSystem,
				File:    dir,
				Message: "failed to remove stale generated file",
				Cause:   err,
			}
		}
		if removed {
			path := filepath.Join(dir, g.fileProcessor.GeneratedFileName())
			g.summary.RemovedFiles = append(g.summary.RemovedFiles, path)
			g.diagnostics.PhaseProgress("Removed stale " + path)
		}
	}
	return nil
}

func (g *Generator) hasGeneratedFile(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, g.fileProcessor.GeneratedFileName()))
	return err == nil
}

// displayPath prefers the package import path, falling back to the directory
func (g *Generator) displayPath(moduleName, dir string) string {
	if moduleName == "" {
		return dir
	}
	path, err := g.moduleResolver.BuildPackagePath(moduleName, dir)
	if err != nil {
		return dir
	}
	return path
}
