package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/toyz/pybind/internal/annotations"
	"github.com/toyz/pybind/internal/cli"
	"github.com/toyz/pybind/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args and executes one generator invocation, returning the
// process exit code
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("pybind", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		moduleFlag  = flags.String("module", "", "Custom module name for imports (defaults to go.mod module)")
		verboseFlag = flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag   = flags.Bool("quiet", false, "Only show errors and final results")
		cleanFlag   = flags.Bool("clean", false, "Delete all autogen_pybind.go files from the specified directories")
		configFlag  = flags.String("config", "", "Export table for functions without directives (pybind.yaml or pybind.toml)")
		checkFlag   = flags.Bool("check", false, "Fail if a generated file is out of date instead of writing it")
		helpFlag    = flags.Bool("help", false, "Show help information")
	)

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: pybind [options] <directory-paths...>\n\n")
		fmt.Fprintf(stderr, "Python Binding Generator\n")
		fmt.Fprintf(stderr, "Scans Go packages for //py:fn and //py:module directives and generates autogen_pybind.go.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nArguments:\n")
		fmt.Fprintf(stderr, "  directory-paths    One or more package directories to scan\n")
		fmt.Fprintf(stderr, "                     Supports Go-style patterns like './...' for recursive scanning\n")
		fmt.Fprintf(stderr, "\nDirectives:\n")
		registry := annotations.DefaultRegistry()
		for _, name := range registry.Names() {
			schema, _ := registry.Schema(name)
			fmt.Fprintf(stderr, "  %-22s %s\n", annotations.DirectivePrefix+name, schema.Description)
			for _, example := range schema.Examples {
				fmt.Fprintf(stderr, "  %-22s   %s\n", "", example)
			}
		}
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  pybind ./...                          # Generate bindings for every package\n")
		fmt.Fprintf(stderr, "  pybind ./examples/mymod               # Generate bindings for one package\n")
		fmt.Fprintf(stderr, "  pybind --config pybind.yaml ./...     # Add exports from an export table\n")
		fmt.Fprintf(stderr, "  pybind --check ./...                  # Verify generated files are current\n")
		fmt.Fprintf(stderr, "  pybind --clean ./...                  # Delete all autogen_pybind.go files\n")
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *helpFlag {
		flags.Usage()
		return 0
	}

	dirs := flags.Args()
	if len(dirs) == 0 {
		fmt.Fprintf(stderr, "Error: At least one directory path is required\n\n")
		flags.Usage()
		return 1
	}

	// Create diagnostic system based on flags
	var diagnostics *utils.DiagnosticSystem
	switch {
	case *quietFlag:
		diagnostics = utils.NewQuietDiagnostics()
	case *verboseFlag:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	diagnostics.SetOutput(stdout, stderr)

	if *cleanFlag {
		diagnostics.Header("Cleaning generated files")
		removed, err := cli.NewCleaner().CleanGeneratedFiles(dirs)
		for _, file := range removed {
			diagnostics.PhaseProgress("Removed " + file)
		}
		if err != nil {
			diagnostics.Error("Clean operation failed: %v", err)
			return 1
		}
		diagnostics.Success("Removed %d generated files", len(removed))
		return 0
	}

	diagnostics.Header("Generating Python bindings")
	if *verboseFlag {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Target directories: %s", strings.Join(dirs, ", "))
		if *moduleFlag != "" {
			diagnostics.List("Custom module: %s", *moduleFlag)
		}
		if *configFlag != "" {
			diagnostics.List("Export table: %s", *configFlag)
		}
	}

	generator := cli.NewGenerator(diagnostics)
	err := generator.Run(cli.Config{
		Directories: dirs,
		ModuleName:  *moduleFlag,
		ConfigFile:  *configFlag,
		Check:       *checkFlag,
		Verbose:     *verboseFlag,
	})
	if err != nil {
		diagnostics.Error("%v", err)
		return 1
	}

	summary := generator.GetSummary()
	diagnostics.Summary("Summary", map[string]interface{}{
		"Packages processed": summary.PackagesProcessed,
		"Functions exported": summary.FunctionsExported,
		"Modules generated":  summary.ModulesGenerated,
		"Files written":      summary.FilesWritten,
		"Files unchanged":    summary.FilesUnchanged,
	})

	if *checkFlag {
		diagnostics.Success("Generated files are up to date")
		return 0
	}
	diagnostics.GenerationComplete()
	return 0
}
