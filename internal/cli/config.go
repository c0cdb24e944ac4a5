package cli

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/toyz/pybind/internal/annotations"
	"github.com/toyz/pybind/internal/errors"
	"github.com/toyz/pybind/internal/models"
	"github.com/toyz/pybind/internal/utils"
)

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan for annotated Go files
	Directories []string

	// ModuleName is the custom module name for imports
	// If empty, will be determined from go.mod file
	ModuleName string

	// ConfigFile is an optional export table (pybind.yaml or pybind.toml)
	ConfigFile string

	// Check reports out-of-date generated files instead of writing them
	Check bool

	// Verbose enables detailed logging and error reporting
	Verbose bool
}

// ExportTable is the declarative form of //py:fn and //py:module
// directives, for functions whose source cannot carry them
type ExportTable struct {
	// Runtime overrides the import path of the runtime package
	Runtime string        `yaml:"runtime" toml:"runtime"`
	Exports []ExportEntry `yaml:"exports" toml:"exports"`
	Modules []ModuleEntry `yaml:"modules" toml:"modules"`

	path string
}

// ExportEntry exports one function
type ExportEntry struct {
	Package  string   `yaml:"package" toml:"package"`
	Function string   `yaml:"function" toml:"function"`
	Module   string   `yaml:"module" toml:"module"`
	Name     string   `yaml:"name" toml:"name"`
	Args     []string `yaml:"args" toml:"args"`

	line int
}

// ModuleEntry declares one module
type ModuleEntry struct {
	Package string `yaml:"package" toml:"package"`
	Name    string `yaml:"name" toml:"name"`
	Doc     string `yaml:"doc" toml:"doc"`
	Init    string `yaml:"init" toml:"init"`

	line int
}

// UnmarshalYAML records the entry's line for diagnostics
func (e *ExportEntry) UnmarshalYAML(node *yaml.Node) error {
	type plain ExportEntry
	if err := checkKeys(node, "package", "function", "module", "name", "args"); err != nil {
		return err
	}
	if err := node.Decode((*plain)(e)); err != nil {
		return err
	}
	e.line = node.Line
	return nil
}

// UnmarshalYAML records the entry's line for diagnostics
func (e *ModuleEntry) UnmarshalYAML(node *yaml.Node) error {
	type plain ModuleEntry
	if err := checkKeys(node, "package", "name", "doc", "init"); err != nil {
		return err
	}
	if err := node.Decode((*plain)(e)); err != nil {
		return err
	}
	e.line = node.Line
	return nil
}

// checkKeys rejects unknown keys of a mapping node. Entries decode through
// node.Decode, which does not inherit the decoder's KnownFields setting.
func checkKeys(node *yaml.Node, allowed ...string) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		known := false
		for _, a := range allowed {
			if key.Value == a {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("line %d: unknown field %q", key.Line, key.Value)
		}
	}
	return nil
}

// LoadExportTable reads an export table. The format follows the file
// extension: .yaml/.yml or .toml. Unknown keys are rejected.
func LoadExportTable(path string) (*ExportTable, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}

	table := &ExportTable{path: path}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(table); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.WrapConfigurationError("export table", "decode "+path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(content), table)
		if err != nil {
			return nil, errors.WrapConfigurationError("export table", "decode "+path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.ConfigurationError("export table", fmt.Sprintf("unknown keys in %s: %s", path, strings.Join(keys, ", "))).
				WithLocation(errors.SourceLocation{File: path})
		}
	default:
		return nil, errors.ConfigurationError("export table", fmt.Sprintf("unsupported file type %q", filepath.Ext(path))).
			WithSuggestion("use a .yaml, .yml or .toml file")
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// Path returns the file the table was loaded from
func (t *ExportTable) Path() string {
	return t.path
}

func (t *ExportTable) location(line int) errors.SourceLocation {
	return errors.SourceLocation{File: t.path, Line: line}
}

var (
	validatePackage    = utils.NotEmpty("package")
	validateFunction   = utils.IsValidGoIdentifier("function")
	validateModuleName = utils.ValidateModuleName("module")
	validateExportName = utils.ValidateExportName("name")
	validateRuntime    = utils.ValidateImportPath("runtime")
)

// Validate checks every entry, collecting all problems
func (t *ExportTable) Validate() error {
	errs := errors.NewMultipleErrors()
	check := func(line int, v func(string) error, value string) {
		if err := v(value); err != nil {
			errs.Add(errors.ConfigurationError("export table", err.Error()).WithLocation(t.location(line)))
		}
	}

	if t.Runtime != "" {
		check(0, validateRuntime, t.Runtime)
	}
	for _, e := range t.Exports {
		check(e.line, validatePackage, e.Package)
		check(e.line, validateFunction, e.Function)
		check(e.line, validateModuleName, e.Module)
		check(e.line, validateExportName, e.Name)
	}
	for _, m := range t.Modules {
		check(m.line, validatePackage, m.Package)
		check(m.line, validateModuleName, m.Name)
		if m.Init != "" {
			check(m.line, utils.IsValidGoIdentifier("init"), m.Init)
		}
	}
	return errs.ErrorOrNil()
}

// Directives converts the table into per-package external directives,
// keyed by absolute package directory. Relative package paths are taken
// relative to the table's own directory.
func (t *ExportTable) Directives() (map[string]*models.ExternalDirectives, error) {
	baseDir := filepath.Dir(t.path)
	parser := annotations.NewParticipleParser()
	errs := errors.NewMultipleErrors()
	out := make(map[string]*models.ExternalDirectives)

	forPackage := func(pkg string) (*models.ExternalDirectives, error) {
		dir := pkg
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(baseDir, filepath.FromSlash(pkg))
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		ext, ok := out[abs]
		if !ok {
			ext = &models.ExternalDirectives{Exports: make(map[string]*models.ExportDirective)}
			out[abs] = ext
		}
		return ext, nil
	}

	for _, e := range t.Exports {
		loc := t.location(e.line)
		ext, err := forPackage(e.Package)
		if err != nil {
			errs.Add(errors.WrapConfigurationError("export table", "resolve package "+e.Package, err).WithLocation(loc))
			continue
		}
		if prev, dup := ext.Exports[e.Function]; dup {
			errs.Add(errors.Conflict(loc, "export table entry for function", e.Function, prev.Location))
			continue
		}

		args := make([]*annotations.Arg, 0, len(e.Args))
		failed := false
		for _, text := range e.Args {
			arg, err := parser.ParseArg(text, loc)
			if err != nil {
				errs.Add(asPybindError(err, loc))
				failed = true
				continue
			}
			args = append(args, arg)
		}
		if failed {
			continue
		}
		directives, err := annotations.ArgDirectives(args, func(int) errors.SourceLocation { return loc })
		if err != nil {
			errs.Add(asPybindError(err, loc))
			continue
		}

		ext.Exports[e.Function] = &models.ExportDirective{
			Module:   e.Module,
			Name:     e.Name,
			Args:     directives,
			Raw:      fmt.Sprintf("%s: %s -> %s.%s", e.Package, e.Function, e.Module, e.Name),
			Location: loc,
		}
	}

	for _, m := range t.Modules {
		loc := t.location(m.line)
		ext, err := forPackage(m.Package)
		if err != nil {
			errs.Add(errors.WrapConfigurationError("export table", "resolve package "+m.Package, err).WithLocation(loc))
			continue
		}
		ext.Modules = append(ext.Modules, models.ModuleDirective{
			Name:     m.Name,
			Doc:      m.Doc,
			HasDoc:   m.Doc != "",
			InitFunc: m.Init,
			Location: loc,
		})
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// Packages returns the sorted absolute package directories the table names
func (t *ExportTable) Packages() ([]string, error) {
	directives, err := t.Directives()
	if err != nil {
		return nil, err
	}
	dirs := make([]string, 0, len(directives))
	for dir := range directives {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

func asPybindError(err error, loc errors.SourceLocation) errors.PybindError {
	if perr, ok := err.(errors.PybindError); ok {
		return perr
	}
	return errors.Wrap(errors.ConfigurationErrorCode, "export table", err).WithLocation(loc)
}
