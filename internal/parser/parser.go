package parser

import (
	stderrors "errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/toyz/pybind/internal/annotations"
	"github.com/toyz/pybind/internal/errors"
	"github.com/toyz/pybind/internal/models"
)

// Parser implements the DirectiveParser interface
type Parser struct {
	fileSet    *token.FileSet
	directives *annotations.ParticipleParser
	schemas    annotations.Registry
	external   map[string]*models.ExternalDirectives
}

// NewParser creates a new directive parser
func NewParser() *Parser {
	return &Parser{
		fileSet:    token.NewFileSet(),
		directives: annotations.NewParticipleParser(),
		schemas:    annotations.DefaultRegistry(),
		external:   make(map[string]*models.ExternalDirectives),
	}
}

// FileSet returns the file set positions are reported against
func (p *Parser) FileSet() *token.FileSet {
	return p.fileSet
}

// SetExternalDirectives registers exports declared outside of source
// comments for the package in dir
func (p *Parser) SetExternalDirectives(dir string, ext *models.ExternalDirectives) {
	p.external[filepath.Clean(dir)] = ext
}

type sourceFile struct {
	name string
	file *ast.File
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	return p.process(file.Name.Name, "./", []sourceFile{{name: filename, file: file}}, p.external["."])
}

// ParseDirectory parses the non-test Go files of one package directory and
// collects its exported functions and modules. The generated file is
// skipped so that regeneration never sees its own output.
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read directory", path, err)
	}

	var (
		files       []sourceFile
		packageName string
	)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") ||
			strings.HasSuffix(name, "_test.go") || name == GeneratedFileName {
			continue
		}
		fileName := filepath.Join(path, name)
		file, err := parser.ParseFile(p.fileSet, fileName, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse file %s: %w", fileName, err)
		}
		if packageName == "" {
			packageName = file.Name.Name
		} else if file.Name.Name != packageName {
			return nil, fmt.Errorf("multiple packages found in directory %s: %s and %s", path, packageName, file.Name.Name)
		}
		files = append(files, sourceFile{name: fileName, file: file})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no Go packages found in directory %s", path)
	}

	return p.process(packageName, path, files, p.external[filepath.Clean(path)])
}

// packageBuilder accumulates the exports of one package
type packageBuilder struct {
	parser   *Parser
	metadata *models.PackageMetadata
	ext      *models.ExternalDirectives
	errs     *errors.MultipleErrors

	funcs        map[string]*ast.FuncDecl
	modules      map[string]*models.ModuleSpec
	declared     map[string]errors.SourceLocation
	exportNames  map[string]errors.SourceLocation
	usedExternal map[string]bool

	// fileImports are the imports of the file being processed, by the name
	// they bind; imports are those generated code refers to.
	fileImports map[string]models.ImportSpec
	imports     map[string]models.ImportSpec
	conflicts   map[errors.SourceLocation]bool
}

func (p *Parser) process(packageName, path string, files []sourceFile, ext *models.ExternalDirectives) (*models.PackageMetadata, error) {
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })

	b := &packageBuilder{
		parser: p,
		metadata: &models.PackageMetadata{
			PackageName: packageName,
			PackagePath: path,
		},
		ext:          ext,
		errs:         errors.NewMultipleErrors(),
		funcs:        make(map[string]*ast.FuncDecl),
		modules:      make(map[string]*models.ModuleSpec),
		declared:     make(map[string]errors.SourceLocation),
		exportNames:  make(map[string]errors.SourceLocation),
		usedExternal: make(map[string]bool),
		imports:      make(map[string]models.ImportSpec),
		conflicts:    make(map[errors.SourceLocation]bool),
	}

	for _, sf := range files {
		for _, decl := range sf.file.Decls {
			if fn, ok := decl.(*ast.FuncDecl); ok && fn.Recv == nil {
				b.funcs[fn.Name.Name] = fn
			}
		}
	}

	for _, sf := range files {
		b.fileImports = fileImports(p.fileSet, sf.file)
		for _, decl := range sf.file.Decls {
			if fn, ok := decl.(*ast.FuncDecl); ok {
				b.processFunc(fn)
			}
		}
	}

	b.applyExternal()
	b.finish()

	if !b.errs.IsEmpty() {
		return nil, b.errs
	}
	return b.metadata, nil
}

// processFunc handles the directives of one function declaration
func (b *packageBuilder) processFunc(decl *ast.FuncDecl) {
	attrs, err := b.attributes(decl)
	if err != nil {
		b.add(err)
		return
	}

	var external *models.ExportDirective
	if b.ext != nil && decl.Recv == nil {
		external = b.ext.Exports[decl.Name.Name]
	}
	if len(attrs) == 0 && external == nil {
		return
	}

	export, rest, err := ExtractExportDirective(attrs)
	if err != nil {
		b.add(err)
		return
	}
	if external != nil {
		b.usedExternal[decl.Name.Name] = true
		if export != nil {
			b.add(errors.Conflict(export.Location, "export of function", decl.Name.Name, external.Location))
			return
		}
		export = external
	}

	var (
		module    *models.ModuleDirective
		signature string
	)
	for _, attr := range rest {
		switch attr.Name {
		case annotations.DirectiveModule:
			d := moduleDirective(attr)
			module = &d
		case annotations.DirectiveTextSignature:
			signature, _ = attr.StringArg(0)
		}
	}

	if module != nil {
		if export != nil {
			b.add(errors.MalformedDirective(module.Location, "//py:module", "a module init function cannot also be exported"))
			return
		}
		if err := validateModuleInit(b.parser.fileSet, decl); err != nil {
			b.add(err)
			return
		}
		module.InitFunc = decl.Name.Name
		if !module.HasDoc {
			module.Doc = docText(decl)
		}
		b.declareModule(*module)
		return
	}

	if export == nil {
		if signature != "" {
			b.add(errors.New(errors.DirectiveErrorCode, "//py:text_signature without //py:fn").
				WithLocation(location(b.parser.fileSet, decl.Name.Pos())))
		}
		return
	}

	sig, err := ExtractSignature(b.parser.fileSet, decl)
	if err != nil {
		b.add(err)
		return
	}
	if err := validateArgs(b.parser.fileSet, decl, export, sig); err != nil {
		b.add(err)
		return
	}

	spec := &models.FnSpec{
		Ident:         decl.Name.Name,
		Name:          export.Name,
		Module:        export.Module,
		Convention:    models.FnStatic,
		Signature:     sig,
		Args:          export.Args,
		Doc:           docText(decl),
		TextSignature: signature,
		Location:      export.Location,
	}
	if spec.Location.IsEmpty() {
		spec.Location = sig.Location
	}
	if b.addFunction(spec) {
		b.useImports(decl, spec)
	}
}

// attributes parses every //py: line of the declaration's doc comment and
// checks each against its registered schema
func (b *packageBuilder) attributes(decl *ast.FuncDecl) ([]*annotations.Attribute, error) {
	if decl.Doc == nil {
		return nil, nil
	}
	var attrs []*annotations.Attribute
	for _, c := range decl.Doc.List {
		if !annotations.IsDirective(c.Text) {
			continue
		}
		attr, err := b.parser.directives.ParseAttribute(c.Text, location(b.parser.fileSet, c.Pos()))
		if err != nil {
			return nil, err
		}
		if err := b.parser.schemas.Validate(attr); err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func (b *packageBuilder) addFunction(spec *models.FnSpec) bool {
	key := spec.Module + "." + spec.Name
	if prev, exists := b.exportNames[key]; exists {
		b.add(errors.Conflict(spec.Location, "function name in module "+spec.Module, spec.Name, prev))
		return false
	}
	b.exportNames[key] = spec.Location
	b.metadata.Functions = append(b.metadata.Functions, spec)
	return true
}

func (b *packageBuilder) declareModule(d models.ModuleDirective) {
	if prev, exists := b.declared[d.Name]; exists {
		b.add(errors.Conflict(d.Location, "module", d.Name, prev))
		return
	}
	b.declared[d.Name] = d.Location
	b.modules[d.Name] = &models.ModuleSpec{
		Name:     d.Name,
		Doc:      d.Doc,
		InitFunc: d.InitFunc,
		Location: d.Location,
	}
}

// applyExternal declares table modules and reports table exports whose
// function does not exist
func (b *packageBuilder) applyExternal() {
	if b.ext == nil {
		return
	}
	for _, d := range b.ext.Modules {
		if d.InitFunc != "" {
			decl, ok := b.funcs[d.InitFunc]
			if !ok {
				b.add(errors.ConfigurationError("export table", fmt.Sprintf("module init function '%s' not found in %s", d.InitFunc, b.metadata.PackagePath)).
					WithLocation(d.Location))
				continue
			}
			if err := validateModuleInit(b.parser.fileSet, decl); err != nil {
				b.add(err)
				continue
			}
		}
		b.declareModule(d)
	}

	idents := make([]string, 0, len(b.ext.Exports))
	for ident := range b.ext.Exports {
		idents = append(idents, ident)
	}
	sort.Strings(idents)
	for _, ident := range idents {
		if !b.usedExternal[ident] {
			b.add(errors.ConfigurationError("export table", fmt.Sprintf("function '%s' not found in %s", ident, b.metadata.PackagePath)).
				WithLocation(b.ext.Exports[ident].Location))
		}
	}
}

// finish attaches functions to their modules, creating implicit modules for
// names no //py:module declared, and sorts the results
func (b *packageBuilder) finish() {
	for _, fn := range b.metadata.Functions {
		mod, ok := b.modules[fn.Module]
		if !ok {
			mod = &models.ModuleSpec{Name: fn.Module, Location: fn.Location}
			b.modules[fn.Module] = mod
		}
		mod.Functions = append(mod.Functions, fn)
	}

	names := make([]string, 0, len(b.modules))
	for name := range b.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.metadata.Modules = append(b.metadata.Modules, b.modules[name])
	}

	for _, imp := range b.imports {
		b.metadata.Imports = append(b.metadata.Imports, imp)
	}
	sort.Slice(b.metadata.Imports, func(i, j int) bool {
		a, c := b.metadata.Imports[i], b.metadata.Imports[j]
		if a.Path != c.Path {
			return a.Path < c.Path
		}
		return a.Name < c.Name
	})
}

// useImports records the imports that the generated wrapper of spec
// refers to: package qualifiers in the parameter and result types and in
// default expressions. Two files binding one name to different paths is
// only a conflict when both bindings are used.
func (b *packageBuilder) useImports(decl *ast.FuncDecl, spec *models.FnSpec) {
	names := qualifiers(decl.Type)
	for _, arg := range spec.Args {
		if arg.Kind != models.ArgDefault {
			continue
		}
		if expr, err := parser.ParseExpr(arg.Default); err == nil {
			names = append(names, qualifiers(expr)...)
		}
	}

	for _, name := range names {
		imp, ok := b.fileImports[name]
		if !ok {
			continue
		}
		prev, exists := b.imports[name]
		switch {
		case !exists:
			b.imports[name] = imp
		case prev.Path != imp.Path && !b.conflicts[imp.Location]:
			b.conflicts[imp.Location] = true
			b.add(errors.Conflict(imp.Location, "import name", name, prev.Location).
				WithContext("path", imp.Path).
				WithSuggestion(fmt.Sprintf("'%s' is bound to %q there; give one of the imports an explicit alias", name, prev.Path)))
		}
	}
}

// qualifiers returns the identifiers used as X in X.Sel expressions below
// node, which for types are package names
func qualifiers(node ast.Node) []string {
	var names []string
	ast.Inspect(node, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if ident, ok := sel.X.(*ast.Ident); ok {
				names = append(names, ident.Name)
			}
		}
		return true
	})
	return names
}

// fileImports maps the names bound by the imports of file to their specs.
// Blank and dot imports bind nothing a qualifier can refer to.
func fileImports(fset *token.FileSet, file *ast.File) map[string]models.ImportSpec {
	out := make(map[string]models.ImportSpec, len(file.Imports))
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := models.ImportSpec{Path: path, Location: location(fset, spec.Pos())}
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			imp.Name = spec.Name.Name
		}
		out[imp.LocalName()] = imp
	}
	return out
}

func (b *packageBuilder) add(err error) {
	var perr errors.PybindError
	if stderrors.As(err, &perr) {
		b.errs.Add(perr)
		return
	}
	b.errs.Add(errors.Wrap(errors.UnknownErrorCode, "failed to process directives", err))
}

// docText returns the doc comment with directive lines removed
func docText(decl *ast.FuncDecl) string {
	if decl.Doc == nil {
		return ""
	}
	var lines []string
	for _, line := range strings.Split(decl.Doc.Text(), "\n") {
		if annotations.IsDirective("//" + line) {
			continue
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
