package parser

import (
	"go/ast"
	"go/token"

	"github.com/toyz/pybind/internal/annotations"
	"github.com/toyz/pybind/internal/errors"
	"github.com/toyz/pybind/internal/models"
)

// ExtractExportDirective finds the single //py:fn attribute in attrs and
// converts it. The remaining attributes are returned in their original
// order. When no //py:fn is present the result is nil and attrs is returned
// unchanged.
func ExtractExportDirective(attrs []*annotations.Attribute) (*models.ExportDirective, []*annotations.Attribute, error) {
	var (
		export *models.ExportDirective
		rest   = make([]*annotations.Attribute, 0, len(attrs))
	)
	for _, attr := range attrs {
		if attr.Name != annotations.DirectiveFn {
			rest = append(rest, attr)
			continue
		}
		if export != nil {
			return nil, nil, errors.DuplicateDirective(attr.Location, attr.Name)
		}
		d, err := exportDirective(attr)
		if err != nil {
			return nil, nil, err
		}
		export = d
	}
	if export == nil {
		return nil, attrs, nil
	}
	return export, rest, nil
}

// exportDirective converts an //py:fn attribute whose leading arguments
// have already been checked against annotations.FnSchema
func exportDirective(attr *annotations.Attribute) (*models.ExportDirective, error) {
	module, _ := attr.PathArg(0)
	name, _ := attr.StringArg(1)

	args, err := annotations.ArgDirectives(attr.Args[2:], func(i int) errors.SourceLocation {
		return attr.ArgLocation(i + 2)
	})
	if err != nil {
		return nil, err
	}

	return &models.ExportDirective{
		Module:   module,
		Name:     name,
		Args:     args,
		Raw:      attr.Raw,
		Location: attr.Location,
	}, nil
}

// moduleDirective converts a checked //py:module(name) or
// //py:module(name, "doc")
func moduleDirective(attr *annotations.Attribute) models.ModuleDirective {
	name, _ := attr.PathArg(0)
	d := models.ModuleDirective{Name: name, Location: attr.Location}
	if doc, ok := attr.StringArg(1); ok {
		d.Doc = doc
		d.HasDoc = true
	}
	return d
}

// validateModuleInit checks func(py pyrt.Python, m *pyrt.Module) error
func validateModuleInit(fset *token.FileSet, decl *ast.FuncDecl) error {
	loc := location(fset, decl.Name.Pos())
	if decl.Recv != nil {
		return errors.UnexpectedReceiver(location(fset, decl.Recv.Pos()), decl.Name.Name).
			WithSuggestion("module init functions must be package-level functions")
	}

	var params []ast.Expr
	for _, field := range decl.Type.Params.List {
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			params = append(params, field.Type)
		}
	}
	results := decl.Type.Results
	ok := len(params) == 2 &&
		isRuntimeContext(params[0]) &&
		isCollector(params[1], ModuleType, true) &&
		results != nil && len(results.List) == 1 && len(results.List[0].Names) <= 1 &&
		isError(results.List[0].Type)
	if !ok {
		return errors.New(errors.SignatureErrorCode, "module init function must have signature func(py pyrt.Python, m *pyrt.Module) error").
			WithLocation(loc).
			WithContext("function", decl.Name.Name)
	}
	return nil
}

// validateArgs checks the argument directives of export against the
// extracted signature
func validateArgs(fset *token.FileSet, decl *ast.FuncDecl, export *models.ExportDirective, sig models.FunctionSignature) error {
	types := make(map[string]ast.Expr)
	for _, field := range decl.Type.Params.List {
		for _, ident := range field.Names {
			types[ident.Name] = field.Type
		}
	}

	for _, arg := range export.Args {
		if arg.Name == "" {
			continue
		}
		p, ok := sig.Parameter(arg.Name)
		if !ok || p.IsRuntimeContext {
			return errors.UnknownParameter(export.Location, sig.Name, arg.Name)
		}
		switch arg.Kind {
		case models.ArgVarArgs:
			if !isCollector(types[arg.Name], TupleType, false) {
				return errors.InvalidCollector(p.Location, arg.Name, "extra positional arguments", "pyrt.Tuple", p.NativeType)
			}
		case models.ArgKeywordArgs:
			if !isCollector(types[arg.Name], DictType, true) {
				return errors.InvalidCollector(p.Location, arg.Name, "extra keyword arguments", "*pyrt.Dict", p.NativeType)
			}
		}
	}
	return nil
}
