package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/toyz/pybind/internal/errors"
	"github.com/toyz/pybind/internal/models"
	"github.com/toyz/pybind/internal/parser"
	"github.com/toyz/pybind/internal/templates"
	"github.com/toyz/pybind/internal/utils"
)

// DefaultRuntimeImport is the runtime package generated code targets
const DefaultRuntimeImport = "github.com/toyz/pybind/pkg/pyrt"

// runtimeName is the name the runtime package is imported under
const runtimeName = "pyrt"

// Generator implements the CodeGenerator interface
type Generator struct {
	runtimeImport string
}

// NewGenerator creates a new code generator targeting the default runtime
func NewGenerator() *Generator {
	return NewGeneratorWithRuntime(DefaultRuntimeImport)
}

// NewGeneratorWithRuntime creates a code generator whose output imports the
// runtime from importPath
func NewGeneratorWithRuntime(importPath string) *Generator {
	if importPath == "" {
		importPath = DefaultRuntimeImport
	}
	return &Generator{runtimeImport: importPath}
}

// RuntimeImport returns the runtime import path of generated files
func (g *Generator) RuntimeImport() string {
	return g.runtimeImport
}

// GenerateWrapper generates the wrapper constructor for one exported
// function
func (g *Generator) GenerateWrapper(spec *models.FnSpec) (string, error) {
	if spec == nil {
		return "", fmt.Errorf("spec cannot be nil")
	}
	code, err := templates.GenerateWrapper(g.buildWrapperData(spec))
	if err != nil {
		return "", errors.WrapTemplateError(templates.WrapperTemplate, "execute", err).
			WithLocation(spec.Location)
	}
	return code, nil
}

// GenerateModuleEntry generates the entry point, module definition, init
// function and loader registration of one module
func (g *Generator) GenerateModuleEntry(mod *models.ModuleSpec) (string, error) {
	if mod == nil {
		return "", fmt.Errorf("module cannot be nil")
	}
	data := templates.ModuleData{
		RT:         runtimeName,
		Name:       mod.Name,
		Doc:        mod.Doc,
		EntryPoint: EntryPointName(mod.Name),
		ModuleDef:  ModuleDefName(mod.Name),
		InitName:   InitFuncName(mod.Name),
		UserInit:   mod.InitFunc,
	}
	for _, fn := range mod.Functions {
		data.Wrappers = append(data.Wrappers, WrapperName(fn.Ident))
	}
	code, err := templates.GenerateModuleEntry(data)
	if err != nil {
		return "", errors.WrapTemplateError(templates.ModuleEntryTemplate, "execute", err).
			WithLocation(mod.Location)
	}
	return code, nil
}

// GenerateFile generates the complete formatted binding file for a package.
// Wrappers appear in source order and modules in name order, so the output
// only changes when the package's exports do.
func (g *Generator) GenerateFile(metadata *models.PackageMetadata) (*models.GeneratedFile, error) {
	if metadata == nil {
		return nil, fmt.Errorf("metadata cannot be nil")
	}

	if err := checkNames(metadata); err != nil {
		return nil, err
	}

	imports := templates.NewImportManager()
	imports.AddImport(runtimeName, g.runtimeImport)
	for _, imp := range metadata.Imports {
		if !imports.AddImport(imp.Name, imp.Path) {
			return nil, errors.New(errors.ConflictErrorCode,
				fmt.Sprintf("import %q binds '%s', the name generated code uses for the runtime", imp.Path, imp.LocalName())).
				WithLocation(imp.Location).
				WithContext("package", metadata.PackagePath).
				WithSuggestion("give the import an explicit alias")
		}
	}

	data := templates.FileData{
		PackageName: metadata.PackageName,
		Imports:     imports.Imports(),
	}
	for _, fn := range metadata.Functions {
		code, err := g.GenerateWrapper(fn)
		if err != nil {
			return nil, err
		}
		data.Wrappers = append(data.Wrappers, code)
	}
	for _, mod := range metadata.Modules {
		code, err := g.GenerateModuleEntry(mod)
		if err != nil {
			return nil, err
		}
		data.Modules = append(data.Modules, code)
	}

	source, err := templates.GenerateFile(data)
	if err != nil {
		return nil, errors.WrapTemplateError(templates.FileTemplate, "execute", err)
	}

	filePath := filepath.Join(metadata.PackagePath, parser.GeneratedFileName)
	formatted, err := utils.FormatGeneratedSource(filePath, []byte(source))
	if err != nil {
		return nil, errors.WrapGenerateError("format", filePath, err)
	}

	return &models.GeneratedFile{
		PackageName: metadata.PackageName,
		FilePath:    filePath,
		Content:     string(formatted),
		Wrappers:    len(data.Wrappers),
		Modules:     len(data.Modules),
	}, nil
}

func (g *Generator) buildWrapperData(spec *models.FnSpec) templates.WrapperData {
	data := templates.WrapperData{
		RT:          runtimeName,
		WrapperName: WrapperName(spec.Ident),
		Ident:       spec.Ident,
		Name:        spec.Name,
		Location:    spec.Name + "()",
		Doc:         docString(spec),
		ReturnMode:  returnMode(spec.Signature.Return),
	}

	for i, p := range spec.InterpreterParams() {
		param := templates.ParamData{
			Index:       i,
			Name:        p.Name,
			Var:         ArgVarName(p.Name),
			NativeType:  p.NativeType,
			ExtractType: p.ExtractType(),
			IsOptional:  spec.IsOptional(p),
			KwOnly:      spec.IsKwOnly(p.Name),
		}
		switch {
		case p.Optional:
			param.ExtractFunc = "ExtractOptional"
		case p.ByRef:
			param.ExtractFunc = "ExtractRef"
		default:
			param.ExtractFunc = "Extract"
		}
		if def, ok := spec.DefaultValue(p.Name); ok {
			param.Default = defaultExpr(p, def)
		}
		data.Params = append(data.Params, param)
	}

	args := make([]string, 0, len(spec.Signature.Parameters))
	for _, p := range spec.Signature.Parameters {
		switch {
		case p.IsRuntimeContext && p.ByRef:
			args = append(args, "&_py")
		case p.IsRuntimeContext:
			args = append(args, "_py")
		default:
			args = append(args, ArgVarName(p.Name))
		}
		if spec.IsArgs(p.Name) {
			data.VarArgs = &templates.CollectorData{Var: ArgVarName(p.Name), NativeType: p.NativeType}
		}
		if spec.IsKwargs(p.Name) {
			data.KwArgs = &templates.CollectorData{Var: ArgVarName(p.Name), NativeType: p.NativeType}
		}
	}
	data.Call = fmt.Sprintf("%s(%s)", spec.Ident, strings.Join(args, ", "))

	return data
}

// defaultExpr is the expression assigned to an omitted parameter. Defaults
// of optional parameters name the inner value; nil and None mean absent.
func defaultExpr(p models.ParameterSpec, def string) string {
	if !p.Optional {
		return def
	}
	if def == "nil" || def == "None" {
		return ""
	}
	return fmt.Sprintf("%s.Some[%s](%s)", runtimeName, p.OptionalInner, def)
}

func returnMode(ret models.ReturnSpec) string {
	switch ret.Kind {
	case models.ReturnValue, models.ReturnOptional:
		return templates.ReturnModeValue
	case models.ReturnResult:
		if ret.Inner == models.ReturnUnit {
			return templates.ReturnModeResultUnit
		}
		return templates.ReturnModeResultValue
	default:
		return templates.ReturnModeUnit
	}
}

// docString is the __doc__ of the function object, carrying the text
// signature header when one was given
func docString(spec *models.FnSpec) string {
	if spec.TextSignature == "" {
		return spec.Doc
	}
	return spec.Name + spec.TextSignature + "\n--\n\n" + spec.Doc
}

// checkNames verifies that no two exports produce the same generated
// identifier or the same entry point
func checkNames(metadata *models.PackageMetadata) error {
	errs := errors.NewMultipleErrors()

	wrappers := make(map[string]*models.FnSpec)
	for _, fn := range metadata.Functions {
		name := WrapperName(fn.Ident)
		if prev, exists := wrappers[name]; exists {
			errs.Add(errors.Conflict(fn.Location, "wrapper", name, prev.Location))
			continue
		}
		wrappers[name] = fn
	}

	entries := make(map[string]*models.ModuleSpec)
	for _, mod := range metadata.Modules {
		name := EntryPointName(mod.Name)
		if prev, exists := entries[name]; exists {
			errs.Add(errors.Conflict(mod.Location, "module entry point", name, prev.Location))
			continue
		}
		entries[name] = mod
	}

	return errs.ErrorOrNil()
}
