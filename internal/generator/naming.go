package generator

import "github.com/toyz/pybind/pkg/pyrt"

// Prefixes of generated identifiers. Every name is derived from a Go
// identifier or a module name, which are unique within a package, so the
// generated names are unique too.
const (
	WrapperPrefix   = "__generated_get_function_"
	ModuleDefPrefix = "__generated_module_def_"
	InitFuncPrefix  = "__generated_init_"
)

// WrapperName is the constructor of the interpreter function object for
// the Go function ident
func WrapperName(ident string) string {
	return WrapperPrefix + ident
}

// EntryPointName is the loader symbol of module
func EntryPointName(module string) string {
	return pyrt.EntryPointName(module)
}

// ModuleDefName is the package-level module definition variable of module
func ModuleDefName(module string) string {
	return ModuleDefPrefix + module
}

// InitFuncName is the generated function that populates module
func InitFuncName(module string) string {
	return InitFuncPrefix + module
}

// ArgVarName is the wrapper local holding the extracted parameter name
func ArgVarName(name string) string {
	return "_arg_" + name
}
