package templates

// ParamData is one interpreter-visible parameter of a wrapper
type ParamData struct {
	Index       int
	Name        string // parameter name, used in error messages and keywords
	Var         string // local variable holding the extracted value
	NativeType  string
	ExtractFunc string // Extract, ExtractRef or ExtractOptional
	ExtractType string
	IsOptional  bool
	KwOnly      bool
	Default     string // expression assigned when the caller omits the argument
}

// CollectorData is a *args or **kwargs parameter
type CollectorData struct {
	Var        string
	NativeType string
}

// Return modes of WrapperData
const (
	ReturnModeUnit        = "unit"
	ReturnModeValue       = "value"
	ReturnModeResultUnit  = "result-unit"
	ReturnModeResultValue = "result-value"
)

// WrapperData feeds the wrapper template
type WrapperData struct {
	RT          string // local name of the runtime package
	WrapperName string
	Ident       string
	Name        string
	Location    string
	Doc         string
	Params      []ParamData
	VarArgs     *CollectorData
	KwArgs      *CollectorData
	Call        string // call expression of the wrapped function
	ReturnMode  string
}

// ModuleData feeds the module entry template
type ModuleData struct {
	RT         string
	Name       string
	Doc        string
	EntryPoint string
	ModuleDef  string
	InitName   string
	UserInit   string
	Wrappers   []string // wrapper constructors to register, in order
}

// FileData feeds the file template
type FileData struct {
	PackageName string
	Imports     []ImportData
	Wrappers    []string
	Modules     []string
}
