package templates

// Template names
const (
	FileTemplate        = "file"
	WrapperTemplate     = "wrapper"
	ModuleEntryTemplate = "module-entry"
)

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerFileTemplates()
	registry.registerWrapperTemplates()
	registry.registerModuleTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

func (tr *TemplateRegistry) registerFileTemplates() {
	tr.templates[FileTemplate] = `// Code generated by pybind. DO NOT EDIT.

package {{.PackageName}}

import (
{{- range .Imports}}
	{{if .Name}}{{.Name}} {{end}}{{printf "%q" .Path}}
{{- end}}
)
{{range .Wrappers}}
{{.}}
{{end}}{{range .Modules}}
{{.}}
{{end}}`
}

// The wrapper template follows the interpreter calling convention: it
// receives (self, args, kwargs), matches arguments through ParseFnArgs,
// extracts each one, calls the function and converts the result. Every
// local is underscore-prefixed so it cannot collide with parameter names.
func (tr *TemplateRegistry) registerWrapperTemplates() {
	tr.templates[WrapperTemplate] = `// {{.WrapperName}} builds the interpreter function object for {{.Ident}}.
func {{.WrapperName}}(_py {{.RT}}.Python) *{{.RT}}.Object {
	_wrap := func(_slf, _args, _kwargs *{{.RT}}.Object) *{{.RT}}.Object {
		const _location = {{printf "%q" .Location}}
		return {{.RT}}.CallbackBody(func(_py {{.RT}}.Python) (*{{.RT}}.Object, error) {
			_argsTuple := _py.BorrowTuple(_args)
			_kwargsDict := _py.BorrowDictOrNil(_kwargs)
			_params := []{{.RT}}.ParamDescription{
{{- range .Params}}
				{Name: {{printf "%q" .Name}}, IsOptional: {{.IsOptional}}, KwOnly: {{.KwOnly}}},
{{- end}}
			}
			_output := make([]*{{.RT}}.Object, {{len .Params}})
			{{if .VarArgs}}_rest{{else}}_{{end}}, {{if .KwArgs}}_kw{{else}}_{{end}}, _err := {{.RT}}.ParseFnArgs(_location, _params, _argsTuple, _kwargsDict, {{if .VarArgs}}true{{else}}false{{end}}, {{if .KwArgs}}true{{else}}false{{end}}, _output)
			if _err != nil {
				return nil, _err
			}
{{- range .Params}}
			var {{.Var}} {{.NativeType}}
			if _output[{{.Index}}] != nil {
				{{.Var}}, _err = {{$.RT}}.{{.ExtractFunc}}[{{.ExtractType}}](_output[{{.Index}}])
				if _err != nil {
					return nil, {{$.RT}}.ArgumentError(_location, {{printf "%q" .Name}}, _err)
				}
			}{{if .Default}} else {
				{{.Var}} = {{.Default}}
			}{{end}}
{{- end}}
{{- with .VarArgs}}
			var {{.Var}} {{.NativeType}} = _rest
{{- end}}
{{- with .KwArgs}}
			var {{.Var}} {{.NativeType}} = _kw
{{- end}}
{{- if eq .ReturnMode "value"}}
			_ret := {{.Call}}
			return {{.RT}}.IntoPy(_py, _ret)
{{- else if eq .ReturnMode "result-value"}}
			_ret, _err := {{.Call}}
			if _err != nil {
				return nil, _err
			}
			return {{.RT}}.IntoPy(_py, _ret)
{{- else if eq .ReturnMode "result-unit"}}
			if _err = {{.Call}}; _err != nil {
				return nil, _err
			}
			return {{.RT}}.None, nil
{{- else}}
			{{.Call}}
			return {{.RT}}.None, nil
{{- end}}
		})
	}
	return _py.NewCFunction(&{{.RT}}.MethodDef{
		Name:  {{printf "%q" .Name}},
		Meth:  _wrap,
		Flags: {{.RT}}.MethVarargs | {{.RT}}.MethKeywords,
		Doc:   {{printf "%q" .Doc}},
	})
}`
}

func (tr *TemplateRegistry) registerModuleTemplates() {
	tr.templates[ModuleEntryTemplate] = `// {{.EntryPoint}} initializes module {{.Name}}. It returns nil with the
// exception pending when initialization fails.
func {{.EntryPoint}}() *{{.RT}}.Object {
	_gil := {{.RT}}.EnsureGIL()
	defer _gil.Release()
	return {{.RT}}.CallbackBody(func(_py {{.RT}}.Python) (*{{.RT}}.Object, error) {
		return {{.ModuleDef}}.MakeModule(_py, {{printf "%q" .Doc}}, {{.InitName}})
	})
}

var {{.ModuleDef}} = {{.RT}}.NewModuleDef({{printf "%q" .Name}})

func {{.InitName}}(_py {{.RT}}.Python, _m *{{.RT}}.Module) error {
{{- range .Wrappers}}
	if err := _m.AddWrapped(_py, {{.}}); err != nil {
		return err
	}
{{- end}}
{{- if .UserInit}}
	return {{.UserInit}}(_py, _m)
{{- else}}
	return nil
{{- end}}
}

func init() {
	{{.RT}}.RegisterEntryPoint({{printf "%q" .EntryPoint}}, {{.EntryPoint}})
}`
}
