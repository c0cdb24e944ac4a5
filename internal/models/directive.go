package models

import "github.com/toyz/pybind/internal/errors"

// ArgDirective is one per-argument entry of a //py:fn directive
type ArgDirective struct {
	Kind    ArgKind
	Name    string // parameter name, empty for a bare separator
	Default string // Go expression text for ArgDefault
	// KwOnly is set for directives that follow a separator or varargs
	KwOnly bool
}

// ExportDirective is a parsed //py:fn(module, "name", args...)
type ExportDirective struct {
	Module   string
	Name     string
	Args     []ArgDirective
	Raw      string // directive text as written, for diagnostics
	Location errors.SourceLocation
}

// ModuleDirective is a parsed //py:module(name, "doc") on an init function
type ModuleDirective struct {
	Name     string
	Doc      string
	HasDoc   bool   // Doc was given explicitly rather than taken from comments
	InitFunc string // Go identifier of the init function, if any
	Location errors.SourceLocation
}

// ExternalDirectives are exports declared outside of source comments, for
// one package directory
type ExternalDirectives struct {
	// Exports are keyed by the Go identifier of the exported function
	Exports map[string]*ExportDirective
	Modules []ModuleDirective
}
