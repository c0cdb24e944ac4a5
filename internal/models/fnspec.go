package models

import "github.com/toyz/pybind/internal/errors"

// FnSpec is everything the wrapper synthesizer needs for one exported
// function
type FnSpec struct {
	Ident         string // Go identifier of the wrapped function
	Name          string // name the interpreter sees
	Module        string // module the function is registered in
	Convention    CallingConvention
	Signature     FunctionSignature
	Args          []ArgDirective
	Doc           string // doc comment with directives removed
	TextSignature string // argument list from text_signature, if any
	Location      errors.SourceLocation
}

func (s *FnSpec) directive(name string) (ArgDirective, bool) {
	for _, a := range s.Args {
		if a.Name == name {
			return a, true
		}
	}
	return ArgDirective{}, false
}

// IsArgs reports whether name collects the remaining positionals
func (s *FnSpec) IsArgs(name string) bool {
	a, ok := s.directive(name)
	return ok && a.Kind == ArgVarArgs
}

// IsKwargs reports whether name collects the unmatched keywords
func (s *FnSpec) IsKwargs(name string) bool {
	a, ok := s.directive(name)
	return ok && a.Kind == ArgKeywordArgs
}

// DefaultValue returns the default expression of name, if one was given
func (s *FnSpec) DefaultValue(name string) (string, bool) {
	a, ok := s.directive(name)
	if !ok || a.Kind != ArgDefault {
		return "", false
	}
	return a.Default, true
}

// IsKwOnly reports whether name can only be passed by keyword
func (s *FnSpec) IsKwOnly(name string) bool {
	a, ok := s.directive(name)
	return ok && a.KwOnly
}

// AcceptArgs reports whether surplus positionals are collected
func (s *FnSpec) AcceptArgs() bool {
	for _, a := range s.Args {
		if a.Kind == ArgVarArgs {
			return true
		}
	}
	return false
}

// AcceptKwargs reports whether unmatched keywords are collected
func (s *FnSpec) AcceptKwargs() bool {
	for _, a := range s.Args {
		if a.Kind == ArgKeywordArgs {
			return true
		}
	}
	return false
}

// IsOptional reports whether the caller may omit p
func (s *FnSpec) IsOptional(p ParameterSpec) bool {
	if p.Optional {
		return true
	}
	_, ok := s.DefaultValue(p.Name)
	return ok
}

// InterpreterParams returns the parameters matched by ParseFnArgs: every
// declared parameter except the runtime context and the collectors, in
// declaration order
func (s *FnSpec) InterpreterParams() []ParameterSpec {
	var params []ParameterSpec
	for _, p := range s.Signature.Parameters {
		if p.IsRuntimeContext || s.IsArgs(p.Name) || s.IsKwargs(p.Name) {
			continue
		}
		params = append(params, p)
	}
	return params
}
