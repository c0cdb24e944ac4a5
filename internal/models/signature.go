package models

import "github.com/toyz/pybind/internal/errors"

// ParameterSpec describes one declared parameter of an exported function
type ParameterSpec struct {
	Name       string // parameter name as declared
	NativeType string // type expression as written in source
	// ElemType is the pointee of a pointer parameter, or NativeType otherwise
	ElemType string
	// OptionalInner is T for a parameter of type pyrt.Optional[T]
	OptionalInner string

	Mutable  bool // the binding may be reassigned by the callee
	ByRef    bool // the type is a pointer
	Optional bool // the type is pyrt.Optional[T]

	// IsRuntimeContext parameters receive the ambient pyrt.Python handle and
	// are invisible to the interpreter
	IsRuntimeContext bool
	// PassByReference parameters borrow the object's payload instead of a copy
	PassByReference bool

	Location errors.SourceLocation
}

// ExtractType is the type argument used to pull the value out of an object
func (p ParameterSpec) ExtractType() string {
	switch {
	case p.Optional:
		return p.OptionalInner
	case p.ByRef:
		return p.ElemType
	default:
		return p.NativeType
	}
}

// ReturnSpec describes the result list of an exported function
type ReturnSpec struct {
	Kind ReturnKind
	// Inner classifies the value part of a ReturnResult: ReturnUnit for a
	// lone error, otherwise ReturnValue or ReturnOptional
	Inner ReturnKind
	// NativeType is the non-error result type as written, empty for unit
	NativeType string
}

// HasValue reports whether the function produces a non-error result
func (r ReturnSpec) HasValue() bool {
	switch r.Kind {
	case ReturnValue, ReturnOptional:
		return true
	case ReturnResult:
		return r.Inner != ReturnUnit
	default:
		return false
	}
}

// FunctionSignature is the extracted shape of an exported function
type FunctionSignature struct {
	Name       string
	Parameters []ParameterSpec
	Return     ReturnSpec
	Location   errors.SourceLocation
}

// Parameter returns the parameter called name
func (s FunctionSignature) Parameter(name string) (ParameterSpec, bool) {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterSpec{}, false
}
