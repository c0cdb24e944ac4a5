package models

// ReturnKind classifies the result list of an exported function
type ReturnKind int

const (
	// ReturnUnit is a function with no results
	ReturnUnit ReturnKind = iota
	// ReturnValue is a single non-error result
	ReturnValue
	// ReturnOptional is a single pyrt.Optional[T] result
	ReturnOptional
	// ReturnResult is a last result of type error, with or without a value
	ReturnResult
)

// String returns the string representation of the return kind
func (k ReturnKind) String() string {
	switch k {
	case ReturnUnit:
		return "unit"
	case ReturnValue:
		return "value"
	case ReturnOptional:
		return "optional"
	case ReturnResult:
		return "result"
	default:
		return "unknown"
	}
}

// ArgKind classifies one argument directive of a //py:fn
type ArgKind int

const (
	// ArgPlain marks a parameter by name without changing its behaviour
	ArgPlain ArgKind = iota
	// ArgDefault gives a parameter a default value expression
	ArgDefault
	// ArgVarArgsSeparator is a bare "*": later arguments are keyword-only
	ArgVarArgsSeparator
	// ArgVarArgs collects the remaining positionals ("*name")
	ArgVarArgs
	// ArgKeywordArgs collects the unmatched keywords ("**name")
	ArgKeywordArgs
)

// String returns the string representation of the argument kind
func (k ArgKind) String() string {
	switch k {
	case ArgPlain:
		return "plain"
	case ArgDefault:
		return "default"
	case ArgVarArgsSeparator:
		return "separator"
	case ArgVarArgs:
		return "varargs"
	case ArgKeywordArgs:
		return "kwargs"
	default:
		return "unknown"
	}
}

// CallingConvention describes how the interpreter invokes a wrapper
type CallingConvention int

const (
	// FnStatic is a free function called with (args, kwargs)
	FnStatic CallingConvention = iota
	// FnMethod is a function bound to a receiver object
	FnMethod
)

// ErrorType represents different types of generator errors
type ErrorType int

const (
	ErrorTypeDirectiveSyntax ErrorType = iota
	ErrorTypeValidation
	ErrorTypeGeneration
	ErrorTypeFileSystem
	ErrorTypeConfiguration
)

// String returns the phase name used in CLI output
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeDirectiveSyntax:
		return "directive"
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeGeneration:
		return "generation"
	case ErrorTypeFileSystem:
		return "filesystem"
	case ErrorTypeConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}
