package parser

const (
	// GeneratedFileName is the file written next to the annotated sources. The
	// parser never reads it back.
	GeneratedFileName = "autogen_pybind.go"

	// RuntimeContextType is the final path segment of the runtime-context
	// parameter type
	RuntimeContextType = "Python"
	// OptionalType is the final path segment of the optional wrapper
	OptionalType = "Optional"
	// TupleType and DictType are the collector types for *args and **kwargs
	TupleType = "Tuple"
	DictType  = "Dict"
	// ModuleType is the module parameter of a //py:module init function
	ModuleType = "Module"
)
