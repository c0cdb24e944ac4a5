package errors

import "fmt"

// Constructors for the diagnostics raised while reading //py: directives and
// function signatures. All of them are fatal for the package being generated.

// MalformedDirective reports a directive that could not be parsed or has the
// wrong shape. raw is the directive text as written.
func MalformedDirective(loc SourceLocation, raw, reason string) *BaseError {
	return New(DirectiveErrorCode, fmt.Sprintf("malformed directive %q: %s", raw, reason)).
		WithLocation(loc).
		WithContext("directive", raw).
		WithSuggestion(`expected //py:fn(<module>, "<name>", <args>...)`)
}

// DuplicateDirective reports a second //py:fn on one function.
func DuplicateDirective(loc SourceLocation, name string) *BaseError {
	return New(DirectiveErrorCode, fmt.Sprintf("duplicate //py:%s directive", name)).
		WithLocation(loc).
		WithSuggestion("export a function at most once; wrap it in a second Go function to export it under another name")
}

// UnexpectedReceiver reports a //py:fn placed on a method.
func UnexpectedReceiver(loc SourceLocation, function string) *BaseError {
	return New(SignatureErrorCode, "unexpected receiver for //py:fn").
		WithLocation(loc).
		WithContext("function", function).
		WithSuggestion("only package-level functions can be exported; call the method from a plain function")
}

// UnsupportedArgument reports a parameter binding the wrapper cannot name.
func UnsupportedArgument(loc SourceLocation, function, construct string) *BaseError {
	return New(SignatureErrorCode, fmt.Sprintf("unsupported argument: %s", construct)).
		WithLocation(loc).
		WithContext("function", function).
		WithSuggestion("give every parameter a name and a non-variadic type")
}

// UnsupportedReturn reports a result list the wrapper cannot convert.
func UnsupportedReturn(loc SourceLocation, function, results string) *BaseError {
	return New(SignatureErrorCode, fmt.Sprintf("unsupported return: %s", results)).
		WithLocation(loc).
		WithContext("function", function).
		WithSuggestion("return nothing, a single value, an error, or (value, error)")
}

// UnknownParameter reports an argument directive naming no parameter.
func UnknownParameter(loc SourceLocation, function, param string) *BaseError {
	return New(DirectiveErrorCode, fmt.Sprintf("argument directive names unknown parameter '%s' of %s", param, function)).
		WithLocation(loc).
		WithContext("function", function).
		WithContext("parameter", param)
}

// InvalidCollector reports a *args or **kwargs directive on a parameter of
// the wrong type.
func InvalidCollector(loc SourceLocation, param, collects, want, got string) *BaseError {
	return New(DirectiveErrorCode, fmt.Sprintf("parameter '%s' collects %s and must have type %s, not %s", param, collects, want, got)).
		WithLocation(loc).
		WithContext("parameter", param)
}

// Conflict reports two exports competing for one generated or exported name.
func Conflict(loc SourceLocation, kind, name string, previous SourceLocation) *BaseError {
	return New(ConflictErrorCode, fmt.Sprintf("duplicate %s '%s'", kind, name)).
		WithLocation(loc).
		WithContext("previous", previous.String()).
		WithSuggestion(fmt.Sprintf("previously declared at %s", previous))
}
