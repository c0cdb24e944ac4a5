package pyrt

import (
	"errors"
	"fmt"
)

// Exception types raised by the runtime and by generated wrappers.
var (
	BaseExceptionType  = &Type{name: "BaseException"}
	TypeErrorType      = &Type{name: "TypeError"}
	ValueErrorType     = &Type{name: "ValueError"}
	OverflowErrorType  = &Type{name: "OverflowError"}
	RuntimeErrorType   = &Type{name: "RuntimeError"}
	RecursionErrorType = &Type{name: "RecursionError"}
	SystemErrorType    = &Type{name: "SystemError"}
	ImportErrorType    = &Type{name: "ImportError"}
	AttributeErrorType = &Type{name: "AttributeError"}
	// PanicExceptionType is raised when Go code behind a wrapper panics.
	PanicExceptionType = &Type{name: "PanicException"}
)

// Exception is an interpreter exception. It satisfies error so Go code can
// return it directly; CallbackBody raises it unchanged.
type Exception struct {
	typ   *Type
	msg   string
	cause error
}

// NewException creates an exception of type typ.
func NewException(typ *Type, format string, args ...any) *Exception {
	return &Exception{typ: typ, msg: fmt.Sprintf(format, args...)}
}

// NewTypeError creates a TypeError.
func NewTypeError(format string, args ...any) *Exception {
	return NewException(TypeErrorType, format, args...)
}

// NewValueError creates a ValueError.
func NewValueError(format string, args ...any) *Exception {
	return NewException(ValueErrorType, format, args...)
}

// NewRuntimeError creates a RuntimeError.
func NewRuntimeError(format string, args ...any) *Exception {
	return NewException(RuntimeErrorType, format, args...)
}

// Type returns the exception's type.
func (e *Exception) Type() *Type {
	return e.typ
}

// Message returns the exception message.
func (e *Exception) Message() string {
	return e.msg
}

func (e *Exception) Error() string {
	if e.msg == "" {
		return e.typ.name
	}
	return e.typ.name + ": " + e.msg
}

// Unwrap returns the Go error the exception was translated from, if any.
func (e *Exception) Unwrap() error {
	return e.cause
}

// ToObject upcasts e.
func (e *Exception) ToObject() *Object {
	return &Object{typ: e.typ, value: e}
}

// IsInstance reports whether err is, or wraps, an exception of type typ.
func IsInstance(err error, typ *Type) bool {
	var exc *Exception
	if !errors.As(err, &exc) {
		return false
	}
	return exc.typ == typ || typ == BaseExceptionType
}

// ToException translates a Go error into an exception. Exceptions pass
// through unchanged; any other error becomes a RuntimeError carrying it.
func ToException(err error) *Exception {
	if err == nil {
		return nil
	}
	var exc *Exception
	if errors.As(err, &exc) {
		return exc
	}
	return &Exception{typ: RuntimeErrorType, msg: err.Error(), cause: err}
}

// PanicError is the cause attached to a PanicException.
type PanicError struct {
	Value any
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

func newPanicException(recovered any) *Exception {
	if err, ok := recovered.(error); ok {
		return &Exception{typ: PanicExceptionType, msg: err.Error(), cause: &PanicError{Value: recovered}}
	}
	return &Exception{typ: PanicExceptionType, msg: fmt.Sprint(recovered), cause: &PanicError{Value: recovered}}
}

// ArgumentError reports a failed conversion of the named argument of the
// function at location.
func ArgumentError(location, name string, err error) error {
	exc := ToException(err)
	return &Exception{
		typ:   exc.typ,
		msg:   fmt.Sprintf("%s argument '%s': %s", location, name, exc.msg),
		cause: err,
	}
}
