// Package pyrt is the object model and calling convention that pybind
// generated code targets.
//
// Every value crossing the boundary is a *Object. Functions exported to the
// interpreter conform to CFunction: they receive the call target, a tuple of
// positional arguments and an optional dict of keyword arguments, and return
// either a result object or nil with an exception pending on the interpreter.
package pyrt

import (
	"fmt"
	"strconv"
	"strings"
)

// Type identifies the kind of an Object.
type Type struct {
	name string
}

// Name returns the type's interpreter-visible name.
func (t *Type) Name() string {
	return t.name
}

func (t *Type) String() string {
	return "<type '" + t.name + "'>"
}

var (
	NoneType     = &Type{name: "NoneType"}
	BoolType     = &Type{name: "bool"}
	IntType      = &Type{name: "int"}
	FloatType    = &Type{name: "float"}
	StrType      = &Type{name: "str"}
	TupleType    = &Type{name: "tuple"}
	DictType     = &Type{name: "dict"}
	FunctionType = &Type{name: "builtin_function_or_method"}
	ModuleType   = &Type{name: "module"}
	// NativeType wraps an arbitrary Go value that has no interpreter
	// counterpart.
	NativeType = &Type{name: "native"}
)

// Object is the interpreter's uniform value representation.
type Object struct {
	typ   *Type
	value any
}

var (
	// None is the singleton absent value.
	None = &Object{typ: NoneType}
	// True and False are the two bool singletons.
	True  = &Object{typ: BoolType, value: true}
	False = &Object{typ: BoolType, value: false}
)

// Type returns o's type.
func (o *Object) Type() *Type {
	return o.typ
}

// Value returns the Go payload held by o.
func (o *Object) Value() any {
	return o.value
}

// IsNone reports whether o is nil or the None singleton.
func (o *Object) IsNone() bool {
	return o == nil || o == None
}

// String returns the interpreter repr of o.
func (o *Object) String() string {
	if o == nil {
		return "<NULL>"
	}
	switch v := o.value.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return strconv.Quote(v)
	case Tuple:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = item.String()
		}
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *Dict:
		return v.String()
	case *builtinFunction:
		return fmt.Sprintf("<built-in function %s>", v.def.Name)
	case *Module:
		return fmt.Sprintf("<module '%s'>", v.name)
	case *Exception:
		return fmt.Sprintf("%s(%s)", v.typ.name, strconv.Quote(v.msg))
	default:
		return fmt.Sprintf("<native %T>", v)
	}
}

// NewBool returns True or False.
func NewBool(v bool) *Object {
	if v {
		return True
	}
	return False
}

// NewInt returns an int object.
func NewInt(v int64) *Object {
	return &Object{typ: IntType, value: v}
}

// NewFloat returns a float object.
func NewFloat(v float64) *Object {
	return &Object{typ: FloatType, value: v}
}

// NewStr returns a str object.
func NewStr(v string) *Object {
	return &Object{typ: StrType, value: v}
}

// NewNative wraps an arbitrary Go value. Pointers stored this way can be
// borrowed back with ExtractRef.
func NewNative(v any) *Object {
	return &Object{typ: NativeType, value: v}
}
