package pyrt

import (
	"math"
	"reflect"
)

// Optional is the absent-or-present wrapper recognised by the generator:
// a parameter of type Optional[T] may be omitted by the caller, and a
// result of type Optional[T] converts to None when absent.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns a present Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// Absent returns the absent Optional.
func Absent[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsPresent reports whether o holds a value.
func (o Optional[T]) IsPresent() bool {
	return o.ok
}

// OrElse returns the value, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if !o.ok {
		return def
	}
	return o.value
}

// IntoPy converts o, mapping absent to None.
func (o Optional[T]) IntoPy(py Python) (*Object, error) {
	if !o.ok {
		return None, nil
	}
	return IntoPy(py, o.value)
}

// Converter is implemented by Go types that know their own interpreter
// representation.
type Converter interface {
	IntoPy(py Python) (*Object, error)
}

// Extract converts obj into a Go value of type T. Numbers are range
// checked; a native object whose payload is a T is unwrapped.
func Extract[T any](obj *Object) (T, error) {
	var out T
	if obj == nil {
		return out, NewTypeError("missing value")
	}
	switch p := any(&out).(type) {
	case **Object:
		*p = obj
		return out, nil
	case *Tuple:
		t, ok := obj.value.(Tuple)
		if !ok {
			return out, typeMismatch("tuple", obj)
		}
		*p = t
		return out, nil
	case **Dict:
		d, ok := obj.value.(*Dict)
		if !ok {
			return out, typeMismatch("dict", obj)
		}
		*p = d
		return out, nil
	case *string:
		s, ok := obj.value.(string)
		if !ok {
			return out, typeMismatch("str", obj)
		}
		*p = s
		return out, nil
	case *bool:
		b, ok := obj.value.(bool)
		if !ok {
			return out, typeMismatch("bool", obj)
		}
		*p = b
		return out, nil
	case *float64:
		f, err := extractFloat(obj)
		*p = f
		return out, err
	case *float32:
		f, err := extractFloat(obj)
		*p = float32(f)
		return out, err
	}

	if v, ok := obj.value.(T); ok && obj.typ == NativeType {
		return v, nil
	}

	rv := reflect.ValueOf(&out).Elem()
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := obj.value.(int64)
		if !ok || obj.typ != IntType {
			return out, typeMismatch("int", obj)
		}
		if rv.OverflowInt(i) {
			return out, NewException(OverflowErrorType, "int %d out of range for %s", i, rv.Type())
		}
		rv.SetInt(i)
		return out, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, ok := obj.value.(int64)
		if !ok || obj.typ != IntType {
			return out, typeMismatch("int", obj)
		}
		if i < 0 || rv.OverflowUint(uint64(i)) {
			return out, NewException(OverflowErrorType, "int %d out of range for %s", i, rv.Type())
		}
		rv.SetUint(uint64(i))
		return out, nil
	}
	return out, NewTypeError("cannot convert '%s' object to %s", obj.typ.name, rv.Type())
}

// ExtractRef borrows a *T from obj when its payload is one, so the callee
// sees and mutates the interpreter's copy. Any other object is extracted
// by value into a fresh T.
func ExtractRef[T any](obj *Object) (*T, error) {
	if obj == nil {
		return nil, NewTypeError("missing value")
	}
	if p, ok := any(obj).(*T); ok {
		return p, nil
	}
	if p, ok := obj.value.(*T); ok {
		return p, nil
	}
	v, err := Extract[T](obj)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ExtractOptional maps nil and None to Absent and anything else to Some.
func ExtractOptional[T any](obj *Object) (Optional[T], error) {
	if obj.IsNone() {
		return Absent[T](), nil
	}
	v, err := Extract[T](obj)
	if err != nil {
		return Absent[T](), err
	}
	return Some(v), nil
}

// IntoPy converts a Go value into an object. Values without a natural
// representation are wrapped as native objects.
func IntoPy[T any](py Python, v T) (*Object, error) {
	switch x := any(v).(type) {
	case nil:
		return None, nil
	case *Object:
		if x == nil {
			return None, nil
		}
		return x, nil
	case Converter:
		return x.IntoPy(py)
	case Tuple:
		return x.ToObject(), nil
	case *Dict:
		return x.ToObject(), nil
	case string:
		return NewStr(x), nil
	case bool:
		return NewBool(x), nil
	case float64:
		return NewFloat(x), nil
	case float32:
		return NewFloat(float64(x)), nil
	case error:
		return ToException(x).ToObject(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, NewException(OverflowErrorType, "%d does not fit in int", u)
		}
		return NewInt(int64(u)), nil
	case reflect.Slice:
		if rv.IsNil() {
			return None, nil
		}
		items := make(Tuple, rv.Len())
		for i := range items {
			item, err := IntoPy(py, rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return items.ToObject(), nil
	case reflect.Pointer, reflect.Map, reflect.Interface:
		if rv.IsNil() {
			return None, nil
		}
	}
	return NewNative(v), nil
}

func extractFloat(obj *Object) (float64, error) {
	switch x := obj.value.(type) {
	case float64:
		return x, nil
	case int64:
		if obj.typ == IntType {
			return float64(x), nil
		}
	}
	return 0, typeMismatch("float", obj)
}

func typeMismatch(want string, obj *Object) *Exception {
	return NewTypeError("expected %s, got '%s'", want, obj.typ.name)
}
