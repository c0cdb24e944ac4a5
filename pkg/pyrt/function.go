package pyrt

// CFunction is the fixed calling convention of every function exposed to
// the interpreter: call target, positional tuple, keyword dict (nil when no
// keywords were passed). A nil result means an exception is pending.
type CFunction func(slf, args, kwargs *Object) *Object

// MethodFlags describe which argument containers a CFunction accepts.
type MethodFlags int

const (
	MethVarargs MethodFlags = 1 << iota
	MethKeywords
	MethNoArgs
)

// MethodDef describes a native function: its interpreter name, entry
// point, calling flags and docstring.
type MethodDef struct {
	Name  string
	Meth  CFunction
	Flags MethodFlags
	Doc   string
}

type builtinFunction struct {
	def  *MethodDef
	self *Object
}

// NewCFunction creates a builtin function object for def.
func (py Python) NewCFunction(def *MethodDef) *Object {
	return &Object{typ: FunctionType, value: &builtinFunction{def: def, self: None}}
}

// FunctionName returns the __name__ of a builtin function object.
func FunctionName(fn *Object) (string, bool) {
	f, ok := fn.value.(*builtinFunction)
	if !ok {
		return "", false
	}
	return f.def.Name, true
}

// FunctionDoc returns the __doc__ of a builtin function object.
func FunctionDoc(fn *Object) (string, bool) {
	f, ok := fn.value.(*builtinFunction)
	if !ok {
		return "", false
	}
	return f.def.Doc, true
}

// Call invokes callable with the GIL held, converting the pending-exception
// protocol back into a Go error.
func Call(py Python, callable *Object, args Tuple, kwargs *Dict) (*Object, error) {
	f, ok := callable.value.(*builtinFunction)
	if !ok {
		return nil, NewTypeError("'%s' object is not callable", callable.typ.name)
	}
	if f.def.Flags&MethNoArgs != 0 && (len(args) > 0 || kwargs.Len() > 0) {
		return nil, NewTypeError("%s() takes no arguments", f.def.Name)
	}
	if f.def.Flags&MethKeywords == 0 && kwargs.Len() > 0 {
		return nil, NewTypeError("%s() takes no keyword arguments", f.def.Name)
	}

	var kwObj *Object
	if kwargs.Len() > 0 {
		kwObj = kwargs.ToObject()
	}
	ret := f.def.Meth(f.self, args.ToObject(), kwObj)
	if ret == nil {
		if exc := py.ErrFetch(); exc != nil {
			return nil, exc
		}
		return nil, NewException(SystemErrorType, "%s() returned NULL without setting an exception", f.def.Name)
	}
	if exc := py.ErrFetch(); exc != nil {
		return nil, NewException(SystemErrorType, "%s() returned a result with an exception set: %s", f.def.Name, exc.Error())
	}
	return ret, nil
}

// CallAttr looks up name on a module object and calls it.
func CallAttr(py Python, obj *Object, name string, args Tuple, kwargs *Dict) (*Object, error) {
	m, ok := AsModule(obj)
	if !ok {
		return nil, NewException(AttributeErrorType, "'%s' object has no attribute '%s'", obj.typ.name, name)
	}
	fn, err := m.Getattr(name)
	if err != nil {
		return nil, err
	}
	return Call(py, fn, args, kwargs)
}

// CallbackBody is the protective boundary around every wrapper body. It
// runs body with the ambient Python handle and guarantees that neither a
// returned error nor a panic crosses the boundary: both become the pending
// exception and the result is nil.
func CallbackBody(body func(py Python) (*Object, error)) (ret *Object) {
	py := AssumeGILAcquired()
	if err := py.enterCall(); err != nil {
		py.ErrSet(err)
		return nil
	}
	defer py.leaveCall()
	defer func() {
		if r := recover(); r != nil {
			if exc, ok := r.(*Exception); ok {
				py.ErrSet(exc)
			} else {
				py.ErrSet(newPanicException(r))
			}
			ret = nil
		}
	}()

	obj, err := body(py)
	if err != nil {
		py.ErrSet(err)
		return nil
	}
	if obj == nil {
		py.ErrSet(NewException(SystemErrorType, "wrapper returned nil without an error"))
		return nil
	}
	return obj
}
