package pyrt

import (
	"fmt"
	"sync"
)

// EntryPointPrefix is prepended to a module name to form the symbol the
// loader looks up when importing it.
const EntryPointPrefix = "PyInit_"

// EntryPointName returns the loader symbol for module.
func EntryPointName(module string) string {
	return EntryPointPrefix + module
}

// EntryPoint is the signature of a module initialization entry point. It
// acquires the GIL itself and returns the module object, or nil with the
// exception pending.
type EntryPoint func() *Object

var (
	importMutex sync.Mutex
	entryPoints = map[string]EntryPoint{}
	// sysModules caches imported modules by name.
	sysModules = map[string]*Object{}
)

// RegisterEntryPoint makes symbol available to Import. Registering the same
// symbol twice panics, since two modules would claim one import name.
func RegisterEntryPoint(symbol string, fn EntryPoint) {
	importMutex.Lock()
	defer importMutex.Unlock()
	if _, exists := entryPoints[symbol]; exists {
		panic("pyrt: entry point already registered: " + symbol)
	}
	entryPoints[symbol] = fn
}

// Import returns the module called name, initializing it on first use by
// calling the entry point registered as EntryPointName(name). It must be
// called without holding the GIL.
func Import(name string) (*Object, error) {
	importMutex.Lock()
	defer importMutex.Unlock()

	if m, ok := sysModules[name]; ok {
		return m, nil
	}
	entry, ok := entryPoints[EntryPointName(name)]
	if !ok {
		return nil, NewException(ImportErrorType, "No module named %s", name)
	}

	m := entry()
	if m == nil {
		gil := EnsureGIL()
		defer gil.Release()
		if exc := gil.Python().ErrFetch(); exc != nil {
			return nil, exc
		}
		return nil, NewException(SystemErrorType, "initialization of %s failed without raising an exception", name)
	}
	if _, ok := AsModule(m); !ok {
		return nil, NewException(SystemErrorType, "initialization of %s did not return a module", name)
	}
	sysModules[name] = m
	return m, nil
}

// Module is an interpreter module: a named namespace of objects.
type Module struct {
	name string
	doc  string
	dict *Dict
}

// ModuleInit populates a freshly created module.
type ModuleInit func(py Python, m *Module) error

// AsModule downcasts o.
func AsModule(o *Object) (*Module, bool) {
	if o == nil {
		return nil, false
	}
	m, ok := o.value.(*Module)
	return m, ok
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// Doc returns the module docstring.
func (m *Module) Doc() string {
	return m.doc
}

// Names lists the attributes of m in sorted order.
func (m *Module) Names() []string {
	return m.dict.sortedKeys()
}

// Getattr looks up an attribute.
func (m *Module) Getattr(name string) (*Object, error) {
	v, ok := m.dict.Get(name)
	if !ok {
		return nil, NewException(AttributeErrorType, "'module' object '%s' has no attribute '%s'", m.name, name)
	}
	return v, nil
}

// Add binds value to name. Rebinding an existing function name is an
// error so two exports cannot silently shadow each other.
func (m *Module) Add(py Python, name string, value *Object) error {
	if existing, ok := m.dict.Get(name); ok && existing.typ == FunctionType {
		return NewValueError("module '%s' already has a function named '%s'", m.name, name)
	}
	m.dict.Set(name, value)
	return nil
}

// AddWrapped calls a generated wrapper constructor and adds the resulting
// function under its own __name__.
func (m *Module) AddWrapped(py Python, wrapper func(Python) *Object) error {
	fn := wrapper(py)
	name, ok := FunctionName(fn)
	if !ok {
		return NewTypeError("wrapped value is not a function: %s", fn.typ.name)
	}
	return m.Add(py, name, fn)
}

// ModuleDef is the static description of a native module. Generated code
// declares one per module.
type ModuleDef struct {
	name string
}

// NewModuleDef describes a module called name.
func NewModuleDef(name string) *ModuleDef {
	return &ModuleDef{name: name}
}

// Name returns the module name.
func (d *ModuleDef) Name() string {
	return d.name
}

// MakeModule creates the module, sets __name__ and __doc__, and runs init.
func (d *ModuleDef) MakeModule(py Python, doc string, init ModuleInit) (*Object, error) {
	m := &Module{name: d.name, doc: doc, dict: NewDict()}
	m.dict.Set("__name__", NewStr(d.name))
	m.dict.Set("__doc__", NewStr(doc))
	if init != nil {
		if err := init(py, m); err != nil {
			return nil, fmt.Errorf("initializing module %s: %w", d.name, err)
		}
	}
	return &Object{typ: ModuleType, value: m}, nil
}
