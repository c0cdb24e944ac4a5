package pyrt

import "sync"

// maxCallDepth bounds nested wrapper activations on one interpreter.
const maxCallDepth = 1000

// interpreterState is guarded by gil. Only the goroutine holding the GIL may
// touch it.
type interpreterState struct {
	gil   sync.Mutex
	err   *Exception
	depth int
}

var interp = &interpreterState{}

// Python is the runtime-context handle. Holding a Python value is proof
// that the GIL is held; generated wrappers receive it from the ambient call
// and pass it to functions that declare a Python parameter.
type Python struct {
	st *interpreterState
}

// GILGuard is a scoped GIL acquisition.
type GILGuard struct {
	st       *interpreterState
	released bool
}

// EnsureGIL blocks until the GIL is available and returns a guard that
// must be released, normally with defer. The GIL is not reentrant: code
// that already holds a Python handle must not call EnsureGIL.
func EnsureGIL() *GILGuard {
	interp.gil.Lock()
	return &GILGuard{st: interp}
}

// Python returns the handle valid until Release.
func (g *GILGuard) Python() Python {
	return Python{st: g.st}
}

// Release gives the GIL back. Releasing twice is a no-op.
func (g *GILGuard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.st.gil.Unlock()
}

// AssumeGILAcquired returns a handle without locking. It is used at the top
// of wrapper bodies, which the interpreter only ever calls with the GIL
// held.
func AssumeGILAcquired() Python {
	return Python{st: interp}
}

// AllowThreads releases the GIL for the duration of fn.
func (py Python) AllowThreads(fn func()) {
	py.st.gil.Unlock()
	defer py.st.gil.Lock()
	fn()
}

// ErrSet makes err the pending exception, replacing any previous one.
func (py Python) ErrSet(err error) {
	py.st.err = ToException(err)
}

// ErrOccurred reports whether an exception is pending.
func (py Python) ErrOccurred() bool {
	return py.st.err != nil
}

// ErrFetch returns and clears the pending exception. It returns nil when
// none is pending.
func (py Python) ErrFetch() *Exception {
	exc := py.st.err
	py.st.err = nil
	return exc
}

// ErrClear discards the pending exception.
func (py Python) ErrClear() {
	py.st.err = nil
}

func (py Python) enterCall() error {
	if py.st.depth >= maxCallDepth {
		return NewException(RecursionErrorType, "maximum recursion depth exceeded")
	}
	py.st.depth++
	return nil
}

func (py Python) leaveCall() {
	py.st.depth--
}

// BorrowTuple views a positional-argument object as a Tuple. A nil object
// is an empty tuple.
func (py Python) BorrowTuple(o *Object) Tuple {
	if o == nil {
		return Tuple{}
	}
	t, ok := o.value.(Tuple)
	if !ok {
		panic(NewException(SystemErrorType, "expected tuple of positional arguments, got %s", o.typ.name))
	}
	return t
}

// BorrowDictOrNil views a keyword-argument object as a Dict. A nil object
// or None yields a nil dict.
func (py Python) BorrowDictOrNil(o *Object) *Dict {
	if o.IsNone() {
		return nil
	}
	d, ok := o.value.(*Dict)
	if !ok {
		panic(NewException(SystemErrorType, "expected dict of keyword arguments, got %s", o.typ.name))
	}
	return d
}
