package pyrt

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testModuleDef  = NewModuleDef("pyrt_testmod")
	brokenDef      = NewModuleDef("pyrt_broken")
	testModuleInit int
	initMu         sync.Mutex
)

func pyInitTestmod() *Object {
	gil := EnsureGIL()
	defer gil.Release()
	return CallbackBody(func(py Python) (*Object, error) {
		return testModuleDef.MakeModule(py, "Test module.", func(py Python, m *Module) error {
			initMu.Lock()
			testModuleInit++
			initMu.Unlock()
			if err := m.AddWrapped(py, addFunction); err != nil {
				return err
			}
			return m.Add(py, "VERSION", NewStr("1.0"))
		})
	})
}

func pyInitBroken() *Object {
	gil := EnsureGIL()
	defer gil.Release()
	return CallbackBody(func(py Python) (*Object, error) {
		return brokenDef.MakeModule(py, "", func(py Python, m *Module) error {
			return errors.New("no database")
		})
	})
}

func init() {
	RegisterEntryPoint(EntryPointName("pyrt_testmod"), pyInitTestmod)
	RegisterEntryPoint(EntryPointName("pyrt_broken"), pyInitBroken)
	RegisterEntryPoint(EntryPointName("pyrt_notmodule"), func() *Object { return NewInt(1) })
}

func TestEntryPointName(t *testing.T) {
	assert.Equal(t, "PyInit_mymod", EntryPointName("mymod"))
}

func TestRegisterEntryPoint_Duplicate(t *testing.T) {
	assert.Panics(t, func() {
		RegisterEntryPoint(EntryPointName("pyrt_testmod"), pyInitTestmod)
	})
}

func TestImport(t *testing.T) {
	obj, err := Import("pyrt_testmod")
	require.NoError(t, err)

	m, ok := AsModule(obj)
	require.True(t, ok)
	assert.Equal(t, "pyrt_testmod", m.Name())
	assert.Equal(t, "Test module.", m.Doc())
	assert.Equal(t, []string{"VERSION", "__doc__", "__name__", "add"}, m.Names())
	assert.Equal(t, "<module 'pyrt_testmod'>", obj.String())

	again, err := Import("pyrt_testmod")
	require.NoError(t, err)
	assert.Same(t, obj, again)
	assert.Equal(t, 1, testModuleInit, "modules initialize once")

	gil := EnsureGIL()
	defer gil.Release()
	py := gil.Python()

	ret, err := CallAttr(py, obj, "add", NewTuple(NewInt(2), NewInt(3)), nil)
	require.NoError(t, err)
	assert.Equal(t, "5", ret.String())

	_, err = CallAttr(py, obj, "add", NewTuple(NewInt(2)), nil)
	assert.True(t, IsInstance(err, TypeErrorType))

	_, err = CallAttr(py, obj, "missing", nil, nil)
	assert.True(t, IsInstance(err, AttributeErrorType))

	_, err = CallAttr(py, NewInt(1), "add", nil, nil)
	assert.True(t, IsInstance(err, AttributeErrorType))
}

func TestImport_Failures(t *testing.T) {
	_, err := Import("pyrt_no_such_module")
	assert.True(t, IsInstance(err, ImportErrorType))
	assert.Contains(t, err.Error(), "No module named pyrt_no_such_module")

	_, err = Import("pyrt_broken")
	require.Error(t, err)
	assert.True(t, IsInstance(err, RuntimeErrorType))
	assert.Contains(t, err.Error(), "initializing module pyrt_broken: no database")

	_, err = Import("pyrt_notmodule")
	assert.True(t, IsInstance(err, SystemErrorType))
}

func TestModule_Add(t *testing.T) {
	gil := EnsureGIL()
	defer gil.Release()
	py := gil.Python()

	obj, err := NewModuleDef("scratch").MakeModule(py, "", nil)
	require.NoError(t, err)
	m, _ := AsModule(obj)

	require.NoError(t, m.AddWrapped(py, addFunction))
	err = m.AddWrapped(py, addFunction)
	assert.True(t, IsInstance(err, ValueErrorType), "function names cannot be rebound")

	require.NoError(t, m.Add(py, "x", NewInt(1)))
	require.NoError(t, m.Add(py, "x", NewInt(2)), "plain attributes can be rebound")
	v, err := m.Getattr("x")
	require.NoError(t, err)
	assert.Equal(t, "2", v.String())

	err = m.AddWrapped(py, func(Python) *Object { return NewInt(1) })
	assert.True(t, IsInstance(err, TypeErrorType))
}
