package parser

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/pybind/internal/errors"
	"github.com/toyz/pybind/internal/models"
)

func parseFunc(t *testing.T, src string) (*token.FileSet, *ast.FuncDecl) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "sig.go", "package sig\n\n"+src, parser.ParseComments)
	require.NoError(t, err)
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			return fset, fn
		}
	}
	t.Fatal("no function declaration in source")
	return nil, nil
}

func TestExtractSignature_Parameters(t *testing.T) {
	fset, decl := parseFunc(t, `func F(py pyrt.Python, a, b int64, p *Point, o pyrt.Optional[string], s []byte) {}`)

	sig, err := ExtractSignature(fset, decl)
	require.NoError(t, err)
	require.Len(t, sig.Parameters, 6)

	py := sig.Parameters[0]
	assert.Equal(t, "py", py.Name)
	assert.True(t, py.IsRuntimeContext)

	a, b := sig.Parameters[1], sig.Parameters[2]
	assert.Equal(t, "a", a.Name)
	assert.Equal(t, "b", b.Name)
	assert.Equal(t, "int64", b.NativeType)
	assert.True(t, a.Mutable)
	assert.False(t, a.ByRef)
	assert.False(t, a.IsRuntimeContext)

	p := sig.Parameters[3]
	assert.True(t, p.ByRef)
	assert.True(t, p.PassByReference)
	assert.Equal(t, "*Point", p.NativeType)
	assert.Equal(t, "Point", p.ElemType)

	o := sig.Parameters[4]
	assert.True(t, o.Optional)
	assert.Equal(t, "string", o.OptionalInner)
	assert.Equal(t, "pyrt.Optional[string]", o.NativeType)

	s := sig.Parameters[5]
	assert.Equal(t, "[]byte", s.NativeType)
	assert.Equal(t, 3, s.Location.Line)
}

func TestExtractSignature_RuntimeContextSpellings(t *testing.T) {
	for _, typ := range []string{"pyrt.Python", "rt.Python", "Python", "*pyrt.Python"} {
		t.Run(typ, func(t *testing.T) {
			fset, decl := parseFunc(t, "func F(ctx "+typ+", x int) {}")
			sig, err := ExtractSignature(fset, decl)
			require.NoError(t, err)
			assert.True(t, sig.Parameters[0].IsRuntimeContext)
			assert.False(t, sig.Parameters[1].IsRuntimeContext)
		})
	}
}

func TestExtractSignature_Returns(t *testing.T) {
	tests := []struct {
		src   string
		kind  models.ReturnKind
		inner models.ReturnKind
		typ   string
	}{
		{`func F() {}`, models.ReturnUnit, models.ReturnUnit, ""},
		{`func F() int64 { return 0 }`, models.ReturnValue, models.ReturnUnit, "int64"},
		{`func F() pyrt.Optional[int] { return pyrt.Absent[int]() }`, models.ReturnOptional, models.ReturnUnit, "pyrt.Optional[int]"},
		{`func F() error { return nil }`, models.ReturnResult, models.ReturnUnit, ""},
		{`func F() (string, error) { return "", nil }`, models.ReturnResult, models.ReturnValue, "string"},
		{`func F() (v pyrt.Optional[int], err error) { return }`, models.ReturnResult, models.ReturnOptional, "pyrt.Optional[int]"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			fset, decl := parseFunc(t, tt.src)
			sig, err := ExtractSignature(fset, decl)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, sig.Return.Kind)
			assert.Equal(t, tt.inner, sig.Return.Inner)
			assert.Equal(t, tt.typ, sig.Return.NativeType)
		})
	}
}

func TestExtractSignature_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		code    errors.ErrorCode
		message string
	}{
		{"receiver", `func (s *Server) F(a int) {}`, errors.SignatureErrorCode, "unexpected receiver for //py:fn"},
		{"unnamed", `func F(int) {}`, errors.SignatureErrorCode, "unsupported argument: unnamed parameter"},
		{"blank", `func F(_ int) {}`, errors.SignatureErrorCode, "unsupported argument: blank identifier"},
		{"variadic", `func F(xs ...int) {}`, errors.SignatureErrorCode, "unsupported argument: variadic parameter ...int"},
		{"generic", `func F[T any](x T) {}`, errors.SignatureErrorCode, "type parameters"},
		{"two values", `func F() (int, int) { return 0, 0 }`, errors.SignatureErrorCode, "unsupported return: (int, int)"},
		{"three results", `func F() (int, int, error) { return 0, 0, nil }`, errors.SignatureErrorCode, "unsupported return"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fset, decl := parseFunc(t, tt.src)
			_, err := ExtractSignature(fset, decl)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)

			var perr errors.PybindError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.code, perr.ErrorCode())
			assert.Equal(t, "sig.go", perr.Location().File)
			assert.Equal(t, 3, perr.Location().Line)
		})
	}
}

func TestExtractSignature_ReceiverBuildsNoParameters(t *testing.T) {
	fset, decl := parseFunc(t, `func (s Server) F(a int) {}`)
	sig, err := ExtractSignature(fset, decl)
	require.Error(t, err)
	assert.Empty(t, sig.Parameters)
}
