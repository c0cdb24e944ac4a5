package generator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/pybind/internal/errors"
	"github.com/toyz/pybind/internal/models"
	"github.com/toyz/pybind/internal/parser"
)

const calcSource = `package calc

import (
	"strings"

	"github.com/toyz/pybind/pkg/pyrt"
)

// Mul multiplies.
//
//py:fn(calc, "mul")
func Mul(a, b int64) int64 {
	return a * b
}

//py:fn(calc, "div")
func Div(a, b float64) (float64, error) {
	return a / b, nil
}

//py:fn(calc, "reset")
func Reset(py pyrt.Python) error {
	return nil
}

//py:fn(text, "join", sep = " ", "*parts", "**opts")
func Join(sep string, parts pyrt.Tuple, opts *pyrt.Dict) string {
	return strings.Repeat(sep, len(parts))
}

//py:fn(calc, "scale")
func Scale(x pyrt.Optional[float64], by *int64) {}
`

func parseCalc(t *testing.T) *models.PackageMetadata {
	t.Helper()
	metadata, err := parser.NewParser().ParseSource("calc.go", calcSource)
	require.NoError(t, err)
	return metadata
}

func TestGenerateFile(t *testing.T) {
	metadata := parseCalc(t)

	file, err := NewGenerator().GenerateFile(metadata)
	require.NoError(t, err)

	assert.Equal(t, "calc", file.PackageName)
	assert.Equal(t, parser.GeneratedFileName, filepath.Base(file.FilePath))
	assert.Equal(t, 5, file.Wrappers)
	assert.Equal(t, 2, file.Modules)

	for _, want := range []string{
		"// Code generated by pybind. DO NOT EDIT.",
		`pyrt "github.com/toyz/pybind/pkg/pyrt"`,
		"func __generated_get_function_Mul(_py pyrt.Python) *pyrt.Object {",
		"_ret := Mul(_arg_a, _arg_b)",
		"_ret, _err := Div(_arg_a, _arg_b)",
		"if _err = Reset(_py); _err != nil {",
		"_rest, _kw, _err := pyrt.ParseFnArgs(",
		"var _arg_parts pyrt.Tuple = _rest",
		"var _arg_opts *pyrt.Dict = _kw",
		`_arg_sep = " "`,
		"_arg_x, _err = pyrt.ExtractOptional[float64](_output[0])",
		"_arg_by, _err = pyrt.ExtractRef[int64](_output[1])",
		"Scale(_arg_x, _arg_by)\n\t\t\treturn pyrt.None, nil",
		`Doc:   "Mul multiplies.",`,
		"func PyInit_calc() *pyrt.Object {",
		"func PyInit_text() *pyrt.Object {",
		`pyrt.RegisterEntryPoint("PyInit_calc", PyInit_calc)`,
	} {
		assert.Contains(t, file.Content, want)
	}
	assert.NotContains(t, file.Content, `"strings"`, "unused imports are pruned")
}

func TestGenerateFile_Deterministic(t *testing.T) {
	first, err := NewGenerator().GenerateFile(parseCalc(t))
	require.NoError(t, err)
	second, err := NewGenerator().GenerateFile(parseCalc(t))
	require.NoError(t, err)
	assert.Equal(t, first.Content, second.Content)
}

func TestGenerateFile_RuntimeOverride(t *testing.T) {
	g := NewGeneratorWithRuntime("example.com/vendored/pyrt")
	assert.Equal(t, "example.com/vendored/pyrt", g.RuntimeImport())
	assert.Equal(t, DefaultRuntimeImport, NewGeneratorWithRuntime("").RuntimeImport())

	metadata, err := parser.NewParser().ParseSource("m.go", "package m\n\n//py:fn(m, \"f\")\nfunc F() {}\n")
	require.NoError(t, err)

	file, err := g.GenerateFile(metadata)
	require.NoError(t, err)
	assert.Contains(t, file.Content, `pyrt "example.com/vendored/pyrt"`)
}

func TestGenerateFile_ImportConflict(t *testing.T) {
	metadata, err := parser.NewParser().ParseSource("m.go", "package m\n\n//py:fn(m, \"f\")\nfunc F() {}\n")
	require.NoError(t, err)
	loc := errors.SourceLocation{File: "m.go", Line: 3, Column: 2}
	metadata.Imports = append(metadata.Imports, models.ImportSpec{Name: "pyrt", Path: "example.com/other", Location: loc})

	_, err = NewGenerator().GenerateFile(metadata)
	var perr *errors.BaseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, errors.ConflictErrorCode, perr.ErrorCode())
	assert.Equal(t, loc, perr.Location())
	assert.Contains(t, err.Error(), "m.go:3:2")
}

func TestGenerateFile_NameCollision(t *testing.T) {
	metadata, err := parser.NewParser().ParseSource("m.go", "package m\n\n//py:fn(m, \"f\")\nfunc F() {}\n")
	require.NoError(t, err)
	dup := *metadata.Functions[0]
	dup.Name = "g"
	metadata.Functions = append(metadata.Functions, &dup)

	_, err = NewGenerator().GenerateFile(metadata)
	require.Error(t, err)
	assert.Contains(t, err.Error(), WrapperName("F"))
}

func TestGenerateFile_Nil(t *testing.T) {
	g := NewGenerator()
	_, err := g.GenerateFile(nil)
	assert.Error(t, err)
	_, err = g.GenerateWrapper(nil)
	assert.Error(t, err)
	_, err = g.GenerateModuleEntry(nil)
	assert.Error(t, err)
}

var _ CodeGenerator = (*Generator)(nil)

func TestNaming(t *testing.T) {
	assert.Equal(t, "__generated_get_function_Add", WrapperName("Add"))
	assert.Equal(t, "PyInit_mymod", EntryPointName("mymod"))
	assert.Equal(t, "__generated_module_def_mymod", ModuleDefName("mymod"))
	assert.Equal(t, "__generated_init_mymod", InitFuncName("mymod"))
	assert.Equal(t, "_arg_x", ArgVarName("x"))

	seen := map[string]string{}
	for _, ident := range []string{"a", "a_b", "A", "ab", "_a"} {
		name := WrapperName(ident)
		prev, dup := seen[name]
		assert.False(t, dup, "%s and %s collide", prev, ident)
		seen[name] = ident
	}
}

func TestDocString(t *testing.T) {
	assert.Equal(t, "Adds.", docString(&models.FnSpec{Name: "add", Doc: "Adds."}))
	assert.Equal(t, "add(a, b)\n--\n\nAdds.", docString(&models.FnSpec{Name: "add", Doc: "Adds.", TextSignature: "(a, b)"}))
}

func TestDefaultExpr(t *testing.T) {
	plain := models.ParameterSpec{Name: "n", NativeType: "int"}
	opt := models.ParameterSpec{Name: "n", Optional: true, OptionalInner: "int"}

	assert.Equal(t, "3", defaultExpr(plain, "3"))
	assert.Equal(t, "pyrt.Some[int](3)", defaultExpr(opt, "3"))
	assert.Equal(t, "", defaultExpr(opt, "nil"))
	assert.Equal(t, "", defaultExpr(opt, "None"))
}
