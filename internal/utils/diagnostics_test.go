package utils

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/pybind/internal/errors"
)

func captured(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	d := NewDiagnosticSystem(level)
	var out, errOut bytes.Buffer
	d.SetOutput(&out, &errOut)
	return d, &out, &errOut
}

func TestDiagnosticSystem_Levels(t *testing.T) {
	d, out, errOut := captured(DiagnosticError)
	d.Info("hidden")
	d.Warn("hidden")
	d.Error("boom %d", 1)
	assert.Empty(t, out.String())
	assert.Equal(t, "[ERROR] boom 1\n", errOut.String())

	d, out, _ = captured(DiagnosticVerbose)
	d.Info("shown")
	d.Verbose("details")
	d.Debug("hidden")
	assert.Equal(t, "[INFO] shown\n[VERBOSE] details\n", out.String())
}

func TestDiagnosticSystem_Indent(t *testing.T) {
	d, out, _ := captured(DiagnosticInfo)
	d.Indent()
	d.List("item")
	d.Unindent()
	d.Unindent()
	d.List("top")
	assert.Equal(t, "  - item\n- top\n", out.String())
}

func TestDiagnosticSystem_SummaryIsSorted(t *testing.T) {
	d, out, _ := captured(DiagnosticInfo)
	d.Summary("Done", map[string]interface{}{"b": 2, "a": 1})
	assert.Equal(t, "\nDone\n   a: 1\n   b: 2\n\n", out.String())
}

func TestDiagnosticSystem_Report(t *testing.T) {
	loc := errors.SourceLocation{File: "mymod.go", Line: 3, Column: 1}

	multi := errors.NewMultipleErrors()
	multi.Add(errors.DuplicateDirective(loc, "fn"))
	multi.Add(errors.UnexpectedReceiver(loc, "Method"))

	d, _, errOut := captured(DiagnosticError)
	d.Report(multi)
	lines := bytes.Split(bytes.TrimSpace(errOut.Bytes()), []byte("\n"))
	assert.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "mymod.go:3:1")

	d, _, errOut = captured(DiagnosticError)
	d.Report(fmt.Errorf("plain"))
	assert.Equal(t, "[ERROR] plain\n", errOut.String())

	d, _, errOut = captured(DiagnosticError)
	d.Report(nil)
	assert.Empty(t, errOut.String())
}

func TestDiagnosticSystem_ReportVerboseShowsHints(t *testing.T) {
	loc := errors.SourceLocation{File: "mymod.go", Line: 3, Column: 1}
	err := errors.New(errors.DirectiveErrorCode, "bad").
		WithLocation(loc).
		WithSuggestion("do the other thing")

	d, _, errOut := captured(DiagnosticVerbose)
	d.Report(err)
	assert.Contains(t, errOut.String(), "  hint: do the other thing\n")
}
