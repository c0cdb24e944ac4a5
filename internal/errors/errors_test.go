package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceLocation_String(t *testing.T) {
	assert.Equal(t, "unknown location", SourceLocation{}.String())
	assert.Equal(t, "a.go", SourceLocation{File: "a.go"}.String())
	assert.Equal(t, "a.go:3", SourceLocation{File: "a.go", Line: 3}.String())
	assert.Equal(t, "a.go:3:7", SourceLocation{File: "a.go", Line: 3, Column: 7}.String())
	assert.True(t, SourceLocation{Line: 3}.IsEmpty())
}

func TestBaseError(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := WrapFileSystemError("write", "out.go", cause).
		WithLocation(SourceLocation{File: "mymod.go", Line: 2})

	assert.Equal(t, "mymod.go:2: failed to write file 'out.go': disk full", err.Error())
	assert.Equal(t, FileSystemErrorCode, err.ErrorCode())
	assert.Equal(t, "write", err.Context()["operation"])
	assert.ErrorIs(t, err, cause)

	plain := New(ValidationErrorCode, "bad")
	assert.Empty(t, plain.Context())
	assert.Empty(t, plain.Suggestions())
	assert.Equal(t, "bad", plain.Error())
}

func TestBaseError_CauseAlreadyInMessage(t *testing.T) {
	err := Wrap(SyntaxErrorCode, "unexpected token: eof", fmt.Errorf("eof"))
	assert.Equal(t, "unexpected token: eof", err.Error())
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "DirectiveError", DirectiveErrorCode.String())
	assert.Equal(t, "ConfigurationError", ConfigurationErrorCode.String())
	assert.Equal(t, "UnknownError", ErrorCode(99).String())
}

func TestDiagnostics(t *testing.T) {
	loc := SourceLocation{File: "mymod.go", Line: 4, Column: 1}
	prev := SourceLocation{File: "mymod.go", Line: 1, Column: 1}

	testCases := []struct {
		err  *BaseError
		code ErrorCode
		want string
	}{
		{MalformedDirective(loc, "//py:fn(", "unexpected end"), DirectiveErrorCode, "malformed directive"},
		{DuplicateDirective(loc, "fn"), DirectiveErrorCode, "duplicate //py:fn"},
		{UnexpectedReceiver(loc, "M"), SignatureErrorCode, "unexpected receiver"},
		{UnsupportedArgument(loc, "F", "variadic parameter ...int"), SignatureErrorCode, "variadic parameter ...int"},
		{UnknownParameter(loc, "F", "c"), DirectiveErrorCode, "'c'"},
		{Conflict(loc, "module", "m", prev), ConflictErrorCode, "duplicate module 'm'"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.ErrorCode())
			assert.Contains(t, tc.err.Error(), tc.want)
			assert.Contains(t, tc.err.Error(), "mymod.go:4:1")
		})
	}

	conflict := Conflict(loc, "module", "m", prev)
	assert.Equal(t, []string{"previously declared at mymod.go:1:1"}, conflict.Suggestions())
}

func TestMultipleErrors(t *testing.T) {
	errs := NewMultipleErrors()
	assert.NoError(t, errs.ErrorOrNil())
	assert.Equal(t, "no errors", errs.Error())

	first := New(DirectiveErrorCode, "first").WithLocation(SourceLocation{File: "a.go", Line: 1})
	errs.Add(first)
	assert.Equal(t, "a.go:1: first", errs.Error())

	nested := NewMultipleErrors()
	nested.Add(New(ConflictErrorCode, "second").WithSuggestion("rename it"))
	nested.Add(New(SignatureErrorCode, "third"))
	errs.Add(nested)

	require.Equal(t, 3, errs.Count(), "nested collections are flattened")
	assert.True(t, errs.HasCode(ConflictErrorCode))
	assert.False(t, errs.HasCode(TemplateErrorCode))
	assert.Equal(t, DirectiveErrorCode, errs.ErrorCode())
	assert.Equal(t, "a.go", errs.Location().File)
	assert.Equal(t, []string{"rename it"}, errs.Suggestions())
	assert.Equal(t, "multiple errors (3 total):\n  1. a.go:1: first\n  2. second\n  3. third", errs.Error())

	var target *BaseError
	require.ErrorAs(t, errs.ErrorOrNil(), &target)
	assert.Same(t, first, target)
	assert.True(t, stderrors.Is(errs, first))

	var perr PybindError = errs
	assert.Equal(t, DirectiveErrorCode, perr.ErrorCode())
}
