package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/pybind/internal/errors"
	"github.com/toyz/pybind/internal/models"
)

func parseArgs(t *testing.T, directive string) ([]models.ArgDirective, error) {
	t.Helper()
	attr, err := NewParticipleParser().ParseAttribute(directive, errors.SourceLocation{File: "f.go", Line: 1, Column: 1})
	require.NoError(t, err)
	return ArgDirectives(attr.Args[2:], func(i int) errors.SourceLocation { return attr.ArgLocation(i + 2) })
}

func TestArgDirectives(t *testing.T) {
	args, err := parseArgs(t, `//py:fn(m, "f", a, b = 3, "*", c, d = "x", "**rest")`)
	require.NoError(t, err)

	expected := []models.ArgDirective{
		{Kind: models.ArgPlain, Name: "a"},
		{Kind: models.ArgDefault, Name: "b", Default: "3"},
		{Kind: models.ArgVarArgsSeparator},
		{Kind: models.ArgPlain, Name: "c", KwOnly: true},
		{Kind: models.ArgDefault, Name: "d", Default: `"x"`, KwOnly: true},
		{Kind: models.ArgKeywordArgs, Name: "rest", KwOnly: true},
	}
	assert.Equal(t, expected, args)
}

func TestArgDirectives_VarArgsMakesLaterKwOnly(t *testing.T) {
	args, err := parseArgs(t, `//py:fn(m, "f", a, "*items", flag = true)`)
	require.NoError(t, err)

	require.Len(t, args, 3)
	assert.False(t, args[0].KwOnly)
	assert.Equal(t, models.ArgVarArgs, args[1].Kind)
	assert.Equal(t, "items", args[1].Name)
	assert.False(t, args[1].KwOnly)
	assert.True(t, args[2].KwOnly)
}

func TestArgDirectives_Errors(t *testing.T) {
	tests := []struct {
		name      string
		directive string
		message   string
	}{
		{"two separators", `//py:fn(m, "f", "*", "*args")`, "only one"},
		{"after kwargs", `//py:fn(m, "f", **kw, a)`, "follow the keyword collector"},
		{"bare double star", `//py:fn(m, "f", "**")`, "must name"},
		{"plain string", `//py:fn(m, "f", "a")`, "string argument directives"},
		{"dotted name", `//py:fn(m, "f", a.b)`, "parameter name"},
		{"duplicate", `//py:fn(m, "f", a, a = 1)`, "named twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(t, tt.directive)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
