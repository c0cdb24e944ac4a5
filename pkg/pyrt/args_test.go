package pyrt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kwargs(pairs ...any) *Dict {
	d := NewDict()
	for i := 0; i < len(pairs); i += 2 {
		d.Set(pairs[i].(string), pairs[i+1].(*Object))
	}
	return d
}

func TestParseFnArgs(t *testing.T) {
	one, two, three := NewInt(1), NewInt(2), NewInt(3)
	params := []ParamDescription{
		{Name: "a"},
		{Name: "b", IsOptional: true},
	}

	testCases := []struct {
		name         string
		params       []ParamDescription
		args         Tuple
		kwargs       *Dict
		acceptArgs   bool
		acceptKwargs bool
		want         []*Object
		wantRest     Tuple
		wantKw       []string
		wantErr      string
	}{
		{
			name:   "positional",
			params: params,
			args:   NewTuple(one, two),
			want:   []*Object{one, two},
		},
		{
			name:   "optional omitted",
			params: params,
			args:   NewTuple(one),
			want:   []*Object{one, nil},
		},
		{
			name:   "by keyword",
			params: params,
			kwargs: kwargs("b", two, "a", one),
			want:   []*Object{one, two},
		},
		{
			name:    "missing required",
			params:  params,
			wantErr: "add() missing required argument 'a' (pos 1)",
		},
		{
			name:    "too many positionals",
			params:  params,
			args:    NewTuple(one, two, three),
			wantErr: "add() takes 2 positional arguments but 3 were given",
		},
		{
			name:    "single positional wording",
			params:  []ParamDescription{{Name: "a"}},
			args:    NewTuple(one, two),
			wantErr: "add() takes 1 positional argument but 2 were given",
		},
		{
			name:    "duplicate by name and position",
			params:  params,
			args:    NewTuple(one),
			kwargs:  kwargs("a", two),
			wantErr: "add() got multiple values for argument 'a' (by name and at position 1)",
		},
		{
			name:    "unexpected keyword",
			params:  params,
			args:    NewTuple(one),
			kwargs:  kwargs("c", two),
			wantErr: "add() got an unexpected keyword argument 'c'",
		},
		{
			name:    "keyword-only required",
			params:  []ParamDescription{{Name: "a"}, {Name: "k", KwOnly: true}},
			args:    NewTuple(one),
			wantErr: "add() missing required keyword-only argument 'k'",
		},
		{
			name:    "keyword-only cannot be positional",
			params:  []ParamDescription{{Name: "a"}, {Name: "k", KwOnly: true, IsOptional: true}},
			args:    NewTuple(one, two),
			wantErr: "add() takes 1 positional argument but 2 were given",
		},
		{
			name:   "keyword-only by keyword",
			params: []ParamDescription{{Name: "a"}, {Name: "k", KwOnly: true}},
			args:   NewTuple(one),
			kwargs: kwargs("k", two),
			want:   []*Object{one, two},
		},
		{
			name:   "keyword-only declared first leaves positional slots",
			params: []ParamDescription{{Name: "verbose", KwOnly: true, IsOptional: true}, {Name: "x"}},
			args:   NewTuple(one),
			want:   []*Object{nil, one},
		},
		{
			name:   "keyword-only declared first by keyword",
			params: []ParamDescription{{Name: "verbose", KwOnly: true, IsOptional: true}, {Name: "x"}},
			args:   NewTuple(one),
			kwargs: kwargs("verbose", two),
			want:   []*Object{two, one},
		},
		{
			name:    "keyword-only declared first missing positional",
			params:  []ParamDescription{{Name: "verbose", KwOnly: true, IsOptional: true}, {Name: "x"}},
			wantErr: "add() missing required argument 'x' (pos 1)",
		},
		{
			name:    "keyword-only declared first duplicate",
			params:  []ParamDescription{{Name: "verbose", KwOnly: true, IsOptional: true}, {Name: "x"}},
			args:    NewTuple(one),
			kwargs:  kwargs("x", two),
			wantErr: "add() got multiple values for argument 'x' (by name and at position 1)",
		},
		{
			name:       "varargs collects the rest",
			params:     []ParamDescription{{Name: "a"}},
			args:       NewTuple(one, two, three),
			acceptArgs: true,
			want:       []*Object{one},
			wantRest:   Tuple{two, three},
		},
		{
			name:       "varargs empty",
			params:     []ParamDescription{{Name: "a"}},
			args:       NewTuple(one),
			acceptArgs: true,
			want:       []*Object{one},
			wantRest:   Tuple{},
		},
		{
			name:         "kwargs collects unknown keywords",
			params:       []ParamDescription{{Name: "a"}},
			kwargs:       kwargs("a", one, "x", two, "y", three),
			acceptKwargs: true,
			want:         []*Object{one},
			wantKw:       []string{"x", "y"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output := make([]*Object, len(tc.params))
			rest, kw, err := ParseFnArgs("add()", tc.params, tc.args, tc.kwargs, tc.acceptArgs, tc.acceptKwargs, output)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.True(t, IsInstance(err, TypeErrorType))
				assert.Equal(t, "TypeError: "+tc.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, output)
			if tc.acceptArgs {
				assert.Equal(t, tc.wantRest, rest)
			} else {
				assert.Nil(t, rest)
			}
			if tc.acceptKwargs {
				require.NotNil(t, kw)
				assert.Equal(t, tc.wantKw, kw.Keys())
			} else {
				assert.Nil(t, kw)
			}
		})
	}
}

func TestParseFnArgs_KwargsDoesNotMutateInput(t *testing.T) {
	in := kwargs("a", NewInt(1), "x", NewInt(2))
	output := make([]*Object, 1)
	_, kw, err := ParseFnArgs("f()", []ParamDescription{{Name: "a"}}, nil, in, false, true, output)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, kw.Keys())
	assert.Equal(t, []string{"a", "x"}, in.Keys())
}
