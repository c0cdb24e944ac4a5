package pyrt

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct{ X, Y int }

func TestExtract(t *testing.T) {
	t.Run("ints", func(t *testing.T) {
		v, err := Extract[int64](NewInt(42))
		require.NoError(t, err)
		assert.Equal(t, int64(42), v)

		small, err := Extract[int8](NewInt(-5))
		require.NoError(t, err)
		assert.Equal(t, int8(-5), small)

		_, err = Extract[int8](NewInt(300))
		assert.True(t, IsInstance(err, OverflowErrorType))

		_, err = Extract[uint32](NewInt(-1))
		assert.True(t, IsInstance(err, OverflowErrorType))

		_, err = Extract[int](NewStr("1"))
		assert.True(t, IsInstance(err, TypeErrorType))
		assert.Contains(t, err.Error(), "expected int, got 'str'")
	})

	t.Run("bool is not an int", func(t *testing.T) {
		_, err := Extract[int64](True)
		assert.True(t, IsInstance(err, TypeErrorType))
	})

	t.Run("floats accept ints", func(t *testing.T) {
		f, err := Extract[float64](NewInt(2))
		require.NoError(t, err)
		assert.Equal(t, 2.0, f)

		f32, err := Extract[float32](NewFloat(1.5))
		require.NoError(t, err)
		assert.Equal(t, float32(1.5), f32)

		_, err = Extract[float64](NewStr("x"))
		assert.True(t, IsInstance(err, TypeErrorType))
	})

	t.Run("strings and bools", func(t *testing.T) {
		s, err := Extract[string](NewStr("hi"))
		require.NoError(t, err)
		assert.Equal(t, "hi", s)

		b, err := Extract[bool](False)
		require.NoError(t, err)
		assert.False(t, b)

		_, err = Extract[string](NewInt(1))
		assert.Error(t, err)
	})

	t.Run("containers", func(t *testing.T) {
		tup := NewTuple(NewInt(1))
		got, err := Extract[Tuple](tup.ToObject())
		require.NoError(t, err)
		assert.Equal(t, tup, got)

		d := NewDict()
		gotDict, err := Extract[*Dict](d.ToObject())
		require.NoError(t, err)
		assert.Same(t, d, gotDict)

		_, err = Extract[Tuple](NewInt(1))
		assert.Error(t, err)
	})

	t.Run("objects pass through", func(t *testing.T) {
		obj := NewStr("x")
		got, err := Extract[*Object](obj)
		require.NoError(t, err)
		assert.Same(t, obj, got)
	})

	t.Run("native values", func(t *testing.T) {
		got, err := Extract[point](NewNative(point{1, 2}))
		require.NoError(t, err)
		assert.Equal(t, point{1, 2}, got)

		_, err = Extract[point](NewInt(1))
		assert.True(t, IsInstance(err, TypeErrorType))
	})

	t.Run("nil is missing", func(t *testing.T) {
		_, err := Extract[int64](nil)
		assert.Error(t, err)
	})
}

func TestExtractRef(t *testing.T) {
	p := &point{1, 2}
	got, err := ExtractRef[point](NewNative(p))
	require.NoError(t, err)
	assert.Same(t, p, got)
	got.X = 10
	assert.Equal(t, 10, p.X)

	n, err := ExtractRef[int64](NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, int64(7), *n)

	_, err = ExtractRef[int64](nil)
	assert.Error(t, err)
}

func TestExtractOptional(t *testing.T) {
	absent, err := ExtractOptional[int64](nil)
	require.NoError(t, err)
	assert.False(t, absent.IsPresent())

	none, err := ExtractOptional[int64](None)
	require.NoError(t, err)
	assert.False(t, none.IsPresent())

	some, err := ExtractOptional[int64](NewInt(3))
	require.NoError(t, err)
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, int64(3), v)

	_, err = ExtractOptional[int64](NewStr("x"))
	assert.Error(t, err)
}

func TestOptional(t *testing.T) {
	assert.Equal(t, 5, Absent[int]().OrElse(5))
	assert.Equal(t, 1, Some(1).OrElse(5))

	py := AssumeGILAcquired()
	obj, err := Absent[string]().IntoPy(py)
	require.NoError(t, err)
	assert.Same(t, None, obj)

	obj, err = IntoPy(py, Some("x"))
	require.NoError(t, err)
	assert.Equal(t, `"x"`, obj.String())
}

func TestIntoPy(t *testing.T) {
	py := AssumeGILAcquired()

	testCases := []struct {
		name string
		in   any
		repr string
	}{
		{"nil", nil, "None"},
		{"int", 3, "3"},
		{"uint8", uint8(255), "255"},
		{"float", 0.5, "0.5"},
		{"string", "hi", `"hi"`},
		{"bool", true, "True"},
		{"slice", []int64{1, 2}, "(1, 2)"},
		{"nil slice", []int(nil), "None"},
		{"nil pointer", (*point)(nil), "None"},
		{"tuple", NewTuple(NewInt(1)), "(1,)"},
		{"native", point{1, 2}, "<native pyrt.point>"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			obj, err := IntoPy(py, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.repr, obj.String())
		})
	}

	t.Run("uint overflow", func(t *testing.T) {
		_, err := IntoPy(py, uint64(math.MaxUint64))
		assert.True(t, IsInstance(err, OverflowErrorType))
	})

	t.Run("errors become exceptions", func(t *testing.T) {
		obj, err := IntoPy(py, errors.New("boom"))
		require.NoError(t, err)
		assert.Equal(t, `RuntimeError("boom")`, obj.String())
	})

	t.Run("pointers round trip", func(t *testing.T) {
		p := &point{}
		obj, err := IntoPy(py, p)
		require.NoError(t, err)
		back, err := ExtractRef[point](obj)
		require.NoError(t, err)
		assert.Same(t, p, back)
	})
}
