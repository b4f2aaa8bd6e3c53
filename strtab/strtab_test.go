package strtab

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/imath-bind/array"
	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/internal/seq"
)

func TestTableInterns(t *testing.T) {
	tab := NewTable()
	a := tab.Intern("foo")
	b := tab.Intern("bar")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, tab.Intern("foo"))
	assert.Equal(t, 3, tab.Len())

	s, ok := tab.String(b)
	require.True(t, ok)
	assert.Equal(t, "bar", s)

	id, ok := tab.Lookup("")
	require.True(t, ok)
	assert.Equal(t, Index(0), id)

	_, ok = tab.Lookup("missing")
	assert.False(t, ok)
}

func TestArrayPoolsEqualStrings(t *testing.T) {
	a, err := Filled(100, "same")
	require.NoError(t, err)
	assert.Equal(t, 100, a.Len())
	assert.Equal(t, 2, a.Table().Len())

	require.NoError(t, a.Set(-1, "other"))
	require.NoError(t, a.Set(0, "other"))
	assert.Equal(t, 3, a.Table().Len())

	s, err := a.Get(99)
	require.NoError(t, err)
	assert.Equal(t, "other", s)
}

func TestArrayIndexing(t *testing.T) {
	a, err := New(0)
	require.NoError(t, err)
	_, err = a.Get(0)
	var be *errors.Error
	require.True(t, stderrors.As(err, &be))
	assert.Equal(t, errors.KindOutOfBounds, be.Kind)

	_, err = New(-2)
	require.True(t, stderrors.As(err, &be))
	assert.Equal(t, errors.KindInvalidValue, be.Kind)

	b := FromStrings([]string{"a", "b", "c", "d"})
	err = b.Set(4, "x")
	require.True(t, stderrors.As(err, &be))
	assert.Equal(t, errors.KindOutOfBounds, be.Kind)
	assert.Equal(t, 5, b.Table().Len(), "failed set must not intern")
}

func TestArraySlices(t *testing.T) {
	a := FromStrings([]string{"a", "b", "c", "d"})
	step := -1
	r, err := seq.Indices(nil, nil, &step, a.Len())
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b", "a"}, a.Range(r).Strings())

	other := FromStrings([]string{"x", "y"})
	start, st := 0, 2
	r, err = seq.Indices(&start, nil, &st, a.Len())
	require.NoError(t, err)
	require.NoError(t, a.SetRange(r, other))
	assert.Equal(t, []string{"x", "b", "y", "d"}, a.Strings())

	a.FillRange(r, "z")
	assert.Equal(t, []string{"z", "b", "z", "d"}, a.Strings())
}

func TestArrayCompare(t *testing.T) {
	a := FromStrings([]string{"a", "b", "a"})

	m, err := a.CompareElem(array.CmpEq, "a")
	require.NoError(t, err)
	assert.Equal(t, []array.Mask{1, 0, 1}, m.Items())

	m, err = a.CompareElem(array.CmpNe, "a")
	require.NoError(t, err)
	assert.Equal(t, []array.Mask{0, 1, 0}, m.Items())

	m, err = a.CompareElem(array.CmpEq, "unknown")
	require.NoError(t, err)
	assert.Equal(t, []array.Mask{0, 0, 0}, m.Items())

	m, err = a.CompareElem(array.CmpNe, "unknown")
	require.NoError(t, err)
	assert.Equal(t, []array.Mask{1, 1, 1}, m.Items())

	m, err = a.Compare(array.CmpEq, FromStrings([]string{"a", "a", "a"}))
	require.NoError(t, err)
	assert.Equal(t, []array.Mask{1, 0, 1}, m.Items())

	_, err = a.Compare(array.CmpEq, FromStrings([]string{"a"}))
	require.Error(t, err)

	_, err = a.CompareElem(array.CmpLt, "a")
	require.Error(t, err)
}
