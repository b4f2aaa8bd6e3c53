package seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/imath-bind/errors"
)

func ptr(i int) *int { return &i }

func collect(r Range) []int {
	out := make([]int, 0, r.Count)
	for i := 0; i < r.Count; i++ {
		out = append(out, r.Index(i))
	}
	return out
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		i, n int
		want int
		ok   bool
	}{
		{0, 3, 0, true},
		{2, 3, 2, true},
		{3, 3, 0, false},
		{-1, 3, 2, true},
		{-3, 3, 0, true},
		{-4, 3, 0, false},
		{0, 0, 0, false},
	}
	for _, tt := range tests {
		got, ok := Canonical(tt.i, tt.n)
		assert.Equal(t, tt.ok, ok, "Canonical(%d, %d)", tt.i, tt.n)
		if ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestIndexError(t *testing.T) {
	_, err := Index("IntArray", 5, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseIndex, Kind: errors.KindOutOfBounds})
}

func TestIndices(t *testing.T) {
	tests := []struct {
		name              string
		start, stop, step *int
		n                 int
		want              []int
	}{
		{"full", nil, nil, nil, 5, []int{0, 1, 2, 3, 4}},
		{"middle", ptr(1), ptr(3), nil, 5, []int{1, 2}},
		{"negative start", ptr(-2), nil, nil, 5, []int{3, 4}},
		{"stride", nil, nil, ptr(2), 5, []int{0, 2, 4}},
		{"reverse", nil, nil, ptr(-1), 4, []int{3, 2, 1, 0}},
		{"reverse stride", ptr(4), ptr(0), ptr(-2), 5, []int{4, 2}},
		{"clamped stop", ptr(1), ptr(100), nil, 3, []int{1, 2}},
		{"empty when start past stop", ptr(3), ptr(1), nil, 5, []int{}},
		{"empty sequence", nil, nil, nil, 0, []int{}},
		{"start beyond end", ptr(10), nil, nil, 3, []int{}},
		{"very negative start", ptr(-10), ptr(2), nil, 5, []int{0, 1}},
		{"reverse from far end", ptr(100), nil, ptr(-1), 3, []int{2, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Indices(tt.start, tt.stop, tt.step, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, collect(r))
		})
	}
}

func TestIndicesZeroStep(t *testing.T) {
	_, err := Indices(nil, nil, ptr(0), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseIndex, Kind: errors.KindInvalidValue})
}
