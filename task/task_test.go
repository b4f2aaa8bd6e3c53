package task

import (
	stderrors "errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/imath-bind/errors"
)

func TestDispatchCoversRange(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		grain   int
		n       int
	}{
		{"inline", 1, 0, 1000},
		{"zero value", 0, 0, 17},
		{"single chunk", 4, 100, 50},
		{"parallel", 4, 10, 1003},
		{"more workers than chunks", 16, 100, 250},
		{"empty", 4, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.workers, tt.grain)
			hits := make([]int32, tt.n)
			err := p.Dispatch(tt.n, Func(func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			}))
			require.NoError(t, err)
			for i, h := range hits {
				assert.Equal(t, int32(1), h, "index %d", i)
			}
		})
	}
}

func TestDispatchInlineRunsOnce(t *testing.T) {
	var calls int
	err := New(1, 0).Dispatch(5000, Func(func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 5000, end)
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDispatchRecoversPanic(t *testing.T) {
	for _, workers := range []int{1, 4} {
		p := New(workers, 1)
		err := p.Dispatch(8, Func(func(start, end int) {
			if start == 0 {
				panic("boom")
			}
		}))
		require.Error(t, err)
		var be *errors.Error
		require.True(t, stderrors.As(err, &be))
		assert.Equal(t, errors.KindPanic, be.Kind)
	}
}

func TestDefault(t *testing.T) {
	assert.Equal(t, 1, Default().Workers())

	SetDefault(New(3, 8))
	defer SetDefault(nil)
	assert.Equal(t, 3, Default().Workers())
	assert.Equal(t, 8, Default().Grain())
}

func TestNilPool(t *testing.T) {
	var p *Pool
	assert.Equal(t, 1, p.Workers())
	assert.Equal(t, DefaultGrain, p.Grain())
}
