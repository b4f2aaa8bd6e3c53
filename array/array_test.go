package array

import (
	stderrors "errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/wippyai/imath-bind/errors"
	"github.com/wippyai/imath-bind/iex"
	"github.com/wippyai/imath-bind/imath"
	"github.com/wippyai/imath-bind/internal/seq"
	"github.com/wippyai/imath-bind/task"
)

func kindOf(t *testing.T, err error) errors.Kind {
	t.Helper()
	var be *errors.Error
	require.True(t, stderrors.As(err, &be), "not a binding error: %v", err)
	return be.Kind
}

func ptr(i int) *int { return &i }

func TestNew(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		a, err := New[imath.Vec3[int32]](n)
		require.NoError(t, err)
		assert.Equal(t, n, a.Len())
	}

	_, err := New[float32](-1)
	require.Error(t, err)
	assert.Equal(t, errors.KindInvalidValue, kindOf(t, err))

	f, err := Filled(3, 2.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 2.5, 2.5}, f.Items())

	for _, n := range []int{1 << 62, MaxBytes/8 + 1} {
		_, err = New[float64](n)
		require.Error(t, err)
		assert.Equal(t, errors.KindInvalidValue, kindOf(t, err))
	}
	_, err = New[imath.Matrix44[float64]](1 << 30)
	assert.Equal(t, errors.KindInvalidValue, kindOf(t, err))
}

func TestMasks(t *testing.T) {
	a := FromSlice([]int32{1, 2, 3, 4})
	m := FromSlice([]Mask{0, 1, 0, 1})

	sel, err := a.Select(m)
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 4}, sel.Items())

	_, err = a.Select(FromSlice([]Mask{1, 1}))
	assert.Equal(t, errors.KindLengthMismatch, kindOf(t, err))

	require.NoError(t, a.FillMask(m, 0))
	assert.Equal(t, []int32{1, 0, 3, 0}, a.Items())

	require.NoError(t, a.SetMask(m, FromSlice([]int32{10, 20, 30, 40})))
	assert.Equal(t, []int32{1, 20, 3, 40}, a.Items())

	require.NoError(t, a.SetMask(m, FromSlice([]int32{-1, -2})))
	assert.Equal(t, []int32{1, -1, 3, -2}, a.Items())

	require.NoError(t, a.SetMask(FromSlice([]Mask{1, 1, 1, 1}), a))
	assert.Equal(t, []int32{1, -1, 3, -2}, a.Items())

	err = a.SetMask(m, FromSlice([]int32{7, 7, 7}))
	assert.Equal(t, errors.KindLengthMismatch, kindOf(t, err))
	err = a.FillMask(FromSlice([]Mask{1}), 9)
	assert.Equal(t, errors.KindLengthMismatch, kindOf(t, err))
	assert.Equal(t, []int32{1, -1, 3, -2}, a.Items())
}

func TestEmptyArrayIndexing(t *testing.T) {
	a, err := New[int32](0)
	require.NoError(t, err)
	for _, i := range []int{0, -1, 1} {
		_, err := a.Get(i)
		require.Error(t, err)
		assert.Equal(t, errors.KindOutOfBounds, kindOf(t, err))
	}
}

func TestGetSetNegative(t *testing.T) {
	a, err := New[imath.Vec3[int32]](4)
	require.NoError(t, err)
	require.NoError(t, a.Set(1, imath.V3[int32](1, 2, 3)))

	v, err := a.Get(-3)
	require.NoError(t, err)
	assert.Equal(t, imath.V3[int32](1, 2, 3), v)

	err = a.Set(4, imath.Vec3[int32]{})
	assert.Equal(t, errors.KindOutOfBounds, kindOf(t, err))
	_, err = a.Get(-5)
	assert.Equal(t, errors.KindOutOfBounds, kindOf(t, err))
}

func TestSlice(t *testing.T) {
	a := FromSlice([]int32{0, 1, 2, 3, 4, 5})

	tests := []struct {
		name              string
		start, stop, step *int
		want              []int32
	}{
		{"all", nil, nil, nil, []int32{0, 1, 2, 3, 4, 5}},
		{"explicit full", ptr(0), ptr(6), ptr(1), []int32{0, 1, 2, 3, 4, 5}},
		{"stepped", ptr(1), nil, ptr(2), []int32{1, 3, 5}},
		{"reversed", nil, nil, ptr(-1), []int32{5, 4, 3, 2, 1, 0}},
		{"negative bounds", ptr(-3), ptr(-1), nil, []int32{3, 4}},
		{"clamped", ptr(-100), ptr(100), nil, []int32{0, 1, 2, 3, 4, 5}},
		{"empty", ptr(4), ptr(2), nil, []int32{}},
		{"reverse stepped", ptr(5), ptr(0), ptr(-2), []int32{5, 3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := a.Slice(tt.start, tt.stop, tt.step)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), s.Len())
			assert.Equal(t, tt.want, s.Items())
		})
	}

	_, err := a.Slice(nil, nil, ptr(0))
	assert.Equal(t, errors.KindInvalidValue, kindOf(t, err))

	// slices are copies
	s, err := a.Slice(nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set(0, 99))
	v, _ := a.Get(0)
	assert.Equal(t, int32(0), v)
}

func TestSetRange(t *testing.T) {
	a := FromSlice([]float32{0, 1, 2, 3})
	r := rangeOf(t, a, ptr(0), nil, ptr(2))
	require.NoError(t, a.SetRange(r, FromSlice([]float32{10, 20})))
	assert.Equal(t, []float32{10, 1, 20, 3}, a.Items())

	err := a.SetRange(r, FromSlice([]float32{1, 2, 3}))
	assert.Equal(t, errors.KindLengthMismatch, kindOf(t, err))

	a.FillRange(rangeOf(t, a, ptr(1), ptr(3), nil), 7)
	assert.Equal(t, []float32{10, 7, 7, 3}, a.Items())

	rev := rangeOf(t, a, nil, nil, ptr(-1))
	require.NoError(t, a.SetRange(rev, a))
	assert.Equal(t, []float32{3, 7, 7, 10}, a.Items())
}

func TestIterationRestartable(t *testing.T) {
	a := FromSlice([]int32{3, 1, 4})
	first := slices.Collect(a.Values())
	second := slices.Collect(a.Values())
	assert.Equal(t, []int32{3, 1, 4}, first)
	assert.Equal(t, first, second)

	var idx []int
	for i := range a.All() {
		idx = append(idx, i)
	}
	assert.Equal(t, []int{0, 1, 2}, idx)
}

func TestIntegerOps(t *testing.T) {
	ops := IntegerOps[int32]()
	a := FromSlice([]int32{1, 2, 3})
	b := FromSlice([]int32{4, 5, 6})

	sum, err := ops.Apply(OpAdd, a, b)
	require.NoError(t, err)
	assert.Equal(t, []int32{5, 7, 9}, sum.Items())

	diff, err := ops.ApplyElem(OpSub, a, 10, true)
	require.NoError(t, err)
	assert.Equal(t, []int32{9, 8, 7}, diff.Items())

	q, err := ops.ApplyElem(OpDiv, b, 2, false)
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 2, 3}, q.Items())

	_, err = ops.ApplyElem(OpDiv, b, 0, false)
	_, ok := iex.Catch(err, iex.DivzeroExc)
	assert.True(t, ok)

	m, err := ops.ApplyElem(OpMod, b, 4, false)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 2}, m.Items())

	assert.False(t, ops.Supports(OpPow))
	_, err = ops.Apply(OpPow, a, b)
	assert.Equal(t, errors.KindUnsupported, kindOf(t, err))

	_, err = ops.Apply(OpAdd, a, FromSlice([]int32{1}))
	assert.Equal(t, errors.KindLengthMismatch, kindOf(t, err))

	total, err := ops.Reduce(a)
	require.NoError(t, err)
	assert.Equal(t, int32(6), total)

	lo, err := ops.MinOf(FromSlice([]int32{5, -2, 9}))
	require.NoError(t, err)
	assert.Equal(t, int32(-2), lo)
	hi, err := ops.MaxOf(FromSlice([]int32{5, -2, 9}))
	require.NoError(t, err)
	assert.Equal(t, int32(9), hi)

	empty, err := ops.MinOf(FromSlice([]int32{}))
	require.NoError(t, err)
	assert.Equal(t, int32(0), empty)
}

func TestCompareMasks(t *testing.T) {
	ops := FloatOps[float64]()
	a := FromSlice([]float64{1, 2, 3})
	b := FromSlice([]float64{3, 2, 1})

	tests := []struct {
		cmp  Cmp
		want []Mask
	}{
		{CmpEq, []Mask{0, 1, 0}},
		{CmpNe, []Mask{1, 0, 1}},
		{CmpLt, []Mask{1, 0, 0}},
		{CmpLe, []Mask{1, 1, 0}},
		{CmpGt, []Mask{0, 0, 1}},
		{CmpGe, []Mask{0, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.cmp.String(), func(t *testing.T) {
			m, err := ops.Compare(tt.cmp, a, b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Items())
		})
	}

	m, err := ops.CompareElem(CmpGt, a, 1.5)
	require.NoError(t, err)
	assert.Equal(t, []Mask{0, 1, 1}, m.Items())

	vops := VectorOps[imath.Vec2[float32], float32]()
	assert.True(t, vops.SupportsCmp(CmpEq))
	assert.False(t, vops.SupportsCmp(CmpLt))
}

func TestVectorOpsCapabilities(t *testing.T) {
	iops := VectorOps[imath.Vec3[int32], int32]()
	assert.True(t, iops.Supports(OpAdd))
	assert.True(t, iops.Supports(OpMul))
	assert.False(t, iops.Supports(OpDiv), "integer vector arrays do not divide")
	assert.False(t, iops.SupportsScalar(OpDiv))
	assert.True(t, iops.SupportsScalar(OpMul))

	fops := VectorOps[imath.Vec3[float32], float32]()
	assert.True(t, fops.Supports(OpDiv))
	assert.True(t, fops.SupportsScalar(OpDiv))
	assert.False(t, fops.Supports(OpPow))

	a := FromSlice([]imath.Vec3[float32]{imath.V3[float32](2, 4, 6), imath.V3[float32](1, 1, 1)})
	half, err := fops.ApplyScalar(OpDiv, a, 2)
	require.NoError(t, err)
	assert.Equal(t, imath.V3[float32](1, 2, 3), half.Items()[0])

	scaled, err := fops.ApplyScalars(OpMul, a, FromSlice([]float32{0.5, 3}))
	require.NoError(t, err)
	assert.Equal(t, imath.V3[float32](3, 3, 3), scaled.Items()[1])

	neg, err := fops.Negate(a)
	require.NoError(t, err)
	assert.Equal(t, imath.V3[float32](-1, -1, -1), neg.Items()[1])

	lo, err := fops.MinOf(FromSlice([]imath.Vec3[float32]{imath.V3[float32](1, 5, 3), imath.V3[float32](2, 0, 9)}))
	require.NoError(t, err)
	assert.Equal(t, imath.V3[float32](1, 0, 3), lo)

	_, err = BoolOps().Negate(FromSlice([]bool{true}))
	assert.Equal(t, errors.KindUnsupported, kindOf(t, err))
}

func TestAdditionAssociative(t *testing.T) {
	ops := VectorOps[imath.Vec3[int32], int32]()
	a := FromSlice([]imath.Vec3[int32]{imath.V3[int32](1, 2, 3), imath.V3[int32](-4, 5, 0)})
	b := FromSlice([]imath.Vec3[int32]{imath.V3[int32](7, 8, 9), imath.V3[int32](1, 1, 1)})
	c := FromSlice([]imath.Vec3[int32]{imath.V3[int32](0, -1, 2), imath.V3[int32](3, 3, 3)})

	ab, _ := ops.Apply(OpAdd, a, b)
	left, _ := ops.Apply(OpAdd, ab, c)
	bc, _ := ops.Apply(OpAdd, b, c)
	right, _ := ops.Apply(OpAdd, a, bc)
	assert.Equal(t, left.Items(), right.Items())
}

func TestVectorHelpers(t *testing.T) {
	a := FromSlice([]imath.Vec3[float64]{imath.V3(3.0, 0.0, 4.0), {}})
	assert.Equal(t, []float64{5, 0}, Length[imath.Vec3[float64], float64](a).Items())
	assert.Equal(t, []float64{25, 0}, Length2[imath.Vec3[float64], float64](a).Items())
	assert.Equal(t, []float64{3, 0}, Component[imath.Vec3[float64], float64](a, 0).Items())

	n, err := Normalized[imath.Vec3[float64], float64](a)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, n.Items()[0].X, 1e-12)
	assert.Equal(t, imath.Vec3[float64]{}, n.Items()[1])

	require.NoError(t, SetComponent[imath.Vec3[float64], float64](a, 2, FromSlice([]float64{1, 2})))
	assert.Equal(t, imath.V3(3.0, 0.0, 1.0), a.Items()[0])

	d, err := Dot[imath.Vec3[float64], float64](a, a)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 4}, d.Items())

	x := FromSlice([]imath.Vec3[int32]{imath.V3[int32](1, 0, 0)})
	y := FromSlice([]imath.Vec3[int32]{imath.V3[int32](0, 1, 0)})
	cr, err := Cross(x, y)
	require.NoError(t, err)
	assert.Equal(t, imath.V3[int32](0, 0, 1), cr.Items()[0])

	ints := FromSlice([]imath.Vec2[int32]{imath.V2[int32](0, 5)})
	in, err := Normalized[imath.Vec2[int32], int32](ints)
	require.NoError(t, err)
	assert.Equal(t, imath.V2[int32](0, 1), in.Items()[0])

	bb := BoundingBox[imath.Vec3[float64], float64](a)
	assert.Equal(t, imath.V3(0.0, 0.0, 1.0), bb.Min)
}

func TestHalfOps(t *testing.T) {
	ops := HalfOps()
	a := FromSlice([]float16.Float16{float16.Fromfloat32(1.5), float16.Fromfloat32(-2)})
	sum, err := ops.ApplyElem(OpAdd, a, float16.Fromfloat32(0.5), false)
	require.NoError(t, err)
	assert.Equal(t, float32(2), sum.Items()[0].Float32())
	assert.Equal(t, float32(-1.5), sum.Items()[1].Float32())

	p, err := ops.ApplyElem(OpPow, a, float16.Fromfloat32(2), false)
	require.NoError(t, err)
	assert.Equal(t, float32(2.25), p.Items()[0].Float32())
}

func TestConvert(t *testing.T) {
	f := FromSlice([]float32{1.7, -2.2})
	i := Convert(f, func(x float32) int32 { return int32(x) })
	assert.Equal(t, []int32{1, -2}, i.Items())
}

func TestParallelGenerate(t *testing.T) {
	task.SetDefault(task.New(4, 16))
	defer task.SetDefault(nil)

	n := 1000
	a, err := Generate(n, func(i int) (int32, error) { return int32(i), nil })
	require.NoError(t, err)
	for i, v := range a.Items() {
		require.Equal(t, int32(i), v)
	}

	ops := IntegerOps[int32]()
	_, err = ops.ApplyElem(OpDiv, a, 0, false)
	_, ok := iex.Catch(err, iex.DivzeroExc)
	assert.True(t, ok)
}

func rangeOf[T any](t *testing.T, a *FixedArray[T], start, stop, step *int) seq.Range {
	t.Helper()
	r, err := seq.Indices(start, stop, step, a.Len())
	require.NoError(t, err)
	return r
}
