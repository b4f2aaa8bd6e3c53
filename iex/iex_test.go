package iex

import (
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHierarchy(t *testing.T) {
	tests := []struct {
		class *Class
		base  *Class
		depth int
	}{
		{BaseExc, nil, 0},
		{ArgExc, BaseExc, 1},
		{MathExc, BaseExc, 1},
		{ErrnoExc, BaseExc, 1},
		{DivzeroExc, MathExc, 2},
		{NullVecExc, MathExc, 2},
		{SingMatrixExc, MathExc, 2},
	}
	for _, tt := range tests {
		t.Run(tt.class.Name(), func(t *testing.T) {
			assert.Equal(t, tt.base, tt.class.Base())
			assert.Equal(t, tt.depth, tt.class.Depth())
			assert.True(t, tt.class.IsA(BaseExc))
		})
	}

	assert.False(t, ArgExc.IsA(MathExc))
	assert.Equal(t, LibraryImath, NullQuatExc.Library())
	assert.Equal(t, LibraryIex, ArgExc.Library())
}

func TestAllOrdersBasesFirst(t *testing.T) {
	seen := make(map[*Class]bool)
	for _, c := range All() {
		if c.Base() != nil {
			require.True(t, seen[c.Base()], "%s listed before its base %s", c.Name(), c.Base().Name())
		}
		seen[c] = true
	}
	assert.Len(t, Library(LibraryImath), 6)
}

func TestErrnoClasses(t *testing.T) {
	c, ok := Lookup("EpermExc")
	require.True(t, ok)
	assert.Equal(t, "EPERM", c.Errno())
	assert.Equal(t, ErrnoExc, c.Base())

	c, ok = ByErrno("E2BIG")
	require.True(t, ok)
	assert.Equal(t, "E2bigExc", c.Name())

	_, ok = Lookup("EnotAnErrnoExc")
	assert.False(t, ok)
}

func TestFromErrno(t *testing.T) {
	exc := FromErrno(syscall.ENOENT, "missing file")
	assert.Equal(t, "missing file", exc.Error())
	assert.True(t, exc.Class().IsA(ErrnoExc))

	fallback := FromErrno(syscall.Errno(0), "")
	assert.True(t, fallback.Class().IsA(ErrnoExc))
}

func TestCatch(t *testing.T) {
	err := fmt.Errorf("context: %w", ArgExc.New("bad argument"))

	exc, ok := Catch(err, BaseExc)
	require.True(t, ok)
	assert.Equal(t, "bad argument", exc.Error())
	assert.Equal(t, ArgExc, exc.Class())

	_, ok = Catch(err, MathExc)
	assert.False(t, ok)

	_, ok = Catch(fmt.Errorf("plain"), BaseExc)
	assert.False(t, ok)
}

func TestDefine(t *testing.T) {
	custom, err := Define("CustomTestExc", ArgExc, "test")
	require.NoError(t, err)
	assert.Equal(t, 2, custom.Depth())
	assert.True(t, custom.IsA(ArgExc))

	_, err = Define("CustomTestExc", ArgExc, "test")
	assert.Error(t, err)

	_, err = Define("RootlessExc", nil, "test")
	assert.Error(t, err)

	msg := custom.Newf("value %d", 3)
	assert.Equal(t, "value 3", msg.Error())
}
