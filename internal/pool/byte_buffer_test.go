package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetReturnsResetBuffer(t *testing.T) {
	buf := Get()
	require.Equal(t, 0, buf.Len())
	buf.MustWrite([]byte("hello"))
	require.Equal(t, 5, buf.Len())
	Put(buf)

	buf2 := Get()
	require.Equal(t, 0, buf2.Len())
	Put(buf2)
}

func TestMustWriteAppends(t *testing.T) {
	buf := &ByteBuffer{}
	buf.MustWrite([]byte{1, 2, 3})
	buf.MustWrite([]byte{4, 5})
	require.Equal(t, []byte{1, 2, 3, 4, 5}, buf.Bytes())
}

func TestGrowPreservesContentAndEnsuresCapacity(t *testing.T) {
	buf := &ByteBuffer{B: make([]byte, 0, 4)}
	buf.MustWrite([]byte{1, 2, 3})
	buf.Grow(1 << 20)
	require.GreaterOrEqual(t, cap(buf.B)-len(buf.B), 1<<20)
	require.Equal(t, []byte{1, 2, 3}, buf.Bytes())
}

func TestExtendOrGrowExtendsLength(t *testing.T) {
	buf := &ByteBuffer{}
	buf.ExtendOrGrow(10)
	require.Equal(t, 10, buf.Len())
}

func TestResetKeepsBackingArray(t *testing.T) {
	buf := &ByteBuffer{}
	buf.MustWrite([]byte{1, 2, 3})
	backing := cap(buf.B)
	buf.Reset()
	require.Equal(t, 0, buf.Len())
	require.Equal(t, backing, cap(buf.B))
}
