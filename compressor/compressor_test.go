package compressor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mxpucci/NeaTS/errs"
)

func TestNewRejectsBPCOutOfRange(t *testing.T) {
	_, err := New(0)
	require.ErrorIs(t, err, errs.ErrBPCOutOfRange)

	_, err = New(64)
	require.ErrorIs(t, err, errs.ErrBPCOutOfRange)
}

func TestOperationsBeforePartitionFail(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)

	_, err = c.ValueAt(0)
	require.ErrorIs(t, err, errs.ErrNotPartitioned)

	err = c.Decompress(make([]int64, 1))
	require.ErrorIs(t, err, errs.ErrNotPartitioned)

	err = c.Serialize(&bytes.Buffer{})
	require.ErrorIs(t, err, errs.ErrNotPartitioned)
}

func TestPartitionCanOnlyBeCalledOnce(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)
	require.NoError(t, c.Partition([]int64{1, 2, 3}))

	err = c.Partition([]int64{4, 5, 6})
	require.ErrorIs(t, err, errs.ErrAlreadyPartitioned)
}

func buildTestSeries() []int64 {
	x := make([]int64, 0, 300)
	for i := 0; i < 100; i++ {
		x = append(x, int64(i)*3+1)
	}
	for i := 0; i < 100; i++ {
		x = append(x, int64(i*i)/5+10)
	}
	for i := 0; i < 100; i++ {
		x = append(x, 42)
	}
	return x
}

func TestValueAtMatchesOriginalSequence(t *testing.T) {
	x := buildTestSeries()
	c, err := New(10)
	require.NoError(t, err)
	require.NoError(t, c.Partition(x))

	for i, want := range x {
		got, err := c.ValueAt(uint64(i))
		require.NoError(t, err)
		require.Equal(t, want, got, "position %d", i)
	}

	_, err = c.ValueAt(uint64(len(x)))
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}

func TestDecompressAndSIMDDecompressAgree(t *testing.T) {
	x := buildTestSeries()
	c, err := New(10)
	require.NoError(t, err)
	require.NoError(t, c.Partition(x))

	scalarOut := make([]int64, len(x))
	require.NoError(t, c.Decompress(scalarOut))
	require.Equal(t, x, scalarOut)

	simdOut := make([]int64, len(x))
	require.NoError(t, c.SIMDDecompress(simdOut))
	require.Equal(t, x, simdOut)

	require.Equal(t, scalarOut, simdOut)
}

func TestDecompressRejectsShortOutputBuffer(t *testing.T) {
	x := buildTestSeries()
	c, err := New(10)
	require.NoError(t, err)
	require.NoError(t, c.Partition(x))

	err = c.Decompress(make([]int64, len(x)-1))
	require.ErrorIs(t, err, errs.ErrOutputTooShort)
}

func TestScanReturnsExactSubrange(t *testing.T) {
	x := buildTestSeries()
	c, err := New(10)
	require.NoError(t, err)
	require.NoError(t, c.Partition(x))

	lo, hi := uint64(50), uint64(220)
	out := make([]int64, hi-lo)
	require.NoError(t, c.Scan(lo, hi, out))
	require.Equal(t, x[lo:hi], out)
}

func TestScanRejectsInvalidRange(t *testing.T) {
	x := buildTestSeries()
	c, err := New(10)
	require.NoError(t, err)
	require.NoError(t, c.Partition(x))

	err = c.Scan(10, 5, make([]int64, 0))
	require.ErrorIs(t, err, errs.ErrRangeInvalid)

	err = c.Scan(0, uint64(len(x)+1), make([]int64, len(x)+1))
	require.ErrorIs(t, err, errs.ErrRangeInvalid)
}

func TestSerializeLoadRoundTrip(t *testing.T) {
	x := buildTestSeries()
	c, err := New(10)
	require.NoError(t, err)
	require.NoError(t, c.Partition(x))

	var buf bytes.Buffer
	require.NoError(t, c.Serialize(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	require.Equal(t, c.Size(), loaded.Size())
	require.Equal(t, c.BitsPerResidual(), loaded.BitsPerResidual())

	out := make([]int64, len(x))
	require.NoError(t, loaded.Decompress(out))
	require.Equal(t, x, out)
}

func TestLoadRejectsCorruptedChecksum(t *testing.T) {
	x := []int64{1, 2, 3, 4, 5}
	c, err := New(8)
	require.NoError(t, err)
	require.NoError(t, c.Partition(x))

	var buf bytes.Buffer
	require.NoError(t, c.Serialize(&buf))

	data := buf.Bytes()
	data[len(data)-1] ^= 0xFF

	_, err = Load(bytes.NewReader(data))
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
}

func TestSizeInBitsIsZeroBeforePartition(t *testing.T) {
	c, err := New(8)
	require.NoError(t, err)
	require.Equal(t, uint64(0), c.SizeInBits())
	require.Equal(t, uint64(0), c.Size())
}
