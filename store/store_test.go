package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mxpucci/NeaTS/format"
	"github.com/mxpucci/NeaTS/model"
	"github.com/mxpucci/NeaTS/partition"
)

func TestBitVectorRankAndSelect(t *testing.T) {
	bv := NewBitVector(20)
	setPositions := []uint64{0, 3, 7, 8, 15, 19}
	for _, p := range setPositions {
		bv.Set(p)
	}
	bv.Build()

	require.Equal(t, uint64(len(setPositions)), bv.Ones())
	require.Equal(t, uint64(0), bv.Rank1(0))
	require.Equal(t, uint64(1), bv.Rank1(1))
	require.Equal(t, uint64(2), bv.Rank1(4))
	require.Equal(t, uint64(len(setPositions)), bv.Rank1(20))

	for k, want := range setPositions {
		got, ok := bv.Select1(uint64(k))
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	_, ok := bv.Select1(uint64(len(setPositions)))
	require.False(t, ok)
}

func TestBitVectorSurvivesWordsRoundTrip(t *testing.T) {
	bv := NewBitVector(130)
	for _, p := range []uint64{0, 64, 65, 129} {
		bv.Set(p)
	}
	bv.Build()

	bv2 := NewBitVectorFromWords(bv.Words(), bv.Len())
	bv2.Build()

	require.Equal(t, bv.Ones(), bv2.Ones())
	pos, ok := bv2.Select1(3)
	require.True(t, ok)
	require.Equal(t, uint64(129), pos)
}

func TestResidualArrayPacksSignedValues(t *testing.T) {
	values := []int64{0, -1, 1, -16, 15, -4, 7}
	const bpc = 5
	arr := BuildResidualArray(uint64(len(values)), bpc, func(i uint64) int64 { return values[i] })

	for i, v := range values {
		require.Equal(t, v, arr.Get(uint64(i)), "index %d", i)
	}

	arr2 := NewResidualArrayFromBytes(arr.Bytes(), uint64(len(values)), bpc)
	for i, v := range values {
		require.Equal(t, v, arr2.Get(uint64(i)), "index %d", i)
	}
}

func TestStoreBuildAndSerializeRoundTrip(t *testing.T) {
	x := []int64{0, 2, 4, 6, 8, 10, 100, 102, 104, 106}
	const bpc = 3
	segs, err := partition.Partition(x, bpc)
	require.NoError(t, err)

	s := Build(uint64(len(x)), bpc, segs)
	require.Equal(t, uint64(len(x)), s.N())
	require.Equal(t, uint8(bpc), s.BPC())
	require.Equal(t, len(segs), s.NumSegments())

	buf := s.AppendTo(nil)
	parsed, consumed, err := ParseStore(buf, uint64(len(x)), uint64(len(segs)), bpc)
	require.NoError(t, err)
	require.Equal(t, len(buf), consumed)

	bank := model.NewFullBank()
	for i := uint64(0); i < uint64(len(x)); i++ {
		k, start, length := parsed.SegmentOf(i)
		require.LessOrEqual(t, start, i)
		require.Less(t, i, start+length)

		tag, coeffs := parsed.Coeff(k)
		pred := bank.Family(tag).Predict(coeffs, i)
		got := pred + parsed.Residual(i)
		require.Equal(t, x[i], got, "position %d", i)
	}
}

func TestStoreSegmentAtMatchesSegmentOf(t *testing.T) {
	x := []int64{1, 1, 1, 1, 5, 5, 5}
	const bpc = 4
	segs, err := partition.Partition(x, bpc)
	require.NoError(t, err)

	s := Build(uint64(len(x)), bpc, segs)
	for k := 0; k < s.NumSegments(); k++ {
		start, length, tag, coeffs := s.SegmentAt(k)
		gotTag, gotCoeffs := s.Coeff(k)
		require.Equal(t, gotTag, tag)
		require.Equal(t, gotCoeffs, coeffs)
		require.Greater(t, length, uint64(0))

		segK, segStart, segLength := s.SegmentOf(start)
		require.Equal(t, k, segK)
		require.Equal(t, start, segStart)
		require.Equal(t, length, segLength)
	}
}

func TestStoreSizeInBitsIsWithinOneByteRoundingOfSerializedLength(t *testing.T) {
	x := []int64{3, 6, 9, 12, 15}
	const bpc = 4
	segs, err := partition.Partition(x, bpc)
	require.NoError(t, err)

	s := Build(uint64(len(x)), bpc, segs)
	buf := s.AppendTo(nil)

	// The two bit-packed fields (tags, residuals) byte-align independently,
	// so the serialized length can exceed ceil(SizeInBits/8) by at most one
	// byte of padding, but never be less.
	require.LessOrEqual(t, (s.SizeInBits()+7)/8, uint64(len(buf)))
	require.LessOrEqual(t, uint64(len(buf)), (s.SizeInBits()+7)/8+1)
	require.NotEqual(t, format.BankSize, 0)
}
