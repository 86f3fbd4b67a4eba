package store

import "github.com/mxpucci/NeaTS/internal/bitpack"

// ResidualArray is the single packed residual bit-vector of length N*bpc,
// built on the Gorilla-style bit accumulator in internal/bitpack but
// generalized from its variable-width control codes to one fixed width
// (bpc) per value, with O(1) random access via bitpack.ReadBitsAt.
type ResidualArray struct {
	bpc   uint8
	n     uint64
	bytes []byte
}

// BuildResidualArray packs n values, one per position, returned by valueAt,
// into bpc-wide two's-complement fields.
func BuildResidualArray(n uint64, bpc uint8, valueAt func(i uint64) int64) *ResidualArray {
	w := bitpack.NewWriter()
	mask := uint64(1)<<uint(bpc) - 1
	for i := uint64(0); i < n; i++ {
		v := uint64(valueAt(i)) & mask
		w.WriteWideBits(v, int(bpc))
	}
	return &ResidualArray{bpc: bpc, n: n, bytes: w.Flush()}
}

// NewResidualArrayFromBytes wraps raw packed bytes read back from a
// serialized stream.
func NewResidualArrayFromBytes(bytes []byte, n uint64, bpc uint8) *ResidualArray {
	return &ResidualArray{bpc: bpc, n: n, bytes: bytes}
}

// Bytes returns the packed byte representation, for serialization.
func (r *ResidualArray) Bytes() []byte { return r.bytes }

// Get returns the signed residual at position i.
func (r *ResidualArray) Get(i uint64) int64 {
	v := bitpack.ReadBitsAt(r.bytes, i*uint64(r.bpc), int(r.bpc))
	return signExtend(v, int(r.bpc))
}

func signExtend(v uint64, width int) int64 {
	if width >= 64 {
		return int64(v)
	}
	signBit := uint64(1) << uint(width-1)
	if v&signBit != 0 {
		return int64(v) - int64(uint64(1)<<uint(width))
	}
	return int64(v)
}
