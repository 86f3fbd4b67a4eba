package store

import (
	"fmt"

	"github.com/mxpucci/NeaTS/endian"
	"github.com/mxpucci/NeaTS/errs"
	"github.com/mxpucci/NeaTS/format"
	"github.com/mxpucci/NeaTS/internal/bitpack"
	"github.com/mxpucci/NeaTS/model"
	"github.com/mxpucci/NeaTS/partition"
)

// Store is component D: the built, immutable, randomly-indexable
// representation of a segment list. Its logical arrays mirror the design's
// starts/tags/coeffs/residuals split, with tags[k] selecting which
// per-model coefficient array coeffs[k] belongs to.
type Store struct {
	n   uint64
	bpc uint8

	starts         *BitVector
	startPositions []uint64
	lengths        []uint64
	tags           []format.ModelTag
	coeffArrays    [format.BankSize][]model.Coefficients
	coeffIndex     []int
	residuals      *ResidualArray
}

// Build packs a partitioner's segment list into a Store. Segments must be
// contiguous, in ascending start order, and tile [0,n) exactly, as
// guaranteed by partition.Partition.
func Build(n uint64, bpc uint8, segments []partition.Segment) *Store {
	s := &Store{n: n, bpc: bpc}
	s.starts = NewBitVector(n)
	s.startPositions = make([]uint64, len(segments))
	s.lengths = make([]uint64, len(segments))
	s.tags = make([]format.ModelTag, len(segments))
	s.coeffIndex = make([]int, len(segments))

	flatResiduals := make([]int64, 0, n)
	for k, seg := range segments {
		s.starts.Set(seg.Start)
		s.startPositions[k] = seg.Start
		s.lengths[k] = seg.Length
		s.tags[k] = seg.Model
		s.coeffIndex[k] = len(s.coeffArrays[seg.Model])
		s.coeffArrays[seg.Model] = append(s.coeffArrays[seg.Model], seg.Coeffs)
		flatResiduals = append(flatResiduals, seg.Residuals...)
	}
	s.starts.Build()
	s.residuals = BuildResidualArray(n, bpc, func(i uint64) int64 { return flatResiduals[i] })

	return s
}

// N returns the number of positions covered by the store.
func (s *Store) N() uint64 { return s.n }

// BPC returns the residual bit width.
func (s *Store) BPC() uint8 { return s.bpc }

// NumSegments returns the number of segments in the store.
func (s *Store) NumSegments() int { return len(s.tags) }

// SegmentOf returns the index, start and length of the segment containing
// position i.
func (s *Store) SegmentOf(i uint64) (k int, start uint64, length uint64) {
	k = int(s.starts.Rank1(i+1)) - 1
	if k < 0 {
		k = 0
	}
	return k, s.startPositions[k], s.lengths[k]
}

// SegmentAt returns the start, length, model tag and coefficients of
// segment k directly, for callers that walk segments in order rather than
// looking one up by position.
func (s *Store) SegmentAt(k int) (start uint64, length uint64, tag format.ModelTag, coeffs model.Coefficients) {
	tag, coeffs = s.Coeff(k)
	return s.startPositions[k], s.lengths[k], tag, coeffs
}

// Coeff returns the model tag and coefficients of segment k.
func (s *Store) Coeff(k int) (format.ModelTag, model.Coefficients) {
	tag := s.tags[k]
	return tag, s.coeffArrays[tag][s.coeffIndex[k]]
}

// Residual returns the signed residual at position i.
func (s *Store) Residual(i uint64) int64 { return s.residuals.Get(i) }

// SizeInBits returns the packed footprint of the store's own arrays
// (starts, tags, coefficients, residuals), excluding the fixed header and
// checksum trailer the compressor package wraps around it.
func (s *Store) SizeInBits() uint64 {
	startsBits := uint64(len(s.starts.Words())) * 64
	tagBits := uint64(format.BitsForCount(uint64(format.BankSize)))
	tagsBits := uint64(len(s.tags)) * tagBits

	var coeffBits uint64
	for tag := format.ModelTag(0); int(tag) < format.BankSize; tag++ {
		coeffBits += uint64(len(s.coeffArrays[tag])) * uint64(tag.CoeffWidthBits())
	}

	residualBits := s.n * uint64(s.bpc)

	return startsBits + tagsBits + coeffBits + residualBits
}

// AppendTo appends the store's packed byte representation to buf: the
// starts bit-vector's raw words, the bit-compact tag array, the per-model
// coefficient arrays in tag order, then the packed residuals.
func (s *Store) AppendTo(buf []byte) []byte {
	for _, w := range s.starts.Words() {
		buf = endian.LE.AppendUint64(buf, w)
	}

	tagBits := format.BitsForCount(uint64(format.BankSize))
	tw := bitpack.NewWriter()
	for _, t := range s.tags {
		tw.WriteBits(uint64(t), tagBits)
	}
	buf = append(buf, tw.Flush()...)

	for tag := format.ModelTag(0); int(tag) < format.BankSize; tag++ {
		for _, c := range s.coeffArrays[tag] {
			buf = appendCoeffs(buf, tag, c)
		}
	}

	buf = append(buf, s.residuals.Bytes()...)
	return buf
}

// ParseStore reads a Store's packed byte representation from the front of
// b, given the element count, segment count and bpc already read from the
// header. It returns the store and the number of bytes consumed.
func ParseStore(b []byte, n uint64, nSegments uint64, bpc uint8) (*Store, int, error) {
	off := 0

	numWords := int((n + 63) / 64)
	wordBytes := numWords * 8
	if len(b) < off+wordBytes {
		return nil, 0, errs.Format(errs.ErrTruncated)
	}
	words := make([]uint64, numWords)
	for i := 0; i < numWords; i++ {
		words[i] = endian.LE.Uint64(b[off : off+8])
		off += 8
	}
	starts := NewBitVectorFromWords(words, n)
	starts.Build()

	tagBits := format.BitsForCount(uint64(format.BankSize))
	tagsByteLen := int((nSegments*uint64(tagBits) + 7) / 8)
	if len(b) < off+tagsByteLen {
		return nil, 0, errs.Format(errs.ErrTruncated)
	}
	tr := bitpack.NewReader(b[off : off+tagsByteLen])
	off += tagsByteLen
	tags := make([]format.ModelTag, nSegments)
	var counts [format.BankSize]int
	for k := range tags {
		tag := format.ModelTag(tr.ReadBits(tagBits))
		if int(tag) >= format.BankSize {
			return nil, 0, errs.Format(fmt.Errorf("model tag %d out of range", tag))
		}
		tags[k] = tag
		counts[tag]++
	}

	var coeffArrays [format.BankSize][]model.Coefficients
	for tag := format.ModelTag(0); int(tag) < format.BankSize; tag++ {
		arr := make([]model.Coefficients, 0, counts[tag])
		for j := 0; j < counts[tag]; j++ {
			width := tag.Arity() * 8
			if len(b) < off+width {
				return nil, 0, errs.Format(errs.ErrTruncated)
			}
			c, consumed := parseCoeffs(b[off:], tag)
			off += consumed
			arr = append(arr, c)
		}
		coeffArrays[tag] = arr
	}

	var cursor [format.BankSize]int
	coeffIndex := make([]int, nSegments)
	for k, t := range tags {
		coeffIndex[k] = cursor[t]
		cursor[t]++
	}

	residualBytesLen := int((n*uint64(bpc) + 7) / 8)
	if len(b) < off+residualBytesLen {
		return nil, 0, errs.Format(errs.ErrTruncated)
	}
	residuals := NewResidualArrayFromBytes(b[off:off+residualBytesLen], n, bpc)
	off += residualBytesLen

	startPositions := make([]uint64, nSegments)
	for k := uint64(0); k < nSegments; k++ {
		pos, ok := starts.Select1(k)
		if !ok {
			return nil, 0, errs.Format(fmt.Errorf("missing segment start for segment %d", k))
		}
		startPositions[k] = pos
	}
	lengths := make([]uint64, nSegments)
	for k := range startPositions {
		end := n
		if k+1 < len(startPositions) {
			end = startPositions[k+1]
		}
		lengths[k] = end - startPositions[k]
	}

	s := &Store{
		n:              n,
		bpc:            bpc,
		starts:         starts,
		startPositions: startPositions,
		lengths:        lengths,
		tags:           tags,
		coeffArrays:    coeffArrays,
		coeffIndex:     coeffIndex,
		residuals:      residuals,
	}
	return s, off, nil
}
