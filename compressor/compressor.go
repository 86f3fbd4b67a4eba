// Package compressor implements component E: the public Compressor type
// tying the partitioner, segment store and wire format together behind the
// operations an external caller sees.
package compressor

import (
	"hash/crc32"
	"io"

	"github.com/mxpucci/NeaTS/endian"
	"github.com/mxpucci/NeaTS/errs"
	"github.com/mxpucci/NeaTS/format"
	"github.com/mxpucci/NeaTS/internal/options"
	"github.com/mxpucci/NeaTS/internal/pool"
	"github.com/mxpucci/NeaTS/model"
	"github.com/mxpucci/NeaTS/partition"
	"github.com/mxpucci/NeaTS/section"
	"github.com/mxpucci/NeaTS/store"
)

// laneWidth is the batch width SIMDDecompress processes per inner loop
// iteration. There is no portable SIMD intrinsic in play here (Go has
// none in the standard library), so the "vectorisation" is a fixed-width
// scalar batch loop; what it buys is the same memory-access and
// prediction pattern a real SIMD port would have, with a scalar fallback
// for segment tails shorter than one lane.
const laneWidth = 8

type config struct {
	bank model.Bank
}

// Option configures a Compressor at construction time.
type Option = options.Option[*config]

// WithBank overrides the default five-family bank. Mainly useful for tests
// that want to exercise a subset of model families.
func WithBank(b model.Bank) Option {
	return options.NoError[*config](func(c *config) { c.bank = b })
}

// Compressor is the core's single mutable-then-immutable type: New
// constructs an empty instance, Partition (or Load) builds it exactly
// once, and every operation thereafter is read-only and safe for
// concurrent use.
type Compressor struct {
	bpc   uint8
	bank  model.Bank
	store *store.Store
}

// New constructs an empty compressor bound to the given residual width.
func New(bpc uint8, opts ...Option) (*Compressor, error) {
	if bpc < format.MinBPC || bpc > format.MaxBPC {
		return nil, errs.Config(errs.ErrBPCOutOfRange)
	}

	cfg := &config{bank: model.NewFullBank()}
	if err := options.Apply[*config](cfg, opts...); err != nil {
		return nil, errs.Config(err)
	}

	return &Compressor{bpc: bpc, bank: cfg.bank}, nil
}

// Partition builds the compressor from x. It may be called exactly once
// per instance.
func (c *Compressor) Partition(x []int64) error {
	if c.store != nil {
		return errs.Config(errs.ErrAlreadyPartitioned)
	}

	segments, err := partition.Partition(x, c.bpc, partition.WithBank(c.bank))
	if err != nil {
		return err
	}

	c.store = store.Build(uint64(len(x)), c.bpc, segments)
	return nil
}

// ValueAt returns x[i] by locating i's segment, predicting, and adding
// back the stored residual.
func (c *Compressor) ValueAt(i uint64) (int64, error) {
	if c.store == nil {
		return 0, errs.Config(errs.ErrNotPartitioned)
	}
	if i >= c.store.N() {
		return 0, errs.Config(errs.ErrIndexOutOfRange)
	}

	k, _, _ := c.store.SegmentOf(i)
	tag, coeffs := c.store.Coeff(k)
	pred := c.bank.Family(tag).Predict(coeffs, i)
	return pred + c.store.Residual(i), nil
}

// Decompress reconstructs the entire sequence into out, segment by
// segment.
func (c *Compressor) Decompress(out []int64) error {
	if c.store == nil {
		return errs.Config(errs.ErrNotPartitioned)
	}
	if uint64(len(out)) < c.store.N() {
		return errs.Config(errs.ErrOutputTooShort)
	}

	for k := 0; k < c.store.NumSegments(); k++ {
		start, length, tag, coeffs := c.store.SegmentAt(k)
		fam := c.bank.Family(tag)
		for j := uint64(0); j < length; j++ {
			i := start + j
			out[i] = fam.Predict(coeffs, i) + c.store.Residual(i)
		}
	}
	return nil
}

// SIMDDecompress has identical semantics to Decompress but processes each
// segment in lane-width batches, falling back to scalar handling for the
// tail shorter than one lane. The caller-provided output buffer must be at
// least Size() long; vector-width byte alignment is a documented
// precondition on ports that target real SIMD registers, not something a
// plain Go slice can express or this implementation enforces.
func (c *Compressor) SIMDDecompress(out []int64) error {
	if c.store == nil {
		return errs.Config(errs.ErrNotPartitioned)
	}
	if uint64(len(out)) < c.store.N() {
		return errs.Config(errs.ErrOutputTooShort)
	}

	for k := 0; k < c.store.NumSegments(); k++ {
		start, length, tag, coeffs := c.store.SegmentAt(k)
		fam := c.bank.Family(tag)

		j := uint64(0)
		for ; j+laneWidth <= length; j += laneWidth {
			var preds, resids [laneWidth]int64
			for lane := 0; lane < laneWidth; lane++ {
				i := start + j + uint64(lane)
				preds[lane] = fam.Predict(coeffs, i)
				resids[lane] = c.store.Residual(i)
			}
			for lane := 0; lane < laneWidth; lane++ {
				out[start+j+uint64(lane)] = preds[lane] + resids[lane]
			}
		}
		for ; j < length; j++ {
			i := start + j
			out[i] = fam.Predict(coeffs, i) + c.store.Residual(i)
		}
	}
	return nil
}

// Scan reconstructs positions [lo,hi) into out[0:hi-lo], walking only the
// segments that intersect the range.
func (c *Compressor) Scan(lo, hi uint64, out []int64) error {
	if c.store == nil {
		return errs.Config(errs.ErrNotPartitioned)
	}
	n := c.store.N()
	if lo > hi || hi > n {
		return errs.Config(errs.ErrRangeInvalid)
	}
	need := hi - lo
	if uint64(len(out)) < need {
		return errs.Config(errs.ErrOutputTooShort)
	}
	if need == 0 {
		return nil
	}

	k, _, _ := c.store.SegmentOf(lo)
	for pos := lo; pos < hi; {
		start, length, tag, coeffs := c.store.SegmentAt(k)
		fam := c.bank.Family(tag)

		segEnd := start + length
		to := segEnd
		if to > hi {
			to = hi
		}
		for i := pos; i < to; i++ {
			out[i-lo] = fam.Predict(coeffs, i) + c.store.Residual(i)
		}
		pos = to
		k++
	}
	return nil
}

// Size returns N, the number of positions in the compressor.
func (c *Compressor) Size() uint64 {
	if c.store == nil {
		return 0
	}
	return c.store.N()
}

// SizeInBits returns the total serialized footprint, including the fixed
// header and checksum trailer.
func (c *Compressor) SizeInBits() uint64 {
	if c.store == nil {
		return 0
	}
	return uint64(section.HeaderSize)*8 + c.store.SizeInBits() + 32
}

// BitsPerResidual returns the configured bpc.
func (c *Compressor) BitsPerResidual() uint8 { return c.bpc }

// Serialize writes the compressor's on-disk representation to w: header,
// packed store, then a CRC-32 trailer over everything preceding it.
func (c *Compressor) Serialize(w io.Writer) error {
	if c.store == nil {
		return errs.Config(errs.ErrNotPartitioned)
	}

	buf := pool.Get()
	defer pool.Put(buf)

	h := section.Header{
		Version:   format.Version,
		Flag:      section.NewFlag(format.FullBank),
		BPC:       c.bpc,
		N:         c.store.N(),
		NSegments: uint64(c.store.NumSegments()),
	}
	buf.B = h.AppendTo(buf.B)
	buf.B = c.store.AppendTo(buf.B)

	checksum := crc32.ChecksumIEEE(buf.B)
	buf.B = endian.LE.AppendUint32(buf.B, checksum)

	if _, err := w.Write(buf.B); err != nil {
		return errs.IO(err)
	}
	return nil
}

// Load reconstructs a compressor from a stream previously produced by
// Serialize, validating magic, version and checksum before accepting it.
func Load(r io.Reader) (*Compressor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.IO(err)
	}

	h, consumed, err := section.ParseHeader(data)
	if err != nil {
		return nil, err
	}

	if len(data) < consumed+4 {
		return nil, errs.Format(errs.ErrTruncated)
	}
	trailerStart := len(data) - 4
	body := data[:trailerStart]

	gotChecksum := endian.LE.Uint32(data[trailerStart:])
	wantChecksum := crc32.ChecksumIEEE(body)
	if gotChecksum != wantChecksum {
		return nil, errs.Format(errs.ErrChecksumMismatch)
	}

	st, _, err := store.ParseStore(body[consumed:], h.N, h.NSegments, h.BPC)
	if err != nil {
		return nil, err
	}

	return &Compressor{bpc: h.BPC, bank: model.NewFullBank(), store: st}, nil
}
