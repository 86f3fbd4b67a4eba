// Package section implements the fixed-size header and packed bank-ordinal
// flag at the front of a serialized NeaTS stream.
package section

import (
	"github.com/mxpucci/NeaTS/endian"
	"github.com/mxpucci/NeaTS/errs"
	"github.com/mxpucci/NeaTS/format"
)

// HeaderSize is the fixed byte length of the header: magic(4) +
// version(2) + bpc(1) + flag(1) + N(8) + n_segments(8).
const HeaderSize = 4 + 2 + 1 + 1 + 8 + 8

// Header is the fixed-size preamble of a serialized stream.
type Header struct {
	Version   uint16
	Flag      Flag
	BPC       uint8
	N         uint64
	NSegments uint64
}

// AppendTo appends the header's wire bytes to buf and returns the result.
func (h Header) AppendTo(buf []byte) []byte {
	buf = append(buf, format.Magic...)
	buf = endian.LE.AppendUint16(buf, h.Version)
	buf = append(buf, h.BPC, byte(h.Flag))
	buf = endian.LE.AppendUint64(buf, h.N)
	buf = endian.LE.AppendUint64(buf, h.NSegments)
	return buf
}

// ParseHeader reads a Header from the front of b, returning the header and
// the number of bytes consumed.
func ParseHeader(b []byte) (Header, int, error) {
	if len(b) < HeaderSize {
		return Header{}, 0, errs.Format(errs.ErrTruncated)
	}
	if string(b[0:4]) != format.Magic {
		return Header{}, 0, errs.Format(errs.ErrMagicMismatch)
	}

	version := endian.LE.Uint16(b[4:6])
	if version != format.Version {
		return Header{}, 0, errs.Format(errs.ErrUnsupportedVersion)
	}

	h := Header{
		Version:   version,
		BPC:       b[6],
		Flag:      Flag(b[7]),
		N:         endian.LE.Uint64(b[8:16]),
		NSegments: endian.LE.Uint64(b[16:24]),
	}
	if err := h.Flag.Validate(); err != nil {
		return Header{}, 0, err
	}
	if h.BPC < format.MinBPC || h.BPC > format.MaxBPC {
		return Header{}, 0, errs.Format(errs.ErrBPCOutOfRange)
	}

	return h, HeaderSize, nil
}
