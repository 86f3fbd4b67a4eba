package store

import (
	"math"

	"github.com/mxpucci/NeaTS/endian"
	"github.com/mxpucci/NeaTS/format"
	"github.com/mxpucci/NeaTS/model"
)

// appendCoeffs appends the arity coefficients of c (in C0,C1,C2 order) for
// model tag as 8-byte little-endian float64 fields.
func appendCoeffs(buf []byte, tag format.ModelTag, c model.Coefficients) []byte {
	values := [3]float64{c.C0, c.C1, c.C2}
	for i := 0; i < tag.Arity(); i++ {
		buf = endian.LE.AppendUint64(buf, math.Float64bits(values[i]))
	}
	return buf
}

// parseCoeffs reads one coefficient tuple for tag from the front of b,
// returning the tuple and the number of bytes consumed.
func parseCoeffs(b []byte, tag format.ModelTag) (model.Coefficients, int) {
	var c model.Coefficients
	values := [3]*float64{&c.C0, &c.C1, &c.C2}
	off := 0
	for i := 0; i < tag.Arity(); i++ {
		*values[i] = math.Float64frombits(endian.LE.Uint64(b[off : off+8]))
		off += 8
	}
	return c, off
}
