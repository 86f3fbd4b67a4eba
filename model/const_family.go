package model

import (
	"math"

	"github.com/mxpucci/NeaTS/format"
)

// constFamily predicts a single value for the whole segment. It is always
// feasible for the first point of any segment, which is what guarantees
// the partitioner forward progress required by §4.3.
type constFamily struct{}

// NewConstFamily returns the CONST model family.
func NewConstFamily() ModelFamily { return constFamily{} }

func (constFamily) Tag() format.ModelTag { return format.Const }

func (constFamily) Open(eps float64) Fitter {
	return &constFitter{eps: eps, lo: negInf, hi: posInf}
}

func (constFamily) Predict(c Coefficients, _ uint64) int64 {
	return predictClip(c.C0)
}

var (
	posInf = math.Inf(1)
	negInf = math.Inf(-1)
)

// constFitter maintains the feasible interval [lo,hi] for the single
// coefficient directly: each point (i,y) constrains it to [y-eps, y+eps].
type constFitter struct {
	eps    float64
	lo, hi float64
	n      int
}

func (f *constFitter) Add(_ uint64, y int64) (bool, error) {
	yf := float64(y)
	newLo := maxF(f.lo, yf-f.eps)
	newHi := minF(f.hi, yf+f.eps)
	if newLo > newHi {
		return false, nil
	}
	f.lo, f.hi = newLo, newHi
	f.n++
	return true, nil
}

func (f *constFitter) Len() int { return f.n }

func (f *constFitter) Coefficients() Coefficients {
	return Coefficients{C0: (f.lo + f.hi) / 2}
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
