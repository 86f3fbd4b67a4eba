package model

import (
	"math"

	"github.com/mxpucci/NeaTS/format"
)

// warpFunc maps an absolute position to the real-valued input a model
// family actually fits against. ok is false when the position cannot be
// warped (the §9 open question case: i+1 overflows uint64).
type warpFunc func(i uint64) (u float64, ok bool)

// coneFamily is a two-degree-of-freedom affine family f(u) = slope*u +
// intercept, fit under a given warp. LINEAR, RADICAL and EXPONENTIAL are all
// instances of this shape differing only in warp.
type coneFamily struct {
	tag  format.ModelTag
	warp warpFunc
}

// NewLinearFamily returns the LINEAR model family: f(i) = a*i + b.
func NewLinearFamily() ModelFamily {
	return coneFamily{tag: format.Linear, warp: identityWarp}
}

// NewRadicalFamily returns the RADICAL model family: f(i) = a*sqrt(i+1) + b.
func NewRadicalFamily() ModelFamily {
	return coneFamily{tag: format.Radical, warp: radicalWarp}
}

// NewExponentialFamily returns the EXPONENTIAL model family:
// f(i) = a*ln(i+1) + b.
func NewExponentialFamily() ModelFamily {
	return coneFamily{tag: format.Exponential, warp: exponentialWarp}
}

func identityWarp(i uint64) (float64, bool) { return float64(i), true }

func radicalWarp(i uint64) (float64, bool) {
	if i == math.MaxUint64 {
		return 0, false
	}
	return math.Sqrt(float64(i) + 1), true
}

func exponentialWarp(i uint64) (float64, bool) {
	if i == math.MaxUint64 {
		return 0, false
	}
	return math.Log(float64(i) + 1), true
}

func (f coneFamily) Tag() format.ModelTag { return f.tag }

func (f coneFamily) Open(eps float64) Fitter {
	return &coneFitter{warp: f.warp, eps: eps, slopeLo: negInf, slopeHi: posInf}
}

func (f coneFamily) Predict(c Coefficients, i uint64) int64 {
	u, ok := f.warp(i)
	if !ok {
		// The build step never commits a point the warp rejects, so a
		// query against a position inside a committed segment always
		// warps successfully. This branch only guards against misuse.
		u = 0
	}
	return predictClip(c.C0*u + c.C1)
}

// coneFitter implements the anchor-pinned shrinking-cone algorithm: the
// line is required to pass exactly through the first accepted point, and
// every later point narrows the admissible slope interval to the range of
// slopes for which the line stays within the error strip at that point
// too. This is a conservative (sound but not maximally permissive)
// specialisation of the full dual convex-hull construction described in
// the design notes: it never accepts a point that would violate the
// tolerance, and it runs in true O(1) per point since only two scalar
// bounds are tracked.
type coneFitter struct {
	warp           warpFunc
	eps            float64
	n              int
	u0, y0         float64
	slopeLo, slopeHi float64
}

func (f *coneFitter) Add(i uint64, y int64) (bool, error) {
	u, ok := f.warp(i)
	if !ok {
		return false, unrepresentablePosition(i)
	}
	yf := float64(y)

	if f.n == 0 {
		f.u0, f.y0 = u, yf
		f.n = 1
		return true, nil
	}

	du := u - f.u0
	if du == 0 {
		// Two points warp to the same u: only feasible if y is already
		// within tolerance of the anchor under every slope, i.e. if y
		// itself is within eps of y0.
		if math.Abs(yf-f.y0) > f.eps {
			return false, nil
		}
		f.n++
		return true, nil
	}

	sHi := (yf + f.eps - f.y0) / du
	sLo := (yf - f.eps - f.y0) / du
	if du < 0 {
		sLo, sHi = sHi, sLo
	}

	newLo := maxF(f.slopeLo, sLo)
	newHi := minF(f.slopeHi, sHi)
	if newLo > newHi {
		return false, nil
	}

	f.slopeLo, f.slopeHi = newLo, newHi
	f.n++
	return true, nil
}

func (f *coneFitter) Len() int { return f.n }

func (f *coneFitter) Coefficients() Coefficients {
	slope := 0.0
	switch {
	case math.IsInf(f.slopeLo, 0) && math.IsInf(f.slopeHi, 0):
		slope = 0
	case math.IsInf(f.slopeLo, -1):
		slope = f.slopeHi
	case math.IsInf(f.slopeHi, 1):
		slope = f.slopeLo
	default:
		slope = (f.slopeLo + f.slopeHi) / 2
	}
	intercept := f.y0 - slope*f.u0
	return Coefficients{C0: slope, C1: intercept}
}
