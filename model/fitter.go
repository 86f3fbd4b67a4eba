// Package model implements component A (the convex-hull model fitter) and
// component B (the fixed model bank) of the NeaTS core.
package model

import (
	"fmt"

	"github.com/mxpucci/NeaTS/errs"
	"github.com/mxpucci/NeaTS/format"
)

// Fitter maintains the feasibility region of one model family's
// coefficients as points are streamed in, under a fixed error tolerance
// fixed at Open time. It mirrors the "optimal piecewise approximation with
// an error strip" scheme: Add reports infeasible rather than erroring for
// ordinary bound violations, and only returns an error when the position
// itself cannot be represented under the family's input warp.
type Fitter interface {
	// Add attempts to extend the feasibility region to cover position i
	// with value y. ok is false if accepting the point would violate the
	// error tolerance; the fitter's state is left unchanged in that case
	// and the caller must close the fitter. A non-nil error means the
	// position could not be warped at all (NUMERIC_UNREPRESENTABLE) and
	// the family must be excluded for the remainder of this segment.
	Add(i uint64, y int64) (ok bool, err error)

	// Len reports how many points have been accepted so far.
	Len() int

	// Coefficients returns the coefficients chosen for the points accepted
	// so far: the centre of the feasible range for CONST and the cone
	// families, the least-squares parabola for QUADRATIC. Only valid once
	// Len() > 0.
	Coefficients() Coefficients
}

// ModelFamily is a model family as catalogued in the bank: it knows how to
// open a fresh fitter under a given error tolerance and how to turn
// coefficients plus a position back into a prediction.
type ModelFamily interface {
	// Tag returns this family's stable bank ordinal.
	Tag() format.ModelTag

	// Open returns a fresh Fitter with an empty feasibility region, bound
	// to the tolerance eps. The partitioner passes 2^(bpc-1) - 1.5 (floored
	// at 0), half a unit tighter than the integer residual bound.
	Open(eps float64) Fitter

	// Predict returns the integer prediction for position i under
	// coefficients c. Must be bit-identical whether called while building
	// (to compute residuals) or while querying (to reconstruct values).
	Predict(c Coefficients, i uint64) int64
}

// unrepresentablePosition wraps the supplied detail as a
// NUMERIC_UNREPRESENTABLE error for a warp failure at position i.
func unrepresentablePosition(i uint64) error {
	return errs.Numeric(fmt.Errorf("position %d cannot be warped by this model family", i))
}
