package model

import "math"

// Coefficients holds up to three floating-point parameters for a fitted
// model. Which fields are meaningful is determined by the owning model
// family's tag arity (format.ModelTag.Arity()): CONST uses only C0, LINEAR/
// RADICAL/EXPONENTIAL use C0 and C1, QUADRATIC uses all three.
//
// Coefficients are always stored at their final float64 storage width, so
// no separate rounding-to-storage-width step is needed before residuals are
// computed: the arithmetic that produces them already runs at that width.
type Coefficients struct {
	C0, C1, C2 float64
}

// predictClip rounds v to the nearest integer (ties away from zero) and
// clamps it to the int64 range before conversion, so a prediction can never
// overflow on its way to the integer domain.
func predictClip(v float64) int64 {
	r := math.Round(v)
	switch {
	case r >= math.MaxInt64:
		return math.MaxInt64
	case r <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(r)
	}
}
