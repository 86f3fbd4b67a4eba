package model

import "github.com/mxpucci/NeaTS/format"

// quadraticFamily fits f(i) = a*i^2 + b*i + c.
//
// A literal three-dimensional dual hull is the textbook structure for this
// degree of freedom, but it is intricate to get right and the gain is only
// in the amortised-cost constant, not in correctness. This implementation
// instead refits a least-squares parabola from running moment sums on every
// point (O(1) per point) and explicitly verifies the resulting coefficients
// against every point accepted so far (O(L) per point, O(L^2) per segment).
// Because the verification is exact, this can only ever close a segment
// earlier than a true minimax hull would — never emit an out-of-tolerance
// residual.
type quadraticFamily struct{}

// NewQuadraticFamily returns the QUADRATIC model family.
func NewQuadraticFamily() ModelFamily { return quadraticFamily{} }

func (quadraticFamily) Tag() format.ModelTag { return format.Quadratic }

func (quadraticFamily) Open(eps float64) Fitter {
	return &quadraticFitter{eps: eps}
}

func (quadraticFamily) Predict(c Coefficients, i uint64) int64 {
	u := float64(i)
	return predictClip(c.C0*u*u + c.C1*u + c.C2)
}

type quadraticFitter struct {
	eps float64
	pts []point

	// running power-sum moments, updated incrementally.
	su0, su1, su2, su3, su4 float64
	sy, suy, su2y           float64

	coeffs Coefficients
}

type point struct {
	u, y float64
}

func (f *quadraticFitter) Add(i uint64, y int64) (bool, error) {
	u := float64(i)
	yf := float64(y)

	su0 := f.su0 + 1
	su1 := f.su1 + u
	su2 := f.su2 + u*u
	su3 := f.su3 + u*u*u
	su4 := f.su4 + u*u*u*u
	sy := f.sy + yf
	suy := f.suy + u*yf
	su2y := f.su2y + u*u*yf

	if len(f.pts) < 2 {
		// Fewer than three points: any parabola (even degenerate) fits,
		// defer the least-squares solve until there is enough data to
		// make the normal equations well posed.
		f.pts = append(f.pts, point{u, yf})
		f.su0, f.su1, f.su2, f.su3, f.su4 = su0, su1, su2, su3, su4
		f.sy, f.suy, f.su2y = sy, suy, su2y
		f.coeffs = f.fitThroughFewPoints()
		return true, nil
	}

	a, b, c, ok := solveNormalEquations(su0, su1, su2, su3, su4, sy, suy, su2y)
	if !ok {
		return false, nil
	}

	candidate := Coefficients{C0: a, C1: b, C2: c}
	if !withinTolerance(f.pts, point{u, yf}, candidate, f.eps) {
		return false, nil
	}

	f.pts = append(f.pts, point{u, yf})
	f.su0, f.su1, f.su2, f.su3, f.su4 = su0, su1, su2, su3, su4
	f.sy, f.suy, f.su2y = sy, suy, su2y
	f.coeffs = candidate
	return true, nil
}

func (f *quadraticFitter) Len() int { return len(f.pts) }

func (f *quadraticFitter) Coefficients() Coefficients { return f.coeffs }

// fitThroughFewPoints handles the 1- and 2-point cases, where the normal
// equations for a full parabola are singular: a single point is fit by a
// flat line at that value, two points by the line through them (c2 = 0).
func (f *quadraticFitter) fitThroughFewPoints() Coefficients {
	switch len(f.pts) {
	case 1:
		return Coefficients{C2: f.pts[0].y}
	case 2:
		p0, p1 := f.pts[0], f.pts[1]
		if p1.u == p0.u {
			return Coefficients{C2: p0.y}
		}
		slope := (p1.y - p0.y) / (p1.u - p0.u)
		intercept := p0.y - slope*p0.u
		return Coefficients{C1: slope, C2: intercept}
	default:
		return Coefficients{}
	}
}

// withinTolerance reports whether every previously accepted point, plus the
// new candidate point, lies within eps of the parabola defined by c.
func withinTolerance(pts []point, newPt point, c Coefficients, eps float64) bool {
	check := func(p point) bool {
		pred := c.C0*p.u*p.u + c.C1*p.u + c.C2
		d := pred - p.y
		if d < 0 {
			d = -d
		}
		return d <= eps
	}
	if !check(newPt) {
		return false
	}
	for _, p := range pts {
		if !check(p) {
			return false
		}
	}
	return true
}

// solveNormalEquations solves the 3x3 linear system for a least-squares
// parabola a*u^2+b*u+c via Cramer's rule. ok is false if the system is
// singular (degenerate point configuration).
func solveNormalEquations(su0, su1, su2, su3, su4, sy, suy, su2y float64) (a, b, c float64, ok bool) {
	// | su4 su3 su2 | |a|   |su2y|
	// | su3 su2 su1 | |b| = |suy |
	// | su2 su1 su0 | |c|   |sy  |
	det := det3(
		su4, su3, su2,
		su3, su2, su1,
		su2, su1, su0,
	)
	if det == 0 {
		return 0, 0, 0, false
	}

	detA := det3(
		su2y, su3, su2,
		suy, su2, su1,
		sy, su1, su0,
	)
	detB := det3(
		su4, su2y, su2,
		su3, suy, su1,
		su2, sy, su0,
	)
	detC := det3(
		su4, su3, su2y,
		su3, su2, suy,
		su2, su1, sy,
	)

	return detA / det, detB / det, detC / det, true
}

func det3(a, b, c, d, e, f, g, h, i float64) float64 {
	return a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
}
