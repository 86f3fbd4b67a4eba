// Package partition implements component C, the piecewise optimal
// approximator: the greedy "grow every model in parallel, pick the best
// survivor" single-pass partitioner.
package partition

import (
	"fmt"
	"math/big"

	"github.com/mxpucci/NeaTS/errs"
	"github.com/mxpucci/NeaTS/format"
	"github.com/mxpucci/NeaTS/internal/options"
	"github.com/mxpucci/NeaTS/model"
)

// Segment is one emitted piece of the partition: a model, its absolute
// start and length, its fitted coefficients, and the residual at every
// position it covers.
type Segment struct {
	Model     format.ModelTag
	Start     uint64
	Length    uint64
	Coeffs    model.Coefficients
	Residuals []int64
}

type config struct {
	bank model.Bank
}

// Option configures a Partition call.
type Option = options.Option[*config]

// WithBank overrides the default full five-family bank.
func WithBank(b model.Bank) Option {
	return options.NoError[*config](func(c *config) { c.bank = b })
}

// Partition builds the segment list for x under the residual-width bound
// bpc, using the greedy algorithm from the design: at each start position
// every model family in the bank is grown in parallel until all become
// infeasible, and the family with the best bits-saved score wins the
// segment.
func Partition(x []int64, bpc uint8, opts ...Option) ([]Segment, error) {
	if bpc < format.MinBPC || bpc > format.MaxBPC {
		return nil, errs.Config(errs.ErrBPCOutOfRange)
	}
	if len(x) == 0 {
		return nil, errs.Config(errs.ErrEmptyInput)
	}

	cfg := &config{bank: model.NewFullBank()}
	if err := options.Apply[*config](cfg, opts...); err != nil {
		return nil, errs.Config(err)
	}

	epsInt := int64(1)<<(bpc-1) - 1
	// Fitters are given a half-unit-tighter tolerance than the integer
	// bound so that round-half-away-from-zero clipping of the float
	// prediction can never push the final integer residual outside
	// epsInt: the strip check happens in float space before rounding, the
	// bound itself is an integer-space guarantee.
	fitEps := float64(epsInt) - 0.5
	if fitEps < 0 {
		fitEps = 0
	}

	n := uint64(len(x))
	startBits := format.BitsForCount(n)
	tagBits := format.BitsForCount(uint64(cfg.bank.Len()))
	families := cfg.bank.Families()

	var segments []Segment
	p := uint64(0)
	for p < n {
		best, err := growRound(x, p, n, families, fitEps, bpc, startBits, tagBits)
		if err != nil {
			return nil, err
		}

		residuals, err := computeResiduals(x, p, best, epsInt)
		if err != nil {
			return nil, err
		}

		segments = append(segments, Segment{
			Model:     best.tag,
			Start:     p,
			Length:    best.length,
			Coeffs:    best.coeffs,
			Residuals: residuals,
		})
		p += best.length
	}

	return segments, nil
}

type candidate struct {
	tag             format.ModelTag
	fam             model.ModelFamily
	fitter          model.Fitter
	closed          bool
	unrepresentable bool
	length          uint64
	coeffs          model.Coefficients
}

// growRound runs one round of the greedy algorithm starting at p: every
// family is grown until it closes (becomes infeasible or is excluded as
// unrepresentable), then the best-scoring survivor is returned.
func growRound(
	x []int64,
	p, n uint64,
	families [format.BankSize]model.ModelFamily,
	fitEps float64,
	bpc uint8,
	startBits, tagBits int,
) (*candidate, error) {
	cands := make([]*candidate, len(families))
	for idx, fam := range families {
		cands[idx] = &candidate{tag: fam.Tag(), fam: fam, fitter: fam.Open(fitEps)}
	}

	open := len(cands)
	i := p
	for open > 0 && i < n {
		for _, c := range cands {
			if c.closed {
				continue
			}
			ok, err := c.fitter.Add(i, x[i])
			switch {
			case err != nil:
				c.closed = true
				c.unrepresentable = true
				c.length = i - p
				open--
			case !ok:
				c.closed = true
				c.length = i - p
				if c.fitter.Len() > 0 {
					c.coeffs = c.fitter.Coefficients()
				}
				open--
			}
		}
		i++
	}
	for _, c := range cands {
		if !c.closed {
			c.closed = true
			c.length = n - p
			c.coeffs = c.fitter.Coefficients()
		}
	}

	var best *candidate
	var bestCost float64
	for _, c := range cands {
		if c.unrepresentable || c.length == 0 {
			continue
		}
		// Bits saved against storing every value raw as 64 bits: the
		// segment instead costs bpc bits per position plus its overhead.
		overhead := float64(tagBits + c.tag.CoeffWidthBits() + startBits)
		cost := float64(c.length)*float64(64-int(bpc)) - overhead

		switch {
		case best == nil:
			best, bestCost = c, cost
		case cost > bestCost:
			best, bestCost = c, cost
		case cost == bestCost && betterTieBreak(c.tag, best.tag):
			best, bestCost = c, cost
		}
	}

	if best == nil {
		// CONST is feasible for any single element, so this path is only
		// reached if every family somehow reported length 0; fall back to
		// an explicit length-1 CONST segment to guarantee progress.
		constFam := families[format.Const]
		fitter := constFam.Open(fitEps)
		if ok, _ := fitter.Add(p, x[p]); !ok {
			return nil, errs.Numeric(fmt.Errorf("CONST model infeasible for single element at position %d", p))
		}
		best = &candidate{tag: format.Const, fam: constFam, length: 1, coeffs: fitter.Coefficients()}
	}

	return best, nil
}

// betterTieBreak reports whether tag wins a tie against incumbent: smaller
// coefficient storage width first, then smaller tag integer.
func betterTieBreak(tag, incumbent format.ModelTag) bool {
	tw, iw := tag.CoeffWidthBits(), incumbent.CoeffWidthBits()
	if tw != iw {
		return tw < iw
	}
	return tag < incumbent
}

func computeResiduals(x []int64, p uint64, c *candidate, epsInt int64) ([]int64, error) {
	residuals := make([]int64, c.length)
	lo := -(epsInt + 1)
	hi := epsInt
	for j := uint64(0); j < c.length; j++ {
		pos := p + j
		pred := c.fam.Predict(c.coeffs, pos)
		r, err := subtractChecked(x[pos], pred)
		if err != nil {
			return nil, err
		}
		if r < lo || r > hi {
			return nil, errs.Numeric(fmt.Errorf("residual %d at position %d exceeds bpc bound", r, pos))
		}
		residuals[j] = r
	}
	return residuals, nil
}

// subtractChecked computes a-b with 128-bit intermediate precision so that
// int64 overflow can never silently wrap; it is surfaced as
// NUMERIC_UNREPRESENTABLE instead.
func subtractChecked(a, b int64) (int64, error) {
	diff := new(big.Int).Sub(big.NewInt(a), big.NewInt(b))
	if !diff.IsInt64() {
		return 0, errs.Numeric(fmt.Errorf("residual of %d and %d overflows int64", a, b))
	}
	return diff.Int64(), nil
}
