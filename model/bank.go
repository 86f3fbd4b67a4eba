package model

import "github.com/mxpucci/NeaTS/format"

// Bank is the fixed catalogue of model families in the frozen tag order
// CONST, LINEAR, QUADRATIC, RADICAL, EXPONENTIAL. CONST is always present
// and always feasible for a single point, which is what guarantees the
// partitioner's forward-progress invariant.
type Bank struct {
	families [format.BankSize]ModelFamily
}

// NewFullBank returns the bank identified on disk by format.FullBank: all
// five model families in their frozen order.
func NewFullBank() Bank {
	var b Bank
	b.families[format.Const] = NewConstFamily()
	b.families[format.Linear] = NewLinearFamily()
	b.families[format.Quadratic] = NewQuadraticFamily()
	b.families[format.Radical] = NewRadicalFamily()
	b.families[format.Exponential] = NewExponentialFamily()
	return b
}

// Families returns the bank's families in frozen tag order.
func (b Bank) Families() [format.BankSize]ModelFamily { return b.families }

// Family returns the family registered under tag.
func (b Bank) Family(tag format.ModelTag) ModelFamily { return b.families[tag] }

// Len returns the number of families in the bank.
func (b Bank) Len() int { return format.BankSize }
