package section

import (
	"fmt"

	"github.com/mxpucci/NeaTS/errs"
	"github.com/mxpucci/NeaTS/format"
)

// Flag packs the on-disk bank-ordinal byte: the low nibble selects the
// model bank, the high nibble is reserved for future use and must
// currently be all zero.
type Flag uint8

// NewFlag builds a Flag selecting ordinal with no reserved bits set.
func NewFlag(ordinal format.BankOrdinal) Flag {
	return Flag(ordinal & 0x0F)
}

// Ordinal returns the selected model-bank ordinal.
func (f Flag) Ordinal() format.BankOrdinal { return format.BankOrdinal(f & 0x0F) }

// Reserved returns the high nibble, which must be zero in this version.
func (f Flag) Reserved() uint8 { return uint8(f >> 4) }

// Validate checks that the reserved bits are unset and the ordinal is one
// this build knows how to read.
func (f Flag) Validate() error {
	if f.Reserved() != 0 {
		return errs.Format(fmt.Errorf("reserved flag bits set: %#x", f.Reserved()))
	}
	if f.Ordinal() != format.FullBank {
		return errs.Format(errs.ErrUnknownBankOrdinal)
	}
	return nil
}
