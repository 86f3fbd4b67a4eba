// Package neats is a thin convenience wrapper over package compressor,
// re-exporting the entry points most callers need without requiring an
// import of the internal package layout.
package neats

import (
	"io"

	"github.com/mxpucci/NeaTS/compressor"
)

// Compressor is the core compressor type. See package compressor for the
// full operation set.
type Compressor = compressor.Compressor

// Option configures a Compressor at construction time.
type Option = compressor.Option

// New constructs an empty compressor bound to the given residual width.
func New(bpc uint8, opts ...Option) (*Compressor, error) {
	return compressor.New(bpc, opts...)
}

// Load reconstructs a compressor from a stream previously produced by
// (*Compressor).Serialize.
func Load(r io.Reader) (*Compressor, error) {
	return compressor.Load(r)
}
