// Package endian provides the little-endian byte order engine used for every
// on-disk integer field in the NeaTS wire format.
//
// Unlike a general-purpose binary-format library, the wire format (spec §6)
// mandates little-endian throughout with no configurable byte order, so this
// package exposes a single fixed Engine rather than a chooseable one.
package endian

import "encoding/binary"

// Engine combines encoding/binary's ByteOrder and AppendByteOrder interfaces,
// giving callers both fixed-buffer Put/Get operations and allocation-free
// Append operations through one value.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// LE is the little-endian engine used throughout the store and section packages.
var LE Engine = binary.LittleEndian
