// Package pool provides a sync.Pool-backed growable byte buffer used when
// assembling serialized segment-store and header output, avoiding repeated
// allocation when a compressor is serialized more than once.
package pool

import "sync"

const (
	// DefaultSize is the initial capacity handed out by the pool.
	DefaultSize = 4 * 1024
	// growQuantum is added to small buffers instead of doubling, to avoid
	// over-allocating for the common case of one segment store per build.
	growQuantum = 16 * 1024
	// growQuantumThreshold is the capacity above which buffers grow by a
	// fraction of their current size instead of by growQuantum.
	growQuantumThreshold = 4 * growQuantum
)

// ByteBuffer is a growable []byte with pool-friendly Reset semantics.
type ByteBuffer struct {
	B []byte
}

// Bytes returns the buffer's current contents.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Len returns the number of bytes currently held.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Reset empties the buffer while retaining its backing array.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Grow ensures the buffer can accept requiredBytes more bytes without
// reallocating, using the same amortized-growth strategy regardless of how
// many times it is called in a row.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := growQuantum
	if cap(bb.B) > growQuantumThreshold {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ExtendOrGrow extends the buffer's length by n bytes, growing the backing
// array first if there is insufficient capacity.
func (bb *ByteBuffer) ExtendOrGrow(n int) {
	curLen := len(bb.B)
	if cap(bb.B)-curLen < n {
		bb.Grow(n)
	}
	bb.B = bb.B[:curLen+n]
}

var bufferPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, DefaultSize)}
	},
}

// Get returns a reset ByteBuffer from the pool.
func Get() *ByteBuffer {
	return bufferPool.Get().(*ByteBuffer)
}

// Put resets buf and returns it to the pool.
func Put(buf *ByteBuffer) {
	buf.Reset()
	bufferPool.Put(buf)
}
