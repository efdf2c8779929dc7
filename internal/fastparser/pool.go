package fastparser

import (
	"sync"
)

// bufferPool is a sync.Pool for the []byte buffers that accumulate field text.
// Blocks from large dumps are scanned back to back, often from several
// goroutines, so the field buffer is the one allocation worth recycling.
var bufferPool = sync.Pool{
	New: func() interface{} {
		// Pre-allocate with capacity for a typical post body
		b := make([]byte, 0, 1024)
		return &b
	},
}

// getBuffer gets a []byte buffer from the pool.
// The buffer is returned with length 0 but may have capacity.
func getBuffer() []byte {
	p := bufferPool.Get().(*[]byte)
	buf := *p
	// Clear the buffer but keep the capacity
	buf = buf[:0]
	return buf
}

// putBuffer returns a []byte buffer to the pool.
// The buffer will be cleared before reuse.
func putBuffer(buf []byte) {
	// Only return to pool if capacity is reasonable (avoid keeping huge buffers)
	const maxCapacity = 1 << 20
	if cap(buf) > maxCapacity {
		return
	}

	buf = buf[:0]
	bufferPool.Put(&buf)
}
