package pool

import (
	"sync"

	"github.com/valyala/bytebufferpool"
)

// maxPooledRow caps the rows kept for reuse so one huge input does not pin memory.
const maxPooledRow = 1 << 16

// ByteBufferPool hands out byte buffers for building normalized text.
type ByteBufferPool struct {
	pool bytebufferpool.Pool
}

// NewByteBufferPool creates a new byte buffer pool.
func NewByteBufferPool() *ByteBufferPool {
	return &ByteBufferPool{}
}

// Get retrieves an empty buffer from the pool.
func (bp *ByteBufferPool) Get() *bytebufferpool.ByteBuffer {
	return bp.pool.Get()
}

// Put returns a buffer to the pool for reuse
func (bp *ByteBufferPool) Put(buffer *bytebufferpool.ByteBuffer) {
	bp.pool.Put(buffer)
}

// RowPool implements a pool of int rows for the dynamic programming metrics.
type RowPool struct {
	pool sync.Pool
}

// NewRowPool creates a new row pool.
func NewRowPool() *RowPool {
	return &RowPool{
		pool: sync.Pool{
			New: func() interface{} {
				row := make([]int, 0, 64)
				return &row
			},
		},
	}
}

// Get returns a zeroed row of length n.
func (rp *RowPool) Get(n int) *[]int {
	row := rp.pool.Get().(*[]int)
	if cap(*row) < n {
		*row = make([]int, n)
		return row
	}
	*row = (*row)[:n]
	clear(*row)
	return row
}

// Put returns a row to the pool.
func (rp *RowPool) Put(row *[]int) {
	if cap(*row) > maxPooledRow {
		return
	}
	*row = (*row)[:0]
	rp.pool.Put(row)
}

// RuneBufferPool implements a pool of rune slices
type RuneBufferPool struct {
	pool sync.Pool
}

// NewRuneBufferPool creates a new pool of rune slices with the specified initial capacity
func NewRuneBufferPool(size int) *RuneBufferPool {
	return &RuneBufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				buffer := make([]rune, 0, size)
				return &buffer
			},
		},
	}
}

// Get retrieves a rune buffer filled with the code points of s.
func (rbp *RuneBufferPool) Get(s string) *[]rune {
	buffer := rbp.pool.Get().(*[]rune)
	*buffer = (*buffer)[:0]
	for _, r := range s {
		*buffer = append(*buffer, r)
	}
	return buffer
}

// Put returns a rune buffer to the pool
func (rbp *RuneBufferPool) Put(buffer *[]rune) {
	if cap(*buffer) > maxPooledRow {
		return
	}
	*buffer = (*buffer)[:0]
	rbp.pool.Put(buffer)
}
