package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowPoolReturnsZeroedRows(t *testing.T) {
	rp := NewRowPool()
	row := rp.Get(8)
	for i := range *row {
		(*row)[i] = i + 1
	}
	rp.Put(row)

	again := rp.Get(5)
	assert.Len(t, *again, 5)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, *again)

	big := rp.Get(200)
	assert.Len(t, *big, 200)
}

func TestRowPoolDropsHugeRows(t *testing.T) {
	rp := NewRowPool()
	huge := rp.Get(maxPooledRow + 1)
	rp.Put(huge)
	assert.Len(t, *huge, maxPooledRow+1, "oversized rows are left to the garbage collector untouched")
}

func TestRuneBufferPool(t *testing.T) {
	rbp := NewRuneBufferPool(4)
	buf := rbp.Get("héllo")
	assert.Equal(t, []rune("héllo"), *buf)
	rbp.Put(buf)

	buf = rbp.Get("日本")
	assert.Equal(t, []rune("日本"), *buf)
}

func TestByteBufferPool(t *testing.T) {
	bp := NewByteBufferPool()
	b := bp.Get()
	_, _ = b.WriteString("abc")
	assert.Equal(t, "abc", b.String())
	bp.Put(b)
	assert.Zero(t, bp.Get().Len())
}
