// Package pool provides bucketed sync.Pool instances for the scratch RGBA
// copies made while encoding. Buffers are organized by size class to
// minimize waste; requests above the largest class are allocated directly.
package pool

import "sync"

// Size classes for bucketed pools.
const (
	Size64K  = 64 << 10
	Size256K = 256 << 10
	Size1M   = 1 << 20
	Size4M   = 4 << 20
	Size16M  = 16 << 20
)

var sizes = [...]int{Size64K, Size256K, Size1M, Size4M, Size16M}

var pools [len(sizes)]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i] = sync.Pool{
			New: func() any {
				b := make([]byte, sz)
				return &b
			},
		}
	}
}

// bucketIndex returns the pool index for a given size, or -1 if the size
// is larger than every class.
func bucketIndex(size int) int {
	for i, sz := range sizes {
		if size <= sz {
			return i
		}
	}
	return -1
}

// Get returns a byte slice of exactly size bytes. Its contents are
// unspecified. The caller should call Put when done.
func Get(size int) []byte {
	idx := bucketIndex(size)
	if idx < 0 {
		return make([]byte, size)
	}
	b := *pools[idx].Get().(*[]byte)
	return b[:size]
}

// Put returns a byte slice obtained from Get to its pool. Slices that do
// not match a size class exactly are dropped.
func Put(b []byte) {
	c := cap(b)
	idx := bucketIndex(c)
	if idx < 0 || sizes[idx] != c {
		return
	}
	b = b[:c]
	pools[idx].Put(&b)
}
