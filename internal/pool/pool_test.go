package pool

import "testing"

func TestBucketIndex(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{0, 0},
		{1, 0},
		{Size64K, 0},
		{Size64K + 1, 1},
		{Size256K, 1},
		{Size1M, 2},
		{Size4M - 1, 3},
		{Size16M, 4},
		{Size16M + 1, -1},
	}
	for _, tt := range tests {
		if got := bucketIndex(tt.size); got != tt.want {
			t.Errorf("bucketIndex(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestGet_Length(t *testing.T) {
	for _, size := range []int{1, 100, Size64K, Size256K + 7, Size16M} {
		b := Get(size)
		if len(b) != size {
			t.Errorf("Get(%d): len = %d", size, len(b))
		}
		if cap(b) < size {
			t.Errorf("Get(%d): cap = %d", size, cap(b))
		}
		Put(b)
	}
}

func TestGet_Oversized(t *testing.T) {
	size := Size16M + 4
	b := Get(size)
	if len(b) != size || cap(b) != size {
		t.Fatalf("Get(%d): len=%d cap=%d", size, len(b), cap(b))
	}
	// Not a size class: must be dropped without panicking.
	Put(b)
}

func TestPut_ForeignSlice(t *testing.T) {
	Put(make([]byte, 10))
	Put(make([]byte, Size64K+1))
	Put(nil)
}

func TestPut_Reuse(t *testing.T) {
	b := Get(1000)
	if cap(b) != Size64K {
		t.Fatalf("cap = %d, want %d", cap(b), Size64K)
	}
	b[0] = 0xAB
	Put(b)

	// sync.Pool may drop items at any time; only check the invariants.
	b2 := Get(2000)
	if len(b2) != 2000 || cap(b2) != Size64K {
		t.Fatalf("len=%d cap=%d", len(b2), cap(b2))
	}
	Put(b2)
}

func BenchmarkGetPut(b *testing.B) {
	for i := 0; i < b.N; i++ {
		buf := Get(Size1M)
		Put(buf)
	}
}
