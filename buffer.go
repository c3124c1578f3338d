package libwebp

import (
	"image"
	"unsafe"
)

// Buffer is memory allocated by libwebp. Its contents stay valid until
// Free is called; after that Bytes returns nil.
type Buffer struct {
	ptr  *uint8
	n    int
	free func(*uint8)
}

// Bytes returns a view of the buffer. The slice aliases libwebp memory and
// must not be used after Free.
func (b *Buffer) Bytes() []byte {
	if b == nil || b.ptr == nil {
		return nil
	}
	return unsafe.Slice(b.ptr, b.n)
}

// Len returns the buffer size in bytes.
func (b *Buffer) Len() int {
	if b == nil || b.ptr == nil {
		return 0
	}
	return b.n
}

// Free releases the buffer. It is safe to call on a nil or already freed
// Buffer.
func (b *Buffer) Free() {
	if b == nil || b.ptr == nil {
		return
	}
	if b.free != nil {
		b.free(b.ptr)
	}
	b.ptr = nil
	b.n = 0
}

// Release transfers ownership of the memory to the caller, who must later
// pass it to FreePointer. The Buffer is empty afterwards.
func (b *Buffer) Release() unsafe.Pointer {
	if b == nil || b.ptr == nil {
		return nil
	}
	p := unsafe.Pointer(b.ptr)
	b.ptr = nil
	b.n = 0
	return p
}

// Free releases b. It is equivalent to b.Free().
func Free(b *Buffer) {
	b.Free()
}

// FreePointer releases memory obtained through Buffer.Release. It reports
// false, and does nothing, when no libwebp free function is available; the
// caller then owns the memory and releases it with its own allocator.
// A nil pointer is ignored and reports true.
func FreePointer(p unsafe.Pointer) bool {
	if p == nil {
		return true
	}
	c, err := codec()
	if err != nil {
		return false
	}
	c.Free((*uint8)(p))
	return true
}

// Picture is a decoded image in non-premultiplied RGBA order, 4 bytes per
// pixel, held in libwebp memory.
type Picture struct {
	Pix    *Buffer
	Width  int
	Height int
	// Stride is always 4*Width.
	Stride int
}

// Free releases the pixel memory.
func (p *Picture) Free() {
	if p != nil {
		p.Pix.Free()
	}
}

// NRGBA copies the pixels into a Go-owned image.
func (p *Picture) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	copy(img.Pix, p.Pix.Bytes())
	return img
}
