//go:build cgo

// Command capi builds the C-callable shim around package libwebp:
//
//	go build -buildmode=c-shared -o libwebpshim.so ./capi
//
// The exported functions keep the historic webp_* signatures. Every output
// is zeroed on failure and the return value is 1 on success, 0 otherwise.
// Buffers handed out must be released with webp_free_buffer.
package main

/*
#include <stddef.h>
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import "unsafe"

func main() {}

//export webp_encode_rgba
func webp_encode_rgba(rgba *C.uint8_t, width, height, stride C.int32_t, quality C.float, output **C.uint8_t, outputSize *C.size_t) C.int {
	if output != nil {
		*output = nil
	}
	if outputSize != nil {
		*outputSize = 0
	}
	if rgba == nil || output == nil || outputSize == nil {
		return 0
	}
	n, ok := rgbaLen(int(width), int(height), int(stride))
	if !ok {
		return 0
	}

	pix := unsafe.Slice((*byte)(unsafe.Pointer(rgba)), n)
	p, size := encode(pix, int(width), int(height), int(stride), float32(quality))
	if p == nil {
		return 0
	}
	*output = (*C.uint8_t)(p)
	*outputSize = C.size_t(size)
	return 1
}

//export webp_decode_rgba
func webp_decode_rgba(data *C.uint8_t, size C.size_t, output **C.uint8_t, width, height, stride *C.int32_t) C.int {
	if output != nil {
		*output = nil
	}
	for _, p := range []*C.int32_t{width, height, stride} {
		if p != nil {
			*p = 0
		}
	}
	if data == nil || size == 0 || output == nil || width == nil || height == nil || stride == nil {
		return 0
	}

	p, w, h, s := decode(unsafe.Slice((*byte)(unsafe.Pointer(data)), int(size)))
	if p == nil {
		return 0
	}
	*output = (*C.uint8_t)(p)
	*width = C.int32_t(w)
	*height = C.int32_t(h)
	*stride = C.int32_t(s)
	return 1
}

// webp_free_buffer releases memory from webp_encode_rgba or
// webp_decode_rgba. Without libwebp loaded the pointer can only come from
// the host's own malloc, so it goes to free(3).
//
//export webp_free_buffer
func webp_free_buffer(buffer *C.uint8_t) {
	if buffer == nil {
		return
	}
	if !release(unsafe.Pointer(buffer)) {
		C.free(unsafe.Pointer(buffer))
	}
}

//export webp_embedded_available
func webp_embedded_available() C.int {
	if available() {
		return 1
	}
	return 0
}
