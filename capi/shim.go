//go:build cgo

package main

import (
	"math"
	"os"
	"unsafe"

	"go.uber.org/zap"

	"github.com/deepteams/libwebp"
)

// debugEnv enables resolution and failure logging on stderr.
const debugEnv = "LIBWEBP_SHIM_DEBUG"

func init() {
	if os.Getenv(debugEnv) == "" {
		return
	}
	if l, err := zap.NewDevelopment(); err == nil {
		libwebp.SetLogger(l.Named("webpshim"))
	}
}

// rgbaLen returns the number of bytes the pixel rows span.
func rgbaLen(width, height, stride int) (int, bool) {
	if width <= 0 || height <= 0 || stride < 4*width {
		return 0, false
	}
	n := int64(stride)*int64(height-1) + 4*int64(width)
	if n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

// encode returns libwebp-owned output, or nil.
func encode(pix []byte, width, height, stride int, quality float32) (unsafe.Pointer, int) {
	buf, err := libwebp.EncodeRGBA(pix, width, height, stride, quality)
	if err != nil {
		libwebp.Logger().Debug("encode failed", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
		return nil, 0
	}
	n := buf.Len()
	return buf.Release(), n
}

// decode returns libwebp-owned pixels, or nil and zero dimensions.
func decode(data []byte) (p unsafe.Pointer, width, height, stride int) {
	pic, err := libwebp.DecodeRGBA(data)
	if err != nil {
		libwebp.Logger().Debug("decode failed", zap.Int("size", len(data)), zap.Error(err))
		return nil, 0, 0, 0
	}
	return pic.Pix.Release(), pic.Width, pic.Height, pic.Stride
}

// release reports false when the pointer is not libwebp's to free.
func release(p unsafe.Pointer) bool {
	return libwebp.FreePointer(p)
}

func available() bool {
	return libwebp.Available()
}
