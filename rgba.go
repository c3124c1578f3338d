package libwebp

import (
	"fmt"
	"math"
	"runtime"

	"github.com/deepteams/libwebp/internal/loader"
)

// MaxDimension is the maximum allowed width or height for a WebP image, in
// pixels. This matches libwebp's WEBP_MAX_DIMENSION constant.
const MaxDimension = 16383

// EncodeRGBA compresses non-premultiplied RGBA pixels to a lossy WebP file.
// stride is the distance in bytes between rows and must be at least
// 4*width. quality is clamped to 0-100.
//
// The returned Buffer is owned by libwebp and must be released with Free.
// ErrUnavailable is returned when libwebp is not loaded, ErrEncode when
// libwebp produced no output.
func EncodeRGBA(pix []byte, width, height, stride int, quality float32) (*Buffer, error) {
	if err := checkRGBA(pix, width, height, stride); err != nil {
		return nil, err
	}
	c, err := codec()
	if err != nil {
		return nil, err
	}

	var out *uint8
	n := c.EncodeRGBA(&pix[0], int32(width), int32(height), int32(stride), clampQuality(quality), &out)
	runtime.KeepAlive(pix)
	return encoded(c, out, n)
}

// EncodeLosslessRGBA is like EncodeRGBA but produces a lossless file. It
// returns ErrUnsupported if the loaded libwebp does not export
// WebPEncodeLosslessRGBA.
func EncodeLosslessRGBA(pix []byte, width, height, stride int) (*Buffer, error) {
	if err := checkRGBA(pix, width, height, stride); err != nil {
		return nil, err
	}
	c, err := codec()
	if err != nil {
		return nil, err
	}
	if c.EncodeLosslessRGBA == nil {
		return nil, ErrUnsupported
	}

	var out *uint8
	n := c.EncodeLosslessRGBA(&pix[0], int32(width), int32(height), int32(stride), &out)
	runtime.KeepAlive(pix)
	return encoded(c, out, n)
}

// encoded wraps an encoder result. A zero size is a failure even if
// libwebp handed back a pointer.
func encoded(c *loader.Codec, out *uint8, n uintptr) (*Buffer, error) {
	if n == 0 || out == nil {
		if out != nil {
			c.Free(out)
		}
		return nil, ErrEncode
	}
	return &Buffer{ptr: out, n: int(n), free: c.Free}, nil
}

// DecodeRGBA decompresses a WebP file to non-premultiplied RGBA. The
// returned Picture is owned by libwebp and must be released with Free.
func DecodeRGBA(data []byte) (*Picture, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrInvalidInput)
	}
	c, err := codec()
	if err != nil {
		return nil, err
	}

	var w, h int32
	p := c.DecodeRGBA(&data[0], uintptr(len(data)), &w, &h)
	runtime.KeepAlive(data)
	if p == nil || w <= 0 || h <= 0 {
		if p != nil {
			c.Free(p)
		}
		return nil, ErrDecode
	}

	stride := 4 * int(w)
	return &Picture{
		Pix:    &Buffer{ptr: p, n: stride * int(h), free: c.Free},
		Width:  int(w),
		Height: int(h),
		Stride: stride,
	}, nil
}

// getInfo reads the dimensions from a WebP header. ok is false when the
// library does not export WebPGetInfo.
func getInfo(data []byte) (width, height int, ok bool, err error) {
	if len(data) == 0 {
		return 0, 0, true, fmt.Errorf("%w: empty data", ErrInvalidInput)
	}
	c, err := codec()
	if err != nil {
		return 0, 0, true, err
	}
	if c.GetInfo == nil {
		return 0, 0, false, nil
	}

	var w, h int32
	r := c.GetInfo(&data[0], uintptr(len(data)), &w, &h)
	runtime.KeepAlive(data)
	if r == 0 || w <= 0 || h <= 0 {
		return 0, 0, true, ErrDecode
	}
	return int(w), int(h), true, nil
}

func checkRGBA(pix []byte, width, height, stride int) error {
	switch {
	case width <= 0 || height <= 0:
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidInput, width, height)
	case width > MaxDimension || height > MaxDimension:
		return fmt.Errorf("%w: dimensions %dx%d exceed maximum %d", ErrInvalidInput, width, height, MaxDimension)
	case stride < 4*width:
		return fmt.Errorf("%w: stride %d shorter than row of %d pixels", ErrInvalidInput, stride, width)
	case int64(stride)*int64(height) > math.MaxInt32:
		return fmt.Errorf("%w: stride %d too large", ErrInvalidInput, stride)
	case len(pix) < stride*(height-1)+4*width:
		return fmt.Errorf("%w: %d bytes of pixels for %dx%d with stride %d", ErrInvalidInput, len(pix), width, height, stride)
	}
	return nil
}

func clampQuality(q float32) float32 {
	switch {
	case q < 0 || math.IsNaN(float64(q)):
		return 0
	case q > 100:
		return 100
	}
	return q
}
