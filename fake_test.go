package libwebp

import (
	"testing"
	"unsafe"

	"github.com/deepteams/libwebp/internal/loader"
	"github.com/deepteams/libwebp/internal/loader/loadertest"
)

// fakeLib stands in for libwebp. Pixel memory it hands out is Go memory.
type fakeLib struct {
	// encodeOut is what the encoder writes; nil makes it fail.
	encodeOut []byte
	// zeroSize makes the encoder return a pointer with size 0.
	zeroSize bool

	decodeOut     []byte
	decodeW       int32
	decodeH       int32
	decodeNilWith bool // return nil while still reporting dimensions

	infoW, infoH int32

	gotPix     []byte
	gotWidth   int32
	gotHeight  int32
	gotStride  int32
	gotQuality float32
	encodes    int
	lossless   int
	decodes    int
	freed      []*uint8
}

func (f *fakeLib) encode(rgba *uint8, width, height, stride int32, output **uint8) uintptr {
	f.gotWidth, f.gotHeight, f.gotStride = width, height, stride
	n := int(stride)*int(height-1) + 4*int(width)
	f.gotPix = append([]byte(nil), unsafe.Slice(rgba, n)...)
	if f.encodeOut == nil {
		return 0
	}
	*output = &f.encodeOut[0]
	if f.zeroSize {
		return 0
	}
	return uintptr(len(f.encodeOut))
}

func (f *fakeLib) codec(withOptional bool) *loader.Codec {
	c := &loader.Codec{
		EncodeRGBA: func(rgba *uint8, width, height, stride int32, quality float32, output **uint8) uintptr {
			f.encodes++
			f.gotQuality = quality
			return f.encode(rgba, width, height, stride, output)
		},
		DecodeRGBA: func(data *uint8, size uintptr, width, height *int32) *uint8 {
			f.decodes++
			*width, *height = f.decodeW, f.decodeH
			if f.decodeOut == nil || f.decodeNilWith {
				return nil
			}
			return &f.decodeOut[0]
		},
		Free: func(p *uint8) {
			f.freed = append(f.freed, p)
		},
	}
	if withOptional {
		c.EncodeLosslessRGBA = func(rgba *uint8, width, height, stride int32, output **uint8) uintptr {
			f.lossless++
			return f.encode(rgba, width, height, stride, output)
		}
		c.GetInfo = func(data *uint8, size uintptr, width, height *int32) int32 {
			if f.infoW <= 0 {
				return 0
			}
			*width, *height = f.infoW, f.infoH
			return 1
		}
		c.GetEncoderVersion = func() int32 { return 0x010302 }
		c.GetDecoderVersion = func() int32 { return 0x010400 }
	}
	return c
}

// useResolver installs r as the process-wide resolver for the test.
func useResolver(t testing.TB, r *loader.Resolver) {
	t.Helper()
	old := resolver.Swap(r)
	t.Cleanup(func() { resolver.Store(old) })
}

// useFake makes the fake the resolved library and returns the opener so
// tests can count resolution calls.
func useFake(t testing.TB, f *fakeLib, withOptional bool) *loadertest.Opener {
	t.Helper()
	op := &loadertest.Opener{Proc: loadertest.Full()}
	useResolver(t, loader.New(loader.Config{
		Candidates: []string{},
		Opener:     op,
		Binder:     loadertest.Binder(f.codec(withOptional)),
		Getenv:     func(string) string { return "" },
	}))
	return op
}

// useMissing makes resolution fail: nothing in the process, no override,
// and a search list of libraries that do not exist.
func useMissing(t *testing.T) *loadertest.Opener {
	t.Helper()
	op := &loadertest.Opener{}
	useResolver(t, loader.New(loader.Config{
		Candidates: []string{"/nonexistent/libwebp.so"},
		Opener:     op,
		Getenv:     func(string) string { return "" },
	}))
	return op
}
