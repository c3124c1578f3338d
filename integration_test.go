package libwebp

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/deepteams/libwebp/internal/loader"
)

// systemResolver uses the real platform loader, skipping the test when no
// libwebp is installed.
func systemResolver(t testing.TB) {
	t.Helper()
	useResolver(t, loader.New(loader.Config{Logger: Logger()}))
	if !Available() {
		t.Skipf("system libwebp not available: %v", Err())
	}
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 255,
				G: uint8(x * 255 / max(1, w-1)),
				B: uint8(y * 255 / max(1, h-1)),
				A: 255,
			})
		}
	}
	return img
}

func TestSystem_RoundTripLossy(t *testing.T) {
	systemResolver(t)

	src := gradient(8, 8)
	buf, err := EncodeRGBA(src.Pix, 8, 8, src.Stride, 80)
	if err != nil {
		t.Fatal(err)
	}
	defer buf.Free()

	data := buf.Bytes()
	if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Fatalf("output is not a WebP file: % x", data[:min(len(data), 12)])
	}

	pic, err := DecodeRGBA(data)
	if err != nil {
		t.Fatal(err)
	}
	defer pic.Free()
	if pic.Width != 8 || pic.Height != 8 || pic.Stride != 32 {
		t.Errorf("decoded %dx%d stride %d", pic.Width, pic.Height, pic.Stride)
	}
}

func TestSystem_RoundTripLossless(t *testing.T) {
	systemResolver(t)
	if !Info().Lossless {
		t.Skip("libwebp without WebPEncodeLosslessRGBA")
	}

	src := gradient(5, 3)
	var out bytes.Buffer
	if err := Encode(&out, src, &EncoderOptions{Lossless: true}); err != nil {
		t.Fatal(err)
	}

	img, err := Decode(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	got := img.(*image.NRGBA)
	if !bytes.Equal(got.Pix, src.Pix) {
		t.Error("lossless round trip changed pixels")
	}
}

func TestSystem_DecodeGarbage(t *testing.T) {
	systemResolver(t)

	if _, err := DecodeRGBA([]byte("RIFF\x04\x00\x00\x00WEBPjunk")); err == nil {
		t.Error("garbage decoded without error")
	}
}
