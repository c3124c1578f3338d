package libwebp

import (
	"fmt"
	"image"
	"image/color"
	"io"
)

func init() {
	image.RegisterFormat("webp", "RIFF????WEBP", Decode, DecodeConfig)
}

// readAll reads all data from r. If r implements Len() int (e.g.
// *bytes.Reader), a single exact-sized allocation is used instead of
// the repeated doublings that io.ReadAll performs.
func readAll(r io.Reader) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		n := lr.Len()
		if n > 0 {
			data := make([]byte, n)
			_, err := io.ReadFull(r, data)
			return data, err
		}
	}
	return io.ReadAll(r)
}

// Decode reads a WebP image from r using the system libwebp. The returned
// image is an *image.NRGBA in Go memory.
func Decode(r io.Reader) (image.Image, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("libwebp: reading data: %w", err)
	}

	pic, err := DecodeRGBA(data)
	if err != nil {
		return nil, err
	}
	defer pic.Free()
	return pic.NRGBA(), nil
}

// DecodeConfig returns the color model and dimensions of a WebP image.
// The header is read with WebPGetInfo when the library exports it;
// otherwise the image is decoded in full.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := readAll(r)
	if err != nil {
		return image.Config{}, fmt.Errorf("libwebp: reading data: %w", err)
	}

	w, h, ok, err := getInfo(data)
	if err != nil {
		return image.Config{}, err
	}
	if !ok {
		pic, err := DecodeRGBA(data)
		if err != nil {
			return image.Config{}, err
		}
		w, h = pic.Width, pic.Height
		pic.Free()
	}

	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      w,
		Height:     h,
	}, nil
}
