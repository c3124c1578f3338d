package libwebp

import (
	"fmt"
	"image"
	"io"

	"golang.org/x/image/draw"

	"github.com/deepteams/libwebp/internal/pool"
)

// EncoderOptions controls WebP encoding parameters. Only what libwebp's
// simple encoding API accepts is exposed.
type EncoderOptions struct {
	// Lossless selects WebPEncodeLosslessRGBA. Quality is ignored.
	Lossless bool

	// Quality is the compression quality (0-100, default 75). Lower means
	// smaller files with more artifacts.
	Quality float32
}

// Options is an alias for EncoderOptions.
type Options = EncoderOptions

// DefaultOptions returns lossy encoding options with quality 75, matching
// cwebp's default.
func DefaultOptions() *EncoderOptions {
	return &EncoderOptions{Quality: 75}
}

func validateConfig(opts *EncoderOptions) error {
	if opts.Quality < 0 || opts.Quality > 100 {
		return fmt.Errorf("%w: Quality %.2f (must be 0-100)", ErrInvalidInput, opts.Quality)
	}
	return nil
}

// Encode writes the image img to w in WebP format using the system
// libwebp. If opts is nil, DefaultOptions() is used.
// It returns ErrUnavailable when libwebp is not loaded.
func Encode(w io.Writer, img image.Image, opts *EncoderOptions) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := validateConfig(opts); err != nil {
		return err
	}

	b := img.Bounds()
	imgW, imgH := b.Dx(), b.Dy()
	if imgW <= 0 || imgH <= 0 {
		return fmt.Errorf("%w: empty image", ErrInvalidInput)
	}
	if imgW > MaxDimension || imgH > MaxDimension {
		return fmt.Errorf("%w: image dimension %dx%d exceeds maximum %d", ErrInvalidInput, imgW, imgH, MaxDimension)
	}

	pix, stride, release := rgbaPixels(img)
	defer release()

	var (
		buf *Buffer
		err error
	)
	if opts.Lossless {
		buf, err = EncodeLosslessRGBA(pix, imgW, imgH, stride)
	} else {
		buf, err = EncodeRGBA(pix, imgW, imgH, stride, opts.Quality)
	}
	if err != nil {
		return err
	}
	defer buf.Free()

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("libwebp: writing output: %w", err)
	}
	return nil
}

// rgbaPixels returns img as non-premultiplied RGBA rows. An *image.NRGBA is
// used in place; anything else is converted into a pooled scratch buffer
// that release returns.
func rgbaPixels(img image.Image) (pix []byte, stride int, release func()) {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok {
		return n.Pix[n.PixOffset(b.Min.X, b.Min.Y):], n.Stride, func() {}
	}

	w, h := b.Dx(), b.Dy()
	scratch := pool.Get(w * h * 4)
	dst := &image.NRGBA{
		Pix:    scratch,
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return scratch, dst.Stride, func() { pool.Put(scratch) }
}
