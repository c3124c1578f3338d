// Package libwebp encodes and decodes WebP images through a libwebp that is
// already installed on the system, loaded at runtime without cgo.
//
// The library is located on first use. Symbols already linked into the
// process are preferred; otherwise the path in the LIBWEBP_PATH
// environment variable is loaded (and nothing else is tried when it is
// set), or else a platform list of well-known install locations is
// searched. Whatever the outcome, it is cached for the life of the process:
// a missing library is reported by Available and by ErrUnavailable, and is
// never retried.
//
// Builds tagged nodynamic, and platforms without a supported dynamic
// loader, compile to an inert variant that is never available.
//
// Basic usage:
//
//	if !libwebp.Available() {
//		return libwebp.Err()
//	}
//	err := libwebp.Encode(w, img, &libwebp.EncoderOptions{Quality: 80})
//
// Low-level calls hand out memory owned by libwebp, which must be released
// with Free:
//
//	buf, err := libwebp.EncodeRGBA(pix, width, height, stride, 80)
//	if err != nil {
//		return err
//	}
//	defer buf.Free()
package libwebp
