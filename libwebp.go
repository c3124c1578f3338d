package libwebp

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/deepteams/libwebp/internal/loader"
)

// Errors returned by the codec functions.
var (
	// ErrUnavailable means no usable libwebp was found. It is permanent for
	// the life of the process.
	ErrUnavailable  = errors.New("libwebp: library not available")
	ErrEncode       = errors.New("libwebp: encoding failed")
	ErrDecode       = errors.New("libwebp: decoding failed")
	ErrInvalidInput = errors.New("libwebp: invalid input")
	// ErrUnsupported means the loaded library lacks an optional entry point.
	ErrUnsupported = errors.New("libwebp: operation not supported by the loaded library")
)

// EnvVar is the environment variable naming an exact library to load.
const EnvVar = loader.DefaultEnvVar

var resolver atomic.Pointer[loader.Resolver]

func defaultResolver() *loader.Resolver {
	if r := resolver.Load(); r != nil {
		return r
	}
	resolver.CompareAndSwap(nil, loader.New(loader.Config{Logger: Logger()}))
	return resolver.Load()
}

// codec resolves the library and returns its entry points, or
// ErrUnavailable.
func codec() (*loader.Codec, error) {
	res := defaultResolver().Resolve()
	if !res.OK() {
		return nil, ErrUnavailable
	}
	return res.Codec, nil
}

// Available reports whether libwebp was found. The first call performs the
// search.
func Available() bool {
	return defaultResolver().Resolve().OK()
}

// Err returns why libwebp is unavailable, or nil when it is available.
func Err() error {
	res := defaultResolver().Resolve()
	if res.OK() {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, res.Err)
}

// Attempt describes a library location that was tried and rejected.
type Attempt struct {
	Source string
	Path   string
	Err    error
}

// LibraryInfo describes the outcome of the library search.
type LibraryInfo struct {
	Available bool
	// Source is "process", "override", "search-path", or "none".
	Source string
	Path   string
	// EncoderVersion and DecoderVersion are "major.minor.revision", or empty
	// when the library does not report them.
	EncoderVersion string
	DecoderVersion string
	// Lossless reports whether lossless encoding is supported.
	Lossless bool
	Err      error
	Attempts []Attempt
}

// Info resolves the library and describes the outcome.
func Info() LibraryInfo {
	res := defaultResolver().Resolve()
	info := LibraryInfo{
		Available: res.OK(),
		Source:    res.Source.String(),
		Path:      res.Path,
		Err:       res.Err,
	}
	for _, a := range res.Attempts {
		info.Attempts = append(info.Attempts, Attempt{Source: a.Source.String(), Path: a.Path, Err: a.Err})
	}
	if c := res.Codec; c != nil {
		if c.GetEncoderVersion != nil {
			info.EncoderVersion = formatVersion(c.GetEncoderVersion())
		}
		if c.GetDecoderVersion != nil {
			info.DecoderVersion = formatVersion(c.GetDecoderVersion())
		}
		info.Lossless = c.EncodeLosslessRGBA != nil
	}
	return info
}

// formatVersion unpacks libwebp's 0xMMmmrr version encoding.
func formatVersion(v int32) string {
	return fmt.Sprintf("%d.%d.%d", (v>>16)&0xff, (v>>8)&0xff, v&0xff)
}
