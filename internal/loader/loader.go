// Package loader locates a system libwebp at runtime and binds the entry
// points the rest of the module forwards to.
//
// Resolution happens once per Resolver. The already-linked process
// namespace is probed first, then the library named by the override
// environment variable (exclusively, when set), then a fixed list of
// well-known install locations. The first source exporting all required
// symbols wins; every other outcome is cached as a permanent failure.
package loader

import (
	"errors"
	"fmt"
)

// DefaultEnvVar names the environment variable holding an exact library
// path to load instead of searching the default locations.
const DefaultEnvVar = "LIBWEBP_PATH"

// Names of the exported libwebp functions.
const (
	SymEncodeRGBA         = "WebPEncodeRGBA"
	SymDecodeRGBA         = "WebPDecodeRGBA"
	SymFree               = "WebPFree"
	SymEncodeLosslessRGBA = "WebPEncodeLosslessRGBA"
	SymGetInfo            = "WebPGetInfo"
	SymGetEncoderVersion  = "WebPGetEncoderVersion"
	SymGetDecoderVersion  = "WebPGetDecoderVersion"
)

// RequiredSymbols lists the entry points a library must export to be usable.
var RequiredSymbols = []string{SymEncodeRGBA, SymDecodeRGBA, SymFree}

// Errors reported by the loader.
var (
	ErrUnsupported    = errors.New("loader: dynamic loading not supported on this platform")
	ErrStaticBinary   = errors.New("loader: not a dynamic binary")
	ErrMissingSymbol  = errors.New("loader: missing symbol")
	ErrOverrideFailed = errors.New("loader: override library unusable")
	ErrNotFound       = errors.New("loader: no usable libwebp found")
)

// SymbolError reports a required symbol a library does not export.
type SymbolError struct {
	Name string
	Err  error
}

func (e *SymbolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loader: missing symbol %s: %v", e.Name, e.Err)
	}
	return "loader: missing symbol " + e.Name
}

// Unwrap lets errors.Is match ErrMissingSymbol.
func (e *SymbolError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMissingSymbol, e.Err}
	}
	return []error{ErrMissingSymbol}
}

// Handle is an opaque library handle returned by an Opener.
type Handle uintptr

// Opener abstracts the platform's dynamic loader.
type Opener interface {
	// Open loads the library at path.
	Open(path string) (Handle, error)
	// Process returns a handle searching symbols already linked into the
	// running process. It is never passed to Close.
	Process() (Handle, error)
	// Lookup returns the address of the named symbol.
	Lookup(h Handle, name string) (uintptr, error)
	// Close releases a handle returned by Open.
	Close(h Handle) error
}

// Symbols holds resolved entry point addresses. The optional fields are
// zero when the library does not export them.
type Symbols struct {
	EncodeRGBA uintptr
	DecodeRGBA uintptr
	Free       uintptr

	EncodeLosslessRGBA uintptr
	GetInfo            uintptr
	GetEncoderVersion  uintptr
	GetDecoderVersion  uintptr
}

// Codec is the set of bound libwebp entry points. EncodeRGBA, DecodeRGBA
// and Free are always set on a successful resolution; the rest may be nil.
type Codec struct {
	EncodeRGBA func(rgba *uint8, width, height, stride int32, quality float32, output **uint8) uintptr
	DecodeRGBA func(data *uint8, size uintptr, width, height *int32) *uint8
	Free       func(ptr *uint8)

	EncodeLosslessRGBA func(rgba *uint8, width, height, stride int32, output **uint8) uintptr
	GetInfo            func(data *uint8, size uintptr, width, height *int32) int32
	GetEncoderVersion  func() int32
	GetDecoderVersion  func() int32
}

// Binder turns resolved addresses into callable Go functions.
type Binder func(Symbols) (*Codec, error)

// lookupSymbols resolves every required and optional symbol from h.
// A missing required symbol fails the whole lookup.
func lookupSymbols(op Opener, h Handle) (Symbols, error) {
	var s Symbols
	required := []struct {
		name string
		dst  *uintptr
	}{
		{SymEncodeRGBA, &s.EncodeRGBA},
		{SymDecodeRGBA, &s.DecodeRGBA},
		{SymFree, &s.Free},
	}
	for _, r := range required {
		addr, err := op.Lookup(h, r.name)
		if err != nil || addr == 0 {
			return Symbols{}, &SymbolError{Name: r.name, Err: err}
		}
		*r.dst = addr
	}

	optional := []struct {
		name string
		dst  *uintptr
	}{
		{SymEncodeLosslessRGBA, &s.EncodeLosslessRGBA},
		{SymGetInfo, &s.GetInfo},
		{SymGetEncoderVersion, &s.GetEncoderVersion},
		{SymGetDecoderVersion, &s.GetDecoderVersion},
	}
	for _, o := range optional {
		if addr, err := op.Lookup(h, o.name); err == nil {
			*o.dst = addr
		}
	}
	return s, nil
}
