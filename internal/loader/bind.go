//go:build (darwin || freebsd || linux || windows) && !nodynamic

package loader

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// SystemBinder binds resolved addresses with purego. purego panics on
// signatures the platform cannot call; that is reported as an error so the
// candidate is rejected instead of crashing the host.
func SystemBinder(s Symbols) (c *Codec, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, fmt.Errorf("loader: binding symbols: %v", r)
		}
	}()

	c = &Codec{}
	purego.RegisterFunc(&c.EncodeRGBA, s.EncodeRGBA)
	purego.RegisterFunc(&c.DecodeRGBA, s.DecodeRGBA)
	purego.RegisterFunc(&c.Free, s.Free)

	if s.EncodeLosslessRGBA != 0 {
		purego.RegisterFunc(&c.EncodeLosslessRGBA, s.EncodeLosslessRGBA)
	}
	if s.GetInfo != 0 {
		purego.RegisterFunc(&c.GetInfo, s.GetInfo)
	}
	if s.GetEncoderVersion != 0 {
		purego.RegisterFunc(&c.GetEncoderVersion, s.GetEncoderVersion)
	}
	if s.GetDecoderVersion != 0 {
		purego.RegisterFunc(&c.GetDecoderVersion, s.GetDecoderVersion)
	}
	return c, nil
}
