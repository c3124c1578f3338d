//go:build nodynamic || !(darwin || freebsd || linux || windows)

package loader

// SystemOpener returns an Opener that fails every call. Builds tagged
// nodynamic, and platforms without a supported loader, never find libwebp.
func SystemOpener() Opener {
	return stubOpener{}
}

type stubOpener struct{}

func (stubOpener) Open(string) (Handle, error)            { return 0, ErrUnsupported }
func (stubOpener) Process() (Handle, error)               { return 0, ErrUnsupported }
func (stubOpener) Lookup(Handle, string) (uintptr, error) { return 0, ErrUnsupported }
func (stubOpener) Close(Handle) error                     { return nil }

// SystemBinder is never reached through stubOpener.
func SystemBinder(Symbols) (*Codec, error) {
	return nil, ErrUnsupported
}
