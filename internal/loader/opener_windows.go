//go:build windows && !nodynamic

package loader

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// SystemOpener returns the platform loader backed by LoadLibrary.
func SystemOpener() Opener {
	return winOpener{}
}

type winOpener struct{}

func (winOpener) Open(path string) (Handle, error) {
	h, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, fmt.Errorf("LoadLibrary: %w", err)
	}
	return Handle(h), nil
}

// Process returns the executable's own module. Statically linked libwebp
// is only found there if the host exports its functions.
func (winOpener) Process() (Handle, error) {
	var h windows.Handle
	if err := windows.GetModuleHandleEx(windows.GET_MODULE_HANDLE_EX_FLAG_UNCHANGED_REFCOUNT, nil, &h); err != nil {
		return 0, fmt.Errorf("GetModuleHandleEx: %w", err)
	}
	return Handle(h), nil
}

func (winOpener) Lookup(h Handle, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(h), name)
}

func (winOpener) Close(h Handle) error {
	return windows.FreeLibrary(windows.Handle(h))
}
