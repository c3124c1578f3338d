//go:build (darwin || freebsd || linux) && !nodynamic

package loader

import (
	"debug/elf"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

// SystemOpener returns the platform loader backed by dlopen.
func SystemOpener() Opener {
	return dlOpener{}
}

type dlOpener struct{}

func (dlOpener) Open(path string) (Handle, error) {
	if err := checkDynamic(); err != nil {
		return 0, err
	}
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, fmt.Errorf("dlopen: %w", err)
	}
	return Handle(h), nil
}

func (dlOpener) Process() (Handle, error) {
	if err := checkDynamic(); err != nil {
		return 0, err
	}
	return Handle(purego.RTLD_DEFAULT), nil
}

func (dlOpener) Lookup(h Handle, name string) (uintptr, error) {
	return purego.Dlsym(uintptr(h), name)
}

func (dlOpener) Close(h Handle) error {
	return purego.Dlclose(uintptr(h))
}

// A statically linked linux binary has no dynamic loader to call into.
var checkDynamic = sync.OnceValue(func() error {
	if runtime.GOOS != "linux" {
		return nil
	}
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStaticBinary, err)
	}
	f, err := elf.Open(exe)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStaticBinary, err)
	}
	defer f.Close()

	if _, err := f.DynamicSymbols(); err != nil {
		return ErrStaticBinary
	}
	return nil
})
