// Package loadertest provides an in-memory loader.Opener for tests.
package loadertest

import (
	"errors"
	"sync"

	"github.com/deepteams/libwebp/internal/loader"
)

// ErrNoSuchLibrary is returned by Open for paths not registered with Opener.
var ErrNoSuchLibrary = errors.New("loadertest: no such library")

// Lib is a fake shared library: the symbols it exports, by name.
type Lib map[string]uintptr

// Full returns a Lib exporting every required symbol.
func Full() Lib {
	return With(loader.RequiredSymbols...)
}

// With returns a Lib exporting only the named symbols.
func With(names ...string) Lib {
	l := make(Lib, len(names))
	for i, n := range names {
		l[n] = uintptr(0x1000 + i*0x10)
	}
	return l
}

// Opener serves Libs from memory and records every call.
type Opener struct {
	// Libs maps a path to the library Open returns for it.
	Libs map[string]Lib
	// Proc is the process namespace. Nil means Process fails.
	Proc Lib

	mu       sync.Mutex
	handles  map[loader.Handle]string
	next     loader.Handle
	opens    []string
	closes   []string
	procHits int
}

const procHandle loader.Handle = 1

func (o *Opener) Open(path string) (loader.Handle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opens = append(o.opens, path)
	if _, ok := o.Libs[path]; !ok {
		return 0, ErrNoSuchLibrary
	}
	if o.handles == nil {
		o.handles = make(map[loader.Handle]string)
		o.next = procHandle + 1
	}
	h := o.next
	o.next++
	o.handles[h] = path
	return h, nil
}

func (o *Opener) Process() (loader.Handle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.procHits++
	if o.Proc == nil {
		return 0, loader.ErrUnsupported
	}
	return procHandle, nil
}

func (o *Opener) Lookup(h loader.Handle, name string) (uintptr, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	lib := o.Proc
	if h != procHandle {
		lib = o.Libs[o.handles[h]]
	}
	if addr, ok := lib[name]; ok {
		return addr, nil
	}
	return 0, errors.New("undefined symbol: " + name)
}

func (o *Opener) Close(h loader.Handle) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if h == procHandle {
		return errors.New("loadertest: process handle closed")
	}
	o.closes = append(o.closes, o.handles[h])
	delete(o.handles, h)
	return nil
}

// Opens returns the paths passed to Open, in order.
func (o *Opener) Opens() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.opens...)
}

// Closes returns the paths whose handles were closed, in order.
func (o *Opener) Closes() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.closes...)
}

// ProcessCalls reports how many times Process was called.
func (o *Opener) ProcessCalls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.procHits
}

// Binder returns a loader.Binder that ignores addresses and hands out c.
func Binder(c *loader.Codec) loader.Binder {
	return func(loader.Symbols) (*loader.Codec, error) {
		return c, nil
	}
}
