//go:build cgo

package main

import (
	"os"
	"testing"
	"unsafe"

	"github.com/deepteams/libwebp"
)

func TestMain(m *testing.M) {
	// Force the override to a library that does not exist so the shim
	// resolves to its unavailable state, unless the test binary itself
	// already links libwebp.
	os.Setenv(libwebp.EnvVar, "/nonexistent/libwebp-shim-test.so")
	os.Exit(m.Run())
}

func skipIfLinked(t *testing.T) {
	t.Helper()
	if libwebp.Available() {
		t.Skip("libwebp linked into the test binary")
	}
}

func TestRGBALen(t *testing.T) {
	tests := []struct {
		w, h, stride int
		want         int
		ok           bool
	}{
		{1, 1, 4, 4, true},
		{2, 3, 8, 24, true},
		{2, 3, 12, 32, true},
		{0, 1, 4, 0, false},
		{1, 0, 4, 0, false},
		{2, 2, 7, 0, false},
		{1, 1 << 20, 1 << 20, 0, false},
	}
	for _, tt := range tests {
		got, ok := rgbaLen(tt.w, tt.h, tt.stride)
		if got != tt.want || ok != tt.ok {
			t.Errorf("rgbaLen(%d, %d, %d) = %d, %v; want %d, %v", tt.w, tt.h, tt.stride, got, ok, tt.want, tt.ok)
		}
	}
}

func TestUnavailable(t *testing.T) {
	skipIfLinked(t)

	if available() {
		t.Fatal("available() = true")
	}

	p, n := encode(make([]byte, 16), 2, 2, 8, 80)
	if p != nil || n != 0 {
		t.Errorf("encode = %p, %d; want nil, 0", p, n)
	}

	p, w, h, s := decode([]byte("RIFF\x00\x00\x00\x00WEBP"))
	if p != nil || w != 0 || h != 0 || s != 0 {
		t.Errorf("decode = %p, %d, %d, %d; want zeros", p, w, h, s)
	}
}

func TestRelease(t *testing.T) {
	skipIfLinked(t)

	if !release(nil) {
		t.Error("release(nil) = false")
	}
	b := make([]byte, 1)
	if release(unsafe.Pointer(&b[0])) {
		t.Error("release claimed a pointer without libwebp loaded")
	}
}
