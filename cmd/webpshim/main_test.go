package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deepteams/libwebp"
)

const bogusLibrary = "/nonexistent/libwebp-cli-test.so"

func TestMain(m *testing.M) {
	// Point the override at a missing file: resolution then fails without
	// touching the default search list.
	os.Setenv(libwebp.EnvVar, bogusLibrary)
	os.Exit(m.Run())
}

func skipIfAvailable(t *testing.T) {
	t.Helper()
	if libwebp.Available() {
		t.Skip("libwebp linked into the test binary")
	}
}

// runCLI runs the command in-process and returns its exit code and output.
func runCLI(t *testing.T, stdin []byte, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = run(args, bytes.NewReader(stdin), &outBuf, &errBuf)
	return code, outBuf.String(), errBuf.String()
}

func TestRun_NoArgs(t *testing.T) {
	code, _, stderr := runCLI(t, nil)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "Usage:") {
		t.Errorf("stderr missing usage:\n%s", stderr)
	}
}

func TestRun_Help(t *testing.T) {
	for _, arg := range []string{"-h", "--help", "help"} {
		code, stdout, _ := runCLI(t, nil, arg)
		if code != 0 {
			t.Errorf("%s: exit code = %d, want 0", arg, code)
		}
		if !strings.Contains(stdout, libwebp.EnvVar) {
			t.Errorf("%s: usage does not mention %s", arg, libwebp.EnvVar)
		}
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, nil, "bogus")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, `unknown command "bogus"`) {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestInfo_Unavailable(t *testing.T) {
	skipIfAvailable(t)

	code, stdout, _ := runCLI(t, nil, "info")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout, "available: no") {
		t.Errorf("stdout missing availability:\n%s", stdout)
	}
	if !strings.Contains(stdout, "override") || !strings.Contains(stdout, bogusLibrary) {
		t.Errorf("stdout missing rejected override:\n%s", stdout)
	}
	if strings.Contains(stdout, "search-path") {
		t.Errorf("default search list consulted despite override:\n%s", stdout)
	}
}

func TestEnc_Unavailable(t *testing.T) {
	skipIfAvailable(t)

	code, _, stderr := runCLI(t, nil, "enc", "-o", "-", "-")
	if code != exitUnavailable {
		t.Errorf("exit code = %d, want %d", code, exitUnavailable)
	}
	if !strings.Contains(stderr, "library not available") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestDec_Unavailable(t *testing.T) {
	skipIfAvailable(t)

	code, stdout, _ := runCLI(t, []byte("RIFF\x00\x00\x00\x00WEBP"), "dec", "-o", "-", "-")
	if code != exitUnavailable {
		t.Errorf("exit code = %d, want %d", code, exitUnavailable)
	}
	if stdout != "" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestMissingInput(t *testing.T) {
	for _, cmd := range []string{"enc", "dec"} {
		code, _, stderr := runCLI(t, nil, cmd)
		if code != 1 {
			t.Errorf("%s: exit code = %d, want 1", cmd, code)
		}
		if !strings.Contains(stderr, "missing input file") {
			t.Errorf("%s: stderr = %q", cmd, stderr)
		}
	}
}

func TestBadFlag(t *testing.T) {
	code, _, stderr := runCLI(t, nil, "enc", "-nope", "x.png")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "-nope") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "ok.bin")
	n, err := writeFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("size = %d, want 5", n)
	}

	failed := filepath.Join(dir, "fail.bin")
	wantErr := errors.New("boom")
	if _, err := writeFile(failed, func(io.Writer) error { return wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if _, err := os.Stat(failed); !os.IsNotExist(err) {
		t.Error("partial output not removed")
	}
}
