// Command webpshim encodes and decodes WebP images with the system libwebp
// and reports how that library was found.
//
// Usage:
//
//	webpshim info                       Show where libwebp was loaded from
//	webpshim enc [options] <input>      PNG/JPEG/GIF → WebP (use "-" for stdin)
//	webpshim dec [options] <input.webp> WebP → PNG (use "-" for stdin, -o - for stdout)
//
// The LIBWEBP_PATH environment variable selects an exact library file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/deepteams/libwebp"
)

// exitUnavailable is the exit status when libwebp cannot be loaded.
const exitUnavailable = 2

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	e := &env{stdin: stdin, stdout: stdout, stderr: stderr}
	var err error
	switch args[0] {
	case "info":
		err = e.runInfo(args[1:])
	case "enc":
		err = e.runEnc(args[1:])
	case "dec":
		err = e.runDec(args[1:])
	case "-h", "-help", "--help", "help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "webpshim: unknown command %q\n\n", args[0])
		printUsage(stderr)
		return 1
	}

	if err != nil {
		fmt.Fprintf(stderr, "webpshim: %v\n", err)
		if errors.Is(err, libwebp.ErrUnavailable) {
			return exitUnavailable
		}
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage:
  webpshim info [-v]                  Show where libwebp was loaded from
  webpshim enc [options] <input>      Encode PNG/JPEG/GIF to WebP
  webpshim dec [options] <input.webp> Decode WebP to PNG

Use "-" as input to read from stdin, "-o -" to write to stdout.
Set %s to load one exact library file.

Run "webpshim <command> -h" for command-specific options.
`, libwebp.EnvVar)
}

// newFlagSet returns a flag set with the shared -v flag.
func (e *env) newFlagSet(name string) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	verbose := fs.Bool("v", false, "log library resolution to stderr")
	return fs, verbose
}

// setupLogging must run before the first libwebp call so resolution is
// logged.
func setupLogging(verbose bool) {
	if !verbose {
		return
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	libwebp.SetLogger(l.Named("libwebp"))
}

// openInput returns an io.ReadCloser for the given path.
// If path is "-", stdin is returned.
func (e *env) openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(e.stdin), nil
	}
	return os.Open(path)
}

// --- info ---

func (e *env) runInfo(args []string) error {
	fs, verbose := e.newFlagSet("info")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(*verbose)

	info := libwebp.Info()
	w := e.stdout
	if !info.Available {
		fmt.Fprintln(w, "available: no")
	} else {
		fmt.Fprintln(w, "available: yes")
		fmt.Fprintf(w, "source:    %s\n", info.Source)
		if info.Path != "" {
			fmt.Fprintf(w, "path:      %s\n", info.Path)
		}
		if info.EncoderVersion != "" {
			fmt.Fprintf(w, "encoder:   %s\n", info.EncoderVersion)
		}
		if info.DecoderVersion != "" {
			fmt.Fprintf(w, "decoder:   %s\n", info.DecoderVersion)
		}
		fmt.Fprintf(w, "lossless:  %t\n", info.Lossless)
	}

	if len(info.Attempts) > 0 {
		fmt.Fprintln(w, "rejected:")
		for _, a := range info.Attempts {
			where := a.Path
			if where == "" {
				where = "<process>"
			}
			fmt.Fprintf(w, "  %-11s %s: %v\n", a.Source, where, a.Err)
		}
	}
	return nil
}

// --- enc ---

func (e *env) runEnc(args []string) error {
	fs, verbose := e.newFlagSet("enc")
	quality := fs.Float64("q", 75, "quality 0-100")
	lossless := fs.Bool("lossless", false, "lossless encoding")
	output := fs.String("o", "", `output path (default: <input>.webp, "-" for stdout)`)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("enc: missing input file\nUsage: webpshim enc [options] <input>")
	}
	setupLogging(*verbose)
	inputPath := fs.Arg(0)

	if err := libwebp.Err(); err != nil {
		return fmt.Errorf("enc: %w", err)
	}

	in, err := e.openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("enc: decoding input: %w", err)
	}

	opts := &libwebp.EncoderOptions{Quality: float32(*quality), Lossless: *lossless}
	if *output == "-" {
		return libwebp.Encode(e.stdout, img, opts)
	}

	outputPath := *output
	if outputPath == "" {
		if inputPath == "-" {
			outputPath = "output.webp"
		} else {
			base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			outputPath = base + ".webp"
		}
	}

	n, err := writeFile(outputPath, func(w io.Writer) error {
		return libwebp.Encode(w, img, opts)
	})
	if err != nil {
		return fmt.Errorf("enc: %w", err)
	}
	fmt.Fprintf(e.stderr, "Encoded %s → %s (%d bytes)\n", inputPath, outputPath, n)
	return nil
}

// --- dec ---

func (e *env) runDec(args []string) error {
	fs, verbose := e.newFlagSet("dec")
	output := fs.String("o", "", `output path (default: <input>.png, "-" for stdout)`)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("dec: missing input file\nUsage: webpshim dec [options] <input.webp>")
	}
	setupLogging(*verbose)
	inputPath := fs.Arg(0)

	if err := libwebp.Err(); err != nil {
		return fmt.Errorf("dec: %w", err)
	}

	in, err := e.openInput(inputPath)
	if err != nil {
		return err
	}
	img, err := libwebp.Decode(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("dec: %w", err)
	}

	if *output == "-" {
		return png.Encode(e.stdout, img)
	}

	outputPath := *output
	if outputPath == "" {
		if inputPath == "-" {
			outputPath = "output.png"
		} else {
			base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			outputPath = base + ".png"
		}
	}

	n, err := writeFile(outputPath, func(w io.Writer) error {
		return png.Encode(w, img)
	})
	if err != nil {
		return fmt.Errorf("dec: %w", err)
	}
	b := img.Bounds()
	fmt.Fprintf(e.stderr, "Decoded %s → %s (%dx%d, %d bytes)\n", inputPath, outputPath, b.Dx(), b.Dy(), n)
	return nil
}

// writeFile creates path, fills it with write and returns its size. The
// file is removed if anything fails.
func writeFile(path string, write func(io.Writer) error) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	if err := write(out); err != nil {
		out.Close()
		os.Remove(path)
		return 0, err
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return 0, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
