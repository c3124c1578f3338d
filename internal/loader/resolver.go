package loader

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Source identifies where a resolved library came from.
type Source int

const (
	SourceNone       Source = iota // nothing resolved
	SourceProcess                  // symbols already linked into the process
	SourceOverride                 // the path named by the override variable
	SourceSearchPath               // one of the default candidates
)

func (s Source) String() string {
	switch s {
	case SourceProcess:
		return "process"
	case SourceOverride:
		return "override"
	case SourceSearchPath:
		return "search-path"
	default:
		return "none"
	}
}

// Attempt records one failed candidate.
type Attempt struct {
	Source Source
	Path   string // empty for the process namespace
	Err    error
}

// Result is the cached outcome of a resolution. It is immutable once
// returned by Resolve.
type Result struct {
	Codec    *Codec // nil unless resolution succeeded
	Source   Source
	Path     string
	Err      error // all candidate failures combined; nil on success
	Attempts []Attempt
}

// OK reports whether the library is usable.
func (r *Result) OK() bool {
	return r != nil && r.Codec != nil
}

// Config controls a Resolver. Zero fields take the platform defaults.
type Config struct {
	// EnvVar names the override variable. Defaults to DefaultEnvVar.
	EnvVar string
	// Candidates is the ordered default search list. Defaults to
	// DefaultCandidates(). An empty non-nil slice disables the search.
	Candidates []string
	Opener     Opener
	Binder     Binder
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
	Logger *zap.Logger
}

func (c *Config) setDefaults() {
	if c.EnvVar == "" {
		c.EnvVar = DefaultEnvVar
	}
	if c.Candidates == nil {
		c.Candidates = DefaultCandidates()
	}
	if c.Opener == nil {
		c.Opener = SystemOpener()
	}
	if c.Binder == nil {
		c.Binder = SystemBinder
	}
	if c.Getenv == nil {
		c.Getenv = os.Getenv
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// Resolver performs a single, cached resolution. It is safe for concurrent
// use; concurrent first callers wait for the one attempt in flight.
type Resolver struct {
	cfg Config

	mu     sync.Mutex
	result atomic.Pointer[Result]
}

// New returns a Resolver that has not attempted resolution yet.
func New(cfg Config) *Resolver {
	cfg.setDefaults()
	return &Resolver{cfg: cfg}
}

// Resolve returns the cached outcome, running the search on first call.
// Failures are permanent for the lifetime of the Resolver.
func (r *Resolver) Resolve() *Result {
	if res := r.result.Load(); res != nil {
		return res
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if res := r.result.Load(); res != nil {
		return res
	}
	res := r.resolve()
	r.result.Store(res)
	return res
}

// Resolved reports whether resolution has been attempted.
func (r *Resolver) Resolved() bool {
	return r.result.Load() != nil
}

// strategy is one step of the ordered search. try reports stop when no
// later strategy may run, which is how a set override excludes the
// default list.
type strategy interface {
	try(r *Resolver, res *Result) (ok, stop bool)
}

func (r *Resolver) strategies() []strategy {
	return []strategy{
		processStrategy{},
		overrideStrategy{path: r.cfg.Getenv(r.cfg.EnvVar)},
		searchStrategy{paths: r.cfg.Candidates},
	}
}

func (r *Resolver) resolve() *Result {
	res := &Result{}
	for _, s := range r.strategies() {
		ok, stop := s.try(r, res)
		if ok {
			res.Err = nil
			r.cfg.Logger.Info("libwebp resolved",
				zap.Stringer("source", res.Source),
				zap.String("path", res.Path))
			return res
		}
		if stop {
			break
		}
	}

	for _, a := range res.Attempts {
		res.Err = multierr.Append(res.Err, a.describe())
	}
	if res.Err == nil {
		res.Err = ErrNotFound
	}
	res.Source = SourceNone
	res.Path = ""
	r.cfg.Logger.Warn("libwebp unavailable", zap.Error(res.Err))
	return res
}

// bind looks up and binds symbols from h. Handles opened by this attempt
// (owned) are closed on failure.
func (r *Resolver) bind(res *Result, h Handle, src Source, path string, owned bool) bool {
	codec, err := r.bindHandle(h)
	if err != nil {
		if owned {
			if cerr := r.cfg.Opener.Close(h); cerr != nil {
				err = multierr.Append(err, fmt.Errorf("close: %w", cerr))
			}
		}
		r.fail(res, src, path, err)
		return false
	}
	res.Codec = codec
	res.Source = src
	res.Path = path
	return true
}

func (r *Resolver) bindHandle(h Handle) (*Codec, error) {
	syms, err := lookupSymbols(r.cfg.Opener, h)
	if err != nil {
		return nil, err
	}
	return r.cfg.Binder(syms)
}

func (r *Resolver) fail(res *Result, src Source, path string, err error) {
	r.cfg.Logger.Debug("libwebp candidate rejected",
		zap.Stringer("source", src),
		zap.String("path", path),
		zap.Error(err))
	res.Attempts = append(res.Attempts, Attempt{Source: src, Path: path, Err: err})
}

func (a Attempt) describe() error {
	if a.Path == "" {
		return fmt.Errorf("%s: %w", a.Source, a.Err)
	}
	return fmt.Errorf("%s %s: %w", a.Source, a.Path, a.Err)
}

type processStrategy struct{}

func (processStrategy) try(r *Resolver, res *Result) (bool, bool) {
	h, err := r.cfg.Opener.Process()
	if err != nil {
		r.fail(res, SourceProcess, "", err)
		return false, false
	}
	return r.bind(res, h, SourceProcess, "", false), false
}

type overrideStrategy struct {
	path string
}

func (s overrideStrategy) try(r *Resolver, res *Result) (bool, bool) {
	if s.path == "" {
		return false, false
	}
	r.cfg.Logger.Debug("libwebp override set",
		zap.String("env", r.cfg.EnvVar),
		zap.String("path", s.path))

	h, err := r.cfg.Opener.Open(s.path)
	if err != nil {
		r.fail(res, SourceOverride, s.path, multierr.Append(ErrOverrideFailed, err))
		return false, true
	}
	if !r.bind(res, h, SourceOverride, s.path, true) {
		last := &res.Attempts[len(res.Attempts)-1]
		last.Err = multierr.Append(ErrOverrideFailed, last.Err)
		return false, true
	}
	return true, true
}

type searchStrategy struct {
	paths []string
}

func (s searchStrategy) try(r *Resolver, res *Result) (bool, bool) {
	for _, p := range s.paths {
		h, err := r.cfg.Opener.Open(p)
		if err != nil {
			r.fail(res, SourceSearchPath, p, err)
			continue
		}
		if r.bind(res, h, SourceSearchPath, p, true) {
			return true, true
		}
	}
	return false, true
}
