// Package driver runs the per-file pipeline: load, parse, lower, validate
// and render LLVM IR.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sysyc/internal/diag"
	"sysyc/internal/lower"
	"sysyc/internal/observ"
	"sysyc/internal/parser"
	"sysyc/internal/source"
	"sysyc/internal/trace"
	"sysyc/internal/version"
)

// Options configures one compilation.
type Options struct {
	MaxDiagnostics int
	Cache          *DiskCache // nil disables caching
	Version        string     // cache key salt; version.Version when empty
}

func (o Options) version() string {
	if o.Version != "" {
		return o.Version
	}
	return version.Version
}

// Result is the outcome for one input file. Diagnostics go to Bag; Err is
// set only when the pipeline itself stopped (cancellation).
type Result struct {
	Path   string
	FileID source.FileID
	IR     string // LLVM IR text, empty on failure
	Bag    *diag.Bag
	Timer  *observ.Timer
	Cached bool
	Err    error
}

// Failed reports whether the file produced no usable IR.
func (r *Result) Failed() bool {
	return r.Err != nil || r.Bag.HasErrors()
}

// Fatal reports whether a fatal configuration error stopped the file.
func (r *Result) Fatal() bool {
	return r.Bag.HasFatal()
}

func newResult(path string, opts Options) *Result {
	return &Result{Path: path, Bag: diag.NewBag(opts.MaxDiagnostics), Timer: observ.NewTimer()}
}

// CompileFile loads path into fs and compiles it.
func CompileFile(ctx context.Context, fs *source.FileSet, path string, opts Options) *Result {
	res := newResult(path, opts)
	idx := res.Timer.Begin("load")
	id, err := fs.Load(path)
	if err != nil {
		res.Timer.End(idx, "failed")
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, fmt.Sprintf("cannot read %s: %v", path, err)))
		return res
	}
	f := fs.Get(id)
	res.Timer.End(idx, strconv.Itoa(len(f.Content))+" bytes")
	res.FileID = id
	compile(ctx, f, opts, res)
	return res
}

// CompileSource compiles in-memory content registered under name.
func CompileSource(ctx context.Context, fs *source.FileSet, name string, content []byte, opts Options) *Result {
	res := newResult(name, opts)
	id := fs.AddVirtual(name, content)
	res.FileID = id
	compile(ctx, fs.Get(id), opts, res)
	return res
}

func compile(ctx context.Context, f *source.File, opts Options, res *Result) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "compile", trace.ParentSpan(ctx)).WithExtra("file", f.Path)
	ctx = trace.WithSpan(ctx, span)
	detail := ""
	defer func() { span.End(detail) }()

	key := CacheKey(opts.version(), f.Path, f.Content)
	if opts.Cache != nil {
		var entry CacheEntry
		ok, err := opts.Cache.Get(key, &entry)
		switch {
		case err != nil:
			trace.Point(tracer, trace.ScopeDriver, "cache", "read failed: "+err.Error(), span.ID())
		case ok:
			res.IR, res.Cached = entry.IR, true
			detail = "cached"
			return
		}
	}

	idx := res.Timer.Begin("parse")
	pspan := trace.Begin(tracer, trace.ScopePass, "parse", span.ID())
	parsed := parser.ParseFile(f, parser.Options{Reporter: diag.BagReporter{Bag: res.Bag}})
	pspan.End("")
	res.Timer.End(idx, fmt.Sprintf("%d items", len(parsed.Unit.Items)))
	if res.Bag.HasErrors() {
		detail = "syntax errors"
		return
	}

	idx = res.Timer.Begin("lower")
	m, err := lower.Program(ctx, parsed.Unit)
	res.Timer.End(idx, "")
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			res.Err = err
		} else {
			res.Bag.Add(Diagnose(err, f.ID))
		}
		detail = err.Error()
		return
	}
	m.SourceFilename = f.Path

	idx = res.Timer.Begin("validate")
	vspan := trace.Begin(tracer, trace.ScopePass, "validate", span.ID())
	err = lower.Validate(m)
	vspan.End("")
	res.Timer.End(idx, "")
	if err != nil {
		res.Bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.LowInvalidIR,
			Message:  strings.ReplaceAll(err.Error(), "\n", "; "),
			Primary:  source.Span{File: f.ID},
		})
		detail = "invalid IR"
		return
	}

	idx = res.Timer.Begin("emit")
	res.IR = m.String()
	res.Timer.End(idx, strconv.Itoa(len(res.IR))+" bytes")

	if opts.Cache != nil {
		entry := CacheEntry{Schema: cacheSchemaVersion, Path: f.Path, IR: res.IR}
		if err := opts.Cache.Put(key, &entry); err != nil {
			trace.Point(tracer, trace.ScopeDriver, "cache", "write failed: "+err.Error(), span.ID())
		}
	}
}

// OutputPath is the .ll file written for input inside outDir, or next to
// the input when outDir is empty.
func OutputPath(input, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".ll"
	if outDir == "" {
		return filepath.Join(filepath.Dir(input), base)
	}
	return filepath.Join(outDir, base)
}

// WriteOutput writes ir to path atomically.
func WriteOutput(path, ir string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".sysyc-*")
	if err != nil {
		return err
	}
	if _, err := f.WriteString(ir); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		_ = os.Remove(f.Name())
		return err
	}
	return nil
}
