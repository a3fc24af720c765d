package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"sysyc/internal/source"
	"sysyc/internal/trace"
)

// CompileFiles compiles paths concurrently with at most jobs workers
// (GOMAXPROCS when jobs <= 0). Results keep the order of paths. Per-file
// failures stay in each Result; the error is only set on cancellation.
func CompileFiles(ctx context.Context, paths []string, jobs int, opts Options) (*source.FileSet, []*Result, error) {
	fs := source.NewFileSet()
	results := make([]*Result, len(paths))
	if len(paths) == 0 {
		return fs, results, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "build", trace.ParentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)
	defer span.End("")

	// indices are unique per goroutine, so results needs no lock
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := CompileFile(gctx, fs, path, opts)
			results[i] = res
			return res.Err
		})
	}
	err := g.Wait()
	return fs, results, err
}
