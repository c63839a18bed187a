package driver

import (
	"bytes"
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"architect/internal/elab"
	"architect/internal/observ"
	"architect/internal/project"
	"architect/internal/trace"
)

// BatchOptions configures TranslateAll.
type BatchOptions struct {
	Options
	// Jobs bounds concurrency; <= 0 means GOMAXPROCS.
	Jobs int
	// Cache may be nil.
	Cache       *DiskCache
	ToolVersion string
	// OnStart and OnFinish are called from worker goroutines.
	OnStart  func(index int)
	OnFinish func(r Result)
}

// Result is the outcome for one unit. Results keep manifest order.
type Result struct {
	Index   int
	Name    string
	Text    []byte
	Cached  bool
	Skipped bool // the unit failed elaboration and was not translated
	Err     error
	Elapsed time.Duration
	Timing  observ.Report
}

// TranslateAll translates every elaborated unit in parallel. Per-unit
// failures land in Result.Err; the returned error is only set when ctx is
// cancelled.
func TranslateAll(ctx context.Context, units []elab.Unit, opts BatchOptions) ([]Result, error) {
	results := make([]Result, len(units))
	if len(units) == 0 {
		return results, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ctx, span := trace.BeginCtx(ctx, trace.ScopeStage, "translate")
	defer span.End("")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(units)))

	for i, u := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i уникален для горутины, мьютекс не нужен
			results[i] = translateUnit(gctx, i, u, opts)
			if opts.OnFinish != nil {
				opts.OnFinish(results[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func translateUnit(ctx context.Context, i int, u elab.Unit, opts BatchOptions) Result {
	res := Result{Index: i, Name: u.Name()}
	if !u.OK {
		res.Skipped = true
		return res
	}
	if opts.OnStart != nil {
		opts.OnStart(i)
	}
	started := time.Now()
	ctx, span := trace.BeginCtx(ctx, trace.ScopeEntity, "entity:"+res.Name)
	timer := observ.NewTimer()

	var key project.Digest
	if opts.Cache != nil {
		_ = timer.Track("cache lookup", func() error {
			var err error
			key, err = CacheKey(opts.ToolVersion, opts.Options, u.Decl)
			if err != nil {
				return err
			}
			var payload DiskPayload
			hit, err := opts.Cache.Get(key, &payload)
			if err != nil {
				// unreadable entries are rebuilt
				trace.Point(trace.FromContext(ctx), trace.ScopeCache, "cache:corrupt", err.Error(), span.ID())
				return err
			}
			if hit {
				res.Text = payload.Text
				res.Cached = true
			}
			return nil
		})
	}

	if !res.Cached {
		var buf bytes.Buffer
		res.Err = timer.Track("emit", func() error {
			return TranslateModule(ctx, &buf, u.Module, opts.Options)
		})
		if res.Err == nil {
			res.Text = buf.Bytes()
			if opts.Cache != nil && !key.IsZero() {
				_ = timer.Track("cache store", func() error {
					return opts.Cache.Put(key, &DiskPayload{Entity: res.Name, Text: res.Text, Stored: time.Now()})
				})
			}
		}
	}

	res.Elapsed = time.Since(started)
	res.Timing = timer.Report()
	res.Timing.Label = res.Name
	detail := "emitted"
	switch {
	case res.Err != nil:
		detail = res.Err.Error()
	case res.Cached:
		detail = "cached"
	}
	span.End(detail)
	return res
}
