package buildpipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"architect/internal/diag"
	"architect/internal/driver"
	"architect/internal/observ"
	"architect/internal/trace"
)

// FileExt is the extension of emitted units.
const FileExt = ".vhd"

// BuildRequest configures a full build.
type BuildRequest struct {
	CheckRequest
	// OutDir overrides [emit].out_dir; relative paths are taken as given.
	OutDir string
	// ToStdout forces output to Stdout regardless of the manifest.
	ToStdout bool
	Stdout   io.Writer
	Jobs     int
	NoCache  bool
}

// Output is one written unit.
type Output struct {
	Entity    string
	Path      string // empty when written to stdout
	Cached    bool
	Unchanged bool // the file already had this content
	Bytes     int
}

// BuildResult captures written units, diagnostics and timings.
type BuildResult struct {
	CheckResult
	Outputs []Output
	// Reports holds per-entity timer reports in manifest order.
	Reports []observ.Report
}

// Build checks the manifest, translates the selected entities and writes
// one <entity>.vhd per entity (or everything to stdout). Nothing is
// written when the check stage reported errors.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}

	checkRes, err := Check(ctx, &req.CheckRequest)
	result.CheckResult = checkRes
	if err != nil {
		return result, err
	}
	if result.Bag.HasErrors() {
		return result, ErrDiagnostics
	}
	m := result.Manifest
	opts := driver.Options{UseClause: m.UseClause(), Architecture: m.Config.Emit.Architecture}

	var cache *driver.DiskCache
	if !req.NoCache {
		cache, err = driver.OpenDiskCache(m.CacheDir())
		if err != nil {
			// an unusable cache only costs speed
			trace.Point(trace.FromContext(ctx), trace.ScopeCache, "cache:disabled", err.Error(), 0)
			cache = nil
		}
	}

	emitStart := time.Now()
	results, err := driver.TranslateAll(ctx, result.Units, driver.BatchOptions{
		Options:     opts,
		Jobs:        req.Jobs,
		Cache:       cache,
		ToolVersion: req.ToolVersion,
		OnStart: func(i int) {
			emit(req.Progress, Event{Entity: result.Units[i].Name(), Stage: StageEmit, Status: StatusWorking})
		},
		OnFinish: func(r driver.Result) {
			if r.Skipped {
				return
			}
			status := StatusDone
			if r.Err != nil {
				status = StatusError
			}
			emit(req.Progress, Event{Entity: r.Name, Stage: StageEmit, Status: status, Cached: r.Cached, Err: r.Err, Elapsed: r.Elapsed})
		},
	})
	result.Timings.Set(StageEmit, time.Since(emitStart))
	if err != nil {
		return result, err
	}
	var errs []error
	for _, r := range results {
		result.Reports = append(result.Reports, r.Timing)
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if len(errs) > 0 {
		return result, errors.Join(errs...)
	}

	_, span := trace.BeginCtx(ctx, trace.ScopeStage, string(StageWrite))
	writeStart := time.Now()
	outDir, toStdout := m.OutDir()
	if req.OutDir != "" {
		outDir, toStdout = req.OutDir, req.OutDir == "-"
	}
	if req.ToStdout {
		toStdout = true
	}
	if toStdout {
		w := req.Stdout
		if w == nil {
			w = os.Stdout
		}
		result.Outputs, err = writeStream(w, results, req.Progress)
	} else {
		result.Outputs, err = writeFiles(outDir, results, req.Progress)
	}
	result.Timings.Set(StageWrite, time.Since(writeStart))
	if err != nil {
		var we *writeError
		if errors.As(err, &we) {
			diag.ReportError(diag.BagReporter{Bag: result.Bag}, diag.IOWriteFailed,
				diag.Location{File: we.path}, we.Error()).Emit()
		}
		span.End(err.Error())
		return result, err
	}
	span.End(fmt.Sprintf("%d units", len(result.Outputs)))
	return result, nil
}

type writeError struct {
	path string
	err  error
}

func (e *writeError) Error() string { return fmt.Sprintf("failed to write %s: %v", e.path, e.err) }
func (e *writeError) Unwrap() error { return e.err }

// writeStream concatenates the units, one blank line between them.
func writeStream(w io.Writer, results []driver.Result, sink ProgressSink) ([]Output, error) {
	outputs := make([]Output, 0, len(results))
	for _, r := range results {
		if r.Skipped {
			continue
		}
		emit(sink, Event{Entity: r.Name, Stage: StageWrite, Status: StatusWorking})
		if len(outputs) > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return outputs, &writeError{path: "<stdout>", err: err}
			}
		}
		if _, err := w.Write(r.Text); err != nil {
			emit(sink, Event{Entity: r.Name, Stage: StageWrite, Status: StatusError, Err: err})
			return outputs, &writeError{path: "<stdout>", err: err}
		}
		outputs = append(outputs, Output{Entity: r.Name, Cached: r.Cached, Bytes: len(r.Text)})
		emit(sink, Event{Entity: r.Name, Stage: StageWrite, Status: StatusDone, Cached: r.Cached})
	}
	return outputs, nil
}

func writeFiles(dir string, results []driver.Result, sink ProgressSink) ([]Output, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, &writeError{path: dir, err: err}
	}
	outputs := make([]Output, 0, len(results))
	for _, r := range results {
		if r.Skipped {
			continue
		}
		emit(sink, Event{Entity: r.Name, Stage: StageWrite, Status: StatusWorking})
		path := filepath.Join(dir, r.Name+FileExt)
		unchanged, err := writeIfChanged(path, r.Text)
		if err != nil {
			emit(sink, Event{Entity: r.Name, Stage: StageWrite, Status: StatusError, Err: err})
			return outputs, &writeError{path: path, err: err}
		}
		outputs = append(outputs, Output{Entity: r.Name, Path: path, Cached: r.Cached, Unchanged: unchanged, Bytes: len(r.Text)})
		emit(sink, Event{Entity: r.Name, Stage: StageWrite, Status: StatusDone, Cached: r.Cached})
	}
	return outputs, nil
}

// writeIfChanged replaces path atomically unless it already holds data,
// so unchanged units keep their modification time.
func writeIfChanged(path string, data []byte) (unchanged bool, err error) {
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, data) {
		return true, nil
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*"+FileExt)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return false, err
	}
	if err = f.Close(); err != nil {
		return false, err
	}
	// #nosec G302 -- emitted sources are meant to be shared with other tools
	if err = os.Chmod(f.Name(), 0o644); err != nil {
		return false, err
	}
	return false, os.Rename(f.Name(), path)
}
