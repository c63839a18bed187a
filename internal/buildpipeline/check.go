// Package buildpipeline orchestrates a manifest build: load, check,
// emit and write, reporting progress per entity.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"architect/internal/diag"
	"architect/internal/elab"
	"architect/internal/project"
	"architect/internal/trace"
)

// ErrNoManifest is returned when no architect.toml governs the start path.
var ErrNoManifest = errors.New("no " + project.ManifestName + " found")

// ErrDiagnostics is returned when the check stage reported errors.
var ErrDiagnostics = errors.New("manifest has errors")

// CheckRequest configures loading and checking a manifest.
type CheckRequest struct {
	// Path is a directory to search upward from, or a manifest file.
	Path string
	// Manifest, when set, skips discovery and loading.
	Manifest       *project.Manifest
	Entities       []string
	MaxDiagnostics int
	ToolVersion    string
	Progress       ProgressSink
}

// CheckResult captures the manifest, its diagnostics and the lowered units.
type CheckResult struct {
	Manifest *project.Manifest
	Bag      *diag.Bag
	// Units are the selected entities in manifest order.
	Units   []elab.Unit
	Timings Timings
}

// Check loads the manifest, validates it and elaborates its entities.
// Problems in the design are diagnostics in the bag; the returned error is
// set only when there is nothing to check (no manifest, unknown entity
// filter) or the context was cancelled.
func Check(ctx context.Context, req *CheckRequest) (CheckResult, error) {
	var result CheckResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing check request")
	}
	result.Bag = diag.NewBag(req.MaxDiagnostics)
	reporter := diag.BagReporter{Bag: result.Bag}

	ctx, span := trace.BeginCtx(ctx, trace.ScopeStage, string(StageLoad))
	loadStart := time.Now()
	m := req.Manifest
	if m == nil {
		loaded, parsed, err := loadManifest(req.Path, reporter)
		if err != nil {
			span.End(err.Error())
			emit(req.Progress, Event{Stage: StageLoad, Status: StatusError, Err: err})
			return result, err
		}
		result.Manifest = loaded
		if !parsed {
			span.End("parse failed")
			emit(req.Progress, Event{Stage: StageLoad, Status: StatusError, Err: ErrDiagnostics})
			return result, ErrDiagnostics
		}
		m = loaded
	}
	result.Manifest = m
	result.Timings.Set(StageLoad, time.Since(loadStart))
	span.End(m.Path)
	if err := ctx.Err(); err != nil {
		return result, err
	}

	_, span = trace.BeginCtx(ctx, trace.ScopeStage, string(StageCheck))
	checkStart := time.Now()
	names := make([]string, 0, len(m.Config.Entities))
	for i, decl := range m.Config.Entities {
		names = append(names, elab.Unit{Index: i, Decl: decl}.Name())
	}
	if len(req.Entities) == 0 {
		emitQueued(req.Progress, names)
	}

	project.Check(m, reporter, req.ToolVersion)
	units := elab.LowerManifest(m, reporter)
	picked, unknown := elab.Select(units, req.Entities)
	if len(unknown) > 0 {
		err := fmt.Errorf("unknown entity %s (declared: %s)", strings.Join(quoteAll(unknown), ", "), strings.Join(names, ", "))
		span.End(err.Error())
		return result, err
	}
	if len(req.Entities) > 0 {
		selected := make([]string, len(picked))
		for i, u := range picked {
			selected[i] = u.Name()
		}
		emitQueued(req.Progress, selected)
	}
	for _, u := range picked {
		status := StatusDone
		if !u.OK {
			status = StatusError
		}
		emit(req.Progress, Event{Entity: u.Name(), Stage: StageCheck, Status: status})
	}
	result.Units = picked
	result.Bag.Sort()
	result.Timings.Set(StageCheck, time.Since(checkStart))
	span.End(fmt.Sprintf("%d entities, %d diagnostics", len(picked), result.Bag.Len()))
	return result, nil
}

// loadManifest reads the manifest. A parse failure becomes an IO
// diagnostic and parsed=false; the returned manifest then only carries
// its path.
func loadManifest(path string, r diag.Reporter) (m *project.Manifest, parsed bool, err error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, false, err
		}
		path = wd
	}
	file, ok, err := project.FindManifest(path)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, fmt.Errorf("%w in %s or any parent directory", ErrNoManifest, path)
	}
	m, err = project.Load(file)
	if err != nil {
		diag.ReportError(r, diag.IOLoadFailed, diag.Location{File: file}, err.Error()).Emit()
		return &project.Manifest{Path: file, Root: filepath.Dir(file)}, false, nil
	}
	return m, true, nil
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("%q", n)
	}
	return out
}
