package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"architect/internal/buildpipeline"
	"architect/internal/project"
	"architect/internal/trace"
)

const watchDebounce = 150 * time.Millisecond

// runWatch builds once, then rebuilds after every change to the manifest
// until interrupted. Build failures are printed and the watch goes on.
func runWatch(cmd *cobra.Command, s buildSettings) error {
	start := s.path
	if start == "" {
		start = "."
	}
	manifest, ok, err := project.FindManifest(start)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w in %s or any parent directory", buildpipeline.ErrNoManifest, start)
	}
	manifest, err = filepath.Abs(manifest)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()
	// editors replace files on save, so watch the directory
	if err := w.Add(filepath.Dir(manifest)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(manifest), err)
	}

	// the progress view owns the terminal; keep watch output plain
	s.ui = uiModeOff
	s.req.Path = manifest
	errOut := cmd.ErrOrStderr()
	rebuild := func() {
		if err := buildOnce(ctx, cmd, s); err != nil && !errors.Is(err, errDiagnosticsReported) {
			fmt.Fprintf(errOut, "build failed: %v\n", err)
		}
		fmt.Fprintf(errOut, "watching %s (ctrl+c to stop)\n", manifest)
	}
	rebuild()

	tracer := trace.FromContext(ctx)
	var debounce *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isManifestEvent(ev, manifest) {
				continue
			}
			trace.Point(tracer, trace.ScopeDriver, "watch:"+ev.Op.String(), ev.Name, 0)
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			fire = debounce.C
		case <-fire:
			fire = nil
			rebuild()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "watch: %v\n", err)
		}
	}
}

// isManifestEvent reports whether ev touched the manifest in a way that
// may change its content.
func isManifestEvent(ev fsnotify.Event, manifest string) bool {
	if filepath.Clean(ev.Name) != filepath.Clean(manifest) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
