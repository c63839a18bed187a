package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"architect/internal/driver"
	"architect/internal/project"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove the translation cache and emitted units",
	Long:  "Remove the .architect cache directory and, unless --cache-only is set, the output directory of the manifest.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().Bool("cache-only", false, "keep the output directory")
}

func runClean(cmd *cobra.Command, args []string) error {
	base := "."
	if len(args) > 0 && args[0] != "" {
		base = args[0]
	}
	cacheOnly, err := cmd.Flags().GetBool("cache-only")
	if err != nil {
		return fmt.Errorf("failed to get cache-only flag: %w", err)
	}
	m, ok, err := project.Discover(base)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no %s found in %s or any parent directory", project.ManifestName, base)
	}

	out := cmd.OutOrStdout()
	if cacheOnly {
		cache, err := driver.OpenDiskCache(m.CacheDir())
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintf(out, "cleared %s\n", formatPathForOutput(m.Root, cache.Dir()))
		return nil
	}

	targets := []string{filepath.Dir(m.CacheDir())}
	if outDir, toStdout := m.OutDir(); !toStdout {
		targets = append(targets, outDir)
	}
	for _, dir := range targets {
		removed, err := removeDir(dir)
		if err != nil {
			return err
		}
		if removed {
			fmt.Fprintf(out, "removed %s\n", formatPathForOutput(m.Root, dir))
		}
	}
	return nil
}

// removeDir deletes dir; a missing directory is not an error.
func removeDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %q: %w", dir, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%q is not a directory", dir)
	}
	if err := os.RemoveAll(dir); err != nil {
		return false, fmt.Errorf("failed to remove %q: %w", dir, err)
	}
	return true, nil
}

func formatPathForOutput(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
