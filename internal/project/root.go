package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the file name of a design manifest.
const ManifestName = "architect.toml"

// FindManifest walks up from start to locate architect.toml. When start
// names a .toml file it is returned as is.
func FindManifest(start string) (path string, ok bool, err error) {
	if start == "" {
		start = "."
	}
	if filepath.Ext(start) == ".toml" {
		if _, err := os.Stat(start); err != nil {
			return "", false, fmt.Errorf("failed to stat %q: %w", start, err)
		}
		abs, err := filepath.Abs(start)
		if err != nil {
			return "", false, fmt.Errorf("failed to resolve %q: %w", start, err)
		}
		return abs, true, nil
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}
