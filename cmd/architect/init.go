package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"architect/internal/project"
	"architect/internal/version"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create an architect.toml with an example entity",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("name", "", "package name (defaults to the directory name)")
	initCmd.Flags().Bool("force", false, "overwrite an existing manifest")
}

const manifestTemplate = `[package]
name = %q
version = "0.1.0"
architect = ">=%s"

[emit]
out_dir = "build"
use_clause = true

[[entity]]
name = "ShiftRegister"
inputs = [
  { name = "clk", type = "std_logic" },
  { name = "input", type = "std_logic" },
]
outputs = [
  { name = "state", type = "std_logic_vector", range = [7, 0] },
  { name = "output", type = "std_logic" },
]
assign = [
  { target = "output", value = true },
]
`

// renderManifestTemplate fills the template and makes sure it decodes
// without stray keys.
func renderManifestTemplate(name string) (string, error) {
	text := fmt.Sprintf(manifestTemplate, name, minToolVersion())
	m, err := project.Decode(project.ManifestName, text)
	if err != nil {
		return "", err
	}
	if len(m.Undecoded) > 0 {
		return "", fmt.Errorf("template has unknown keys: %s", strings.Join(m.Undecoded, ", "))
	}
	return text, nil
}

// minToolVersion drops any prerelease suffix so the constraint accepts
// release builds of the same version.
func minToolVersion() string {
	v := version.Version
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	return v
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", abs, err)
	}

	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return fmt.Errorf("failed to get name flag: %w", err)
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}
	if strings.TrimSpace(name) == "" {
		name = filepath.Base(abs)
	}

	path := filepath.Join(abs, project.ManifestName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}

	text, err := renderManifestTemplate(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	return nil
}
