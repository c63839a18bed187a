package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"architect/internal/diag"
	"architect/internal/diagfmt"
)

// errDiagnosticsReported marks a failure whose diagnostics were already
// printed; main exits 1 without repeating it.
var errDiagnosticsReported = errors.New("diagnostics reported")

type diagFormat string

const (
	diagFormatPretty diagFormat = "pretty"
	diagFormatJSON   diagFormat = "json"
)

func readDiagFormat(value string) (diagFormat, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "pretty":
		return diagFormatPretty, nil
	case "json":
		return diagFormatJSON, nil
	default:
		return "", fmt.Errorf("invalid --format value %q (expected pretty|json)", value)
	}
}

func maxDiagnostics(cmd *cobra.Command) (int, error) {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return 0, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return n, nil
}

// printDiagnostics renders the bag; baseDir anchors relative paths.
func printDiagnostics(out io.Writer, bag *diag.Bag, format diagFormat, baseDir string) error {
	if bag == nil {
		return nil
	}
	if format == diagFormatJSON {
		return diagfmt.JSON(out, bag, diagfmt.JSONOpts{
			PathMode:     diagfmt.PathModeRelative,
			BaseDir:      baseDir,
			IncludeNotes: true,
		})
	}
	if bag.Len() == 0 {
		return nil
	}
	return diagfmt.Pretty(out, bag, diagfmt.PrettyOpts{
		Color:     colorEnabled(),
		PathMode:  diagfmt.PathModeAuto,
		BaseDir:   baseDir,
		ShowNotes: true,
		Summary:   true,
	})
}
