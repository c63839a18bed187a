package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"architect/internal/buildpipeline"
	"architect/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Validate the manifest and elaborate its entities without emitting",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	checkCmd.Flags().StringArray("entity", nil, "check only this entity (repeatable)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := readDiagFormat(formatStr)
	if err != nil {
		return err
	}
	entities, err := cmd.Flags().GetStringArray("entity")
	if err != nil {
		return fmt.Errorf("failed to get entity flag: %w", err)
	}
	maxDiag, err := maxDiagnostics(cmd)
	if err != nil {
		return err
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	res, err := buildpipeline.Check(cmd.Context(), &buildpipeline.CheckRequest{
		Path:           path,
		Entities:       entities,
		MaxDiagnostics: maxDiag,
		ToolVersion:    version.Version,
	})
	baseDir := ""
	if res.Manifest != nil {
		baseDir = res.Manifest.Root
	}
	if res.Bag != nil {
		if perr := printDiagnostics(cmd.OutOrStdout(), res.Bag, format, baseDir); perr != nil {
			return perr
		}
	}
	if timings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings)
	}
	if err != nil {
		dumpTraceRing(cmd)
		if errors.Is(err, buildpipeline.ErrDiagnostics) {
			return errDiagnosticsReported
		}
		return err
	}
	if res.Bag.HasErrors() {
		dumpTraceRing(cmd)
		return errDiagnosticsReported
	}
	return nil
}
