package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"architect/internal/buildpipeline"
	"architect/internal/elab"
	"architect/internal/project"
	"architect/internal/version"
)

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Translate the manifest's entities to VHDL",
	Long: `Build checks architect.toml and writes one <entity>.vhd per entity into
the output directory ([emit].out_dir, default "build"). Unchanged units are
served from the translation cache.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().Bool("stdout", false, "write all units to standard output")
	buildCmd.Flags().String("out", "", "output directory (overrides [emit].out_dir; - for stdout)")
	buildCmd.Flags().StringArray("entity", nil, "build only this entity (repeatable)")
	buildCmd.Flags().Int("jobs", 0, "max parallel translations (0=auto)")
	buildCmd.Flags().Bool("no-cache", false, "disable the translation cache")
	buildCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	buildCmd.Flags().Bool("watch", false, "rebuild whenever the manifest changes")
}

type buildSettings struct {
	path     string
	req      buildpipeline.BuildRequest
	ui       uiMode
	quiet    bool
	timings  bool
	watch    bool
	toStdout bool
}

func readBuildSettings(cmd *cobra.Command, args []string) (buildSettings, error) {
	var s buildSettings
	if len(args) > 0 {
		s.path = args[0]
	}
	flags := cmd.Flags()
	var err error
	if s.toStdout, err = flags.GetBool("stdout"); err != nil {
		return s, fmt.Errorf("failed to get stdout flag: %w", err)
	}
	outDir, err := flags.GetString("out")
	if err != nil {
		return s, fmt.Errorf("failed to get out flag: %w", err)
	}
	entities, err := flags.GetStringArray("entity")
	if err != nil {
		return s, fmt.Errorf("failed to get entity flag: %w", err)
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return s, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs < 0 {
		return s, fmt.Errorf("--jobs must be >= 0")
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return s, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return s, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return s, err
	}
	if s.watch, err = flags.GetBool("watch"); err != nil {
		return s, fmt.Errorf("failed to get watch flag: %w", err)
	}
	if s.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return s, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiag, err := maxDiagnostics(cmd)
	if err != nil {
		return s, err
	}

	s.req = buildpipeline.BuildRequest{
		CheckRequest: buildpipeline.CheckRequest{
			Path:           s.path,
			Entities:       entities,
			MaxDiagnostics: maxDiag,
			ToolVersion:    version.Version,
		},
		OutDir:   outDir,
		ToStdout: s.toStdout || outDir == project.StdoutDir,
		Stdout:   cmd.OutOrStdout(),
		Jobs:     jobs,
		NoCache:  noCache,
	}
	return s, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	s, err := readBuildSettings(cmd, args)
	if err != nil {
		return err
	}
	if s.watch {
		return runWatch(cmd, s)
	}
	return buildOnce(cmd.Context(), cmd, s)
}

// buildOnce runs one build and prints its diagnostics, written files and
// timings to stderr.
func buildOnce(ctx context.Context, cmd *cobra.Command, s buildSettings) error {
	req := s.req
	errOut := cmd.ErrOrStderr()

	var (
		res buildpipeline.BuildResult
		err error
	)
	m, found := discoverForUI(s)
	switch {
	case found && shouldUseTUI(s.ui, req.ToStdout || manifestStreams(m, req)):
		req.Manifest = m
		res, err = runBuildWithUI(ctx, "architect build", entityNames(m, req.Entities), &req)
	default:
		res, err = buildpipeline.Build(ctx, &req)
	}

	baseDir := ""
	if res.Manifest != nil {
		baseDir = res.Manifest.Root
	}
	if perr := printDiagnostics(errOut, res.Bag, diagFormatPretty, baseDir); perr != nil {
		return perr
	}
	if !s.quiet {
		printOutputs(errOut, baseDir, res.Outputs)
	}
	if s.timings {
		printStageTimings(errOut, res.Timings)
		printEntityTimings(errOut, res.Reports)
	}
	if err != nil {
		dumpTraceRing(cmd)
		if errors.Is(err, buildpipeline.ErrDiagnostics) {
			return errDiagnosticsReported
		}
		return err
	}
	return nil
}

// discoverForUI loads the manifest up front only when a progress view may
// be shown, since the view needs the entity list before the build starts.
func discoverForUI(s buildSettings) (*project.Manifest, bool) {
	if s.ui == uiModeOff || s.req.ToStdout {
		return nil, false
	}
	start := s.path
	if start == "" {
		start = "."
	}
	m, ok, err := project.Discover(start)
	if err != nil {
		// the pipeline reports load failures as diagnostics
		return nil, false
	}
	return m, ok
}

func manifestStreams(m *project.Manifest, req buildpipeline.BuildRequest) bool {
	if req.OutDir != "" {
		return req.OutDir == project.StdoutDir
	}
	_, toStdout := m.OutDir()
	return toStdout
}

func entityNames(m *project.Manifest, filter []string) []string {
	if len(filter) > 0 {
		return filter
	}
	names := make([]string, 0, len(m.Config.Entities))
	for i, decl := range m.Config.Entities {
		names = append(names, elab.Unit{Index: i, Decl: decl}.Name())
	}
	return names
}

func printOutputs(out io.Writer, baseDir string, outputs []buildpipeline.Output) {
	for _, o := range outputs {
		if o.Path == "" {
			continue
		}
		note := ""
		switch {
		case o.Unchanged:
			note = " (unchanged)"
		case o.Cached:
			note = " (cached)"
		}
		fmt.Fprintf(out, "wrote %s%s\n", formatPathForOutput(baseDir, o.Path), note)
	}
}
