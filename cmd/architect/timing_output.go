package main

import (
	"fmt"
	"io"
	"time"

	"architect/internal/buildpipeline"
	"architect/internal/observ"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	if out == nil {
		return
	}
	for _, stage := range []buildpipeline.Stage{
		buildpipeline.StageLoad,
		buildpipeline.StageCheck,
		buildpipeline.StageEmit,
		buildpipeline.StageWrite,
	} {
		if timings.Has(stage) {
			fmt.Fprintf(out, "%-6s %.1f ms\n", stage, toMillis(timings.Duration(stage)))
		}
	}
}

// printEntityTimings prints the per-entity phase breakdown.
func printEntityTimings(out io.Writer, reports []observ.Report) {
	if out == nil || len(reports) == 0 {
		return
	}
	fmt.Fprint(out, observ.Summary(reports...))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
