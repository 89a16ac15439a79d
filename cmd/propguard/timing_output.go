package main

import (
	"fmt"
	"io"
	"time"

	"propguard/internal/observ"
	"propguard/internal/pipeline"
)

// printTimings prints the per-stage wall times followed by the detailed
// phase table.
func printTimings(out io.Writer, timings pipeline.Timings, timer *observ.Timer) {
	if out == nil {
		return
	}
	for _, st := range []struct {
		stage pipeline.Stage
		label string
	}{
		{pipeline.StageParse, "parsed"},
		{pipeline.StageBind, "bound"},
		{pipeline.StageLint, "linted"},
	} {
		if timings.Has(st.stage) {
			fmt.Fprintf(out, "%s %.1f ms\n", st.label, toMillis(timings.Duration(st.stage)))
		}
	}
	if timer != nil {
		fmt.Fprint(out, timer.Summary())
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
