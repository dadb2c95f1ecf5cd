package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/analysis"
)

// StaircaseChart renders an HTML line chart of each category's replayed
// coherence trace for one session. Failed replays still chart the trials that
// validated before the mismatch, which makes the divergence point visible.
func StaircaseChart(w io.Writer, summary analysis.SessionSummary) error {
	maxLen := 0
	for _, res := range summary.Categories {
		if len(res.Replay.Sequence) > maxLen {
			maxLen = len(res.Replay.Sequence)
		}
	}
	if maxLen == 0 {
		return fmt.Errorf("no validated calibration trials for session %s", summary.SessionID)
	}

	xs := make([]int, maxLen)
	for i := range xs {
		xs[i] = i
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("Staircase %s", summary.SessionID),
			Width:     "1100px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Calibration coherence staircase",
			Subtitle: fmt.Sprintf("session=%s", summary.SessionID),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "trial"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "coherence"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(xs)

	for _, res := range summary.Categories {
		if len(res.Replay.Sequence) == 0 {
			continue
		}
		data := make([]opts.LineData, len(res.Replay.Sequence))
		for i, v := range res.Replay.Sequence {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(res.Category.Name, data)
	}

	return line.Render(w)
}
