// Command staircase-plot renders the replayed calibration coherence traces of
// one session as a PNG. Useful when a replay mismatch needs eyeballing: the
// trace stops at the first invalid trial.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/analysis"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/sessionio"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/staircase"
)

var (
	input  = flag.String("input", "", "trial_results CSV export (required)")
	output = flag.String("output", "staircase.png", "Output PNG path")
	window = flag.Int("window", 0, "Median window: 0 uses the full sequence")
)

var palette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
}

func main() {
	flag.Parse()
	if *input == "" {
		log.Fatal("missing -input")
	}

	records, err := sessionio.LoadFile(*input)
	if err != nil {
		log.Fatalf("failed to load %s: %v", *input, err)
	}

	params := staircase.DefaultParams()
	params.MedianWindow = *window
	summary := analysis.NewBuilder(params).Build(*input, records)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Calibration staircase: %s", *input)
	p.X.Label.Text = "Trial"
	p.Y.Label.Text = "Coherence"

	series := 0
	for _, res := range summary.Categories {
		seq := res.Replay.Sequence
		if len(seq) == 0 {
			continue
		}

		pts := make(plotter.XYs, len(seq))
		for i, v := range seq {
			pts[i].X = float64(i)
			pts[i].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			log.Fatalf("failed to build line for %s: %v", res.Category.Name, err)
		}
		line.Color = palette[series%len(palette)]
		p.Add(line)

		label := fmt.Sprintf("%s (mean %.3f, sd %.3f)", res.Category.Name, stat.Mean(seq, nil), stat.StdDev(seq, nil))
		if res.Replay.Outcome == staircase.Failed {
			label = fmt.Sprintf("%s (mismatch at %d)", res.Category.Name, res.Replay.FailIndex)
		}
		p.Legend.Add(label, line)
		series++
	}
	if series == 0 {
		log.Fatal("no calibration trials to plot")
	}

	p.Legend.Top = true
	p.Legend.Left = false

	if err := p.Save(14*vg.Inch, 6*vg.Inch, *output); err != nil {
		log.Fatalf("failed to save plot: %v", err)
	}
	log.Printf("wrote %s (%d traces)", *output, series)
}
