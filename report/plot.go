package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/weiihann/tracebench/harness"
)

// Plot saves a bar chart of the average run time of every task to path.
// The image format follows the file extension (png, svg, pdf, ...).
func Plot(path string, results []harness.TaskResult) error {
	if len(results) == 0 {
		return errNoResults
	}

	values := make(plotter.Values, len(results))
	names := make([]string, len(results))

	for i, res := range results {
		values[i] = res.Mean()
		names[i] = res.Task.Name
	}

	p := plot.New()
	p.Title.Text = "Average run time"
	p.Y.Label.Text = "seconds"
	p.Y.Min = 0
	p.X.Tick.Label.Rotation = math.Pi / 8

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}

	bars.Color = color.RGBA{R: 66, G: 133, B: 244, A: 255}
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalX(names...)

	width := vg.Length(max(6, 1.5*float64(len(results)))) * vg.Inch

	if err := p.Save(width, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}

	return nil
}
