package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fieldtex/internal/sim"
)

// MetricSeries extracts one metric from each frame report.
func MetricSeries(reports []sim.FrameReport, name string) ([]float64, error) {
	series := make([]float64, 0, len(reports))
	for _, r := range reports {
		v, ok := r.Metrics[name]
		if !ok {
			return nil, fmt.Errorf("metric %q not recorded for frame %d", name, r.Frame)
		}
		series = append(series, v)
	}
	return series, nil
}

// PlotMetric draws values as an ascii chart. A single value is widened to a
// flat line since asciigraph needs two points.
func PlotMetric(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return Subtle.Render("(no data)")
	}
	if len(values) == 1 {
		values = []float64{values[0], values[0]}
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption))
}
