package viz

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/san-kum/fieldtex/internal/sim"
)

const DefaultRowInterval = 10

// Reporter prints a progress line every RowInterval finished rows and a
// summary line per frame. It is safe to register on a parallel simulator
// because observer calls are serialized there.
type Reporter struct {
	w           io.Writer
	RowInterval int
	BarWidth    int
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w, RowInterval: DefaultRowInterval, BarWidth: 30}
}

func (r *Reporter) OnFrameStart(frame, frames int, clock float64) {
	fmt.Fprintf(r.w, "%s %s  %s\n",
		GradientTitle.Render(fmt.Sprintf("frame %d/%d", frame+1, frames)),
		MetricLabel.Render("t ="),
		MetricValue.Render(fmt.Sprintf("%.4f", clock)))
}

func (r *Reporter) OnRowDone(p sim.RowProgress) {
	interval := r.RowInterval
	if interval <= 0 {
		interval = DefaultRowInterval
	}
	if p.Done%interval != 0 && p.Done != p.Rows {
		return
	}
	fmt.Fprintf(r.w, "  %s %s\n",
		ProgressBar(float64(p.Done)/float64(p.Rows), r.BarWidth),
		Subtle.Render(fmt.Sprintf("row %d/%d", p.Done, p.Rows)))
}

func (r *Reporter) OnFrameDone(rep sim.FrameReport) {
	fmt.Fprintf(r.w, "  %s %s\n", StatusRunning.Render("done"), FormatMetrics(rep.Metrics))
}

// FormatMetrics renders metrics as sorted name=value pairs.
func FormatMetrics(metrics map[string]float64) string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, MetricLabel.Render(name+"=")+MetricValue.Render(fmt.Sprintf("%.4g", metrics[name])))
	}
	return strings.Join(parts, " ")
}
