package sim_test

import (
	"errors"

	"github.com/san-kum/fieldtex/internal/field"
	"github.com/san-kum/fieldtex/internal/sim"
	"github.com/san-kum/fieldtex/internal/vecmath"
)

// smallConfig is the 2x2 reference scenario: unit box, one frame, one
// sub-step.
func smallConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Width, cfg.Height = 2, 2
	cfg.Frames, cfg.Substeps = 1, 1
	cfg.Box = sim.Box{Size: vecmath.Vec2{X: 1, Y: 1}}
	return cfg
}

type recordingObserver struct {
	starts []float64
	rows   []sim.RowProgress
	done   []sim.FrameReport
}

func (r *recordingObserver) OnFrameStart(frame, frames int, clock float64) {
	r.starts = append(r.starts, clock)
}

func (r *recordingObserver) OnRowDone(p sim.RowProgress) { r.rows = append(r.rows, p) }

func (r *recordingObserver) OnFrameDone(rep sim.FrameReport) { r.done = append(r.done, rep) }

// countingMetric reports how many times Observe ran since the last Reset.
type countingMetric struct {
	resets, observes int
	sinceReset       int
	last             *field.Params
}

func (c *countingMetric) Name() string { return "count" }
func (c *countingMetric) Observe(f *sim.MassField, p *field.Params) {
	c.observes++
	c.sinceReset++
	c.last = p
}
func (c *countingMetric) Value() float64 { return float64(c.sinceReset) }
func (c *countingMetric) Reset() {
	c.resets++
	c.sinceReset = 0
}

type failingSink struct {
	failOn map[int]bool
	saved  []int
}

var errDiskFull = errors.New("disk full")

func (f *failingSink) SaveFrame(frame int, buf *sim.PixelBuffer) error {
	if f.failOn[frame] {
		return errDiskFull
	}
	f.saved = append(f.saved, frame)
	return nil
}
