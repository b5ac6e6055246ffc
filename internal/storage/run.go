package storage

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/san-kum/fieldtex/internal/palette"
	"github.com/san-kum/fieldtex/internal/sim"
)

// FrameName returns the file name of a frame: the run start time followed
// by the zero-padded frame index, so names sort by frame.
func FrameName(start time.Time, frame int) string {
	return fmt.Sprintf("%s___%06d.png", start.Format("2006-01-02_15-04-05"), frame)
}

// Run is one render's output directory. It is a sim.FrameSink.
type Run struct {
	dir   string
	start time.Time

	mu   sync.Mutex
	meta RunMetadata
}

func (r *Run) ID() string  { return r.meta.ID }
func (r *Run) Dir() string { return r.dir }

func (r *Run) SaveFrame(frame int, buf *sim.PixelBuffer) error {
	name := FrameName(r.start, frame)
	if err := WritePNG(filepath.Join(r.dir, name), buf); err != nil {
		return err
	}

	r.mu.Lock()
	r.meta.Files = append(r.meta.Files, name)
	r.mu.Unlock()
	return nil
}

// Finish writes metadata.json and stats.csv. The run is complete only when
// result is non-nil and runErr is nil; a partial result is still recorded.
func (r *Run) Finish(result *sim.Result, runErr error) error {
	r.mu.Lock()
	meta := r.meta
	r.mu.Unlock()

	if runErr != nil {
		meta.Error = runErr.Error()
	}

	var frames []sim.FrameReport
	if result != nil {
		frames = result.Frames
		meta.Complete = runErr == nil
		meta.SkippedFrames = result.SkippedFrames
		meta.FinalClock = result.FinalClock
		meta.Elapsed = result.Elapsed.Seconds()
		if len(frames) > 0 {
			meta.Metrics = finiteMetrics(frames[len(frames)-1].Metrics)
		}
	}

	if err := writeStats(filepath.Join(r.dir, statsFile), frames); err != nil {
		return err
	}
	return writeMetadata(filepath.Join(r.dir, metadataFile), meta)
}

func Image(buf *sim.PixelBuffer) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			img.SetNRGBA(x, y, palette.Unpack(buf.At(x, y)))
		}
	}
	return img
}

func WritePNG(path string, buf *sim.PixelBuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, Image(buf)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
