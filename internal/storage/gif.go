package storage

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// DefaultGIFDelay is the per-frame delay in 100ths of a second.
const DefaultGIFDelay = 4

// ExportGIF assembles a run's saved frames into a looping animated GIF.
func (s *Store) ExportGIF(w io.Writer, runID string, delay int) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	if len(meta.Files) == 0 {
		return fmt.Errorf("run %s has no frames", runID)
	}
	if delay <= 0 {
		delay = DefaultGIFDelay
	}

	anim := gif.GIF{LoopCount: 0}
	for _, name := range meta.Files {
		img, err := readPNG(filepath.Join(s.Dir(runID), name))
		if err != nil {
			return fmt.Errorf("frame %s: %w", name, err)
		}
		pal := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pal, img.Bounds(), img, image.Point{})
		anim.Image = append(anim.Image, pal)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}
