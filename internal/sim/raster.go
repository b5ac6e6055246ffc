package sim

import (
	"fmt"

	"github.com/san-kum/fieldtex/internal/palette"
)

// Rasterize colors each pixel by the angle of its mass's position. The field
// is only read.
func Rasterize(f *MassField, buf *PixelBuffer) error {
	if buf.Width != f.Width || buf.Height != f.Height || len(buf.Pix) != len(f.States) {
		return fmt.Errorf("%w: field %dx%d, buffer %dx%d",
			ErrDimensionMismatch, f.Width, f.Height, buf.Width, buf.Height)
	}
	for i := range f.States {
		buf.Pix[i] = palette.Colorize(f.States[i].Pos)
	}
	return nil
}
