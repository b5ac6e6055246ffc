// Package palette maps positions to colors.
//
// The transfer function is a degree-6 polynomial fit of the shifted
// "twilight" colormap: cyclic, so a phase taken from the angle of a point
// around the origin gives a seamless color wheel.
package palette

import (
	"image/color"
	"math"

	"github.com/san-kum/fieldtex/internal/vecmath"
)

var twilightShifted = [7]vecmath.Vec3{
	{X: 0.120488, Y: 0.047735, Z: 0.106111},
	{X: 5.175161, Y: 0.597944, Z: 7.333840},
	{X: -47.426009, Y: -0.862094, Z: -49.143485},
	{X: 197.225325, Y: 47.538667, Z: 194.773468},
	{X: -361.218441, Y: -146.888121, Z: -389.642741},
	{X: 298.941929, Y: 151.947507, Z: 359.860766},
	{X: -92.697067, Y: -52.312119, Z: -123.143476},
}

// TwilightShifted evaluates the palette at t. It is defined for every t but
// only [0, 1) is meaningful.
func TwilightShifted(t float64) vecmath.Vec3 {
	c := twilightShifted
	acc := c[6]
	for i := 5; i >= 0; i-- {
		acc = c[i].Add(acc.Scale(t))
	}
	return acc
}

// Phase maps p to [0, 1) by its angle around the origin. The arguments to
// atan2 are (x, y), not (y, x).
func Phase(p vecmath.Vec2) float64 {
	return math.Atan2(p.X, p.Y)/(2*math.Pi) + 0.5
}

// Clamp255 scales x by 255, truncates toward zero and clamps to [0, 255].
func Clamp255(x float64) uint32 {
	v := 255 * x
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint32(v)
}

// Pack returns R | G<<8 | B<<16 with alpha forced to 0xFF.
func Pack(rgb vecmath.Vec3) uint32 {
	return Clamp255(rgb.X) | Clamp255(rgb.Y)<<8 | Clamp255(rgb.Z)<<16 | 0xFF000000
}

// Unpack splits a packed pixel into its channels.
func Unpack(c uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(c),
		G: uint8(c >> 8),
		B: uint8(c >> 16),
		A: uint8(c >> 24),
	}
}

// Colorize is the full position-to-pixel mapping.
func Colorize(p vecmath.Vec2) uint32 {
	return Pack(TwilightShifted(Phase(p)))
}
