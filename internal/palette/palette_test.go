package palette

import (
	"image/color"
	"math"
	"testing"

	"github.com/san-kum/fieldtex/internal/vecmath"
	"github.com/stretchr/testify/assert"
)

func TestClamp255(t *testing.T) {
	assert.Equal(t, uint32(0), Clamp255(-1.0), "negative clamps to 0")
	assert.Equal(t, uint32(255), Clamp255(2.0), "overflow clamps to 255")
	assert.Equal(t, uint32(127), Clamp255(0.5), "truncated, not rounded")
	assert.Equal(t, uint32(0), Clamp255(0), "zero")
	assert.Equal(t, uint32(255), Clamp255(1), "one")
	assert.Equal(t, uint32(0), Clamp255(-0.001), "small negative")
	assert.Equal(t, uint32(0), Clamp255(math.NaN()), "NaN")
	assert.Equal(t, uint32(255), Clamp255(math.Inf(1)), "+Inf")
}

func TestClamp255_Idempotent(t *testing.T) {
	for _, x := range []float64{-3, -1, 0, 0.25, 0.5, 0.999, 1, 2, 40} {
		once := Clamp255(x)
		twice := Clamp255((float64(once) + 0.5) / 255)
		assert.Equal(t, once, twice, "re-clamping %v", x)
	}
}

func TestPack(t *testing.T) {
	c := Pack(vecmath.Vec3{X: 1, Y: 0.5, Z: 0})
	assert.Equal(t, uint32(0xFF007FFF), c)

	assert.Equal(t, uint32(0xFF000000), Pack(vecmath.Vec3{X: -1, Y: -1, Z: -1}), "alpha always opaque")
	assert.Equal(t, color.NRGBA{R: 255, G: 127, B: 0, A: 255}, Unpack(c))
}

func TestTwilightShifted_Endpoints(t *testing.T) {
	c0 := TwilightShifted(0)
	assert.InDelta(t, 0.120488, c0.X, 1e-12)
	assert.InDelta(t, 0.047735, c0.Y, 1e-12)
	assert.InDelta(t, 0.106111, c0.Z, 1e-12)

	// No explicit wraparound: the fit only comes close at t -> 1.
	c1 := TwilightShifted(1)
	assert.InDelta(t, c0.X, c1.X, 0.05, "red seam")
	assert.InDelta(t, c0.Y, c1.Y, 0.05, "green seam")
	assert.InDelta(t, c0.Z, c1.Z, 0.05, "blue seam")
}

func TestTwilightShifted_Continuous(t *testing.T) {
	const step = 1e-4
	prev := TwilightShifted(0)
	for i := 1; i <= 10000; i++ {
		cur := TwilightShifted(float64(i) * step)
		d := cur.Sub(prev)
		if math.Abs(d.X) > 0.02 || math.Abs(d.Y) > 0.02 || math.Abs(d.Z) > 0.02 {
			t.Fatalf("jump at t=%v: %v -> %v", float64(i)*step, prev, cur)
		}
		prev = cur
	}
}

func TestPhase(t *testing.T) {
	tests := []struct {
		name string
		p    vecmath.Vec2
		want float64
	}{
		{"positive y axis", vecmath.Vec2{X: 0, Y: 1}, 0.5},
		{"positive x axis", vecmath.Vec2{X: 1, Y: 0}, 0.75},
		{"negative x axis", vecmath.Vec2{X: -1, Y: 0}, 0.25},
		{"negative y axis", vecmath.Vec2{X: 0, Y: -1}, 1.0},
		{"just left of negative y", vecmath.Vec2{X: -1e-9, Y: -1}, 0.0},
		{"origin", vecmath.Vec2{}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Phase(tt.p), 1e-9)
		})
	}
}

func TestPhase_ScaleInvariant(t *testing.T) {
	p := vecmath.Vec2{X: 0.3, Y: -0.7}
	assert.InDelta(t, Phase(p), Phase(p.Scale(12)), 1e-12)
	assert.Equal(t, Colorize(p), Colorize(p.Scale(0.01)))
}
