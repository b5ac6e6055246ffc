package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fieldtex/internal/palette"
	"github.com/san-kum/fieldtex/internal/sim"
	"github.com/san-kum/fieldtex/internal/vecmath"
)

var _ = Describe("MassField", func() {
	seed := sim.Seed{Amplitude: 0.05, Frequency: 10}

	It("samples cell centers row-major", func() {
		box := sim.Box{Size: vecmath.Vec2{X: 1, Y: 1}}
		f, err := sim.NewMassField(box, 2, 2, seed)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Len()).To(Equal(4))

		Expect(f.States[0].Pos).To(Equal(vecmath.Vec2{X: 0.25, Y: 0.25}))
		Expect(f.States[1].Pos).To(Equal(vecmath.Vec2{X: 0.75, Y: 0.25}))
		Expect(f.States[2].Pos).To(Equal(vecmath.Vec2{X: 0.25, Y: 0.75}))
		Expect(f.States[3].Pos).To(Equal(vecmath.Vec2{X: 0.75, Y: 0.75}))
		Expect(f.At(1, 1)).To(BeIdenticalTo(&f.States[3]))
		Expect(f.Row(1)).To(HaveLen(2))
	})

	It("seeds velocity from the vertical coordinate", func() {
		f, err := sim.NewMassField(sim.DefaultBox(), 3, 5, seed)
		Expect(err).NotTo(HaveOccurred())

		for _, m := range f.States {
			Expect(m.Vel.X).To(Equal(math.Sin(m.Pos.Y*10) * 0.05))
			Expect(m.Vel.Y).To(BeZero())
		}
	})

	It("maps the grid into the box", func() {
		box := sim.DefaultBox()
		f, err := sim.NewMassField(box, 300, 200, seed)
		Expect(err).NotTo(HaveOccurred())

		first := f.States[0].Pos
		Expect(first.X).To(BeNumerically("~", -1.65+3.3*0.5/300, 1e-12))
		Expect(first.Y).To(BeNumerically("~", -1.1+2.2*0.5/200, 1e-12))

		last := f.States[f.Len()-1].Pos
		Expect(last.X).To(BeNumerically("~", 1.65-3.3*0.5/300, 1e-12))
		Expect(last.Y).To(BeNumerically("~", 1.1-2.2*0.5/200, 1e-12))
	})

	It("rejects empty grids", func() {
		_, err := sim.NewMassField(sim.DefaultBox(), 0, 4, seed)
		Expect(err).To(MatchError(sim.ErrInvalidConfig))
	})
})

var _ = Describe("Rasterize", func() {
	It("colors every pixel from its mass without touching the field", func() {
		f, err := sim.NewMassField(sim.DefaultBox(), 4, 3, sim.Seed{Amplitude: 0.05, Frequency: 10})
		Expect(err).NotTo(HaveOccurred())
		before := append([]sim.MassState(nil), f.States...)

		buf := sim.NewPixelBuffer(4, 3)
		Expect(sim.Rasterize(f, buf)).To(Succeed())

		Expect(f.States).To(Equal(before))
		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				Expect(buf.At(x, y)).To(Equal(palette.Colorize(f.At(x, y).Pos)))
				Expect(buf.At(x, y) >> 24).To(Equal(uint32(0xFF)))
			}
		}
	})

	It("refuses a buffer of the wrong size", func() {
		f, _ := sim.NewMassField(sim.DefaultBox(), 4, 3, sim.Seed{})
		Expect(sim.Rasterize(f, sim.NewPixelBuffer(3, 4))).To(MatchError(sim.ErrDimensionMismatch))
	})
})

var _ = Describe("SimulationError", func() {
	It("formats and unwraps", func() {
		err := &sim.SimulationError{Frame: 3, Index: 17, Clock: 0.03, Wrapped: sim.ErrNonFinite}
		Expect(err.Error()).To(Equal("frame 3 (t=0.0300), mass 17: sim: non-finite mass state"))
		Expect(err).To(MatchError(sim.ErrNonFinite))

		frameOnly := &sim.SimulationError{Frame: 1, Index: -1, Wrapped: sim.ErrSinkFailed}
		Expect(frameOnly.Error()).To(Equal("frame 1 (t=0.0000): sim: frame sink failed"))
	})
})
