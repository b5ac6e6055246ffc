package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fieldtex/internal/sim"
	"github.com/san-kum/fieldtex/internal/vecmath"
)

var _ = Describe("Config", func() {
	It("carries the reference defaults", func() {
		cfg := sim.DefaultConfig()

		Expect(cfg.Width).To(Equal(300))
		Expect(cfg.Height).To(Equal(200))
		Expect(cfg.Frames).To(Equal(10))
		Expect(cfg.Substeps).To(Equal(20))
		Expect(cfg.Dt).To(Equal(0.01))
		Expect(cfg.Coefficients.SofteningLength).To(Equal(0.1))
		Expect(cfg.Coefficients.Drag).To(Equal(0.2))
		Expect(cfg.Coefficients.Spring).To(Equal(0.2))
		Expect(cfg.Box.Origin).To(Equal(vecmath.Vec2{X: -1.65, Y: -1.1}))
		Expect(cfg.Box.Size).To(Equal(vecmath.Vec2{X: 3.3, Y: 2.2}))
		Expect(cfg.Layout.NodeCount).To(Equal(4))
		Expect(cfg.Layout.TimeScale).To(Equal(30.0))
		Expect(cfg.Integrator).To(Equal("rk4"))
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.SimulatedTime()).To(BeNumerically("~", 0.2, 1e-12))
	})

	DescribeTable("rejects invalid settings",
		func(mutate func(*sim.Config)) {
			cfg := sim.DefaultConfig()
			mutate(&cfg)
			Expect(cfg.Validate()).To(MatchError(sim.ErrInvalidConfig))

			_, err := sim.New(cfg)
			Expect(err).To(MatchError(sim.ErrInvalidConfig))
		},
		Entry("zero width", func(c *sim.Config) { c.Width = 0 }),
		Entry("negative height", func(c *sim.Config) { c.Height = -1 }),
		Entry("zero frames", func(c *sim.Config) { c.Frames = 0 }),
		Entry("zero substeps", func(c *sim.Config) { c.Substeps = 0 }),
		Entry("zero dt", func(c *sim.Config) { c.Dt = 0 }),
		Entry("NaN dt", func(c *sim.Config) { c.Dt = math.NaN() }),
		Entry("zero softening", func(c *sim.Config) { c.Coefficients.SofteningLength = 0 }),
		Entry("negative softening", func(c *sim.Config) { c.Coefficients.SofteningLength = -0.1 }),
		Entry("no nodes", func(c *sim.Config) { c.Layout.NodeCount = 0 }),
		Entry("negative workers", func(c *sim.Config) { c.Workers = -2 }),
		Entry("infinite box", func(c *sim.Config) { c.Box.Size.X = math.Inf(1) }),
		Entry("NaN seed", func(c *sim.Config) { c.Seed.Frequency = math.NaN() }),
		Entry("unknown integrator", func(c *sim.Config) { c.Integrator = "leapfrog" }),
	)

	It("falls back to rk4 when no integrator is named", func() {
		cfg := smallConfig()
		cfg.Integrator = ""
		_, err := sim.New(cfg)
		Expect(err).NotTo(HaveOccurred())
	})
})
