package sim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fieldtex/internal/field"
	"github.com/san-kum/fieldtex/internal/integrators"
	"github.com/san-kum/fieldtex/internal/sim"
)

func render(cfg sim.Config) *sim.MemorySink {
	s, err := sim.New(cfg)
	Expect(err).NotTo(HaveOccurred())
	sink := &sim.MemorySink{}
	_, err = s.Run(context.Background(), sink)
	Expect(err).NotTo(HaveOccurred())
	return sink
}

var _ = Describe("Simulator", func() {
	Describe("the 2x2 reference scenario", func() {
		It("is reproducible bit for bit", func() {
			a := render(smallConfig())
			b := render(smallConfig())

			Expect(a.Frames).To(HaveLen(1))
			Expect(a.Indices).To(Equal([]int{0}))
			Expect(a.Frames[0].Pix).To(HaveLen(4))
			Expect(a.Frames[0].Pix).To(Equal(b.Frames[0].Pix))
		})

		It("does not depend on the worker count", func() {
			serial := smallConfig()
			serial.Workers = 1
			parallel := smallConfig()
			parallel.Workers = 4

			Expect(render(serial).Frames[0].Pix).To(Equal(render(parallel).Frames[0].Pix))
		})

		It("applies exactly one RK4 step with the clock-zero ring", func() {
			cfg := smallConfig()
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			initial := append([]sim.MassState(nil), s.Field().States...)
			params, err := field.MakeParams(0, cfg.Layout, cfg.Coefficients)
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Run(context.Background(), &sim.MemorySink{})
			Expect(err).NotTo(HaveOccurred())

			rk4 := integrators.NewRK4()
			for i, m := range initial {
				want := rk4.Step(params, m.State(), cfg.Dt)
				Expect(s.Field().States[i].State()).To(Equal(want))
			}
		})
	})

	It("uses one ring for all sub-steps of a frame", func() {
		cfg := smallConfig()
		cfg.Substeps = 7
		s, err := sim.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		initial := append([]sim.MassState(nil), s.Field().States...)
		params, err := field.MakeParams(0, cfg.Layout, cfg.Coefficients)
		Expect(err).NotTo(HaveOccurred())

		report, err := s.StepFrame(context.Background(), 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Clock).To(BeZero())
		Expect(s.Clock()).To(Equal(cfg.Dt))

		rk4 := integrators.NewRK4()
		for i, m := range initial {
			x := m.State()
			for j := 0; j < cfg.Substeps; j++ {
				x = rk4.Step(params, x, cfg.Dt)
			}
			Expect(s.Field().States[i].State()).To(Equal(x))
		}
	})

	It("advances the clock once per frame and reports progress", func() {
		cfg := smallConfig()
		cfg.Width, cfg.Height = 5, 6
		cfg.Frames = 3
		cfg.Workers = 3

		s, err := sim.New(cfg)
		Expect(err).NotTo(HaveOccurred())
		obs := &recordingObserver{}
		s.AddObserver(obs)
		metric := &countingMetric{}
		s.AddMetric(metric)

		result, err := s.Run(context.Background(), &sim.MemorySink{})
		Expect(err).NotTo(HaveOccurred())

		Expect(obs.starts).To(HaveLen(3))
		for i, clock := range obs.starts {
			Expect(clock).To(BeNumerically("~", float64(i)*cfg.Dt, 1e-12))
		}
		Expect(result.FinalClock).To(BeNumerically("~", 3*cfg.Dt, 1e-12))

		Expect(obs.rows).To(HaveLen(3 * 6))
		for frame := 0; frame < 3; frame++ {
			rows := obs.rows[frame*6 : (frame+1)*6]
			seen := map[int]bool{}
			for i, p := range rows {
				Expect(p.Frame).To(Equal(frame))
				Expect(p.Rows).To(Equal(6))
				Expect(p.Done).To(Equal(i + 1))
				seen[p.Row] = true
			}
			Expect(seen).To(HaveLen(6))
		}

		Expect(obs.done).To(HaveLen(3))
		Expect(result.Frames).To(HaveLen(3))
		for i, rep := range result.Frames {
			Expect(rep.Frame).To(Equal(i))
			Expect(rep.Angle).To(BeNumerically("~", rep.Clock*30, 1e-12))
			Expect(rep.Metrics).To(HaveKeyWithValue("count", 1.0))
		}
		Expect(metric.resets).To(Equal(3))
		Expect(metric.observes).To(Equal(3))
		Expect(metric.last.Nodes).To(HaveLen(4))
	})

	It("stops on non-finite state", func() {
		cfg := smallConfig()
		cfg.Dt = 1e200

		s, err := sim.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		result, err := s.Run(context.Background(), &sim.MemorySink{})
		Expect(err).To(MatchError(sim.ErrNonFinite))

		var serr *sim.SimulationError
		Expect(errors.As(err, &serr)).To(BeTrue())
		Expect(serr.Frame).To(Equal(0))
		Expect(serr.Index).To(BeNumerically(">=", 0))
		Expect(result.Frames).To(BeEmpty())
	})

	Describe("sink failures", func() {
		It("abort the run by default", func() {
			cfg := smallConfig()
			cfg.Frames = 3
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			sink := &failingSink{failOn: map[int]bool{1: true}}
			result, err := s.Run(context.Background(), sink)

			Expect(err).To(MatchError(sim.ErrSinkFailed))
			Expect(err).To(MatchError(errDiskFull))
			Expect(sink.saved).To(Equal([]int{0}))
			Expect(result.Frames).To(HaveLen(1))
		})

		It("skip the frame when configured to continue", func() {
			cfg := smallConfig()
			cfg.Frames = 3
			cfg.ContinueOnSinkError = true
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			sink := &failingSink{failOn: map[int]bool{1: true}}
			result, err := s.Run(context.Background(), sink)

			Expect(err).NotTo(HaveOccurred())
			Expect(sink.saved).To(Equal([]int{0, 2}))
			Expect(result.SkippedFrames).To(Equal([]int{1}))
			Expect(result.Frames).To(HaveLen(3))
		})
	})

	It("honours a cancelled context", func() {
		s, err := sim.New(smallConfig())
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = s.Run(ctx, &sim.MemorySink{})
		Expect(err).To(MatchError(context.Canceled))
	})

	It("rejects a nil sink", func() {
		s, err := sim.New(smallConfig())
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Run(context.Background(), nil)
		Expect(err).To(HaveOccurred())
	})

	It("hands the sink a buffer matching the field", func() {
		cfg := smallConfig()
		cfg.Width, cfg.Height = 7, 3
		sink := render(cfg)
		Expect(sink.Frames[0].Width).To(Equal(7))
		Expect(sink.Frames[0].Height).To(Equal(3))
	})
})
