package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/san-kum/fieldtex/internal/field"
	"github.com/san-kum/fieldtex/internal/integrators"
)

type Simulator struct {
	cfg       Config
	stepper   integrators.Stepper
	field     *MassField
	buf       *PixelBuffer
	clock     float64
	metrics   []Metric
	observers []Observer

	// mu serializes observer callbacks coming from row workers.
	mu       sync.Mutex
	rowsDone int
}

// New validates cfg and lays out the initial mass field.
func New(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	name := cfg.Integrator
	if name == "" {
		name = integrators.DefaultName
	}
	stepper, err := integrators.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	f, err := NewMassField(cfg.Box, cfg.Width, cfg.Height, cfg.Seed)
	if err != nil {
		return nil, err
	}

	return &Simulator{
		cfg:       cfg,
		stepper:   stepper,
		field:     f,
		buf:       NewPixelBuffer(cfg.Width, cfg.Height),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Config() Config       { return s.cfg }
func (s *Simulator) Field() *MassField    { return s.field }
func (s *Simulator) Buffer() *PixelBuffer { return s.buf }
func (s *Simulator) Clock() float64       { return s.clock }

// Params builds the force field for the current clock.
func (s *Simulator) Params() (*field.Params, error) {
	return field.MakeParams(s.clock, s.cfg.Layout, s.cfg.Coefficients)
}

// Run renders cfg.Frames frames into sink. On error the partial result is
// returned alongside it.
func (s *Simulator) Run(ctx context.Context, sink FrameSink) (*Result, error) {
	if sink == nil {
		return nil, errors.New("sim: nil frame sink")
	}

	start := time.Now()
	result := &Result{
		Frames:        make([]FrameReport, 0, s.cfg.Frames),
		SkippedFrames: make([]int, 0),
	}
	defer func() {
		result.FinalClock = s.clock
		result.Elapsed = time.Since(start)
	}()

	for frame := 0; frame < s.cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		report, err := s.StepFrame(ctx, frame)
		if err != nil {
			return result, err
		}

		if err := Rasterize(s.field, s.buf); err != nil {
			return result, err
		}

		if err := sink.SaveFrame(frame, s.buf); err != nil {
			serr := &SimulationError{
				Frame:   frame,
				Index:   -1,
				Clock:   report.Clock,
				Wrapped: fmt.Errorf("%w: %w", ErrSinkFailed, err),
			}
			if !s.cfg.ContinueOnSinkError {
				return result, serr
			}
			result.SkippedFrames = append(result.SkippedFrames, frame)
		}

		report.Elapsed = time.Since(start)
		result.Frames = append(result.Frames, report)
		s.notify(func(o Observer) { o.OnFrameDone(report) })
	}

	return result, nil
}

// StepFrame builds the node ring from the current clock, advances the clock
// by Dt and applies Substeps integrator steps to every mass with that one
// ring. It does not rasterize.
func (s *Simulator) StepFrame(ctx context.Context, frame int) (FrameReport, error) {
	params, err := s.Params()
	if err != nil {
		return FrameReport{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	report := FrameReport{
		Frame: frame,
		Clock: s.clock,
		Angle: s.cfg.Layout.Angle(s.clock),
	}
	s.clock += s.cfg.Dt

	s.rowsDone = 0
	s.notify(func(o Observer) { o.OnFrameStart(frame, s.cfg.Frames, report.Clock) })

	if err := s.advance(ctx, frame, report.Clock, params); err != nil {
		return report, err
	}

	report.Metrics = make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		m.Reset()
		m.Observe(s.field, params)
		report.Metrics[m.Name()] = m.Value()
	}

	return report, nil
}

func (s *Simulator) notify(fn func(Observer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.observers {
		fn(o)
	}
}

func (s *Simulator) rowDone(frame, row int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rowsDone++
	p := RowProgress{Frame: frame, Row: row, Done: s.rowsDone, Rows: s.field.Height}
	for _, o := range s.observers {
		o.OnRowDone(p)
	}
}
