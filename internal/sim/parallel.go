package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fieldtex/internal/field"
)

type rowRange struct{ start, end int }

// partitionRows splits [0, n) into at most workers contiguous ranges of
// near-equal size.
func partitionRows(n, workers int) []rowRange {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if n == 0 {
		return nil
	}

	chunk := (n + workers - 1) / workers
	ranges := make([]rowRange, 0, workers)
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		ranges = append(ranges, rowRange{start, end})
	}
	return ranges
}

func (s *Simulator) workers() int {
	if s.cfg.Workers > 0 {
		return s.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// advance steps every mass. Wait returns only after all rows are done,
// which is the barrier before rasterization.
func (s *Simulator) advance(ctx context.Context, frame int, clock float64, params *field.Params) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range partitionRows(s.field.Height, s.workers()) {
		g.Go(func() error {
			return s.stepRows(gctx, frame, clock, params, r)
		})
	}
	return g.Wait()
}

func (s *Simulator) stepRows(ctx context.Context, frame int, clock float64, params *field.Params, r rowRange) error {
	dt := s.cfg.Dt
	substeps := s.cfg.Substeps

	for y := r.start; y < r.end; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		row := s.field.Row(y)
		for x := range row {
			st := row[x].State()
			for j := 0; j < substeps; j++ {
				st = s.stepper.Step(params, st, dt)
			}
			if s.cfg.ValidateState && !st.IsFinite() {
				return &SimulationError{
					Frame:   frame,
					Index:   y*s.field.Width + x,
					Clock:   clock,
					Wrapped: ErrNonFinite,
				}
			}
			row[x].SetState(st)
		}

		s.rowDone(frame, y)
	}
	return nil
}
