// Package sim drives the attractor field simulation.
//
// The package owns one mass per pixel and advances all of them frame by
// frame:
//
//   - [Config]: grid, timing and model settings with documented defaults
//   - [MassField]: the row-major array of mass states
//   - [Simulator]: rebuilds the rotating node ring each frame, steps every
//     mass through a fixed number of integrator sub-steps and hands the
//     rasterized frame to a [FrameSink]
//   - [Rasterize]: position angle to packed pixel color
//
// # Example
//
//	s, err := sim.New(sim.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	s.AddObserver(reporter)
//	result, err := s.Run(ctx, sink)
//
// # Concurrency
//
// Masses never read each other's state, so each frame is stepped in
// parallel over contiguous row ranges. Rasterization starts only after every
// row has finished. Observer callbacks are serialized by the Simulator. A
// Simulator itself must not be shared between goroutines.
package sim
