// Package viz reports render progress in the terminal.
//
//   - [Reporter]: a sim.Observer printing styled progress lines
//   - [Model]: a Bubble Tea view of a render running in the background
//   - [PlotMetric]: an asciigraph chart of one metric across frames
//
// Nothing here draws the field itself; frames go to the image sink.
//
// # Key Bindings (live view)
//
//	Q, Ctrl+C - Cancel the render
//	?         - Toggle help
package viz
