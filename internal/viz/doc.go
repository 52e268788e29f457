// Package viz renders pulse experiments in the terminal.
//
// [LiveModel] is a Bubble Tea program that integrates a configured
// experiment a few steps per frame and charts the level populations with
// asciigraph. The render helpers ([RenderRows], [RenderMetrics],
// [RenderPopulations], [PlotPopulations]) are shared with the one-shot CLI
// reports.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from the initial state
//	Enter - Integrate to the end of the run
//	+/-   - Change steps per frame
//	T     - Cycle colour themes
//	?     - Show help
package viz
