// Package viz renders keyframe tracks in the terminal.
//
// [Player] is a Bubble Tea model that plays a registry back in real time and
// draws every track's values as bars, a progress history chart, a recent
// event log and a stage where tracks carrying x or y values move around.
// [Canvas] is the braille dot canvas the stage and ease curves are drawn on.
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Reverse direction
//	[ ]   - Scrub backward/forward
//	+ -   - Double/halve speed
//	0     - Rewind every track
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// Pressing G starts capturing stage frames; pressing it again writes them to
// pacer.gif in the current directory.
package viz
