// Package viz renders the driving arena in the terminal.
//
// The interactive view is a Bubble Tea program:
//
//   - [Model]: one episode driven from the keyboard through [control.Manual]
//   - [Canvas]: braille pixel canvas the arena is drawn on
//   - [Viewport]: maps arena coordinates to canvas dots
//
// # Key Bindings
//
//	W/S   - Throttle up/down (forward, coast, reverse)
//	A/D   - Steer left/right by 10°
//	Space - Pause/Resume
//	R     - Restart with the same layout
//	N     - Restart with the next seed
//	T     - Cycle color themes
//	Q     - Quit
//
// Terminals do not report key release, so the throttle latches until the
// opposite key is pressed.
package viz
