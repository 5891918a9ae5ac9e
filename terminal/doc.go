// Package terminal provides the drawing surface and input stream for the bubble view.
//
// A tcell screen does the tty work: alternate screen, true color with palette downgrade,
// mouse reporting and resize notification. This package flattens tcell events into a small
// Event struct and writes row-major Cell buffers to the screen, so renderers never touch tcell.
package terminal
