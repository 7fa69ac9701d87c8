// Package tui draws dashboard states in the terminal and turns keystrokes
// into event keys.
package tui
