// Package dashboard implements the application loop.
//
// # State Machine
//
// App holds the task registry, the active tab and the quit flag. Apply is the
// whole transition function:
//
//	quit key        → ShouldQuit
//	tab / shift+tab → Tab ± 1 (mod 3)
//	down / up       → registry SelectNext / SelectPrevious
//	TickEvent       → registry AdvanceTick
//
// # Loop
//
// Loop is the single consumer of an EventStream. It is the only mutator of
// the registry; renderers receive State copies.
package dashboard
