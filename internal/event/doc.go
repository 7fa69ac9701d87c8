// Package event implements the event source of the dashboard.
//
// A Source owns one producer goroutine that waits for keys on an Input with a
// timeout bounded by the next tick deadline, and emits InputEvent and
// TickEvent values on a FIFO channel:
//
//	timeout = max(0, tickRate - since(lastTick))
//	Poll(timeout)        → InputEvent (deadline unchanged)
//	since >= tickRate    → TickEvent, lastTick = now
//
// Shutdown is cooperative: the consumer calls Close and the producer exits on
// its next emission. An input failure stops the producer, closes Events and
// is reported by Err.
package event
