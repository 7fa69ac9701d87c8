package event

// Key is a normalized key name such as "q", "esc", "tab", "shift+tab",
// "up" or "down".
type Key string

func (k Key) String() string { return string(k) }

// Event is the interface for every event of the merged stream.
type Event interface {
	isEvent()
}

// InputEvent carries one operator keystroke.
type InputEvent struct {
	Key Key
}

func (InputEvent) isEvent() {}

// TickEvent is the periodic, wall-clock driven event.
type TickEvent struct{}

func (TickEvent) isEvent() {}
