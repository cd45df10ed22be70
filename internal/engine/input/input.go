// Package input tracks per-frame input events and held-key state.
package input

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseWheel
	EventMouseDown
	EventMouseUp
)

// Key is a logical key code, independent of the windowing backend.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyW
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyC
	KeyF
	KeyR
	KeyB
	KeyF12
)

// Mouse buttons, numbered as SDL reports them.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Repeat bool // key auto-repeat
	Width  int
	Height int
	MouseX int
	MouseY int
	XRel   float32
	YRel   float32
	Wheel  float32
	Button uint8
}

// Input collects one frame of events and remembers which keys are down.
type Input struct {
	events []Event
	held   map[Key]bool

	dx, dy float32
	wheel  float32
	quit   bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[Key]bool),
	}
}

// Begin starts a new frame, dropping the previous frame's events. Held keys
// persist.
func (i *Input) Begin() {
	i.events = i.events[:0]
	i.dx, i.dy, i.wheel = 0, 0, 0
	i.quit = false
}

// Push records an event for the current frame.
func (i *Input) Push(e Event) {
	switch e.Type {
	case EventQuit:
		i.quit = true
	case EventKeyDown:
		i.held[e.Key] = true
	case EventKeyUp:
		delete(i.held, e.Key)
	case EventMouseMove:
		i.dx += e.XRel
		i.dy += e.YRel
	case EventMouseWheel:
		i.wheel += e.Wheel
	}
	i.events = append(i.events, e)
}

// Events returns the events of the current frame.
func (i *Input) Events() []Event {
	return i.events
}

// QuitRequested reports whether a quit event arrived this frame.
func (i *Input) QuitRequested() bool {
	return i.quit
}

// IsKeyPressed reports a fresh (non-repeat) key press this frame.
func (i *Input) IsKeyPressed(k Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == k && !e.Repeat {
			return true
		}
	}
	return false
}

// IsButtonPressed reports a mouse button press this frame.
func (i *Input) IsButtonPressed(b uint8) bool {
	for _, e := range i.events {
		if e.Type == EventMouseDown && e.Button == b {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether k is currently down.
func (i *Input) IsKeyHeld(k Key) bool {
	return i.held[k]
}

// MouseDelta returns the summed relative motion of this frame.
func (i *Input) MouseDelta() (dx, dy float32) {
	return i.dx, i.dy
}

// Wheel returns the summed vertical scroll of this frame.
func (i *Input) Wheel() float32 {
	return i.wheel
}

// Resized returns the last window size reported this frame.
func (i *Input) Resized() (width, height int, ok bool) {
	for j := len(i.events) - 1; j >= 0; j-- {
		if e := i.events[j]; e.Type == EventWindowResize {
			return e.Width, e.Height, true
		}
	}
	return 0, 0, false
}

// ReleaseAll clears held keys, e.g. when the window loses focus.
func (i *Input) ReleaseAll() {
	clear(i.held)
}
