package window

// Button represents a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
	ButtonOther
)

// EventKind identifies a platform event.
type EventKind int

const (
	// EventClose is a request from the window system to close the window.
	EventClose EventKind = iota
	// EventMouseButton is a mouse button press or release.
	EventMouseButton
	// EventScroll is wheel movement. It is not mouse input.
	EventScroll
	EventKey
	EventResize
)

func (k EventKind) String() string {
	switch k {
	case EventClose:
		return "close"
	case EventMouseButton:
		return "mouse-button"
	case EventScroll:
		return "scroll"
	case EventKey:
		return "key"
	case EventResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Event is a single platform event drained by PollEvents.
type Event struct {
	Kind EventKind

	// EventMouseButton only.
	Button  Button
	Pressed bool

	// EventResize only, in backing pixels.
	Width  int
	Height int
}

// IsMouseInput reports whether the event is a mouse button press or release.
func (e Event) IsMouseInput() bool {
	return e.Kind == EventMouseButton
}
