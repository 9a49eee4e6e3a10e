package window

import (
	"errors"
	"fmt"

	"github.com/tinyrange/vrharness/internal/gl"
)

// ErrNoCompatibleContext is returned by New when none of the requested
// OpenGL versions could be created.
var ErrNoCompatibleContext = errors.New("window: no compatible OpenGL context")

// Version is an OpenGL context version.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Config describes the window and the GL context requested for it.
type Config struct {
	Title string

	// Logical size; the backing size is scaled by the display scale factor.
	Width  int
	Height int

	// Versions are tried in order until a context can be created.
	Versions []Version

	// CoreProfile requests a core (non-compatibility) profile.
	CoreProfile bool

	// Robust requests robust buffer access with the lose-context-on-reset
	// notification strategy.
	Robust bool
}

type Window interface {
	// GL loads the GL entry points for this window's context.
	GL() (gl.OpenGL, error)

	// ContextVersion returns the version the context was created with.
	ContextVersion() Version

	Close()

	// PollEvents appends all pending platform events to dst in arrival order
	// without blocking.
	PollEvents(dst []Event) []Event

	Swap()
	BackingSize() (width, height int)
	Scale() float32
}

func noCompatibleContext(tried []Version, last error) error {
	if last != nil {
		return fmt.Errorf("%w (tried %v): %v", ErrNoCompatibleContext, tried, last)
	}
	return fmt.Errorf("%w (tried %v)", ErrNoCompatibleContext, tried)
}
