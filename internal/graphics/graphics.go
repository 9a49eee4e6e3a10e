package graphics

import (
	"errors"
	"fmt"

	"github.com/tinyrange/vrharness/internal/window"
)

var (
	// ErrContextClosed is returned by any operation on a resource whose
	// owning Context has been closed.
	ErrContextClosed = errors.New("graphics: context closed")

	// ErrContextLost is returned by Present when the driver reports a graphics
	// reset on the robust context, and by every later operation until the
	// Context is closed.
	ErrContextLost = errors.New("graphics: context lost")

	// ErrReleased is returned by operations on a resource after Release.
	ErrReleased = errors.New("graphics: resource released")
)

// GLError is a pending glGetError code.
type GLError uint32

func (e GLError) Error() string {
	switch e {
	case 0x0500:
		return "graphics: GL_INVALID_ENUM"
	case 0x0501:
		return "graphics: GL_INVALID_VALUE"
	case 0x0502:
		return "graphics: GL_INVALID_OPERATION"
	case 0x0505:
		return "graphics: GL_OUT_OF_MEMORY"
	case 0x0506:
		return "graphics: GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return fmt.Sprintf("graphics: GL error 0x%04x", uint32(e))
	}
}

// AllocError reports a GPU resource that could not be created.
type AllocError struct {
	Resource string
	Width    int
	Height   int
	Err      error
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("graphics: allocate %s %dx%d: %v", e.Resource, e.Width, e.Height, e.Err)
}

func (e *AllocError) Unwrap() error { return e.Err }

// Info holds the capability strings of the current context. They are
// reported for diagnostics only.
type Info struct {
	Vendor   string
	Renderer string
	Version  string

	// Context is the version that was negotiated with the window system.
	Context window.Version
}

// Target is a surface the renderer can draw into: the window surface or an
// offscreen RenderTarget.
type Target interface {
	// Bind makes the target the current framebuffer and sets the viewport to
	// cover it.
	Bind() error

	Size() (width, height int)
}
