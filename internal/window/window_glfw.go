//go:build glfw || !linux

package window

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/tinyrange/vrharness/internal/gl"
)

// glfwWindow is used on every platform other than linux, and on linux when
// built with -tags glfw. GLFW must be driven from the main thread.
type glfwWindow struct {
	win     *glfw.Window
	version Version
	pending []Event
}

func New(cfg Config) (Window, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}

	var (
		win     *glfw.Window
		version Version
		last    error
	)
	for _, v := range cfg.Versions {
		glfw.DefaultWindowHints()
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
		glfw.WindowHint(glfw.ContextVersionMajor, v.Major)
		glfw.WindowHint(glfw.ContextVersionMinor, v.Minor)
		glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
		if cfg.CoreProfile && (v.Major > 3 || v.Major == 3 && v.Minor >= 2) {
			glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
			glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
		}
		if cfg.Robust {
			glfw.WindowHint(glfw.ContextRobustness, glfw.LoseContextOnReset)
		}

		w, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
		if err == nil {
			win, version = w, v
			break
		}
		last = fmt.Errorf("%s: %w", v, err)
	}
	if win == nil {
		glfw.Terminate()
		runtime.UnlockOSThread()
		return nil, noCompatibleContext(cfg.Versions, last)
	}

	win.MakeContextCurrent()

	w := &glfwWindow{win: win, version: version}
	win.SetCloseCallback(func(*glfw.Window) {
		w.pending = append(w.pending, Event{Kind: EventClose})
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		w.pending = append(w.pending, Event{
			Kind:    EventMouseButton,
			Button:  glfwButton(button),
			Pressed: action == glfw.Press,
		})
	})
	win.SetScrollCallback(func(*glfw.Window, float64, float64) {
		w.pending = append(w.pending, Event{Kind: EventScroll})
	})
	win.SetKeyCallback(func(_ *glfw.Window, _ glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press {
			w.pending = append(w.pending, Event{Kind: EventKey})
		}
	})
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.pending = append(w.pending, Event{Kind: EventResize, Width: width, Height: height})
	})
	return w, nil
}

func glfwButton(b glfw.MouseButton) Button {
	switch b {
	case glfw.MouseButtonLeft:
		return ButtonLeft
	case glfw.MouseButtonRight:
		return ButtonRight
	case glfw.MouseButtonMiddle:
		return ButtonMiddle
	default:
		return ButtonOther
	}
}

func (w *glfwWindow) GL() (gl.OpenGL, error) {
	return gl.Load(func(name string) uintptr {
		return uintptr(glfw.GetProcAddress(name))
	})
}

func (w *glfwWindow) ContextVersion() Version {
	return w.version
}

func (w *glfwWindow) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
	runtime.UnlockOSThread()
}

func (w *glfwWindow) PollEvents(dst []Event) []Event {
	if w.win == nil {
		return dst
	}
	glfw.PollEvents()
	dst = append(dst, w.pending...)
	w.pending = w.pending[:0]
	return dst
}

func (w *glfwWindow) Swap() {
	if w.win != nil {
		w.win.SwapBuffers()
	}
}

func (w *glfwWindow) BackingSize() (int, int) {
	if w.win == nil {
		return 0, 0
	}
	return w.win.GetFramebufferSize()
}

func (w *glfwWindow) Scale() float32 {
	if w.win == nil {
		return 1
	}
	x, _ := w.win.GetContentScale()
	return x
}
