// Package windowtest provides a headless window.Window backed by gltest.
package windowtest

import (
	"github.com/tinyrange/vrharness/internal/gl"
	"github.com/tinyrange/vrharness/internal/gl/gltest"
	"github.com/tinyrange/vrharness/internal/window"
)

// Window is a scripted window: each PollEvents call returns the next batch
// from Batches.
type Window struct {
	GLImpl  *gltest.GL
	GLErr   error
	Version window.Version
	Width   int
	Height  int

	Batches [][]window.Event

	Swaps  int
	Closed bool
}

var _ window.Window = (*Window)(nil)

func New(width, height int) *Window {
	return &Window{
		GLImpl:  gltest.New(),
		Version: window.Version{Major: 3, Minor: 2},
		Width:   width,
		Height:  height,
	}
}

func (w *Window) GL() (gl.OpenGL, error) {
	if w.GLErr != nil {
		return nil, w.GLErr
	}
	return w.GLImpl, nil
}

func (w *Window) ContextVersion() window.Version { return w.Version }

func (w *Window) Close() { w.Closed = true }

func (w *Window) PollEvents(dst []window.Event) []window.Event {
	if len(w.Batches) == 0 {
		return dst
	}
	dst = append(dst, w.Batches[0]...)
	w.Batches = w.Batches[1:]
	return dst
}

func (w *Window) Swap() { w.Swaps++ }

func (w *Window) BackingSize() (int, int) { return w.Width, w.Height }

func (w *Window) Scale() float32 { return 1 }
