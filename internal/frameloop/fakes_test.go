package frameloop

import (
	"fmt"

	"github.com/tinyrange/vrharness/internal/eye"
	"github.com/tinyrange/vrharness/internal/graphics"
	"github.com/tinyrange/vrharness/internal/openvr"
	"github.com/tinyrange/vrharness/internal/window"
)

// call is one recorded collaborator call, tagged with the tick it happened in.
type call struct {
	tick int
	name string
}

// harness wires recording fakes into a Loop. Ticks are counted by pose waits,
// so tick N is the Nth WaitGetPoses call.
type harness struct {
	calls []call
	tick  int

	// drains[N] is the batch returned by the drain at the end of tick N.
	drains map[int][]window.Event

	waitErr    map[int]error
	drawErr    map[int]error
	presentErr map[int]error
	submitErr  map[int]error

	onWait func(tick int)

	left  *fakeEye
	right *fakeEye
}

func newHarness() *harness {
	h := &harness{
		drains:     make(map[int][]window.Event),
		waitErr:    make(map[int]error),
		drawErr:    make(map[int]error),
		presentErr: make(map[int]error),
		submitErr:  make(map[int]error),
	}
	h.left = &fakeEye{h: h, name: "left"}
	h.right = &fakeEye{h: h, name: "right"}
	return h
}

func (h *harness) record(format string, args ...any) {
	h.calls = append(h.calls, call{tick: h.tick, name: fmt.Sprintf(format, args...)})
}

func (h *harness) components() Components {
	return Components{
		Poses:      h,
		Display:    h,
		Renderer:   h,
		Compositor: nopCompositor{},
		Left:       h.left,
		Right:      h.right,
	}
}

func (h *harness) loop(opts Options) *Loop {
	l, err := New(h.components(), opts)
	if err != nil {
		panic(err)
	}
	return l
}

// callsIn returns the names recorded during tick.
func (h *harness) callsIn(tick int) []string {
	var out []string
	for _, c := range h.calls {
		if c.tick == tick {
			out = append(out, c.name)
		}
	}
	return out
}

// submittedTicks returns the ticks in which the given eye was submitted.
func (h *harness) submittedTicks(eye string) []int {
	var out []int
	for _, c := range h.calls {
		if c.name == "submit "+eye {
			out = append(out, c.tick)
		}
	}
	return out
}

func (h *harness) WaitGetPoses() error {
	h.tick++
	h.record("wait")
	if h.onWait != nil {
		h.onWait(h.tick)
	}
	return h.waitErr[h.tick]
}

func (h *harness) BeginFrame() Surface {
	h.record("begin")
	return &fakeSurface{h: h}
}

func (h *harness) PollEvents(dst []window.Event) []window.Event {
	h.record("poll")
	return append(dst, h.drains[h.tick]...)
}

func (h *harness) Draw(target graphics.Target) error {
	if err := target.Bind(); err != nil {
		return err
	}
	switch t := target.(type) {
	case *fakeSurface:
		h.record("draw window")
	case *fakeEye:
		h.record("draw %s", t.name)
		if h.drawErr[h.tick] == nil {
			t.rendered = true
		}
	}
	return h.drawErr[h.tick]
}

type fakeSurface struct {
	h *harness
}

func (s *fakeSurface) Bind() error { return nil }

func (s *fakeSurface) Size() (int, int) { return 256, 256 }

func (s *fakeSurface) Present() error {
	s.h.record("present")
	return s.h.presentErr[s.h.tick]
}

type fakeEye struct {
	h        *harness
	name     string
	rendered bool
}

func (e *fakeEye) Bind() error { return nil }

func (e *fakeEye) Size() (int, int) { return 1512, 1680 }

func (e *fakeEye) Submit(_ eye.Compositor, id openvr.Eye) error {
	if id.String() != e.name {
		return fmt.Errorf("%s target submitted as %s", e.name, id)
	}
	if !e.rendered {
		return eye.ErrNotRendered
	}
	e.rendered = false
	e.h.record("submit %s", e.name)
	return e.h.submitErr[e.h.tick]
}

type nopCompositor struct{}

func (nopCompositor) Submit(openvr.Eye, *openvr.Texture, *openvr.TextureBounds, openvr.SubmitFlags) error {
	return nil
}

var (
	closeEvent   = window.Event{Kind: window.EventClose}
	pressEvent   = window.Event{Kind: window.EventMouseButton, Button: window.ButtonLeft, Pressed: true}
	releaseEvent = window.Event{Kind: window.EventMouseButton, Button: window.ButtonLeft}
	keyEvent     = window.Event{Kind: window.EventKey}
	scrollEvent  = window.Event{Kind: window.EventScroll}
)
