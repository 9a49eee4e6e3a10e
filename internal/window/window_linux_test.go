//go:build linux && !glfw

package window

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestContextAttribs(t *testing.T) {
	got := contextAttribs(Version{3, 2}, true, true)
	assert.Equal(t, []int32{
		glxContextMajorVersion, 3,
		glxContextMinorVersion, 2,
		glxContextProfileMask, glxContextCoreProfileBit,
		glxContextFlags, glxContextRobustAccessBit,
		glxContextResetNotification, glxLoseContextOnReset,
		glxNone,
	}, got)

	got = contextAttribs(Version{3, 1}, false, false)
	assert.Equal(t, []int32{
		glxContextMajorVersion, 3,
		glxContextMinorVersion, 1,
		glxContextProfileMask, glxContextCompatProfileBit,
		glxNone,
	}, got)
}

func rawEvent[T any](ev T) *[xEventSize]byte {
	var buf [xEventSize]byte
	*(*T)(unsafe.Pointer(&buf[0])) = ev
	return &buf
}

func TestTranslateEvent(t *testing.T) {
	const wmDelete = 0x1234

	tests := []struct {
		name string
		raw  *[xEventSize]byte
		want Event
		ok   bool
	}{
		{
			name: "wm delete",
			raw:  rawEvent(xclientMessage{Type: clientMessage, Format: 32, Data: [5]uint64{wmDelete}}),
			want: Event{Kind: EventClose},
			ok:   true,
		},
		{
			name: "other client message",
			raw:  rawEvent(xclientMessage{Type: clientMessage, Format: 32, Data: [5]uint64{7}}),
			ok:   false,
		},
		{
			name: "destroy",
			raw:  rawEvent(xclientMessage{Type: destroyNotify}),
			want: Event{Kind: EventClose},
			ok:   true,
		},
		{
			name: "left press",
			raw:  rawEvent(xbuttonEvent{Type: buttonPress, Button: 1}),
			want: Event{Kind: EventMouseButton, Button: ButtonLeft, Pressed: true},
			ok:   true,
		},
		{
			name: "right release",
			raw:  rawEvent(xbuttonEvent{Type: buttonRelease, Button: 3}),
			want: Event{Kind: EventMouseButton, Button: ButtonRight},
			ok:   true,
		},
		{
			name: "wheel",
			raw:  rawEvent(xbuttonEvent{Type: buttonPress, Button: 4}),
			want: Event{Kind: EventScroll},
			ok:   true,
		},
		{
			name: "configure",
			raw:  rawEvent(xconfigureEvent{Type: configureNotify, Width: 512, Height: 384}),
			want: Event{Kind: EventResize, Width: 512, Height: 384},
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translateEvent(tt.raw, wmDelete)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestButtonEventLayout(t *testing.T) {
	// Offsets of XButtonEvent on LP64.
	var be xbuttonEvent
	assert.Equal(t, uintptr(56), unsafe.Offsetof(be.Time))
	assert.Equal(t, uintptr(84), unsafe.Offsetof(be.Button))
}

func TestParseXftDPI(t *testing.T) {
	assert.Equal(t, float32(96), parseXftDPI("Xft.antialias:\t1\nXft.dpi:\t96\n"))
	assert.Equal(t, float32(144), parseXftDPI("Xft.dpi: 144"))
	assert.Equal(t, float32(0), parseXftDPI("Xft.hinting:\t1\n"))
	assert.Equal(t, float32(0), parseXftDPI("Xft.dpi:\tabc\n"))
}

func TestRoundScale(t *testing.T) {
	assert.Equal(t, float32(1.0), roundScale(1.04))
	assert.Equal(t, float32(2.0), roundScale(1.95))
	assert.Equal(t, float32(0.5), roundScale(0.2))
	assert.Equal(t, float32(4.0), roundScale(9))
	assert.InDelta(t, 2.25, roundScale(2.25), 1e-6)
}
