// Package frameloop drives the per-tick protocol: wait for poses, render and
// present the window, submit both eyes when enabled, then drain events.
package frameloop

import (
	"errors"
	"fmt"

	"github.com/tinyrange/vrharness/internal/eye"
	"github.com/tinyrange/vrharness/internal/graphics"
	"github.com/tinyrange/vrharness/internal/openvr"
	"github.com/tinyrange/vrharness/internal/window"
)

var (
	// ErrPoseWait wraps a failed pose wait. It is always fatal.
	ErrPoseWait = errors.New("frameloop: wait for poses failed")

	// ErrTooManyFailures is returned when a tolerant loop reaches its limit
	// of consecutive failed ticks.
	ErrTooManyFailures = errors.New("frameloop: too many consecutive failures")

	// ErrExited is returned by Tick once the loop has stopped.
	ErrExited = errors.New("frameloop: loop has exited")
)

// PoseSource blocks until the device is ready for the next frame.
type PoseSource interface {
	WaitGetPoses() error
}

// Surface is the window surface acquired for one tick.
type Surface interface {
	graphics.Target
	Present() error
}

// Display provides the window surface and its event queue.
type Display interface {
	BeginFrame() Surface
	PollEvents(dst []window.Event) []window.Event
}

type Renderer interface {
	Draw(target graphics.Target) error
}

// Eye is a per-eye target that can be drawn into and submitted.
type Eye interface {
	graphics.Target
	Submit(c eye.Compositor, id openvr.Eye) error
}

// Control is the loop's control-flow state.
type Control int

const (
	Continue Control = iota
	Exit
)

func (c Control) String() string {
	if c == Exit {
		return "exit"
	}
	return "continue"
}

// FrameState is the state mutated by event dispatch.
type FrameState struct {
	SubmissionEnabled bool
	Control           Control
}

// SubmissionPolicy decides how mouse input changes SubmissionEnabled.
type SubmissionPolicy int

const (
	// Latch enables submission on the first mouse button event. Nothing
	// disables it again.
	Latch SubmissionPolicy = iota
	// Toggle flips submission on every button press; releases are ignored.
	Toggle
)

func (p SubmissionPolicy) String() string {
	switch p {
	case Latch:
		return "latch"
	case Toggle:
		return "toggle"
	default:
		return fmt.Sprintf("SubmissionPolicy(%d)", int(p))
	}
}

// FailurePolicy decides what a failed draw, present or submit does.
type FailurePolicy int

const (
	// Fatal stops the loop on the first failure.
	Fatal FailurePolicy = iota
	// Tolerant skips the rest of the failing tick and stops only after
	// MaxConsecutiveFailures failing ticks in a row.
	Tolerant
)

func (p FailurePolicy) String() string {
	switch p {
	case Fatal:
		return "fatal"
	case Tolerant:
		return "tolerant"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// Phase names the step of a tick that failed.
type Phase string

const (
	PhasePoses   Phase = "wait-poses"
	PhaseDraw    Phase = "draw"
	PhasePresent Phase = "present"
	PhaseEyeDraw Phase = "eye-draw"
	PhaseSubmit  Phase = "submit"
)

// TickError is a failure inside one tick.
type TickError struct {
	Frame uint64
	Phase Phase
	Eye   openvr.Eye
	Err   error
}

func (e *TickError) Error() string {
	if e.Phase == PhaseEyeDraw || e.Phase == PhaseSubmit {
		return fmt.Sprintf("frame %d: %s %s eye: %v", e.Frame, e.Phase, e.Eye, e.Err)
	}
	return fmt.Sprintf("frame %d: %s: %v", e.Frame, e.Phase, e.Err)
}

func (e *TickError) Unwrap() error { return e.Err }

// Stats counts what the loop has done so far.
type Stats struct {
	Ticks           uint64
	FramesSubmitted uint64

	// SkippedTicks counts failed ticks tolerated by the Tolerant policy.
	SkippedTicks uint64
}
