package frameloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tinyrange/vrharness/internal/eye"
	"github.com/tinyrange/vrharness/internal/openvr"
	"github.com/tinyrange/vrharness/internal/window"
)

// Options selects the loop policies.
type Options struct {
	Submission SubmissionPolicy
	Failure    FailurePolicy

	// MaxConsecutiveFailures is the number of failing ticks in a row a
	// Tolerant loop accepts before giving up.
	MaxConsecutiveFailures int
}

// DefaultOptions returns the latching, fail-fast policies.
func DefaultOptions() Options {
	return Options{
		Submission:             Latch,
		Failure:                Fatal,
		MaxConsecutiveFailures: 5,
	}
}

func (o Options) validate() error {
	switch o.Submission {
	case Latch, Toggle:
	default:
		return fmt.Errorf("frameloop: unknown submission policy %v", o.Submission)
	}
	switch o.Failure {
	case Fatal:
	case Tolerant:
		if o.MaxConsecutiveFailures < 1 {
			return fmt.Errorf("frameloop: tolerant policy needs MaxConsecutiveFailures >= 1, got %d", o.MaxConsecutiveFailures)
		}
	default:
		return fmt.Errorf("frameloop: unknown failure policy %v", o.Failure)
	}
	return nil
}

// Components are the collaborators a Loop drives. The loop does not own
// any of them.
type Components struct {
	Poses      PoseSource
	Display    Display
	Renderer   Renderer
	Compositor eye.Compositor
	Left       Eye
	Right      Eye
}

// Loop is the frame-loop state machine. It is driven from a single goroutine,
// the one that owns the GL context.
type Loop struct {
	c    Components
	opts Options

	state       FrameState
	frame       uint64
	consecutive int
	stats       Stats

	events []window.Event
}

func New(c Components, opts Options) (*Loop, error) {
	if c.Poses == nil || c.Display == nil || c.Renderer == nil || c.Compositor == nil || c.Left == nil || c.Right == nil {
		return nil, errors.New("frameloop: missing component")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Loop{c: c, opts: opts}, nil
}

// State returns the current frame state.
func (l *Loop) State() FrameState {
	return l.state
}

func (l *Loop) Stats() Stats {
	return l.stats
}

// Tick runs one iteration:
//
//  1. wait for poses (blocking, always fatal on failure)
//  2. draw the test pattern into the window surface and present it
//  3. if submission is enabled, draw and submit the left eye, then the right
//  4. drain all pending events and update the frame state
//
// A returned error means the loop has stopped. Under the Tolerant policy a
// failure in steps 2 or 3 skips the rest of those steps, is logged, and Tick
// still drains events and returns nil.
func (l *Loop) Tick() error {
	if l.state.Control == Exit {
		return ErrExited
	}
	l.frame++
	l.stats.Ticks++
	frame := l.frame

	if err := l.c.Poses.WaitGetPoses(); err != nil {
		return l.stop(&TickError{Frame: frame, Phase: PhasePoses, Err: fmt.Errorf("%w: %w", ErrPoseWait, err)})
	}

	if err := l.renderAndSubmit(frame); err != nil {
		if ferr := l.fail(err); ferr != nil {
			return l.stop(ferr)
		}
	} else {
		l.consecutive = 0
	}

	l.drainEvents()
	return nil
}

func (l *Loop) renderAndSubmit(frame uint64) error {
	surface := l.c.Display.BeginFrame()
	if err := l.c.Renderer.Draw(surface); err != nil {
		return &TickError{Frame: frame, Phase: PhaseDraw, Err: err}
	}
	if err := surface.Present(); err != nil {
		return &TickError{Frame: frame, Phase: PhasePresent, Err: err}
	}

	if !l.state.SubmissionEnabled {
		return nil
	}
	eyes := [...]struct {
		id     openvr.Eye
		target Eye
	}{
		{openvr.EyeLeft, l.c.Left},
		{openvr.EyeRight, l.c.Right},
	}
	for _, e := range eyes {
		if err := l.c.Renderer.Draw(e.target); err != nil {
			return &TickError{Frame: frame, Phase: PhaseEyeDraw, Eye: e.id, Err: err}
		}
		if err := e.target.Submit(l.c.Compositor, e.id); err != nil {
			return &TickError{Frame: frame, Phase: PhaseSubmit, Eye: e.id, Err: err}
		}
	}
	l.stats.FramesSubmitted++
	return nil
}

// fail applies the failure policy to a failed tick. It returns nil when the
// failure is tolerated.
func (l *Loop) fail(err error) error {
	if l.opts.Failure == Fatal {
		return err
	}
	l.consecutive++
	if l.consecutive >= l.opts.MaxConsecutiveFailures {
		return fmt.Errorf("%w (%d): %w", ErrTooManyFailures, l.consecutive, err)
	}
	l.stats.SkippedTicks++
	logger().Warn("frameloop: skipping frame",
		"frame", l.frame,
		"consecutive", l.consecutive,
		"limit", l.opts.MaxConsecutiveFailures,
		"err", err)
	return nil
}

func (l *Loop) stop(err error) error {
	l.state.Control = Exit
	logger().Error("frameloop: stopping", "frame", l.frame, "err", err)
	return err
}

// drainEvents dispatches every pending event. A close request wins over
// anything else in the same batch.
func (l *Loop) drainEvents() {
	l.events = l.c.Display.PollEvents(l.events[:0])
	for _, ev := range l.events {
		switch {
		case ev.Kind == window.EventClose:
			l.state.Control = Exit
		case ev.IsMouseInput():
			l.mouseInput(ev)
		}
	}
}

func (l *Loop) mouseInput(ev window.Event) {
	was := l.state.SubmissionEnabled
	switch l.opts.Submission {
	case Latch:
		l.state.SubmissionEnabled = true
	case Toggle:
		if ev.Pressed {
			l.state.SubmissionEnabled = !l.state.SubmissionEnabled
		}
	}
	if was != l.state.SubmissionEnabled {
		logger().Info("frameloop: submission changed",
			"enabled", l.state.SubmissionEnabled,
			"frame", l.frame)
	}
}

// Run ticks until a close request, a fatal error or ctx is done. ctx is only
// checked between ticks; a tick in progress always runs to completion.
// Cancellation is a normal exit and returns nil.
func (l *Loop) Run(ctx context.Context) error {
	for l.state.Control == Continue {
		if ctx.Err() != nil {
			l.state.Control = Exit
			logger().Info("frameloop: cancelled", "frame", l.frame)
			break
		}
		if err := l.Tick(); err != nil {
			return err
		}
	}
	logger().Info("frameloop: exited",
		slog.Uint64("ticks", l.stats.Ticks),
		slog.Uint64("submitted", l.stats.FramesSubmitted),
		slog.Uint64("skipped", l.stats.SkippedTicks))
	return nil
}
