package frameloop

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyrange/vrharness/internal/graphics"
	"github.com/tinyrange/vrharness/internal/window"
	"github.com/tinyrange/vrharness/internal/window/windowtest"
)

func TestNewValidates(t *testing.T) {
	h := newHarness()

	c := h.components()
	c.Right = nil
	_, err := New(c, DefaultOptions())
	assert.Error(t, err)

	opts := DefaultOptions()
	opts.Failure = Tolerant
	opts.MaxConsecutiveFailures = 0
	_, err = New(h.components(), opts)
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.Submission = SubmissionPolicy(7)
	_, err = New(h.components(), opts)
	assert.Error(t, err)
}

func TestInitialState(t *testing.T) {
	l := newHarness().loop(DefaultOptions())
	assert.Equal(t, FrameState{SubmissionEnabled: false, Control: Continue}, l.State())
}

func TestWaitPrecedesDrawEveryTick(t *testing.T) {
	h := newHarness()
	h.drains[1] = []window.Event{pressEvent}
	h.drains[4] = []window.Event{closeEvent}

	require.NoError(t, h.loop(DefaultOptions()).Run(context.Background()))

	for tick := 1; tick <= 4; tick++ {
		calls := h.callsIn(tick)
		require.NotEmpty(t, calls)
		assert.Equal(t, "wait", calls[0], "tick %d starts with the pose wait", tick)
		n := 0
		for _, c := range calls {
			if c == "wait" {
				n++
			}
		}
		assert.Equal(t, 1, n, "tick %d waits exactly once", tick)
	}
}

func TestTickOrder(t *testing.T) {
	h := newHarness()
	h.drains[1] = []window.Event{pressEvent}
	l := h.loop(DefaultOptions())

	require.NoError(t, l.Tick())
	assert.Equal(t, []string{"wait", "begin", "draw window", "present", "poll"}, h.callsIn(1))

	require.NoError(t, l.Tick())
	assert.Equal(t, []string{
		"wait", "begin", "draw window", "present",
		"draw left", "submit left",
		"draw right", "submit right",
		"poll",
	}, h.callsIn(2))
}

func TestCloseOnThirdTick(t *testing.T) {
	h := newHarness()
	h.drains[3] = []window.Event{closeEvent}
	l := h.loop(DefaultOptions())

	require.NoError(t, l.Run(context.Background()))

	assert.Equal(t, uint64(3), l.Stats().Ticks)
	assert.Equal(t, 3, h.tick)
	for tick := 1; tick <= 3; tick++ {
		assert.Contains(t, h.callsIn(tick), "draw window")
		assert.Contains(t, h.callsIn(tick), "present")
	}
	assert.Empty(t, h.submittedTicks("left"))
	assert.Empty(t, h.submittedTicks("right"))
	assert.Equal(t, uint64(0), l.Stats().FramesSubmitted)
	assert.Equal(t, Exit, l.State().Control)

	assert.ErrorIs(t, l.Tick(), ErrExited)
	assert.Equal(t, 3, h.tick, "no tick runs after exit")
}

func TestPointerBeforeSecondTickThenCloseOnFifth(t *testing.T) {
	h := newHarness()
	h.drains[1] = []window.Event{pressEvent}
	h.drains[5] = []window.Event{closeEvent}
	l := h.loop(DefaultOptions())

	require.NoError(t, l.Run(context.Background()))

	assert.Equal(t, []int{2, 3, 4, 5}, h.submittedTicks("left"))
	assert.Equal(t, []int{2, 3, 4, 5}, h.submittedTicks("right"))
	assert.Equal(t, uint64(4), l.Stats().FramesSubmitted)

	for tick := 2; tick <= 5; tick++ {
		calls := h.callsIn(tick)
		left := slices.Index(calls, "submit left")
		right := slices.Index(calls, "submit right")
		assert.Less(t, left, right, "tick %d submits left before right", tick)
	}
}

func TestSubmissionLatchProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	kinds := []window.Event{pressEvent, releaseEvent, keyEvent, scrollEvent}

	for run := range 200 {
		h := newHarness()
		ticks := 2 + rng.IntN(10)
		firstMouse := 0
		for tick := 1; tick < ticks; tick++ {
			for range rng.IntN(3) {
				ev := kinds[rng.IntN(len(kinds))]
				h.drains[tick] = append(h.drains[tick], ev)
				if ev.IsMouseInput() && firstMouse == 0 {
					firstMouse = tick
				}
			}
		}
		h.drains[ticks] = append(h.drains[ticks], closeEvent)

		l := h.loop(DefaultOptions())
		require.NoError(t, l.Run(context.Background()))
		require.Equal(t, ticks, h.tick)

		var want []int
		if firstMouse != 0 {
			for tick := firstMouse + 1; tick <= ticks; tick++ {
				want = append(want, tick)
			}
		}
		assert.Equal(t, want, h.submittedTicks("left"), "run %d: drains %v", run, h.drains)
		assert.Equal(t, want, h.submittedTicks("right"), "run %d", run)
		assert.Equal(t, firstMouse != 0, l.State().SubmissionEnabled, "run %d", run)
	}
}

func TestCloseAlwaysExits(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *harness)
		opts  Options
	}{
		{
			name:  "submission disabled",
			setup: func(h *harness) { h.drains[2] = []window.Event{closeEvent} },
			opts:  DefaultOptions(),
		},
		{
			name: "submission enabled",
			setup: func(h *harness) {
				h.drains[1] = []window.Event{pressEvent}
				h.drains[2] = []window.Event{closeEvent}
			},
			opts: DefaultOptions(),
		},
		{
			name:  "mouse input in the same drain",
			setup: func(h *harness) { h.drains[2] = []window.Event{pressEvent, closeEvent, releaseEvent} },
			opts:  DefaultOptions(),
		},
		{
			name: "submit failed this tick",
			setup: func(h *harness) {
				h.drains[1] = []window.Event{pressEvent}
				h.drains[2] = []window.Event{closeEvent}
				h.submitErr[2] = errors.New("invalid texture")
			},
			opts: Options{Failure: Tolerant, MaxConsecutiveFailures: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			tt.setup(h)
			l := h.loop(tt.opts)

			require.NoError(t, l.Run(context.Background()))
			assert.Equal(t, 2, h.tick)
			assert.Equal(t, Exit, l.State().Control)
		})
	}
}

func TestPoseWaitFailureIsFatal(t *testing.T) {
	for _, opts := range []Options{DefaultOptions(), {Failure: Tolerant, MaxConsecutiveFailures: 5}} {
		t.Run(opts.Failure.String(), func(t *testing.T) {
			h := newHarness()
			h.waitErr[2] = errors.New("device disconnected")
			l := h.loop(opts)

			err := l.Run(context.Background())
			require.ErrorIs(t, err, ErrPoseWait)

			var tickErr *TickError
			require.ErrorAs(t, err, &tickErr)
			assert.Equal(t, uint64(2), tickErr.Frame)
			assert.Equal(t, PhasePoses, tickErr.Phase)
			assert.Equal(t, []string{"wait"}, h.callsIn(2), "nothing is drawn after a failed wait")
			assert.ErrorIs(t, l.Tick(), ErrExited)
		})
	}
}

func TestFatalPresentFailure(t *testing.T) {
	h := newHarness()
	h.drains[1] = []window.Event{pressEvent}
	h.presentErr[3] = graphics.ErrContextLost
	l := h.loop(DefaultOptions())

	err := l.Run(context.Background())
	require.ErrorIs(t, err, graphics.ErrContextLost)

	var tickErr *TickError
	require.ErrorAs(t, err, &tickErr)
	assert.Equal(t, uint64(3), tickErr.Frame)
	assert.Equal(t, PhasePresent, tickErr.Phase)
	assert.Equal(t, []int{2}, h.submittedTicks("left"))
	assert.NotContains(t, h.callsIn(3), "poll")
}

func TestFatalSubmitFailure(t *testing.T) {
	h := newHarness()
	h.drains[1] = []window.Event{pressEvent}
	h.submitErr[2] = errors.New("texture on wrong device")
	l := h.loop(DefaultOptions())

	err := l.Run(context.Background())
	var tickErr *TickError
	require.ErrorAs(t, err, &tickErr)
	assert.Equal(t, PhaseSubmit, tickErr.Phase)
	assert.EqualError(t, err, "frame 2: submit left eye: texture on wrong device")
	assert.NotContains(t, h.callsIn(2), "submit right", "right is not attempted after left fails")
}

func TestTolerantSkipsFailedTick(t *testing.T) {
	h := newHarness()
	h.drains[1] = []window.Event{pressEvent}
	h.presentErr[2] = errors.New("swap failed")
	h.drains[4] = []window.Event{closeEvent}
	l := h.loop(Options{Failure: Tolerant, MaxConsecutiveFailures: 5})

	require.NoError(t, l.Run(context.Background()))

	assert.Equal(t, []int{3, 4}, h.submittedTicks("left"))
	assert.Contains(t, h.callsIn(2), "poll", "events are still drained on a skipped tick")
	assert.Equal(t, Stats{Ticks: 4, FramesSubmitted: 2, SkippedTicks: 1}, l.Stats())
}

func TestTolerantEscalates(t *testing.T) {
	h := newHarness()
	h.drains[1] = []window.Event{pressEvent}
	for tick := 2; tick <= 10; tick++ {
		h.submitErr[tick] = errors.New("request failed")
	}
	l := h.loop(Options{Failure: Tolerant, MaxConsecutiveFailures: 3})

	err := l.Run(context.Background())
	require.ErrorIs(t, err, ErrTooManyFailures)
	assert.Equal(t, 4, h.tick, "ticks 2, 3 and 4 fail; the third in a row is fatal")
	assert.Equal(t, uint64(2), l.Stats().SkippedTicks)
}

func TestTolerantCounterResets(t *testing.T) {
	h := newHarness()
	h.drains[1] = []window.Event{pressEvent}
	for _, tick := range []int{2, 3, 5, 6, 8, 9} {
		h.submitErr[tick] = errors.New("request failed")
	}
	h.drains[10] = []window.Event{closeEvent}
	l := h.loop(Options{Failure: Tolerant, MaxConsecutiveFailures: 3})

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, uint64(6), l.Stats().SkippedTicks)
	assert.Equal(t, 10, h.tick)
}

func TestTogglePolicy(t *testing.T) {
	h := newHarness()
	h.drains[1] = []window.Event{pressEvent, releaseEvent}
	h.drains[3] = []window.Event{releaseEvent}
	h.drains[4] = []window.Event{pressEvent}
	h.drains[6] = []window.Event{closeEvent}
	l := h.loop(Options{Submission: Toggle, Failure: Fatal})

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, []int{2, 3, 4}, h.submittedTicks("left"))
	assert.False(t, l.State().SubmissionEnabled)
}

func TestLatchIgnoresNonMouseInput(t *testing.T) {
	h := newHarness()
	h.drains[1] = []window.Event{keyEvent, scrollEvent, {Kind: window.EventResize, Width: 10, Height: 10}}
	h.drains[2] = []window.Event{closeEvent}
	l := h.loop(DefaultOptions())

	require.NoError(t, l.Run(context.Background()))
	assert.False(t, l.State().SubmissionEnabled)
	assert.Empty(t, h.submittedTicks("left"))
}

func TestRunCancelledBeforeStart(t *testing.T) {
	h := newHarness()
	l := h.loop(DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, l.Run(ctx))
	assert.Equal(t, 0, h.tick)
	assert.Equal(t, Exit, l.State().Control)
}

func TestRunCancelCompletesTick(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	h.onWait = func(tick int) {
		if tick == 2 {
			cancel()
		}
	}
	l := h.loop(DefaultOptions())

	require.NoError(t, l.Run(ctx))
	assert.Equal(t, 2, h.tick)
	assert.Equal(t, []string{"wait", "begin", "draw window", "present", "poll"}, h.callsIn(2))
}

func TestContextDisplay(t *testing.T) {
	win := windowtest.New(320, 200)
	win.Batches = [][]window.Event{{pressEvent}, {closeEvent}}
	ctx, err := graphics.FromWindow(win)
	require.NoError(t, err)

	d := ContextDisplay(ctx)
	w, h := d.BeginFrame().Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 200, h)

	assert.Equal(t, []window.Event{pressEvent}, d.PollEvents(nil))
	assert.Equal(t, []window.Event{closeEvent}, d.PollEvents(nil))
	assert.Empty(t, d.PollEvents(nil))
}
