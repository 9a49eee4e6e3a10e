// Package tracking wraps the runtime's tracking system and compositor behind
// a single owner.
package tracking

import (
	"errors"
	"fmt"

	"github.com/tinyrange/vrharness/internal/eye"
	"github.com/tinyrange/vrharness/internal/openvr"
)

// system is the part of *openvr.System the device uses.
type system interface {
	RecommendedRenderTargetSize() (uint32, uint32, error)
	DeviceToAbsoluteTrackingPose(origin openvr.TrackingUniverseOrigin, predictedSeconds float32, poses []openvr.TrackedDevicePose) error
}

// compositor is the part of *openvr.Compositor the device uses.
type compositor interface {
	eye.Compositor
	SetTrackingSpace(origin openvr.TrackingUniverseOrigin) error
	WaitGetPoses(render, game []openvr.TrackedDevicePose) error
}

// runtime owns the handles above.
type runtime interface {
	Shutdown() error
}

// Device owns the runtime context. The system and compositor handles borrow
// from it and are dropped together with it in Close.
type Device struct {
	rt         runtime
	system     system
	compositor compositor
	closed     bool

	origin openvr.TrackingUniverseOrigin

	predicted [openvr.MaxTrackedDeviceCount]openvr.TrackedDevicePose
	render    [openvr.MaxTrackedDeviceCount]openvr.TrackedDevicePose
	waits     uint64
}

// Open initializes the runtime for kind and acquires both interfaces. It fails
// when the runtime is missing or no headset is connected.
func Open(kind openvr.ApplicationType) (*Device, error) {
	ctx, err := openvr.Init(kind)
	if err != nil {
		return nil, fmt.Errorf("tracking: %w", err)
	}
	sys, err := ctx.System()
	if err != nil {
		ctx.Shutdown()
		return nil, fmt.Errorf("tracking: system interface: %w", err)
	}
	comp, err := ctx.Compositor()
	if err != nil {
		ctx.Shutdown()
		return nil, fmt.Errorf("tracking: compositor interface: %w", err)
	}
	return newDevice(ctx, sys, comp), nil
}

func newDevice(rt runtime, sys system, comp compositor) *Device {
	return &Device{
		rt:         rt,
		system:     sys,
		compositor: comp,
		origin:     openvr.TrackingUniverseStanding,
	}
}

// RecommendedRenderTargetSize returns the per-eye target size. Callers query
// it once at startup and size both eye targets from it.
func (d *Device) RecommendedRenderTargetSize() (width, height uint32, err error) {
	if d.closed {
		return 0, 0, openvr.ErrShutdown
	}
	return d.system.RecommendedRenderTargetSize()
}

// ConfigureOrigin sets the tracking origin and the pose prediction lookahead
// used for later pose queries, and takes an initial predicted pose sample.
func (d *Device) ConfigureOrigin(origin openvr.TrackingUniverseOrigin, predictionSeconds float32) error {
	if d.closed {
		return openvr.ErrShutdown
	}
	if predictionSeconds < 0 {
		return fmt.Errorf("tracking: negative prediction %gs", predictionSeconds)
	}
	if err := d.compositor.SetTrackingSpace(origin); err != nil {
		return fmt.Errorf("tracking: set tracking space: %w", err)
	}
	d.origin = origin
	if err := d.system.DeviceToAbsoluteTrackingPose(origin, predictionSeconds, d.predicted[:]); err != nil {
		return fmt.Errorf("tracking: predicted poses: %w", err)
	}
	return nil
}

// WaitGetPoses blocks until the compositor is ready for the next frame and
// updates the render poses. It must be called once per tick before any
// drawing.
func (d *Device) WaitGetPoses() error {
	if d.closed {
		return openvr.ErrShutdown
	}
	if err := d.compositor.WaitGetPoses(d.render[:], nil); err != nil {
		return fmt.Errorf("tracking: wait for poses: %w", err)
	}
	d.waits++
	return nil
}

// HeadPose returns the headset pose from the last WaitGetPoses. ok is false
// before the first wait or when the pose is not valid.
func (d *Device) HeadPose() (pose openvr.TrackedDevicePose, ok bool) {
	if d.waits == 0 {
		return pose, false
	}
	pose = d.render[openvr.TrackedDeviceIndexHmd]
	return pose, pose.PoseIsValid
}

// PredictedHeadPose returns the headset pose sampled by ConfigureOrigin.
func (d *Device) PredictedHeadPose() openvr.TrackedDevicePose {
	return d.predicted[openvr.TrackedDeviceIndexHmd]
}

func (d *Device) Origin() openvr.TrackingUniverseOrigin {
	return d.origin
}

// Compositor returns the compositor as a borrowed handle. Calls through it
// fail with openvr.ErrShutdown after Close.
func (d *Device) Compositor() eye.Compositor {
	return d.compositor
}

// Close shuts the runtime down, invalidating both interfaces. A second call
// returns openvr.ErrShutdown.
func (d *Device) Close() error {
	if d.closed {
		return openvr.ErrShutdown
	}
	d.closed = true
	if err := d.rt.Shutdown(); err != nil && !errors.Is(err, openvr.ErrShutdown) {
		return err
	}
	return nil
}
