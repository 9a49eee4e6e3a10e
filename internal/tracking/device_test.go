package tracking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyrange/vrharness/internal/eye"
	"github.com/tinyrange/vrharness/internal/graphics"
	"github.com/tinyrange/vrharness/internal/openvr"
	"github.com/tinyrange/vrharness/internal/window/windowtest"
)

type fakeRuntime struct {
	shutdowns int

	sizeQueries int
	space       openvr.TrackingUniverseOrigin
	predicted   []float32
	waitErr     error
	submitted   []openvr.Eye
}

func (r *fakeRuntime) Shutdown() error {
	if r.shutdowns > 0 {
		return openvr.ErrShutdown
	}
	r.shutdowns++
	return nil
}

func (r *fakeRuntime) RecommendedRenderTargetSize() (uint32, uint32, error) {
	r.sizeQueries++
	return 1512, 1680, nil
}

func (r *fakeRuntime) DeviceToAbsoluteTrackingPose(origin openvr.TrackingUniverseOrigin, seconds float32, poses []openvr.TrackedDevicePose) error {
	r.predicted = append(r.predicted, seconds)
	poses[openvr.TrackedDeviceIndexHmd].DeviceToAbsoluteTracking[1][3] = 1.6
	return nil
}

func (r *fakeRuntime) SetTrackingSpace(origin openvr.TrackingUniverseOrigin) error {
	r.space = origin
	return nil
}

func (r *fakeRuntime) WaitGetPoses(render, game []openvr.TrackedDevicePose) error {
	if r.shutdowns > 0 {
		return openvr.ErrShutdown
	}
	if r.waitErr != nil {
		return r.waitErr
	}
	render[openvr.TrackedDeviceIndexHmd].PoseIsValid = true
	return nil
}

func (r *fakeRuntime) Submit(eye openvr.Eye, _ *openvr.Texture, _ *openvr.TextureBounds, _ openvr.SubmitFlags) error {
	if r.shutdowns > 0 {
		return openvr.ErrShutdown
	}
	r.submitted = append(r.submitted, eye)
	return nil
}

func newTestDevice() (*Device, *fakeRuntime) {
	rt := &fakeRuntime{}
	return newDevice(rt, rt, rt), rt
}

func TestRecommendedRenderTargetSize(t *testing.T) {
	d, rt := newTestDevice()

	w, h, err := d.RecommendedRenderTargetSize()
	require.NoError(t, err)
	assert.Equal(t, uint32(1512), w)
	assert.Equal(t, uint32(1680), h)
	assert.Equal(t, 1, rt.sizeQueries)
}

func TestEyeTargetsSizedFromDevice(t *testing.T) {
	d, rt := newTestDevice()
	gfx, err := graphics.FromWindow(windowtest.New(256, 256))
	require.NoError(t, err)
	defer gfx.Close()

	left, right, err := eye.AllocateRecommended(gfx, d)
	require.NoError(t, err)
	assert.Equal(t, 1, rt.sizeQueries)

	for _, target := range []*eye.Target{left, right} {
		w, h := target.Size()
		assert.Equal(t, 1512, w)
		assert.Equal(t, 1680, h)
	}
}

func TestConfigureOrigin(t *testing.T) {
	d, rt := newTestDevice()

	require.NoError(t, d.ConfigureOrigin(openvr.TrackingUniverseStanding, 0.005))
	assert.Equal(t, openvr.TrackingUniverseStanding, rt.space)
	assert.Equal(t, openvr.TrackingUniverseStanding, d.Origin())
	assert.Equal(t, []float32{0.005}, rt.predicted)
	assert.InDelta(t, 1.6, d.PredictedHeadPose().Position()[1], 1e-6)

	assert.Error(t, d.ConfigureOrigin(openvr.TrackingUniverseSeated, -1))
	assert.Equal(t, openvr.TrackingUniverseStanding, rt.space, "rejected before reaching the runtime")
}

func TestWaitGetPoses(t *testing.T) {
	d, _ := newTestDevice()

	_, ok := d.HeadPose()
	assert.False(t, ok, "no pose before the first wait")

	require.NoError(t, d.WaitGetPoses())
	pose, ok := d.HeadPose()
	assert.True(t, ok)
	assert.True(t, pose.PoseIsValid)
}

func TestWaitGetPosesError(t *testing.T) {
	d, rt := newTestDevice()
	rt.waitErr = openvr.CompositorErrorDoNotHaveFocus

	err := d.WaitGetPoses()
	assert.ErrorIs(t, err, openvr.CompositorErrorDoNotHaveFocus)
}

func TestCompositorIsBorrowed(t *testing.T) {
	d, rt := newTestDevice()
	comp := d.Compositor()

	require.NoError(t, comp.Submit(openvr.EyeLeft, &openvr.Texture{}, nil, openvr.SubmitDefault))
	assert.Equal(t, []openvr.Eye{openvr.EyeLeft}, rt.submitted)

	require.NoError(t, d.Close())
	err := comp.Submit(openvr.EyeRight, &openvr.Texture{}, nil, openvr.SubmitDefault)
	assert.ErrorIs(t, err, openvr.ErrShutdown)
}

func TestClose(t *testing.T) {
	d, rt := newTestDevice()

	require.NoError(t, d.Close())
	assert.Equal(t, 1, rt.shutdowns)

	assert.ErrorIs(t, d.Close(), openvr.ErrShutdown)
	assert.ErrorIs(t, d.WaitGetPoses(), openvr.ErrShutdown)
	assert.ErrorIs(t, d.ConfigureOrigin(openvr.TrackingUniverseStanding, 0), openvr.ErrShutdown)
	_, _, err := d.RecommendedRenderTargetSize()
	assert.True(t, errors.Is(err, openvr.ErrShutdown))
	assert.Equal(t, 1, rt.shutdowns)
}
