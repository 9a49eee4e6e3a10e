package openvr

type systemTable struct {
	getRecommendedRenderTargetSize  func(width, height *uint32)
	getDeviceToAbsoluteTrackingPose func(origin TrackingUniverseOrigin, predictedSeconds float32, poses *TrackedDevicePose, count uint32)
}

// System is the IVRSystem interface of a Context.
type System struct {
	ctx *Context
	fn  systemTable
}

// RecommendedRenderTargetSize returns the per-eye render target size that
// gives a 1:1 pixel mapping at the center of the lens.
func (s *System) RecommendedRenderTargetSize() (width, height uint32, err error) {
	if s.ctx.closed {
		return 0, 0, ErrShutdown
	}
	s.fn.getRecommendedRenderTargetSize(&width, &height)
	return width, height, nil
}

// DeviceToAbsoluteTrackingPose fills poses with the device poses predicted
// predictedSeconds ahead, relative to origin.
func (s *System) DeviceToAbsoluteTrackingPose(origin TrackingUniverseOrigin, predictedSeconds float32, poses []TrackedDevicePose) error {
	if s.ctx.closed {
		return ErrShutdown
	}
	if len(poses) == 0 {
		return nil
	}
	s.fn.getDeviceToAbsoluteTrackingPose(origin, predictedSeconds, &poses[0], uint32(len(poses)))
	return nil
}
