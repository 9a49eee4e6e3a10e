package openvr

import "errors"

type compositorTable struct {
	setTrackingSpace func(origin TrackingUniverseOrigin)
	waitGetPoses     func(render *TrackedDevicePose, renderCount uint32, game *TrackedDevicePose, gameCount uint32) CompositorError
	submit           func(eye Eye, texture *Texture, bounds *TextureBounds, flags SubmitFlags) CompositorError
}

// Compositor is the IVRCompositor interface of a Context.
type Compositor struct {
	ctx *Context
	fn  compositorTable
}

// SetTrackingSpace sets the origin used for the poses returned by
// WaitGetPoses.
func (c *Compositor) SetTrackingSpace(origin TrackingUniverseOrigin) error {
	if c.ctx.closed {
		return ErrShutdown
	}
	c.fn.setTrackingSpace(origin)
	return nil
}

// WaitGetPoses blocks until the compositor is ready for the next frame, then
// fills render with the poses to render with and game with the poses predicted
// for the frame after. Either slice may be empty.
func (c *Compositor) WaitGetPoses(render, game []TrackedDevicePose) error {
	if c.ctx.closed {
		return ErrShutdown
	}
	var renderPtr, gamePtr *TrackedDevicePose
	if len(render) > 0 {
		renderPtr = &render[0]
	}
	if len(game) > 0 {
		gamePtr = &game[0]
	}
	if code := c.fn.waitGetPoses(renderPtr, uint32(len(render)), gamePtr, uint32(len(game))); code != CompositorErrorNone {
		return code
	}
	return nil
}

// Submit hands one eye's texture to the compositor. bounds may be nil for the
// whole texture. The texture must stay alive until the next submission.
func (c *Compositor) Submit(eye Eye, texture *Texture, bounds *TextureBounds, flags SubmitFlags) error {
	if c.ctx.closed {
		return ErrShutdown
	}
	if texture == nil {
		return errors.New("openvr: submit: nil texture")
	}
	if code := c.fn.submit(eye, texture, bounds, flags); code != CompositorErrorNone {
		return code
	}
	return nil
}
