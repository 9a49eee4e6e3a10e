// Package eye manages the per-eye offscreen targets that are handed to the
// compositor.
package eye

import (
	"errors"
	"fmt"

	"github.com/tinyrange/vrharness/internal/graphics"
	"github.com/tinyrange/vrharness/internal/openvr"
)

var (
	// ErrNotRendered is returned by Submit when the target has not been drawn
	// into since its last submission.
	ErrNotRendered = errors.New("eye: target not rendered since last submit")

	// ErrWrongEye is returned by Submit when a target is submitted as the
	// other eye.
	ErrWrongEye = errors.New("eye: target submitted as the wrong eye")
)

// Compositor accepts per-eye textures. *openvr.Compositor implements it.
type Compositor interface {
	Submit(eye openvr.Eye, texture *openvr.Texture, bounds *openvr.TextureBounds, flags openvr.SubmitFlags) error
}

// Target is one eye's color and depth buffer. It implements graphics.Target
// so a renderer can draw into it.
type Target struct {
	eye      openvr.Eye
	rt       *graphics.RenderTarget
	rendered bool
}

// Allocate creates an RGBA8 color buffer without mipmaps and a matching
// depth buffer, both width x height.
func Allocate(ctx *graphics.Context, eye openvr.Eye, width, height uint32) (*Target, error) {
	desc := graphics.DefaultTargetDescriptor(int(width), int(height))
	desc.Label = eye.String() + " eye"
	rt, err := ctx.NewRenderTarget(desc)
	if err != nil {
		return nil, err
	}
	return &Target{eye: eye, rt: rt}, nil
}

// AllocatePair allocates the left and right targets with identical size.
func AllocatePair(ctx *graphics.Context, width, height uint32) (left, right *Target, err error) {
	left, err = Allocate(ctx, openvr.EyeLeft, width, height)
	if err != nil {
		return nil, nil, err
	}
	right, err = Allocate(ctx, openvr.EyeRight, width, height)
	if err != nil {
		left.Release()
		return nil, nil, err
	}
	return left, right, nil
}

// SizeSource reports the per-eye render target size recommended by the
// device. *tracking.Device implements it.
type SizeSource interface {
	RecommendedRenderTargetSize() (width, height uint32, err error)
}

// AllocateRecommended queries src once and allocates both eye targets at the
// returned size. The size is not queried again for the lifetime of the
// targets.
func AllocateRecommended(ctx *graphics.Context, src SizeSource) (left, right *Target, err error) {
	width, height, err := src.RecommendedRenderTargetSize()
	if err != nil {
		return nil, nil, fmt.Errorf("recommended target size: %w", err)
	}
	return AllocatePair(ctx, width, height)
}

func (t *Target) Eye() openvr.Eye {
	return t.eye
}

// Bind makes the target the current framebuffer. Binding alone does not make
// the target submittable; see MarkRendered.
func (t *Target) Bind() error {
	return t.rt.Bind()
}

// MarkRendered records that a draw into the target completed. Renderers call
// it after their last draw call succeeds.
func (t *Target) MarkRendered() {
	t.rendered = true
}

func (t *Target) Size() (int, int) {
	return t.rt.Size()
}

// Submit hands the color texture to c as eye, tagged as an OpenGL texture with
// automatic color space. eye must be the eye the target was allocated for,
// the context must still be alive and the target must have been drawn into
// since the previous Submit. The compositor keeps reading the texture until
// the next submission, so it must not be released before then.
func (t *Target) Submit(c Compositor, eye openvr.Eye) error {
	if eye != t.eye {
		return fmt.Errorf("submit %s eye target as %s: %w", t.eye, eye, ErrWrongEye)
	}
	if !t.rendered {
		return fmt.Errorf("submit %s eye: %w", eye, ErrNotRendered)
	}
	handle, err := t.rt.NativeHandle()
	if err != nil {
		return fmt.Errorf("submit %s eye: %w", eye, err)
	}

	tex := openvr.Texture{
		Handle:     uintptr(handle),
		Type:       openvr.TextureTypeOpenGL,
		ColorSpace: openvr.ColorSpaceAuto,
	}
	t.rendered = false
	if err := c.Submit(eye, &tex, nil, openvr.SubmitDefault); err != nil {
		return fmt.Errorf("submit %s eye: %w", eye, err)
	}
	return nil
}

// Release frees the GPU buffers before the context is closed.
func (t *Target) Release() {
	t.rt.Release()
}
