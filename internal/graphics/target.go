package graphics

import (
	"fmt"

	"github.com/gogpu/gputypes"
	glpkg "github.com/tinyrange/vrharness/internal/gl"
)

// TargetDescriptor describes an offscreen render target.
type TargetDescriptor struct {
	// Label is an optional debug label for the target.
	Label string

	Width  int
	Height int

	// Format is the color attachment format.
	Format gputypes.TextureFormat

	// DepthFormat is the depth attachment format. TextureFormatUndefined
	// creates a color-only target.
	DepthFormat gputypes.TextureFormat
}

// DefaultTargetDescriptor returns a descriptor with an 8-bit RGBA color
// buffer and a matching depth buffer.
func DefaultTargetDescriptor(width, height int) TargetDescriptor {
	return TargetDescriptor{
		Width:       width,
		Height:      height,
		Format:      gputypes.TextureFormatRGBA8Unorm,
		DepthFormat: gputypes.TextureFormatDepth24PlusStencil8,
	}
}

// colorFormat maps a color texture format to its GL internal format and the
// client format/type used when allocating storage.
func colorFormat(f gputypes.TextureFormat) (internal int32, format, xtype uint32, err error) {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm:
		return glpkg.RGBA8, glpkg.RGBA, glpkg.UnsignedByte, nil
	default:
		return 0, 0, 0, fmt.Errorf("unsupported color format %v", f)
	}
}

// depthFormat maps a depth format to a GL renderbuffer format.
func depthFormat(f gputypes.TextureFormat) (uint32, error) {
	switch f {
	case gputypes.TextureFormatDepth24PlusStencil8:
		return glpkg.Depth24Stencil8, nil
	default:
		return 0, fmt.Errorf("unsupported depth format %v", f)
	}
}

// RenderTarget is an offscreen framebuffer with a single-level color texture
// and an optional depth renderbuffer.
type RenderTarget struct {
	ctx   *Context
	desc  TargetDescriptor
	fbo   uint32
	color uint32
	depth uint32
}

// NewRenderTarget allocates a render target. Failure is reported as an
// *AllocError.
func (c *Context) NewRenderTarget(desc TargetDescriptor) (*RenderTarget, error) {
	if err := c.err(); err != nil {
		return nil, err
	}
	allocErr := func(err error) error {
		name := "render target"
		if desc.Label != "" {
			name = fmt.Sprintf("render target %q", desc.Label)
		}
		return &AllocError{Resource: name, Width: desc.Width, Height: desc.Height, Err: err}
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, allocErr(fmt.Errorf("invalid size"))
	}
	internal, format, xtype, err := colorFormat(desc.Format)
	if err != nil {
		return nil, allocErr(err)
	}
	hasDepth := desc.DepthFormat != gputypes.TextureFormatUndefined
	var depthInternal uint32
	if hasDepth {
		if depthInternal, err = depthFormat(desc.DepthFormat); err != nil {
			return nil, allocErr(err)
		}
	}

	gl := c.gl
	drainErrors(gl)

	rt := &RenderTarget{ctx: c, desc: desc}

	gl.GenTextures(1, &rt.color)
	gl.BindTexture(glpkg.Texture2D, rt.color)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureMinFilter, glpkg.Linear)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureMagFilter, glpkg.Linear)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureWrapS, glpkg.ClampToEdge)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureWrapT, glpkg.ClampToEdge)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureBaseLevel, 0)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureMaxLevel, 0)
	gl.TexImage2D(glpkg.Texture2D, 0, internal, int32(desc.Width), int32(desc.Height), 0, format, xtype, nil)
	gl.BindTexture(glpkg.Texture2D, 0)

	if hasDepth {
		gl.GenRenderbuffers(1, &rt.depth)
		gl.BindRenderbuffer(glpkg.Renderbuffer, rt.depth)
		gl.RenderbufferStorage(glpkg.Renderbuffer, depthInternal, int32(desc.Width), int32(desc.Height))
		gl.BindRenderbuffer(glpkg.Renderbuffer, 0)
	}

	gl.GenFramebuffers(1, &rt.fbo)
	gl.BindFramebuffer(glpkg.Framebuffer, rt.fbo)
	gl.FramebufferTexture2D(glpkg.Framebuffer, glpkg.ColorAttachment0, glpkg.Texture2D, rt.color, 0)
	if hasDepth {
		gl.FramebufferRenderbuffer(glpkg.Framebuffer, glpkg.DepthStencilAttachment, glpkg.Renderbuffer, rt.depth)
	}
	status := gl.CheckFramebufferStatus(glpkg.Framebuffer)
	gl.BindFramebuffer(glpkg.Framebuffer, 0)

	if code := gl.GetError(); code != glpkg.NoError {
		rt.release(gl)
		return nil, allocErr(GLError(code))
	}
	if status != glpkg.FramebufferComplete {
		rt.release(gl)
		return nil, allocErr(fmt.Errorf("framebuffer incomplete (status 0x%04x)", status))
	}

	c.track(rt)
	return rt, nil
}

func (rt *RenderTarget) Bind() error {
	if err := rt.ctx.err(); err != nil {
		return err
	}
	if rt.fbo == 0 {
		return ErrReleased
	}
	rt.ctx.gl.BindFramebuffer(glpkg.Framebuffer, rt.fbo)
	rt.ctx.gl.Viewport(0, 0, int32(rt.desc.Width), int32(rt.desc.Height))
	return nil
}

func (rt *RenderTarget) Size() (int, int) {
	return rt.desc.Width, rt.desc.Height
}

func (rt *RenderTarget) Format() gputypes.TextureFormat {
	return rt.desc.Format
}

func (rt *RenderTarget) HasDepth() bool {
	return rt.desc.DepthFormat != gputypes.TextureFormatUndefined
}

// NativeHandle returns the GL name of the color texture. The name is only
// handed out while the owning context is alive.
func (rt *RenderTarget) NativeHandle() (uint32, error) {
	if err := rt.ctx.err(); err != nil {
		return 0, err
	}
	if rt.color == 0 {
		return 0, ErrReleased
	}
	return rt.color, nil
}

// Release deletes the target now instead of when the context closes.
func (rt *RenderTarget) Release() {
	if rt.fbo == 0 || !rt.ctx.Alive() {
		return
	}
	rt.release(rt.ctx.gl)
	rt.ctx.untrack(rt)
}

func (rt *RenderTarget) release(gl glpkg.OpenGL) {
	if rt.fbo != 0 {
		gl.DeleteFramebuffers(1, &rt.fbo)
		rt.fbo = 0
	}
	if rt.depth != 0 {
		gl.DeleteRenderbuffers(1, &rt.depth)
		rt.depth = 0
	}
	if rt.color != 0 {
		gl.DeleteTextures(1, &rt.color)
		rt.color = 0
	}
}
