package graphics

import (
	"fmt"
	"unsafe"

	glpkg "github.com/tinyrange/vrharness/internal/gl"
	"github.com/tinyrange/vrharness/internal/window"
)

// resource is a GPU object owned by a Context.
type resource interface {
	release(gl glpkg.OpenGL)
}

// Context is the exclusive owner of the window, its GL context and every
// resource created from it. Textures and render targets hold a non-owning
// back reference and fail with ErrContextClosed once the Context is closed, or
// ErrContextLost after a driver reset.
type Context struct {
	platform window.Window
	gl       glpkg.OpenGL
	info     Info

	closed bool
	lost   bool

	resources map[resource]struct{}
}

// New opens the window and negotiates a GL context as described by cfg.
func New(cfg window.Config) (*Context, error) {
	platform, err := window.New(cfg)
	if err != nil {
		return nil, err
	}
	c, err := FromWindow(platform)
	if err != nil {
		platform.Close()
		return nil, err
	}
	return c, nil
}

// FromWindow takes ownership of an already-open platform window whose GL
// context is current on the calling thread.
func FromWindow(platform window.Window) (*Context, error) {
	gl, err := platform.GL()
	if err != nil {
		return nil, err
	}

	return &Context{
		platform: platform,
		gl:       gl,
		info: Info{
			Vendor:   gl.GetString(glpkg.Vendor),
			Renderer: gl.GetString(glpkg.Renderer),
			Version:  gl.GetString(glpkg.Version),
			Context:  platform.ContextVersion(),
		},
		resources: make(map[resource]struct{}),
	}, nil
}

func (c *Context) Info() Info {
	return c.info
}

// Alive reports whether the context can still be used: it has not been closed
// and the driver has not reported a reset.
func (c *Context) Alive() bool {
	return !c.closed && !c.lost
}

// err reports why the context can no longer be used, or nil while it is
// alive. A context that was closed after being lost reports ErrContextClosed.
func (c *Context) err() error {
	switch {
	case c.closed:
		return ErrContextClosed
	case c.lost:
		return ErrContextLost
	}
	return nil
}

// GL returns the entry-point table while the context is alive.
func (c *Context) GL() (glpkg.OpenGL, error) {
	if err := c.err(); err != nil {
		return nil, err
	}
	return c.gl, nil
}

func (c *Context) Scale() float32 {
	return c.platform.Scale()
}

// PollEvents drains all pending window events into dst.
func (c *Context) PollEvents(dst []window.Event) []window.Event {
	if c.closed {
		return dst
	}
	return c.platform.PollEvents(dst)
}

// BeginFrame returns the window surface for this tick, sized to the current
// backing size.
func (c *Context) BeginFrame() *Surface {
	w, h := c.platform.BackingSize()
	return &Surface{ctx: c, width: w, height: h}
}

// NewTexture uploads tightly packed RGBA8 pixels. Row 0 of pix is the bottom
// row of the texture. Sampling is nearest with repeat wrapping and no mipmaps.
func (c *Context) NewTexture(pix []byte, width, height int) (*Texture, error) {
	if err := c.err(); err != nil {
		return nil, err
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("graphics: texture data is %d bytes, want %d", len(pix), width*height*4)
	}

	gl := c.gl
	drainErrors(gl)

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(glpkg.Texture2D, id)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureMinFilter, glpkg.Nearest)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureMagFilter, glpkg.Nearest)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureWrapS, glpkg.Repeat)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureWrapT, glpkg.Repeat)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureBaseLevel, 0)
	gl.TexParameteri(glpkg.Texture2D, glpkg.TextureMaxLevel, 0)
	gl.PixelStorei(glpkg.UnpackAlignment, 1)

	var data unsafe.Pointer
	if len(pix) > 0 {
		data = unsafe.Pointer(&pix[0])
	}
	gl.TexImage2D(
		glpkg.Texture2D,
		0,
		glpkg.RGBA8,
		int32(width),
		int32(height),
		0,
		glpkg.RGBA,
		glpkg.UnsignedByte,
		data,
	)
	gl.BindTexture(glpkg.Texture2D, 0)

	if code := gl.GetError(); code != glpkg.NoError {
		gl.DeleteTextures(1, &id)
		return nil, &AllocError{Resource: "texture", Width: width, Height: height, Err: GLError(code)}
	}

	t := &Texture{ctx: c, id: id, w: width, h: height}
	c.track(t)
	return t, nil
}

func (c *Context) track(r resource) {
	c.resources[r] = struct{}{}
}

func (c *Context) untrack(r resource) {
	delete(c.resources, r)
}

// Close releases every resource still owned by the context and destroys the
// window. It is safe to call more than once.
func (c *Context) Close() {
	if c.closed {
		return
	}
	if !c.lost {
		for r := range c.resources {
			r.release(c.gl)
		}
	}
	c.resources = nil
	c.closed = true
	c.platform.Close()
}

// drainErrors clears stale error flags so the next GetError reflects only
// the calls made after it.
func drainErrors(gl glpkg.OpenGL) {
	for range 8 {
		if gl.GetError() == glpkg.NoError {
			return
		}
	}
}

// Surface is the window's default framebuffer for one tick.
type Surface struct {
	ctx    *Context
	width  int
	height int
}

func (s *Surface) Bind() error {
	if err := s.ctx.err(); err != nil {
		return err
	}
	s.ctx.gl.BindFramebuffer(glpkg.Framebuffer, 0)
	s.ctx.gl.Viewport(0, 0, int32(s.width), int32(s.height))
	return nil
}

func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

// Present swaps the window buffers. A driver reset marks the context lost.
func (s *Surface) Present() error {
	c := s.ctx
	if err := c.err(); err != nil {
		return err
	}
	c.platform.Swap()

	if status := c.gl.GetGraphicsResetStatus(); status != glpkg.NoError {
		c.lost = true
		return fmt.Errorf("%w: reset status 0x%04x", ErrContextLost, status)
	}
	if code := c.gl.GetError(); code != glpkg.NoError {
		drainErrors(c.gl)
		return GLError(code)
	}
	return nil
}

// Texture is a sampled 2D texture owned by a Context.
type Texture struct {
	ctx *Context
	id  uint32
	w   int
	h   int
}

func (t *Texture) Size() (int, int) {
	return t.w, t.h
}

// BindUnit binds the texture to the given texture unit.
func (t *Texture) BindUnit(unit uint32) error {
	if err := t.ctx.err(); err != nil {
		return err
	}
	if t.id == 0 {
		return ErrReleased
	}
	t.ctx.gl.ActiveTexture(glpkg.Texture0 + unit)
	t.ctx.gl.BindTexture(glpkg.Texture2D, t.id)
	return nil
}

// Release deletes the texture now instead of when the context closes.
func (t *Texture) Release() {
	if t.id == 0 || !t.ctx.Alive() {
		return
	}
	t.release(t.ctx.gl)
	t.ctx.untrack(t)
}

func (t *Texture) release(gl glpkg.OpenGL) {
	gl.DeleteTextures(1, &t.id)
	t.id = 0
}
