package graphics

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	glpkg "github.com/tinyrange/vrharness/internal/gl"
	"github.com/tinyrange/vrharness/internal/window/windowtest"
)

func newTestContext(t *testing.T) (*Context, *windowtest.Window) {
	t.Helper()
	win := windowtest.New(256, 256)
	c, err := FromWindow(win)
	require.NoError(t, err)
	return c, win
}

func TestFromWindowInfo(t *testing.T) {
	c, _ := newTestContext(t)

	info := c.Info()
	assert.Equal(t, "gltest", info.Vendor)
	assert.Equal(t, "gltest renderer", info.Renderer)
	assert.Equal(t, "3.2.0 gltest", info.Version)
	assert.Equal(t, "3.2", info.Context.String())
	assert.True(t, c.Alive())
}

func TestFromWindowGLError(t *testing.T) {
	win := windowtest.New(256, 256)
	win.GLErr = errors.New("no entry points")
	_, err := FromWindow(win)
	assert.EqualError(t, err, "no entry points")
}

func TestSurfaceBindAndPresent(t *testing.T) {
	c, win := newTestContext(t)

	s := c.BeginFrame()
	w, h := s.Size()
	assert.Equal(t, 256, w)
	assert.Equal(t, 256, h)

	require.NoError(t, s.Bind())
	assert.Equal(t, uint32(0), win.GLImpl.Framebuffer)
	assert.Equal(t, [4]int32{0, 0, 256, 256}, win.GLImpl.View)

	require.NoError(t, s.Present())
	assert.Equal(t, 1, win.Swaps)
}

func TestPresentContextLost(t *testing.T) {
	c, win := newTestContext(t)
	rt, err := c.NewRenderTarget(DefaultTargetDescriptor(8, 8))
	require.NoError(t, err)
	win.GLImpl.ResetStatus = glpkg.GuiltyContextReset

	err = c.BeginFrame().Present()
	assert.ErrorIs(t, err, ErrContextLost)
	assert.False(t, c.Alive())

	_, err = c.NewTexture(make([]byte, 4), 1, 1)
	assert.ErrorIs(t, err, ErrContextLost)
	_, err = c.GL()
	assert.ErrorIs(t, err, ErrContextLost)
	_, err = rt.NativeHandle()
	assert.ErrorIs(t, err, ErrContextLost)
	assert.ErrorIs(t, rt.Bind(), ErrContextLost)

	c.Close()
	_, err = rt.NativeHandle()
	assert.ErrorIs(t, err, ErrContextClosed, "closing a lost context reports it closed")
}

func TestPresentGLError(t *testing.T) {
	c, win := newTestContext(t)
	win.GLImpl.Errors = []uint32{0x0505}

	err := c.BeginFrame().Present()
	var glErr GLError
	require.ErrorAs(t, err, &glErr)
	assert.Equal(t, GLError(0x0505), glErr)
	assert.Equal(t, "graphics: GL_OUT_OF_MEMORY", glErr.Error())
	assert.True(t, c.Alive(), "a GL error does not lose the context")
}

func TestNewTexture(t *testing.T) {
	c, win := newTestContext(t)

	tex, err := c.NewTexture(make([]byte, 2*2*4), 2, 2)
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, 1, win.GLImpl.Count("texture"))

	require.NoError(t, tex.BindUnit(0))

	tex.Release()
	assert.Equal(t, 0, win.GLImpl.Count("texture"))
	assert.ErrorIs(t, tex.BindUnit(0), ErrReleased)
}

func TestNewTextureRejectsShortData(t *testing.T) {
	c, _ := newTestContext(t)
	_, err := c.NewTexture(make([]byte, 3), 1, 1)
	assert.Error(t, err)
}

func TestNewTextureOutOfMemory(t *testing.T) {
	c, win := newTestContext(t)
	win.GLImpl.ErrorOn = map[string]uint32{"TexImage2D": 0x0505}

	_, err := c.NewTexture(make([]byte, 4), 1, 1)
	var allocErr *AllocError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, "texture", allocErr.Resource)
	assert.ErrorIs(t, err, GLError(0x0505))
	assert.Equal(t, 0, win.GLImpl.Count("texture"))
}

func TestCloseReleasesResources(t *testing.T) {
	c, win := newTestContext(t)

	_, err := c.NewTexture(make([]byte, 4), 1, 1)
	require.NoError(t, err)
	rt, err := c.NewRenderTarget(DefaultTargetDescriptor(64, 32))
	require.NoError(t, err)
	require.NotEmpty(t, win.GLImpl.Live)

	c.Close()
	assert.Empty(t, win.GLImpl.Live)
	assert.True(t, win.Closed)
	assert.False(t, c.Alive())

	_, err = rt.NativeHandle()
	assert.ErrorIs(t, err, ErrContextClosed)
	assert.ErrorIs(t, rt.Bind(), ErrContextClosed)
	assert.ErrorIs(t, c.BeginFrame().Present(), ErrContextClosed)

	c.Close()
}

func TestDefaultTargetDescriptor(t *testing.T) {
	desc := DefaultTargetDescriptor(1512, 1680)
	assert.Equal(t, 1512, desc.Width)
	assert.Equal(t, 1680, desc.Height)
	assert.Equal(t, gputypes.TextureFormatRGBA8Unorm, desc.Format)
	assert.Equal(t, gputypes.TextureFormatDepth24PlusStencil8, desc.DepthFormat)
}

func TestNewRenderTarget(t *testing.T) {
	c, win := newTestContext(t)

	rt, err := c.NewRenderTarget(DefaultTargetDescriptor(100, 50))
	require.NoError(t, err)

	w, h := rt.Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
	assert.True(t, rt.HasDepth())
	assert.Equal(t, gputypes.TextureFormatRGBA8Unorm, rt.Format())
	assert.Equal(t, 1, win.GLImpl.Count("texture"))
	assert.Equal(t, 1, win.GLImpl.Count("renderbuffer"))
	assert.Equal(t, 1, win.GLImpl.Count("framebuffer"))

	handle, err := rt.NativeHandle()
	require.NoError(t, err)
	assert.Equal(t, "texture", win.GLImpl.Live[handle])

	require.NoError(t, rt.Bind())
	assert.NotZero(t, win.GLImpl.Framebuffer)
	assert.Equal(t, [4]int32{0, 0, 100, 50}, win.GLImpl.View)

	rt.Release()
	assert.Empty(t, win.GLImpl.Live)
	_, err = rt.NativeHandle()
	assert.ErrorIs(t, err, ErrReleased)
}

func TestNewRenderTargetColorOnly(t *testing.T) {
	c, win := newTestContext(t)

	desc := DefaultTargetDescriptor(8, 8)
	desc.DepthFormat = gputypes.TextureFormatUndefined
	rt, err := c.NewRenderTarget(desc)
	require.NoError(t, err)
	assert.False(t, rt.HasDepth())
	assert.Equal(t, 0, win.GLImpl.Count("renderbuffer"))
}

func TestNewRenderTargetIncomplete(t *testing.T) {
	c, win := newTestContext(t)
	win.GLImpl.FramebufferStatus = 0x8CD6

	desc := DefaultTargetDescriptor(8, 8)
	desc.Label = "left eye"
	_, err := c.NewRenderTarget(desc)

	var allocErr *AllocError
	require.ErrorAs(t, err, &allocErr)
	assert.Contains(t, err.Error(), `render target "left eye" 8x8`)
	assert.Contains(t, err.Error(), "incomplete")
	assert.Empty(t, win.GLImpl.Live)
}

func TestNewRenderTargetRejectsFormats(t *testing.T) {
	c, _ := newTestContext(t)

	desc := DefaultTargetDescriptor(8, 8)
	desc.Format = gputypes.TextureFormatBGRA8Unorm
	_, err := c.NewRenderTarget(desc)
	assert.Error(t, err)

	desc = DefaultTargetDescriptor(8, 8)
	desc.DepthFormat = gputypes.TextureFormatR8Unorm
	_, err = c.NewRenderTarget(desc)
	assert.Error(t, err)

	_, err = c.NewRenderTarget(DefaultTargetDescriptor(0, 8))
	assert.Error(t, err)
}
