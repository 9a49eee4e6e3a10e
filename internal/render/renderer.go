// Package render draws the checkerboard test pattern as a fullscreen quad
// into any graphics.Target.
package render

import (
	"fmt"
	"unsafe"

	glpkg "github.com/tinyrange/vrharness/internal/gl"
	"github.com/tinyrange/vrharness/internal/graphics"
	"github.com/tinyrange/vrharness/internal/pattern"
)

const vertexShaderSource = `#version 140

in vec2 position;

out vec2 v_texcoord;

void main() {
	gl_Position = vec4(mix(vec2(-1.0, -1.0), vec2(1.0, 1.0), position), 0.0, 1.0);
	v_texcoord = position;
}
`

const fragmentShaderSource = `#version 140

uniform sampler2D checker_texture;

in vec2 v_texcoord;

out vec4 color;

void main() {
	color = texture(checker_texture, v_texcoord);
}
`

// Quad corners in texture space; the vertex shader maps them to clip space.
var (
	quadVertices = []float32{
		0, 0,
		1, 0,
		0, 1,
		1, 1,
	}
	quadIndices = []uint32{0, 1, 2, 1, 2, 3}
)

const positionAttrib = 0

// renderedMarker is implemented by targets that track whether they hold a
// completed frame, such as eye targets awaiting submission.
type renderedMarker interface {
	MarkRendered()
}

// ShaderError reports a failed compile or link along with the driver log.
type ShaderError struct {
	Stage string
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("render: %s failed: %s", e.Stage, e.Log)
}

// Options configures a Renderer.
type Options struct {
	// PatternSize is the side length of the checkerboard texture.
	PatternSize int

	// ClearColor is the RGBA color the target is cleared to before drawing.
	ClearColor [4]float32
}

// DefaultOptions returns a 512 texel checkerboard on a green background.
func DefaultOptions() Options {
	return Options{
		PatternSize: pattern.DefaultSize,
		ClearColor:  [4]float32{0, 1, 0, 1},
	}
}

// Renderer holds the program, quad buffers and checker texture. It does not
// own the graphics context.
type Renderer struct {
	ctx  *graphics.Context
	opts Options

	program uint32
	sampler int32
	vao     uint32
	vbo     uint32
	ebo     uint32
	texture *graphics.Texture
}

// New compiles the program and uploads the quad and the checkerboard.
func New(ctx *graphics.Context, opts Options) (*Renderer, error) {
	if opts.PatternSize <= 0 {
		return nil, fmt.Errorf("render: invalid pattern size %d", opts.PatternSize)
	}
	gl, err := ctx.GL()
	if err != nil {
		return nil, err
	}

	r := &Renderer{ctx: ctx, opts: opts}

	r.program, err = buildProgram(gl)
	if err != nil {
		return nil, err
	}
	r.sampler = gl.GetUniformLocation(r.program, "checker_texture")

	if err := r.createQuad(gl); err != nil {
		r.Close()
		return nil, err
	}

	checker := pattern.NewCheckerboard(opts.PatternSize)
	r.texture, err = ctx.NewTexture(checker.Pix, checker.Size, checker.Size)
	if err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) createQuad(gl glpkg.OpenGL) error {
	for range 8 {
		if gl.GetError() == glpkg.NoError {
			break
		}
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(glpkg.ArrayBuffer, r.vbo)
	gl.BufferData(glpkg.ArrayBuffer, len(quadVertices)*4, unsafe.Pointer(&quadVertices[0]), glpkg.StaticDraw)
	gl.EnableVertexAttribArray(positionAttrib)
	gl.VertexAttribPointer(positionAttrib, 2, glpkg.Float, false, 2*4, 0)

	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(glpkg.ElementArrayBuffer, r.ebo)
	gl.BufferData(glpkg.ElementArrayBuffer, len(quadIndices)*4, unsafe.Pointer(&quadIndices[0]), glpkg.StaticDraw)

	gl.BindVertexArray(0)
	gl.BindBuffer(glpkg.ArrayBuffer, 0)

	if code := gl.GetError(); code != glpkg.NoError {
		return &graphics.AllocError{Resource: "quad buffers", Err: graphics.GLError(code)}
	}
	return nil
}

// Draw clears target to the clear color and depth 1.0, then samples the
// checkerboard over the whole target. Depth testing always passes with writes
// enabled and face culling is off. Targets with a MarkRendered method are
// marked only once the draw has been issued.
func (r *Renderer) Draw(target graphics.Target) error {
	gl, err := r.ctx.GL()
	if err != nil {
		return err
	}
	if r.program == 0 {
		return graphics.ErrReleased
	}
	if err := target.Bind(); err != nil {
		return err
	}

	c := r.opts.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.ClearDepth(1)
	gl.DepthMask(true)
	gl.Clear(glpkg.ColorBufferBit | glpkg.DepthBufferBit)

	gl.Enable(glpkg.DepthTest)
	gl.DepthFunc(glpkg.Always)
	gl.Disable(glpkg.CullFace)

	gl.UseProgram(r.program)
	if err := r.texture.BindUnit(0); err != nil {
		return err
	}
	gl.Uniform1i(r.sampler, 0)

	gl.BindVertexArray(r.vao)
	gl.DrawElements(glpkg.Triangles, int32(len(quadIndices)), glpkg.UnsignedInt, 0)
	gl.BindVertexArray(0)
	gl.UseProgram(0)

	if m, ok := target.(renderedMarker); ok {
		m.MarkRendered()
	}
	return nil
}

// Close deletes the program, buffers and texture. It is a no-op once the
// graphics context is gone, since the driver has already freed them.
func (r *Renderer) Close() {
	gl, err := r.ctx.GL()
	if err != nil {
		return
	}
	if r.texture != nil {
		r.texture.Release()
		r.texture = nil
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
		r.ebo = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}
