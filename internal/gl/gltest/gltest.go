// Package gltest provides an in-memory gl.OpenGL that records calls, for
// tests of code that drives a GL context.
package gltest

import (
	"fmt"
	"unsafe"

	"github.com/tinyrange/vrharness/internal/gl"
)

// GL records every call by name and hands out object names from a counter.
// It keeps no pixel state.
type GL struct {
	// Calls lists the entry points invoked, in order.
	Calls []string

	// Strings answers GetString.
	Strings map[uint32]string

	// Errors are returned by GetError in order, then gl.NoError.
	Errors []uint32

	// ErrorOn queues an error code as soon as the named call is recorded.
	ErrorOn map[string]uint32

	// ResetStatus is returned by GetGraphicsResetStatus.
	ResetStatus uint32

	// FramebufferStatus is returned by CheckFramebufferStatus;
	// zero means gl.FramebufferComplete.
	FramebufferStatus uint32

	// CompileLog, when non-empty, fails every shader compile with this log.
	CompileLog string
	// LinkLog, when non-empty, fails every program link with this log.
	LinkLog string

	// Live holds every object name that has been created and not deleted,
	// mapped to its kind.
	Live map[uint32]string

	// Framebuffer is the currently bound framebuffer.
	Framebuffer uint32
	// View is the last viewport set.
	View [4]int32

	next uint32
}

var _ gl.OpenGL = (*GL)(nil)

func New() *GL {
	return &GL{
		Strings: map[uint32]string{
			gl.Vendor:   "gltest",
			gl.Renderer: "gltest renderer",
			gl.Version:  "3.2.0 gltest",
		},
		Live: make(map[uint32]string),
	}
}

func (g *GL) record(name string) {
	g.Calls = append(g.Calls, name)
	if code, ok := g.ErrorOn[name]; ok {
		g.Errors = append(g.Errors, code)
	}
}

func (g *GL) gen(kind string, n int32, out *uint32) {
	names := unsafe.Slice(out, n)
	for i := range names {
		g.next++
		names[i] = g.next
		g.Live[g.next] = kind
	}
}

func (g *GL) del(n int32, in *uint32) {
	for _, name := range unsafe.Slice(in, n) {
		delete(g.Live, name)
	}
}

// Count returns how many live objects of kind exist.
func (g *GL) Count(kind string) int {
	n := 0
	for _, k := range g.Live {
		if k == kind {
			n++
		}
	}
	return n
}

// Called reports whether name was invoked.
func (g *GL) Called(name string) bool {
	for _, c := range g.Calls {
		if c == name {
			return true
		}
	}
	return false
}

func (g *GL) ClearColor(r, gg, b, a float32) {
	g.record(fmt.Sprintf("ClearColor(%g,%g,%g,%g)", r, gg, b, a))
}
func (g *GL) ClearDepth(float64) { g.record("ClearDepth") }
func (g *GL) Clear(uint32) { g.record("Clear") }
func (g *GL) Enable(cap uint32) { g.record(fmt.Sprintf("Enable(0x%x)", cap)) }
func (g *GL) Disable(cap uint32) { g.record(fmt.Sprintf("Disable(0x%x)", cap)) }
func (g *GL) DepthFunc(fn uint32) { g.record(fmt.Sprintf("DepthFunc(0x%x)", fn)) }
func (g *GL) DepthMask(flag bool) { g.record(fmt.Sprintf("DepthMask(%t)", flag)) }
func (g *GL) ActiveTexture(uint32) { g.record("ActiveTexture") }
func (g *GL) PixelStorei(uint32, int32) { g.record("PixelStorei") }

func (g *GL) Viewport(x, y, width, height int32) {
	g.record("Viewport")
	g.View = [4]int32{x, y, width, height}
}

func (g *GL) GenTextures(n int32, textures *uint32) {
	g.record("GenTextures")
	g.gen("texture", n, textures)
}

func (g *GL) DeleteTextures(n int32, textures *uint32) {
	g.record("DeleteTextures")
	g.del(n, textures)
}

func (g *GL) BindTexture(uint32, uint32) { g.record("BindTexture") }

func (g *GL) TexImage2D(uint32, int32, int32, int32, int32, int32, uint32, uint32, unsafe.Pointer) {
	g.record("TexImage2D")
}

func (g *GL) TexParameteri(uint32, uint32, int32) { g.record("TexParameteri") }

func (g *GL) GenBuffers(n int32, buffers *uint32) {
	g.record("GenBuffers")
	g.gen("buffer", n, buffers)
}

func (g *GL) DeleteBuffers(n int32, buffers *uint32) {
	g.record("DeleteBuffers")
	g.del(n, buffers)
}

func (g *GL) BindBuffer(uint32, uint32) { g.record("BindBuffer") }
func (g *GL) BufferData(uint32, int, unsafe.Pointer, uint32) { g.record("BufferData") }
func (g *GL) BindVertexArray(uint32) { g.record("BindVertexArray") }
func (g *GL) EnableVertexAttribArray(uint32) { g.record("EnableVertexAttribArray") }
func (g *GL) VertexAttribPointer(uint32, int32, uint32, bool, int32, uintptr) {
	g.record("VertexAttribPointer")
}

func (g *GL) GenVertexArrays(n int32, arrays *uint32) {
	g.record("GenVertexArrays")
	g.gen("vertex array", n, arrays)
}

func (g *GL) DeleteVertexArrays(n int32, arrays *uint32) {
	g.record("DeleteVertexArrays")
	g.del(n, arrays)
}

func (g *GL) CreateShader(uint32) uint32 {
	g.record("CreateShader")
	var name uint32
	g.gen("shader", 1, &name)
	return name
}

func (g *GL) ShaderSource(uint32, string) { g.record("ShaderSource") }
func (g *GL) CompileShader(uint32) { g.record("CompileShader") }

func (g *GL) GetShaderiv(_ uint32, pname uint32, params *int32) {
	g.record("GetShaderiv")
	if pname == gl.CompileStatus {
		*params = boolInt(g.CompileLog == "")
	}
}

func (g *GL) GetShaderInfoLog(uint32) string { return g.CompileLog }

func (g *GL) DeleteShader(shader uint32) {
	g.record("DeleteShader")
	delete(g.Live, shader)
}

func (g *GL) CreateProgram() uint32 {
	g.record("CreateProgram")
	var name uint32
	g.gen("program", 1, &name)
	return name
}

func (g *GL) AttachShader(uint32, uint32) { g.record("AttachShader") }
func (g *GL) BindAttribLocation(uint32, uint32, string) { g.record("BindAttribLocation") }
func (g *GL) BindFragDataLocation(uint32, uint32, string) { g.record("BindFragDataLocation") }
func (g *GL) LinkProgram(uint32) { g.record("LinkProgram") }

func (g *GL) GetProgramiv(_ uint32, pname uint32, params *int32) {
	g.record("GetProgramiv")
	if pname == gl.LinkStatus {
		*params = boolInt(g.LinkLog == "")
	}
}

func (g *GL) GetProgramInfoLog(uint32) string { return g.LinkLog }
func (g *GL) UseProgram(uint32) { g.record("UseProgram") }

func (g *GL) DeleteProgram(program uint32) {
	g.record("DeleteProgram")
	delete(g.Live, program)
}

func (g *GL) GetUniformLocation(uint32, string) int32 { return 0 }
func (g *GL) Uniform1i(int32, int32) { g.record("Uniform1i") }

func (g *GL) DrawElements(mode uint32, count int32, _ uint32, _ uintptr) {
	g.record(fmt.Sprintf("DrawElements(0x%x,%d)", mode, count))
}

func (g *GL) GenFramebuffers(n int32, framebuffers *uint32) {
	g.record("GenFramebuffers")
	g.gen("framebuffer", n, framebuffers)
}

func (g *GL) DeleteFramebuffers(n int32, framebuffers *uint32) {
	g.record("DeleteFramebuffers")
	g.del(n, framebuffers)
}

func (g *GL) BindFramebuffer(_ uint32, framebuffer uint32) {
	g.record(fmt.Sprintf("BindFramebuffer(%d)", framebuffer))
	g.Framebuffer = framebuffer
}

func (g *GL) FramebufferTexture2D(uint32, uint32, uint32, uint32, int32) {
	g.record("FramebufferTexture2D")
}

func (g *GL) FramebufferRenderbuffer(uint32, uint32, uint32, uint32) {
	g.record("FramebufferRenderbuffer")
}

func (g *GL) CheckFramebufferStatus(uint32) uint32 {
	g.record("CheckFramebufferStatus")
	if g.FramebufferStatus == 0 {
		return gl.FramebufferComplete
	}
	return g.FramebufferStatus
}

func (g *GL) GenRenderbuffers(n int32, renderbuffers *uint32) {
	g.record("GenRenderbuffers")
	g.gen("renderbuffer", n, renderbuffers)
}

func (g *GL) DeleteRenderbuffers(n int32, renderbuffers *uint32) {
	g.record("DeleteRenderbuffers")
	g.del(n, renderbuffers)
}

func (g *GL) BindRenderbuffer(uint32, uint32) { g.record("BindRenderbuffer") }
func (g *GL) RenderbufferStorage(uint32, uint32, int32, int32) { g.record("RenderbufferStorage") }

func (g *GL) GetError() uint32 {
	if len(g.Errors) == 0 {
		return gl.NoError
	}
	code := g.Errors[0]
	g.Errors = g.Errors[1:]
	return code
}

func (g *GL) GetGraphicsResetStatus() uint32 { return g.ResetStatus }

func (g *GL) GetString(name uint32) string { return g.Strings[name] }

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
