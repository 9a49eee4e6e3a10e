package gl

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ProcAddressFunc resolves a GL entry point by name for the current context.
// It returns 0 when the entry point is unavailable.
type ProcAddressFunc func(name string) uintptr

// The loader binds entry points resolved through the platform's
// GetProcAddress so that the same table works for GLX, WGL, CGL and GLFW.
type openGL struct {
	clearColor              func(float32, float32, float32, float32)
	clearDepth              func(float64)
	clear                   func(uint32)
	viewport                func(int32, int32, int32, int32)
	enable                  func(uint32)
	disable                 func(uint32)
	depthFunc               func(uint32)
	depthMask               func(bool)
	genTextures             func(int32, *uint32)
	deleteTextures          func(int32, *uint32)
	bindTexture             func(uint32, uint32)
	activeTexture           func(uint32)
	texImage2D              func(uint32, int32, int32, int32, int32, int32, uint32, uint32, unsafe.Pointer)
	texParameteri           func(uint32, uint32, int32)
	pixelStorei             func(uint32, int32)
	genBuffers              func(int32, *uint32)
	deleteBuffers           func(int32, *uint32)
	bindBuffer              func(uint32, uint32)
	bufferData              func(uint32, int, unsafe.Pointer, uint32)
	genVertexArrays         func(int32, *uint32)
	deleteVertexArrays      func(int32, *uint32)
	bindVertexArray         func(uint32)
	enableVertexAttribArray func(uint32)
	vertexAttribPointer     func(uint32, int32, uint32, bool, int32, uintptr)
	createShader            func(uint32) uint32
	shaderSource            func(uint32, int32, **byte, *int32)
	compileShader           func(uint32)
	getShaderiv             func(uint32, uint32, *int32)
	getShaderInfoLog        func(uint32, int32, *int32, *byte)
	deleteShader            func(uint32)
	createProgram           func() uint32
	attachShader            func(uint32, uint32)
	bindAttribLocation      func(uint32, uint32, *byte)
	bindFragDataLocation    func(uint32, uint32, *byte)
	linkProgram             func(uint32)
	getProgramiv            func(uint32, uint32, *int32)
	getProgramInfoLog       func(uint32, int32, *int32, *byte)
	useProgram              func(uint32)
	deleteProgram           func(uint32)
	getUniformLocation      func(uint32, *byte) int32
	uniform1i               func(int32, int32)
	drawElements            func(uint32, int32, uint32, uintptr)
	genFramebuffers         func(int32, *uint32)
	deleteFramebuffers      func(int32, *uint32)
	bindFramebuffer         func(uint32, uint32)
	framebufferTexture2D    func(uint32, uint32, uint32, uint32, int32)
	framebufferRenderbuffer func(uint32, uint32, uint32, uint32)
	checkFramebufferStatus  func(uint32) uint32
	genRenderbuffers        func(int32, *uint32)
	deleteRenderbuffers     func(int32, *uint32)
	bindRenderbuffer        func(uint32, uint32)
	renderbufferStorage     func(uint32, uint32, int32, int32)
	getError                func() uint32
	getGraphicsResetStatus  func() uint32
	getString               func(uint32) *byte
}

func (gl *openGL) ClearColor(r, g, b, a float32) {
	gl.clearColor(r, g, b, a)
}

func (gl *openGL) ClearDepth(depth float64) {
	gl.clearDepth(depth)
}

func (gl *openGL) Clear(mask uint32) {
	gl.clear(mask)
}

func (gl *openGL) Viewport(x, y, width, height int32) {
	gl.viewport(x, y, width, height)
}

func (gl *openGL) Enable(cap uint32) {
	gl.enable(cap)
}

func (gl *openGL) Disable(cap uint32) {
	gl.disable(cap)
}

func (gl *openGL) DepthFunc(fn uint32) {
	gl.depthFunc(fn)
}

func (gl *openGL) DepthMask(flag bool) {
	gl.depthMask(flag)
}

func (gl *openGL) GenTextures(n int32, textures *uint32) {
	gl.genTextures(n, textures)
}

func (gl *openGL) DeleteTextures(n int32, textures *uint32) {
	gl.deleteTextures(n, textures)
}

func (gl *openGL) BindTexture(target, texture uint32) {
	gl.bindTexture(target, texture)
}

func (gl *openGL) ActiveTexture(unit uint32) {
	gl.activeTexture(unit)
}

func (gl *openGL) TexImage2D(target uint32, level, internalFormat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.texImage2D(target, level, internalFormat, width, height, border, format, xtype, pixels)
}

func (gl *openGL) TexParameteri(target, pname uint32, param int32) {
	gl.texParameteri(target, pname, param)
}

func (gl *openGL) PixelStorei(pname uint32, param int32) {
	gl.pixelStorei(pname, param)
}

func (gl *openGL) GenBuffers(n int32, buffers *uint32) {
	gl.genBuffers(n, buffers)
}

func (gl *openGL) DeleteBuffers(n int32, buffers *uint32) {
	gl.deleteBuffers(n, buffers)
}

func (gl *openGL) BindBuffer(target, buffer uint32) {
	gl.bindBuffer(target, buffer)
}

func (gl *openGL) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	gl.bufferData(target, size, data, usage)
}

func (gl *openGL) GenVertexArrays(n int32, arrays *uint32) {
	gl.genVertexArrays(n, arrays)
}

func (gl *openGL) DeleteVertexArrays(n int32, arrays *uint32) {
	gl.deleteVertexArrays(n, arrays)
}

func (gl *openGL) BindVertexArray(array uint32) {
	gl.bindVertexArray(array)
}

func (gl *openGL) EnableVertexAttribArray(index uint32) {
	gl.enableVertexAttribArray(index)
}

func (gl *openGL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.vertexAttribPointer(index, size, xtype, normalized, stride, offset)
}

func (gl *openGL) CreateShader(xtype uint32) uint32 {
	return gl.createShader(xtype)
}

func (gl *openGL) ShaderSource(shader uint32, source string) {
	src := cString(source)
	ptr := &src[0]
	gl.shaderSource(shader, 1, &ptr, nil)
	runtime.KeepAlive(src)
}

func (gl *openGL) CompileShader(shader uint32) {
	gl.compileShader(shader)
}

func (gl *openGL) GetShaderiv(shader, pname uint32, params *int32) {
	gl.getShaderiv(shader, pname, params)
}

func (gl *openGL) GetShaderInfoLog(shader uint32) string {
	var n int32
	gl.getShaderiv(shader, InfoLogLength, &n)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	gl.getShaderInfoLog(shader, n, nil, &buf[0])
	return gostring(&buf[0])
}

func (gl *openGL) DeleteShader(shader uint32) {
	gl.deleteShader(shader)
}

func (gl *openGL) CreateProgram() uint32 {
	return gl.createProgram()
}

func (gl *openGL) AttachShader(program, shader uint32) {
	gl.attachShader(program, shader)
}

func (gl *openGL) BindAttribLocation(program, index uint32, name string) {
	cs := cString(name)
	gl.bindAttribLocation(program, index, &cs[0])
}

func (gl *openGL) BindFragDataLocation(program, color uint32, name string) {
	cs := cString(name)
	gl.bindFragDataLocation(program, color, &cs[0])
}

func (gl *openGL) LinkProgram(program uint32) {
	gl.linkProgram(program)
}

func (gl *openGL) GetProgramiv(program, pname uint32, params *int32) {
	gl.getProgramiv(program, pname, params)
}

func (gl *openGL) GetProgramInfoLog(program uint32) string {
	var n int32
	gl.getProgramiv(program, InfoLogLength, &n)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	gl.getProgramInfoLog(program, n, nil, &buf[0])
	return gostring(&buf[0])
}

func (gl *openGL) UseProgram(program uint32) {
	gl.useProgram(program)
}

func (gl *openGL) DeleteProgram(program uint32) {
	gl.deleteProgram(program)
}

func (gl *openGL) GetUniformLocation(program uint32, name string) int32 {
	cs := cString(name)
	return gl.getUniformLocation(program, &cs[0])
}

func (gl *openGL) Uniform1i(location int32, v int32) {
	gl.uniform1i(location, v)
}

func (gl *openGL) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	gl.drawElements(mode, count, xtype, offset)
}

func (gl *openGL) GenFramebuffers(n int32, framebuffers *uint32) {
	gl.genFramebuffers(n, framebuffers)
}

func (gl *openGL) DeleteFramebuffers(n int32, framebuffers *uint32) {
	gl.deleteFramebuffers(n, framebuffers)
}

func (gl *openGL) BindFramebuffer(target, framebuffer uint32) {
	gl.bindFramebuffer(target, framebuffer)
}

func (gl *openGL) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	gl.framebufferTexture2D(target, attachment, textarget, texture, level)
}

func (gl *openGL) FramebufferRenderbuffer(target, attachment, renderbuffertarget, renderbuffer uint32) {
	gl.framebufferRenderbuffer(target, attachment, renderbuffertarget, renderbuffer)
}

func (gl *openGL) CheckFramebufferStatus(target uint32) uint32 {
	return gl.checkFramebufferStatus(target)
}

func (gl *openGL) GenRenderbuffers(n int32, renderbuffers *uint32) {
	gl.genRenderbuffers(n, renderbuffers)
}

func (gl *openGL) DeleteRenderbuffers(n int32, renderbuffers *uint32) {
	gl.deleteRenderbuffers(n, renderbuffers)
}

func (gl *openGL) BindRenderbuffer(target, renderbuffer uint32) {
	gl.bindRenderbuffer(target, renderbuffer)
}

func (gl *openGL) RenderbufferStorage(target, internalformat uint32, width, height int32) {
	gl.renderbufferStorage(target, internalformat, width, height)
}

func (gl *openGL) GetError() uint32 {
	return gl.getError()
}

func (gl *openGL) GetGraphicsResetStatus() uint32 {
	if gl.getGraphicsResetStatus == nil {
		return NoError
	}
	return gl.getGraphicsResetStatus()
}

func (gl *openGL) GetString(name uint32) string {
	return gostring(gl.getString(name))
}

// Load resolves every entry point through procAddress and returns the bound
// table. A context must be current on the calling thread.
func Load(procAddress ProcAddressFunc) (OpenGL, error) {
	gl := &openGL{}

	var missing []string
	register := func(dst interface{}, names ...string) {
		for _, name := range names {
			if ptr := procAddress(name); ptr != 0 {
				purego.RegisterFunc(dst, ptr)
				return
			}
		}
		missing = append(missing, names[0])
	}

	register(&gl.clearColor, "glClearColor")
	register(&gl.clearDepth, "glClearDepth")
	register(&gl.clear, "glClear")
	register(&gl.viewport, "glViewport")
	register(&gl.enable, "glEnable")
	register(&gl.disable, "glDisable")
	register(&gl.depthFunc, "glDepthFunc")
	register(&gl.depthMask, "glDepthMask")
	register(&gl.genTextures, "glGenTextures")
	register(&gl.deleteTextures, "glDeleteTextures")
	register(&gl.bindTexture, "glBindTexture")
	register(&gl.activeTexture, "glActiveTexture")
	register(&gl.texImage2D, "glTexImage2D")
	register(&gl.texParameteri, "glTexParameteri")
	register(&gl.pixelStorei, "glPixelStorei")
	register(&gl.genBuffers, "glGenBuffers")
	register(&gl.deleteBuffers, "glDeleteBuffers")
	register(&gl.bindBuffer, "glBindBuffer")
	register(&gl.bufferData, "glBufferData")
	register(&gl.genVertexArrays, "glGenVertexArrays")
	register(&gl.deleteVertexArrays, "glDeleteVertexArrays")
	register(&gl.bindVertexArray, "glBindVertexArray")
	register(&gl.enableVertexAttribArray, "glEnableVertexAttribArray")
	register(&gl.vertexAttribPointer, "glVertexAttribPointer")
	register(&gl.createShader, "glCreateShader")
	register(&gl.shaderSource, "glShaderSource")
	register(&gl.compileShader, "glCompileShader")
	register(&gl.getShaderiv, "glGetShaderiv")
	register(&gl.getShaderInfoLog, "glGetShaderInfoLog")
	register(&gl.deleteShader, "glDeleteShader")
	register(&gl.createProgram, "glCreateProgram")
	register(&gl.attachShader, "glAttachShader")
	register(&gl.bindAttribLocation, "glBindAttribLocation")
	register(&gl.bindFragDataLocation, "glBindFragDataLocation")
	register(&gl.linkProgram, "glLinkProgram")
	register(&gl.getProgramiv, "glGetProgramiv")
	register(&gl.getProgramInfoLog, "glGetProgramInfoLog")
	register(&gl.useProgram, "glUseProgram")
	register(&gl.deleteProgram, "glDeleteProgram")
	register(&gl.getUniformLocation, "glGetUniformLocation")
	register(&gl.uniform1i, "glUniform1i")
	register(&gl.drawElements, "glDrawElements")
	register(&gl.genFramebuffers, "glGenFramebuffers")
	register(&gl.deleteFramebuffers, "glDeleteFramebuffers")
	register(&gl.bindFramebuffer, "glBindFramebuffer")
	register(&gl.framebufferTexture2D, "glFramebufferTexture2D")
	register(&gl.framebufferRenderbuffer, "glFramebufferRenderbuffer")
	register(&gl.checkFramebufferStatus, "glCheckFramebufferStatus")
	register(&gl.genRenderbuffers, "glGenRenderbuffers")
	register(&gl.deleteRenderbuffers, "glDeleteRenderbuffers")
	register(&gl.bindRenderbuffer, "glBindRenderbuffer")
	register(&gl.renderbufferStorage, "glRenderbufferStorage")
	register(&gl.getError, "glGetError")
	register(&gl.getString, "glGetString")

	if len(missing) > 0 {
		return nil, fmt.Errorf("gl: missing entry points %v", missing)
	}

	// Robustness is optional: core 4.5, or ARB/KHR extensions on older drivers.
	for _, name := range []string{"glGetGraphicsResetStatus", "glGetGraphicsResetStatusARB", "glGetGraphicsResetStatusKHR"} {
		if ptr := procAddress(name); ptr != 0 {
			purego.RegisterFunc(&gl.getGraphicsResetStatus, ptr)
			break
		}
	}

	return gl, nil
}
