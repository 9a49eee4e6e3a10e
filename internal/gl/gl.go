package gl

import "unsafe"

const (
	// ColorBufferBit is a mask used with Clear to clear the color buffer.
	ColorBufferBit = 0x00004000
	// DepthBufferBit is a mask used with Clear to clear the depth buffer.
	DepthBufferBit = 0x00000100

	// Texture2D is the texture target for 2D textures.
	Texture2D = 0x0DE1
	// Texture0 is the first texture unit for ActiveTexture.
	Texture0 = 0x84C0

	// UnpackAlignment specifies the alignment requirements for pixel data
	// when uploading textures (PixelStorei).
	UnpackAlignment = 0x0CF5

	// TextureWrapS selects the wrapping function for texture coordinate S.
	TextureWrapS = 0x2802
	// TextureWrapT selects the wrapping function for texture coordinate T.
	TextureWrapT = 0x2803

	// TextureMinFilter selects the texture minification filter.
	TextureMinFilter = 0x2801
	// TextureMagFilter selects the texture magnification filter.
	TextureMagFilter = 0x2800

	// TextureBaseLevel and TextureMaxLevel bound the mipmap chain of a texture.
	TextureBaseLevel = 0x813C
	TextureMaxLevel  = 0x813D

	// Nearest selects nearest-neighbor filtering.
	Nearest = 0x2600
	// Linear selects linear filtering.
	Linear = 0x2601

	// Repeat wraps texture coordinates around the texture.
	Repeat = 0x2901
	// ClampToEdge clamps texture coordinates to the edge of the texture.
	ClampToEdge = 0x812F

	// RGBA is a pixel format representing red/green/blue/alpha.
	RGBA = 0x1908
	// RGBA8 is the sized internal format with 8 bits per channel.
	RGBA8 = 0x8058
	// Depth24Stencil8 is the packed depth/stencil renderbuffer format.
	Depth24Stencil8 = 0x88F0

	// UnsignedByte is a pixel data type indicating 8-bit unsigned values.
	UnsignedByte = 0x1401
	// UnsignedInt is the index type for 32-bit element indices.
	UnsignedInt = 0x1405
	// Float is the vertex attribute type for 32-bit floats.
	Float = 0x1406

	// Triangles is the primitive type for independent triangles.
	Triangles = 0x0004

	// Buffer targets and usage.
	ArrayBuffer        = 0x8892
	ElementArrayBuffer = 0x8893
	StaticDraw         = 0x88E4

	// Shader stages and object queries.
	FragmentShader = 0x8B30
	VertexShader   = 0x8B31
	CompileStatus  = 0x8B81
	LinkStatus     = 0x8B82
	InfoLogLength  = 0x8B84

	// Framebuffer objects.
	Framebuffer            = 0x8D40
	Renderbuffer           = 0x8D41
	ColorAttachment0       = 0x8CE0
	DepthStencilAttachment = 0x821A
	FramebufferComplete    = 0x8CD5

	// Capabilities and comparison functions.
	DepthTest = 0x0B71
	CullFace  = 0x0B44
	Always    = 0x0207

	// GetString parameters.
	//
	// Vendor returns the company responsible for the GL implementation.
	Vendor = 0x1F00
	// Renderer returns the name of the renderer, typically the GPU.
	Renderer = 0x1F01
	// Version returns the GL version string of the current context.
	Version = 0x1F02

	// NoError is returned by GetError and GetGraphicsResetStatus when nothing
	// is pending.
	NoError = 0

	// Graphics reset statuses reported on a robust context.
	GuiltyContextReset   = 0x8253
	InnocentContextReset = 0x8254
	UnknownContextReset  = 0x8255
)

// OpenGL describes the subset of OpenGL 3.x core entry points used by this
// module.
//
// All methods are expected to operate on the currently current GL context for
// the calling thread.
type OpenGL interface {
	// ClearColor sets the clear color used by Clear when clearing the color buffer.
	ClearColor(r, g, b, a float32)

	// ClearDepth sets the value the depth buffer is cleared to.
	ClearDepth(depth float64)

	// Clear clears buffers to preset values (e.g., ColorBufferBit).
	Clear(mask uint32)

	// Viewport sets the affine transformation of x and y from normalized device
	// coordinates to window coordinates.
	Viewport(x, y, width, height int32)

	// Enable enables a server-side GL capability (e.g., DepthTest).
	Enable(cap uint32)

	// Disable disables a server-side GL capability.
	Disable(cap uint32)

	// DepthFunc selects the depth comparison function.
	DepthFunc(fn uint32)

	// DepthMask enables or disables writing into the depth buffer.
	DepthMask(flag bool)

	// GenTextures generates texture object names.
	GenTextures(n int32, textures *uint32)

	// DeleteTextures deletes named textures.
	DeleteTextures(n int32, textures *uint32)

	// BindTexture binds a named texture to a texturing target (e.g., Texture2D).
	BindTexture(target, texture uint32)

	// ActiveTexture selects the texture unit subsequent BindTexture calls affect.
	ActiveTexture(unit uint32)

	// TexImage2D specifies a two-dimensional texture image.
	//
	// The pixels pointer may be nil to allocate storage without uploading data.
	TexImage2D(
		target uint32,
		level int32,
		internalformat int32,
		width int32,
		height int32,
		border int32,
		format uint32,
		xtype uint32,
		pixels unsafe.Pointer,
	)

	// TexParameteri sets texture parameters for the currently bound texture.
	TexParameteri(target, pname uint32, param int32)

	// PixelStorei sets pixel storage modes (e.g., UnpackAlignment).
	PixelStorei(pname uint32, param int32)

	GenBuffers(n int32, buffers *uint32)
	DeleteBuffers(n int32, buffers *uint32)
	BindBuffer(target, buffer uint32)

	// BufferData creates and initializes the data store of the bound buffer.
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)

	GenVertexArrays(n int32, arrays *uint32)
	DeleteVertexArrays(n int32, arrays *uint32)
	BindVertexArray(array uint32)
	EnableVertexAttribArray(index uint32)

	// VertexAttribPointer describes the layout of a vertex attribute inside the
	// bound array buffer. offset is a byte offset into that buffer.
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)

	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader, pname uint32, params *int32)

	// GetShaderInfoLog returns the compiler log of a shader.
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)

	// BindAttribLocation assigns a vertex attribute index before linking.
	BindAttribLocation(program, index uint32, name string)

	// BindFragDataLocation assigns a fragment output to a draw buffer before linking.
	BindFragDataLocation(program, color uint32, name string)
	LinkProgram(program uint32)
	GetProgramiv(program, pname uint32, params *int32)

	// GetProgramInfoLog returns the linker log of a program.
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)

	// DrawElements renders primitives from the bound element array buffer.
	DrawElements(mode uint32, count int32, xtype uint32, offset uintptr)

	GenFramebuffers(n int32, framebuffers *uint32)
	DeleteFramebuffers(n int32, framebuffers *uint32)
	BindFramebuffer(target, framebuffer uint32)
	FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32)
	FramebufferRenderbuffer(target, attachment, renderbuffertarget, renderbuffer uint32)

	// CheckFramebufferStatus returns FramebufferComplete when the bound
	// framebuffer can be rendered into.
	CheckFramebufferStatus(target uint32) uint32

	GenRenderbuffers(n int32, renderbuffers *uint32)
	DeleteRenderbuffers(n int32, renderbuffers *uint32)
	BindRenderbuffer(target, renderbuffer uint32)
	RenderbufferStorage(target, internalformat uint32, width, height int32)

	// GetError returns and clears the oldest recorded error flag.
	GetError() uint32

	// GetGraphicsResetStatus reports whether the context was lost since the last
	// call. It returns NoError when the driver does not expose robustness.
	GetGraphicsResetStatus() uint32

	// GetString returns a string describing a GL property for the current context.
	//
	// Common names are Vendor, Renderer and Version.
	// If the name is not recognized or no context is current, implementations may
	// return the empty string.
	GetString(name uint32) string
}

func gostring(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	var bytes []byte
	for p := ptr; *p != 0; p = (*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + 1)) {
		bytes = append(bytes, *p)
	}
	return string(bytes)
}

func cString(s string) []byte {
	return append([]byte(s), 0)
}
