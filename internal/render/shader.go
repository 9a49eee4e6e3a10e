package render

import (
	glpkg "github.com/tinyrange/vrharness/internal/gl"
)

func compileShader(gl glpkg.OpenGL, stage uint32, src string) (uint32, error) {
	shader := gl.CreateShader(stage)
	gl.ShaderSource(shader, src)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, glpkg.CompileStatus, &status)
	if status == 0 {
		log := gl.GetShaderInfoLog(shader)
		gl.DeleteShader(shader)
		name := "vertex shader compile"
		if stage == glpkg.FragmentShader {
			name = "fragment shader compile"
		}
		return 0, &ShaderError{Stage: name, Log: log}
	}
	return shader, nil
}

// buildProgram compiles and links the checkerboard program. The position
// attribute and color output are bound to location 0 before linking.
func buildProgram(gl glpkg.OpenGL) (uint32, error) {
	vs, err := compileShader(gl, glpkg.VertexShader, vertexShaderSource)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(gl, glpkg.FragmentShader, fragmentShaderSource)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.BindAttribLocation(program, positionAttrib, "position")
	gl.BindFragDataLocation(program, 0, "color")
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, glpkg.LinkStatus, &status)
	if status == 0 {
		log := gl.GetProgramInfoLog(program)
		gl.DeleteProgram(program)
		return 0, &ShaderError{Stage: "program link", Log: log}
	}
	return program, nil
}
