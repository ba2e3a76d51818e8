// Package program owns the lifecycle of one linked GPU shader program and the
// full-screen quad geometry it draws. It knows nothing about what is being
// rendered; callers decide sources, uniforms and scheduling.
package program

import (
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/quadtone/fragstage/uniform"
)

// The quad's corner positions, drawn as a 4-vertex triangle strip.
var quadVertices = []float32{
	-1.0, -1.0,
	1.0, -1.0,
	-1.0, 1.0,
	1.0, 1.0,
}

// Manager is a compiled and linked shader program together with its quad
// VAO/VBO and a cache of resolved uniform locations. Exactly one Manager is
// live per surface; Managers are never pooled or shared.
type Manager struct {
	handle    uint32
	vao       uint32
	vbo       uint32
	locations map[string]int32
	released  bool
}

// Compile builds a Manager from a vertex and fragment source pair. On any
// failure the partially created GL objects are deleted before returning, so
// a failed Compile leaves nothing for the caller to release.
func Compile(vertexSrc, fragmentSrc string) (*Manager, error) {
	vs, err := compileStage(vertexSrc, gl.VERTEX_SHADER, StageVertex)
	if err != nil {
		return nil, err
	}
	fs, err := compileStage(fragmentSrc, gl.FRAGMENT_SHADER, StageFragment)
	if err != nil {
		gl.DeleteShader(vs)
		return nil, err
	}

	handle, err := link(vs, fs)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		handle:    handle,
		locations: make(map[string]int32),
	}
	m.initQuad()
	return m, nil
}

func compileStage(source string, shaderType uint32, stage Stage) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		log := shaderInfoLog(shader)
		gl.DeleteShader(shader)
		return 0, &CompileError{Stage: stage, Log: log}
	}
	return shader, nil
}

// link combines the two stages into one program. The shader objects are no
// longer needed after linking and are detached and deleted on both paths.
func link(vertexShader, fragmentShader uint32) (uint32, error) {
	handle := gl.CreateProgram()
	gl.AttachShader(handle, vertexShader)
	gl.AttachShader(handle, fragmentShader)
	gl.LinkProgram(handle)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)

	gl.DetachShader(handle, vertexShader)
	gl.DetachShader(handle, fragmentShader)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	if status == gl.FALSE {
		log := programInfoLog(handle)
		gl.DeleteProgram(handle)
		return 0, &LinkError{Log: log}
	}
	return handle, nil
}

func (m *Manager) initQuad() {
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// Use binds the program for subsequent uniform writes and draws.
func (m *Manager) Use() {
	gl.UseProgram(m.handle)
}

// SetUniform writes a value to the named uniform slot using the
// arity-matching float write. Names the linked program does not declare
// resolve to location -1 and the write is a silent no-op; generators may
// legally emit uniforms a particular shader variant never uses.
func (m *Manager) SetUniform(name string, v uniform.Value) {
	loc := m.location(name)
	if loc < 0 {
		return
	}
	f := v.Floats()
	switch v.Arity() {
	case 1:
		gl.Uniform1f(loc, f[0])
	case 2:
		gl.Uniform2f(loc, f[0], f[1])
	case 3:
		gl.Uniform3f(loc, f[0], f[1], f[2])
	case 4:
		gl.Uniform4f(loc, f[0], f[1], f[2], f[3])
	}
}

// location resolves a uniform name to its slot, caching the result so a
// draw-per-frame caller does not pay a driver round-trip per uniform.
func (m *Manager) location(name string) int32 {
	if loc, ok := m.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(m.handle, gl.Str(name+"\x00"))
	m.locations[name] = loc
	return loc
}

// Draw issues the full-screen quad as a 4-vertex triangle strip.
func (m *Manager) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

// Valid reports whether the program is linked and still owned.
func (m *Manager) Valid() bool {
	return !m.released && m.handle != 0
}

// Release deletes the program and quad buffers. Safe to call more than once.
func (m *Manager) Release() {
	if m.released {
		return
	}
	m.released = true
	gl.DeleteProgram(m.handle)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
	m.handle = 0
	m.locations = nil
}

func shaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func programInfoLog(handle uint32) string {
	var logLength int32
	gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}
