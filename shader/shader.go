// Package shader holds the fixed vertex-stage contract and the helpers
// generators use to assemble complete fragment sources against it.
package shader

import "strings"

// Built-in uniform names the surface writes on every draw. A custom uniform
// set must not rely on these names: the surface applies built-ins last, so a
// colliding custom value always loses.
const (
	UniformTime       = "u_time"
	UniformResolution = "u_resolution"
	UniformFrame      = "u_frame"
)

// VertexSource is the library-owned full-screen-quad passthrough. It maps the
// quad corners to clip space and hands the fragment stage a v_uv varying in
// [0,1]². Only the fragment stage ever varies per generator.
const VertexSource = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 v_uv;
void main() {
    v_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// fragmentHeader declares the varying, output and built-in uniforms every
// generated fragment program starts from.
const fragmentHeader = `#version 410 core
in vec2 v_uv;
out vec4 fragColor;

uniform float u_time;
uniform vec2  u_resolution;
uniform float u_frame;
`

// FragmentPreamble returns the common fragment header followed by the given
// extra uniform declarations, one per line.
func FragmentPreamble(decls ...string) string {
	var b strings.Builder
	b.WriteString(fragmentHeader)
	for _, d := range decls {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}

// IsBuiltin reports whether name is one of the surface-owned uniforms.
func IsBuiltin(name string) bool {
	switch name {
	case UniformTime, UniformResolution, UniformFrame:
		return true
	}
	return false
}
