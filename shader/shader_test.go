package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFragmentPreamble(t *testing.T) {
	p := FragmentPreamble("uniform float u_zoom;", "uniform vec3 u_colorA;")

	assert.True(t, strings.HasPrefix(p, "#version 410 core\n"))
	assert.Contains(t, p, "in vec2 v_uv;")
	assert.Contains(t, p, "out vec4 fragColor;")
	for _, builtin := range []string{UniformTime, UniformResolution, UniformFrame} {
		assert.Contains(t, p, builtin)
	}
	assert.Contains(t, p, "uniform float u_zoom;\n")
	assert.Contains(t, p, "uniform vec3 u_colorA;\n")
}

func TestVertexSourceContract(t *testing.T) {
	assert.Contains(t, VertexSource, "out vec2 v_uv;")
	assert.Contains(t, VertexSource, "in_vert * 0.5 + 0.5")
}

func TestIsBuiltin(t *testing.T) {
	assert.True(t, IsBuiltin("u_time"))
	assert.True(t, IsBuiltin("u_resolution"))
	assert.True(t, IsBuiltin("u_frame"))
	assert.False(t, IsBuiltin("u_zoom"))
	assert.False(t, IsBuiltin(""))
}
