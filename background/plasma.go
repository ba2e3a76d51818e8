package background

import (
	"fmt"

	"github.com/quadtone/fragstage/shader"
	"github.com/quadtone/fragstage/uniform"
)

// PlasmaStyle selects a plasma-field variant.
type PlasmaStyle string

const (
	PlasmaClassic  PlasmaStyle = "classic"
	PlasmaSwirl    PlasmaStyle = "swirl"
	PlasmaCellular PlasmaStyle = "cellular"
)

// PlasmaParams tune a plasma background. Zero fields take the defaults.
type PlasmaParams struct {
	Palette    Palette
	Scale      float32 // spatial frequency, default 3
	ColorShift float32 // phase offset into the palette, default 0
	Contrast   float32 // default 1
}

var plasmaDecls = []string{
	"uniform vec3  u_colorA;",
	"uniform vec3  u_colorB;",
	"uniform float u_scale;",
	"uniform float u_shift;",
	"uniform float u_contrast;",
}

var plasmaBodies = map[PlasmaStyle]string{
	PlasmaClassic: `
float field(vec2 p, float t) {
    float v = sin(p.x * u_scale + t);
    v += sin((p.y * u_scale + t) * 0.7);
    v += sin((p.x + p.y) * u_scale * 0.6 + t * 1.3);
    v += sin(length(p) * u_scale * 1.2 - t);
    return v * 0.25;
}
`,
	PlasmaSwirl: `
float field(vec2 p, float t) {
    float r = length(p);
    float a = atan(p.y, p.x) + r * 2.0 - t * 0.5;
    vec2 q = vec2(cos(a), sin(a)) * r;
    float v = sin(q.x * u_scale + t);
    v += sin(q.y * u_scale * 0.8 - t * 0.7);
    v += sin((q.x - q.y) * u_scale * 0.5 + t);
    return v / 3.0;
}
`,
	PlasmaCellular: `
float field(vec2 p, float t) {
    vec2 q = p * u_scale;
    vec2 id = floor(q);
    vec2 f = fract(q);
    float d = 1.0;
    for (int y = -1; y <= 1; y++)
    for (int x = -1; x <= 1; x++) {
        vec2 n = vec2(float(x), float(y));
        vec2 seed = id + n;
        vec2 jitter = fract(sin(vec2(dot(seed, vec2(127.1, 311.7)),
                                     dot(seed, vec2(269.5, 183.3)))) * 43758.5453);
        jitter = 0.5 + 0.5 * sin(t + 6.2831 * jitter);
        d = min(d, length(n + jitter - f));
    }
    return 1.0 - d * 2.0;
}
`,
}

const plasmaMain = `
void main() {
    vec2 p = v_uv * 2.0 - 1.0;
    p.x *= u_resolution.x / u_resolution.y;
    float v = field(p, u_time) * 0.5 + 0.5;
    v = clamp((v - 0.5) * u_contrast + 0.5, 0.0, 1.0);
    vec3 col = mix(u_colorA, u_colorB, fract(v + u_shift));
    fragColor = vec4(col, 1.0);
}
`

// Plasma synthesizes a plasma-field background for the given style.
func Plasma(style PlasmaStyle, params PlasmaParams) (Source, error) {
	body, ok := plasmaBodies[style]
	if !ok {
		return Source{}, fmt.Errorf("background: unknown plasma style %q", style)
	}
	colorA, colorB, err := params.Palette.Anchors()
	if err != nil {
		return Source{}, err
	}

	frag := shader.FragmentPreamble(plasmaDecls...) + body + plasmaMain
	return Source{
		Fragment: frag,
		Uniforms: uniform.Set{
			"u_colorA":   uniform.Vec3(colorA[0], colorA[1], colorA[2]),
			"u_colorB":   uniform.Vec3(colorB[0], colorB[1], colorB[2]),
			"u_scale":    uniform.Float(defaultOr(params.Scale, 3)),
			"u_shift":    uniform.Float(params.ColorShift),
			"u_contrast": uniform.Float(defaultOr(params.Contrast, 1)),
		},
	}, nil
}
