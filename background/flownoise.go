package background

import (
	"fmt"
	"strings"

	"github.com/quadtone/fragstage/shader"
	"github.com/quadtone/fragstage/uniform"
)

// FlowStyle selects a flow-noise field variant.
type FlowStyle string

const (
	FlowSilk     FlowStyle = "silk"
	FlowSmoke    FlowStyle = "smoke"
	FlowCaustics FlowStyle = "caustics"
)

// FlowParams tune a flow-noise background. Zero fields take the defaults.
// Octaves is clamped to [1,8] and baked into the shader source, so changing
// it costs a recompile; the float params only change uniform values.
type FlowParams struct {
	Palette   Palette
	Octaves   int     // fbm octave count, default 5
	FlowSpeed float32 // default 1
	Warp      float32 // domain-warp strength, default 1
}

var flowDecls = []string{
	"uniform vec3  u_colorA;",
	"uniform vec3  u_colorB;",
	"uniform float u_flowSpeed;",
	"uniform float u_warp;",
}

const flowHelpers = `
vec2 hash22(vec2 p) {
    p = vec2(dot(p, vec2(127.1, 311.7)), dot(p, vec2(269.5, 183.3)));
    return -1.0 + 2.0 * fract(sin(p) * 43758.5453123);
}

float gnoise(vec2 p) {
    vec2 i = floor(p);
    vec2 f = fract(p);
    vec2 u = f * f * (3.0 - 2.0 * f);
    return mix(mix(dot(hash22(i + vec2(0.0, 0.0)), f - vec2(0.0, 0.0)),
                   dot(hash22(i + vec2(1.0, 0.0)), f - vec2(1.0, 0.0)), u.x),
               mix(dot(hash22(i + vec2(0.0, 1.0)), f - vec2(0.0, 1.0)),
                   dot(hash22(i + vec2(1.0, 1.0)), f - vec2(1.0, 1.0)), u.x), u.y);
}

float fbm(vec2 p) {
    float v = 0.0;
    float amp = 0.5;
    for (int i = 0; i < OCTAVES; i++) {
        v += amp * gnoise(p);
        p = p * 2.03 + vec2(17.3, 9.2);
        amp *= 0.5;
    }
    return v;
}
`

var flowBodies = map[FlowStyle]string{
	FlowSilk: `
vec3 scene(vec2 p, float t) {
    float drift = t * 0.1 * u_flowSpeed;
    vec2 q = vec2(fbm(p + vec2(drift, 0.0)), fbm(p + vec2(5.2, 1.3) - drift));
    vec2 r = vec2(fbm(p + q * u_warp * 4.0 + vec2(1.7, 9.2)),
                  fbm(p + q * u_warp * 4.0 + vec2(8.3, 2.8)));
    float v = fbm(p + r * u_warp * 2.0) * 0.5 + 0.5;
    vec3 col = mix(u_colorA, u_colorB, smoothstep(0.2, 0.8, v));
    return col * (0.6 + 0.4 * v);
}
`,
	FlowSmoke: `
vec3 scene(vec2 p, float t) {
    float rise = t * 0.25 * u_flowSpeed;
    vec2 q = p * 1.5 + vec2(0.0, rise);
    float v = fbm(q + u_warp * vec2(fbm(q + rise * 0.3), fbm(q - rise * 0.2)));
    v = v * 0.5 + 0.5;
    float density = smoothstep(0.25, 0.95, v + p.y * 0.15);
    vec3 col = mix(u_colorA, u_colorB, density);
    return col * density;
}
`,
	FlowCaustics: `
vec3 scene(vec2 p, float t) {
    float phase = t * 0.3 * u_flowSpeed;
    vec2 q = p * 2.0;
    float n1 = fbm(q + vec2(phase, -phase * 0.7) * u_warp);
    float n2 = fbm(q * 1.3 - vec2(phase * 0.6, phase) * u_warp);
    float web = 1.0 - abs(n1 - n2) * 4.0;
    web = pow(clamp(web, 0.0, 1.0), 3.0);
    vec3 col = mix(u_colorA, u_colorB, web);
    return col * (0.3 + web);
}
`,
}

const flowMain = `
void main() {
    vec2 p = v_uv * 2.0 - 1.0;
    p.x *= u_resolution.x / u_resolution.y;
    fragColor = vec4(scene(p, u_time), 1.0);
}
`

// FlowNoise synthesizes a flow-noise background for the given style.
func FlowNoise(style FlowStyle, params FlowParams) (Source, error) {
	body, ok := flowBodies[style]
	if !ok {
		return Source{}, fmt.Errorf("background: unknown flow style %q", style)
	}
	colorA, colorB, err := params.Palette.Anchors()
	if err != nil {
		return Source{}, err
	}

	octaves := params.Octaves
	if octaves == 0 {
		octaves = 5
	}
	if octaves < 1 {
		octaves = 1
	}
	if octaves > 8 {
		octaves = 8
	}

	helpers := strings.Replace(flowHelpers, "OCTAVES", fmt.Sprintf("%d", octaves), 1)
	frag := shader.FragmentPreamble(flowDecls...) + helpers + body + flowMain
	return Source{
		Fragment: frag,
		Uniforms: uniform.Set{
			"u_colorA":    uniform.Vec3(colorA[0], colorA[1], colorA[2]),
			"u_colorB":    uniform.Vec3(colorB[0], colorB[1], colorB[2]),
			"u_flowSpeed": uniform.Float(defaultOr(params.FlowSpeed, 1)),
			"u_warp":      uniform.Float(defaultOr(params.Warp, 1)),
		},
	}, nil
}
