package background

import (
	"fmt"

	"github.com/quadtone/fragstage/shader"
	"github.com/quadtone/fragstage/uniform"
)

// TunnelStyle selects one of the tunnel family's visual modes.
type TunnelStyle string

const (
	TunnelHyperspeed TunnelStyle = "hyperspeed"
	TunnelWormhole   TunnelStyle = "wormhole"
	TunnelSpiral     TunnelStyle = "spiral"
	TunnelRings      TunnelStyle = "rings"
	TunnelGrid       TunnelStyle = "grid"
	TunnelStarfield  TunnelStyle = "starfield"
)

// TunnelParams tune a tunnel background. Zero fields take the documented
// defaults.
type TunnelParams struct {
	Palette   Palette
	Twist     float32 // angular distortion, default 1
	Intensity float32 // brightness scale, default 1
	Zoom      float32 // radial zoom, default 1
}

var tunnelDecls = []string{
	"uniform vec3  u_colorA;",
	"uniform vec3  u_colorB;",
	"uniform float u_twist;",
	"uniform float u_intensity;",
	"uniform float u_zoom;",
}

const tunnelHelpers = `
float hash12(vec2 p) {
    vec3 p3 = fract(vec3(p.xyx) * 0.1031);
    p3 += dot(p3, p3.yzx + 33.33);
    return fract((p3.x + p3.y) * p3.z);
}

mat2 rot2(float a) {
    float c = cos(a), s = sin(a);
    return mat2(c, -s, s, c);
}
`

// Each style contributes a scene(p, t) function; p is centered and
// aspect-corrected, t is shader time. The selection is made here, in Go, so
// the compiled program carries no dead styles.
var tunnelBodies = map[TunnelStyle]string{
	TunnelHyperspeed: `
vec3 scene(vec2 p, float t) {
    float r = length(p) * u_zoom;
    float a = atan(p.y, p.x) + t * 0.2 * u_twist;
    float depth = 0.3 / max(r, 1e-4) + t * 2.0;
    float beam = pow(0.5 + 0.5 * sin(a * 12.0 + depth * 3.0), 6.0);
    float fall = smoothstep(1.6, 0.0, r);
    vec3 col = mix(u_colorA, u_colorB, fract(depth * 0.25));
    return col * beam * fall * u_intensity;
}
`,
	TunnelWormhole: `
vec3 scene(vec2 p, float t) {
    float r = length(p) * u_zoom;
    float a = atan(p.y, p.x);
    float depth = 0.4 / max(r, 1e-4) + t;
    a += depth * 0.5 * u_twist;
    float wall = 0.5 + 0.5 * sin(a * 6.0 + depth * 4.0);
    wall *= 0.5 + 0.5 * sin(depth * 8.0);
    float fog = exp(-r * 1.5);
    vec3 col = mix(u_colorA, u_colorB, wall);
    return col * (wall + fog) * u_intensity * smoothstep(1.8, 0.1, r);
}
`,
	TunnelSpiral: `
vec3 scene(vec2 p, float t) {
    float r = length(p) * u_zoom;
    float a = atan(p.y, p.x);
    float arm = sin(a * 3.0 + log(max(r, 1e-4)) * 6.0 * u_twist - t * 2.0);
    float band = smoothstep(0.2, 0.9, arm);
    float core = exp(-r * 2.5);
    vec3 col = mix(u_colorA, u_colorB, band);
    return (col * band + u_colorB * core) * u_intensity;
}
`,
	TunnelRings: `
vec3 scene(vec2 p, float t) {
    float r = length(p) * u_zoom;
    float depth = 0.35 / max(r, 1e-4) + t * 1.5;
    float ring = 0.5 + 0.5 * sin(depth * 10.0);
    ring = pow(ring, 3.0);
    float wobble = sin(atan(p.y, p.x) * 2.0 * u_twist + t) * 0.1;
    vec3 col = mix(u_colorA, u_colorB, fract(depth * 0.2 + wobble));
    return col * ring * u_intensity * smoothstep(1.7, 0.05, r);
}
`,
	TunnelGrid: `
vec3 scene(vec2 p, float t) {
    float r = length(p) * u_zoom;
    float a = atan(p.y, p.x) + t * 0.1 * u_twist;
    float depth = 0.4 / max(r, 1e-4) + t * 2.0;
    vec2 cell = vec2(a * 3.0 / 3.14159265, depth);
    vec2 g = abs(fract(cell) - 0.5);
    float line = 1.0 - smoothstep(0.0, 0.08, min(g.x, g.y));
    vec3 col = mix(u_colorA, u_colorB, fract(depth * 0.15));
    return col * line * u_intensity * smoothstep(1.8, 0.1, r);
}
`,
	TunnelStarfield: `
vec3 scene(vec2 p, float t) {
    vec3 acc = vec3(0.0);
    for (int layer = 0; layer < 4; layer++) {
        float fl = float(layer);
        float z = fract(t * 0.15 * u_zoom + fl * 0.25);
        float scale = mix(12.0, 0.5, z);
        vec2 q = rot2(fl * 1.7 + t * 0.02 * u_twist) * p * scale;
        vec2 id = floor(q);
        vec2 f = fract(q) - 0.5;
        float star = hash12(id + fl * 97.0);
        float d = length(f - (vec2(star, fract(star * 61.0)) - 0.5) * 0.8);
        float glow = smoothstep(0.08, 0.0, d) * step(0.75, star);
        acc += mix(u_colorA, u_colorB, star) * glow * (1.0 - z);
    }
    return acc * u_intensity;
}
`,
}

const tunnelMain = `
void main() {
    vec2 p = v_uv * 2.0 - 1.0;
    p.x *= u_resolution.x / u_resolution.y;
    fragColor = vec4(scene(p, u_time), 1.0);
}
`

// Tunnel synthesizes a tunnel-family background for the given style.
func Tunnel(style TunnelStyle, params TunnelParams) (Source, error) {
	body, ok := tunnelBodies[style]
	if !ok {
		return Source{}, fmt.Errorf("background: unknown tunnel style %q", style)
	}
	colorA, colorB, err := params.Palette.Anchors()
	if err != nil {
		return Source{}, err
	}

	frag := shader.FragmentPreamble(tunnelDecls...) + tunnelHelpers + body + tunnelMain
	return Source{
		Fragment: frag,
		Uniforms: uniform.Set{
			"u_colorA":    uniform.Vec3(colorA[0], colorA[1], colorA[2]),
			"u_colorB":    uniform.Vec3(colorB[0], colorB[1], colorB[2]),
			"u_twist":     uniform.Float(defaultOr(params.Twist, 1)),
			"u_intensity": uniform.Float(defaultOr(params.Intensity, 1)),
			"u_zoom":      uniform.Float(defaultOr(params.Zoom, 1)),
		},
	}, nil
}
