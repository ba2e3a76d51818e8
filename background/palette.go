package background

import (
	"fmt"

	"github.com/chewxy/math32"
)

// PaletteName selects one of the built-in color ramps.
type PaletteName string

const (
	PaletteNeon   PaletteName = "neon"
	PaletteSunset PaletteName = "sunset"
	PaletteOcean  PaletteName = "ocean"
	PaletteMono   PaletteName = "mono"
	PaletteEmber  PaletteName = "ember"
)

// RampFunc maps t in [0,1] to linear RGB.
type RampFunc func(t float32) [3]float32

// Palette is either a named preset or a custom ramp function. The variant is
// resolved exactly once, when a generator turns it into concrete color
// uniforms; nothing downstream ever branches on which form it was.
type Palette struct {
	name PaletteName
	fn   RampFunc
}

// Named selects a built-in palette.
func Named(name PaletteName) Palette {
	return Palette{name: name}
}

// Ramp wraps a custom ramp function.
func Ramp(fn RampFunc) Palette {
	return Palette{fn: fn}
}

// resolve collapses the variant into a single ramp function. The zero
// Palette resolves to the neon preset.
func (p Palette) resolve() (RampFunc, error) {
	if p.fn != nil {
		return p.fn, nil
	}
	name := p.name
	if name == "" {
		name = PaletteNeon
	}
	fn, ok := namedRamps[name]
	if !ok {
		return nil, fmt.Errorf("background: unknown palette %q", name)
	}
	return fn, nil
}

// Anchors samples the ramp at its two ends, the anchor colors generators
// expose as u_colorA and u_colorB.
func (p Palette) Anchors() ([3]float32, [3]float32, error) {
	fn, err := p.resolve()
	if err != nil {
		return [3]float32{}, [3]float32{}, err
	}
	return fn(0), fn(1), nil
}

// cosineRamp is the classic a + b*cos(2π(c*t + d)) palette formulation.
func cosineRamp(a, b, c, d [3]float32) RampFunc {
	return func(t float32) [3]float32 {
		var out [3]float32
		for i := 0; i < 3; i++ {
			out[i] = a[i] + b[i]*math32.Cos(2*math32.Pi*(c[i]*t+d[i]))
		}
		return out
	}
}

var namedRamps = map[PaletteName]RampFunc{
	PaletteNeon: cosineRamp(
		[3]float32{0.5, 0.5, 0.5},
		[3]float32{0.5, 0.5, 0.5},
		[3]float32{1.0, 1.0, 1.0},
		[3]float32{0.80, 0.90, 0.30},
	),
	PaletteSunset: cosineRamp(
		[3]float32{0.5, 0.35, 0.35},
		[3]float32{0.5, 0.4, 0.3},
		[3]float32{1.0, 1.0, 1.0},
		[3]float32{0.00, 0.15, 0.25},
	),
	PaletteOcean: cosineRamp(
		[3]float32{0.2, 0.45, 0.6},
		[3]float32{0.2, 0.35, 0.4},
		[3]float32{1.0, 1.0, 1.0},
		[3]float32{0.45, 0.55, 0.65},
	),
	PaletteMono: func(t float32) [3]float32 {
		v := 0.1 + 0.85*t
		return [3]float32{v, v, v}
	},
	PaletteEmber: cosineRamp(
		[3]float32{0.45, 0.25, 0.1},
		[3]float32{0.5, 0.3, 0.15},
		[3]float32{1.0, 1.0, 1.0},
		[3]float32{0.00, 0.10, 0.20},
	),
}
