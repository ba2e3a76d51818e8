// Package preset loads background descriptions from YAML documents so hosts
// can keep visual choices in data files rather than code.
package preset

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quadtone/fragstage/background"
)

// Params carries the union of all generator knobs. Generators ignore fields
// that do not apply to them; zero fields take the generator defaults.
type Params struct {
	Twist      float32 `yaml:"twist"`
	Intensity  float32 `yaml:"intensity"`
	Zoom       float32 `yaml:"zoom"`
	Scale      float32 `yaml:"scale"`
	ColorShift float32 `yaml:"colorShift"`
	Contrast   float32 `yaml:"contrast"`
	Octaves    int     `yaml:"octaves"`
	FlowSpeed  float32 `yaml:"flowSpeed"`
	Warp       float32 `yaml:"warp"`
}

// Preset is one background description.
type Preset struct {
	Kind    string `yaml:"kind"`
	Style   string `yaml:"style"`
	Palette string `yaml:"palette"`
	Params  Params `yaml:"params"`
}

// Load parses a preset document. Unknown fields are rejected so typos fail
// fast instead of silently falling back to defaults.
func Load(r io.Reader) (*Preset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var p Preset
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}
	if p.Kind == "" {
		return nil, fmt.Errorf("preset: missing kind")
	}
	return &p, nil
}

// LoadFile reads and parses a preset file.
func LoadFile(path string) (*Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Source resolves the preset into shader source and uniforms. Unknown kinds,
// styles and palettes are errors.
func (p *Preset) Source() (background.Source, error) {
	pal := background.Named(background.PaletteName(p.Palette))
	if p.Palette == "" {
		pal = background.Palette{}
	}

	switch p.Kind {
	case "tunnel":
		return background.Tunnel(background.TunnelStyle(p.Style), background.TunnelParams{
			Palette:   pal,
			Twist:     p.Params.Twist,
			Intensity: p.Params.Intensity,
			Zoom:      p.Params.Zoom,
		})
	case "plasma":
		return background.Plasma(background.PlasmaStyle(p.Style), background.PlasmaParams{
			Palette:    pal,
			Scale:      p.Params.Scale,
			ColorShift: p.Params.ColorShift,
			Contrast:   p.Params.Contrast,
		})
	case "flownoise":
		return background.FlowNoise(background.FlowStyle(p.Style), background.FlowParams{
			Palette:   pal,
			Octaves:   p.Params.Octaves,
			FlowSpeed: p.Params.FlowSpeed,
			Warp:      p.Params.Warp,
		})
	}
	return background.Source{}, fmt.Errorf("preset: unknown kind %q", p.Kind)
}
