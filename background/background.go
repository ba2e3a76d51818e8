// Package background generates procedural full-screen shader sources from
// style parameters. Every generator is a pure function from (style, params)
// to a Source; it performs no GPU work and holds no state, so identical
// inputs always produce an identical Source. Style selection happens at
// source-generation time: each compiled program contains only the code for
// its own style, never a runtime style branch.
package background

import "github.com/quadtone/fragstage/uniform"

// Source is a generator's output: complete fragment shader text plus the
// uniform values that drive it. It is consumed by a surface; generators never
// touch compile, link or draw logic themselves.
type Source struct {
	Fragment string
	Uniforms uniform.Set
}

// defaultOr returns v, or def when v is the zero value. Generator params use
// zero to mean "unset" so literal struct construction stays terse.
func defaultOr(v, def float32) float32 {
	if v == 0 {
		return def
	}
	return v
}
