// Package surface implements the reusable shader-surface primitive: it owns
// one compiled program at a time, keeps it in sync with fragment-source
// changes, computes the built-in time/resolution/frame uniforms
// deterministically from a FrameClock, and issues one quad draw per requested
// frame.
//
// A Surface is single-threaded by contract: the hosting driver invokes Render
// once per output frame and must serialize calls, because Render mutates the
// shared GPU binding state (current program and framebuffer).
package surface

import (
	"errors"
	"log"

	"github.com/quadtone/fragstage/graphics"
	"github.com/quadtone/fragstage/program"
	"github.com/quadtone/fragstage/shader"
	"github.com/quadtone/fragstage/uniform"
)

// ErrContextUnavailable reports that no GPU context was supplied. The
// condition is permanent for the surface's lifetime; Render does not retry.
var ErrContextUnavailable = errors.New("surface: no GPU context available")

// ErrSurfaceReleased reports a render attempt against a released surface.
var ErrSurfaceReleased = errors.New("surface: rendered after release")

// Program is the surface's view of a compiled GPU program. The concrete
// implementation is program.Manager; tests substitute a counting fake.
type Program interface {
	Use()
	SetUniform(name string, v uniform.Value)
	Draw()
	Release()
}

// Compiler builds a Program from a vertex and fragment source pair.
type Compiler func(vertexSrc, fragmentSrc string) (Program, error)

func defaultCompiler(vertexSrc, fragmentSrc string) (Program, error) {
	m, err := program.Compile(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Surface drives one fragment shader over a full-screen quad.
type Surface struct {
	ctx     graphics.Context
	compile Compiler
	targets TargetFactory

	frag       string
	uniforms   uniform.Set
	width      int
	height     int
	pixelRatio float32
	useTime    bool
	speed      float32

	prog         Program
	compiledFrag string
	failedFrag   string
	err          error
	target       Target
	targetErr    error
	ctxLogged    bool
	released     bool
}

// Option configures a Surface at construction time.
type Option func(*Surface)

// WithUniforms supplies the custom uniform set. The surface keeps its own
// copy, so later mutation of the caller's map cannot change what a frame
// draws; callers that change generator parameters swap in a new set with
// SetUniforms.
func WithUniforms(u uniform.Set) Option {
	return func(s *Surface) { s.uniforms = u.Clone() }
}

// WithSize sets the output dimensions in logical pixels. Default 1920×1080.
func WithSize(width, height int) Option {
	return func(s *Surface) { s.width, s.height = width, height }
}

// WithPixelRatio sets the pixel-density multiplier. Default 1.
func WithPixelRatio(r float32) Option {
	return func(s *Surface) { s.pixelRatio = r }
}

// WithTimeUniform controls whether u_time is written each draw. Default on.
func WithTimeUniform(enabled bool) Option {
	return func(s *Surface) { s.useTime = enabled }
}

// WithSpeed sets the time-speed multiplier applied to FrameClock time.
// Default 1.
func WithSpeed(mult float32) Option {
	return func(s *Surface) { s.speed = mult }
}

// WithCompiler overrides how programs are built. Used by tests to observe
// compile/link activity without a GPU.
func WithCompiler(c Compiler) Option {
	return func(s *Surface) { s.compile = c }
}

// WithTargetFactory overrides how the backing render target is created. The
// default builds an offscreen framebuffer sized width*ratio × height*ratio.
func WithTargetFactory(f TargetFactory) Option {
	return func(s *Surface) { s.targets = f }
}

// New creates a surface for the given fragment source. ctx is an explicit
// capability; passing nil yields a surface that is permanently a no-op and
// reports ErrContextUnavailable from Render. Construction itself never
// touches the GPU: compilation is deferred to the first Render so that a bad
// source is reported as an error value, not a constructor failure.
func New(ctx graphics.Context, fragmentSrc string, opts ...Option) *Surface {
	s := &Surface{
		ctx:        ctx,
		compile:    defaultCompiler,
		targets:    newGLTarget,
		frag:       fragmentSrc,
		width:      1920,
		height:     1080,
		pixelRatio: 1,
		useTime:    true,
		speed:      1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetFragmentSource swaps in new fragment source. The compiled program is
// rebuilt on the next Render if and only if the string differs from the one
// last compiled; uniform or clock changes alone never trigger recompilation.
func (s *Surface) SetFragmentSource(src string) {
	s.frag = src
}

// SetUniforms replaces the custom uniform set. The set is copied; see
// WithUniforms.
func (s *Surface) SetUniforms(u uniform.Set) {
	s.uniforms = u.Clone()
}

// PixelSize returns the backing buffer dimensions (width and height scaled by
// the pixel ratio).
func (s *Surface) PixelSize() (int, int) {
	return int(float32(s.width) * s.pixelRatio), int(float32(s.height) * s.pixelRatio)
}

// Valid reports whether the surface holds a successfully compiled and linked
// program.
func (s *Surface) Valid() bool {
	return !s.released && s.prog != nil && s.err == nil
}

// Err returns the sticky error from the last failed compile or context
// acquisition, or nil.
func (s *Surface) Err() error {
	return s.err
}

// Render draws one frame. After it returns the backing buffer reflects
// exactly: clear to transparent black, bind the current program, write the
// custom uniforms, write the built-ins, draw the quad. Rendering the same
// clock twice produces byte-identical pixels.
//
// A compile or link failure is terminal for that source value: the surface
// clears to transparent and keeps returning the stored error until different
// source is supplied. Render must not be called concurrently.
func (s *Surface) Render(clock FrameClock) error {
	if s.released {
		return ErrSurfaceReleased
	}
	if err := clock.validate(); err != nil {
		return err
	}
	if s.ctx == nil {
		if !s.ctxLogged {
			s.ctxLogged = true
			s.err = ErrContextUnavailable
			log.Printf("surface: no GPU context, rendering disabled")
		}
		return ErrContextUnavailable
	}
	s.ctx.MakeCurrent()

	if s.target == nil {
		// Treated like a missing context: permanent, no per-frame retry.
		if s.targetErr != nil {
			return s.targetErr
		}
		pw, ph := s.PixelSize()
		t, err := s.targets(pw, ph)
		if err != nil {
			s.targetErr = err
			s.err = err
			log.Printf("surface: failed to create render target: %v", err)
			return err
		}
		s.target = t
	}

	if err := s.rebuildIfNeeded(); err != nil {
		// Leave a cleared, transparent surface rather than stale pixels
		// from a previously working program.
		s.target.Bind()
		s.target.Clear()
		return err
	}

	s.target.Bind()
	s.target.Clear()
	s.prog.Use()

	for name, v := range s.uniforms {
		// Reserved names are surface-owned; the computed values below are
		// the ones that must land.
		if shader.IsBuiltin(name) {
			continue
		}
		s.prog.SetUniform(name, v)
	}

	// Built-ins are written after the custom set so a colliding custom key
	// loses deterministically.
	pw, ph := s.PixelSize()
	s.prog.SetUniform(shader.UniformResolution, uniform.Vec2(float32(pw), float32(ph)))
	s.prog.SetUniform(shader.UniformFrame, uniform.Float(float32(clock.Frame)))
	if s.useTime {
		s.prog.SetUniform(shader.UniformTime, uniform.Float(clock.Time(s.speed)))
	}

	s.prog.Draw()
	return nil
}

// rebuildIfNeeded compiles the current fragment source if it differs from the
// last compiled one, releasing the previous program first. String equality is
// the whole test: no semantic diffing.
func (s *Surface) rebuildIfNeeded() error {
	if s.prog != nil && s.frag == s.compiledFrag {
		return nil
	}
	if s.err != nil && s.frag == s.failedFrag {
		return s.err
	}

	if s.prog != nil {
		s.prog.Release()
		s.prog = nil
		s.compiledFrag = ""
	}

	p, err := s.compile(shader.VertexSource, s.frag)
	if err != nil {
		s.err = err
		s.failedFrag = s.frag
		log.Printf("surface: shader build failed: %v", err)
		return err
	}
	s.prog = p
	s.compiledFrag = s.frag
	s.err = nil
	s.failedFrag = ""
	return nil
}

// ReadPixels returns the backing buffer as tightly packed RGBA bytes,
// bottom-up in GL row order. It reflects the most recent Render.
func (s *Surface) ReadPixels() ([]byte, error) {
	if s.released {
		return nil, ErrSurfaceReleased
	}
	if s.target == nil {
		return nil, errors.New("surface: nothing rendered yet")
	}
	return s.target.ReadPixels()
}

// Release frees the compiled program and render target. Idempotent; any
// Render after Release fails with ErrSurfaceReleased rather than touching
// freed GPU handles.
func (s *Surface) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.prog != nil {
		s.prog.Release()
		s.prog = nil
	}
	if s.target != nil {
		s.target.Release()
		s.target = nil
	}
}
