package surface_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadtone/fragstage/program"
	"github.com/quadtone/fragstage/surface"
	"github.com/quadtone/fragstage/uniform"
)

const testFrag = `#version 410 core
in vec2 v_uv;
out vec4 fragColor;
uniform float u_time;
void main() { fragColor = vec4(v_uv, sin(u_time), 1.0); }
`

type fakeContext struct{}

func (fakeContext) MakeCurrent()                   {}
func (fakeContext) GetFramebufferSize() (int, int) { return 1920, 1080 }
func (fakeContext) EndFrame()                      {}
func (fakeContext) ShouldClose() bool              { return false }
func (fakeContext) Shutdown()                      {}

type setCall struct {
	name  string
	value uniform.Value
}

type fakeProgram struct {
	sets     []setCall
	draws    int
	released bool
}

func (p *fakeProgram) Use()  {}
func (p *fakeProgram) Draw() { p.draws++ }
func (p *fakeProgram) SetUniform(name string, v uniform.Value) {
	p.sets = append(p.sets, setCall{name, v})
}
func (p *fakeProgram) Release() { p.released = true }

// final returns the value a name ends up with after all writes, matching what
// the GPU would observe for the draw.
func (p *fakeProgram) final(name string) (uniform.Value, bool) {
	var v uniform.Value
	found := false
	for _, c := range p.sets {
		if c.name == name {
			v, found = c.value, true
		}
	}
	return v, found
}

type fakeTarget struct {
	clears   int
	released bool
}

func (t *fakeTarget) Bind()  {}
func (t *fakeTarget) Clear() { t.clears++ }
func (t *fakeTarget) ReadPixels() ([]byte, error) {
	return []byte{0, 0, 0, 0}, nil
}
func (t *fakeTarget) Release() { t.released = true }

// fakeGPU stands in for the program manager and render target so compile and
// link activity is observable without a GPU context.
type fakeGPU struct {
	compiles   int
	compileErr error
	programs   []*fakeProgram
	target     fakeTarget
}

func (g *fakeGPU) compiler(vertexSrc, fragmentSrc string) (surface.Program, error) {
	g.compiles++
	if g.compileErr != nil {
		return nil, g.compileErr
	}
	p := &fakeProgram{}
	g.programs = append(g.programs, p)
	return p, nil
}

func (g *fakeGPU) targetFactory(width, height int) (surface.Target, error) {
	return &g.target, nil
}

func newTestSurface(t *testing.T, gpu *fakeGPU, opts ...surface.Option) *surface.Surface {
	t.Helper()
	opts = append([]surface.Option{
		surface.WithCompiler(gpu.compiler),
		surface.WithTargetFactory(gpu.targetFactory),
	}, opts...)
	return surface.New(fakeContext{}, testFrag, opts...)
}

func TestTimeUniformMath(t *testing.T) {
	gpu := &fakeGPU{}
	s := newTestSurface(t, gpu, surface.WithSpeed(2))

	require.NoError(t, s.Render(surface.FrameClock{Frame: 45, FPS: 30}))

	got, ok := gpu.programs[0].final("u_time")
	require.True(t, ok, "u_time must be written")
	assert.Equal(t, uniform.Float(3.0), got)
}

func TestResolutionScaling(t *testing.T) {
	gpu := &fakeGPU{}
	s := newTestSurface(t, gpu, surface.WithSize(800, 450), surface.WithPixelRatio(2))

	require.NoError(t, s.Render(surface.FrameClock{Frame: 0, FPS: 30}))

	got, ok := gpu.programs[0].final("u_resolution")
	require.True(t, ok)
	assert.Equal(t, uniform.Vec2(1600, 900), got)

	w, h := s.PixelSize()
	assert.Equal(t, 1600, w)
	assert.Equal(t, 900, h)
}

func TestDisabledTimeUniform(t *testing.T) {
	gpu := &fakeGPU{}
	s := newTestSurface(t, gpu, surface.WithTimeUniform(false))

	require.NoError(t, s.Render(surface.FrameClock{Frame: 120, FPS: 60}))

	_, ok := gpu.programs[0].final("u_time")
	assert.False(t, ok, "u_time must never be written when disabled")

	_, ok = gpu.programs[0].final("u_frame")
	assert.True(t, ok, "u_frame is still written")
}

func TestBuiltinPrecedence(t *testing.T) {
	gpu := &fakeGPU{}
	custom := uniform.Set{"u_time": uniform.Float(999)}
	s := newTestSurface(t, gpu, surface.WithUniforms(custom))

	require.NoError(t, s.Render(surface.FrameClock{Frame: 30, FPS: 30}))

	got, ok := gpu.programs[0].final("u_time")
	require.True(t, ok)
	assert.Equal(t, uniform.Float(1.0), got, "computed built-in must win over the custom value")

	writes := 0
	for _, c := range gpu.programs[0].sets {
		if c.name == "u_time" {
			writes++
		}
	}
	assert.Equal(t, 1, writes, "the reserved name is written once, by the surface")
}

func TestTargetFailureIsSticky(t *testing.T) {
	gpu := &fakeGPU{}
	factoryCalls := 0
	failing := func(width, height int) (surface.Target, error) {
		factoryCalls++
		return nil, errors.New("offscreen framebuffer incomplete")
	}
	s := surface.New(fakeContext{}, testFrag,
		surface.WithCompiler(gpu.compiler),
		surface.WithTargetFactory(failing),
	)

	for i := 0; i < 5; i++ {
		err := s.Render(surface.FrameClock{Frame: i, FPS: 30})
		assert.ErrorContains(t, err, "framebuffer incomplete")
	}

	assert.Equal(t, 1, factoryCalls, "target creation must not be retried per frame")
	assert.Equal(t, 0, gpu.compiles, "no compile may be attempted without a target")
	assert.ErrorContains(t, s.Err(), "framebuffer incomplete")
	assert.False(t, s.Valid())
}

func TestUniformSetIsCopied(t *testing.T) {
	gpu := &fakeGPU{}
	set := uniform.Set{"u_zoom": uniform.Float(1)}
	s := newTestSurface(t, gpu, surface.WithUniforms(set))

	// Mutating the caller's map after handing it over must not leak into
	// the next frame.
	set["u_zoom"] = uniform.Float(99)
	require.NoError(t, s.Render(surface.FrameClock{Frame: 0, FPS: 30}))

	got, ok := gpu.programs[0].final("u_zoom")
	require.True(t, ok)
	assert.Equal(t, uniform.Float(1), got)

	s.SetUniforms(set)
	set["u_zoom"] = uniform.Float(7)
	require.NoError(t, s.Render(surface.FrameClock{Frame: 1, FPS: 30}))

	got, ok = gpu.programs[0].final("u_zoom")
	require.True(t, ok)
	assert.Equal(t, uniform.Float(99), got)
}

func TestNoGratuitousRecompilation(t *testing.T) {
	gpu := &fakeGPU{}
	s := newTestSurface(t, gpu)

	for i := 0; i < 10; i++ {
		s.SetUniforms(uniform.Set{"u_zoom": uniform.Float(float32(i))})
		require.NoError(t, s.Render(surface.FrameClock{Frame: i, FPS: 24}))
	}

	assert.Equal(t, 1, gpu.compiles, "varying uniforms and clocks must not recompile")
	assert.Equal(t, 10, gpu.programs[0].draws)
}

func TestRebuildOnSourceChange(t *testing.T) {
	gpu := &fakeGPU{}
	s := newTestSurface(t, gpu)

	require.NoError(t, s.Render(surface.FrameClock{Frame: 0, FPS: 30}))
	s.SetFragmentSource(testFrag + "// v2\n")
	require.NoError(t, s.Render(surface.FrameClock{Frame: 1, FPS: 30}))

	assert.Equal(t, 2, gpu.compiles, "source change triggers exactly one rebuild")
	assert.True(t, gpu.programs[0].released, "prior program must be released")
	assert.False(t, gpu.programs[1].released)
}

func TestFailureContainment(t *testing.T) {
	gpu := &fakeGPU{
		compileErr: &program.CompileError{Stage: program.StageFragment, Log: "syntax error"},
	}
	s := newTestSurface(t, gpu)

	err := s.Render(surface.FrameClock{Frame: 0, FPS: 30})
	var ce *program.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, program.StageFragment, ce.Stage)
	assert.False(t, s.Valid())
	assert.Equal(t, 1, gpu.target.clears, "failed render must leave a cleared surface")

	// Same source again: the failure is sticky, no retry storm.
	err = s.Render(surface.FrameClock{Frame: 1, FPS: 30})
	require.Error(t, err)
	assert.Equal(t, 1, gpu.compiles, "identical source must not be recompiled after failure")

	// New source recovers.
	gpu.compileErr = nil
	s.SetFragmentSource(testFrag + "// fixed\n")
	require.NoError(t, s.Render(surface.FrameClock{Frame: 2, FPS: 30}))
	assert.True(t, s.Valid())
	assert.NoError(t, s.Err())
}

func TestDeterministicUniformWrites(t *testing.T) {
	clock := surface.FrameClock{Frame: 17, FPS: 24}

	render := func() []setCall {
		gpu := &fakeGPU{}
		s := newTestSurface(t, gpu, surface.WithSpeed(1.5))
		require.NoError(t, s.Render(clock))
		require.NoError(t, s.Render(clock))
		p := gpu.programs[0]
		// Both draws write identical built-ins; compare the two halves.
		half := len(p.sets) / 2
		assert.Equal(t, p.sets[:half], p.sets[half:], "same clock must produce identical writes")
		return p.sets[:half]
	}

	assert.Equal(t, render(), render(), "two surfaces with the same inputs must agree")
}

func TestContextUnavailableIsPermanent(t *testing.T) {
	gpu := &fakeGPU{}
	s := surface.New(nil, testFrag,
		surface.WithCompiler(gpu.compiler),
		surface.WithTargetFactory(gpu.targetFactory),
	)

	for i := 0; i < 3; i++ {
		err := s.Render(surface.FrameClock{Frame: i, FPS: 30})
		assert.ErrorIs(t, err, surface.ErrContextUnavailable)
	}
	assert.Equal(t, 0, gpu.compiles, "no compile may be attempted without a context")
	assert.ErrorIs(t, s.Err(), surface.ErrContextUnavailable)
}

func TestRenderAfterReleaseFailsLoudly(t *testing.T) {
	gpu := &fakeGPU{}
	s := newTestSurface(t, gpu)
	require.NoError(t, s.Render(surface.FrameClock{Frame: 0, FPS: 30}))

	s.Release()
	s.Release() // idempotent

	assert.True(t, gpu.programs[0].released)
	assert.True(t, gpu.target.released)

	err := s.Render(surface.FrameClock{Frame: 1, FPS: 30})
	assert.ErrorIs(t, err, surface.ErrSurfaceReleased)

	_, err = s.ReadPixels()
	assert.ErrorIs(t, err, surface.ErrSurfaceReleased)
}

func TestFrameClockValidation(t *testing.T) {
	gpu := &fakeGPU{}
	s := newTestSurface(t, gpu)

	assert.Error(t, s.Render(surface.FrameClock{Frame: -1, FPS: 30}))
	assert.Error(t, s.Render(surface.FrameClock{Frame: 0, FPS: 0}))
	assert.Error(t, s.Render(surface.FrameClock{Frame: 0, FPS: -24}))
	assert.Equal(t, 0, gpu.compiles)
}

func TestFrameClockTime(t *testing.T) {
	tests := []struct {
		name  string
		clock surface.FrameClock
		speed float32
		want  float32
	}{
		{"frame zero", surface.FrameClock{Frame: 0, FPS: 30}, 1, 0},
		{"one second", surface.FrameClock{Frame: 30, FPS: 30}, 1, 1},
		{"speed multiplier", surface.FrameClock{Frame: 45, FPS: 30}, 2, 3},
		{"half speed", surface.FrameClock{Frame: 60, FPS: 60}, 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.clock.Time(tt.speed))
		})
	}
}

func TestReadPixelsBeforeRender(t *testing.T) {
	gpu := &fakeGPU{}
	s := newTestSurface(t, gpu)

	_, err := s.ReadPixels()
	assert.Error(t, err)
	assert.False(t, errors.Is(err, surface.ErrSurfaceReleased))
}
