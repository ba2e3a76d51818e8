package surface

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Target is the destination pixel buffer a surface draws into.
type Target interface {
	// Bind makes the target the active framebuffer and sets the viewport.
	Bind()
	// Clear fills the target with transparent black.
	Clear()
	// ReadPixels returns the target contents as RGBA bytes in GL row order.
	ReadPixels() ([]byte, error)
	// Release frees the target's GPU handles. Idempotent.
	Release()
}

// TargetFactory creates a Target with the given pixel dimensions.
type TargetFactory func(width, height int) (Target, error)

// glTarget is an offscreen framebuffer with an RGBA8 color texture, the
// default backing store so offline hosts get a readable pixel surface
// without a visible window.
type glTarget struct {
	fbo      uint32
	texture  uint32
	width    int
	height   int
	released bool
}

func newGLTarget(width, height int) (Target, error) {
	t := &glTarget{width: width, height: height}

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.GenTextures(1, &t.texture)
	gl.BindTexture(gl.TEXTURE_2D, t.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.texture, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Release()
		return nil, fmt.Errorf("offscreen framebuffer incomplete: status 0x%x", status)
	}
	return t, nil
}

func (t *glTarget) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, int32(t.width), int32(t.height))
}

func (t *glTarget) Clear() {
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (t *glTarget) ReadPixels() ([]byte, error) {
	buf := make([]byte, t.width*t.height*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.fbo)
	gl.ReadPixels(0, 0, int32(t.width), int32(t.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&buf[0]))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return buf, nil
}

func (t *glTarget) Release() {
	if t.released {
		return
	}
	t.released = true
	gl.DeleteFramebuffers(1, &t.fbo)
	gl.DeleteTextures(1, &t.texture)
}

// screenTarget draws to the context's default framebuffer. Used by preview
// hosts that present each frame instead of reading pixels back.
type screenTarget struct {
	size func() (int, int)
}

// NewScreenTarget returns a Target bound to the default framebuffer, sized
// from the given framebuffer-size callback each frame.
func NewScreenTarget(size func() (int, int)) Target {
	return &screenTarget{size: size}
}

func (t *screenTarget) Bind() {
	w, h := t.size()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (t *screenTarget) Clear() {
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (t *screenTarget) ReadPixels() ([]byte, error) {
	return nil, fmt.Errorf("screen target does not support pixel readback")
}

func (t *screenTarget) Release() {}
