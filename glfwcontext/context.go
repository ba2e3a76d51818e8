// Package glfwcontext provides a GLFW-backed graphics.Context. When used for
// offline rendering the window is created hidden and never presented.
package glfwcontext

import (
	"log"
	"runtime"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	glfw "github.com/go-gl/glfw/v3.3/glfw"
)

var glInitOnce sync.Once

// Context wraps a GLFW window as a graphics.Context.
type Context struct {
	window *glfw.Window
}

// New creates a window-backed OpenGL 4.1 core context. With visible false the
// window is hidden, which is the headless mode used for offline rendering.
func New(width, height int, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(width, height, "fragstage", nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{window: win}
	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})
	return c, nil
}

// MakeCurrent binds the context to the calling thread and initializes the
// OpenGL bindings the first time any context becomes current.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
	glInitOnce.Do(func() {
		if err := gl.Init(); err != nil {
			log.Printf("failed to initialize OpenGL bindings: %v", err)
		}
	})
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) Shutdown() {
	c.window.Destroy()
}

// InitGraphics initializes GLFW. Must be called from the main thread before
// any context is created.
func InitGraphics() error {
	runtime.LockOSThread()
	return glfw.Init()
}

// TerminateGraphics shuts GLFW down. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
}
