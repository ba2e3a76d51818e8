package graphics

// Context is the GPU context capability a surface renders against. It is
// always passed in explicitly; the core never reaches for ambient or global
// window state. Note the deliberate absence of a wall-clock accessor: all
// time in this library derives from the frame counter.
type Context interface {
	// MakeCurrent binds the context to the calling thread.
	MakeCurrent()
	// GetFramebufferSize returns the drawable size in pixels.
	GetFramebufferSize() (int, int)
	// EndFrame presents the default framebuffer and pumps window events.
	// Offline hosts that never present may treat this as a no-op.
	EndFrame()
	// ShouldClose reports whether the host window asked to shut down.
	ShouldClose() bool
	// Shutdown destroys the context.
	Shutdown()
}
