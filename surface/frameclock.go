package surface

import "fmt"

// FrameClock is the (frame number, frames-per-second) pair an external driver
// supplies once per render request. All time-based shading derives from it as
// a pure function; the library never reads a wall clock and keeps no internal
// counter, so re-rendering frame N, in any order, yields identical pixels.
type FrameClock struct {
	Frame int
	FPS   float32
}

// Time returns the shader time in seconds for this clock, scaled by the
// surface's speed multiplier.
func (c FrameClock) Time(speed float32) float32 {
	return float32(c.Frame) / c.FPS * speed
}

func (c FrameClock) validate() error {
	if c.Frame < 0 {
		return fmt.Errorf("frame clock: negative frame %d", c.Frame)
	}
	if !(c.FPS > 0) {
		return fmt.Errorf("frame clock: fps must be positive, got %g", c.FPS)
	}
	return nil
}
