// fragstage renders a procedural background to a video file or a preview
// window. Shader time is always derived from the frame counter, so renders of
// the same preset are reproducible.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/quadtone/fragstage/background"
	"github.com/quadtone/fragstage/encoder"
	"github.com/quadtone/fragstage/glfwcontext"
	"github.com/quadtone/fragstage/options"
	"github.com/quadtone/fragstage/preset"
	"github.com/quadtone/fragstage/surface"
)

func main() {
	opts := &options.RenderOptions{
		PresetFile: flag.String("preset", "", "YAML preset file describing the background"),
		Kind:       flag.String("kind", "tunnel", "generator kind: tunnel, plasma or flownoise (ignored with -preset)"),
		Style:      flag.String("style", "hyperspeed", "style within the generator kind"),
		Palette:    flag.String("palette", "", "named palette (neon, sunset, ocean, mono, ember)"),

		Width:      flag.Int("width", 1920, "output width in pixels"),
		Height:     flag.Int("height", 1080, "output height in pixels"),
		PixelRatio: flag.Float64("pixelratio", 1, "pixel-density multiplier"),
		FPS:        flag.Int("fps", 30, "frames per second"),
		Duration:   flag.Float64("duration", 10, "seconds to record"),
		Speed:      flag.Float64("speed", 1, "time-speed multiplier"),

		OutputFile: flag.String("output", "output.mp4", "output video file"),
		Codec:      flag.String("codec", "h264", "video codec: h264 or hevc"),
		FFmpegPath: flag.String("ffmpeg", "", "path to ffmpeg executable"),
		Preview:    flag.Bool("preview", false, "open a window instead of recording"),
	}
	flag.Parse()

	src, err := loadSource(opts)
	if err != nil {
		log.Fatalf("Failed to build background: %v", err)
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		log.Fatalf("Failed to initialize graphics: %v", err)
	}
	defer glfwcontext.TerminateGraphics()

	ctx, err := glfwcontext.New(*opts.Width, *opts.Height, *opts.Preview)
	if err != nil {
		log.Fatalf("Failed to create GL context: %v", err)
	}
	defer ctx.Shutdown()

	surfOpts := []surface.Option{
		surface.WithUniforms(src.Uniforms),
		surface.WithSize(*opts.Width, *opts.Height),
		surface.WithPixelRatio(float32(*opts.PixelRatio)),
		surface.WithSpeed(float32(*opts.Speed)),
	}
	if *opts.Preview {
		surfOpts = append(surfOpts, surface.WithTargetFactory(func(int, int) (surface.Target, error) {
			return surface.NewScreenTarget(ctx.GetFramebufferSize), nil
		}))
	}
	surf := surface.New(ctx, src.Fragment, surfOpts...)
	defer surf.Release()

	if *opts.Preview {
		runPreview(ctx, surf, *opts.FPS)
		return
	}

	err = encoder.Record(surf, encoder.RecordOptions{
		FPS:        *opts.FPS,
		Duration:   *opts.Duration,
		OutputFile: *opts.OutputFile,
		Codec:      *opts.Codec,
		FFmpegPath: *opts.FFmpegPath,
	})
	if err != nil {
		log.Fatalf("Recording failed: %v", err)
	}
	log.Printf("Wrote %s", *opts.OutputFile)
}

func loadSource(opts *options.RenderOptions) (background.Source, error) {
	if *opts.PresetFile != "" {
		p, err := preset.LoadFile(*opts.PresetFile)
		if err != nil {
			return background.Source{}, err
		}
		return p.Source()
	}

	pal := background.Named(background.PaletteName(*opts.Palette))
	if *opts.Palette == "" {
		pal = background.Palette{}
	}
	switch *opts.Kind {
	case "tunnel":
		return background.Tunnel(background.TunnelStyle(*opts.Style), background.TunnelParams{Palette: pal})
	case "plasma":
		return background.Plasma(background.PlasmaStyle(*opts.Style), background.PlasmaParams{Palette: pal})
	case "flownoise":
		return background.FlowNoise(background.FlowStyle(*opts.Style), background.FlowParams{Palette: pal})
	}
	fmt.Fprintln(os.Stderr, "unknown -kind; expected tunnel, plasma or flownoise")
	flag.Usage()
	os.Exit(2)
	return background.Source{}, nil
}

// runPreview drives the surface from an incrementing frame counter at window
// refresh pace. Shader time still derives from the counter, never the clock,
// so pausing the window does not advance the animation.
func runPreview(ctx *glfwcontext.Context, surf *surface.Surface, fps int) {
	frame := 0
	for !ctx.ShouldClose() {
		if err := surf.Render(surface.FrameClock{Frame: frame, FPS: float32(fps)}); err != nil {
			log.Printf("Render failed: %v", err)
			return
		}
		ctx.EndFrame()
		frame++
	}
}
