// Package encoder turns a surface's rendered frame sequence into a video
// file. Frames are driven purely by their index, so a recording of N frames
// is reproducible run to run.
package encoder

import (
	"fmt"
	"io"
	"log"

	"github.com/schollz/progressbar/v3"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/quadtone/fragstage/surface"
)

// RecordOptions configure an offline recording.
type RecordOptions struct {
	FPS        int
	Duration   float64 // seconds
	OutputFile string
	Codec      string // "h264" (default) or "hevc"
	FFmpegPath string // optional explicit ffmpeg binary
	Quiet      bool   // suppress the progress bar
}

func (o RecordOptions) validate() error {
	if o.FPS <= 0 {
		return fmt.Errorf("encoder: fps must be positive, got %d", o.FPS)
	}
	if o.Duration <= 0 {
		return fmt.Errorf("encoder: duration must be positive, got %g", o.Duration)
	}
	if o.OutputFile == "" {
		return fmt.Errorf("encoder: output file required")
	}
	return nil
}

func (o RecordOptions) videoCodec() string {
	if o.Codec == "hevc" {
		return "libx265"
	}
	return "libx264"
}

// Record renders frames 0..duration*fps-1 through the surface and pipes the
// raw RGBA readback into ffmpeg. The GL work stays on the calling (locked)
// thread; only the encoder consumes the pipe concurrently.
func Record(s *surface.Surface, opts RecordOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	width, height := s.PixelSize()
	totalFrames := int(opts.Duration * float64(opts.FPS))

	inputArgs := ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": opts.FPS,
	}
	outputArgs := ffmpeg.KwArgs{
		"c:v":     opts.videoCodec(),
		"pix_fmt": "yuv420p",
		// GL readback is bottom-up; flip during encode.
		"vf": "vflip",
		"r":  opts.FPS,
	}

	pipeReader, pipeWriter := io.Pipe()
	cmd := ffmpeg.Input("pipe:", inputArgs).
		Output(opts.OutputFile, outputArgs).
		OverWriteOutput().
		WithInput(pipeReader)
	if opts.FFmpegPath != "" {
		cmd = cmd.SetFfmpegPath(opts.FFmpegPath)
	}

	errc := make(chan error, 1)
	go func() {
		errc <- cmd.Run()
	}()

	var bar *progressbar.ProgressBar
	if !opts.Quiet {
		bar = progressbar.Default(int64(totalFrames), "encoding")
	}

	for i := 0; i < totalFrames; i++ {
		clock := surface.FrameClock{Frame: i, FPS: float32(opts.FPS)}
		if err := s.Render(clock); err != nil {
			pipeWriter.CloseWithError(err)
			<-errc
			return fmt.Errorf("encoder: render failed on frame %d: %w", i, err)
		}
		pixels, err := s.ReadPixels()
		if err != nil {
			pipeWriter.CloseWithError(err)
			<-errc
			return fmt.Errorf("encoder: readback failed on frame %d: %w", i, err)
		}
		if _, err := pipeWriter.Write(pixels); err != nil {
			// ffmpeg exited; surface its error rather than the pipe's.
			ffErr := <-errc
			log.Printf("encoder: ffmpeg terminated early: %v", ffErr)
			return fmt.Errorf("encoder: writing frame %d: %w", i, err)
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	pipeWriter.Close()
	return <-errc
}
