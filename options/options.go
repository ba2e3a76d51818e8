package options

// RenderOptions carries the flag-bound settings for the fragstage command.
type RenderOptions struct {
	PresetFile *string
	Kind       *string
	Style      *string
	Palette    *string

	Width      *int
	Height     *int
	PixelRatio *float64
	FPS        *int
	Duration   *float64
	Speed      *float64

	OutputFile *string
	Codec      *string
	FFmpegPath *string
	Preview    *bool
}
