package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts RecordOptions
		want string
	}{
		{"zero fps", RecordOptions{Duration: 1, OutputFile: "out.mp4"}, "fps"},
		{"negative duration", RecordOptions{FPS: 30, Duration: -1, OutputFile: "out.mp4"}, "duration"},
		{"missing output", RecordOptions{FPS: 30, Duration: 1}, "output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.validate()
			assert.ErrorContains(t, err, tt.want)
		})
	}

	assert.NoError(t, RecordOptions{FPS: 30, Duration: 1, OutputFile: "out.mp4"}.validate())
}

func TestVideoCodecSelection(t *testing.T) {
	assert.Equal(t, "libx264", RecordOptions{}.videoCodec())
	assert.Equal(t, "libx264", RecordOptions{Codec: "h264"}.videoCodec())
	assert.Equal(t, "libx265", RecordOptions{Codec: "hevc"}.videoCodec())
}
