package turn

import (
	"testing"

	"github.com/inkwise/tutorgate/pkg/core/types"
)

func TestClassifyFirstOfTypeWins(t *testing.T) {
	imageA := types.MediaChunk{MIMEType: "image/jpeg", Data: "A"}
	audioB := types.MediaChunk{MIMEType: "audio/webm", Data: "B"}
	audioC := types.MediaChunk{MIMEType: "audio/pcm", Data: "C"}
	imageC := types.MediaChunk{MIMEType: "image/png", Data: "C"}

	a := Classify([]types.MediaChunk{imageA, audioB, imageC})
	b := Classify([]types.MediaChunk{imageA, audioC, audioB, imageC})

	if a.Image == nil || a.Image.Data != "A" {
		t.Errorf("a.Image = %+v, want imageA", a.Image)
	}
	if a.Audio == nil || a.Audio.Data != "B" {
		t.Errorf("a.Audio = %+v, want audioB", a.Audio)
	}
	// First-of-type selection is stable under extra same-type chunks.
	if b.Image == nil || b.Image.Data != "A" {
		t.Errorf("b.Image = %+v, want imageA", b.Image)
	}
	if b.Audio == nil || b.Audio.Data != "C" {
		t.Errorf("b.Audio = %+v, want audioC", b.Audio)
	}
}

func TestClassifyEdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		chunks    []types.MediaChunk
		wantAudio string
		wantImage string
	}{
		{
			name: "empty batch",
		},
		{
			name:      "audio only",
			chunks:    []types.MediaChunk{{MIMEType: "audio/webm", Data: "a"}},
			wantAudio: "a",
		},
		{
			name:      "image only",
			chunks:    []types.MediaChunk{{MIMEType: "image/jpeg", Data: "i"}},
			wantImage: "i",
		},
		{
			name: "unknown types ignored",
			chunks: []types.MediaChunk{
				{MIMEType: "video/mp4", Data: "v"},
				{MIMEType: "text/plain", Data: "t"},
				{MIMEType: "image/jpeg", Data: "i"},
			},
			wantImage: "i",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.chunks)
			if tt.wantAudio == "" && got.Audio != nil {
				t.Errorf("Audio = %+v, want nil", got.Audio)
			}
			if tt.wantAudio != "" && (got.Audio == nil || got.Audio.Data != tt.wantAudio) {
				t.Errorf("Audio = %+v, want %q", got.Audio, tt.wantAudio)
			}
			if tt.wantImage == "" && got.Image != nil {
				t.Errorf("Image = %+v, want nil", got.Image)
			}
			if tt.wantImage != "" && (got.Image == nil || got.Image.Data != tt.wantImage) {
				t.Errorf("Image = %+v, want %q", got.Image, tt.wantImage)
			}
		})
	}
}
