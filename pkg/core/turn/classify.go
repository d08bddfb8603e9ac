// Package turn implements the per-turn pipeline: media classification,
// best-effort transcription, reasoning, history append, and best-effort
// speech synthesis.
package turn

import (
	"github.com/inkwise/tutorgate/pkg/core/types"
)

// Classified is the per-turn media selection: at most one audio chunk and
// one image chunk.
type Classified struct {
	Audio *types.MediaChunk
	Image *types.MediaChunk
}

// Classify selects the first audio chunk and the first image chunk from the
// batch. Later chunks of the same kind and chunks of unknown kinds are
// ignored. No side effects.
func Classify(chunks []types.MediaChunk) Classified {
	var out Classified
	for i := range chunks {
		switch chunks[i].Kind() {
		case types.MediaAudio:
			if out.Audio == nil {
				out.Audio = &chunks[i]
			}
		case types.MediaImage:
			if out.Image == nil {
				out.Image = &chunks[i]
			}
		}
	}
	return out
}
