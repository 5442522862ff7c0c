package transcribe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mgpai22/captime/internal/audio"
	"github.com/mgpai22/captime/internal/timeline"
)

// transcription result with word-level timing
type Result struct {
	Segments []timeline.RawSegment
	Language string
	Duration time.Duration
}

// interface for audio transcription
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

type ConcurrentTranscriber interface {
	Transcriber
	TranscribeWithChunks(
		ctx context.Context,
		chunks []audio.ChunkInfo,
		concurrency int,
	) (*ChunkedResult, error)
}

// transcription service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// transcription options
type Options struct {
	Language           string // Source language of audio
	TranscriptLanguage string // Output language for transcript (default: "native")
	Model              string
	Prompt             string
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (ConcurrentTranscriber, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// spreadWords splits text into words laid evenly across [start, end], for
// responses that carry no word timing.
func spreadWords(text string, start, end float64) []timeline.RawWord {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	if end < start {
		end = start
	}

	step := (end - start) / float64(len(fields))
	words := make([]timeline.RawWord, len(fields))
	for i, f := range fields {
		words[i] = timeline.RawWord{
			Word:  f,
			Start: timeline.Seconds(start + float64(i)*step),
			End:   timeline.Seconds(start + float64(i+1)*step),
		}
	}
	// pin the last word to the exact end
	words[len(words)-1].End = timeline.Seconds(end)
	return words
}
