package transcribe

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mgpai22/captime/internal/audio"
	"github.com/mgpai22/captime/internal/timeline"
)

// implements Transcriber interface using OpenAI Audio API
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

// segment from OpenAI Whisper verbose_json response
type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// word from the verbose_json "words" array
type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Words    []whisperWord    `json:"words"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAITranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes single audio file
func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("audio file not found: %s", audioPath)
		}
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	duration, _ := audio.GetDuration(audioPath)

	if t.shouldUseTranslation() {
		return t.transcribeWithTranslation(ctx, file, duration)
	}

	return t.transcribeWithTimestamps(ctx, file, duration)
}

func (t *OpenAITranscriber) shouldUseTranslation() bool {
	lang := strings.ToLower(strings.TrimSpace(t.options.TranscriptLanguage))
	return lang == "english" || lang == "en"
}

// the translation endpoint has no word granularity, so word times are
// spread across each segment
func (t *OpenAITranscriber) transcribeWithTranslation(
	ctx context.Context,
	file *os.File,
	duration time.Duration,
) (*Result, error) {
	params := openai.AudioTranslationNewParams{
		File:           file,
		Model:          openai.AudioModel(t.model),
		ResponseFormat: openai.AudioTranslationNewParamsResponseFormatVerboseJSON,
	}

	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Translations.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	segments, err := parseVerboseJSONResponse(resp.RawJSON(), duration)
	if err != nil {
		segments = fallbackSegment(resp.Text, duration)
	}

	return &Result{
		Segments: segments,
		Language: "en",
		Duration: duration,
	}, nil
}

func (t *OpenAITranscriber) transcribeWithTimestamps(
	ctx context.Context,
	file *os.File,
	duration time.Duration,
) (*Result, error) {
	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word", "segment"},
	}

	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}

	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	segments, err := parseVerboseJSONResponse(resp.RawJSON(), duration)
	if err != nil {
		segments = fallbackSegment(resp.Text, duration)
	}

	return &Result{
		Segments: segments,
		Language: cmp.Or(t.options.Language, responseLanguage(resp.RawJSON())),
		Duration: duration,
	}, nil
}

// language whisper detected, empty when the response has none
func responseLanguage(rawJSON string) string {
	var resp struct {
		Language string `json:"language"`
	}
	if err := json.Unmarshal([]byte(rawJSON), &resp); err != nil {
		return ""
	}
	return resp.Language
}

// one segment spanning the whole clip, used when the response has no
// usable timing
func fallbackSegment(text string, duration time.Duration) []timeline.RawSegment {
	text = strings.TrimSpace(text)
	words := spreadWords(text, 0, duration.Seconds())
	if len(words) == 0 {
		return nil
	}
	return []timeline.RawSegment{{
		Start: 0,
		End:   duration.Seconds(),
		Text:  text,
		Words: words,
	}}
}

func parseVerboseJSONResponse(
	rawJSON string,
	fallbackDuration time.Duration,
) ([]timeline.RawSegment, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var verboseResp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verboseResp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(verboseResp.Segments) == 0 {
		if len(verboseResp.Words) > 0 {
			return []timeline.RawSegment{segmentFromWhisperWords(
				strings.TrimSpace(verboseResp.Text),
				verboseResp.Words,
			)}, nil
		}
		if strings.TrimSpace(verboseResp.Text) == "" {
			return nil, fmt.Errorf("no segments or text in response")
		}
		dur := fallbackDuration
		if verboseResp.Duration > 0 {
			dur = time.Duration(verboseResp.Duration * float64(time.Second))
		}
		return fallbackSegment(verboseResp.Text, dur), nil
	}

	return assignWords(verboseResp.Segments, verboseResp.Words), nil
}

// assignWords attaches each word to the segment containing its midpoint.
// Segments left without words get evenly spread words from their text;
// segments with neither are dropped.
func assignWords(segs []whisperSegment, words []whisperWord) []timeline.RawSegment {
	grouped := make([][]timeline.RawWord, len(segs))
	j := 0
	for _, w := range words {
		mid := (w.Start + w.End) / 2
		for j < len(segs)-1 && mid >= segs[j].End {
			j++
		}
		grouped[j] = append(grouped[j], timeline.RawWord{
			Word:  strings.TrimSpace(w.Word),
			Start: timeline.Seconds(w.Start),
			End:   timeline.Seconds(w.End),
		})
	}

	out := make([]timeline.RawSegment, 0, len(segs))
	for i, seg := range segs {
		text := strings.TrimSpace(seg.Text)
		segWords := grouped[i]
		if len(segWords) == 0 {
			segWords = spreadWords(text, seg.Start, seg.End)
		}
		if len(segWords) == 0 {
			continue
		}
		out = append(out, timeline.RawSegment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
			Words: segWords,
		})
	}
	return out
}

func segmentFromWhisperWords(text string, words []whisperWord) timeline.RawSegment {
	raw := make([]timeline.RawWord, len(words))
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = strings.TrimSpace(w.Word)
		raw[i] = timeline.RawWord{
			Word:  texts[i],
			Start: timeline.Seconds(w.Start),
			End:   timeline.Seconds(w.End),
		}
	}
	if text == "" {
		text = strings.Join(texts, " ")
	}
	return timeline.RawSegment{
		Start: words[0].Start,
		End:   words[len(words)-1].End,
		Text:  text,
		Words: raw,
	}
}

// transcribes multiple chunks in parallel
func (t *OpenAITranscriber) TranscribeWithChunks(
	ctx context.Context,
	chunks []audio.ChunkInfo,
	concurrency int,
) (*ChunkedResult, error) {
	res, err := transcribeChunks(ctx, chunks, concurrency, t.Transcribe)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (t *OpenAITranscriber) Close() error {
	return nil
}
