package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"google.golang.org/genai"

	"github.com/mgpai22/captime/internal/audio"
	"github.com/mgpai22/captime/internal/timeline"
)

// implements Transcriber interface using Google Gemini
type GeminiTranscriber struct {
	client  *genai.Client
	model   string
	options Options
}

// word from Gemini's JSON response; times may be omitted
type transcriptWord struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

// segment from Gemini's JSON response
type transcriptSegment struct {
	Start float64          `json:"start"`
	End   float64          `json:"end"`
	Text  string           `json:"text"`
	Words []transcriptWord `json:"words"`
}

var errNoTranscript = errors.New("no transcript array found in response")

func NewGeminiTranscriber(ctx context.Context, apiKey string, opts Options) (*GeminiTranscriber, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiTranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes single audio file
func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	uploadedFile, err := t.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}

	defer func() {
		_, _ = t.client.Files.Delete(ctx, uploadedFile.Name, nil)
	}()

	parts := []*genai.Part{
		genai.NewPartFromText(t.buildTranscriptionPrompt()),
		genai.NewPartFromURI(uploadedFile.URI, uploadedFile.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	segments, err := parseTranscriptionResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcription: %w", err)
	}

	duration, _ := audio.GetDuration(audioPath)

	return &Result{
		Segments: segments,
		Language: t.options.Language,
		Duration: duration,
	}, nil
}

// transcribes multiple chunks in parallel
func (t *GeminiTranscriber) TranscribeWithChunks(ctx context.Context, chunks []audio.ChunkInfo, concurrency int) (*ChunkedResult, error) {
	res, err := transcribeChunks(ctx, chunks, concurrency, t.Transcribe)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// creates the prompt for transcription
func (t *GeminiTranscriber) buildTranscriptionPrompt() string {
	var sb strings.Builder

	sb.WriteString("Generate a detailed transcript of this audio with word-level timing. ")
	sb.WriteString("For each sentence or phrase, provide the start timestamp, end timestamp, the exact text spoken, ")
	sb.WriteString("and a 'words' array with one object per spoken word containing 'word', 'start', and 'end'. ")
	sb.WriteString("Format your response as a JSON array with objects containing 'start', 'end', 'text', and 'words' fields, ")
	sb.WriteString("where every 'start' and 'end' is a timestamp in seconds (as a number). ")
	sb.WriteString("Omit 'start' or 'end' for a word whose timing you cannot determine. ")

	if t.options.Language != "" {
		fmt.Fprintf(&sb, "The audio is in %s. ", t.options.Language)
	}

	if t.options.TranscriptLanguage != "" && t.options.TranscriptLanguage != "native" {
		fmt.Fprintf(&sb, "Output the transcript in %s. ", t.options.TranscriptLanguage)
	}

	if t.options.Prompt != "" {
		sb.WriteString(t.options.Prompt)
		sb.WriteString(" ")
	}

	sb.WriteString("Return ONLY the JSON array, no other text or markdown formatting.")

	return sb.String()
}

// parses Gemini's response into segments
func parseTranscriptionResponse(result *genai.GenerateContentResponse) ([]timeline.RawSegment, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var responseText strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			responseText.WriteString(part.Text)
		}
	}

	if responseText.Len() == 0 {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	text := cleanJSONResponse(responseText.String())
	segs, err := extractTranscriptSegments(text)
	if err != nil {
		return nil, fmt.Errorf("%w (response: %s)", err, truncateString(text, 200))
	}

	return toRawSegments(segs), nil
}

// extractTranscriptSegments finds the first JSON value in s holding a usable
// segment array, either bare or under some key of a wrapper object. Prose
// around the JSON is skipped.
func extractTranscriptSegments(s string) ([]transcriptSegment, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != '[' && s[i] != '{' {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(s[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			continue
		}
		if segs, ok := segmentsFrom(raw); ok {
			return segs, nil
		}
		i += int(dec.InputOffset()) - 1
	}
	return nil, errNoTranscript
}

// segmentsFrom decodes raw as a segment array, or searches an object's
// values for one, preferring the usual wrapper keys.
func segmentsFrom(raw json.RawMessage) ([]transcriptSegment, bool) {
	var segs []transcriptSegment
	if err := json.Unmarshal(raw, &segs); err == nil {
		return segs, validateSegments(segs)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if r := wrapperRank(a) - wrapperRank(b); r != 0 {
			return r
		}
		return strings.Compare(a, b)
	})

	for _, k := range keys {
		if segs, ok := segmentsFrom(obj[k]); ok {
			return segs, true
		}
	}
	return nil, false
}

func wrapperRank(key string) int {
	switch key {
	case "segments":
		return 0
	case "transcript":
		return 1
	case "data":
		return 2
	default:
		return 3
	}
}

// reports whether any segment carries text, timing or words
func validateSegments(segs []transcriptSegment) bool {
	for _, s := range segs {
		if s.Text != "" || s.Start != 0 || s.End != 0 || len(s.Words) > 0 {
			return true
		}
	}
	return false
}

// converts parsed segments, spreading words over segments that came back
// without them
func toRawSegments(segs []transcriptSegment) []timeline.RawSegment {
	out := make([]timeline.RawSegment, 0, len(segs))
	for _, s := range segs {
		text := strings.TrimSpace(s.Text)

		var words []timeline.RawWord
		for _, w := range s.Words {
			word := strings.TrimSpace(w.Word)
			if word == "" {
				continue
			}
			words = append(words, timeline.RawWord{
				Word:  word,
				Start: w.Start,
				End:   w.End,
			})
		}
		if len(words) == 0 {
			words = spreadWords(text, s.Start, s.End)
		}
		if len(words) == 0 {
			continue
		}

		out = append(out, timeline.RawSegment{
			Start: s.Start,
			End:   s.End,
			Text:  text,
			Words: words,
		})
	}
	return out
}

var jsonFenceRegex = regexp.MustCompile("```(?:json)?\\s*")

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = jsonFenceRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Close closes the Gemini client
func (t *GeminiTranscriber) Close() error {
	// The genai client doesn't have a Close method in the current SDK
	// but we include this for future compatibility
	return nil
}
