package transcribe

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"

	"github.com/mgpai22/captime/internal/timeline"
)

func TestExtractTranscriptSegments(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{
			name: "plain valid array",
			input: `[
				{"start": 0.0, "end": 2.5, "text": "Hello world"},
				{"start": 2.5, "end": 5.0, "text": "How are you"}
			]`,
			wantCount: 2,
		},
		{
			name: "array with words",
			input: `[{"start": 0.0, "end": 1.0, "text": "Hi there", "words": [
				{"word": "Hi", "start": 0.0, "end": 0.4},
				{"word": "there", "start": 0.5, "end": 1.0}
			]}]`,
			wantCount: 1,
		},
		{
			name: "preamble and trailing text",
			input: `Here is your transcript:
			[{"start": 1.0, "end": 3.0, "text": "Test segment"}]
			That's all!`,
			wantCount: 1,
		},
		{
			name: "wrapper object with segments key",
			input: `{"segments": [
				{"start": 0.0, "end": 2.0, "text": "Wrapped segment"}
			]}`,
			wantCount: 1,
		},
		{
			name: "wrapper object with unknown key",
			input: `{"myCustomKey": [
				{"start": 0.0, "end": 2.0, "text": "From unknown key"}
			]}`,
			wantCount: 1,
		},
		{
			name: "nested wrapper object",
			input: `{
				"response": {
					"segments": [{"start": 0.0, "end": 1.0, "text": "Nested"}]
				}
			}`,
			wantCount: 1,
		},
		{
			name: "unrelated object first then transcript array",
			input: `{"status": "ok", "count": 5}
			[{"start": 0.0, "end": 2.0, "text": "Real transcript"}]`,
			wantCount: 1,
		},
		{
			name: "multiple arrays picks first valid",
			input: `[1, 2, 3]
			[{"start": 0.0, "end": 2.0, "text": "Actual transcript"}]`,
			wantCount: 1,
		},
		{
			name:    "empty array",
			input:   `[]`,
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   `This is just plain text with no JSON content.`,
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			input:   `[{"start": 0.0, "end": 2.0, "text": "incomplete"`,
			wantErr: true,
		},
		{
			name:    "array with empty segments",
			input:   `[{"start": 0, "end": 0, "text": ""}]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := extractTranscriptSegments(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(segments) != tt.wantCount {
				t.Errorf(
					"got %d segments, want %d",
					len(segments),
					tt.wantCount,
				)
			}
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON",
			input: `[{"start": 0, "end": 1, "text": "hello"}]`,
			want:  `[{"start": 0, "end": 1, "text": "hello"}]`,
		},
		{
			name:  "json code fence",
			input: "```json\n[{\"start\": 0, \"end\": 1, \"text\": \"hello\"}]\n```",
			want:  `[{"start": 0, "end": 1, "text": "hello"}]`,
		},
		{
			name:  "with leading/trailing whitespace",
			input: "  \n\n```json\n[{\"start\": 0}]\n```\n\n  ",
			want:  `[{"start": 0}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("cleanJSONResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateSegments(t *testing.T) {
	tests := []struct {
		name     string
		segments []transcriptSegment
		want     bool
	}{
		{"nil slice", nil, false},
		{"segment with text", []transcriptSegment{{Text: "hello"}}, true},
		{"segment with end time", []transcriptSegment{{End: 2.0}}, true},
		{"segment with words", []transcriptSegment{{Words: []transcriptWord{{Word: "a"}}}}, true},
		{"all zero segment", []transcriptSegment{{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateSegments(tt.segments); got != tt.want {
				t.Errorf("validateSegments() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToRawSegments(t *testing.T) {
	segs := []transcriptSegment{
		{
			Start: 0, End: 1, Text: " Hi there ",
			Words: []transcriptWord{
				{Word: "Hi", Start: timeline.Seconds(0), End: timeline.Seconds(0.5)},
				{Word: " there"},
			},
		},
		{Start: 2, End: 3, Text: "no words here"},
		{Start: 4, End: 5},
	}

	want := []timeline.RawSegment{
		{
			Start: 0, End: 1, Text: "Hi there",
			Words: []timeline.RawWord{
				{Word: "Hi", Start: timeline.Seconds(0), End: timeline.Seconds(0.5)},
				{Word: "there"},
			},
		},
		{
			Start: 2, End: 3, Text: "no words here",
			Words: spreadWords("no words here", 2, 3),
		},
	}

	if diff := cmp.Diff(want, toRawSegments(segs)); diff != "" {
		t.Errorf("toRawSegments() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTranscriptionResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "```json\n"},
				{Text: `{"segments": [{"start": 0.5, "end": 1.5, "text": "Good morning", "words": [` +
					`{"word": "Good", "start": 0.5, "end": 0.9}, {"word": "morning", "start": 1.0, "end": 1.5}]}]}`},
				{Text: "\n```"},
			}},
		}},
	}

	segs, err := parseTranscriptionResponse(resp)
	if err != nil {
		t.Fatalf("parseTranscriptionResponse() error: %v", err)
	}
	if len(segs) != 1 || len(segs[0].Words) != 2 {
		t.Fatalf("unexpected segments: %+v", segs)
	}
	if w := segs[0].Words[1]; w.Word != "morning" || *w.Start != 1.0 || *w.End != 1.5 {
		t.Errorf("unexpected word: %+v", w)
	}

	if _, err := parseTranscriptionResponse(nil); err == nil {
		t.Error("expected error for nil response")
	}
	empty := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}
	if _, err := parseTranscriptionResponse(empty); err == nil {
		t.Error("expected error for response without text")
	}
}

func TestBuildTranscriptionPrompt(t *testing.T) {
	tr := &GeminiTranscriber{options: Options{
		Language:           "Spanish",
		TranscriptLanguage: "English",
		Prompt:             "Speaker names: Ana, Luis.",
	}}

	prompt := tr.buildTranscriptionPrompt()
	for _, want := range []string{
		"'words' array",
		"The audio is in Spanish.",
		"Output the transcript in English.",
		"Speaker names: Ana, Luis.",
		"Return ONLY the JSON array",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}

	native := (&GeminiTranscriber{options: Options{TranscriptLanguage: "native"}}).buildTranscriptionPrompt()
	if strings.Contains(native, "Output the transcript in") {
		t.Errorf("native transcript should not request translation:\n%s", native)
	}
}
