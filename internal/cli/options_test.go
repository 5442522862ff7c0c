package cli

import (
	"context"
	"testing"

	"github.com/mgpai22/captime/internal/subtitle"
)

func TestResolveFrameRate(t *testing.T) {
	tests := []struct {
		name    string
		rate    string
		video   string
		want    int
		wantErr bool
	}{
		{name: "integer", rate: "30", want: 30},
		{name: "padded", rate: " 25 ", want: 25},
		{name: "zero", rate: "0", wantErr: true},
		{name: "fractional", rate: "29.97", wantErr: true},
		{name: "word", rate: "fast", wantErr: true},
		{name: "auto without video", rate: "auto", wantErr: true},
		{name: "auto is case insensitive", rate: "AUTO", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveFrameRate(context.Background(), tt.rate, tt.video)
			if tt.wantErr {
				if err == nil {
					t.Errorf("resolveFrameRate(%q) = %d, want error", tt.rate, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveFrameRate(%q) error: %v", tt.rate, err)
			}
			if got != tt.want {
				t.Errorf("resolveFrameRate(%q) = %d, want %d", tt.rate, got, tt.want)
			}
		})
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		input  string
		format subtitle.Format
		want   string
	}{
		{"talk.json", subtitle.FormatSRT, "talk.srt"},
		{"talk.json", subtitle.FormatHighlight, "talk.srt"},
		{"dir/talk.json", subtitle.FormatITT, "dir/talk.itt"},
		{"dir/talk.json", subtitle.FormatITTSegments, "dir/talk.itt"},
		{"video.mp4", subtitle.FormatVTT, "video.vtt"},
		{"noext", subtitle.FormatWords, "noext.srt"},
	}

	for _, tt := range tests {
		t.Run(tt.input+"/"+string(tt.format), func(t *testing.T) {
			if got := defaultOutputPath(tt.input, tt.format); got != tt.want {
				t.Errorf("defaultOutputPath(%q, %s) = %q, want %q", tt.input, tt.format, got, tt.want)
			}
		})
	}
}

func TestCheckSRT(t *testing.T) {
	if err := checkSRT(subtitle.FormatSRT, ""); err == nil {
		t.Error("empty srt output should fail validation")
	}
	if err := checkSRT(subtitle.FormatVTT, ""); err != nil {
		t.Errorf("non-srt formats are not validated: %v", err)
	}
}
