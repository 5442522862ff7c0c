package subtitle

import "testing"

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"srt", FormatSRT, false},
		{" SRT ", FormatSRT, false},
		{"words", FormatWords, false},
		{"highlight", FormatHighlight, false},
		{"itt", FormatITT, false},
		{"itt-segments", FormatITTSegments, false},
		{"vtt", FormatVTT, false},
		{"ass", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtensionForFormat(t *testing.T) {
	tests := map[Format]string{
		FormatSRT:         ".srt",
		FormatWords:       ".srt",
		FormatHighlight:   ".srt",
		FormatITT:         ".itt",
		FormatITTSegments: ".itt",
		FormatVTT:         ".vtt",
	}
	for format, want := range tests {
		if got := ExtensionForFormat(format); got != want {
			t.Errorf("ExtensionForFormat(%s) = %q, want %q", format, got, want)
		}
	}
}
