package subtitle

import (
	"fmt"
	"strings"
)

// represents supported output formats
type Format string

const (
	FormatSRT         Format = "srt"          // one entry per segment
	FormatWords       Format = "words"        // one SRT entry per word
	FormatHighlight   Format = "highlight"    // SRT, whole segment with the current word colored
	FormatITT         Format = "itt"          // TTML with the current word colored
	FormatITTSegments Format = "itt-segments" // TTML, one cue per segment
	FormatVTT         Format = "vtt"
)

// DefaultHighlightColor colors the current word in highlighted output.
const DefaultHighlightColor = "red"

// parses a user supplied format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSRT, FormatWords, FormatHighlight, FormatITT, FormatITTSegments, FormatVTT:
		return f, nil
	default:
		return "", fmt.Errorf(
			"unsupported format %q: use srt, words, highlight, itt, itt-segments, or vtt",
			s,
		)
	}
}

// file extension for a format
func ExtensionForFormat(format Format) string {
	switch format {
	case FormatITT, FormatITTSegments:
		return ".itt"
	case FormatVTT:
		return ".vtt"
	default:
		return ".srt"
	}
}
