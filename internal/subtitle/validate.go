package subtitle

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/asticode/go-astisub"
)

var (
	ErrNoCues      = errors.New("no subtitle cues found")
	ErrInvertedCue = errors.New("cue ends before it starts")
)

// ValidateSRT parses content as SubRip and checks that it holds at least one
// cue and that no cue ends before it starts.
func ValidateSRT(content string) error {
	subs, err := astisub.ReadFromSRT(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("invalid srt: %w", err)
	}
	return checkItems(subs)
}

// validates an SRT file on disk
func ValidateSRTFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read subtitle file: %w", err)
	}
	return ValidateSRT(string(data))
}

func checkItems(subs *astisub.Subtitles) error {
	if subs == nil || len(subs.Items) == 0 {
		return ErrNoCues
	}
	for i, item := range subs.Items {
		if item.EndAt < item.StartAt {
			return fmt.Errorf(
				"cue %d (%s --> %s): %w",
				i+1,
				item.StartAt,
				item.EndAt,
				ErrInvertedCue,
			)
		}
	}
	return nil
}
