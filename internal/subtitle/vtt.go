package subtitle

import (
	"bytes"
	"fmt"
	"iter"
	"time"

	"github.com/asticode/go-astisub"

	"github.com/mgpai22/captime/internal/timeline"
)

// RenderVTT renders cues as WebVTT. Highlight markup is not carried over.
func RenderVTT(cues iter.Seq[timeline.Cue]) (string, error) {
	subs := toAstisub(cues)

	var buf bytes.Buffer
	if err := subs.WriteToWebVTT(&buf); err != nil {
		return "", fmt.Errorf("failed to write webvtt: %w", err)
	}
	return buf.String(), nil
}

func toAstisub(cues iter.Seq[timeline.Cue]) *astisub.Subtitles {
	subs := astisub.NewSubtitles()
	index := 0
	for cue := range cues {
		index++
		subs.Items = append(subs.Items, &astisub.Item{
			Index:   index,
			StartAt: secondsToDuration(cue.Start),
			EndAt:   secondsToDuration(cue.End),
			Lines: []astisub.Line{{
				Items: []astisub.LineItem{{Text: cue.Text()}},
			}},
		})
	}
	return subs
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
