package subtitle

import (
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/mgpai22/captime/internal/timeline"
)

// srtEpsilon absorbs binary float error below a nanosecond, so 1.632 is
// 1632ms and not 1631.999...ms.
const srtEpsilon = 1e-6 // milliseconds

// formats seconds as HH:MM:SS,mmm, truncating sub-millisecond remainders
func FormatSRTTime(seconds float64) string {
	total := int64(math.Floor(seconds*1000 + srtEpsilon))

	return fmt.Sprintf(
		"%02d:%02d:%02d,%03d",
		total/3_600_000,
		total/60_000%60,
		total/1000%60,
		total%1000,
	)
}

// RenderSRT numbers the cues from 1 and renders them as SubRip text.
// Highlighted spans are wrapped in a font tag of the given color.
func RenderSRT(cues iter.Seq[timeline.Cue], highlightColor string) string {
	if highlightColor == "" {
		highlightColor = DefaultHighlightColor
	}

	var sb strings.Builder
	index := 1
	for cue := range cues {
		if index > 1 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n",
			index,
			FormatSRTTime(cue.Start),
			FormatSRTTime(cue.End),
			srtText(cue, highlightColor),
		)
		index++
	}
	return sb.String()
}

func srtText(cue timeline.Cue, color string) string {
	if !cue.HasHighlight() {
		return cue.Text()
	}
	parts := make([]string, len(cue.Spans))
	for i, sp := range cue.Spans {
		if sp.Highlighted {
			parts[i] = fmt.Sprintf(`<font color="%s">%s</font>`, color, sp.Text)
			continue
		}
		parts[i] = sp.Text
	}
	return strings.Join(parts, " ")
}
