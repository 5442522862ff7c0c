package timeline

import (
	"fmt"
	"math"
)

// DefaultFrameRate is the frame rate used when none is configured.
const DefaultFrameRate = 24

// Timecode is a frame-quantized SMPTE position. It is a pure function of a
// second offset and a frame rate; build it with NewTimecode or WithFrame.
type Timecode struct {
	Hours   int
	Minutes int
	Seconds int
	Frame   int
}

// TimecodePair holds the quantized start and end of a cue.
type TimecodePair struct {
	Start Timecode
	End   Timecode
}

// converts seconds into a timecode at the given frame rate, truncating
func NewTimecode(t float64, frameRate int) Timecode {
	return Timecode{
		Hours:   int(math.Floor(t / 3600)),
		Minutes: int(math.Floor(floorMod(t, 3600) / 60)),
		Seconds: int(math.Floor(floorMod(t, 60))),
		Frame:   int(math.Floor(floorMod(t, 1) * float64(frameRate))),
	}
}

// WithFrame returns a copy of tc pointing at another frame of the same second.
func (tc Timecode) WithFrame(frame int) Timecode {
	tc.Frame = frame
	return tc
}

// reports whether both timecodes fall within the same whole second
func (tc Timecode) SameSecond(o Timecode) bool {
	return tc.Hours == o.Hours &&
		tc.Minutes == o.Minutes &&
		tc.Seconds == o.Seconds
}

func (tc Timecode) String() string {
	return fmt.Sprintf(
		"%02d:%02d:%02d:%02d",
		tc.Hours,
		tc.Minutes,
		tc.Seconds,
		tc.Frame,
	)
}

func newPair(start, end float64, frameRate int) *TimecodePair {
	return &TimecodePair{
		Start: NewTimecode(start, frameRate),
		End:   NewTimecode(end, frameRate),
	}
}

// floorMod is a modulo whose result takes the sign of the divisor.
func floorMod(x, d float64) float64 {
	m := math.Mod(x, d)
	if m < 0 {
		m += d
	}
	return m
}
