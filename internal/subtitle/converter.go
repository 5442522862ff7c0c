package subtitle

import (
	"fmt"
	"iter"
	"strings"

	"github.com/mgpai22/captime/internal/logging"
	"github.com/mgpai22/captime/internal/timeline"
)

// DefaultGapThreshold is the largest inter-cue gap, in seconds, that the ITT
// path closes.
const DefaultGapThreshold = 1.0

// Converter turns repaired transcription segments into subtitle documents.
// It never mutates the segments it was built from.
type Converter struct {
	segments     []timeline.Segment
	originalText string
	logger       *logging.Logger
}

type Option func(*Converter)

func WithLogger(l *logging.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithOriginalText overrides the text otherwise joined from segment texts.
func WithOriginalText(text string) Option {
	return func(c *Converter) {
		c.originalText = text
	}
}

// RenderOptions selects how Render shapes its output.
type RenderOptions struct {
	WordsPerSegment int     // 0 keeps the transcribed segments
	HighlightColor  string  // overrides the format's default color
	GapThreshold    float64 // ITT gap closing threshold in seconds
	ITT             ITTOptions
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		GapThreshold: DefaultGapThreshold,
		ITT:          DefaultITTOptions(),
	}
}

// repairs missing word times and builds a converter over raws
func NewConverter(raws []timeline.RawSegment, opts ...Option) (*Converter, error) {
	segs, err := timeline.NewSegments(raws)
	if err != nil {
		return nil, fmt.Errorf("failed to build segments: %w", err)
	}
	return newConverter(segs, joinTexts(raws), opts), nil
}

// FromParts builds a converter over transcripts of consecutive clips, placed
// on one timeline. durations holds each clip's real length in seconds; parts
// without a declared duration advance the timeline to their last cue's end.
func FromParts(
	parts [][]timeline.RawSegment,
	durations []float64,
	opts ...Option,
) (*Converter, error) {
	built := make([][]timeline.Segment, len(parts))
	var texts []string
	for i, part := range parts {
		segs, err := timeline.NewSegments(part)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		built[i] = segs
		if t := joinTexts(part); t != "" {
			texts = append(texts, t)
		}
	}

	c := newConverter(
		timeline.Stitch(built, durations),
		strings.Join(texts, " "),
		opts,
	)
	c.logger.Debugw("Stitched transcript parts",
		"parts", len(parts),
		"durations", len(durations),
		"segments", len(c.segments),
	)
	return c, nil
}

// FromOffsets builds a converter over transcripts of audio chunks, each moved
// to its chunk's start offset in seconds.
func FromOffsets(
	parts [][]timeline.RawSegment,
	offsets []float64,
	opts ...Option,
) (*Converter, error) {
	placed, err := timeline.PlaceAt(parts, offsets)
	if err != nil {
		return nil, err
	}
	c, err := NewConverter(placed, opts...)
	if err != nil {
		return nil, err
	}
	c.logger.Debugw("Placed chunk transcripts",
		"parts", len(parts),
		"segments", len(c.segments),
	)
	return c, nil
}

// FromWords builds a converter from a flat word list, grouped into segments
// of wordsPerSegment words.
func FromWords(
	words []timeline.RawWord,
	wordsPerSegment int,
	opts ...Option,
) (*Converter, error) {
	segs, err := timeline.SegmentsFromWords(words, wordsPerSegment)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(segs))
	for i, s := range segs {
		texts[i] = s.Text
	}
	return newConverter(segs, strings.Join(texts, " "), opts), nil
}

func newConverter(
	segs []timeline.Segment,
	originalText string,
	opts []Option,
) *Converter {
	c := &Converter{
		segments:     segs,
		originalText: originalText,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNop(c.logger)
	return c
}

// copy of the converter's segments
func (c *Converter) Segments() []timeline.Segment {
	return timeline.CloneSegments(c.segments)
}

// every word across all segments, in order
func (c *Converter) Words() []timeline.Word {
	return timeline.FlattenWords(c.segments)
}

func (c *Converter) OriginalText() string {
	return c.originalText
}

// segments regrouped into wordsPerSegment words, or as transcribed when 0
func (c *Converter) segmentsFor(wordsPerSegment int) ([]timeline.Segment, error) {
	if wordsPerSegment == 0 {
		return c.segments, nil
	}
	segs, err := timeline.Rechunk(c.segments, wordsPerSegment)
	if err != nil {
		return nil, err
	}
	c.logger.Debugw("Regrouped words",
		"words_per_segment", wordsPerSegment,
		"segments", len(segs),
	)
	return segs, nil
}

// PlainSRT renders one entry per segment.
func (c *Converter) PlainSRT(wordsPerSegment int) (string, error) {
	segs, err := c.segmentsFor(wordsPerSegment)
	if err != nil {
		return "", err
	}
	return RenderSRT(timeline.SegmentCues(segs), ""), nil
}

// WordSRT renders one entry per word.
func (c *Converter) WordSRT() string {
	return RenderSRT(timeline.WordCues(c.segments), "")
}

// HighlightSRT renders one entry per word showing the whole segment with the
// current word colored.
func (c *Converter) HighlightSRT(color string) string {
	return RenderSRT(timeline.HighlightCues(c.segments), color)
}

// HighlightITT renders one frame-accurate cue per word with the current word
// colored, closing gaps shorter than gapThreshold seconds.
func (c *Converter) HighlightITT(opts ITTOptions, gapThreshold float64) (string, error) {
	return c.highlightITT(c.segments, opts, gapThreshold)
}

func (c *Converter) highlightITT(
	segs []timeline.Segment,
	opts ITTOptions,
	gapThreshold float64,
) (string, error) {
	expanded := timeline.ExpandAll(segs)
	return c.renderITT(expanded, opts, gapThreshold, timeline.ExpandedCues)
}

// ITT renders one frame-accurate cue per segment.
func (c *Converter) ITT(opts ITTOptions, wordsPerSegment int, gapThreshold float64) (string, error) {
	segs, err := c.segmentsFor(wordsPerSegment)
	if err != nil {
		return "", err
	}
	return c.renderITT(segs, opts, gapThreshold, timeline.SegmentCues)
}

func (c *Converter) renderITT(
	segs []timeline.Segment,
	opts ITTOptions,
	gapThreshold float64,
	cues func([]timeline.Segment) iter.Seq[timeline.Cue],
) (string, error) {
	if opts.FrameRate <= 0 {
		return "", fmt.Errorf("invalid frame rate %d", opts.FrameRate)
	}

	framed := timeline.SetFrameRate(segs, opts.FrameRate)
	closed, err := timeline.CloseGaps(framed, gapThreshold)
	if err != nil {
		return "", fmt.Errorf("failed to close gaps: %w", err)
	}
	c.logger.Debugw("Closed caption gaps",
		"cues", len(closed),
		"frame_rate", opts.FrameRate,
		"gap_threshold", gapThreshold,
	)

	return RenderITT(cues(closed), opts)
}

// VTT renders one WebVTT cue per segment.
func (c *Converter) VTT(wordsPerSegment int) (string, error) {
	segs, err := c.segmentsFor(wordsPerSegment)
	if err != nil {
		return "", err
	}
	return RenderVTT(timeline.SegmentCues(segs))
}

// Render dispatches to the renderer for format. Every format first regroups
// the words into opts.WordsPerSegment words per segment when it is set.
func (c *Converter) Render(format Format, opts RenderOptions) (string, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return "", err
	}
	segs, err := c.segmentsFor(opts.WordsPerSegment)
	if err != nil {
		return "", err
	}

	switch format {
	case FormatSRT:
		return RenderSRT(timeline.SegmentCues(segs), ""), nil
	case FormatWords:
		return RenderSRT(timeline.WordCues(segs), ""), nil
	case FormatHighlight:
		return RenderSRT(timeline.HighlightCues(segs), opts.HighlightColor), nil
	case FormatITT:
		itt := opts.ITT
		if opts.HighlightColor != "" {
			itt.HighlightColor = opts.HighlightColor
		}
		return c.highlightITT(segs, itt, opts.GapThreshold)
	case FormatITTSegments:
		return c.renderITT(segs, opts.ITT, opts.GapThreshold, timeline.SegmentCues)
	default:
		return RenderVTT(timeline.SegmentCues(segs))
	}
}

func joinTexts(raws []timeline.RawSegment) string {
	texts := make([]string, 0, len(raws))
	for _, r := range raws {
		texts = append(texts, r.Text)
	}
	return strings.Join(texts, " ")
}
