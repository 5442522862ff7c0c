package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captime/internal/audio"
	"github.com/mgpai22/captime/internal/subtitle"
	"github.com/mgpai22/captime/internal/transcript"
)

// words per caption when --from-words is used without --words-per-segment
const defaultWordsPerSegment = 5

var convertCmd = &cobra.Command{
	Use:   "convert [transcript.json...]",
	Short: "Convert word-level transcripts into subtitles",
	Long: `Convert one or more WhisperX-style JSON transcripts into subtitles.

Several transcripts are treated as consecutive clips and placed on one
timeline. Give each clip's real length with --durations or let captime probe
the clips themselves with --clips; a clip without a known length advances the
timeline to its last caption's end.

Formats:
  srt           one entry per transcribed segment
  words         one SRT entry per word
  highlight     one SRT entry per word, whole segment shown, word colored
  itt           iTunes Timed Text, one cue per word with the word colored
  itt-segments  iTunes Timed Text, one cue per segment
  vtt           WebVTT, one cue per segment

Examples:
  captime convert talk.json
  captime convert talk.json -f itt --frame-rate auto --video talk.mp4
  captime convert part1.json part2.json --durations 600,412.5 -o full.srt
  captime convert a.json b.json --clips a.wav,b.wav -f highlight --color yellow
  captime convert words.json --from-words -w 4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	addRenderFlags(convertCmd.Flags())
	convertCmd.Flags().
		Float64Slice("durations", nil, "Length in seconds of each clip, in input order")
	convertCmd.Flags().
		StringSlice("clips", nil, "Media files whose probed lengths are used as clip durations")
	convertCmd.Flags().
		Bool("from-words", false, "Build captions from the flat word list instead of segments")
	convertCmd.MarkFlagsMutuallyExclusive("durations", "clips")
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, format, err := loadSettings(ctx, cmd)
	if err != nil {
		return err
	}

	fromWords, _ := cmd.Flags().GetBool("from-words")
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = defaultOutputPath(args[0], format)
	}

	logger.Infow("Converting transcripts",
		"inputs", len(args),
		"output", outputPath,
		"format", format,
		"config", cfg.Path(),
	)

	var conv *subtitle.Converter
	if fromWords {
		conv, err = convertFromWords(args, cfg.WordsPerSegment)
	} else {
		conv, err = convertFromSegments(ctx, cmd, args)
	}
	if err != nil {
		return err
	}

	opts := cfg.RenderOptions()
	if fromWords {
		// captions are already grouped
		opts.WordsPerSegment = 0
	}
	content, err := conv.Render(format, opts)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", format, err)
	}
	if err := checkSRT(format, content); err != nil {
		return err
	}

	if err := writeOutput(outputPath, content); err != nil {
		return err
	}

	if outputPath != "-" {
		absOutput, _ := filepath.Abs(outputPath)
		fmt.Fprintf(cmd.OutOrStdout(), "Subtitles written: %s\n", absOutput)
		fmt.Fprintf(cmd.OutOrStdout(), "  Segments: %d\n", len(conv.Segments()))
		fmt.Fprintf(cmd.OutOrStdout(), "  Words: %d\n", len(conv.Words()))
	}
	return nil
}

func convertFromWords(paths []string, wordsPerSegment int) (*subtitle.Converter, error) {
	if len(paths) != 1 {
		return nil, fmt.Errorf("--from-words takes exactly one transcript, got %d", len(paths))
	}
	if wordsPerSegment == 0 {
		wordsPerSegment = defaultWordsPerSegment
	}

	t, err := transcript.Load(paths[0])
	if err != nil {
		return nil, err
	}
	words, err := t.WordList()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", paths[0], err)
	}

	return subtitle.FromWords(words, wordsPerSegment, subtitle.WithLogger(logger))
}

func convertFromSegments(ctx context.Context, cmd *cobra.Command, paths []string) (*subtitle.Converter, error) {
	parts, err := transcript.LoadAll(paths)
	if err != nil {
		return nil, err
	}

	durations, _ := cmd.Flags().GetFloat64Slice("durations")
	clips, _ := cmd.Flags().GetStringSlice("clips")
	if len(clips) > 0 {
		if durations, err = audio.ClipDurations(ctx, clips); err != nil {
			return nil, fmt.Errorf("failed to probe clips: %w", err)
		}
	}

	if len(parts) == 1 && len(durations) == 0 {
		return subtitle.NewConverter(parts[0], subtitle.WithLogger(logger))
	}

	// the last clip's length never moves anything
	if len(durations) < len(parts)-1 {
		logger.Warnw("Missing clip durations, later clips are placed after their predecessor's last caption",
			"clips", len(parts),
			"durations", len(durations),
		)
	}
	return subtitle.FromParts(parts, durations, subtitle.WithLogger(logger))
}
