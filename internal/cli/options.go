package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mgpai22/captime/internal/config"
	"github.com/mgpai22/captime/internal/subtitle"
	"github.com/mgpai22/captime/internal/video"
)

// addRenderFlags registers the flags shared by every command that writes
// subtitles.
func addRenderFlags(fs *pflag.FlagSet) {
	fs.StringP("format", "f", "srt", "Output format (srt, words, highlight, itt, itt-segments, vtt)")
	fs.IntP("words-per-segment", "w", 0, "Regroup words into captions of N words (0 keeps transcribed segments)")
	fs.String("frame-rate", "", "ITT frame rate in fps, or 'auto' to read it from --video")
	fs.String("video", "", "Video whose frame rate is used with --frame-rate auto")
	fs.Float64("gap", subtitle.DefaultGapThreshold, "Close ITT gaps shorter than this many seconds")
	fs.String("color", "", "Highlight color (default red for SRT, yellow for ITT)")
}

// loadSettings loads the config file and applies every render flag the user
// set explicitly on top of it.
func loadSettings(ctx context.Context, cmd *cobra.Command) (*config.Config, subtitle.Format, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", err
	}

	fs := cmd.Flags()
	if fs.Changed("format") {
		cfg.Format, _ = fs.GetString("format")
	}
	if fs.Changed("words-per-segment") {
		cfg.WordsPerSegment, _ = fs.GetInt("words-per-segment")
	}
	if fs.Changed("gap") {
		cfg.GapThreshold, _ = fs.GetFloat64("gap")
	}
	if fs.Changed("color") {
		cfg.HighlightColor, _ = fs.GetString("color")
	}
	if fs.Changed("frame-rate") {
		rate, _ := fs.GetString("frame-rate")
		videoPath, _ := fs.GetString("video")
		fps, err := resolveFrameRate(ctx, rate, videoPath)
		if err != nil {
			return nil, "", err
		}
		cfg.ITT.FrameRate = fps
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	format, err := subtitle.ParseFormat(cfg.Format)
	if err != nil {
		return nil, "", err
	}
	return cfg, format, nil
}

// resolveFrameRate parses a frame rate flag; "auto" probes videoPath.
func resolveFrameRate(ctx context.Context, rate, videoPath string) (int, error) {
	if !strings.EqualFold(strings.TrimSpace(rate), "auto") {
		fps, err := strconv.Atoi(strings.TrimSpace(rate))
		if err != nil || fps <= 0 {
			return 0, fmt.Errorf("invalid frame rate %q: use a positive integer or 'auto'", rate)
		}
		return fps, nil
	}

	if videoPath == "" {
		return 0, fmt.Errorf("--frame-rate auto requires --video")
	}
	info, err := video.NewProcessor().GetInfo(ctx, videoPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read video frame rate: %w", err)
	}
	logger.Debugw("Detected frame rate",
		"video", videoPath,
		"fps", info.FrameRate,
		"timecode_rate", info.TimecodeRate(),
	)
	return info.TimecodeRate(), nil
}

// defaultOutputPath derives the output file from the first input.
func defaultOutputPath(input string, format subtitle.Format) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + subtitle.ExtensionForFormat(format)
}

// writeOutput writes content to path, or to stdout for "-".
func writeOutput(path, content string) error {
	if path == "-" {
		_, err := os.Stdout.WriteString(content)
		return err
	}
	return subtitle.WriteFile(path, content)
}

// checkSRT validates SRT family output before it is written.
func checkSRT(format subtitle.Format, content string) error {
	switch format {
	case subtitle.FormatSRT, subtitle.FormatWords, subtitle.FormatHighlight:
		if err := subtitle.ValidateSRT(content); err != nil {
			return fmt.Errorf("generated subtitles failed validation: %w", err)
		}
	}
	return nil
}
