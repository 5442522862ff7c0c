package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captime/internal/video"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract a video's audio for transcription",
	Long: `Extract the audio track from a video file, ready for a word-level
transcriber such as WhisperX. The defaults (16 kHz mono WAV) are what
alignment models expect.

Examples:
  captime extract video.mp4
  captime extract video.mp4 -o audio.mp3 -f mp3
  captime extract video.mp4 --sample-rate 44100 --channels 2`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	defaults := video.DefaultExtractAudioOptions()
	extractCmd.Flags().
		StringP("format", "f", defaults.Format, "Output audio format (wav, mp3, aac, flac)")
	extractCmd.Flags().
		IntP("sample-rate", "r", defaults.SampleRate, "Sample rate in Hz (e.g., 16000, 44100, 48000)")
	extractCmd.Flags().
		IntP("channels", "c", defaults.Channels, "Number of audio channels (1=mono, 2=stereo)")
	extractCmd.Flags().
		StringP("bitrate", "b", "", "Bitrate for lossy formats (e.g., 128k, 320k)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := video.ExtractAudioOptions{}
	opts.Format, _ = cmd.Flags().GetString("format")
	opts.SampleRate, _ = cmd.Flags().GetInt("sample-rate")
	opts.Channels, _ = cmd.Flags().GetInt("channels")
	opts.Bitrate, _ = cmd.Flags().GetString("bitrate")
	opts.Format = strings.ToLower(opts.Format)

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" || outputPath == "-" {
		outputPath = strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + "." + opts.Format
	}

	logger.Infow("Extracting audio",
		"video", videoPath,
		"output", outputPath,
		"format", opts.Format,
		"sample_rate", opts.SampleRate,
		"channels", opts.Channels,
	)

	if err := video.NewProcessor().ExtractAudio(ctx, videoPath, outputPath, opts); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Audio extracted successfully: %s\n", absOutput)
	return nil
}
