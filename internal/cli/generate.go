package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/captime/internal/audio"
	"github.com/mgpai22/captime/internal/config"
	"github.com/mgpai22/captime/internal/subtitle"
	"github.com/mgpai22/captime/internal/timeline"
	"github.com/mgpai22/captime/internal/transcribe"
	"github.com/mgpai22/captime/internal/transcript"
	"github.com/mgpai22/captime/internal/video"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media_file]",
	Short: "Transcribe an audio or video file and write subtitles",
	Long: `Transcribe the specified audio or video file with word-level timing and
write subtitles in any supported format.

For video files, audio is extracted first. The audio is split into chunks
(default 1 minute) that are transcribed in parallel; each chunk transcript
is then placed at the chunk's start in the source audio.

Examples:
  captime generate video.mp4
  captime generate video.mp4 -f itt --frame-rate auto --video video.mp4
  captime generate podcast.mp3 --provider openai -f highlight
  captime generate talk.mp4 -d 2 --concurrency 5 --save-transcript talk.json`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	addRenderFlags(generateCmd.Flags())
	generateCmd.Flags().
		String("provider", "", "Transcription provider: gemini or openai (default from config, gemini)")
	generateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY / OPENAI_API_KEY)")
	generateCmd.Flags().
		IntP("chunk-duration", "d", 1, "Chunk duration in minutes for splitting audio")
	generateCmd.Flags().
		Int("concurrency", 3, "Number of parallel transcription workers")
	generateCmd.Flags().
		String("model", "", "Model to use for transcription (provider default when empty)")
	generateCmd.Flags().
		StringP("language", "l", "", "Language of the audio (e.g., en, es, fr)")
	generateCmd.Flags().
		String("transcript-language", "native", "Output language for transcript (e.g., 'english', 'spanish', or 'native' for original language)")
	generateCmd.Flags().
		String("save-transcript", "", "Also write the stitched word-level transcript as JSON")
}

// the OpenAI translation endpoint only produces English
func isValidOpenAITranscriptLanguage(lang string) bool {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "native", "english", "en":
		return true
	default:
		return false
	}
}

func apiKeyFor(provider transcribe.Provider, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	envVar := "GEMINI_API_KEY"
	if provider == transcribe.ProviderOpenAI {
		envVar = "OPENAI_API_KEY"
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%s API key is required: use --api-key flag or set %s environment variable", provider, envVar)
}

// applyTranscriptionFlags overrides the config's transcription settings with
// the flags the user set.
func applyTranscriptionFlags(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	tc := &cfg.Transcription
	if fs.Changed("provider") {
		tc.Provider, _ = fs.GetString("provider")
	}
	if fs.Changed("model") {
		tc.Model, _ = fs.GetString("model")
	}
	if fs.Changed("language") {
		tc.Language, _ = fs.GetString("language")
	}
	if fs.Changed("chunk-duration") {
		minutes, _ := fs.GetInt("chunk-duration")
		tc.ChunkDuration = float64(minutes) * 60
	}
	if fs.Changed("concurrency") {
		tc.Concurrency, _ = fs.GetInt("concurrency")
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	cfg, format, err := loadSettings(ctx, cmd)
	if err != nil {
		return err
	}
	applyTranscriptionFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	tc := cfg.Transcription

	provider := transcribe.Provider(strings.ToLower(tc.Provider))
	transcriptLang, _ := cmd.Flags().GetString("transcript-language")
	if provider == transcribe.ProviderOpenAI && !isValidOpenAITranscriptLanguage(transcriptLang) {
		return fmt.Errorf("openai can only transcribe natively or translate to english, got %q", transcriptLang)
	}

	apiKeyFlag, _ := cmd.Flags().GetString("api-key")
	apiKey, err := apiKeyFor(provider, apiKeyFlag)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = defaultOutputPath(mediaPath, format)
	}
	savePath, _ := cmd.Flags().GetString("save-transcript")

	chunkDur := time.Duration(tc.ChunkDuration * float64(time.Second))
	logger.Infow("Starting subtitle generation",
		"input", mediaPath,
		"output", outputPath,
		"format", format,
		"provider", provider,
		"chunk_duration", chunkDur.String(),
		"concurrency", tc.Concurrency,
	)

	tempDir, err := os.MkdirTemp("", "captime-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	audioPath, err := prepareAudio(ctx, mediaPath, tempDir)
	if err != nil {
		return err
	}

	chunks, err := audio.ChunkAudioConcurrent(ctx, audioPath, chunkDur, filepath.Join(tempDir, "chunks"), tc.Concurrency)
	if err != nil {
		return fmt.Errorf("failed to split audio: %w", err)
	}
	logger.Infow("Created audio chunks",
		"count", len(chunks),
	)

	transcriber, err := transcribe.Factory(ctx, provider, apiKey, transcribe.Options{
		Language:           tc.Language,
		TranscriptLanguage: transcriptLang,
		Model:              tc.Model,
	})
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	logger.Infow("Transcribing audio",
		"concurrency", tc.Concurrency,
	)
	result, err := transcriber.TranscribeWithChunks(ctx, chunks, tc.Concurrency)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	conv, err := convertChunks(result)
	if err != nil {
		return err
	}
	logger.Infow("Transcription complete",
		"segments", len(conv.Segments()),
		"words", len(conv.Words()),
	)

	if savePath != "" {
		if err := saveTranscript(savePath, conv.Segments(), result.Language); err != nil {
			return err
		}
	}

	content, err := conv.Render(format, cfg.RenderOptions())
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
		fmt.Fprintf(cmd.OutOrStdout(), "Subtitles generated successfully: %s\n", absOutput)
		fmt.Fprintf(cmd.OutOrStdout(), "  Segments: %d\n", len(conv.Segments()))
		fmt.Fprintf(cmd.OutOrStdout(), "  Chunks: %d\n", len(chunks))
	}
	return nil
}

// convertChunks places each chunk's transcript at the chunk's start in the
// source audio.
func convertChunks(result *transcribe.ChunkedResult) (*subtitle.Converter, error) {
	conv, err := subtitle.FromOffsets(result.Parts, result.Offsets, subtitle.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build captions: %w", err)
	}
	return conv, nil
}

// prepareAudio extracts or compresses the media's audio into tempDir.
func prepareAudio(ctx context.Context, mediaPath, tempDir string) (string, error) {
	audioPath := filepath.Join(tempDir, "audio.mp3")
	compressionOpts := audio.DefaultCompressionOptions()

	if audio.IsVideoFile(mediaPath) {
		logger.Infow("Extracting audio from video")
		extractOpts := video.ExtractAudioOptions{
			Format:     compressionOpts.Format,
			SampleRate: compressionOpts.SampleRate,
			Channels:   compressionOpts.Channels,
			Bitrate:    compressionOpts.Bitrate,
		}
		if err := video.NewProcessor().ExtractAudio(ctx, mediaPath, audioPath, extractOpts); err != nil {
			return "", fmt.Errorf("failed to extract audio: %w", err)
		}
		return audioPath, nil
	}

	logger.Infow("Compressing audio for transcription")
	if err := audio.CompressAudio(ctx, mediaPath, audioPath, compressionOpts); err != nil {
		return "", fmt.Errorf("failed to compress audio: %w", err)
	}
	return audioPath, nil
}

// saveTranscript writes the stitched segments back out as raw transcript
// JSON, so later runs can use convert without transcribing again.
func saveTranscript(path string, segs []timeline.Segment, language string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create transcript file: %w", err)
	}
	defer f.Close()

	if err := transcript.Encode(f, toRaw(segs), language); err != nil {
		return err
	}
	logger.Infow("Saved transcript", "path", path)
	return nil
}

func toRaw(segs []timeline.Segment) []timeline.RawSegment {
	raws := make([]timeline.RawSegment, len(segs))
	for i, s := range segs {
		words := make([]timeline.RawWord, len(s.Words))
		for j, w := range s.Words {
			words[j] = timeline.RawWord{
				Word:  w.Text,
				Start: timeline.Seconds(w.Start),
				End:   timeline.Seconds(w.End),
				Score: w.Score,
			}
		}
		raws[i] = timeline.RawSegment{
			Start: s.Start,
			End:   s.End,
			Text:  s.Text,
			Words: words,
		}
	}
	return raws
}
