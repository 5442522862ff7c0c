package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/captime/internal/ffmpeg"
)

// audio chunk info
type ChunkInfo struct {
	Path      string
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
}

// Duration is the chunk's length.
func (c ChunkInfo) Duration() time.Duration {
	return c.EndTime - c.StartTime
}

// settings for audio compression
type CompressionOptions struct {
	Format     string // Output format (mp3, aac, etc.)
	SampleRate int    // Sample rate in Hz
	Channels   int    // Number of channels (1=mono, 2=stereo)
	Bitrate    string // Bitrate (e.g., "64k", "128k")
}

// defaults for transcription
func DefaultCompressionOptions() CompressionOptions {
	return CompressionOptions{
		Format:     "mp3",
		SampleRate: 16000,
		Channels:   1,
		Bitrate:    "64k",
	}
}

var audioCodecs = map[string]string{
	"mp3": "libmp3lame",
	"aac": "aac",
}

// duration of an audio/video file
func GetDuration(filePath string) (time.Duration, error) {
	probe, err := ffmpegbin.Probe(context.Background(), filePath)
	if err != nil {
		return 0, err
	}
	seconds, err := probe.DurationSeconds()
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// ClipDurations probes each clip's length in seconds, in order.
func ClipDurations(ctx context.Context, paths []string) ([]float64, error) {
	durations := make([]float64, len(paths))
	for i, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		probe, err := ffmpegbin.Probe(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("clip %s: %w", p, err)
		}
		if durations[i], err = probe.DurationSeconds(); err != nil {
			return nil, fmt.Errorf("clip %s: %w", p, err)
		}
	}
	return durations, nil
}

// compresses an audio file with the given options
func CompressAudio(
	ctx context.Context,
	inputPath, outputPath string,
	opts CompressionOptions,
) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	codec, ok := audioCodecs[opts.Format]
	if !ok {
		codec = audioCodecs["mp3"]
	}
	kwargs := ffmpeg.KwArgs{
		"vn":     "",              // No video
		"ar":     opts.SampleRate, // Sample rate
		"ac":     opts.Channels,   // Channels
		"acodec": codec,
	}
	if opts.Bitrate != "" {
		kwargs["b:a"] = opts.Bitrate
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	err = ffmpeg.Input(inputPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("compression failed: %w", err)
	}

	return nil
}

// PlanChunks splits total into consecutive windows of at most
// chunkDuration. Paths are left empty.
func PlanChunks(total, chunkDuration time.Duration) ([]ChunkInfo, error) {
	if chunkDuration <= 0 {
		return nil, fmt.Errorf(
			"chunk duration must be positive, got %v",
			chunkDuration,
		)
	}

	var chunks []ChunkInfo
	for i, start := 0, time.Duration(0); start < total; i, start = i+1, start+chunkDuration {
		chunks = append(chunks, ChunkInfo{
			Index:     i,
			StartTime: start,
			EndTime:   min(start+chunkDuration, total),
		})
	}
	return chunks, nil
}

// splits an audio file into chunks of specified duration
func ChunkAudio(
	ctx context.Context,
	audioPath string,
	chunkDuration time.Duration,
	outputDir string,
) ([]ChunkInfo, error) {
	return ChunkAudioConcurrent(ctx, audioPath, chunkDuration, outputDir, 0)
}

// ChunkAudioConcurrent splits an audio file into chunks with configurable concurrency.
// If concurrency is 0 or negative, it defaults to 10 concurrent workers.
func ChunkAudioConcurrent(
	ctx context.Context,
	audioPath string,
	chunkDuration time.Duration,
	outputDir string,
	concurrency int,
) ([]ChunkInfo, error) {
	if concurrency <= 0 {
		concurrency = 10
	}

	totalDuration, err := GetDuration(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio duration: %w", err)
	}

	chunks, err := PlanChunks(totalDuration, chunkDuration)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(audioPath)
	baseName := strings.TrimSuffix(filepath.Base(audioPath), ext)
	for i := range chunks {
		chunks[i].Path = filepath.Join(
			outputDir,
			fmt.Sprintf("%s_chunk_%03d%s", baseName, chunks[i].Index, ext),
		)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	work := make(chan ChunkInfo)

	for range concurrency {
		wg.Go(func() {
			for c := range work {
				if ctx.Err() != nil {
					continue
				}
				err := ffmpeg.Input(audioPath).
					Output(c.Path, ffmpeg.KwArgs{
						"ss": c.StartTime.Seconds(),
						"t":  c.Duration().Seconds(),
						"c":  "copy", // Copy codec for speed
					}).
					OverWriteOutput().
					SetFfmpegPath(ffmpegPath).
					Run()
				if err != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("failed to create chunk %d: %w", c.Index, err))
					mu.Unlock()
					cancel()
				}
			}
		})
	}

feed:
	for _, c := range chunks {
		select {
		case <-ctx.Done():
			break feed
		case work <- c:
		}
	}
	close(work)
	wg.Wait()

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return chunks, nil
}

var videoExts = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	".mpeg": true, ".mpg": true, ".3gp": true,
}

var audioExts = map[string]bool{
	".mp3": true, ".wav": true, ".aac": true, ".flac": true,
	".ogg": true, ".m4a": true, ".wma": true, ".aiff": true,
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// checks if the file is an audio file based on extension
func IsAudioFile(path string) bool {
	return audioExts[strings.ToLower(filepath.Ext(path))]
}

// checks if the file is either audio or video
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}

// removes all chunk files
func CleanupChunks(chunks []ChunkInfo) error {
	var errs []error
	for _, chunk := range chunks {
		if err := os.Remove(chunk.Path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
