package video

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/captime/internal/ffmpeg"
)

// video file information
type Info struct {
	Path      string
	Duration  time.Duration
	Width     int
	Height    int
	FrameRate float64
	Codec     string
	HasAudio  bool
}

// TimecodeRate is the integer frame rate used for SMPTE timecodes: the
// nominal rate for NTSC-style fractional rates, e.g. 24 for 23.976.
func (i *Info) TimecodeRate() int {
	return int(math.Round(i.FrameRate))
}

// defines interface for video processing operations
type Processor interface {
	// extracts audio from video file
	ExtractAudio(
		ctx context.Context,
		videoPath, outputPath string,
		opts ExtractAudioOptions,
	) error

	// retrieves video file information
	GetInfo(ctx context.Context, videoPath string) (*Info, error)
}

// holds options for audio extraction
type ExtractAudioOptions struct {
	Format     string // Output format (wav, mp3, aac, flac)
	SampleRate int    // Sample rate in Hz (e.g., 16000, 44100, 48000)
	Channels   int    // Number of channels (1 = mono, 2 = stereo)
	Bitrate    string // Bitrate for lossy formats (e.g., "128k", "320k")
}

// returns sensible defaults for audio extraction
func DefaultExtractAudioOptions() ExtractAudioOptions {
	return ExtractAudioOptions{
		Format:     "wav",
		SampleRate: 16000,
		Channels:   1,
	}
}

// codec and whether the format takes a bitrate
var extractCodecs = map[string]struct {
	codec   string
	bitrate bool
}{
	"mp3":  {"libmp3lame", true},
	"aac":  {"aac", true},
	"flac": {"flac", false},
	"wav":  {"pcm_s16le", false},
}

// default implementation using ffmpeg
type DefaultProcessor struct{}

func NewProcessor() *DefaultProcessor {
	return &DefaultProcessor{}
}

// extracts audio from video file
func (p *DefaultProcessor) ExtractAudio(
	ctx context.Context,
	videoPath, outputPath string,
	opts ExtractAudioOptions,
) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	codec, ok := extractCodecs[opts.Format]
	if !ok {
		codec = extractCodecs["wav"]
	}
	kwargs := ffmpeg.KwArgs{
		"vn":     "",              // No video
		"ar":     opts.SampleRate, // Sample rate
		"ac":     opts.Channels,   // Channels
		"acodec": codec.codec,
	}
	if codec.bitrate && opts.Bitrate != "" {
		kwargs["b:a"] = opts.Bitrate
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	err = ffmpeg.Input(videoPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg extraction failed: %w", err)
	}

	return nil
}

// retrieves video file information
func (p *DefaultProcessor) GetInfo(
	ctx context.Context,
	videoPath string,
) (*Info, error) {
	probe, err := ffmpegbin.Probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	return infoFromProbe(videoPath, probe)
}

func infoFromProbe(path string, probe *ffmpegbin.ProbeResult) (*Info, error) {
	stream, ok := probe.VideoStream()
	if !ok {
		return nil, fmt.Errorf("no video stream in %s", path)
	}

	fps, err := stream.FrameRate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	info := &Info{
		Path:      path,
		Width:     stream.Width,
		Height:    stream.Height,
		FrameRate: fps,
		Codec:     stream.CodecName,
		HasAudio:  probe.HasAudio(),
	}
	// some containers report no duration; it is informational here
	if seconds, err := probe.DurationSeconds(); err == nil {
		info.Duration = time.Duration(seconds * float64(time.Second))
	}
	return info, nil
}
