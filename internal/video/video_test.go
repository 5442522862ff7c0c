package video

import (
	"testing"
	"time"

	ffmpegbin "github.com/mgpai22/captime/internal/ffmpeg"
)

func mustProbe(t *testing.T, data string) *ffmpegbin.ProbeResult {
	t.Helper()
	p, err := ffmpegbin.ParseProbe([]byte(data))
	if err != nil {
		t.Fatalf("ParseProbe() error: %v", err)
	}
	return p
}

func TestInfoFromProbe(t *testing.T) {
	probe := mustProbe(t, `{
		"streams": [
			{"codec_type": "audio", "codec_name": "aac"},
			{"codec_type": "video", "codec_name": "prores", "width": 3840, "height": 2160,
			 "r_frame_rate": "30000/1001"}
		],
		"format": {"duration": "90.5"}
	}`)

	info, err := infoFromProbe("clip.mov", probe)
	if err != nil {
		t.Fatalf("infoFromProbe() error: %v", err)
	}
	if info.Width != 3840 || info.Height != 2160 || info.Codec != "prores" || !info.HasAudio {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.Duration != 90500*time.Millisecond {
		t.Errorf("Duration = %v, want 1m30.5s", info.Duration)
	}
	if got := info.TimecodeRate(); got != 30 {
		t.Errorf("TimecodeRate() = %d, want 30", got)
	}
}

func TestInfoFromProbeErrors(t *testing.T) {
	audioOnly := mustProbe(t, `{"streams": [{"codec_type": "audio"}], "format": {"duration": "1"}}`)
	if _, err := infoFromProbe("talk.m4a", audioOnly); err == nil {
		t.Error("expected error without a video stream")
	}

	noRate := mustProbe(t, `{"streams": [{"codec_type": "video", "r_frame_rate": "0/0"}]}`)
	if _, err := infoFromProbe("odd.mkv", noRate); err == nil {
		t.Error("expected error without a frame rate")
	}
}

func TestTimecodeRate(t *testing.T) {
	tests := []struct {
		fps  float64
		want int
	}{
		{23.976, 24},
		{24, 24},
		{25, 25},
		{29.97, 30},
		{59.94, 60},
	}
	for _, tt := range tests {
		if got := (&Info{FrameRate: tt.fps}).TimecodeRate(); got != tt.want {
			t.Errorf("TimecodeRate(%v) = %d, want %d", tt.fps, got, tt.want)
		}
	}
}
