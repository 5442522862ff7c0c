package ffmpeg

import (
	"math"
	"testing"
)

const probeJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080,
     "r_frame_rate": "24000/1001", "avg_frame_rate": "24000/1001"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "r_frame_rate": "0/0"}
  ],
  "format": {"filename": "clip.mp4", "duration": "12.512000"}
}`

func TestParseProbe(t *testing.T) {
	res, err := ParseProbe([]byte(probeJSON))
	if err != nil {
		t.Fatalf("ParseProbe() error: %v", err)
	}

	d, err := res.DurationSeconds()
	if err != nil || d != 12.512 {
		t.Errorf("DurationSeconds() = %v, %v", d, err)
	}
	if !res.HasAudio() {
		t.Error("HasAudio() = false")
	}

	v, ok := res.VideoStream()
	if !ok {
		t.Fatal("VideoStream() found nothing")
	}
	if v.Width != 1920 || v.Height != 1080 || v.CodecName != "h264" {
		t.Errorf("unexpected video stream: %+v", v)
	}
	fps, err := v.FrameRate()
	if err != nil {
		t.Fatalf("FrameRate() error: %v", err)
	}
	if math.Abs(fps-23.976) > 0.001 {
		t.Errorf("FrameRate() = %v, want ~23.976", fps)
	}
}

func TestParseProbeErrors(t *testing.T) {
	if _, err := ParseProbe([]byte("not json")); err == nil {
		t.Error("expected error for malformed output")
	}

	res, err := ParseProbe([]byte(`{"format": {"duration": "N/A"}, "streams": []}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := res.DurationSeconds(); err == nil {
		t.Error("expected error for N/A duration")
	}
	if _, ok := res.VideoStream(); ok {
		t.Error("expected no video stream")
	}
}

func TestStreamFrameRate(t *testing.T) {
	tests := []struct {
		name    string
		stream  Stream
		want    float64
		wantErr bool
	}{
		{"integer ratio", Stream{RFrameRate: "25/1"}, 25, false},
		{"plain number", Stream{RFrameRate: "30"}, 30, false},
		{"falls back to average", Stream{RFrameRate: "0/0", AvgFrameRate: "50/1"}, 50, false},
		{"unusable", Stream{RFrameRate: "0/0", AvgFrameRate: ""}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.stream.FrameRate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("FrameRate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FrameRate() = %v, want %v", got, tt.want)
			}
		})
	}
}
