package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestPlanChunks(t *testing.T) {
	tests := []struct {
		name  string
		total time.Duration
		chunk time.Duration
		want  []ChunkInfo
	}{
		{
			name:  "exact multiple",
			total: 20 * time.Second,
			chunk: 10 * time.Second,
			want: []ChunkInfo{
				{Index: 0, StartTime: 0, EndTime: 10 * time.Second},
				{Index: 1, StartTime: 10 * time.Second, EndTime: 20 * time.Second},
			},
		},
		{
			name:  "short remainder",
			total: 25 * time.Second,
			chunk: 10 * time.Second,
			want: []ChunkInfo{
				{Index: 0, StartTime: 0, EndTime: 10 * time.Second},
				{Index: 1, StartTime: 10 * time.Second, EndTime: 20 * time.Second},
				{Index: 2, StartTime: 20 * time.Second, EndTime: 25 * time.Second},
			},
		},
		{
			name:  "shorter than one chunk",
			total: 3 * time.Second,
			chunk: 10 * time.Second,
			want: []ChunkInfo{
				{Index: 0, StartTime: 0, EndTime: 3 * time.Second},
			},
		},
		{
			name:  "empty input",
			total: 0,
			chunk: 10 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlanChunks(tt.total, tt.chunk)
			if err != nil {
				t.Fatalf("PlanChunks() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PlanChunks() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := PlanChunks(time.Minute, 0); err == nil {
		t.Error("expected error for zero chunk duration")
	}
}

func TestChunkInfoDuration(t *testing.T) {
	c := ChunkInfo{StartTime: 600 * time.Second, EndTime: 642 * time.Second}
	if got := c.Duration(); got != 42*time.Second {
		t.Errorf("Duration() = %v, want 42s", got)
	}
}

func TestMediaFileDetection(t *testing.T) {
	tests := []struct {
		path         string
		audio, video bool
	}{
		{"talk.MP3", true, false},
		{"talk.wav", true, false},
		{"movie.mp4", false, true},
		{"clips/movie.MOV", false, true},
		{"notes.txt", false, false},
		{"noext", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsAudioFile(tt.path); got != tt.audio {
				t.Errorf("IsAudioFile() = %v, want %v", got, tt.audio)
			}
			if got := IsVideoFile(tt.path); got != tt.video {
				t.Errorf("IsVideoFile() = %v, want %v", got, tt.video)
			}
			if got := IsMediaFile(tt.path); got != (tt.audio || tt.video) {
				t.Errorf("IsMediaFile() = %v", got)
			}
		})
	}
}

func TestCleanupChunks(t *testing.T) {
	dir := t.TempDir()
	var chunks []ChunkInfo
	for _, name := range []string{"a_chunk_000.mp3", "a_chunk_001.mp3"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		chunks = append(chunks, ChunkInfo{Path: p})
	}
	// already gone
	chunks = append(chunks, ChunkInfo{Path: filepath.Join(dir, "a_chunk_002.mp3")})

	if err := CleanupChunks(chunks); err != nil {
		t.Fatalf("CleanupChunks() error: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected chunks removed, %d files remain", len(entries))
	}
}
