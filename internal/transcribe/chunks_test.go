package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mgpai22/captime/internal/audio"
	"github.com/mgpai22/captime/internal/timeline"
)

func testChunks(n int, length time.Duration) []audio.ChunkInfo {
	chunks := make([]audio.ChunkInfo, n)
	for i := range chunks {
		chunks[i] = audio.ChunkInfo{
			Path:      fmt.Sprintf("chunk_%03d.mp3", i),
			Index:     i,
			StartTime: time.Duration(i) * length,
			EndTime:   time.Duration(i+1) * length,
		}
	}
	return chunks
}

// echo returns one segment whose text is the chunk path
func echo(ctx context.Context, path string) (*Result, error) {
	return &Result{Segments: []timeline.RawSegment{{
		Start: 0, End: 1, Text: path,
		Words: spreadWords(path, 0, 1),
	}}}, nil
}

func TestTranscribeChunksKeepsOrder(t *testing.T) {
	chunks := testChunks(7, 30*time.Second)
	chunks[6].EndTime = chunks[6].StartTime + 12*time.Second

	res, err := transcribeChunks(context.Background(), chunks, 3, echo)
	if err != nil {
		t.Fatalf("transcribeChunks() error: %v", err)
	}

	if len(res.Parts) != 7 {
		t.Fatalf("expected 7 parts, got %d", len(res.Parts))
	}
	for i, part := range res.Parts {
		if part[0].Text != chunks[i].Path {
			t.Errorf("part %d holds %q, want %q", i, part[0].Text, chunks[i].Path)
		}
	}

	want := []float64{0, 30, 60, 90, 120, 150, 180}
	if diff := cmp.Diff(want, res.Offsets); diff != "" {
		t.Errorf("Offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestTranscribeChunksLanguage(t *testing.T) {
	chunks := testChunks(3, 30*time.Second)
	// the first chunk is silent and the provider detects nothing there
	detect := func(ctx context.Context, path string) (*Result, error) {
		if path == chunks[0].Path {
			return &Result{}, nil
		}
		return &Result{Language: "es"}, nil
	}

	res, err := transcribeChunks(context.Background(), chunks, 2, detect)
	if err != nil {
		t.Fatalf("transcribeChunks() error: %v", err)
	}
	if res.Language != "es" {
		t.Errorf("Language = %q, want es", res.Language)
	}
	if len(res.Parts[0]) != 0 {
		t.Errorf("silent chunk should have no segments, got %d", len(res.Parts[0]))
	}
}

func TestTranscribeChunksEmpty(t *testing.T) {
	res, err := transcribeChunks(context.Background(), nil, 2, echo)
	if err != nil {
		t.Fatalf("transcribeChunks() error: %v", err)
	}
	if len(res.Parts) != 0 || len(res.Offsets) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestTranscribeChunksLimitsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	slow := func(ctx context.Context, path string) (*Result, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return echo(ctx, path)
	}

	if _, err := transcribeChunks(context.Background(), testChunks(10, time.Second), 2, slow); err != nil {
		t.Fatalf("transcribeChunks() error: %v", err)
	}
	if p := peak.Load(); p > 2 {
		t.Errorf("peak concurrency %d exceeds limit 2", p)
	}
}

func TestTranscribeChunksReportsFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	failing := func(ctx context.Context, path string) (*Result, error) {
		if strings.HasSuffix(path, "002.mp3") {
			return nil, boom
		}
		return echo(ctx, path)
	}

	_, err := transcribeChunks(context.Background(), testChunks(5, time.Second), 2, failing)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "chunk 2") {
		t.Errorf("error should name the chunk: %v", err)
	}
}

func TestTranscribeChunksCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := transcribeChunks(ctx, testChunks(3, time.Second), 1, echo)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
