package transcribe

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mgpai22/captime/internal/audio"
	"github.com/mgpai22/captime/internal/timeline"
)

// ChunkedResult holds one transcript per audio chunk, in chunk order, with
// each chunk's start offset for placing the parts on one timeline.
type ChunkedResult struct {
	Parts    [][]timeline.RawSegment
	Offsets  []float64 // seconds
	Language string    // first chunk, in order, that reported one
}

// holds the result of transcribing a chunk
type chunkResult struct {
	pos      int
	segments []timeline.RawSegment
	language string
	err      error
}

type chunkJob struct {
	pos   int
	chunk audio.ChunkInfo
}

type transcribeFunc func(ctx context.Context, audioPath string) (*Result, error)

// transcribeChunks runs transcribe over chunks with at most concurrency
// calls in flight. The first failure cancels the remaining work.
func transcribeChunks(
	ctx context.Context,
	chunks []audio.ChunkInfo,
	concurrency int,
	transcribe transcribeFunc,
) (*ChunkedResult, error) {
	if len(chunks) == 0 {
		return &ChunkedResult{}, nil
	}

	if concurrency <= 0 {
		concurrency = 3
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workChan := make(chan chunkJob)
	resultChan := make(chan chunkResult, len(chunks))

	var wg sync.WaitGroup
	for range concurrency {
		wg.Go(func() {
			for job := range workChan {
				if ctx.Err() != nil {
					continue
				}
				res, err := transcribe(ctx, job.chunk.Path)
				if err != nil {
					cancel()
					resultChan <- chunkResult{pos: job.pos, err: err}
					continue
				}
				resultChan <- chunkResult{
					pos:      job.pos,
					segments: res.Segments,
					language: res.Language,
				}
			}
		})
	}

	go func() {
		defer close(workChan)
		for i, chunk := range chunks {
			select {
			case <-ctx.Done():
				return
			case workChan <- chunkJob{pos: i, chunk: chunk}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	parts := make([][]timeline.RawSegment, len(chunks))
	languages := make([]string, len(chunks))
	var firstErr error
	for result := range resultChan {
		if result.err != nil {
			if firstErr == nil || isCancel(firstErr) && !isCancel(result.err) {
				firstErr = fmt.Errorf(
					"chunk %d failed: %w",
					chunks[result.pos].Index,
					result.err,
				)
			}
			continue
		}
		parts[result.pos] = result.segments
		languages[result.pos] = result.language
	}
	if firstErr != nil {
		return nil, firstErr
	}
	// a cancelled parent stops the feeder before every chunk is sent
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	offsets := make([]float64, len(chunks))
	for i, c := range chunks {
		offsets[i] = c.StartTime.Seconds()
	}

	res := &ChunkedResult{
		Parts:   parts,
		Offsets: offsets,
	}
	for _, lang := range languages {
		if lang != "" {
			res.Language = lang
			break
		}
	}
	return res, nil
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled)
}
