package camera

import (
	"context"
	"io"
	"sync"
)

// Source provides synchronized frames, one per call. Implementations block
// until a frame pair is available, the context is done, or the stream ends.
type Source interface {
	// Next returns the next frame. It returns ErrIncompleteFrame when a
	// pair came through with a half missing (callers skip the iteration)
	// and io.EOF when the stream is exhausted.
	Next(ctx context.Context) (*Frame, error)

	// Close releases the underlying device or fixture.
	Close() error
}

// StaticSource replays a fixed sequence of frames, then reports io.EOF. It
// stands in for a live sensor in tests and fixture-driven runs.
type StaticSource struct {
	mu     sync.Mutex
	frames []*Frame
	idx    int
}

// NewStaticSource returns a source replaying the given frames in order.
func NewStaticSource(frames ...*Frame) *StaticSource {
	return &StaticSource{frames: frames}
}

// Next returns the next fixed frame.
func (s *StaticSource) Next(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.idx]
	s.idx++
	if f == nil {
		return nil, ErrIncompleteFrame
	}
	return f, nil
}

// Close is a no-op for a static source.
func (s *StaticSource) Close() error {
	return nil
}
