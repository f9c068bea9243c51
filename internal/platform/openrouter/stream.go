package openrouter

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const maxStreamLineBytes = 2 << 20

// Stream is a lazy sequence of StreamChunk values read from a server-sent
// event body. It is not restartable and must be closed. Typical use:
//
//	for s.Next() {
//		chunk := s.Chunk()
//		...
//	}
//	if err := s.Err(); err != nil { ... }
//
// A stream that ends without error always yields a final chunk with Done set.
type Stream struct {
	ctx     context.Context
	body    io.ReadCloser
	scanner *bufio.Scanner
	logger  *slog.Logger

	acc     strings.Builder
	current StreamChunk
	err     error
	done    bool

	closeOnce sync.Once
	closeErr  error
}

func newStream(ctx context.Context, body io.ReadCloser, logger *slog.Logger) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStreamLineBytes)
	return &Stream{
		ctx:     ctx,
		body:    body,
		scanner: scanner,
		logger:  logger,
	}
}

// Next advances to the next chunk. It returns false when the stream is
// exhausted or failed; check Err afterwards.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}

	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			// blank separators, comments and event/id fields
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			return s.finish()
		}

		var frame streamFrame
		if err := json.Unmarshal([]byte(data), &frame); err != nil {
			s.logger.WarnContext(s.ctx, "skipping malformed stream chunk",
				"error", err,
				"chunk_length", len(data))
			continue
		}

		delta := frame.text()
		if delta == "" {
			continue
		}
		s.acc.WriteString(delta)
		s.current = StreamChunk{Delta: delta}
		return true
	}

	if err := s.scanner.Err(); err != nil {
		s.done = true
		if s.ctx.Err() != nil {
			s.err = abortedError(s.ctx.Err())
		} else {
			s.err = &Error{Kind: KindNetwork, Message: "stream read failed", Err: err}
		}
		_ = s.Close()
		return false
	}

	return s.finish()
}

func (s *Stream) finish() bool {
	s.done = true
	s.current = StreamChunk{Done: true, Accumulated: s.acc.String()}
	_ = s.Close()
	return true
}

// Chunk returns the chunk produced by the last successful Next.
func (s *Stream) Chunk() StreamChunk {
	return s.current
}

// Err returns the error that stopped the stream, if any.
func (s *Stream) Err() error {
	return s.err
}

// Close releases the underlying connection. It is safe to call repeatedly.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}

// Collect drains s and returns the accumulated text.
func Collect(s *Stream) (string, error) {
	defer s.Close()

	var text string
	for s.Next() {
		if c := s.Chunk(); c.Done {
			text = c.Accumulated
		}
	}
	if err := s.Err(); err != nil {
		return "", err
	}
	return text, nil
}
