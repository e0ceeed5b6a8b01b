package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

type lineResult struct {
	err  error
	line string
}

// LineReader reads lines from an io.Reader without blocking callers past
// their context. A single goroutine scans the input, so no line is lost when
// a read is abandoned.
type LineReader struct {
	scanner *bufio.Scanner
	lines   chan lineResult
	once    sync.Once
}

// NewLineReader creates a reader over r.
func NewLineReader(r io.Reader) *LineReader {
	if r == nil {
		panic("reader cannot be nil")
	}
	return &LineReader{
		scanner: bufio.NewScanner(r),
		lines:   make(chan lineResult),
	}
}

func (r *LineReader) start() {
	go func() {
		for r.scanner.Scan() {
			r.lines <- lineResult{line: r.scanner.Text()}
		}
		err := r.scanner.Err()
		if err == nil {
			err = io.EOF
		}
		r.lines <- lineResult{err: err}
		close(r.lines)
	}()
}

// ReadLine returns the next line with surrounding whitespace removed.
// It returns io.EOF at the end of input and ErrInputCancelled when ctx is done first.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.once.Do(r.start)

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}
