// ABOUTME: ReaderSource adapts any io.Reader into a timed byte source for the key decoder.
// ABOUTME: A background goroutine reads chunks; NextByte waits on it with an optional timeout.

package input

import (
	"errors"
	"io"
	"sync"
	"time"
)

const readBufSize = 256

// readResult holds the outcome of a single Read call.
type readResult struct {
	data []byte
	err  error
}

// ReaderSource serves bytes from an io.Reader (pipes, files, sockets) with
// the timeout semantics of key.Source. It is not safe for concurrent
// NextByte calls.
type ReaderSource struct {
	ch        chan readResult
	done      chan struct{}
	closeOnce sync.Once

	pending []byte
	err     error
	eof     bool
}

// NewReaderSource starts reading r in the background.
func NewReaderSource(r io.Reader) *ReaderSource {
	s := &ReaderSource{
		ch:   make(chan readResult),
		done: make(chan struct{}),
	}
	go s.readLoop(r)
	return s
}

// readLoop continuously reads from the reader and sends data on ch.
// It stops when done is closed; a Read already blocked in the reader
// returns on its own schedule.
func (s *ReaderSource) readLoop(r io.Reader) {
	defer close(s.ch)
	tmp := make([]byte, readBufSize)
	for {
		n, err := r.Read(tmp)
		if n > 0 {
			data := make([]byte, n)
			copy(data, tmp[:n])
			select {
			case s.ch <- readResult{data: data}:
			case <-s.done:
				return
			}
		}
		if err != nil {
			select {
			case s.ch <- readResult{err: err}:
			case <-s.done:
			}
			return
		}
	}
}

// NextByte returns the next byte. A negative timeout blocks, zero never
// blocks. End of stream reports no byte and no error; any other read
// error is returned on every later call.
func (s *ReaderSource) NextByte(timeout time.Duration) (byte, bool, error) {
	if len(s.pending) > 0 {
		return s.pop(), true, nil
	}
	if s.err != nil {
		return 0, false, s.err
	}
	if s.eof {
		return 0, false, nil
	}

	var timer <-chan time.Time
	switch {
	case timeout == 0:
		select {
		case res, ok := <-s.ch:
			return s.accept(res, ok)
		default:
			return 0, false, nil
		}
	case timeout > 0:
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	select {
	case res, ok := <-s.ch:
		return s.accept(res, ok)
	case <-timer:
		return 0, false, nil
	}
}

// Close stops the background reader.
func (s *ReaderSource) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

func (s *ReaderSource) accept(res readResult, ok bool) (byte, bool, error) {
	switch {
	case !ok, errors.Is(res.err, io.EOF):
		s.eof = true
		return 0, false, nil
	case res.err != nil:
		s.err = res.err
		return 0, false, res.err
	}
	s.pending = res.data
	return s.pop(), true, nil
}

func (s *ReaderSource) pop() byte {
	b := s.pending[0]
	s.pending = s.pending[1:]
	return b
}
