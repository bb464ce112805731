// ABOUTME: ProcessTerminal implements Terminal over real file descriptors with termios ioctls.
// ABOUTME: Output is buffered so a frame written then flushed reaches the tty in one write.

package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// outputBufferSize holds a full frame for large terminals.
const outputBufferSize = 128 * 1024

// ProcessTerminal is a real terminal backed by an input and output file,
// normally os.Stdin and os.Stdout.
type ProcessTerminal struct {
	in    *os.File
	out   *os.File
	inFd  int
	outFd int
	w     *bufio.Writer
	rbuf  [1]byte
}

// NewProcessTerminal returns a ProcessTerminal on the process's stdin and stdout.
func NewProcessTerminal() *ProcessTerminal {
	return NewFileTerminal(os.Stdin, os.Stdout)
}

// NewFileTerminal returns a ProcessTerminal reading from in and writing to
// out. Both may be the same tty file.
func NewFileTerminal(in, out *os.File) *ProcessTerminal {
	return &ProcessTerminal{
		in:    in,
		out:   out,
		inFd:  int(in.Fd()),
		outFd: int(out.Fd()),
		w:     bufio.NewWriterSize(out, outputBufferSize),
	}
}

// Attributes reads the input terminal's termios.
func (t *ProcessTerminal) Attributes() (Attributes, error) {
	if !term.IsTerminal(t.inFd) {
		return Attributes{}, fmt.Errorf("%w: %s is not a terminal", ErrTerminalQuery, t.in.Name())
	}
	tio, err := unix.IoctlGetTermios(t.inFd, ioctlGetTermios)
	if err != nil {
		return Attributes{}, fmt.Errorf("%w: tcgetattr: %w", ErrTerminalQuery, err)
	}
	return Attributes{termios: *tio}, nil
}

// SetAttributes writes any buffered output, then applies a once the
// terminal has drained output and discarded unread input.
func (t *ProcessTerminal) SetAttributes(a Attributes) error {
	flushErr := t.w.Flush()
	if err := unix.IoctlSetTermios(t.inFd, ioctlSetTermiosFlush, &a.termios); err != nil {
		return fmt.Errorf("%w: tcsetattr: %w", ErrTerminalQuery, err)
	}
	if flushErr != nil {
		return fmt.Errorf("flushing output: %w", flushErr)
	}
	return nil
}

// WindowSize queries TIOCGWINSZ on the output descriptor.
func (t *ProcessTerminal) WindowSize() (rows, cols int, err error) {
	w, h, err := term.GetSize(t.outFd)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrSizeUnavailable, err)
	}
	return h, w, nil
}

// Write buffers p until Flush.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to %s: %w", t.out.Name(), err)
	}
	return n, nil
}

// Flush writes buffered output to the terminal.
func (t *ProcessTerminal) Flush() error {
	if err := t.w.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", t.out.Name(), err)
	}
	return nil
}

// NextByte reads one byte from the input descriptor, polling first when a
// timeout is given.
func (t *ProcessTerminal) NextByte(timeout time.Duration) (byte, bool, error) {
	if timeout >= 0 {
		ready, err := t.poll(timeout)
		if err != nil || !ready {
			return 0, false, err
		}
	}

	for {
		n, err := unix.Read(t.inFd, t.rbuf[:])
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			return 0, false, nil
		case err != nil:
			return 0, false, fmt.Errorf("reading %s: %w", t.in.Name(), err)
		case n == 0:
			return 0, false, fmt.Errorf("reading %s: %w", t.in.Name(), ErrInputClosed)
		}
		return t.rbuf[0], true, nil
	}
}

// poll waits up to timeout for input to become readable.
func (t *ProcessTerminal) poll(timeout time.Duration) (bool, error) {
	ms := int(timeout / time.Millisecond)
	if ms == 0 && timeout > 0 {
		ms = 1
	}
	fds := []unix.PollFd{{Fd: int32(t.inFd), Events: unix.POLLIN}}

	deadline := time.Now().Add(timeout)
	for {
		n, err := unix.Poll(fds, ms)
		if errors.Is(err, unix.EINTR) {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return false, nil
			}
			ms = int(remaining / time.Millisecond)
			continue
		}
		if err != nil {
			return false, fmt.Errorf("polling %s: %w", t.in.Name(), err)
		}
		// POLLHUP without POLLIN still means a read returns EOF promptly.
		return n > 0, nil
	}
}
