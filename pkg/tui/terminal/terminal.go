// ABOUTME: Defines the Terminal capability interface for attributes, size queries, and byte I/O.
// ABOUTME: Abstracts raw syscalls so the decoder, prober, and renderer can run against a fake.

package terminal

import (
	"errors"
	"time"
)

// Terminal abstracts the platform terminal: attribute get/set, the
// direct window-size query, buffered output, and timed single-byte input.
type Terminal interface {
	// Attributes returns a snapshot of the current terminal attributes.
	Attributes() (Attributes, error)

	// SetAttributes applies a, discarding pending input and draining
	// pending output first.
	SetAttributes(a Attributes) error

	// WindowSize issues the direct size query.
	WindowSize() (rows, cols int, err error)

	Write(p []byte) (n int, err error)
	Flush() error

	// NextByte returns the next input byte. A negative timeout blocks,
	// zero never blocks. ok is false when no byte arrived in time; err is
	// reserved for I/O failures and ErrInputClosed at end of stream.
	NextByte(timeout time.Duration) (b byte, ok bool, err error)
}

var (
	// ErrTerminalQuery reports a failed terminal attribute get or set.
	ErrTerminalQuery = errors.New("terminal attribute query failed")

	// ErrTerminalProtocol reports a malformed cursor-position reply.
	ErrTerminalProtocol = errors.New("malformed terminal reply")

	// ErrInputClosed reports that the input stream ended, typically
	// because the controlling terminal hung up.
	ErrInputClosed = errors.New("terminal input closed")

	// ErrSizeUnavailable is returned by WindowSize when the direct query
	// is not supported.
	ErrSizeUnavailable = errors.New("window size query unavailable")
)
