// ABOUTME: GetSize finds the terminal's rows and columns, probing the cursor when the ioctl fails.
// ABOUTME: ParseCursorReport decodes the ESC [ row ; col R reply to a position request.

package terminal

import (
	"errors"
	"fmt"
	"time"
)

const (
	// ReplyTimeout bounds the wait for each byte of a cursor report.
	ReplyTimeout = 500 * time.Millisecond

	// maxReplyLen caps a cursor report; ESC [ 99999 ; 99999 R fits easily.
	maxReplyLen = 32
)

// GetSize returns the terminal dimensions in cells. The direct query is
// used when it succeeds with a non-zero width; otherwise the cursor is
// pushed to the bottom-right corner and its reported position is used.
// Probe side effects are cleared before returning.
func GetSize(t Terminal) (rows, cols int, err error) {
	rows, cols, err = t.WindowSize()
	if err == nil && cols > 0 {
		return rows, cols, nil
	}
	return probeSize(t)
}

func probeSize(t Terminal) (int, int, error) {
	if _, err := t.Write([]byte(CursorFarCorner + CursorReport)); err != nil {
		return 0, 0, fmt.Errorf("probing size: %w", err)
	}
	if err := t.Flush(); err != nil {
		return 0, 0, fmt.Errorf("probing size: %w", err)
	}

	reply, err := readCursorReply(t)
	if err != nil {
		return 0, 0, err
	}
	row, col, perr := ParseCursorReport(reply)

	// Clear the probe's cursor movement whatever the reply looked like.
	if _, err := t.Write([]byte(ClearScreen + CursorHome)); err != nil {
		return 0, 0, fmt.Errorf("probing size: %w", err)
	}
	if err := t.Flush(); err != nil {
		return 0, 0, fmt.Errorf("probing size: %w", err)
	}
	if perr != nil {
		return 0, 0, perr
	}
	return row, col, nil
}

// readCursorReply collects input up to and including the terminating R.
func readCursorReply(t Terminal) ([]byte, error) {
	reply := make([]byte, 0, maxReplyLen)
	for len(reply) < maxReplyLen {
		b, ok, err := t.NextByte(ReplyTimeout)
		if err != nil {
			return nil, fmt.Errorf("reading cursor report: %w", err)
		}
		if !ok {
			break
		}
		reply = append(reply, b)
		if b == 'R' {
			break
		}
	}
	return reply, nil
}

// ParseCursorReport parses ESC [ row ; col R. Both values are returned as
// sent: 1-based.
func ParseCursorReport(reply []byte) (row, col int, err error) {
	if len(reply) < 2 || reply[0] != 0x1b || reply[1] != '[' {
		return 0, 0, fmt.Errorf("%w: cursor report %q lacks ESC [ prefix", ErrTerminalProtocol, reply)
	}

	rest := reply[2:]
	row, rest, err = scanNumber(rest, ';')
	if err != nil {
		return 0, 0, fmt.Errorf("%w: row in %q: %w", ErrTerminalProtocol, reply, err)
	}
	col, rest, err = scanNumber(rest, 'R')
	if err != nil {
		return 0, 0, fmt.Errorf("%w: column in %q: %w", ErrTerminalProtocol, reply, err)
	}
	if len(rest) != 0 {
		return 0, 0, fmt.Errorf("%w: trailing bytes after cursor report %q", ErrTerminalProtocol, reply)
	}
	return row, col, nil
}

// scanNumber reads decimal digits up to stop and returns the value and
// the bytes after stop.
func scanNumber(b []byte, stop byte) (int, []byte, error) {
	n := 0
	digits := 0
	for i, c := range b {
		switch {
		case c == stop:
			if digits == 0 {
				return 0, nil, errors.New("empty number")
			}
			return n, b[i+1:], nil
		case c >= '0' && c <= '9':
			if digits >= 6 {
				return 0, nil, errors.New("number too long")
			}
			n = n*10 + int(c-'0')
			digits++
		default:
			return 0, nil, fmt.Errorf("unexpected byte %q", c)
		}
	}
	return 0, nil, fmt.Errorf("missing %q terminator", stop)
}
