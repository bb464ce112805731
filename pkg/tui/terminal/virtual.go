// ABOUTME: VirtualTerminal implements Terminal for testing without a real TTY.
// ABOUTME: Captures output, queues fed input, counts writes/flushes, and injects failures.

package terminal

import (
	"bytes"
	"fmt"
	"sync"
	"time"
)

// VirtualTerminal is a fake Terminal for unit tests.
// It holds an attribute snapshot, an input queue, and records every
// write and flush so tests can assert on frame boundaries.
type VirtualTerminal struct {
	mu       sync.Mutex
	attrs    Attributes
	rows     int
	cols     int
	sizeErr  error
	getErr   error
	setErr   error
	readErr  error
	writeErr error

	input   []byte
	out     bytes.Buffer
	flushed bytes.Buffer

	writeCount int
	flushCount int
	setCount   int
}

// NewVirtualTerminal returns a VirtualTerminal with the given dimensions
// and cooked attributes.
func NewVirtualTerminal(rows, cols int) *VirtualTerminal {
	return &VirtualTerminal{
		attrs: CookedAttributes(),
		rows:  rows,
		cols:  cols,
	}
}

// Attributes returns the current snapshot.
func (v *VirtualTerminal) Attributes() (Attributes, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.getErr != nil {
		return Attributes{}, fmt.Errorf("%w: %w", ErrTerminalQuery, v.getErr)
	}
	return v.attrs, nil
}

// SetAttributes replaces the snapshot. Unlike a real terminal it keeps
// unread input so tests can feed replies before entering raw mode.
func (v *VirtualTerminal) SetAttributes(a Attributes) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.setErr != nil {
		return fmt.Errorf("%w: %w", ErrTerminalQuery, v.setErr)
	}
	v.attrs = a
	v.setCount++
	return nil
}

// WindowSize returns the configured dimensions.
func (v *VirtualTerminal) WindowSize() (rows, cols int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.sizeErr != nil {
		return 0, 0, v.sizeErr
	}
	return v.rows, v.cols, nil
}

// Write appends p to the pending output.
func (v *VirtualTerminal) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.writeCount++
	if v.writeErr != nil {
		return 0, v.writeErr
	}
	return v.out.Write(p)
}

// Flush moves pending output to the flushed record.
func (v *VirtualTerminal) Flush() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.flushCount++
	if v.writeErr != nil {
		return v.writeErr
	}
	_, _ = v.flushed.Write(v.out.Bytes())
	v.out.Reset()
	return nil
}

// NextByte pops the next fed byte. It never blocks: an empty queue
// reports no byte regardless of timeout.
func (v *VirtualTerminal) NextByte(_ time.Duration) (byte, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.readErr != nil {
		return 0, false, v.readErr
	}
	if len(v.input) == 0 {
		return 0, false, nil
	}
	b := v.input[0]
	v.input = v.input[1:]
	return b, true, nil
}

// --- Test helpers (not part of Terminal interface) ---

// Feed queues bytes as if typed by the user.
func (v *VirtualTerminal) Feed(p []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.input = append(v.input, p...)
}

// FeedString queues s as input.
func (v *VirtualTerminal) FeedString(s string) {
	v.Feed([]byte(s))
}

// Output returns everything flushed so far.
func (v *VirtualTerminal) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.flushed.String()
}

// Pending returns output written but not yet flushed.
func (v *VirtualTerminal) Pending() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.out.String()
}

// Reset clears output records and counters, keeping attributes and input.
func (v *VirtualTerminal) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.out.Reset()
	v.flushed.Reset()
	v.writeCount = 0
	v.flushCount = 0
	v.setCount = 0
}

// WriteCount returns how many times Write was called.
func (v *VirtualTerminal) WriteCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.writeCount
}

// FlushCount returns how many times Flush was called.
func (v *VirtualTerminal) FlushCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.flushCount
}

// SetCount returns how many times SetAttributes succeeded.
func (v *VirtualTerminal) SetCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.setCount
}

// Current returns the live attribute snapshot without error injection.
func (v *VirtualTerminal) Current() Attributes {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.attrs
}

// SetSize updates the dimensions reported by WindowSize.
func (v *VirtualTerminal) SetSize(rows, cols int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.rows = rows
	v.cols = cols
}

// FailSize makes WindowSize return err (nil restores it).
func (v *VirtualTerminal) FailSize(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.sizeErr = err
}

// FailAttributes makes Attributes and SetAttributes fail with the given
// errors; nil leaves that call working.
func (v *VirtualTerminal) FailAttributes(get, set error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.getErr = get
	v.setErr = set
}

// FailRead makes NextByte return err.
func (v *VirtualTerminal) FailRead(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.readErr = err
}

// FailWrite makes Write and Flush return err.
func (v *VirtualTerminal) FailWrite(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.writeErr = err
}
