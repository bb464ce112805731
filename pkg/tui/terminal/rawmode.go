// ABOUTME: RawMode captures the original attributes, applies the raw set, and restores exactly once.
// ABOUTME: Entering also switches to the alternate screen; leaving restores it and shows the cursor.

package terminal

import (
	"errors"
	"fmt"
	"sync"
)

// RawMode is the handle returned by EnableRawMode. The captured original
// attributes are never overwritten; Disable applies them at most once.
type RawMode struct {
	term     Terminal
	original Attributes

	once sync.Once
	err  error
}

// EnableRawMode captures t's attributes, applies the raw-mode derivation,
// and switches to the alternate screen buffer.
func EnableRawMode(t Terminal) (*RawMode, error) {
	original, err := t.Attributes()
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}
	if err := t.SetAttributes(original.Raw()); err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}

	r := &RawMode{term: t, original: original}

	if _, err := t.Write([]byte(AltScreenEnter)); err != nil {
		return nil, errors.Join(fmt.Errorf("entering alternate screen: %w", err), r.Disable())
	}
	if err := t.Flush(); err != nil {
		return nil, errors.Join(fmt.Errorf("entering alternate screen: %w", err), r.Disable())
	}
	return r, nil
}

// Original returns the attributes captured before raw mode was applied.
func (r *RawMode) Original() Attributes {
	return r.original
}

// Disable leaves the alternate screen, shows the cursor, flushes, and
// re-applies the original attributes. Only the first call does any work;
// later calls return the first call's result. The attributes are restored
// even when the screen sequences cannot be written.
func (r *RawMode) Disable() error {
	r.once.Do(func() {
		var errs []error
		if _, err := r.term.Write([]byte(AltScreenExit + CursorShow)); err != nil {
			errs = append(errs, fmt.Errorf("leaving alternate screen: %w", err))
		} else if err := r.term.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("leaving alternate screen: %w", err))
		}
		if err := r.term.SetAttributes(r.original); err != nil {
			errs = append(errs, fmt.Errorf("exiting raw mode: %w", err))
		}
		r.err = errors.Join(errs...)
	})
	return r.err
}
