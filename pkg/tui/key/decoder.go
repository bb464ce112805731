// ABOUTME: Decoder turns a raw byte stream into Keys with bounded escape-sequence lookahead.
// ABOUTME: States Start, SawEscape, SawBracket, SawDigit; malformed sequences degrade to Escape.

package key

import (
	"iter"
	"time"
)

// DefaultEscapeTimeout is how long the decoder waits for each byte after
// ESC before treating it as a lone Escape keypress.
const DefaultEscapeTimeout = 50 * time.Millisecond

// Source supplies input one byte at a time. A negative timeout blocks,
// zero never blocks. ok is false when no byte arrived in time or the
// stream ended.
type Source interface {
	NextByte(timeout time.Duration) (b byte, ok bool, err error)
}

// Decoder reads Keys from a Source.
type Decoder struct {
	src        Source
	wait       time.Duration
	escTimeout time.Duration
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithWait sets how long Next waits for the first byte of a key:
// negative blocks (the default), zero makes Next non-blocking.
func WithWait(d time.Duration) Option {
	return func(dec *Decoder) { dec.wait = d }
}

// WithEscapeTimeout sets the lookahead read window after ESC.
func WithEscapeTimeout(d time.Duration) Option {
	return func(dec *Decoder) { dec.escTimeout = d }
}

// NewDecoder returns a blocking Decoder over src.
func NewDecoder(src Source, opts ...Option) *Decoder {
	d := &Decoder{
		src:        src,
		wait:       -1,
		escTimeout: DefaultEscapeTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Next decodes one key. ok is false when no byte is available, at end of
// stream, or when the byte read is not valid single-byte input (>= 0x80),
// which is dropped. Errors come only from the Source.
func (d *Decoder) Next() (k Key, ok bool, err error) {
	k, ok, _, err = d.next()
	return k, ok, err
}

// Keys returns the lazy sequence of decoded keys. It ends when no byte
// is available, at end of stream, or after yielding a Source error.
func (d *Decoder) Keys() iter.Seq2[Key, error] {
	return func(yield func(Key, error) bool) {
		for {
			k, ok, consumed, err := d.next()
			if err != nil {
				yield(Key{}, err)
				return
			}
			if !consumed {
				return
			}
			if !ok {
				continue
			}
			if !yield(k, nil) {
				return
			}
		}
	}
}

// state is the decoder's position inside an escape sequence.
type state int

const (
	stateStart state = iota
	stateSawEscape
	stateSawBracket
	stateSawDigit
)

// next reports whether a byte was consumed separately from whether it
// produced a key, so Keys can skip dropped bytes.
func (d *Decoder) next() (k Key, ok, consumed bool, err error) {
	b, ok, err := d.src.NextByte(d.wait)
	if err != nil || !ok {
		return Key{}, false, false, err
	}

	switch {
	case b == 0x1b:
		k, err = d.escape()
		return k, err == nil, true, err
	case b >= 0x01 && b <= 0x1a:
		return Ctrl(rune(b-0x01) + 'a'), true, true, nil
	case b < 0x80:
		return Char(rune(b)), true, true, nil
	}
	return Key{}, false, true, nil
}

// escape runs the state machine after ESC. At most three more bytes are
// read, each within the escape timeout.
func (d *Decoder) escape() (Key, error) {
	st := stateSawEscape
	var digit byte

	for {
		b, ok, err := d.src.NextByte(d.escTimeout)
		if err != nil {
			return Key{}, err
		}
		if !ok {
			return Escape, nil
		}

		switch st {
		case stateSawEscape:
			if b != '[' {
				return Escape, nil
			}
			st = stateSawBracket

		case stateSawBracket:
			switch {
			case b == 'A':
				return Key{Type: KeyUp}, nil
			case b == 'B':
				return Key{Type: KeyDown}, nil
			case b == 'C':
				return Key{Type: KeyRight}, nil
			case b == 'D':
				return Key{Type: KeyLeft}, nil
			case b >= '0' && b <= '9':
				digit = b
				st = stateSawDigit
			default:
				return Escape, nil
			}

		case stateSawDigit:
			if b != '~' {
				return Escape, nil
			}
			switch digit {
			case '5':
				return Key{Type: KeyPageUp}, nil
			case '6':
				return Key{Type: KeyPageDown}, nil
			}
			return Escape, nil

		default:
			return Escape, nil
		}
	}
}
