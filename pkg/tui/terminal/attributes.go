// ABOUTME: Attributes is an opaque termios snapshot plus the raw-mode flag derivation.
// ABOUTME: Derivation is a pure function so it is shared by the real and virtual terminals.

package terminal

import "golang.org/x/sys/unix"

// Attributes is an opaque snapshot of terminal settings: input, output,
// control and local flags plus control characters.
type Attributes struct {
	termios unix.Termios
}

// Equal reports whether a and b are identical snapshots.
func (a Attributes) Equal(b Attributes) bool {
	return a.termios == b.termios
}

// Raw derives the raw-mode attribute set from a.
// Input: no CR-to-NL translation, parity check, 8th bit strip, or XON/XOFF.
// Output: no post-processing. Local: no echo, canonical input, extended
// processing, or signal generation. Character size is forced to 8 bits.
// Reads return as soon as one byte is available; timed reads poll instead.
func (a Attributes) Raw() Attributes {
	raw := a
	t := &raw.termios
	t.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Cflag &^= unix.CSIZE
	t.Cflag |= unix.CS8
	t.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	return raw
}

// IsRaw reports whether a has every raw-mode flag applied.
func (a Attributes) IsRaw() bool {
	t := a.termios
	switch {
	case t.Iflag&(unix.BRKINT|unix.ICRNL|unix.INPCK|unix.ISTRIP|unix.IXON) != 0:
		return false
	case t.Oflag&unix.OPOST != 0:
		return false
	case t.Cflag&unix.CSIZE != unix.CS8:
		return false
	case t.Lflag&(unix.ECHO|unix.ICANON|unix.IEXTEN|unix.ISIG) != 0:
		return false
	}
	return true
}

// CookedAttributes returns a typical line-buffered attribute set, the
// state a shell leaves a terminal in. VirtualTerminal starts from it.
func CookedAttributes() Attributes {
	var a Attributes
	t := &a.termios
	t.Iflag = unix.BRKINT | unix.ICRNL | unix.IXON
	t.Oflag = unix.OPOST | unix.ONLCR
	t.Cflag = unix.CS7 | unix.CREAD
	t.Lflag = unix.ECHO | unix.ECHOE | unix.ICANON | unix.IEXTEN | unix.ISIG
	t.Cc[unix.VINTR] = 0x03
	t.Cc[unix.VEOF] = 0x04
	return a
}
