// ABOUTME: Defines the Key type: printable characters, Ctrl+letter combinations, and navigation keys.
// ABOUTME: Keys are plain values produced by the Decoder and consumed by the editor loop.

package key

import "fmt"

// Key represents one logical keypress.
type Key struct {
	Type KeyType
	Rune rune // character for KeyRune, base letter for KeyCtrl
}

// KeyType enumerates the kinds of key events the editor can receive.
type KeyType int

const (
	KeyRune     KeyType = iota // Single-byte character, including a literal ESC
	KeyCtrl                    // Ctrl+letter; Rune holds the lowercase letter
	KeyUp                      // Arrow up
	KeyDown                    // Arrow down
	KeyLeft                    // Arrow left
	KeyRight                   // Arrow right
	KeyPageUp                  // Page Up
	KeyPageDown                // Page Down
)

// Escape is the event for a lone or unrecognized escape sequence.
var Escape = Key{Type: KeyRune, Rune: 0x1b}

// Char returns the printable-character event for r.
func Char(r rune) Key {
	return Key{Type: KeyRune, Rune: r}
}

// Ctrl returns the Ctrl+letter event for the lowercase letter.
func Ctrl(letter rune) Key {
	return Key{Type: KeyCtrl, Rune: letter}
}

// IsNavigation reports whether k moves the cursor.
func (k Key) IsNavigation() bool {
	return k.Type >= KeyUp && k.Type <= KeyPageDown
}

// keyTypeNames provides human-readable labels for navigation keys.
var keyTypeNames = map[KeyType]string{
	KeyUp:       "Up",
	KeyDown:     "Down",
	KeyLeft:     "Left",
	KeyRight:    "Right",
	KeyPageUp:   "PageUp",
	KeyPageDown: "PageDown",
}

// String returns a human-readable representation of the Key for debug logs.
func (k Key) String() string {
	switch k.Type {
	case KeyRune:
		if k.Rune == 0x1b {
			return "Escape"
		}
		if k.Rune < 0x20 || k.Rune == 0x7f {
			return fmt.Sprintf("0x%02x", k.Rune)
		}
		return string(k.Rune)
	case KeyCtrl:
		return "Ctrl+" + string(k.Rune-'a'+'A')
	}
	if name, ok := keyTypeNames[k.Type]; ok {
		return name
	}
	return "Unknown"
}
