// ABOUTME: Display-width measurement and truncation of visible lines, grapheme-cluster aware.
// ABOUTME: Lines are NFC-normalized; tabs expand to the next tab stop and control bytes render as '?'.

package width

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// TabStop is the column multiple a tab advances to.
const TabStop = 8

// Width returns the number of terminal cells s occupies once rendered by
// Truncate with no column limit.
func Width(s string) int {
	w := 0
	walk(s, -1, func(_ string, cw int) bool {
		w += cw
		return true
	})
	return w
}

// Truncate returns the prefix of s that fits in cols terminal cells.
// A wide cluster that would straddle the limit is dropped entirely.
// Tabs are expanded and control characters are replaced, so the result
// never moves the cursor other than by advancing it.
func Truncate(s string, cols int) string {
	if cols <= 0 {
		return ""
	}
	if isPlainASCII(s) {
		if len(s) > cols {
			return s[:cols]
		}
		return s
	}

	var b strings.Builder
	b.Grow(min(len(s), cols*4))
	walk(s, cols, func(text string, _ int) bool {
		b.WriteString(text)
		return true
	})
	return b.String()
}

// walk yields each rendered segment of s with its cell width, stopping
// before the segment that would exceed limit (negative means unlimited).
func walk(s string, limit int, yield func(text string, w int) bool) {
	s = norm.NFC.String(s)
	col := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)

		text, w := render(cluster, col)
		if limit >= 0 && col+w > limit {
			if cluster == "\t" && col < limit {
				yield(strings.Repeat(" ", limit-col), limit-col)
			}
			return
		}
		if !yield(text, w) {
			return
		}
		col += w
	}
}

// render maps one grapheme cluster at column col to its output text and width.
func render(cluster string, col int) (string, int) {
	r, _ := utf8.DecodeRuneInString(cluster)
	switch {
	case r == '\t':
		n := TabStop - col%TabStop
		return strings.Repeat(" ", n), n
	case r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0):
		return "?", 1
	case r == utf8.RuneError && len(cluster) == 1:
		return "?", 1
	}
	// Lone combining marks and zero-width clusters occupy no cell.
	return cluster, runewidth.RuneWidth(r)
}

// isPlainASCII reports whether s holds only printable ASCII (0x20-0x7E).
func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if b := s[i]; b < 0x20 || b > 0x7e {
			return false
		}
	}
	return true
}
