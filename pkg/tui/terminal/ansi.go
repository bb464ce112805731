// ABOUTME: ANSI/VT100 control sequences emitted by the editor core.
// ABOUTME: AppendCursorPos formats absolute positioning without fmt.

package terminal

import "strconv"

const (
	AltScreenEnter = "\x1b[?1049h"
	AltScreenExit  = "\x1b[?1049l"

	CursorHide = "\x1b[?25l"
	CursorShow = "\x1b[?25h"
	CursorHome = "\x1b[H"

	ClearScreen = "\x1b[2J"
	ClearLine   = "\x1b[K" // cursor to end of line

	// CursorFarCorner moves right then down as far as the terminal allows.
	CursorFarCorner = "\x1b[999C\x1b[999B"

	// CursorReport requests ESC [ row ; col R on the input stream.
	CursorReport = "\x1b[6n"
)

// AppendCursorPos appends ESC [ row ; col H for a 0-based position.
func AppendCursorPos(buf []byte, row, col int) []byte {
	buf = append(buf, "\x1b["...)
	buf = strconv.AppendInt(buf, int64(row+1), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(col+1), 10)
	return append(buf, 'H')
}
