// ABOUTME: Full-frame renderer: composes every screen row, the banner, and the cursor into one buffer.
// ABOUTME: Each frame reaches the terminal as exactly one Write followed by one Flush.

package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mauromedda/kilo-go/pkg/tui/terminal"
	"github.com/mauromedda/kilo-go/pkg/tui/width"
)

// DefaultFiller marks screen rows past the end of the content.
const DefaultFiller = '~'

// Size is the terminal's dimensions in character cells.
type Size struct {
	Rows int
	Cols int
}

// Cursor is a 0-based screen position.
type Cursor struct {
	Col int
	Row int
}

// Clamp returns c moved inside the screen described by s.
func (c Cursor) Clamp(s Size) Cursor {
	c.Col = max(0, min(c.Col, s.Cols-1))
	c.Row = max(0, min(c.Row, s.Rows-1))
	return c
}

// Writer is the minimal output surface a frame is delivered to.
type Writer interface {
	Write(p []byte) (n int, err error)
	Flush() error
}

// Banner returns the welcome line shown on an empty screen.
func Banner(version string) string {
	return "Kilo-Go editor -- version " + version
}

// Renderer builds frames. It holds no per-frame state and may be reused.
type Renderer struct {
	banner string
	filler string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithBanner sets the text centered on an empty screen. An empty string
// disables the banner.
func WithBanner(s string) Option {
	return func(r *Renderer) { r.banner = s }
}

// WithFiller sets the glyph drawn on rows without content.
func WithFiller(g rune) Option {
	return func(r *Renderer) { r.filler = string(g) }
}

// NewRenderer returns a Renderer with the default banner and filler.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		banner: Banner("dev"),
		filler: string(DefaultFiller),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render composes one frame and delivers it with a single Write and Flush.
func (r *Renderer) Render(w Writer, size Size, cursor Cursor, lines []string) error {
	fb := AcquireFrame()
	defer ReleaseFrame(fb)

	r.compose(fb, size, cursor, lines)

	if _, err := w.Write(fb.Bytes()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing frame: %w", err)
	}
	return nil
}

// Frame returns the bytes Render would write, without writing them.
func (r *Renderer) Frame(size Size, cursor Cursor, lines []string) []byte {
	fb := AcquireFrame()
	defer ReleaseFrame(fb)

	r.compose(fb, size, cursor, lines)
	return bytes.Clone(fb.Bytes())
}

func (r *Renderer) compose(fb *FrameBuffer, size Size, cursor Cursor, lines []string) {
	fb.WriteString(terminal.CursorHide)
	fb.WriteString(terminal.CursorHome)

	bannerRow := -1
	if len(lines) == 0 && r.banner != "" {
		bannerRow = size.Rows / 3
	}

	for y := range size.Rows {
		switch {
		case y < len(lines):
			fb.WriteString(width.Truncate(lines[y], size.Cols))
		case y == bannerRow:
			r.writeBanner(fb, size.Cols)
		default:
			fb.WriteString(r.filler)
		}
		fb.WriteString(terminal.ClearLine)
		if y < size.Rows-1 {
			fb.WriteString("\r\n")
		}
	}

	fb.AppendFunc(func(b []byte) []byte {
		return terminal.AppendCursorPos(b, cursor.Row, cursor.Col)
	})
	fb.WriteString(terminal.CursorShow)
}

// writeBanner centers the banner in cols cells. The left padding starts
// with the filler glyph and continues with spaces.
func (r *Renderer) writeBanner(fb *FrameBuffer, cols int) {
	text := width.Truncate(r.banner, cols)
	padding := (cols - width.Width(text)) / 2
	if padding > 0 {
		fb.WriteString(r.filler)
		padding--
	}
	if padding > 0 {
		fb.WriteString(strings.Repeat(" ", padding))
	}
	fb.WriteString(text)
}
