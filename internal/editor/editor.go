// ABOUTME: Editor session: raw mode, size discovery, and the render/decode/handle loop
// ABOUTME: Ctrl+Q terminates with an orderly restore; navigation keys move a clamped cursor

package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mauromedda/kilo-go/internal/config"
	"github.com/mauromedda/kilo-go/internal/log"
	"github.com/mauromedda/kilo-go/pkg/tui"
	"github.com/mauromedda/kilo-go/pkg/tui/key"
	"github.com/mauromedda/kilo-go/pkg/tui/terminal"
)

// State is the lifecycle state of a Session.
type State int32

const (
	StateRunning     State = iota // Rendering and handling keys
	StateTerminating              // Quit requested or loop ended
)

// pollInterval bounds each blocking wait for the first byte of a key so
// the loop notices context cancellation.
const pollInterval = 100 * time.Millisecond

// Session owns the terminal for the lifetime of one editor run. It is not
// safe for concurrent use; only the loop goroutine touches it.
type Session struct {
	term     terminal.Terminal
	raw      *terminal.RawMode
	dec      *key.Decoder
	renderer *tui.Renderer
	lines    LineProvider

	settings *config.Settings
	size     tui.Size
	cursor   tui.Cursor
	state    State
	dirty    bool
}

// Option configures a Session.
type Option func(*Session)

// WithSettings applies loop pacing, escape timeout, and size probe policy.
func WithSettings(s *config.Settings) Option {
	return func(sess *Session) {
		if s != nil {
			sess.settings = s
		}
	}
}

// WithRenderer replaces the default frame renderer.
func WithRenderer(r *tui.Renderer) Option {
	return func(sess *Session) {
		if r != nil {
			sess.renderer = r
		}
	}
}

// New puts t into raw mode on the alternate screen and discovers its size.
// On error the terminal is left as it was found.
func New(t terminal.Terminal, lines LineProvider, opts ...Option) (*Session, error) {
	if lines == nil {
		lines = StaticLines(nil)
	}
	s := &Session{
		term:     t,
		lines:    lines,
		renderer: tui.NewRenderer(),
		settings: config.Defaults(),
		dirty:    true,
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, err := terminal.EnableRawMode(t)
	if err != nil {
		return nil, fmt.Errorf("enabling raw mode: %w", err)
	}
	s.raw = raw

	size, err := s.discoverSize()
	if err != nil {
		return nil, errors.Join(err, raw.Disable())
	}
	s.size = size

	wait := pollInterval
	if s.settings.Nonblocking {
		wait = 0
	}
	s.dec = key.NewDecoder(t,
		key.WithWait(wait),
		key.WithEscapeTimeout(s.settings.EscapeTimeout),
	)

	log.Info("editor started: %dx%d, nonblocking=%v", size.Rows, size.Cols, s.settings.Nonblocking)
	return s, nil
}

// discoverSize queries the terminal and applies the size probe policy when
// the answer is unusable.
func (s *Session) discoverSize() (tui.Size, error) {
	rows, cols, err := terminal.GetSize(s.term)
	if err == nil && rows > 0 && cols > 0 {
		return tui.Size{Rows: rows, Cols: cols}, nil
	}
	if err == nil {
		err = fmt.Errorf("%w: reported size %dx%d", terminal.ErrTerminalProtocol, rows, cols)
	}
	if s.settings.SizeProbe == config.SizeProbeFatal {
		return tui.Size{}, fmt.Errorf("probing terminal size: %w", err)
	}

	fallback := tui.Size{Rows: s.settings.FallbackRows, Cols: s.settings.FallbackCols}
	log.Warn("terminal size unavailable (%v); using %dx%d", err, fallback.Rows, fallback.Cols)
	return fallback, nil
}

// Size returns the screen size fixed at startup.
func (s *Session) Size() tui.Size { return s.size }

// Cursor returns the current cursor position.
func (s *Session) Cursor() tui.Cursor { return s.cursor }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Run drives the loop until Ctrl+Q, an I/O error, or ctx cancellation.
// The terminal is restored before Run returns in every case. Ctrl+Q
// returns nil.
func (s *Session) Run(ctx context.Context) error {
	budget := s.settings.FrameBudget()

	for s.state == StateRunning {
		if err := ctx.Err(); err != nil {
			s.state = StateTerminating
			return errors.Join(err, s.Close())
		}

		start := time.Now()
		if s.dirty || s.settings.Nonblocking {
			if err := s.renderer.Render(s.term, s.size, s.cursor, s.lines.VisibleLines(s.size.Rows)); err != nil {
				s.state = StateTerminating
				return errors.Join(fmt.Errorf("rendering frame: %w", err), s.Close())
			}
			s.dirty = false
		}

		k, ok, err := s.dec.Next()
		if err != nil {
			s.state = StateTerminating
			return errors.Join(fmt.Errorf("reading key: %w", err), s.Close())
		}
		if ok {
			log.Debug("key %v", k)
			s.dirty = true
			if !s.HandleKey(k) {
				break
			}
		}

		if s.settings.Nonblocking {
			if err := sleep(ctx, budget-time.Since(start)); err != nil {
				s.state = StateTerminating
				return errors.Join(err, s.Close())
			}
		}
	}

	log.Info("editor terminating")
	return s.Close()
}

// HandleKey applies one key and reports whether the loop keeps running.
// Keys other than Ctrl+Q and navigation are accepted and ignored.
func (s *Session) HandleKey(k key.Key) bool {
	switch {
	case k == key.Ctrl('q'):
		s.state = StateTerminating
		return false
	case k.IsNavigation():
		s.MoveCursor(k.Type)
	}
	return true
}

// MoveCursor moves one step for arrows and a full screen for page keys,
// staying inside the screen.
func (s *Session) MoveCursor(t key.KeyType) {
	c := s.cursor
	switch t {
	case key.KeyLeft:
		c.Col--
	case key.KeyRight:
		c.Col++
	case key.KeyUp:
		c.Row--
	case key.KeyDown:
		c.Row++
	case key.KeyPageUp:
		c.Row -= s.size.Rows
	case key.KeyPageDown:
		c.Row += s.size.Rows
	}
	s.cursor = c.Clamp(s.size)
}

// Close leaves the alternate screen, shows the cursor, and restores the
// original attributes. Later calls return the first result.
func (s *Session) Close() error {
	s.state = StateTerminating
	return s.raw.Disable()
}

// RawMode exposes the raw-mode handle for panic restoration.
func (s *Session) RawMode() *terminal.RawMode { return s.raw }

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
