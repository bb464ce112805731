// ABOUTME: Tests for the editor session against the VirtualTerminal fake
// ABOUTME: Covers quit and restore, cursor clamping, size policy, pacing, and error shutdown

package editor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mauromedda/kilo-go/internal/config"
	"github.com/mauromedda/kilo-go/pkg/tui"
	"github.com/mauromedda/kilo-go/pkg/tui/key"
	"github.com/mauromedda/kilo-go/pkg/tui/terminal"
)

func newSession(t *testing.T, vt *terminal.VirtualTerminal, lines LineProvider, opts ...Option) *Session {
	t.Helper()
	s, err := New(vt, lines, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

func assertRestored(t *testing.T, vt *terminal.VirtualTerminal, s *Session) {
	t.Helper()
	if !vt.Current().Equal(s.RawMode().Original()) {
		t.Error("original attributes not restored")
	}
	if !strings.HasSuffix(vt.Output(), terminal.AltScreenExit+terminal.CursorShow) {
		t.Error("output should end by leaving the alternate screen and showing the cursor")
	}
	if s.State() != StateTerminating {
		t.Errorf("State() = %v, want terminating", s.State())
	}
}

func TestSession_QuitRestoresTerminal(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(24, 80)
	vt.FeedString("x\x11")
	s := newSession(t, vt, nil)

	if !vt.Current().IsRaw() {
		t.Fatal("New() should leave the terminal in raw mode")
	}

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	assertRestored(t, vt, s)

	out := vt.Output()
	if !strings.HasPrefix(out, terminal.AltScreenEnter) {
		t.Errorf("output should start on the alternate screen: %q", out[:min(len(out), 16)])
	}
	if !strings.Contains(out, tui.Banner("dev")) {
		t.Error("empty session should draw the banner")
	}

	// Close after Run is a no-op.
	before := vt.SetCount()
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	if vt.SetCount() != before {
		t.Error("second Close() touched the terminal again")
	}
}

func TestSession_NavigationMovesCursor(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(24, 80)
	vt.FeedString("\x1b[B\x1b[B\x1b[C\x11")
	s := newSession(t, vt, nil)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := s.Cursor(); got != (tui.Cursor{Col: 1, Row: 2}) {
		t.Errorf("Cursor() = %+v, want {1 2}", got)
	}
	if !strings.Contains(vt.Output(), "\x1b[3;2H") {
		t.Error("last frame should place the cursor at row 3, column 2")
	}
}

func TestSession_MoveCursorClamps(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(24, 80)
	s := newSession(t, vt, nil)
	defer s.Close()

	tests := []struct {
		name  string
		keys  []key.KeyType
		times int
		want  tui.Cursor
	}{
		{name: "left at origin", keys: []key.KeyType{key.KeyLeft}, times: 1, want: tui.Cursor{}},
		{name: "up at origin", keys: []key.KeyType{key.KeyUp}, times: 1, want: tui.Cursor{}},
		{name: "right to edge", keys: []key.KeyType{key.KeyRight}, times: 200, want: tui.Cursor{Col: 79}},
		{name: "page down", keys: []key.KeyType{key.KeyPageDown}, times: 1, want: tui.Cursor{Col: 79, Row: 23}},
		{name: "down past bottom", keys: []key.KeyType{key.KeyDown}, times: 5, want: tui.Cursor{Col: 79, Row: 23}},
		{name: "page up", keys: []key.KeyType{key.KeyPageUp}, times: 1, want: tui.Cursor{Col: 79}},
		{name: "left one", keys: []key.KeyType{key.KeyLeft}, times: 1, want: tui.Cursor{Col: 78}},
	}

	// Cases run in order; each starts where the previous one stopped.
	for _, tt := range tests {
		for range tt.times {
			for _, k := range tt.keys {
				s.MoveCursor(k)
			}
		}
		if got := s.Cursor(); got != tt.want {
			t.Errorf("%s: Cursor() = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestSession_HandleKey(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(24, 80)
	s := newSession(t, vt, nil)
	defer s.Close()

	for _, k := range []key.Key{key.Char('a'), key.Escape, key.Ctrl('s'), key.Char(0x7f)} {
		if !s.HandleKey(k) {
			t.Errorf("HandleKey(%v) should keep running", k)
		}
	}
	if s.Cursor() != (tui.Cursor{}) {
		t.Errorf("non-navigation keys moved the cursor to %+v", s.Cursor())
	}
	if !s.HandleKey(key.Key{Type: key.KeyDown}) || s.Cursor().Row != 1 {
		t.Error("Down should move the cursor")
	}
	if s.HandleKey(key.Ctrl('q')) {
		t.Error("Ctrl+Q should stop the loop")
	}
	if s.State() != StateTerminating {
		t.Errorf("State() = %v after Ctrl+Q", s.State())
	}
}

func TestSession_ContentHidesBanner(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(5, 20)
	vt.FeedString("\x11")
	s := newSession(t, vt, StaticLines{"hello", "world"})

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	out := vt.Output()
	if !strings.Contains(out, "hello"+terminal.ClearLine+"\r\nworld") {
		t.Errorf("content rows missing from %q", out)
	}
	if strings.Contains(out, "version") {
		t.Error("banner drawn over content")
	}
}

func TestSession_SizeFromProbe(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(0, 0)
	vt.FailSize(terminal.ErrSizeUnavailable)
	vt.FeedString("\x1b[30;100R")
	s := newSession(t, vt, nil)
	defer s.Close()

	if got := s.Size(); got != (tui.Size{Rows: 30, Cols: 100}) {
		t.Errorf("Size() = %+v, want 30x100", got)
	}
}

func TestSession_SizePolicy(t *testing.T) {
	t.Parallel()

	t.Run("fallback", func(t *testing.T) {
		t.Parallel()
		vt := terminal.NewVirtualTerminal(0, 0)
		vt.FailSize(terminal.ErrSizeUnavailable)
		s := newSession(t, vt, nil)
		defer s.Close()

		if got := s.Size(); got != (tui.Size{Rows: 24, Cols: 80}) {
			t.Errorf("Size() = %+v, want 24x80 fallback", got)
		}
	})

	t.Run("custom fallback", func(t *testing.T) {
		t.Parallel()
		settings := config.Defaults()
		settings.FallbackRows, settings.FallbackCols = 10, 40
		vt := terminal.NewVirtualTerminal(0, 0)
		vt.FailSize(terminal.ErrSizeUnavailable)
		vt.FeedString("\x1b[garbageR")
		s := newSession(t, vt, nil, WithSettings(settings))
		defer s.Close()

		if got := s.Size(); got != (tui.Size{Rows: 10, Cols: 40}) {
			t.Errorf("Size() = %+v, want 10x40 fallback", got)
		}
	})

	t.Run("fatal", func(t *testing.T) {
		t.Parallel()
		settings := config.Defaults()
		settings.SizeProbe = config.SizeProbeFatal
		vt := terminal.NewVirtualTerminal(0, 0)
		vt.FailSize(terminal.ErrSizeUnavailable)
		original := vt.Current()

		_, err := New(vt, nil, WithSettings(settings))
		if !errors.Is(err, terminal.ErrTerminalProtocol) {
			t.Fatalf("New() error = %v, want ErrTerminalProtocol", err)
		}
		if !vt.Current().Equal(original) {
			t.Error("terminal left in raw mode after fatal size probe")
		}
	})
}

func TestSession_RawModeFailure(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(24, 80)
	vt.FailAttributes(errors.New("ENOTTY"), nil)

	if _, err := New(vt, nil); !errors.Is(err, terminal.ErrTerminalQuery) {
		t.Errorf("New() error = %v, want ErrTerminalQuery", err)
	}
}

func TestSession_ReadErrorRestores(t *testing.T) {
	t.Parallel()
	errIO := errors.New("EIO")

	vt := terminal.NewVirtualTerminal(24, 80)
	s := newSession(t, vt, nil)
	vt.FailRead(errIO)

	if err := s.Run(context.Background()); !errors.Is(err, errIO) {
		t.Fatalf("Run() error = %v, want EIO", err)
	}
	assertRestored(t, vt, s)
}

func TestSession_RenderErrorRestoresAttributes(t *testing.T) {
	t.Parallel()
	errIO := errors.New("EIO")

	vt := terminal.NewVirtualTerminal(24, 80)
	s := newSession(t, vt, nil)
	vt.FailWrite(errIO)

	if err := s.Run(context.Background()); !errors.Is(err, errIO) {
		t.Fatalf("Run() error = %v, want EIO", err)
	}
	if !vt.Current().Equal(s.RawMode().Original()) {
		t.Error("attributes must be restored even when output fails")
	}
}

func TestSession_ContextCancel(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(24, 80)
	s := newSession(t, vt, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want deadline exceeded", err)
	}
	assertRestored(t, vt, s)

	// enter alt screen, one frame, restore: idle blocking mode never redraws.
	if vt.WriteCount() != 3 {
		t.Errorf("WriteCount = %d, want 3", vt.WriteCount())
	}
}

func TestSession_NonblockingPacing(t *testing.T) {
	t.Parallel()

	settings := config.Defaults()
	settings.Nonblocking = true
	settings.FrameRate = 20

	vt := terminal.NewVirtualTerminal(24, 80)
	s := newSession(t, vt, nil, WithSettings(settings))

	ctx, cancel := context.WithTimeout(context.Background(), 220*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want deadline exceeded", err)
	}

	// 50ms budget over 220ms allows about five frames.
	frames := vt.WriteCount() - 2
	if frames < 2 || frames > 7 {
		t.Errorf("rendered %d frames in 220ms at 20fps", frames)
	}
}

func TestSleep(t *testing.T) {
	t.Parallel()

	if err := sleep(context.Background(), -time.Second); err != nil {
		t.Errorf("sleep(negative) = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("sleep(cancelled) = %v, want context.Canceled", err)
	}
}
