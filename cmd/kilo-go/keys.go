// ABOUTME: Key dump mode: prints the name of every decoded key until Ctrl+Q or end of input
// ABOUTME: Uses raw mode and the signal watcher on a terminal, a timed ReaderSource for pipes and files

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/mauromedda/kilo-go/internal/config"
	kilolog "github.com/mauromedda/kilo-go/internal/log"
	"github.com/mauromedda/kilo-go/pkg/tui/input"
	"github.com/mauromedda/kilo-go/pkg/tui/key"
	"github.com/mauromedda/kilo-go/pkg/tui/terminal"
)

// keyPollInterval bounds each wait for a key on a terminal so a signal
// is noticed between keys.
const keyPollInterval = 100 * time.Millisecond

// runKeys decodes stdin. On a terminal the output goes to the alternate
// screen, which is left again on exit or on a termination signal.
func runKeys(ctx context.Context, stdin, stdout *os.File, s *config.Settings) (err error) {
	if !term.IsTerminal(int(stdin.Fd())) {
		src := input.NewReaderSource(stdin)
		defer src.Close()
		return dumpKeys(ctx, src, stdout, "\n", s.EscapeTimeout, -1)
	}

	sigCh, stop := notifySignals()
	defer stop()

	pt := terminal.NewFileTerminal(stdin, stdout)
	raw, err := terminal.EnableRawMode(pt)
	if err != nil {
		return fmt.Errorf("enabling raw mode: %w", err)
	}
	defer func() { err = errors.Join(err, raw.Disable()) }()

	return watch(ctx, sigCh, raw, func(ctx context.Context) error {
		if _, err := pt.Write([]byte(terminal.ClearScreen + terminal.CursorHome + "Press keys; Ctrl+Q quits.\r\n")); err != nil {
			return err
		}
		return dumpKeys(ctx, pt, pt, "\r\n", s.EscapeTimeout, keyPollInterval)
	})
}

// dumpKeys writes one line per key. A writer with a Flush method is
// flushed after every line. A negative wait blocks on src, and running
// out of bytes means end of input. Otherwise each idle wait checks ctx
// and keeps reading.
func dumpKeys(ctx context.Context, src key.Source, w io.Writer, eol string, escTimeout, wait time.Duration) error {
	flush := func() error { return nil }
	if f, ok := w.(interface{ Flush() error }); ok {
		flush = f.Flush
	}
	if err := flush(); err != nil {
		return err
	}

	dec := key.NewDecoder(src, key.WithWait(wait), key.WithEscapeTimeout(escTimeout))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		for k, err := range dec.Keys() {
			if errors.Is(err, terminal.ErrInputClosed) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading key: %w", err)
			}

			kilolog.Debug("key %v", k)
			if _, err := fmt.Fprintf(w, "%-10s %s", k, describe(k)+eol); err != nil {
				return err
			}
			if err := flush(); err != nil {
				return err
			}
			if k == key.Ctrl('q') {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if wait < 0 {
			return nil
		}
	}
}

// describe names the key kind.
func describe(k key.Key) string {
	switch {
	case k == key.Escape:
		return "escape"
	case k.Type == key.KeyCtrl:
		return "control"
	case k.IsNavigation():
		return "navigation"
	}
	return "character"
}
