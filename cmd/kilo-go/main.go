// ABOUTME: CLI entry point for kilo-go with terminal restoration on panic and signals
// ABOUTME: Parses flags, loads config, sets up logging, and runs the editor session

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/kilo-go/internal/config"
	"github.com/mauromedda/kilo-go/internal/editor"
	kilolog "github.com/mauromedda/kilo-go/internal/log"
	"github.com/mauromedda/kilo-go/pkg/tui"
	"github.com/mauromedda/kilo-go/pkg/tui/terminal"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errSignal marks a session ended by a termination signal.
var errSignal = errors.New("terminated by signal")

func main() {
	args, err := parseFlags("kilo-go", os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if args.version {
		fmt.Printf("kilo-go %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run performs the initialization sequence and dispatches to the selected mode.
func run(args cliArgs) error {
	settings, err := loadSettings(args)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(settings, args.verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	if args.keys {
		return runKeys(context.Background(), os.Stdin, os.Stdout, settings)
	}

	lines := editor.StaticLines(nil)
	if path := args.file(); path != "" {
		if lines, err = editor.LoadFile(path); err != nil {
			return err
		}
	}

	sigCh, stop := notifySignals()
	defer stop()

	sess, err := editor.New(terminal.NewProcessTerminal(), lines,
		editor.WithSettings(settings),
		editor.WithRenderer(tui.NewRenderer(tui.WithBanner(tui.Banner(version)))),
	)
	if err != nil {
		kilolog.Error("startup: %v", err)
		return err
	}

	err = watch(context.Background(), sigCh, sess.RawMode(), sess.Run)
	if err != nil {
		kilolog.Error("session: %v", err)
	}
	return err
}

// loadSettings reads the explicit -config file, or the global and project
// files, then applies flag overrides.
func loadSettings(args cliArgs) (*config.Settings, error) {
	var (
		s   *config.Settings
		err error
	)
	if args.config != "" {
		s, err = config.LoadFile(args.config)
	} else {
		cwd, cerr := os.Getwd()
		if cerr != nil {
			return nil, fmt.Errorf("getting working directory: %w", cerr)
		}
		s, err = config.Load(cwd)
	}
	if err != nil {
		return nil, err
	}

	if args.nonblocking {
		s.Nonblocking = true
	}
	return s, nil
}

// setupLogging sets the level and opens the log file. Without a log_file
// logs are discarded unless -verbose asks for the default file.
func setupLogging(s *config.Settings, verbose bool) (func(), error) {
	level, err := kilolog.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if verbose {
		level = kilolog.LevelDebug
	}
	kilolog.SetLevel(level)

	path := s.LogFile
	if path == "" {
		if !verbose {
			return func() {}, nil
		}
		path = config.DefaultLogFile()
	}

	f, err := kilolog.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return func() {
		kilolog.SetOutput(io.Discard)
		_ = f.Close()
	}, nil
}

// notifySignals relays the signals that end a session. It is called
// before raw mode is entered so no signal can skip the restore.
func notifySignals() (<-chan os.Signal, func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	return sigCh, func() { signal.Stop(sigCh) }
}

// watch runs loop next to a signal watcher. A signal cancels the loop,
// which stops reading keys so raw mode can be restored before exit.
func watch(ctx context.Context, sigCh <-chan os.Signal, raw *terminal.RawMode, loop func(context.Context) error) error {
	g, gCtx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer terminal.RecoverGoroutine(raw)
		select {
		case sig := <-sigCh:
			kilolog.Warn("received %v, shutting down", sig)
			return fmt.Errorf("%w: %v", errSignal, sig)
		case <-done:
			return nil
		}
	})

	g.Go(func() error {
		defer close(done)
		defer terminal.RestoreOnPanic(raw)
		err := loop(gCtx)
		if errors.Is(err, context.Canceled) && errors.Is(context.Cause(gCtx), errSignal) {
			// The watcher's error explains the cancellation.
			return nil
		}
		return err
	})

	return g.Wait()
}
