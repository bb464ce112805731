// ABOUTME: PTY harness for e2e tests: builds the kilo-go binary once and drives it through a pseudo-terminal
// ABOUTME: Captures screen output, sends keys and signals, and checks terminal attributes after exit

package e2e

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/creack/pty"

	"github.com/mauromedda/kilo-go/pkg/tui/terminal"
)

var (
	buildOnce sync.Once
	binPath   string
	buildErr  error
)

// buildBinary compiles cmd/kilo-go into a temp dir shared by all tests.
func buildBinary(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		dir, err := os.MkdirTemp("", "kilo-go-e2e")
		if err != nil {
			buildErr = err
			return
		}
		binPath = filepath.Join(dir, "kilo-go")
		out, err := exec.Command("go", "build", "-o", binPath, "../cmd/kilo-go").CombinedOutput()
		if err != nil {
			buildErr = errors.New(string(out))
		}
	})
	if buildErr != nil {
		t.Fatalf("building kilo-go: %v", buildErr)
	}
	return binPath
}

// session is one running kilo-go process attached to a pty.
type session struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	tty    *os.File
	before terminal.Attributes

	mu     sync.Mutex
	out    bytes.Buffer
	exited chan struct{}
	err    error
}

// startKilo launches the binary on a fresh 24x80 pty.
func startKilo(t *testing.T, args ...string) *session {
	t.Helper()
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}
	bin := buildBinary(t)

	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 80}); err != nil {
		t.Fatal(err)
	}
	before, err := terminal.NewFileTerminal(tty, tty).Attributes()
	if err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command(bin, args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = tty, tty, tty
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir())
	cmd.Dir = t.TempDir()
	if err := cmd.Start(); err != nil {
		t.Fatalf("starting kilo-go: %v", err)
	}

	s := &session{cmd: cmd, ptmx: ptmx, tty: tty, before: before, exited: make(chan struct{})}
	go s.drain()
	go func() {
		s.err = cmd.Wait()
		close(s.exited)
	}()
	return s
}

func (s *session) drain() {
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.out.Write(buf[:n])
			s.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

func (s *session) output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.String()
}

// expectStringTimeout waits until want appears in the captured output.
func (s *session) expectStringTimeout(t *testing.T, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(s.output(), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q; output so far: %q", want, s.output())
}

func (s *session) send(t *testing.T, data string) {
	t.Helper()
	if _, err := s.ptmx.WriteString(data); err != nil {
		t.Fatalf("writing to pty: %v", err)
	}
}

// sendCtrl sends Ctrl+letter.
func (s *session) sendCtrl(t *testing.T, letter byte) {
	t.Helper()
	s.send(t, string([]byte{letter & 0x1f}))
}

// waitExit waits for the process and returns its exit code.
func (s *session) waitExit(t *testing.T, timeout time.Duration) int {
	t.Helper()
	select {
	case <-s.exited:
	case <-time.After(timeout):
		_ = s.cmd.Process.Kill()
		t.Fatalf("kilo-go did not exit within %v; output: %q", timeout, s.output())
	}
	var exitErr *exec.ExitError
	if errors.As(s.err, &exitErr) {
		return exitErr.ExitCode()
	}
	if s.err != nil {
		t.Fatalf("waiting for kilo-go: %v", s.err)
	}
	return 0
}

// expectRestored checks the pty is back in the attributes it started with.
func (s *session) expectRestored(t *testing.T) {
	t.Helper()
	after, err := terminal.NewFileTerminal(s.tty, s.tty).Attributes()
	if err != nil {
		t.Fatal(err)
	}
	if !after.Equal(s.before) {
		t.Error("terminal attributes not restored after exit")
	}
	if !strings.Contains(s.output(), terminal.AltScreenExit) {
		t.Error("alternate screen was not left")
	}
}

func (s *session) close() {
	select {
	case <-s.exited:
	default:
		_ = s.cmd.Process.Kill()
		<-s.exited
	}
	_ = s.tty.Close()
	_ = s.ptmx.Close()
}
