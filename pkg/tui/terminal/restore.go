// ABOUTME: RestoreOnPanic recovers from panics, disables raw mode, and prints the stack trace.
// ABOUTME: Intended for use as a deferred call in the goroutine that owns the terminal.

package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
)

// exit is swapped in tests.
var exit = os.Exit

// RestoreOnPanic should be deferred right after EnableRawMode succeeds.
// On panic it leaves the alternate screen, restores the original
// attributes, prints the panic value and stack trace, then exits with
// code 1.
func RestoreOnPanic(r *RawMode) {
	v := recover()
	if v == nil {
		return
	}

	_ = r.Disable()

	fmt.Fprintf(os.Stderr, "\npanic: %v\n\n%s\n", v, debug.Stack())
	exit(1)
}

// RecoverGoroutine should be deferred at the top of background goroutines
// that run while the terminal is in raw mode. Unlike RestoreOnPanic it
// does NOT exit, allowing the main goroutine to handle shutdown.
func RecoverGoroutine(r *RawMode) {
	v := recover()
	if v == nil {
		return
	}

	_ = r.Disable()

	fmt.Fprintf(os.Stderr, "\ngoroutine panic: %v\n\n%s\n", v, debug.Stack())
}
