// ABOUTME: BSD and darwin termios ioctl request numbers.
// ABOUTME: TIOCSETAF applies attributes after draining output and discarding input.

//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios      = unix.TIOCGETA
	ioctlSetTermiosFlush = unix.TIOCSETAF
)
