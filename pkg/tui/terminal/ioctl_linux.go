// ABOUTME: Linux termios ioctl request numbers.
// ABOUTME: TCSETSF applies attributes after draining output and discarding input.

//go:build linux

package terminal

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios      = unix.TCGETS
	ioctlSetTermiosFlush = unix.TCSETSF
)
