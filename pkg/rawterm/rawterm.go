//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

// Package rawterm switches a terminal into the non-canonical, no-echo mode
// used for single keypress input, and back.
package rawterm

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Terminal holds the settings captured before raw mode was entered.
// The snapshot is written once by MakeRaw and only read afterwards, so
// Restore may be called from a signal handling goroutine.
type Terminal struct {
	fd     int
	cooked unix.Termios
	raw    unix.Termios

	once       sync.Once
	restoreErr error
}

// GetState reads the current terminal settings of fd.
func GetState(fd int) (unix.Termios, error) {
	t, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return unix.Termios{}, fmt.Errorf("get termios: %w", err)
	}
	return *t, nil
}

// MakeRaw captures the current settings of fd and applies raw mode:
// canonical line buffering and echo are turned off and reads return after
// a single byte. Signals generated by the terminal (Ctrl+C) remain enabled.
func MakeRaw(fd int) (*Terminal, error) {
	cooked, err := GetState(fd)
	if err != nil {
		return nil, err
	}

	raw := cooked
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VEOL] = 1
	raw.Cc[unix.VEOF] = 2
	// Non-canonical reads are governed by VMIN/VTIME: one byte, no timeout.
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &raw); err != nil {
		return nil, fmt.Errorf("set raw termios: %w", err)
	}

	return &Terminal{fd: fd, cooked: cooked, raw: raw}, nil
}

// Restore puts back the settings captured by MakeRaw. Only the first call
// touches the terminal; later calls return the first call's result.
func (t *Terminal) Restore() error {
	t.once.Do(func() {
		cooked := t.cooked
		if err := unix.IoctlSetTermios(t.fd, ioctlWriteTermios, &cooked); err != nil {
			t.restoreErr = fmt.Errorf("restore termios: %w", err)
		}
	})
	return t.restoreErr
}

// Cooked returns the settings captured before raw mode.
func (t *Terminal) Cooked() unix.Termios {
	return t.cooked
}

// Raw returns the settings applied by MakeRaw.
func (t *Terminal) Raw() unix.Termios {
	return t.raw
}

// Fd returns the terminal file descriptor.
func (t *Terminal) Fd() int {
	return t.fd
}
