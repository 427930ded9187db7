//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package rawterm

import (
	"os"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func openPTY(t *testing.T) (ptmx, tty *os.File) {
	t.Helper()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	t.Cleanup(func() {
		tty.Close()
		ptmx.Close()
	})
	return ptmx, tty
}

func TestMakeRaw_ClearsCanonicalAndEcho(t *testing.T) {
	_, tty := openPTY(t)
	fd := int(tty.Fd())

	before, err := GetState(fd)
	require.NoError(t, err)
	require.NotZero(t, before.Lflag&unix.ICANON, "pty should start in canonical mode")

	term, err := MakeRaw(fd)
	require.NoError(t, err)

	now, err := GetState(fd)
	require.NoError(t, err)
	assert.Zero(t, now.Lflag&unix.ICANON)
	assert.Zero(t, now.Lflag&unix.ECHO)
	assert.NotZero(t, now.Lflag&unix.ISIG, "Ctrl+C must still raise SIGINT")
	assert.EqualValues(t, 1, now.Cc[unix.VMIN])
	assert.EqualValues(t, 0, now.Cc[unix.VTIME])
	assert.Equal(t, before, term.Cooked())
}

func TestRestore_PutsBackSnapshot(t *testing.T) {
	_, tty := openPTY(t)
	fd := int(tty.Fd())

	before, err := GetState(fd)
	require.NoError(t, err)

	term, err := MakeRaw(fd)
	require.NoError(t, err)
	require.NoError(t, term.Restore())

	after, err := GetState(fd)
	require.NoError(t, err)
	assert.Equal(t, before.Lflag, after.Lflag)
	assert.Equal(t, before.Cc, after.Cc)
}

func TestRestore_OnlyOnce(t *testing.T) {
	_, tty := openPTY(t)
	fd := int(tty.Fd())

	term, err := MakeRaw(fd)
	require.NoError(t, err)
	require.NoError(t, term.Restore())

	// A second restore must not clobber settings changed since.
	again, err := MakeRaw(fd)
	require.NoError(t, err)
	require.NoError(t, term.Restore())

	now, err := GetState(fd)
	require.NoError(t, err)
	assert.Zero(t, now.Lflag&unix.ICANON)
	require.NoError(t, again.Restore())
}

func TestMakeRaw_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "notatty")
	require.NoError(t, err)
	defer f.Close()

	_, err = MakeRaw(int(f.Fd()))
	require.Error(t, err)
}
