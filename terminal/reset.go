package terminal

import (
	"io"
	"os"
)

var resetSequence = []byte(
	"\x1b[?1003l\x1b[?1002l\x1b[?1000l\x1b[?1006l" + // mouse tracking off
		"\x1b[?25h" + // cursor on
		"\x1b[?1049l" + // leave alternate screen
		"\x1b[0m" +
		"\x1b[?7h", // autowrap on
)

// EmergencyReset restores a usable tty from a crash path where Fini may not run
func EmergencyReset(w io.Writer) {
	_, _ = w.Write(resetSequence)
	if f, ok := w.(*os.File); ok {
		_ = f.Sync()
	}
}
