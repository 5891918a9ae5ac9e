package terminal

import "github.com/gdamore/tcell/v2"

// Key represents a parsed input key
type Key uint16

const (
	KeyNone Key = iota
	KeyRune     // Printable character (check Event.Rune)
	KeyEscape
	KeyEnter
	KeyTab
	KeyCtrlC
	KeyOther
)

func convertKey(ev *tcell.EventKey) (Key, rune) {
	switch ev.Key() {
	case tcell.KeyRune:
		return KeyRune, ev.Rune()
	case tcell.KeyEscape:
		return KeyEscape, 0
	case tcell.KeyEnter:
		return KeyEnter, 0
	case tcell.KeyTab:
		return KeyTab, 0
	case tcell.KeyCtrlC:
		return KeyCtrlC, 0
	default:
		return KeyOther, 0
	}
}
