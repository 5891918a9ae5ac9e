package input

import "github.com/lixenwraith/market-bubbles/terminal"

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	IntentQuit       // q, Q, Ctrl+C
	IntentEscape     // ESC dismisses the detail panel
	IntentToggleMute // m
	IntentResize     // Terminal resize event
	IntentSelect     // Primary button press at Col, Row
)

// Intent is a terminal event reduced to what the application acts on
type Intent struct {
	Type     IntentType
	Col, Row int // For IntentSelect
}

// KeyTable maps keys to intents
type KeyTable struct {
	SpecialKeys map[terminal.Key]IntentType
	Runes       map[rune]IntentType
}

// DefaultKeyTable returns the standard bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[terminal.Key]IntentType{
			terminal.KeyCtrlC:  IntentQuit,
			terminal.KeyEscape: IntentEscape,
		},
		Runes: map[rune]IntentType{
			'q': IntentQuit,
			'Q': IntentQuit,
			'm': IntentToggleMute,
		},
	}
}

// Resolve translates one terminal event, unbound input yields IntentNone
func (k *KeyTable) Resolve(ev terminal.Event) Intent {
	switch ev.Type {
	case terminal.EventResize:
		return Intent{Type: IntentResize}
	case terminal.EventMouse:
		if IsSelect(ev) {
			return Intent{Type: IntentSelect, Col: ev.MouseX, Row: ev.MouseY}
		}
	case terminal.EventKey:
		if ev.Key == terminal.KeyRune {
			return Intent{Type: k.Runes[ev.Rune]}
		}
		return Intent{Type: k.SpecialKeys[ev.Key]}
	}
	return Intent{}
}
