package terminal

import "github.com/gdamore/tcell/v2"

// MouseButton represents mouse button identity
type MouseButton uint8

const (
	MouseBtnNone MouseButton = iota
	MouseBtnLeft
	MouseBtnMiddle
	MouseBtnRight
	MouseBtnWheelUp
	MouseBtnWheelDown
)

// String returns human-readable button name
func (b MouseButton) String() string {
	switch b {
	case MouseBtnLeft:
		return "Left"
	case MouseBtnMiddle:
		return "Middle"
	case MouseBtnRight:
		return "Right"
	case MouseBtnWheelUp:
		return "WheelUp"
	case MouseBtnWheelDown:
		return "WheelDown"
	default:
		return "None"
	}
}

// mouseButton maps a tcell button mask to the primary pressed button, left wins
func mouseButton(mask tcell.ButtonMask) MouseButton {
	switch {
	case mask&tcell.Button1 != 0:
		return MouseBtnLeft
	case mask&tcell.Button3 != 0:
		return MouseBtnMiddle
	case mask&tcell.Button2 != 0:
		return MouseBtnRight
	case mask&tcell.WheelUp != 0:
		return MouseBtnWheelUp
	case mask&tcell.WheelDown != 0:
		return MouseBtnWheelDown
	default:
		return MouseBtnNone
	}
}
