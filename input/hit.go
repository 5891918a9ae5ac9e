package input

import (
	"github.com/lixenwraith/market-bubbles/physics"
	"github.com/lixenwraith/market-bubbles/terminal"
)

// HitTest returns the index of the topmost body whose disc strictly contains (x, y)
// Bodies are painted in slice order, so the search runs back to front
func HitTest(x, y float64, bodies []physics.Body) (int, bool) {
	for i := len(bodies) - 1; i >= 0; i-- {
		if bodies[i].Contains(x, y) {
			return i, true
		}
	}
	return -1, false
}

// PointerMapper converts terminal cell coordinates to surface pixels
type PointerMapper struct {
	Metrics terminal.Metrics
}

// Map returns the surface coordinate of the clicked cell's center
func (p PointerMapper) Map(col, row int) (x, y float64) {
	return p.Metrics.CellCenter(col, row)
}

// IsSelect reports whether a terminal event is a primary-button press
func IsSelect(ev terminal.Event) bool {
	return ev.Type == terminal.EventMouse && ev.MouseBtn == terminal.MouseBtnLeft
}
