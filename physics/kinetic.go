package physics

import "github.com/lixenwraith/market-bubbles/market"

// Body is one bubble's physical state plus the market payload it carries
type Body struct {
	X, Y   float64 // Center in surface pixels
	VX, VY float64 // Velocity in surface pixels per frame
	Radius float64 // Fixed at creation

	Market market.Market
}

// Speed returns the velocity magnitude
func (b *Body) Speed() float64 {
	return hypot(b.VX, b.VY)
}

// Contains reports whether (x, y) lies strictly inside the body's disc
func (b *Body) Contains(x, y float64) bool {
	dx, dy := x-b.X, y-b.Y
	return dx*dx+dy*dy < b.Radius*b.Radius
}

// Bounds is the drawable surface size in pixels
type Bounds struct {
	Width, Height float64
}

// Empty reports whether the surface has no drawable area
func (b Bounds) Empty() bool {
	return !(b.Width > 0) || !(b.Height > 0)
}
