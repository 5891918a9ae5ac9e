package physics

import (
	"math"

	"github.com/lixenwraith/market-bubbles/parameter"
	"github.com/lixenwraith/market-bubbles/vmath"
)

// Integrate advances position by one frame of velocity
func Integrate(b *Body) {
	b.X += b.VX
	b.Y += b.VY
}

// ReflectBoundsX inverts and damps horizontal velocity on wall contact, then clamps x into [r, w-r]
// Returns true if reflection occurred
func ReflectBoundsX(b *Body, width float64) bool {
	hit := b.X-b.Radius < 0 || b.X+b.Radius > width
	if hit {
		b.VX *= -parameter.WallRestitution
	}
	b.X = vmath.ClampF(b.X, b.Radius, width-b.Radius)
	return hit
}

// ReflectBoundsY inverts and damps vertical velocity on wall contact, then clamps y into [r, h-r]
// Returns true if reflection occurred
func ReflectBoundsY(b *Body, height float64) bool {
	hit := b.Y-b.Radius < 0 || b.Y+b.Radius > height
	if hit {
		b.VY *= -parameter.WallRestitution
	}
	b.Y = vmath.ClampF(b.Y, b.Radius, height-b.Radius)
	return hit
}

// ReflectBounds handles both axis boundary collisions, returns true if any reflection occurred
func ReflectBounds(b *Body, bounds Bounds) bool {
	rx := ReflectBoundsX(b, bounds.Width)
	ry := ReflectBoundsY(b, bounds.Height)
	return rx || ry
}

// ClampBounds pins the center inside the surface without touching velocity
func ClampBounds(b *Body, bounds Bounds) {
	b.X = vmath.ClampF(b.X, b.Radius, bounds.Width-b.Radius)
	b.Y = vmath.ClampF(b.Y, b.Radius, bounds.Height-b.Radius)
}

// Damp scales velocity by factor
func Damp(b *Body, factor float64) {
	b.VX *= factor
	b.VY *= factor
}

func hypot(x, y float64) float64 {
	return math.Hypot(x, y)
}
