package physics

import (
	"github.com/lixenwraith/market-bubbles/parameter"
	"github.com/lixenwraith/market-bubbles/vmath"
)

// ResolveCollision separates two overlapping bodies along their connecting axis and exchanges
// the axial velocity components as equal-mass point particles, scaled by CollisionRestitution
// Returns false without mutation if the discs do not overlap
func ResolveCollision(a, b *Body) bool {
	pa, pb := vmath.Vec2F{X: a.X, Y: a.Y}, vmath.Vec2F{X: b.X, Y: b.Y}
	dist := vmath.V2FDist(pa, pb)
	minDist := a.Radius + b.Radius
	if dist >= minDist {
		return false
	}

	// Coincident centers separate along +x
	angle := vmath.V2FAngle(vmath.V2FSub(pb, pa))

	// Overlap correction, half each
	shift := vmath.V2FPolar((minDist-dist)/2, angle)
	pa, pb = vmath.V2FSub(pa, shift), vmath.V2FAdd(pb, shift)
	a.X, a.Y = pa.X, pa.Y
	b.X, b.Y = pb.X, pb.Y

	// Velocities in the collision frame from speed and heading
	va := toAxisFrame(vmath.Vec2F{X: a.VX, Y: a.VY}, angle)
	vb := toAxisFrame(vmath.Vec2F{X: b.VX, Y: b.VY}, angle)

	// Equal masses swap the axial component, the tangential one is kept
	va.X, vb.X = vb.X, va.X

	va, vb = fromAxisFrame(va, angle), fromAxisFrame(vb, angle)
	a.VX, a.VY = va.X, va.Y
	b.VX, b.VY = vb.X, vb.Y
	Damp(a, parameter.CollisionRestitution)
	Damp(b, parameter.CollisionRestitution)
	return true
}

// toAxisFrame rotates v so X lies along the collision axis and Y along its normal
func toAxisFrame(v vmath.Vec2F, angle float64) vmath.Vec2F {
	return vmath.V2FPolar(vmath.V2FMag(v), vmath.V2FAngle(v)-angle)
}

func fromAxisFrame(v vmath.Vec2F, angle float64) vmath.Vec2F {
	return vmath.V2FPolar(vmath.V2FMag(v), vmath.V2FAngle(v)+angle)
}
