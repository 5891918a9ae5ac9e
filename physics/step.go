package physics

import "github.com/lixenwraith/market-bubbles/parameter"

// StepStats counts events of one simulation step
type StepStats struct {
	WallBounces int
	Collisions  int
}

// Step advances all bodies by one frame in place
// Per body in store order: integrate, wall containment, then collisions against every later body
// Pairs are visited in ascending (i, j) order and mutate both sides, so results are order-dependent
// Damping follows the pairwise pass, and a final position clamp keeps centers inside the surface
// after overlap correction
func Step(bodies []Body, bounds Bounds) StepStats {
	var stats StepStats

	for i := range bodies {
		b := &bodies[i]
		Integrate(b)
		if ReflectBounds(b, bounds) {
			stats.WallBounces++
		}
		for j := i + 1; j < len(bodies); j++ {
			if ResolveCollision(b, &bodies[j]) {
				stats.Collisions++
			}
		}
	}

	for i := range bodies {
		Damp(&bodies[i], parameter.Damping)
		ClampBounds(&bodies[i], bounds)
	}

	return stats
}
